package analysis

import (
	"regexp"
	"strings"

	"github.com/azure/brand-pulse/internal/models"
)

// SentimentClassifier assigns exactly one sentiment label to an item
type SentimentClassifier interface {
	Classify(item models.RawItem) string
}

// KeywordClassifier counts positive and negative signals from a keyword table,
// emoji, typed reactions and an optional engagement ratio, then combines them
// with the rule named in SentimentRules.Combine.
type KeywordClassifier struct {
	rules         SentimentRules
	positiveEmoji *regexp.Regexp
	negativeEmoji *regexp.Regexp
	positiveReact map[string]bool
	negativeReact map[string]bool
}

var _ SentimentClassifier = (*KeywordClassifier)(nil)

// NewKeywordClassifier compiles a classifier for the given rules
func NewKeywordClassifier(rules SentimentRules) *KeywordClassifier {
	c := &KeywordClassifier{
		rules:         rules,
		positiveEmoji: emojiPattern(rules.PositiveEmoji),
		negativeEmoji: emojiPattern(rules.NegativeEmoji),
		positiveReact: upperSet(rules.PositiveReactions),
		negativeReact: upperSet(rules.NegativeReactions),
	}
	return c
}

// Classify returns "positive", "negative" or "neutral"
func (c *KeywordClassifier) Classify(item models.RawItem) string {
	if c.rules.Combine == CombineOverride {
		return c.classifyOverride(item)
	}

	positive, negative := c.Score(item)

	if positive > negative {
		return models.SentimentPositive
	} else if negative > positive {
		return models.SentimentNegative
	}

	return models.SentimentNeutral
}

// classifyOverride lets the engagement ratio decide on its own: positive when
// counts lean positive or the ratio is above High, else negative when counts
// lean negative or the ratio is below Low. The positive branch is checked first.
func (c *KeywordClassifier) classifyOverride(item models.RawItem) string {
	positive, negative := c.counts(item)
	ratio, ok := engagementRatio(item, c.rules.Signal)

	if positive > negative || (ok && ratio > c.rules.Signal.High) {
		return models.SentimentPositive
	}
	if negative > positive || (ok && ratio < c.rules.Signal.Low) {
		return models.SentimentNegative
	}

	return models.SentimentNeutral
}

// Score returns the positive and negative signal counts of an item. Under the
// counts rule the engagement signal adds one point to either side.
func (c *KeywordClassifier) Score(item models.RawItem) (int, int) {
	positive, negative := c.counts(item)
	if c.rules.Combine == CombineOverride {
		return positive, negative
	}

	switch engagementSignal(item, c.rules.Signal) {
	case 1:
		positive++
	case -1:
		negative++
	}

	return positive, negative
}

// counts tallies keywords, emoji and reactions
func (c *KeywordClassifier) counts(item models.RawItem) (int, int) {
	text := strings.ToLower(item.Text)

	positive := countKeywords(text, c.rules.Positive)
	negative := countKeywords(text, c.rules.Negative)

	if c.positiveEmoji != nil {
		positive += len(c.positiveEmoji.FindAllString(item.Text, -1))
	}
	if c.negativeEmoji != nil {
		negative += len(c.negativeEmoji.FindAllString(item.Text, -1))
	}

	for _, reaction := range item.Reactions {
		kind := strings.ToUpper(reaction.Type)
		if c.positiveReact[kind] {
			positive++
		} else if c.negativeReact[kind] {
			negative++
		}
	}

	return positive, negative
}

// countKeywords counts how many keywords of the list appear in text
func countKeywords(text string, keywords []string) int {
	count := 0
	for _, word := range keywords {
		if word != "" && strings.Contains(text, strings.ToLower(word)) {
			count++
		}
	}
	return count
}

// engagementSignal returns +1, -1 or 0
func engagementSignal(item models.RawItem, signal *EngagementSignal) int {
	ratio, ok := engagementRatio(item, signal)
	if !ok {
		return 0
	}

	if ratio > signal.High {
		return 1
	} else if ratio < signal.Low {
		return -1
	}
	return 0
}

// engagementRatio computes the ratio of the signal kind; ok is false without a known signal
func engagementRatio(item models.RawItem, signal *EngagementSignal) (float64, bool) {
	if signal == nil {
		return 0, false
	}

	switch signal.Kind {
	case SignalLikesPerComment:
		comments := item.Comments
		if comments < 1 {
			comments = 1
		}
		return float64(item.Likes) / float64(comments), true
	case SignalWeightedRatio:
		total := item.Likes + item.Comments
		if total == 0 {
			return 0, true
		}
		return float64(item.Likes*2+item.Comments) / float64(total), true
	default:
		return 0, false
	}
}

func emojiPattern(chars string) *regexp.Regexp {
	if chars == "" {
		return nil
	}
	var quoted []string
	for _, r := range chars {
		quoted = append(quoted, regexp.QuoteMeta(string(r)))
	}
	return regexp.MustCompile(strings.Join(quoted, "|"))
}

func upperSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToUpper(v)] = true
	}
	return set
}
