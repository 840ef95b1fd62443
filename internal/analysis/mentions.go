package analysis

import (
	"strings"

	"github.com/azure/brand-pulse/internal/models"
)

// ClassifyMentionType returns "direct" when the text carries an @-mention or #-tag of
// the brand, "indirect" otherwise. Both the brand as written and its
// whitespace-free form are accepted after the marker.
func ClassifyMentionType(text, brand string) string {
	text = strings.ToLower(text)
	b := strings.ToLower(strings.TrimSpace(brand))
	if b == "" {
		return models.MentionIndirect
	}

	for _, form := range []string{b, stripWhitespace(b)} {
		if strings.Contains(text, "@"+form) || strings.Contains(text, "#"+form) {
			return models.MentionDirect
		}
	}

	return models.MentionIndirect
}

// Tally holds the distributions computed from one pass over the relevant items
type Tally struct {
	Sentiment    models.SentimentCounts
	MentionTypes models.MentionTypeCounts
	Mentions     []models.Mention
}

// TallyMentions labels every relevant item once and counts the labels, so both
// distributions always sum to len(items).
func TallyMentions(items []RelevantItem, brand, platform string, classifier SentimentClassifier) Tally {
	tally := Tally{Mentions: make([]models.Mention, 0, len(items))}

	for _, r := range items {
		sentiment := classifier.Classify(r.Item)
		switch sentiment {
		case models.SentimentPositive:
			tally.Sentiment.Positive++
		case models.SentimentNegative:
			tally.Sentiment.Negative++
		default:
			sentiment = models.SentimentNeutral
			tally.Sentiment.Neutral++
		}

		mentionType := ClassifyMentionType(r.Item.Text, brand)
		if mentionType == models.MentionDirect {
			tally.MentionTypes.Direct++
		} else {
			tally.MentionTypes.Indirect++
		}

		tally.Mentions = append(tally.Mentions, models.Mention{
			ID:          r.Item.ID,
			Platform:    platform,
			Content:     r.Item.Text,
			Author:      r.Item.Author,
			URL:         r.Item.URL,
			CreatedAt:   r.Item.CreatedAt,
			Sentiment:   sentiment,
			MentionType: mentionType,
			Likes:       r.Item.Likes,
			Shares:      r.Item.Shares,
			Comments:    r.Item.Comments,
			Keywords:    r.Matched,
		})
	}

	return tally
}
