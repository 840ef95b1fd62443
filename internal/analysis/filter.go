package analysis

import (
	"slices"
	"strings"

	"github.com/azure/brand-pulse/internal/models"
)

// MatchReason records why an item was judged relevant
type MatchReason string

const (
	MatchText    MatchReason = "text"
	MatchComment MatchReason = "comment"
	MatchContext MatchReason = "context"
)

// RelevantItem is a raw item judged to reference the brand
type RelevantItem struct {
	Item    models.RawItem
	Matched []string // variants found in the text or in a comment
	Reason  MatchReason
}

// FilterMentions keeps the items that reference any brand variant in their text, in
// one of their comments, or (when the profile allows it) through a contextual signal.
// It has no state: the same input always yields the same output.
func FilterMentions(items []models.RawItem, variants []string, brand string, profile PlatformProfile) []RelevantItem {
	lowered := make([]string, 0, len(variants))
	for _, v := range variants {
		lowered = append(lowered, strings.ToLower(v))
	}

	var relevant []RelevantItem
	for _, item := range items {
		if r, ok := matchItem(item, variants, lowered, brand, profile); ok {
			relevant = append(relevant, r)
		}
	}

	return relevant
}

func matchItem(item models.RawItem, variants, lowered []string, brand string, profile PlatformProfile) (RelevantItem, bool) {
	text := strings.ToLower(item.Text)
	result := RelevantItem{Item: item}

	if text != "" {
		for i, v := range lowered {
			if strings.Contains(text, v) {
				result.Matched = append(result.Matched, variants[i])
			}
		}
		if len(result.Matched) > 0 {
			result.Reason = MatchText
			return result, true
		}
	}

	for _, reply := range item.Replies {
		body := strings.ToLower(reply.Text)
		if body == "" {
			continue
		}
		for i, v := range lowered {
			if strings.Contains(body, v) && !slices.Contains(result.Matched, variants[i]) {
				result.Matched = append(result.Matched, variants[i])
			}
		}
	}
	if len(result.Matched) > 0 {
		result.Reason = MatchComment
		return result, true
	}

	if profile.ContextualMatch && hasContext(item, brand) {
		result.Reason = MatchContext
		return result, true
	}

	return RelevantItem{}, false
}

// hasContext reports a topic annotation naming the brand or a reply/quote thread
func hasContext(item models.RawItem, brand string) bool {
	if item.InThread {
		return true
	}

	b := strings.ToLower(strings.TrimSpace(brand))
	if b == "" {
		return false
	}
	for _, topic := range item.Topics {
		if strings.Contains(strings.ToLower(topic), b) {
			return true
		}
	}
	return false
}
