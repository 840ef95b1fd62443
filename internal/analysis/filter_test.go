package analysis

import (
	"testing"

	"github.com/azure/brand-pulse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterMentions(t *testing.T) {
	variants := GenerateVariants("Acme Corp")
	profiles := DefaultProfiles()

	tests := []struct {
		name     string
		item     models.RawItem
		profile  PlatformProfile
		expected bool
		reason   MatchReason
	}{
		{
			name:     "Text match is case-insensitive",
			item:     models.RawItem{ID: "1", Text: "Loving my new ACME CORP toaster"},
			profile:  profiles[PlatformFacebook],
			expected: true,
			reason:   MatchText,
		},
		{
			name:     "Hyphenated variant",
			item:     models.RawItem{ID: "2", Text: "acme-corp support was quick"},
			profile:  profiles[PlatformFacebook],
			expected: true,
			reason:   MatchText,
		},
		{
			name: "Comment match",
			item: models.RawItem{
				ID:      "3",
				Text:    "Which toaster should I buy?",
				Replies: []models.Comment{{Text: "Get the AcmeCorp one"}},
			},
			profile:  profiles[PlatformLinkedIn],
			expected: true,
			reason:   MatchComment,
		},
		{
			name:     "Unrelated post",
			item:     models.RawItem{ID: "4", Text: "unrelated post"},
			profile:  profiles[PlatformTwitter],
			expected: false,
		},
		{
			name:     "Empty text with topic annotation on contextual platform",
			item:     models.RawItem{ID: "5", Topics: []string{"Brand: Acme Corp"}},
			profile:  profiles[PlatformTwitter],
			expected: true,
			reason:   MatchContext,
		},
		{
			name:     "Thread reply on contextual platform",
			item:     models.RawItem{ID: "6", Text: "agreed", InThread: true},
			profile:  profiles[PlatformTwitter],
			expected: true,
			reason:   MatchContext,
		},
		{
			name:     "Thread reply on non-contextual platform",
			item:     models.RawItem{ID: "7", Text: "agreed", InThread: true},
			profile:  profiles[PlatformInstagram],
			expected: false,
		},
		{
			name:     "Empty text and no signal",
			item:     models.RawItem{ID: "8"},
			profile:  profiles[PlatformTwitter],
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FilterMentions([]models.RawItem{tt.item}, variants, "Acme Corp", tt.profile)
			if !tt.expected {
				assert.Empty(t, result)
				return
			}
			require.Len(t, result, 1)
			assert.Equal(t, tt.reason, result[0].Reason)
			assert.Equal(t, tt.item.ID, result[0].Item.ID)
		})
	}
}

func TestFilterMentions_RecordsMatchedVariants(t *testing.T) {
	variants := GenerateVariants("Acme Corp")
	items := []models.RawItem{{ID: "1", Text: "Acme Corp is great! #AcmeCorp"}}

	result := FilterMentions(items, variants, "Acme Corp", DefaultProfiles()[PlatformTwitter])

	require.Len(t, result, 1)
	assert.Contains(t, result[0].Matched, "Acme Corp")
	assert.Contains(t, result[0].Matched, "AcmeCorp")
}

func TestFilterMentions_Idempotent(t *testing.T) {
	variants := GenerateVariants("Acme Corp")
	profile := DefaultProfiles()[PlatformTwitter]
	items := []models.RawItem{
		{ID: "1", Text: "Acme Corp is great! #AcmeCorp"},
		{ID: "2", Text: "I hate acme corp service"},
		{ID: "3", Text: "unrelated post"},
		{ID: "4", Text: "quote", InThread: true},
	}

	first := FilterMentions(items, variants, "Acme Corp", profile)
	second := FilterMentions(items, variants, "Acme Corp", profile)

	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}
