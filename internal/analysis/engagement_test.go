package analysis

import (
	"testing"

	"github.com/azure/brand-pulse/internal/models"
	"github.com/stretchr/testify/assert"
)

func relevant(items ...models.RawItem) []RelevantItem {
	out := make([]RelevantItem, 0, len(items))
	for _, item := range items {
		out = append(out, RelevantItem{Item: item, Reason: MatchText})
	}
	return out
}

func TestEngagementScore(t *testing.T) {
	profiles := DefaultProfiles()

	tests := []struct {
		name     string
		platform string
		items    []RelevantItem
		expected float64
	}{
		{
			name:     "Twitter weights",
			platform: PlatformTwitter,
			items: relevant(
				models.RawItem{Likes: 10, Shares: 1, Comments: 2},
				models.RawItem{Likes: 1},
			),
			expected: 19,
		},
		{
			name:     "Facebook weights",
			platform: PlatformFacebook,
			items:    relevant(models.RawItem{Likes: 4, Comments: 3, Shares: 2}),
			expected: 16,
		},
		{
			name:     "Instagram counts views only for video",
			platform: PlatformInstagram,
			items: relevant(
				models.RawItem{Likes: 10, Comments: 5, Views: 100, MediaType: models.MediaVideo},
				models.RawItem{Likes: 10, Comments: 5, Views: 100, MediaType: models.MediaImage},
			),
			expected: 70 + 20,
		},
		{
			name:     "No items",
			platform: PlatformLinkedIn,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EngagementScore(tt.items, profiles[tt.platform].Weights))
		})
	}
}

func TestEstimateReach(t *testing.T) {
	profiles := DefaultProfiles()

	t.Run("Twitter", func(t *testing.T) {
		items := relevant(
			models.RawItem{Likes: 10, Shares: 1, Comments: 2},
			models.RawItem{Likes: 1},
		)
		influencers := []models.InfluencerRecord{{Followers: 1000}, {Followers: 500, Verified: true}}

		// (10 + 1*2)*100 + 1*100 + 1500
		assert.InDelta(t, 2800, EstimateReach(items, influencers, profiles[PlatformTwitter].Reach), 1e-9)
	})

	t.Run("LinkedIn image multiplier and influencer weight", func(t *testing.T) {
		items := relevant(models.RawItem{Likes: 2, Comments: 1, Shares: 1, MediaType: models.MediaImage})
		influencers := []models.InfluencerRecord{{Followers: 100}}

		// (2 + 2 + 5)*100*1.5 + 100*1.5
		assert.InDelta(t, 1500, EstimateReach(items, influencers, profiles[PlatformLinkedIn].Reach), 1e-9)
	})

	t.Run("Instagram video, hashtags and verified engagement", func(t *testing.T) {
		items := relevant(models.RawItem{
			Text:      "#new #drop",
			Likes:     10,
			Comments:  5,
			Views:     100,
			MediaType: models.MediaVideo,
		})
		influencers := []models.InfluencerRecord{{Followers: 1000, Verified: true, Engagement: 50}}

		// 70*100*1.5*1.2 + 1000*1.5*1.5
		assert.InDelta(t, 12600+2250, EstimateReach(items, influencers, profiles[PlatformInstagram].Reach), 1e-6)
	})

	t.Run("Empty input", func(t *testing.T) {
		assert.Equal(t, 0.0, EstimateReach(nil, nil, profiles[PlatformFacebook].Reach))
	})
}

func TestScoresAreNonNegative(t *testing.T) {
	items := relevant(
		models.RawItem{Comments: 3},
		models.RawItem{Shares: 7, MediaType: models.MediaVideo, Views: 12},
		models.RawItem{Text: "#a #b #c", Likes: 1},
	)
	influencers := []models.InfluencerRecord{{Followers: 0}, {Followers: 10, Verified: true}}

	for name, profile := range DefaultProfiles() {
		t.Run(name, func(t *testing.T) {
			assert.GreaterOrEqual(t, EngagementScore(items, profile.Weights), 0.0)
			assert.GreaterOrEqual(t, EstimateReach(items, influencers, profile.Reach), 0.0)
		})
	}
}
