package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/azure/brand-pulse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func acmeItems() []models.RawItem {
	return []models.RawItem{
		{ID: "1", Author: "u1", Text: "Acme Corp is great! #AcmeCorp", Likes: 10, Shares: 1, Comments: 2},
		{ID: "2", Author: "u2", Text: "I hate acme corp service", Likes: 1},
		{ID: "3", Author: "u3", Text: "unrelated post", Likes: 50},
	}
}

func newAcmeTwitter() *MockPlatform {
	platform := NewMockPlatform(PlatformTwitter, true)
	platform.On("SearchItems", mock.Anything, mock.Anything).Return(acmeItems(), nil)
	platform.On("GetProfile", mock.Anything, "Acme Corp").Return(models.BrandProfile{Followers: 1234}, nil)
	platform.On("ResolveAuthor", mock.Anything, "u1").Return(models.AuthorProfile{ID: "u1", Followers: 500}, nil)
	platform.On("ResolveAuthor", mock.Anything, "u2").Return(models.AuthorProfile{ID: "u2", Followers: 1000}, nil)
	return platform
}

func TestAdapter_Analyze(t *testing.T) {
	platform := newAcmeTwitter()
	adapter := NewAdapter(platform, DefaultProfiles()[PlatformTwitter], time.Second)

	result, err := adapter.Analyze(context.Background(), "Acme Corp")

	require.NoError(t, err)
	assert.Equal(t, PlatformTwitter, result.Platform)
	assert.Empty(t, result.Error)

	metrics := result.Metrics
	assert.Equal(t, 1234, metrics.Followers)
	assert.Equal(t, 2, metrics.Mentions)
	assert.Equal(t, models.SentimentCounts{Positive: 1, Negative: 1, Neutral: 0}, metrics.Sentiment)
	assert.Equal(t, models.MentionTypeCounts{Direct: 1, Indirect: 1}, metrics.MentionTypes)
	assert.Equal(t, 19.0, metrics.Engagement)

	require.Len(t, metrics.TopInfluencers, 2)
	assert.Equal(t, "u2", metrics.TopInfluencers[0].ID)
	assert.Equal(t, "u1", metrics.TopInfluencers[1].ID)
	assert.InDelta(t, 2800, metrics.ReachEstimate, 1e-9)

	require.Len(t, result.Mentions, 2)
	assert.Equal(t, models.SentimentPositive, result.Mentions[0].Sentiment)
	assert.Equal(t, models.MentionDirect, result.Mentions[0].MentionType)
	assert.Equal(t, models.SentimentNegative, result.Mentions[1].Sentiment)

	// unrelated author is never resolved
	platform.AssertNotCalled(t, "ResolveAuthor", mock.Anything, "u3")
}

func TestAdapter_AnalyzeSearchesEveryVariantOnce(t *testing.T) {
	platform := newAcmeTwitter()
	adapter := NewAdapter(platform, DefaultProfiles()[PlatformTwitter], 0)

	_, err := adapter.Analyze(context.Background(), "Acme Corp")

	require.NoError(t, err)
	for _, v := range GenerateVariants("Acme Corp") {
		platform.AssertCalled(t, "SearchItems", mock.Anything, v)
	}
	platform.AssertNumberOfCalls(t, "SearchItems", len(GenerateVariants("Acme Corp")))
}

func TestAdapter_AnalyzeInvariants(t *testing.T) {
	for name, profile := range DefaultProfiles() {
		t.Run(name, func(t *testing.T) {
			platform := newAcmeTwitter()
			result, err := NewAdapter(platform, profile, time.Second).Analyze(context.Background(), "Acme Corp")
			require.NoError(t, err)

			m := result.Metrics
			assert.Equal(t, m.Mentions, m.Sentiment.Total())
			assert.Equal(t, m.Mentions, m.MentionTypes.Direct+m.MentionTypes.Indirect)
			assert.LessOrEqual(t, len(m.TopInfluencers), 5)
			assert.GreaterOrEqual(t, m.Engagement, 0.0)
			assert.GreaterOrEqual(t, m.ReachEstimate, 0.0)
		})
	}
}

func TestAdapter_AnalyzeErrors(t *testing.T) {
	t.Run("Empty brand", func(t *testing.T) {
		platform := NewMockPlatform(PlatformTwitter, true)
		_, err := NewAdapter(platform, DefaultProfiles()[PlatformTwitter], 0).Analyze(context.Background(), "   ")

		assert.ErrorIs(t, err, ErrEmptySubject)
		platform.AssertNotCalled(t, "SearchItems", mock.Anything, mock.Anything)
	})

	t.Run("Not configured", func(t *testing.T) {
		platform := NewMockPlatform(PlatformFacebook, false)
		_, err := NewAdapter(platform, DefaultProfiles()[PlatformFacebook], 0).Analyze(context.Background(), "Acme Corp")

		assert.ErrorIs(t, err, ErrNotConfigured)
		assert.Contains(t, err.Error(), PlatformFacebook)
	})

	t.Run("Every search fails", func(t *testing.T) {
		platform := NewMockPlatform(PlatformLinkedIn, true)
		platform.On("SearchItems", mock.Anything, mock.Anything).Return(nil, errors.New("429 too many requests"))
		platform.On("GetProfile", mock.Anything, mock.Anything).Return(models.BrandProfile{}, nil)

		_, err := NewAdapter(platform, DefaultProfiles()[PlatformLinkedIn], 0).Analyze(context.Background(), "Acme Corp")

		var fetchErr *FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, PlatformLinkedIn, fetchErr.Platform)
		assert.Contains(t, err.Error(), "429")
	})
}

func TestAdapter_AnalyzeDegradesGracefully(t *testing.T) {
	platform := NewMockPlatform(PlatformTwitter, true)
	platform.On("SearchItems", mock.Anything, "Acme Corp").Return(nil, errors.New("timeout"))
	platform.On("SearchItems", mock.Anything, mock.Anything).Return(acmeItems(), nil)
	platform.On("GetProfile", mock.Anything, mock.Anything).Return(models.BrandProfile{}, errors.New("private account"))
	platform.On("ResolveAuthor", mock.Anything, "u1").Return(models.AuthorProfile{}, errors.New("suspended"))
	platform.On("ResolveAuthor", mock.Anything, "u2").Return(models.AuthorProfile{Followers: 1000}, nil)

	result, err := NewAdapter(platform, DefaultProfiles()[PlatformTwitter], time.Second).Analyze(context.Background(), "Acme Corp")

	require.NoError(t, err)
	assert.Equal(t, 0, result.Metrics.Followers)
	assert.Equal(t, 2, result.Metrics.Mentions)
	require.Len(t, result.Metrics.TopInfluencers, 1)
	assert.Equal(t, "u2", result.Metrics.TopInfluencers[0].ID)
}

func TestAdapter_AnalyzeNoRelevantItems(t *testing.T) {
	platform := NewMockPlatform(PlatformInstagram, true)
	platform.On("SearchItems", mock.Anything, mock.Anything).Return([]models.RawItem{{ID: "x", Text: "nothing here"}}, nil)
	platform.On("GetProfile", mock.Anything, mock.Anything).Return(models.BrandProfile{Followers: 5}, nil)

	result, err := NewAdapter(platform, DefaultProfiles()[PlatformInstagram], 0).Analyze(context.Background(), "Acme Corp")

	require.NoError(t, err)
	assert.Equal(t, 0, result.Metrics.Mentions)
	assert.Equal(t, models.SentimentCounts{}, result.Metrics.Sentiment)
	assert.Equal(t, 0.0, result.Metrics.Engagement)
	assert.Equal(t, 0.0, result.Metrics.ReachEstimate)
	assert.Empty(t, result.Metrics.TopInfluencers)
}

type constantClassifier string

func (c constantClassifier) Classify(models.RawItem) string { return string(c) }

func TestAdapter_WithClassifier(t *testing.T) {
	platform := newAcmeTwitter()
	adapter := NewAdapter(platform, DefaultProfiles()[PlatformTwitter], 0).WithClassifier(constantClassifier(models.SentimentNeutral))

	result, err := adapter.Analyze(context.Background(), "Acme Corp")

	require.NoError(t, err)
	assert.Equal(t, models.SentimentCounts{Neutral: 2}, result.Metrics.Sentiment)
}
