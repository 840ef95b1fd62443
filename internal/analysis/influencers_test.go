package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/azure/brand-pulse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func itemsByAuthors(authors ...string) []RelevantItem {
	var items []RelevantItem
	for i, a := range authors {
		items = append(items, RelevantItem{Item: models.RawItem{ID: fmt.Sprintf("p%d", i), Author: a}})
	}
	return items
}

func TestRanker_RankByFollowers(t *testing.T) {
	platform := NewMockPlatform(PlatformTwitter, true)
	followers := map[string]int{"a": 10, "b": 500, "c": 30, "d": 500, "e": 7, "f": 90, "g": 1}
	for id, n := range followers {
		platform.On("ResolveAuthor", mock.Anything, id).Return(models.AuthorProfile{ID: id, DisplayName: "user-" + id, Followers: n}, nil)
	}

	ranker := NewRanker(PlatformTwitter, platform, DefaultProfiles()[PlatformTwitter].Ranking)
	ranked := ranker.Rank(context.Background(), itemsByAuthors("a", "b", "a", "c", "d", "e", "f", "g", "b"))

	require.Len(t, ranked, 5)
	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.ID)
	}
	// ties keep discovery order
	assert.Equal(t, []string{"b", "d", "f", "c", "a"}, ids)
	assert.Equal(t, "user-b", ranked[0].Username)

	// each distinct author resolved once
	platform.AssertNumberOfCalls(t, "ResolveAuthor", len(followers))
}

func TestRanker_LimitIsCapped(t *testing.T) {
	platform := NewMockPlatform(PlatformTwitter, true)
	authors := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for i, id := range authors {
		platform.On("ResolveAuthor", mock.Anything, id).Return(models.AuthorProfile{ID: id, Followers: 100 * (i + 1)}, nil)
	}

	ranker := NewRanker(PlatformTwitter, platform, RankingPolicy{Limit: 10})
	ranked := ranker.Rank(context.Background(), itemsByAuthors(authors...))

	require.Len(t, ranked, MaxInfluencers)
	assert.Equal(t, "h", ranked[0].ID)
}

func TestRanker_SkipsFailedLookups(t *testing.T) {
	platform := NewMockPlatform(PlatformFacebook, true)
	platform.On("ResolveAuthor", mock.Anything, "ok").Return(models.AuthorProfile{Followers: 3}, nil)
	platform.On("ResolveAuthor", mock.Anything, "gone").Return(models.AuthorProfile{}, errors.New("not found"))

	ranker := NewRanker(PlatformFacebook, platform, RankingPolicy{})
	ranked := ranker.Rank(context.Background(), itemsByAuthors("gone", "ok", ""))

	require.Len(t, ranked, 1)
	assert.Equal(t, "ok", ranked[0].ID)
}

func TestRanker_NoAuthors(t *testing.T) {
	ranker := NewRanker(PlatformLinkedIn, NewMockPlatform(PlatformLinkedIn, true), RankingPolicy{})

	ranked := ranker.Rank(context.Background(), nil)

	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestRanker_RankByEngagement(t *testing.T) {
	platform := NewMockPlatform(PlatformInstagram, true)
	platform.On("ResolveAuthor", mock.Anything, "big").Return(models.AuthorProfile{
		Followers:   10000,
		RecentPosts: []models.EngagementSample{{Likes: 1, Comments: 0}, {Likes: 0, Comments: 1}},
	}, nil)
	platform.On("ResolveAuthor", mock.Anything, "engaged").Return(models.AuthorProfile{
		Followers:   1000,
		Verified:    true,
		RecentPosts: []models.EngagementSample{{Likes: 90, Comments: 10}, {Likes: 50, Comments: 50}},
	}, nil)

	ranker := NewRanker(PlatformInstagram, platform, DefaultProfiles()[PlatformInstagram].Ranking)
	ranked := ranker.Rank(context.Background(), itemsByAuthors("big", "engaged"))

	require.Len(t, ranked, 2)
	assert.Equal(t, "engaged", ranked[0].ID)
	assert.Equal(t, 100.0, ranked[0].Engagement)
	assert.True(t, ranked[0].Verified)
	assert.Equal(t, 1.0, ranked[1].Engagement)
}

func TestAverageEngagement(t *testing.T) {
	posts := []models.EngagementSample{{Likes: 10}, {Likes: 20}, {Comments: 30}, {Likes: 1000}}

	assert.Equal(t, 20.0, averageEngagement(posts, 3))
	assert.Equal(t, 265.0, averageEngagement(posts, 0))
	assert.Equal(t, 0.0, averageEngagement(nil, 10))
}
