package analysis

import (
	"context"
	"sort"
	"time"

	"github.com/azure/brand-pulse/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// AuthorResolver looks up an item author on a platform
type AuthorResolver interface {
	ResolveAuthor(ctx context.Context, authorID string) (models.AuthorProfile, error)
}

// Ranker resolves the distinct authors of relevant items and ranks them
type Ranker struct {
	platform string
	resolver AuthorResolver
	policy   RankingPolicy
	timeout  time.Duration
}

// MaxInfluencers caps the length of every influencer ranking
const MaxInfluencers = 5

// NewRanker creates a ranker for one platform. Limit is clamped to 1..MaxInfluencers.
func NewRanker(platform string, resolver AuthorResolver, policy RankingPolicy) *Ranker {
	if policy.Limit <= 0 || policy.Limit > MaxInfluencers {
		policy.Limit = MaxInfluencers
	}
	if policy.Concurrency <= 0 {
		policy.Concurrency = 8
	}
	return &Ranker{platform: platform, resolver: resolver, policy: policy}
}

// Rank returns at most policy.Limit influencers, highest first. Each author is resolved
// once; authors whose lookup fails are left out. Equal keys keep discovery order.
func (r *Ranker) Rank(ctx context.Context, items []RelevantItem) []models.InfluencerRecord {
	authors := uniqueAuthors(items)
	if len(authors) == 0 {
		return []models.InfluencerRecord{}
	}

	resolved := make([]*models.InfluencerRecord, len(authors))

	var g errgroup.Group
	g.SetLimit(r.policy.Concurrency)

	for i, authorID := range authors {
		i, authorID := i, authorID
		g.Go(func() error {
			callCtx, cancel := ctx, context.CancelFunc(func() {})
			if r.timeout > 0 {
				callCtx, cancel = context.WithTimeout(ctx, r.timeout)
			}
			defer cancel()

			profile, err := r.resolver.ResolveAuthor(callCtx, authorID)
			if err != nil {
				logrus.Debugf("Skipping %s author %s: %v", r.platform, authorID, err)
				return nil
			}

			record := &models.InfluencerRecord{
				ID:        authorID,
				Username:  profile.DisplayName,
				Followers: max(profile.Followers, 0),
				Verified:  profile.Verified,
			}
			if r.policy.ByEngagement {
				record.Engagement = averageEngagement(profile.RecentPosts, r.policy.SampleSize)
			}
			resolved[i] = record
			return nil
		})
	}
	_ = g.Wait()

	ranked := make([]models.InfluencerRecord, 0, len(resolved))
	for _, rec := range resolved {
		if rec != nil {
			ranked = append(ranked, *rec)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return r.key(ranked[i]) > r.key(ranked[j])
	})

	if len(ranked) > r.policy.Limit {
		ranked = ranked[:r.policy.Limit]
	}

	return ranked
}

func (r *Ranker) key(rec models.InfluencerRecord) float64 {
	if r.policy.ByEngagement {
		return float64(rec.Followers) * rec.Engagement
	}
	return float64(rec.Followers)
}

// uniqueAuthors returns author IDs in first-seen order
func uniqueAuthors(items []RelevantItem) []string {
	seen := make(map[string]bool)
	var authors []string

	for _, r := range items {
		id := r.Item.Author
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		authors = append(authors, id)
	}

	return authors
}

// averageEngagement is the mean of likes+comments over the first sampleSize posts
func averageEngagement(posts []models.EngagementSample, sampleSize int) float64 {
	if sampleSize > 0 && len(posts) > sampleSize {
		posts = posts[:sampleSize]
	}
	if len(posts) == 0 {
		return 0
	}

	total := 0
	for _, p := range posts {
		total += p.Likes + p.Comments
	}
	return float64(total) / float64(len(posts))
}
