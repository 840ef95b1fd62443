package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/azure/brand-pulse/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Platform is the set of capabilities one social platform must provide
type Platform interface {
	GetName() string
	IsEnabled() bool
	SearchItems(ctx context.Context, variant string) ([]models.RawItem, error)
	GetProfile(ctx context.Context, brand string) (models.BrandProfile, error)
	AuthorResolver
}

// Adapter runs the scoring pipeline for one platform. It is the same for every
// platform; behaviour differs only through the PlatformProfile.
type Adapter struct {
	platform     Platform
	profile      PlatformProfile
	classifier   SentimentClassifier
	ranker       *Ranker
	fetchTimeout time.Duration
}

// NewAdapter creates an adapter for a platform. A zero fetchTimeout leaves each
// external call bounded only by the caller's context.
func NewAdapter(platform Platform, profile PlatformProfile, fetchTimeout time.Duration) *Adapter {
	ranker := NewRanker(platform.GetName(), platform, profile.Ranking)
	ranker.timeout = fetchTimeout

	return &Adapter{
		platform:     platform,
		profile:      profile,
		classifier:   NewKeywordClassifier(profile.Sentiment),
		ranker:       ranker,
		fetchTimeout: fetchTimeout,
	}
}

// WithClassifier swaps the sentiment classifier
func (a *Adapter) WithClassifier(c SentimentClassifier) *Adapter {
	a.classifier = c
	return a
}

// Name returns the platform name
func (a *Adapter) Name() string {
	return a.platform.GetName()
}

// Analyze produces the metrics of one platform for a brand. It fails only when the
// brand is blank, the platform is not configured, or every search call failed.
func (a *Adapter) Analyze(ctx context.Context, brand string) (*models.PlatformResult, error) {
	name := a.platform.GetName()

	if strings.TrimSpace(brand) == "" {
		return nil, ErrEmptySubject
	}
	if !a.platform.IsEnabled() {
		return nil, fmt.Errorf("%s: %w", name, ErrNotConfigured)
	}

	variants := GenerateVariants(brand)
	logrus.Debugf("Searching %s with %d brand variants", name, len(variants))

	items, followers, err := a.fetch(ctx, brand, variants)
	if err != nil {
		return nil, err
	}

	relevant := FilterMentions(items, variants, brand, a.profile)
	logrus.Infof("%s: %d of %d items relevant to %q", name, len(relevant), len(items), brand)

	var (
		tally       Tally
		engagement  float64
		influencers []models.InfluencerRecord
		wg          sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		tally = TallyMentions(relevant, brand, name, a.classifier)
		engagement = EngagementScore(relevant, a.profile.Weights)
	}()
	go func() {
		defer wg.Done()
		influencers = a.ranker.Rank(ctx, relevant)
	}()
	wg.Wait()

	return &models.PlatformResult{
		Platform: name,
		Metrics: models.SocialMediaMetrics{
			Followers:      followers,
			Mentions:       len(relevant),
			Engagement:     engagement,
			Sentiment:      tally.Sentiment,
			MentionTypes:   tally.MentionTypes,
			TopInfluencers: influencers,
			ReachEstimate:  EstimateReach(relevant, influencers, a.profile.Reach),
		},
		Mentions: tally.Mentions,
	}, nil
}

// fetch searches every variant and looks up the brand profile concurrently.
// Items are unioned in variant order and deduplicated by ID.
func (a *Adapter) fetch(ctx context.Context, brand string, variants []string) ([]models.RawItem, int, error) {
	name := a.platform.GetName()
	results := make([][]models.RawItem, len(variants))
	errs := make([]error, len(variants))
	followers := 0

	var g errgroup.Group

	for i, variant := range variants {
		i, variant := i, variant
		g.Go(func() error {
			callCtx, cancel := a.callContext(ctx)
			defer cancel()

			items, err := a.platform.SearchItems(callCtx, variant)
			if err != nil {
				logrus.Errorf("Failed to search %s for variant '%s': %v", name, variant, err)
				errs[i] = err
				return nil
			}
			results[i] = items
			return nil
		})
	}

	g.Go(func() error {
		callCtx, cancel := a.callContext(ctx)
		defer cancel()

		profile, err := a.platform.GetProfile(callCtx, brand)
		if err != nil {
			logrus.Warnf("Failed to get %s profile for %q, defaulting followers to 0: %v", name, brand, err)
			return nil
		}
		followers = max(profile.Followers, 0)
		return nil
	})

	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed == len(variants) {
		return nil, 0, &FetchError{Platform: name, Op: "search", Err: errors.Join(errs...)}
	}

	seen := make(map[string]bool)
	var items []models.RawItem
	for _, batch := range results {
		for _, item := range batch {
			if item.ID != "" {
				if seen[item.ID] {
					continue
				}
				seen[item.ID] = true
			}
			items = append(items, item)
		}
	}

	return items, followers, nil
}

func (a *Adapter) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.fetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.fetchTimeout)
}
