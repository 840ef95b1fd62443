package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/azure/brand-pulse/internal/analysis"
	"github.com/azure/brand-pulse/internal/config"
	"github.com/azure/brand-pulse/internal/models"
	"github.com/azure/brand-pulse/internal/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewsFetcher retrieves unclassified articles for a query
type NewsFetcher interface {
	GetName() string
	IsEnabled() bool
	FetchArticles(ctx context.Context, query string) ([]models.NewsArticle, error)
}

// WebsiteInspector fetches and scores a single page
type WebsiteInspector interface {
	Inspect(ctx context.Context, url string) (*models.WebsiteMetrics, error)
}

// Options carries the injected collaborators of a Service
type Options struct {
	Platforms []analysis.Platform
	News      NewsFetcher
	Website   WebsiteInspector
	// Profiles defaults to analysis.DefaultProfiles()
	Profiles map[string]analysis.PlatformProfile
	// Clock defaults to time.Now
	Clock func() time.Time
}

// Service runs social, news and website analyses for a subject and caches them
// per (subject, user) through the analysis repository.
type Service struct {
	config   *config.Config
	store    storage.AnalysisRepository
	adapters []*analysis.Adapter
	news     NewsFetcher
	newsTone analysis.SentimentClassifier
	website  WebsiteInspector
	clock    func() time.Time
	metrics  *Metrics
	mu       sync.RWMutex
}

// Metrics holds aggregator run counters
type Metrics struct {
	TotalAnalyses   int            `json:"total_analyses"`
	CacheHits       int            `json:"cache_hits"`
	PlatformErrors  map[string]int `json:"platform_errors"`
	SaveErrors      int            `json:"save_errors"`
	LastRun         time.Time      `json:"last_run"`
	LastRunDuration string         `json:"last_run_duration"`
	LastSubject     string         `json:"last_subject"`
}

// NewService creates a new aggregator. Only platforms listed in the configured
// SOCIAL_PLATFORMS take part in social analyses.
func NewService(cfg *config.Config, store storage.AnalysisRepository, opts Options) *Service {
	profiles := opts.Profiles
	if profiles == nil {
		profiles = analysis.DefaultProfiles()
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	s := &Service{
		config:   cfg,
		store:    store,
		news:     opts.News,
		newsTone: analysis.NewKeywordClassifier(profiles[analysis.PlatformNews].Sentiment),
		website:  opts.Website,
		clock:    clock,
		metrics:  &Metrics{PlatformErrors: make(map[string]int)},
	}

	for _, p := range opts.Platforms {
		if len(cfg.SocialPlatforms) > 0 && !slices.Contains(cfg.SocialPlatforms, p.GetName()) {
			logrus.Infof("Platform %s not in SOCIAL_PLATFORMS, skipping", p.GetName())
			continue
		}

		profile, ok := profiles[p.GetName()]
		if !ok {
			logrus.Warnf("No scoring profile for platform %s, skipping", p.GetName())
			continue
		}

		s.adapters = append(s.adapters, analysis.NewAdapter(p, profile, cfg.FetchTimeout))
	}

	return s
}

// Platforms returns the names of the platforms used for social analyses
func (s *Service) Platforms() []string {
	names := make([]string, 0, len(s.adapters))
	for _, a := range s.adapters {
		names = append(names, a.Name())
	}
	return names
}

type platformOutcome struct {
	name   string
	result *models.PlatformResult
	err    error
}

// AnalyzeSocial returns the social analysis of a brand for a user, reusing a stored
// analysis younger than the social TTL. A failing platform yields an entry with
// zero metrics and its error; the other platforms are unaffected.
func (s *Service) AnalyzeSocial(ctx context.Context, brand, userID string) (*models.SocialAnalysis, error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, analysis.ErrEmptySubject
	}

	var cached models.SocialAnalysis
	if s.loadFresh(ctx, storage.KindSocial, brand, userID, s.config.SocialTTL, &cached) {
		return &cached, nil
	}

	start := s.clock()
	logrus.Infof("Starting social analysis for '%s' across %d platforms", brand, len(s.adapters))

	var wg sync.WaitGroup
	outcomes := make(chan platformOutcome, len(s.adapters))

	for _, adapter := range s.adapters {
		wg.Add(1)
		go func(a *analysis.Adapter) {
			defer wg.Done()

			result, err := a.Analyze(ctx, brand)
			outcomes <- platformOutcome{name: a.Name(), result: result, err: err}
		}(adapter)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	platforms := make(map[string]*models.PlatformResult, len(s.adapters))
	failed := make(map[string]int)
	for o := range outcomes {
		if o.err != nil {
			logrus.Errorf("Error analyzing %s for '%s': %v", o.name, brand, o.err)
			platforms[o.name] = emptyResult(o.name, o.err)
			failed[o.name]++
			continue
		}

		logrus.Infof("Found %d mentions of '%s' on %s", o.result.Metrics.Mentions, brand, o.name)
		platforms[o.name] = o.result
	}

	result := &models.SocialAnalysis{
		ID:          uuid.NewString(),
		Brand:       brand,
		Platforms:   platforms,
		Summary:     summarizeSocial(platforms),
		LastUpdated: s.clock().UTC(),
	}

	saveFailed := !s.save(ctx, storage.KindSocial, brand, userID, result.LastUpdated, result)
	s.recordRun(brand, start, failed, saveFailed)

	logrus.Infof("Social analysis for '%s' completed: %d mentions in %v",
		brand, result.Summary.TotalMentions, s.clock().Sub(start))
	return result, nil
}

// emptyResult is the explicit zero entry of a failed platform
func emptyResult(name string, err error) *models.PlatformResult {
	return &models.PlatformResult{
		Platform: name,
		Metrics:  models.SocialMediaMetrics{TopInfluencers: []models.InfluencerRecord{}},
		Mentions: []models.Mention{},
		Error:    err.Error(),
	}
}

// AnalyzeNews returns the news analysis of a query for a user, reusing a stored
// analysis younger than the news TTL. A failed fetch yields an analysis with zero
// counts and the error, which is not stored.
func (s *Service) AnalyzeNews(ctx context.Context, query, userID string) (*models.NewsAnalysis, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, analysis.ErrEmptySubject
	}
	if s.news == nil || !s.news.IsEnabled() {
		return nil, fmt.Errorf("news: %w", analysis.ErrNotConfigured)
	}

	var cached models.NewsAnalysis
	if s.loadFresh(ctx, storage.KindNews, query, userID, s.config.NewsTTL, &cached) {
		return &cached, nil
	}

	start := s.clock()
	logrus.Infof("Starting news analysis for '%s' from %s", query, s.news.GetName())

	result := &models.NewsAnalysis{
		ID:    uuid.NewString(),
		Query: query,
	}

	fetchCtx, cancel := s.fetchContext(ctx)
	articles, err := s.news.FetchArticles(fetchCtx, query)
	cancel()

	if err != nil {
		fetchErr := &analysis.FetchError{Platform: s.news.GetName(), Op: "fetch articles", Err: err}
		logrus.Errorf("Error fetching news for '%s': %v", query, fetchErr)

		result.Articles = []models.NewsArticle{}
		result.Summary = summarizeNews(nil)
		result.Error = fetchErr.Error()
		result.LastUpdated = s.clock().UTC()
		s.recordRun(query, start, map[string]int{s.news.GetName(): 1}, false)
		return result, nil
	}

	result.Articles = s.classifyArticles(articles, query)
	result.Summary = summarizeNews(result.Articles)
	result.LastUpdated = s.clock().UTC()

	saveFailed := !s.save(ctx, storage.KindNews, query, userID, result.LastUpdated, result)
	s.recordRun(query, start, nil, saveFailed)

	logrus.Infof("News analysis for '%s' completed: %d articles", query, result.Summary.TotalArticles)
	return result, nil
}

// classifyArticles labels each article's sentiment from its title and summary and
// tags it with the query variants it mentions
func (s *Service) classifyArticles(articles []models.NewsArticle, query string) []models.NewsArticle {
	variants := analysis.GenerateVariants(query)
	classified := make([]models.NewsArticle, 0, len(articles))

	for _, a := range articles {
		text := a.Title + " " + a.Summary
		a.Sentiment = s.newsTone.Classify(models.RawItem{Text: text})

		lowered := strings.ToLower(text)
		a.Keywords = nil
		for _, v := range variants {
			if strings.Contains(lowered, strings.ToLower(v)) {
				a.Keywords = append(a.Keywords, v)
			}
		}

		classified = append(classified, a)
	}

	return classified
}

// AnalyzeWebsite returns the inspection of a page for a user, reusing a stored
// analysis younger than the website TTL. A failed inspection is returned with
// status "error" and is not stored.
func (s *Service) AnalyzeWebsite(ctx context.Context, url, userID string) (*models.WebsiteAnalysis, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, analysis.ErrEmptySubject
	}
	if s.website == nil {
		return nil, fmt.Errorf("website: %w", analysis.ErrNotConfigured)
	}

	var cached models.WebsiteAnalysis
	if s.loadFresh(ctx, storage.KindWebsite, url, userID, s.config.WebsiteTTL, &cached) {
		return &cached, nil
	}

	start := s.clock()
	result := &models.WebsiteAnalysis{
		ID:  uuid.NewString(),
		URL: url,
	}

	fetchCtx, cancel := s.fetchContext(ctx)
	metrics, err := s.website.Inspect(fetchCtx, url)
	cancel()

	result.LastUpdated = s.clock().UTC()
	if err != nil {
		logrus.Errorf("Error inspecting website %s: %v", url, err)
		result.Status = "error"
		result.Errors = []string{err.Error()}
		s.recordRun(url, start, map[string]int{"website": 1}, false)
		return result, nil
	}

	result.Status = "completed"
	result.Metrics = metrics

	saveFailed := !s.save(ctx, storage.KindWebsite, url, userID, result.LastUpdated, result)
	s.recordRun(url, start, nil, saveFailed)

	return result, nil
}

// loadFresh decodes the latest stored analysis into out when it is within ttl.
// Lookup or decode failures are logged and treated as a miss.
func (s *Service) loadFresh(ctx context.Context, kind, subject, userID string, ttl time.Duration, out any) bool {
	rec, err := s.store.Latest(ctx, kind, subject, userID)
	if err != nil {
		logrus.Warnf("Failed to look up previous %s for '%s': %v", kind, subject, err)
		return false
	}
	if rec == nil {
		return false
	}

	if !ShouldReuse(&rec.CreatedAt, s.clock(), ttl) {
		logrus.Debugf("Previous %s for '%s' is stale (created %s)", kind, subject, rec.CreatedAt.Format(time.RFC3339))
		return false
	}

	if err := rec.Decode(out); err != nil {
		logrus.Warnf("Ignoring unreadable cached %s for '%s': %v", kind, subject, err)
		return false
	}

	s.mu.Lock()
	s.metrics.CacheHits++
	s.mu.Unlock()

	logrus.Infof("Reusing %s for '%s' created at %s", kind, subject, rec.CreatedAt.Format(time.RFC3339))
	return true
}

// save stores an analysis. Failures are logged; the caller still gets its result.
func (s *Service) save(ctx context.Context, kind, subject, userID string, at time.Time, v any) bool {
	rec, err := storage.NewRecord(kind, subject, userID, at, v)
	if err == nil {
		err = s.store.Save(ctx, rec)
	}
	if err != nil {
		logrus.Errorf("Failed to store %s for '%s': %v", kind, subject, err)
		return false
	}
	return true
}

func (s *Service) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.FetchTimeout)
}

func (s *Service) recordRun(subject string, start time.Time, failed map[string]int, saveFailed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TotalAnalyses++
	s.metrics.LastRun = s.clock()
	s.metrics.LastRunDuration = s.metrics.LastRun.Sub(start).String()
	s.metrics.LastSubject = subject
	for name, n := range failed {
		s.metrics.PlatformErrors[name] += n
	}
	if saveFailed {
		s.metrics.SaveErrors++
	}
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}
