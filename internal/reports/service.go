package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/azure/brand-pulse/internal/models"
	"github.com/azure/brand-pulse/internal/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Report formats
const (
	FormatDetailed = "detailed"
	FormatSummary  = "summary"
)

// Section names used in Report.SectionErrors
const (
	SectionWebsites = "websites"
	SectionSocial   = "social"
	SectionNews     = "news"
)

var (
	// ErrInvalidDateRange is returned for a date range other than last24h, last7d, last30d or last90d
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidFormat is returned for a format other than detailed or summary
	ErrInvalidFormat = errors.New("invalid report format")
)

var dateRanges = map[string]time.Duration{
	"last24h": 24 * time.Hour,
	"last7d":  7 * 24 * time.Hour,
	"last30d": 30 * 24 * time.Hour,
	"last90d": 90 * 24 * time.Hour,
}

// Sections selects which stored analyses a report includes
type Sections struct {
	Websites bool `json:"websites"`
	Social   bool `json:"social"`
	News     bool `json:"news"`
}

// Options describes the report to generate
type Options struct {
	Name      string   `json:"name"`
	Sections  Sections `json:"sections"`
	DateRange string   `json:"date_range"`
	Format    string   `json:"format"`
}

// Notifier delivers generated reports
type Notifier interface {
	SendReport(ctx context.Context, report *models.Report) error
}

// Service builds reports from stored analyses
type Service struct {
	store    storage.AnalysisRepository
	notifier Notifier
	clock    func() time.Time
}

// NewService creates a report service. A nil notifier disables delivery.
func NewService(store storage.AnalysisRepository, notifier Notifier) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		clock:    time.Now,
	}
}

// Since returns the start of a named date range ending at now
func Since(dateRange string, now time.Time) (time.Time, error) {
	d, ok := dateRanges[dateRange]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateRange, dateRange)
	}
	return now.Add(-d), nil
}

// Generate collects the selected sections of a user's analyses concurrently. A
// section that fails to load is recorded in SectionErrors and left empty; the
// report itself is stored and then delivered.
func (s *Service) Generate(ctx context.Context, opts Options, userID string) (*models.Report, error) {
	now := s.clock().UTC()

	since, err := Since(opts.DateRange, now)
	if err != nil {
		return nil, err
	}

	format := opts.Format
	if format == "" {
		format = FormatDetailed
	}
	if format != FormatDetailed && format != FormatSummary {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, opts.Format)
	}

	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = fmt.Sprintf("Brand report %s", now.Format("2006-01-02"))
	}

	report := &models.Report{
		ID:              uuid.NewString(),
		Name:            name,
		UserID:          userID,
		GeneratedAt:     now,
		Format:          format,
		DateRange:       opts.DateRange,
		WebsiteAnalyses: []models.WebsiteAnalysis{},
		SocialAnalyses:  []models.SocialAnalysis{},
		NewsAnalyses:    []models.NewsAnalysis{},
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed = make(map[string]string)
	)

	section := func(key string, enabled bool, fetch func() error) {
		if !enabled {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fetch(); err != nil {
				logrus.Errorf("Failed to load %s section for report %s: %v", key, report.ID, err)
				mu.Lock()
				failed[key] = err.Error()
				mu.Unlock()
			}
		}()
	}

	section(SectionWebsites, opts.Sections.Websites, func() (err error) {
		report.WebsiteAnalyses, err = load[models.WebsiteAnalysis](ctx, s.store, storage.KindWebsite, userID, since)
		return err
	})
	section(SectionSocial, opts.Sections.Social, func() (err error) {
		report.SocialAnalyses, err = load[models.SocialAnalysis](ctx, s.store, storage.KindSocial, userID, since)
		return err
	})
	section(SectionNews, opts.Sections.News, func() (err error) {
		report.NewsAnalyses, err = load[models.NewsAnalysis](ctx, s.store, storage.KindNews, userID, since)
		return err
	})

	wg.Wait()

	if len(failed) > 0 {
		report.SectionErrors = failed
	}
	summarize(report)

	rec, err := storage.NewRecord(storage.KindReport, report.Name, userID, now, report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}

	logrus.Infof("Generated report '%s' for %s: %d website, %d social, %d news analyses",
		report.Name, userID, len(report.WebsiteAnalyses), len(report.SocialAnalyses), len(report.NewsAnalyses))

	if s.notifier != nil {
		if err := s.notifier.SendReport(ctx, report); err != nil {
			logrus.Errorf("Failed to deliver report %s: %v", report.ID, err)
		}
	}

	return report, nil
}

// List returns the stored reports of a user, newest first
func (s *Service) List(ctx context.Context, userID string) ([]models.Report, error) {
	return load[models.Report](ctx, s.store, storage.KindReport, userID, time.Time{})
}

// load decodes every record of a kind since a time. Undecodable records are skipped.
func load[T any](ctx context.Context, store storage.AnalysisRepository, kind, userID string, since time.Time) ([]T, error) {
	records, err := store.ListSince(ctx, kind, userID, since)
	if err != nil {
		return []T{}, err
	}

	out := make([]T, 0, len(records))
	for _, rec := range records {
		var v T
		if err := rec.Decode(&v); err != nil {
			logrus.Warnf("Skipping unreadable %s record for '%s': %v", kind, rec.Subject, err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// summarize totals mentions and sentiment over the social and news sections
func summarize(report *models.Report) {
	report.TotalMentions = 0
	report.SentimentSummary = models.SentimentCounts{}

	for _, a := range report.SocialAnalyses {
		report.TotalMentions += a.Summary.TotalMentions
		addSentiment(&report.SentimentSummary, a.Summary.Sentiment)
	}
	for _, a := range report.NewsAnalyses {
		report.TotalMentions += a.Summary.TotalArticles
		addSentiment(&report.SentimentSummary, a.Summary.Sentiment)
	}
}

func addSentiment(dst *models.SentimentCounts, src models.SentimentCounts) {
	dst.Positive += src.Positive
	dst.Negative += src.Negative
	dst.Neutral += src.Neutral
}
