package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/azure/brand-pulse/internal/config"
	"github.com/azure/brand-pulse/internal/models"
	"github.com/azure/brand-pulse/internal/reports"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// refreshConcurrency bounds how many watched subjects are analyzed at once
const refreshConcurrency = 4

// Analyzer runs analyses for watched subjects
type Analyzer interface {
	AnalyzeSocial(ctx context.Context, brand, userID string) (*models.SocialAnalysis, error)
	AnalyzeNews(ctx context.Context, query, userID string) (*models.NewsAnalysis, error)
	AnalyzeWebsite(ctx context.Context, url, userID string) (*models.WebsiteAnalysis, error)
}

// ReportGenerator builds the periodic report
type ReportGenerator interface {
	Generate(ctx context.Context, opts reports.Options, userID string) (*models.Report, error)
}

// Service handles scheduling of refresh and report runs
type Service struct {
	config   *config.Config
	analyzer Analyzer
	reports  ReportGenerator
	cron     *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, analyzer Analyzer, generator ReportGenerator) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		config:   cfg,
		analyzer: analyzer,
		reports:  generator,
		cron:     cron.New(cron.WithSeconds()),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// reportSpec returns the cron expression and date range of the periodic report
func reportSpec(schedule string) (string, string) {
	switch schedule {
	case "daily":
		// Daily at 9 AM UTC
		return "0 0 9 * * *", "last24h"
	default:
		// Monday at 9 AM UTC
		return "0 0 9 * * MON", "last7d"
	}
}

// Start registers the refresh and report jobs and starts the cron runner
func (s *Service) Start() error {
	_, err := s.cron.AddFunc(s.config.RefreshSpec, func() {
		logrus.Info("Starting scheduled refresh of watched subjects")
		if err := s.RunRefresh(s.ctx); err != nil {
			logrus.Errorf("Scheduled refresh finished with errors: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid REFRESH_SCHEDULE %q: %w", s.config.RefreshSpec, err)
	}

	spec, _ := reportSpec(s.config.ReportSchedule)
	_, err = s.cron.AddFunc(spec, func() {
		logrus.Info("Starting scheduled report run")
		if err := s.RunReport(s.ctx); err != nil {
			logrus.Errorf("Scheduled report run failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started: refresh '%s', %s reports", s.config.RefreshSpec, s.config.ReportSchedule)
	return nil
}

// Stop stops the scheduler and cancels running jobs
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.cancel()
		logrus.Info("Scheduler stopped")
	}
}

// RunRefresh analyzes every watched brand, query and website. One subject's
// failure does not stop the others; all failures are returned joined.
func (s *Service) RunRefresh(ctx context.Context) error {
	start := time.Now()
	user := s.config.WatchUser

	var (
		mu   sync.Mutex
		errs []error
	)
	record := func(kind, subject string, err error) {
		if err == nil {
			return
		}
		logrus.Errorf("Refresh of %s '%s' failed: %v", kind, subject, err)
		mu.Lock()
		errs = append(errs, fmt.Errorf("%s %q: %w", kind, subject, err))
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)

	for _, brand := range s.config.WatchBrands {
		brand := brand
		g.Go(func() error {
			_, err := s.analyzer.AnalyzeSocial(gctx, brand, user)
			record("brand", brand, err)
			return nil
		})
	}
	for _, query := range s.config.WatchQueries {
		query := query
		g.Go(func() error {
			result, err := s.analyzer.AnalyzeNews(gctx, query, user)
			if err == nil && result.Error != "" {
				err = errors.New(result.Error)
			}
			record("query", query, err)
			return nil
		})
	}
	for _, site := range s.config.WatchWebsites {
		site := site
		g.Go(func() error {
			result, err := s.analyzer.AnalyzeWebsite(gctx, site, user)
			if err == nil && len(result.Errors) > 0 {
				err = errors.New(result.Errors[0])
			}
			record("website", site, err)
			return nil
		})
	}

	_ = g.Wait()

	total := len(s.config.WatchBrands) + len(s.config.WatchQueries) + len(s.config.WatchWebsites)
	logrus.Infof("Refresh completed: %d subjects, %d failed, in %v", total, len(errs), time.Since(start))

	return errors.Join(errs...)
}

// RunReport generates the periodic report covering the last schedule period
func (s *Service) RunReport(ctx context.Context) error {
	_, dateRange := reportSpec(s.config.ReportSchedule)

	report, err := s.reports.Generate(ctx, reports.Options{
		Name:      fmt.Sprintf("Brand Pulse %s report", s.config.ReportSchedule),
		Sections:  reports.Sections{Websites: true, Social: true, News: true},
		DateRange: dateRange,
		Format:    reports.FormatDetailed,
	}, s.config.WatchUser)
	if err != nil {
		return err
	}

	logrus.Infof("Scheduled report %s generated with %d mentions", report.ID, report.TotalMentions)
	return nil
}
