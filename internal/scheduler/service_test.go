package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/azure/brand-pulse/internal/config"
	"github.com/azure/brand-pulse/internal/models"
	"github.com/azure/brand-pulse/internal/reports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAnalyzer is a mock implementation of Analyzer
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) AnalyzeSocial(ctx context.Context, brand, userID string) (*models.SocialAnalysis, error) {
	args := m.Called(ctx, brand, userID)
	result, _ := args.Get(0).(*models.SocialAnalysis)
	return result, args.Error(1)
}

func (m *MockAnalyzer) AnalyzeNews(ctx context.Context, query, userID string) (*models.NewsAnalysis, error) {
	args := m.Called(ctx, query, userID)
	result, _ := args.Get(0).(*models.NewsAnalysis)
	return result, args.Error(1)
}

func (m *MockAnalyzer) AnalyzeWebsite(ctx context.Context, url, userID string) (*models.WebsiteAnalysis, error) {
	args := m.Called(ctx, url, userID)
	result, _ := args.Get(0).(*models.WebsiteAnalysis)
	return result, args.Error(1)
}

// MockGenerator is a mock implementation of ReportGenerator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, opts reports.Options, userID string) (*models.Report, error) {
	args := m.Called(ctx, opts, userID)
	result, _ := args.Get(0).(*models.Report)
	return result, args.Error(1)
}

func watchConfig() *config.Config {
	return &config.Config{
		WatchBrands:    []string{"Acme Corp", "Contoso"},
		WatchQueries:   []string{"acme lawsuit"},
		WatchWebsites:  []string{"https://acme.example"},
		WatchUser:      "scheduler",
		RefreshSpec:    "0 0 */6 * * *",
		ReportSchedule: "weekly",
	}
}

func TestService_RunRefresh(t *testing.T) {
	analyzer := new(MockAnalyzer)
	analyzer.On("AnalyzeSocial", mock.Anything, "Acme Corp", "scheduler").Return(&models.SocialAnalysis{}, nil)
	analyzer.On("AnalyzeSocial", mock.Anything, "Contoso", "scheduler").Return(nil, errors.New("boom"))
	analyzer.On("AnalyzeNews", mock.Anything, "acme lawsuit", "scheduler").
		Return(&models.NewsAnalysis{Error: "newsapi fetch articles failed: 429"}, nil)
	analyzer.On("AnalyzeWebsite", mock.Anything, "https://acme.example", "scheduler").
		Return(&models.WebsiteAnalysis{Status: "completed"}, nil)

	service := NewService(watchConfig(), analyzer, new(MockGenerator))

	err := service.RunRefresh(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `brand "Contoso": boom`)
	assert.Contains(t, err.Error(), `query "acme lawsuit"`)
	assert.NotContains(t, err.Error(), "Acme Corp")
	assert.NotContains(t, err.Error(), "acme.example")
	analyzer.AssertExpectations(t)
}

func TestService_RunRefreshNothingWatched(t *testing.T) {
	analyzer := new(MockAnalyzer)
	service := NewService(&config.Config{WatchUser: "scheduler"}, analyzer, new(MockGenerator))

	assert.NoError(t, service.RunRefresh(context.Background()))
	analyzer.AssertNotCalled(t, "AnalyzeSocial", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_RunReport(t *testing.T) {
	tests := []struct {
		schedule  string
		dateRange string
	}{
		{"weekly", "last7d"},
		{"daily", "last24h"},
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			cfg := watchConfig()
			cfg.ReportSchedule = tt.schedule

			generator := new(MockGenerator)
			generator.On("Generate", mock.Anything, mock.MatchedBy(func(opts reports.Options) bool {
				return opts.DateRange == tt.dateRange && opts.Sections.Social && opts.Sections.News && opts.Sections.Websites
			}), "scheduler").Return(&models.Report{ID: "r1"}, nil)

			service := NewService(cfg, new(MockAnalyzer), generator)

			require.NoError(t, service.RunReport(context.Background()))
			generator.AssertExpectations(t)
		})
	}
}

func TestService_RunReportError(t *testing.T) {
	generator := new(MockGenerator)
	generator.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("store down"))

	service := NewService(watchConfig(), new(MockAnalyzer), generator)

	assert.EqualError(t, service.RunReport(context.Background()), "store down")
}

func TestService_StartRejectsBadSchedule(t *testing.T) {
	cfg := watchConfig()
	cfg.RefreshSpec = "every six hours"

	service := NewService(cfg, new(MockAnalyzer), new(MockGenerator))

	err := service.Start()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "REFRESH_SCHEDULE")
}

func TestService_StartStop(t *testing.T) {
	service := NewService(watchConfig(), new(MockAnalyzer), new(MockGenerator))

	require.NoError(t, service.Start())
	assert.Len(t, service.cron.Entries(), 2)
	service.Stop()
}
