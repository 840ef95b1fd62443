package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.StorageBackend)
	assert.Equal(t, 3*time.Hour, cfg.NewsTTL)
	assert.Equal(t, 6*time.Hour, cfg.SocialTTL)
	assert.Equal(t, 24*time.Hour, cfg.WebsiteTTL)
	assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
	assert.Equal(t, []string{"twitter", "facebook", "linkedin", "instagram"}, cfg.SocialPlatforms)
	assert.Equal(t, "weekly", cfg.ReportSchedule)
	assert.False(t, cfg.NotificationsEnabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "true")
	t.Setenv("NEWS_TTL", "90m")
	t.Setenv("SOCIAL_PLATFORMS", "twitter, instagram")
	t.Setenv("WATCH_BRANDS", "Acme Corp,,Contoso ")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("TEAMS_WEBHOOK_URL", "https://example.com/hook")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 90*time.Minute, cfg.NewsTTL)
	assert.Equal(t, []string{"twitter", "instagram"}, cfg.SocialPlatforms)
	assert.Equal(t, []string{"Acme Corp", "Contoso"}, cfg.WatchBrands)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.True(t, cfg.NotificationsEnabled())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("NEWS_TTL", "soon")
	t.Setenv("SMTP_PORT", "abc")
	t.Setenv("DEBUG", "maybe")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 3*time.Hour, cfg.NewsTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.False(t, cfg.Debug)
}

func TestConfig_validate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"Unknown backend", map[string]string{"STORAGE_BACKEND": "postgres"}, "STORAGE_BACKEND"},
		{"Azure without account", map[string]string{"STORAGE_BACKEND": "azure"}, "AZURE_STORAGE_ACCOUNT"},
		{"Bad schedule", map[string]string{"REPORT_SCHEDULE": "hourly"}, "REPORT_SCHEDULE"},
		{"Unknown platform", map[string]string{"SOCIAL_PLATFORMS": "twitter,myspace"}, "myspace"},
		{"Negative TTL", map[string]string{"SOCIAL_TTL": "-1h"}, "TTL"},
		{"Email without SMTP", map[string]string{"NOTIFICATION_EMAIL": "team@example.com"}, "SMTP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
