package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Storage configuration
	StorageBackend   string // "sqlite" or "azure"
	SQLitePath       string
	StorageAccount   string
	StorageContainer string

	// Platform credentials
	TwitterBearerToken  string
	FacebookAccessToken string
	LinkedInAccessToken string
	InstagramToken      string
	NewsAPIKey          string

	// Platforms included in social analyses
	SocialPlatforms []string

	// Freshness windows per analysis domain
	NewsTTL    time.Duration
	SocialTTL  time.Duration
	WebsiteTTL time.Duration

	// Upper bound for every external call
	FetchTimeout time.Duration

	// Optional YAML overrides for scoring constants
	PolicyFile string

	// Scheduled refresh of watched subjects
	WatchBrands    []string
	WatchQueries   []string
	WatchWebsites  []string
	WatchUser      string
	RefreshSpec    string
	ReportSchedule string // "daily" or "weekly"

	// Notification configuration
	TeamsWebhookURL   string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
}

var knownPlatforms = map[string]bool{
	"twitter": true, "facebook": true, "linkedin": true, "instagram": true,
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		StorageBackend:   getEnv("STORAGE_BACKEND", "sqlite"),
		SQLitePath:       getEnv("SQLITE_PATH", "brand-pulse.db"),
		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "analyses"),

		TwitterBearerToken:  getEnv("TWITTER_BEARER_TOKEN", ""),
		FacebookAccessToken: getEnv("FACEBOOK_ACCESS_TOKEN", ""),
		LinkedInAccessToken: getEnv("LINKEDIN_ACCESS_TOKEN", ""),
		InstagramToken:      getEnv("INSTAGRAM_ACCESS_TOKEN", ""),
		NewsAPIKey:          getEnv("NEWS_API_KEY", ""),

		SocialPlatforms: getSliceEnv("SOCIAL_PLATFORMS", []string{"twitter", "facebook", "linkedin", "instagram"}),

		NewsTTL:      getDurationEnv("NEWS_TTL", 3*time.Hour),
		SocialTTL:    getDurationEnv("SOCIAL_TTL", 6*time.Hour),
		WebsiteTTL:   getDurationEnv("WEBSITE_TTL", 24*time.Hour),
		FetchTimeout: getDurationEnv("FETCH_TIMEOUT", 20*time.Second),

		PolicyFile: getEnv("POLICY_FILE", ""),

		WatchBrands:    getSliceEnv("WATCH_BRANDS", nil),
		WatchQueries:   getSliceEnv("WATCH_QUERIES", nil),
		WatchWebsites:  getSliceEnv("WATCH_WEBSITES", nil),
		WatchUser:      getEnv("WATCH_USER", "scheduler"),
		RefreshSpec:    getEnv("REFRESH_SCHEDULE", "0 0 */6 * * *"),
		ReportSchedule: getEnv("REPORT_SCHEDULE", "weekly"),

		TeamsWebhookURL:   getEnv("TEAMS_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.StorageBackend != "sqlite" && c.StorageBackend != "azure" {
		return fmt.Errorf("STORAGE_BACKEND must be 'sqlite' or 'azure'")
	}

	if c.StorageBackend == "azure" && c.StorageAccount == "" {
		return fmt.Errorf("AZURE_STORAGE_ACCOUNT is required when STORAGE_BACKEND is 'azure'")
	}

	if c.ReportSchedule != "daily" && c.ReportSchedule != "weekly" {
		return fmt.Errorf("REPORT_SCHEDULE must be 'daily' or 'weekly'")
	}

	for _, p := range c.SocialPlatforms {
		if !knownPlatforms[p] {
			return fmt.Errorf("unknown platform %q in SOCIAL_PLATFORMS", p)
		}
	}

	if c.NewsTTL <= 0 || c.SocialTTL <= 0 || c.WebsiteTTL <= 0 {
		return fmt.Errorf("NEWS_TTL, SOCIAL_TTL and WEBSITE_TTL must be positive")
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// NotificationsEnabled reports whether any report delivery channel is configured
func (c *Config) NotificationsEnabled() bool {
	return c.TeamsWebhookURL != "" || c.NotificationEmail != ""
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
