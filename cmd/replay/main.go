// Command replay runs the analysis pipeline against a recorded fixture instead of
// live platform APIs and prints the resulting analyses.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/azure/brand-pulse/internal/analysis"
	"github.com/azure/brand-pulse/internal/config"
	"github.com/azure/brand-pulse/internal/models"
	"github.com/azure/brand-pulse/internal/monitoring"
	"github.com/azure/brand-pulse/internal/reports"
	"github.com/azure/brand-pulse/internal/storage"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Result is everything one replay produced
type Result struct {
	Social *models.SocialAnalysis `json:"social"`
	News   *models.NewsAnalysis   `json:"news,omitempty"`
	Report *models.Report         `json:"report,omitempty"`
}

func main() {
	fixturePath := flag.String("fixture", "cmd/replay/testdata/acme.yaml", "fixture file to replay")
	outDir := flag.String("out", "", "directory to write the result JSON to")
	withReport := flag.Bool("report", false, "also generate a report over the replayed analyses")
	flag.Parse()

	// POLICY_FILE may live in .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	logrus.SetLevel(logrus.WarnLevel)

	fixture, err := LoadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	profiles, err := analysis.LoadProfiles(os.Getenv("POLICY_FILE"))
	if err != nil {
		log.Fatalf("Failed to load scoring policy: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := Replay(ctx, fixture, profiles, *withReport)
	if err != nil {
		log.Fatalf("Replay failed: %v", err)
	}

	printResult(os.Stdout, result)

	if *outDir != "" {
		path, err := writeResult(*outDir, fixture.Brand, result)
		if err != nil {
			log.Fatalf("Failed to write result: %v", err)
		}
		fmt.Printf("\nResult written to %s\n", path)
	}
}

// Replay analyzes the fixture brand (and news, when recorded) with an in-memory store
func Replay(ctx context.Context, fixture *Fixture, profiles map[string]analysis.PlatformProfile, withReport bool) (*Result, error) {
	store, err := storage.NewSQLiteRepository(":memory:")
	if err != nil {
		return nil, err
	}
	defer store.Close()

	cfg := &config.Config{
		NewsTTL:      3 * time.Hour,
		SocialTTL:    6 * time.Hour,
		WebsiteTTL:   24 * time.Hour,
		FetchTimeout: 10 * time.Second,
	}

	service := monitoring.NewService(cfg, store, monitoring.Options{
		Platforms: fixture.ReplayPlatforms(),
		News:      &replayNews{articles: fixture.News},
		Profiles:  profiles,
	})

	result := &Result{}

	result.Social, err = service.AnalyzeSocial(ctx, fixture.Brand, fixture.User)
	if err != nil {
		return nil, err
	}

	if len(fixture.News) > 0 {
		result.News, err = service.AnalyzeNews(ctx, fixture.Brand, fixture.User)
		if err != nil {
			return nil, err
		}
	}

	if withReport {
		result.Report, err = reports.NewService(store, nil).Generate(ctx, reports.Options{
			Name:      fmt.Sprintf("Replay of %s", fixture.Brand),
			Sections:  reports.Sections{Social: true, News: true},
			DateRange: "last24h",
			Format:    reports.FormatDetailed,
		}, fixture.User)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func printResult(w io.Writer, result *Result) {
	social := result.Social

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Social analysis for %s\n", social.Brand)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	for _, name := range sortedKeys(social.Platforms) {
		p := social.Platforms[name]
		if p.Error != "" {
			fmt.Fprintf(w, "%-10s FAILED: %s\n", name, p.Error)
			continue
		}
		m := p.Metrics
		fmt.Fprintf(w, "%-10s mentions=%d followers=%d engagement=%.1f reach=%.1f sentiment=%d/%d/%d direct=%d indirect=%d\n",
			name, m.Mentions, m.Followers, m.Engagement, m.ReachEstimate,
			m.Sentiment.Positive, m.Sentiment.Negative, m.Sentiment.Neutral,
			m.MentionTypes.Direct, m.MentionTypes.Indirect)
		for i, inf := range m.TopInfluencers {
			fmt.Fprintf(w, "           %d. %s (%d followers)\n", i+1, inf.Username, inf.Followers)
		}
	}

	fmt.Fprintf(w, "\nTotal mentions: %d\n", social.Summary.TotalMentions)
	for _, point := range social.Summary.Timeline {
		fmt.Fprintf(w, "  %s  %d\n", point.Date, point.Count)
	}

	if news := result.News; news != nil {
		fmt.Fprintf(w, "\nNews: %d articles (%d positive, %d negative, %d neutral)\n", news.Summary.TotalArticles,
			news.Summary.Sentiment.Positive, news.Summary.Sentiment.Negative, news.Summary.Sentiment.Neutral)
		for _, src := range news.Summary.TopSources {
			fmt.Fprintf(w, "  %-15s %d\n", src.Source+":", src.Count)
		}
	}

	if report := result.Report; report != nil {
		fmt.Fprintf(w, "\nReport %s: %d mentions\n", report.ID, report.TotalMentions)
	}
}

func writeResult(dir, brand string, result *Result) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}

	name := strings.ToLower(strings.Join(strings.Fields(brand), "-")) + ".json"
	path := filepath.Join(dir, name)
	return path, os.WriteFile(path, data, 0644)
}

func sortedKeys(m map[string]*models.PlatformResult) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
