package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/azure/brand-pulse/internal/analysis"
	"github.com/azure/brand-pulse/internal/config"
	"github.com/azure/brand-pulse/internal/sources"
	"github.com/joho/godotenv"
)

func main() {
	brand := flag.String("brand", "Microsoft", "brand to search for")
	flag.Parse()

	fmt.Println("Brand Pulse - API Connectivity Check")
	fmt.Println("====================================")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fmt.Printf("\nSearching platforms for %q...\n", *brand)
	fmt.Println(strings.Repeat("-", 40))

	checkPlatform(ctx, sources.NewTwitterSource(cfg.TwitterBearerToken), *brand)
	checkPlatform(ctx, sources.NewFacebookSource(cfg.FacebookAccessToken), *brand)
	checkPlatform(ctx, sources.NewLinkedInSource(cfg.LinkedInAccessToken), *brand)
	checkPlatform(ctx, sources.NewInstagramSource(cfg.InstagramToken), *brand)
	checkNews(ctx, sources.NewNewsAPISource(cfg.NewsAPIKey), *brand)

	fmt.Println("\nConnectivity check completed.")
	fmt.Println("Configure missing credentials in .env, then run the analyzer with: go run ./cmd/analyzer")
}

func checkPlatform(ctx context.Context, platform analysis.Platform, brand string) {
	fmt.Printf("- %s... ", platform.GetName())

	if !platform.IsEnabled() {
		fmt.Println("DISABLED (missing credentials)")
		return
	}

	items, err := platform.SearchItems(ctx, brand)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return
	}

	profile, err := platform.GetProfile(ctx, brand)
	if err != nil {
		fmt.Printf("OK (%d items, profile lookup failed: %v)\n", len(items), err)
	} else {
		fmt.Printf("OK (%d items, %d followers)\n", len(items), profile.Followers)
	}

	if len(items) > 0 {
		fmt.Printf("  Sample: %q\n", truncate(items[0].Text, 80))
	}
}

func checkNews(ctx context.Context, news *sources.NewsAPISource, query string) {
	fmt.Printf("- %s... ", news.GetName())

	if !news.IsEnabled() {
		fmt.Println("DISABLED (missing NEWS_API_KEY)")
		return
	}

	articles, err := news.FetchArticles(ctx, query)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return
	}

	fmt.Printf("OK (%d articles)\n", len(articles))
	if len(articles) > 0 {
		fmt.Printf("  Sample: %q (%s)\n", truncate(articles[0].Title, 80), articles[0].Source)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
