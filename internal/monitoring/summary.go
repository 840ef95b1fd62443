package monitoring

import (
	"sort"
	"time"

	"github.com/azure/brand-pulse/internal/models"
)

const topSourcesLimit = 5

// summarizeSocial rolls the per-platform results into one summary. Failed
// platforms carry zero metrics and so contribute nothing.
func summarizeSocial(platforms map[string]*models.PlatformResult) models.SocialSummary {
	summary := models.SocialSummary{
		ByPlatform: make(map[string]int, len(platforms)),
		Engagement: models.EngagementSummary{ByPlatform: make(map[string]float64, len(platforms))},
	}

	var dates []time.Time
	for name, result := range platforms {
		m := result.Metrics

		summary.TotalMentions += m.Mentions
		summary.Sentiment.Positive += m.Sentiment.Positive
		summary.Sentiment.Negative += m.Sentiment.Negative
		summary.Sentiment.Neutral += m.Sentiment.Neutral
		summary.MentionTypes.Direct += m.MentionTypes.Direct
		summary.MentionTypes.Indirect += m.MentionTypes.Indirect
		summary.Engagement.Total += m.Engagement
		summary.Engagement.ByPlatform[name] = m.Engagement
		summary.ReachEstimate += m.ReachEstimate
		summary.ByPlatform[name] = m.Mentions

		for _, mention := range result.Mentions {
			dates = append(dates, mention.CreatedAt)
		}
	}

	summary.TopSources = topSources(summary.ByPlatform, topSourcesLimit)
	summary.Timeline = timeline(dates)

	return summary
}

// summarizeNews counts sentiment and sources of classified articles
func summarizeNews(articles []models.NewsArticle) models.NewsSummary {
	summary := models.NewsSummary{
		TotalArticles: len(articles),
		Sources:       make(map[string]int),
	}

	dates := make([]time.Time, 0, len(articles))
	for _, a := range articles {
		switch a.Sentiment {
		case models.SentimentPositive:
			summary.Sentiment.Positive++
		case models.SentimentNegative:
			summary.Sentiment.Negative++
		default:
			summary.Sentiment.Neutral++
		}

		summary.Sources[a.Source]++
		dates = append(dates, a.PublishedAt)
	}

	summary.TopSources = topSources(summary.Sources, topSourcesLimit)
	summary.Timeline = timeline(dates)

	return summary
}

// topSources returns the n largest counts, descending; equal counts sort by name
func topSources(counts map[string]int, n int) []models.SourceCount {
	sources := make([]models.SourceCount, 0, len(counts))
	for source, count := range counts {
		if count > 0 {
			sources = append(sources, models.SourceCount{Source: source, Count: count})
		}
	}

	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Count != sources[j].Count {
			return sources[i].Count > sources[j].Count
		}
		return sources[i].Source < sources[j].Source
	})

	if len(sources) > n {
		sources = sources[:n]
	}
	return sources
}

// timeline buckets timestamps by UTC calendar date, ascending. Zero times are skipped.
func timeline(dates []time.Time) []models.TimelinePoint {
	buckets := make(map[string]int)
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		buckets[d.UTC().Format("2006-01-02")]++
	}

	points := make([]models.TimelinePoint, 0, len(buckets))
	for date, count := range buckets {
		points = append(points, models.TimelinePoint{Date: date, Count: count})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	return points
}
