package analysis

import (
	"strings"

	"github.com/azure/brand-pulse/internal/models"
)

// weightedPoints applies weights to the raw counters of one item
func weightedPoints(item models.RawItem, w EngagementWeights) float64 {
	points := float64(item.Likes)*w.Likes +
		float64(item.Comments)*w.Comments +
		float64(item.Shares)*w.Shares

	if item.MediaType == models.MediaVideo {
		points += float64(item.Views) * w.Views
	}

	return points
}

// EngagementScore sums the weighted counters of all relevant items
func EngagementScore(items []RelevantItem, w EngagementWeights) float64 {
	total := 0.0
	for _, r := range items {
		total += weightedPoints(r.Item, w)
	}
	return total
}

// EstimateReach approximates how many people saw the mentions: engagement-derived
// impressions per item plus the audience of the top influencers.
func EstimateReach(items []RelevantItem, influencers []models.InfluencerRecord, p ReachPolicy) float64 {
	base := 0.0
	for _, r := range items {
		base += itemReach(r.Item, p)
	}

	return base + influencerReach(influencers, p)
}

func itemReach(item models.RawItem, p ReachPolicy) float64 {
	mediaFactor := 1.0
	if m, ok := p.MediaMultipliers[item.MediaType]; ok {
		mediaFactor = m
	}

	hashtagFactor := 1 + float64(strings.Count(item.Text, "#"))*p.HashtagBonus

	return weightedPoints(item, p.Weights) * p.ImpressionsPerPoint * mediaFactor * hashtagFactor
}

func influencerReach(influencers []models.InfluencerRecord, p ReachPolicy) float64 {
	total := 0.0
	for _, inf := range influencers {
		multiplier := p.InfluencerMultiplier
		if inf.Verified {
			multiplier *= p.VerifiedMultiplier
		}
		if p.UseEngagementRate {
			multiplier *= 1 + inf.Engagement/100
		}
		total += float64(inf.Followers) * multiplier
	}
	return total
}
