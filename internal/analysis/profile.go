package analysis

import "github.com/azure/brand-pulse/internal/models"

// Platform names
const (
	PlatformTwitter   = "twitter"
	PlatformFacebook  = "facebook"
	PlatformLinkedIn  = "linkedin"
	PlatformInstagram = "instagram"
	PlatformNews      = "news"
)

// Sentiment combination rules
const (
	// CombineCounts compares positive and negative signal counts; the engagement
	// signal adds one point. This is the default.
	CombineCounts = "counts"
	// CombineOverride lets the engagement ratio alone make an item positive or negative
	CombineOverride = "override"
)

// Engagement signal kinds
const (
	// SignalLikesPerComment uses likes / max(comments, 1)
	SignalLikesPerComment = "likes_per_comment"
	// SignalWeightedRatio uses (likes*2 + comments) / (likes + comments), 0 without engagement
	SignalWeightedRatio = "weighted_ratio"
)

// PlatformProfile holds every tunable constant of one platform's scoring.
// The control flow is shared by all platforms; only this record differs.
type PlatformProfile struct {
	Name            string            `yaml:"name"`
	ContextualMatch bool              `yaml:"contextual_match"`
	Sentiment       SentimentRules    `yaml:"sentiment"`
	Weights         EngagementWeights `yaml:"weights"`
	Reach           ReachPolicy       `yaml:"reach"`
	Ranking         RankingPolicy     `yaml:"ranking"`
}

// SentimentRules is the keyword table and extra signals of a classifier
type SentimentRules struct {
	Positive          []string          `yaml:"positive"`
	Negative          []string          `yaml:"negative"`
	PositiveEmoji     string            `yaml:"positive_emoji"`
	NegativeEmoji     string            `yaml:"negative_emoji"`
	PositiveReactions []string          `yaml:"positive_reactions"`
	NegativeReactions []string          `yaml:"negative_reactions"`
	Signal            *EngagementSignal `yaml:"signal"`
	Combine           string            `yaml:"combine"` // CombineCounts (empty) or CombineOverride
}

// EngagementSignal derives a sentiment signal from an engagement ratio
type EngagementSignal struct {
	Kind string  `yaml:"kind"`
	High float64 `yaml:"high"` // ratio above High signals positive
	Low  float64 `yaml:"low"`  // ratio below Low signals negative
}

// EngagementWeights weights raw counters into an engagement score.
// Views only count for video items.
type EngagementWeights struct {
	Likes    float64 `yaml:"likes"`
	Comments float64 `yaml:"comments"`
	Shares   float64 `yaml:"shares"`
	Views    float64 `yaml:"views"`
}

// ReachPolicy holds the constants of the reach estimate
type ReachPolicy struct {
	ImpressionsPerPoint  float64            `yaml:"impressions_per_point"`
	Weights              EngagementWeights  `yaml:"weights"`
	MediaMultipliers     map[string]float64 `yaml:"media_multipliers"`
	HashtagBonus         float64            `yaml:"hashtag_bonus"`
	InfluencerMultiplier float64            `yaml:"influencer_multiplier"`
	VerifiedMultiplier   float64            `yaml:"verified_multiplier"`
	UseEngagementRate    bool               `yaml:"use_engagement_rate"`
}

// RankingPolicy controls influencer ranking
type RankingPolicy struct {
	ByEngagement bool `yaml:"by_engagement"` // rank by followers x average engagement
	SampleSize   int  `yaml:"sample_size"`   // recent posts used for average engagement
	Limit        int  `yaml:"limit"`
	Concurrency  int  `yaml:"concurrency"`
}

// DefaultProfiles returns a fresh copy of the built-in platform profiles
func DefaultProfiles() map[string]PlatformProfile {
	return map[string]PlatformProfile{
		PlatformTwitter:   twitterProfile(),
		PlatformFacebook:  facebookProfile(),
		PlatformLinkedIn:  linkedInProfile(),
		PlatformInstagram: instagramProfile(),
		PlatformNews:      newsProfile(),
	}
}

func defaultRanking() RankingPolicy {
	return RankingPolicy{SampleSize: 10, Limit: MaxInfluencers, Concurrency: 8}
}

func twitterProfile() PlatformProfile {
	return PlatformProfile{
		Name:            PlatformTwitter,
		ContextualMatch: true,
		Sentiment: SentimentRules{
			Positive: []string{"great", "awesome", "love", "excellent", "good", "thanks"},
			Negative: []string{"bad", "poor", "terrible", "awful", "hate", "disappointed"},
		},
		Weights: EngagementWeights{Likes: 1, Shares: 2, Comments: 3},
		Reach: ReachPolicy{
			ImpressionsPerPoint:  100,
			Weights:              EngagementWeights{Likes: 1, Shares: 2},
			InfluencerMultiplier: 1,
			VerifiedMultiplier:   1,
		},
		Ranking: defaultRanking(),
	}
}

func facebookProfile() PlatformProfile {
	return PlatformProfile{
		Name: PlatformFacebook,
		Sentiment: SentimentRules{
			Positive:          []string{"excelente", "genial", "bueno", "gracias", "recomiendo", "me gusta"},
			Negative:          []string{"malo", "pésimo", "terrible", "horrible", "decepción", "no recomiendo"},
			PositiveReactions: []string{"LIKE", "LOVE", "WOW"},
			NegativeReactions: []string{"ANGRY", "SAD"},
		},
		Weights: EngagementWeights{Likes: 1, Comments: 2, Shares: 3},
		Reach: ReachPolicy{
			ImpressionsPerPoint:  100,
			Weights:              EngagementWeights{Likes: 1, Comments: 2, Shares: 5},
			InfluencerMultiplier: 1,
			VerifiedMultiplier:   1,
		},
		Ranking: defaultRanking(),
	}
}

func linkedInProfile() PlatformProfile {
	return PlatformProfile{
		Name: PlatformLinkedIn,
		Sentiment: SentimentRules{
			Positive: []string{"excellent", "great", "innovative", "success", "proud", "achievement"},
			Negative: []string{"disappointed", "issue", "problem", "concern", "failure", "poor"},
			Signal:   &EngagementSignal{Kind: SignalWeightedRatio, High: 1.5, Low: 0.5},
			Combine:  CombineOverride,
		},
		Weights: EngagementWeights{Likes: 1, Comments: 2, Shares: 3},
		Reach: ReachPolicy{
			ImpressionsPerPoint:  100,
			Weights:              EngagementWeights{Likes: 1, Comments: 2, Shares: 5},
			MediaMultipliers:     map[string]float64{models.MediaImage: 1.5},
			InfluencerMultiplier: 1.5,
			VerifiedMultiplier:   1,
		},
		Ranking: defaultRanking(),
	}
}

func instagramProfile() PlatformProfile {
	ranking := defaultRanking()
	ranking.ByEngagement = true

	return PlatformProfile{
		Name: PlatformInstagram,
		Sentiment: SentimentRules{
			Positive:      []string{"amazing", "love", "beautiful", "perfect", "goals", "inspo"},
			Negative:      []string{"bad", "hate", "terrible", "worst", "disappointed", "avoid"},
			PositiveEmoji: "😊😍🥰❤👍💯",
			NegativeEmoji: "😠😡👎💔😤",
			Signal:        &EngagementSignal{Kind: SignalLikesPerComment, High: 50, Low: 10},
		},
		Weights: EngagementWeights{Likes: 1, Comments: 2, Views: 0.5},
		Reach: ReachPolicy{
			ImpressionsPerPoint:  100,
			Weights:              EngagementWeights{Likes: 1, Comments: 2, Views: 0.5},
			MediaMultipliers:     map[string]float64{models.MediaVideo: 1.5},
			HashtagBonus:         0.1,
			InfluencerMultiplier: 1,
			VerifiedMultiplier:   1.5,
			UseEngagementRate:    true,
		},
		Ranking: ranking,
	}
}

// newsProfile is the generic English table used for articles
func newsProfile() PlatformProfile {
	return PlatformProfile{
		Name: PlatformNews,
		Sentiment: SentimentRules{
			Positive: []string{"good", "great", "excellent", "love", "awesome", "fantastic", "helpful", "success", "growth", "innovation"},
			Negative: []string{"bad", "terrible", "awful", "hate", "broken", "fail", "problem", "issue", "lawsuit", "challenges"},
		},
		Ranking: defaultRanking(),
	}
}
