package models

import "time"

// Sentiment labels
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Mention type labels
const (
	MentionDirect   = "direct"
	MentionIndirect = "indirect"
)

// Media types understood by the reach estimator
const (
	MediaText  = "text"
	MediaImage = "image"
	MediaVideo = "video"
)

// Comment is a nested reply attached to a raw item
type Comment struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Text   string `json:"text"`
}

// Reaction is a single typed reaction on a post (Facebook style)
type Reaction struct {
	Type string `json:"type"` // "LIKE", "LOVE", "ANGRY", ...
}

// RawItem represents a platform-native post as fetched from a provider
type RawItem struct {
	ID        string     `json:"id"`
	Platform  string     `json:"platform"`
	Text      string     `json:"text"`
	Author    string     `json:"author"`
	URL       string     `json:"url"`
	CreatedAt time.Time  `json:"created_at"`
	Likes     int        `json:"likes"`
	Shares    int        `json:"shares"`   // retweets, shares, reposts
	Comments  int        `json:"comments"` // replies, comment counters
	Views     int        `json:"views"`    // video views, zero when not a video
	MediaType string     `json:"media_type"`
	Replies   []Comment  `json:"replies,omitempty"`
	Reactions []Reaction `json:"reactions,omitempty"`
	Topics    []string   `json:"topics,omitempty"`    // context annotations / categories
	InThread  bool       `json:"in_thread,omitempty"` // reply or quote of another item
}

// Mention represents a relevant item after scoring, as exposed in analyses
type Mention struct {
	ID          string    `json:"id"`
	Platform    string    `json:"platform"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
	Sentiment   string    `json:"sentiment"`    // "positive", "negative", "neutral"
	MentionType string    `json:"mention_type"` // "direct", "indirect"
	Likes       int       `json:"likes"`
	Shares      int       `json:"shares"`
	Comments    int       `json:"comments"`
	Keywords    []string  `json:"keywords"` // brand variants that matched
}

// InfluencerRecord is a ranked author of relevant items
type InfluencerRecord struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	Followers  int     `json:"followers"`
	Verified   bool    `json:"verified"`
	Engagement float64 `json:"engagement,omitempty"` // average engagement over recent posts
}

// SentimentCounts is a positive/negative/neutral distribution
type SentimentCounts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Total returns the sum of all labels
func (s SentimentCounts) Total() int {
	return s.Positive + s.Negative + s.Neutral
}

// MentionTypeCounts is a direct/indirect distribution
type MentionTypeCounts struct {
	Direct   int `json:"direct"`
	Indirect int `json:"indirect"`
}

// SocialMediaMetrics is the per-platform result of one analysis
type SocialMediaMetrics struct {
	Followers      int                `json:"followers"`
	Mentions       int                `json:"mentions"`
	Engagement     float64            `json:"engagement"`
	Sentiment      SentimentCounts    `json:"sentiment"`
	MentionTypes   MentionTypeCounts  `json:"mention_types"`
	TopInfluencers []InfluencerRecord `json:"top_influencers"`
	ReachEstimate  float64            `json:"reach_estimate"`
}

// PlatformResult holds one platform's contribution to a social analysis.
// Error is set when the platform failed; Metrics is then the zero value.
type PlatformResult struct {
	Platform string             `json:"platform"`
	Metrics  SocialMediaMetrics `json:"metrics"`
	Mentions []Mention          `json:"mentions"`
	Error    string             `json:"error,omitempty"`
}

// SourceCount pairs a source or platform name with a count
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// TimelinePoint is a per-day mention count
type TimelinePoint struct {
	Date  string `json:"date"` // YYYY-MM-DD, UTC
	Count int    `json:"count"`
}

// SocialSummary rolls up all platforms of a social analysis
type SocialSummary struct {
	TotalMentions int               `json:"total_mentions"`
	Sentiment     SentimentCounts   `json:"sentiment"`
	MentionTypes  MentionTypeCounts `json:"mention_types"`
	Engagement    EngagementSummary `json:"engagement"`
	ReachEstimate float64           `json:"reach_estimate"`
	ByPlatform    map[string]int    `json:"by_platform"`
	TopSources    []SourceCount     `json:"top_sources"`
	Timeline      []TimelinePoint   `json:"timeline"`
}

// EngagementSummary is total engagement and its per-platform split
type EngagementSummary struct {
	Total      float64            `json:"total"`
	ByPlatform map[string]float64 `json:"by_platform"`
}

// SocialAnalysis is the aggregate social-media analysis for one brand
type SocialAnalysis struct {
	ID          string                     `json:"id"`
	Brand       string                     `json:"brand"`
	Platforms   map[string]*PlatformResult `json:"platforms"`
	Summary     SocialSummary              `json:"summary"`
	LastUpdated time.Time                  `json:"last_updated"`
}

// NewsArticle is a fetched and classified news article
type NewsArticle struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Summary     string    `json:"summary"`
	Sentiment   string    `json:"sentiment"`
	Keywords    []string  `json:"keywords"`
}

// NewsSummary rolls up the articles of a news analysis
type NewsSummary struct {
	TotalArticles int             `json:"total_articles"`
	Sentiment     SentimentCounts `json:"sentiment"`
	Sources       map[string]int  `json:"sources"`
	TopSources    []SourceCount   `json:"top_sources"`
	Timeline      []TimelinePoint `json:"timeline"`
}

// NewsAnalysis is the aggregate news analysis for one query
type NewsAnalysis struct {
	ID          string        `json:"id"`
	Query       string        `json:"query"`
	Articles    []NewsArticle `json:"articles"`
	Summary     NewsSummary   `json:"summary"`
	Error       string        `json:"error,omitempty"`
	LastUpdated time.Time     `json:"last_updated"`
}

// HeaderCounts counts heading tags on a page
type HeaderCounts struct {
	H1 int `json:"h1"`
	H2 int `json:"h2"`
	H3 int `json:"h3"`
}

// WebsiteMetrics is the result of inspecting a single page
type WebsiteMetrics struct {
	Performance   int          `json:"performance"`
	SEO           int          `json:"seo"`
	Accessibility int          `json:"accessibility"`
	BestPractices int          `json:"best_practices"`
	LastModified  string       `json:"last_modified,omitempty"`
	Title         string       `json:"title,omitempty"`
	Description   string       `json:"description,omitempty"`
	Headers       HeaderCounts `json:"headers"`
	ImagesTotal   int          `json:"images_total"`
	ImagesWithAlt int          `json:"images_with_alt"`
	LinksInternal int          `json:"links_internal"`
	LinksExternal int          `json:"links_external"`
}

// WebsiteAnalysis is the stored result of a website inspection
type WebsiteAnalysis struct {
	ID          string          `json:"id"`
	URL         string          `json:"url"`
	Status      string          `json:"status"` // "completed", "error"
	Metrics     *WebsiteMetrics `json:"metrics,omitempty"`
	Errors      []string        `json:"errors,omitempty"`
	LastUpdated time.Time       `json:"last_updated"`
}

// Report bundles stored analyses of a user over a date range
type Report struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	UserID           string            `json:"user_id"`
	GeneratedAt      time.Time         `json:"generated_at"`
	Format           string            `json:"format"`     // "detailed" or "summary"
	DateRange        string            `json:"date_range"` // "last24h", "last7d", ...
	WebsiteAnalyses  []WebsiteAnalysis `json:"website_analyses"`
	SocialAnalyses   []SocialAnalysis  `json:"social_analyses"`
	NewsAnalyses     []NewsAnalysis    `json:"news_analyses"`
	SectionErrors    map[string]string `json:"section_errors,omitempty"`
	TotalMentions    int               `json:"total_mentions"`
	SentimentSummary SentimentCounts   `json:"sentiment_summary"`
}

// EngagementSample is one recent post of an author, used for average engagement
type EngagementSample struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

// AuthorProfile is what a platform reports about an item author
type AuthorProfile struct {
	ID          string             `json:"id"`
	DisplayName string             `json:"display_name"`
	Followers   int                `json:"followers"`
	Verified    bool               `json:"verified"`
	RecentPosts []EngagementSample `json:"recent_posts,omitempty"`
}

// BrandProfile is the brand's own official profile on a platform
type BrandProfile struct {
	Followers int `json:"followers"`
}
