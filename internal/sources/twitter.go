package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/azure/brand-pulse/internal/analysis"
	"github.com/azure/brand-pulse/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// TwitterSource implements the X (Twitter) v2 API capabilities
type TwitterSource struct {
	bearerToken string
	client      *resty.Client
}

var _ analysis.Platform = (*TwitterSource)(nil)

type twitterSearchResponse struct {
	Data []twitterTweet `json:"data"`
	Meta struct {
		ResultCount int    `json:"result_count"`
		NextToken   string `json:"next_token"`
	} `json:"meta"`
}

type twitterTweet struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	AuthorID      string `json:"author_id"`
	CreatedAt     string `json:"created_at"`
	PublicMetrics struct {
		RetweetCount    int `json:"retweet_count"`
		LikeCount       int `json:"like_count"`
		ReplyCount      int `json:"reply_count"`
		QuoteCount      int `json:"quote_count"`
		ImpressionCount int `json:"impression_count"`
	} `json:"public_metrics"`
	ContextAnnotations []struct {
		Domain struct {
			Name string `json:"name"`
		} `json:"domain"`
	} `json:"context_annotations"`
	ReferencedTweets []struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	} `json:"referenced_tweets"`
}

type twitterUser struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Username      string `json:"username"`
	Verified      bool   `json:"verified"`
	PublicMetrics struct {
		FollowersCount int `json:"followers_count"`
	} `json:"public_metrics"`
}

type twitterUserResponse struct {
	Data twitterUser `json:"data"`
}

// NewTwitterSource creates a new Twitter source
func NewTwitterSource(bearerToken string) *TwitterSource {
	return &TwitterSource{
		bearerToken: bearerToken,
		client:      newClient("https://api.twitter.com", twitterLimit),
	}
}

// WithBaseURL points the source at another API host
func (t *TwitterSource) WithBaseURL(baseURL string) *TwitterSource {
	t.client.SetBaseURL(baseURL)
	return t
}

func (t *TwitterSource) GetName() string {
	return analysis.PlatformTwitter
}

func (t *TwitterSource) IsEnabled() bool {
	return t.bearerToken != ""
}

func (t *TwitterSource) request() *resty.Request {
	return t.client.R().SetAuthToken(t.bearerToken)
}

// SearchItems returns recent tweets matching the variant as a phrase or handle.
// Retweets are skipped.
func (t *TwitterSource) SearchItems(ctx context.Context, variant string) ([]models.RawItem, error) {
	var resp twitterSearchResponse
	err := getJSON(ctx, t.request().SetQueryParams(map[string]string{
		"query":        t.buildSearchQuery(variant),
		"max_results":  "100",
		"tweet.fields": "public_metrics,created_at,context_annotations,entities,referenced_tweets,author_id",
	}), "twitter", "/2/tweets/search/recent", &resp)
	if err != nil {
		return nil, err
	}

	items := make([]models.RawItem, 0, len(resp.Data))
	for _, tweet := range resp.Data {
		if t.isRetweet(tweet) {
			continue
		}
		items = append(items, t.toRawItem(tweet))
	}

	logrus.Debugf("Twitter returned %d tweets for '%s'", len(items), variant)
	return items, nil
}

func (t *TwitterSource) toRawItem(tweet twitterTweet) models.RawItem {
	// only domain names feed the contextual match
	var topics []string
	for _, ann := range tweet.ContextAnnotations {
		if ann.Domain.Name != "" {
			topics = append(topics, ann.Domain.Name)
		}
	}

	return models.RawItem{
		ID:        tweet.ID,
		Platform:  analysis.PlatformTwitter,
		Text:      tweet.Text,
		Author:    tweet.AuthorID,
		URL:       fmt.Sprintf("https://twitter.com/i/status/%s", tweet.ID),
		CreatedAt: parseTime(tweet.CreatedAt),
		Likes:     tweet.PublicMetrics.LikeCount,
		Shares:    tweet.PublicMetrics.RetweetCount,
		Comments:  tweet.PublicMetrics.ReplyCount,
		Views:     tweet.PublicMetrics.ImpressionCount,
		MediaType: models.MediaText,
		Topics:    topics,
		InThread:  t.isThread(tweet),
	}
}

// GetProfile looks up the brand's own account by handle
func (t *TwitterSource) GetProfile(ctx context.Context, brand string) (models.BrandProfile, error) {
	var resp twitterUserResponse
	err := getJSON(ctx, t.request().SetQueryParam("user.fields", "public_metrics"),
		"twitter", "/2/users/by/username/"+handle(brand), &resp)
	if err != nil {
		return models.BrandProfile{}, err
	}

	return models.BrandProfile{Followers: resp.Data.PublicMetrics.FollowersCount}, nil
}

// ResolveAuthor looks up a tweet author
func (t *TwitterSource) ResolveAuthor(ctx context.Context, authorID string) (models.AuthorProfile, error) {
	var resp twitterUserResponse
	err := getJSON(ctx, t.request().SetQueryParam("user.fields", "public_metrics,verified"),
		"twitter", "/2/users/"+authorID, &resp)
	if err != nil {
		return models.AuthorProfile{}, err
	}

	return models.AuthorProfile{
		ID:          resp.Data.ID,
		DisplayName: resp.Data.Username,
		Followers:   resp.Data.PublicMetrics.FollowersCount,
		Verified:    resp.Data.Verified,
	}, nil
}

// buildSearchQuery matches the variant as a phrase, and as a handle when it can be one
func (t *TwitterSource) buildSearchQuery(variant string) string {
	if strings.ContainsAny(variant, " \t-") {
		return fmt.Sprintf(`"%s"`, variant)
	}
	return fmt.Sprintf(`"%s" OR @%s`, variant, variant)
}

func (t *TwitterSource) isRetweet(tweet twitterTweet) bool {
	for _, ref := range tweet.ReferencedTweets {
		if ref.Type == "retweeted" {
			return true
		}
	}
	return false
}

func (t *TwitterSource) isThread(tweet twitterTweet) bool {
	for _, ref := range tweet.ReferencedTweets {
		if ref.Type == "replied_to" || ref.Type == "quoted" {
			return true
		}
	}
	return false
}
