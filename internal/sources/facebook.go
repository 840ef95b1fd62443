package sources

import (
	"context"

	"github.com/azure/brand-pulse/internal/analysis"
	"github.com/azure/brand-pulse/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// FacebookSource implements the Graph API capabilities for Facebook posts and pages
type FacebookSource struct {
	accessToken string
	client      *resty.Client
}

var _ analysis.Platform = (*FacebookSource)(nil)

const facebookPostFields = "id,message,created_time,permalink_url,from," +
	"reactions.limit(100).summary(total_count){type}," +
	"comments.limit(50).summary(total_count){message}," +
	"shares"

type facebookSearchResponse struct {
	Data []facebookPost `json:"data"`
}

type facebookPost struct {
	ID           string `json:"id"`
	Message      string `json:"message"`
	CreatedTime  string `json:"created_time"`
	PermalinkURL string `json:"permalink_url"`
	From         struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"from"`
	Reactions struct {
		Data []struct {
			Type string `json:"type"`
		} `json:"data"`
		Summary struct {
			TotalCount int `json:"total_count"`
		} `json:"summary"`
	} `json:"reactions"`
	Comments struct {
		Data []struct {
			ID      string `json:"id"`
			Message string `json:"message"`
		} `json:"data"`
		Summary struct {
			TotalCount int `json:"total_count"`
		} `json:"summary"`
	} `json:"comments"`
	Shares struct {
		Count int `json:"count"`
	} `json:"shares"`
}

type facebookPage struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FanCount int    `json:"fan_count"`
	Verified bool   `json:"verified"`
}

// NewFacebookSource creates a new Facebook source
func NewFacebookSource(accessToken string) *FacebookSource {
	return &FacebookSource{
		accessToken: accessToken,
		client:      newClient("https://graph.facebook.com/v18.0", facebookLimit),
	}
}

// WithBaseURL points the source at another API host
func (f *FacebookSource) WithBaseURL(baseURL string) *FacebookSource {
	f.client.SetBaseURL(baseURL)
	return f
}

func (f *FacebookSource) GetName() string {
	return analysis.PlatformFacebook
}

func (f *FacebookSource) IsEnabled() bool {
	return f.accessToken != ""
}

func (f *FacebookSource) request() *resty.Request {
	return f.client.R().SetQueryParam("access_token", f.accessToken)
}

// SearchItems returns public posts matching the variant
func (f *FacebookSource) SearchItems(ctx context.Context, variant string) ([]models.RawItem, error) {
	var resp facebookSearchResponse
	err := getJSON(ctx, f.request().SetQueryParams(map[string]string{
		"q":      variant,
		"type":   "post",
		"fields": facebookPostFields,
	}), "facebook", "/search", &resp)
	if err != nil {
		return nil, err
	}

	items := make([]models.RawItem, 0, len(resp.Data))
	for _, post := range resp.Data {
		items = append(items, f.toRawItem(post))
	}

	logrus.Debugf("Facebook returned %d posts for '%s'", len(items), variant)
	return items, nil
}

// toRawItem counts every reaction as a like, as the Graph summary does
func (f *FacebookSource) toRawItem(post facebookPost) models.RawItem {
	item := models.RawItem{
		ID:        post.ID,
		Platform:  analysis.PlatformFacebook,
		Text:      post.Message,
		Author:    post.From.ID,
		URL:       post.PermalinkURL,
		CreatedAt: parseTime(post.CreatedTime),
		Likes:     post.Reactions.Summary.TotalCount,
		Comments:  post.Comments.Summary.TotalCount,
		Shares:    post.Shares.Count,
		MediaType: models.MediaText,
	}

	for _, r := range post.Reactions.Data {
		item.Reactions = append(item.Reactions, models.Reaction{Type: r.Type})
	}
	for _, c := range post.Comments.Data {
		item.Replies = append(item.Replies, models.Comment{ID: c.ID, Text: c.Message})
	}

	return item
}

// GetProfile reads the fan count of the brand's page
func (f *FacebookSource) GetProfile(ctx context.Context, brand string) (models.BrandProfile, error) {
	var page facebookPage
	err := getJSON(ctx, f.request().SetQueryParam("fields", "fan_count,talking_about_count"),
		"facebook", "/"+handle(brand), &page)
	if err != nil {
		return models.BrandProfile{}, err
	}

	return models.BrandProfile{Followers: page.FanCount}, nil
}

// ResolveAuthor looks up the page or profile that published a post
func (f *FacebookSource) ResolveAuthor(ctx context.Context, authorID string) (models.AuthorProfile, error) {
	var page facebookPage
	err := getJSON(ctx, f.request().SetQueryParam("fields", "id,name,fan_count,verified"),
		"facebook", "/"+authorID, &page)
	if err != nil {
		return models.AuthorProfile{}, err
	}

	return models.AuthorProfile{
		ID:          page.ID,
		DisplayName: page.Name,
		Followers:   page.FanCount,
		Verified:    page.Verified,
	}, nil
}
