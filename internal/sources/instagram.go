package sources

import (
	"context"
	"fmt"

	"github.com/azure/brand-pulse/internal/analysis"
	"github.com/azure/brand-pulse/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// InstagramSource implements the Instagram Graph API capabilities
type InstagramSource struct {
	accessToken string
	client      *resty.Client
}

var _ analysis.Platform = (*InstagramSource)(nil)

// engagementSampleSize is the number of recent posts used for an author's average engagement
const engagementSampleSize = 10

type instagramMediaResponse struct {
	Data []instagramMedia `json:"data"`
}

type instagramMedia struct {
	ID            string `json:"id"`
	Caption       string `json:"caption"`
	MediaType     string `json:"media_type"`
	Timestamp     string `json:"timestamp"`
	Permalink     string `json:"permalink"`
	LikeCount     int    `json:"like_count"`
	CommentsCount int    `json:"comments_count"`
	VideoViews    int    `json:"video_view_count"`
	Owner         struct {
		ID string `json:"id"`
	} `json:"owner"`
	Comments struct {
		Data []struct {
			ID       string `json:"id"`
			Text     string `json:"text"`
			Username string `json:"username"`
		} `json:"data"`
	} `json:"comments"`
}

type instagramUser struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FollowersCount int    `json:"followers_count"`
	IsVerified     bool   `json:"is_verified"`
	MediaCount     int    `json:"media_count"`
}

type instagramDiscoveryResponse struct {
	BusinessDiscovery instagramUser `json:"business_discovery"`
}

// NewInstagramSource creates a new Instagram source
func NewInstagramSource(accessToken string) *InstagramSource {
	return &InstagramSource{
		accessToken: accessToken,
		client:      newClient("https://graph.facebook.com/v18.0", instagramLimit),
	}
}

// WithBaseURL points the source at another API host
func (s *InstagramSource) WithBaseURL(baseURL string) *InstagramSource {
	s.client.SetBaseURL(baseURL)
	return s
}

func (s *InstagramSource) GetName() string {
	return analysis.PlatformInstagram
}

func (s *InstagramSource) IsEnabled() bool {
	return s.accessToken != ""
}

func (s *InstagramSource) request() *resty.Request {
	return s.client.R().SetQueryParam("access_token", s.accessToken)
}

// SearchItems returns recent media whose caption or tags match the variant
func (s *InstagramSource) SearchItems(ctx context.Context, variant string) ([]models.RawItem, error) {
	var resp instagramMediaResponse
	err := getJSON(ctx, s.request().SetQueryParams(map[string]string{
		"q":      variant,
		"fields": "id,caption,media_type,media_url,timestamp,like_count,comments_count,video_view_count,permalink,owner,comments{text,username}",
	}), "instagram", "/media/recent", &resp)
	if err != nil {
		return nil, err
	}

	items := make([]models.RawItem, 0, len(resp.Data))
	for _, media := range resp.Data {
		items = append(items, s.toRawItem(media))
	}

	logrus.Debugf("Instagram returned %d posts for '%s'", len(items), variant)
	return items, nil
}

func (s *InstagramSource) toRawItem(media instagramMedia) models.RawItem {
	item := models.RawItem{
		ID:        media.ID,
		Platform:  analysis.PlatformInstagram,
		Text:      media.Caption,
		Author:    media.Owner.ID,
		URL:       media.Permalink,
		CreatedAt: parseTime(media.Timestamp),
		Likes:     media.LikeCount,
		Comments:  media.CommentsCount,
		Views:     media.VideoViews,
		MediaType: mediaType(media.MediaType),
	}

	for _, c := range media.Comments.Data {
		item.Replies = append(item.Replies, models.Comment{ID: c.ID, Author: c.Username, Text: c.Text})
	}

	return item
}

// GetProfile reads the brand's business account through business discovery
func (s *InstagramSource) GetProfile(ctx context.Context, brand string) (models.BrandProfile, error) {
	var resp instagramDiscoveryResponse
	fields := fmt.Sprintf("business_discovery.username(%s){followers_count,media_count}", handle(brand))
	err := getJSON(ctx, s.request().SetQueryParam("fields", fields), "instagram", "/me", &resp)
	if err != nil {
		return models.BrandProfile{}, err
	}

	return models.BrandProfile{Followers: resp.BusinessDiscovery.FollowersCount}, nil
}

// ResolveAuthor looks up an account and samples its latest posts for engagement.
// A failed sample leaves the author with no recent posts rather than failing.
func (s *InstagramSource) ResolveAuthor(ctx context.Context, authorID string) (models.AuthorProfile, error) {
	var user instagramUser
	err := getJSON(ctx, s.request().SetQueryParam("fields", "id,username,followers_count,is_verified,media_count"),
		"instagram", "/"+authorID, &user)
	if err != nil {
		return models.AuthorProfile{}, err
	}

	profile := models.AuthorProfile{
		ID:          user.ID,
		DisplayName: user.Username,
		Followers:   user.FollowersCount,
		Verified:    user.IsVerified,
	}

	var media instagramMediaResponse
	err = getJSON(ctx, s.request().SetQueryParams(map[string]string{
		"fields": "like_count,comments_count",
		"limit":  fmt.Sprint(engagementSampleSize),
	}), "instagram", "/"+authorID+"/media", &media)
	if err != nil {
		logrus.Debugf("Failed to sample Instagram media for %s: %v", authorID, err)
		return profile, nil
	}

	for _, m := range media.Data {
		profile.RecentPosts = append(profile.RecentPosts, models.EngagementSample{Likes: m.LikeCount, Comments: m.CommentsCount})
	}

	return profile, nil
}
