package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/azure/brand-pulse/internal/analysis"
	"github.com/azure/brand-pulse/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// LinkedInSource implements the LinkedIn REST API capabilities
type LinkedInSource struct {
	accessToken string
	client      *resty.Client
}

var _ analysis.Platform = (*LinkedInSource)(nil)

type linkedInSearchResponse struct {
	Elements []linkedInPost `json:"elements"`
}

type linkedInPost struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	Author       string `json:"author"`
	LikeCount    int    `json:"likeCount"`
	CommentCount int    `json:"commentCount"`
	ShareCount   int    `json:"shareCount"`
	Created      struct {
		Time int64 `json:"time"`
	} `json:"created"`
	Comments struct {
		Values []struct {
			ID      string `json:"id"`
			Actor   string `json:"actor"`
			Message string `json:"message"`
		} `json:"values"`
	} `json:"comments"`
	Content struct {
		ContentEntities []struct {
			Type string `json:"type"`
		} `json:"contentEntities"`
	} `json:"content"`
}

type linkedInOrganization struct {
	ID            int64  `json:"id"`
	VanityName    string `json:"vanityName"`
	FollowingInfo struct {
		FollowerCount int `json:"followerCount"`
	} `json:"followingInfo"`
}

type linkedInPerson struct {
	ID             string `json:"id"`
	VanityName     string `json:"vanityName"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	NumConnections int    `json:"numConnections"`
	IsInfluencer   bool   `json:"isInfluencer"`
}

// NewLinkedInSource creates a new LinkedIn source
func NewLinkedInSource(accessToken string) *LinkedInSource {
	return &LinkedInSource{
		accessToken: accessToken,
		client: newClient("https://api.linkedin.com", linkedInLimit).
			SetHeader("X-Restli-Protocol-Version", "2.0.0"),
	}
}

// WithBaseURL points the source at another API host
func (l *LinkedInSource) WithBaseURL(baseURL string) *LinkedInSource {
	l.client.SetBaseURL(baseURL)
	return l
}

func (l *LinkedInSource) GetName() string {
	return analysis.PlatformLinkedIn
}

func (l *LinkedInSource) IsEnabled() bool {
	return l.accessToken != ""
}

func (l *LinkedInSource) request() *resty.Request {
	return l.client.R().SetAuthToken(l.accessToken)
}

// SearchItems returns posts whose social metadata matches the variant
func (l *LinkedInSource) SearchItems(ctx context.Context, variant string) ([]models.RawItem, error) {
	var resp linkedInSearchResponse
	err := getJSON(ctx, l.request().SetQueryParams(map[string]string{
		"q":     variant,
		"count": "50",
		"start": "0",
	}), "linkedin", "/v2/socialMetadata", &resp)
	if err != nil {
		return nil, err
	}

	items := make([]models.RawItem, 0, len(resp.Elements))
	for _, post := range resp.Elements {
		items = append(items, l.toRawItem(post))
	}

	logrus.Debugf("LinkedIn returned %d posts for '%s'", len(items), variant)
	return items, nil
}

func (l *LinkedInSource) toRawItem(post linkedInPost) models.RawItem {
	item := models.RawItem{
		ID:        post.ID,
		Platform:  analysis.PlatformLinkedIn,
		Text:      post.Text,
		Author:    post.Author,
		URL:       fmt.Sprintf("https://www.linkedin.com/feed/update/%s", post.ID),
		Likes:     post.LikeCount,
		Comments:  post.CommentCount,
		Shares:    post.ShareCount,
		MediaType: models.MediaText,
	}

	if post.Created.Time > 0 {
		item.CreatedAt = time.UnixMilli(post.Created.Time).UTC()
	}
	if len(post.Content.ContentEntities) > 0 {
		item.MediaType = mediaType(post.Content.ContentEntities[0].Type)
	}
	for _, c := range post.Comments.Values {
		item.Replies = append(item.Replies, models.Comment{ID: c.ID, Author: c.Actor, Text: c.Message})
	}

	return item
}

// GetProfile reads the follower count of the brand's organization page
func (l *LinkedInSource) GetProfile(ctx context.Context, brand string) (models.BrandProfile, error) {
	var org linkedInOrganization
	err := getJSON(ctx, l.request().SetQueryParam("fields", "id,vanityName,followingInfo"),
		"linkedin", "/v2/organizations/"+handle(brand), &org)
	if err != nil {
		return models.BrandProfile{}, err
	}

	return models.BrandProfile{Followers: org.FollowingInfo.FollowerCount}, nil
}

// ResolveAuthor looks up a member; connections stand in for followers and
// LinkedIn Influencer status for verification.
func (l *LinkedInSource) ResolveAuthor(ctx context.Context, authorID string) (models.AuthorProfile, error) {
	var person linkedInPerson
	err := getJSON(ctx, l.request().SetQueryParam("fields", "id,vanityName,firstName,lastName,numConnections,isInfluencer"),
		"linkedin", "/v2/people/"+authorID, &person)
	if err != nil {
		return models.AuthorProfile{}, err
	}

	return models.AuthorProfile{
		ID:          person.ID,
		DisplayName: strings.TrimSpace(person.FirstName + " " + person.LastName),
		Followers:   person.NumConnections,
		Verified:    person.IsInfluencer,
	}, nil
}

// mediaType maps API content types onto image, video or text
func mediaType(kind string) string {
	switch strings.ToLower(kind) {
	case "image", "carousel_album":
		return models.MediaImage
	case "video", "reels":
		return models.MediaVideo
	default:
		return models.MediaText
	}
}
