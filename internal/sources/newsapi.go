package sources

import (
	"context"
	"strings"

	"github.com/azure/brand-pulse/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// NewsAPISource fetches articles from newsapi.org
type NewsAPISource struct {
	apiKey string
	client *resty.Client
}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// NewNewsAPISource creates a new NewsAPI source
func NewNewsAPISource(apiKey string) *NewsAPISource {
	return &NewsAPISource{
		apiKey: apiKey,
		client: newClient("https://newsapi.org", newsLimit),
	}
}

// WithBaseURL points the source at another API host
func (n *NewsAPISource) WithBaseURL(baseURL string) *NewsAPISource {
	n.client.SetBaseURL(baseURL)
	return n
}

func (n *NewsAPISource) GetName() string {
	return "newsapi"
}

func (n *NewsAPISource) IsEnabled() bool {
	return n.apiKey != ""
}

// FetchArticles returns the latest English articles for the query, newest first.
// Articles come back unclassified.
func (n *NewsAPISource) FetchArticles(ctx context.Context, query string) ([]models.NewsArticle, error) {
	var resp newsAPIResponse
	err := getJSON(ctx, n.client.R().
		SetHeader("X-Api-Key", n.apiKey).
		SetQueryParams(map[string]string{
			"q":        query,
			"sortBy":   "publishedAt",
			"language": "en",
			"pageSize": "100",
		}), "newsapi", "/v2/everything", &resp)
	if err != nil {
		return nil, err
	}

	articles := make([]models.NewsArticle, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if strings.TrimSpace(a.Title) == "" || a.Title == "[Removed]" {
			continue
		}
		articles = append(articles, models.NewsArticle{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: parseTime(a.PublishedAt),
			Summary:     a.Description,
		})
	}

	logrus.Infof("NewsAPI returned %d articles for '%s'", len(articles), query)
	return articles, nil
}
