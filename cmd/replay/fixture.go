package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/azure/brand-pulse/internal/analysis"
	"github.com/azure/brand-pulse/internal/models"
	"gopkg.in/yaml.v3"
)

// Fixture is a recorded set of platform responses for one brand
type Fixture struct {
	Brand     string                     `yaml:"brand"`
	User      string                     `yaml:"user"`
	Platforms map[string]PlatformFixture `yaml:"platforms"`
	News      []ArticleFixture           `yaml:"news"`
}

// PlatformFixture holds one platform's recorded responses. A non-empty Error
// makes every call fail.
type PlatformFixture struct {
	Followers int                      `yaml:"followers"`
	Items     []ItemFixture            `yaml:"items"`
	Authors   map[string]AuthorFixture `yaml:"authors"`
	Error     string                   `yaml:"error"`
}

type ItemFixture struct {
	ID        string         `yaml:"id"`
	Author    string         `yaml:"author"`
	Text      string         `yaml:"text"`
	CreatedAt time.Time      `yaml:"created_at"`
	Likes     int            `yaml:"likes"`
	Shares    int            `yaml:"shares"`
	Comments  int            `yaml:"comments"`
	Views     int            `yaml:"views"`
	MediaType string         `yaml:"media_type"`
	Reactions []string       `yaml:"reactions"`
	Topics    []string       `yaml:"topics"`
	InThread  bool           `yaml:"in_thread"`
	Replies   []ReplyFixture `yaml:"replies"`
}

type ReplyFixture struct {
	ID     string `yaml:"id"`
	Author string `yaml:"author"`
	Text   string `yaml:"text"`
}

type AuthorFixture struct {
	Name      string `yaml:"name"`
	Followers int    `yaml:"followers"`
	Verified  bool   `yaml:"verified"`
}

type ArticleFixture struct {
	Title       string    `yaml:"title"`
	Summary     string    `yaml:"summary"`
	URL         string    `yaml:"url"`
	Source      string    `yaml:"source"`
	PublishedAt time.Time `yaml:"published_at"`
}

// LoadFixture reads a YAML fixture file
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	if f.Brand == "" {
		return nil, fmt.Errorf("fixture %s has no brand", path)
	}
	if f.User == "" {
		f.User = "replay"
	}
	return &f, nil
}

// ReplayPlatforms returns a replaying platform per recorded platform, in name order
func (f *Fixture) ReplayPlatforms() []analysis.Platform {
	names := make([]string, 0, len(f.Platforms))
	for name := range f.Platforms {
		names = append(names, name)
	}
	sort.Strings(names)

	platforms := make([]analysis.Platform, 0, len(names))
	for _, name := range names {
		platforms = append(platforms, &replayPlatform{name: name, fixture: f.Platforms[name]})
	}
	return platforms
}

// replayPlatform answers every search with the recorded items
type replayPlatform struct {
	name    string
	fixture PlatformFixture
}

var _ analysis.Platform = (*replayPlatform)(nil)

func (p *replayPlatform) GetName() string { return p.name }
func (p *replayPlatform) IsEnabled() bool { return true }

func (p *replayPlatform) failure() error {
	if p.fixture.Error == "" {
		return nil
	}
	return errors.New(p.fixture.Error)
}

func (p *replayPlatform) SearchItems(ctx context.Context, variant string) ([]models.RawItem, error) {
	if err := p.failure(); err != nil {
		return nil, err
	}

	items := make([]models.RawItem, 0, len(p.fixture.Items))
	for _, it := range p.fixture.Items {
		item := models.RawItem{
			ID:        it.ID,
			Platform:  p.name,
			Text:      it.Text,
			Author:    it.Author,
			CreatedAt: it.CreatedAt,
			Likes:     it.Likes,
			Shares:    it.Shares,
			Comments:  it.Comments,
			Views:     it.Views,
			MediaType: it.MediaType,
			Topics:    it.Topics,
			InThread:  it.InThread,
		}
		for _, r := range it.Reactions {
			item.Reactions = append(item.Reactions, models.Reaction{Type: r})
		}
		for _, r := range it.Replies {
			item.Replies = append(item.Replies, models.Comment{ID: r.ID, Author: r.Author, Text: r.Text})
		}
		items = append(items, item)
	}
	return items, nil
}

func (p *replayPlatform) GetProfile(ctx context.Context, brand string) (models.BrandProfile, error) {
	if err := p.failure(); err != nil {
		return models.BrandProfile{}, err
	}
	return models.BrandProfile{Followers: p.fixture.Followers}, nil
}

func (p *replayPlatform) ResolveAuthor(ctx context.Context, authorID string) (models.AuthorProfile, error) {
	if err := p.failure(); err != nil {
		return models.AuthorProfile{}, err
	}

	author, ok := p.fixture.Authors[authorID]
	if !ok {
		return models.AuthorProfile{}, fmt.Errorf("author %s not recorded", authorID)
	}
	return models.AuthorProfile{
		ID:          authorID,
		DisplayName: author.Name,
		Followers:   author.Followers,
		Verified:    author.Verified,
	}, nil
}

// replayNews serves the recorded articles
type replayNews struct {
	articles []ArticleFixture
}

func (n *replayNews) GetName() string { return "replay-news" }
func (n *replayNews) IsEnabled() bool { return len(n.articles) > 0 }

func (n *replayNews) FetchArticles(ctx context.Context, query string) ([]models.NewsArticle, error) {
	articles := make([]models.NewsArticle, 0, len(n.articles))
	for _, a := range n.articles {
		articles = append(articles, models.NewsArticle{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source,
			PublishedAt: a.PublishedAt,
			Summary:     a.Summary,
		})
	}
	return articles, nil
}
