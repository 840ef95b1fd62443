package website

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/azure/brand-pulse/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Analyzer fetches a page and scores its SEO, accessibility and hygiene
type Analyzer struct {
	client *resty.Client
}

// NewAnalyzer creates a new website analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		client: resty.New().
			SetTimeout(30*time.Second).
			SetHeader("User-Agent", "Mozilla/5.0 (compatible; Brand-Pulse/1.0)").
			SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)),
	}
}

// Inspect fetches rawURL and computes its metrics
func (a *Analyzer) Inspect(ctx context.Context, rawURL string) (*models.WebsiteMetrics, error) {
	target, err := url.Parse(rawURL)
	if err != nil || target.Host == "" || (target.Scheme != "http" && target.Scheme != "https") {
		return nil, fmt.Errorf("invalid website URL %q", rawURL)
	}

	resp, err := a.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s returned status %d", rawURL, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", rawURL, err)
	}

	parsed := page{
		doc:                doc,
		host:               target.Hostname(),
		serverTiming:       resp.Header().Get("Server-Timing") != "",
		contentTypeOptions: resp.Header().Get("X-Content-Type-Options") != "",
	}
	metrics := parsed.metrics()
	metrics.LastModified = resp.Header().Get("Last-Modified")

	logrus.Debugf("Inspected %s: performance=%d seo=%d accessibility=%d best_practices=%d",
		rawURL, metrics.Performance, metrics.SEO, metrics.Accessibility, metrics.BestPractices)
	return metrics, nil
}

// page is a parsed document plus the response headers the scores read
type page struct {
	doc                *goquery.Document
	host               string
	serverTiming       bool
	contentTypeOptions bool
}

func (p page) metrics() *models.WebsiteMetrics {
	doc := p.doc

	m := &models.WebsiteMetrics{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Headers: models.HeaderCounts{
			H1: doc.Find("h1").Length(),
			H2: doc.Find("h2").Length(),
			H3: doc.Find("h3").Length(),
		},
		ImagesTotal:   doc.Find("img").Length(),
		ImagesWithAlt: doc.Find("img[alt]").Length(),
	}
	m.Description, _ = doc.Find(`meta[name="description"]`).Attr("content")

	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if p.isInternal(href) {
			m.LinksInternal++
		} else {
			m.LinksExternal++
		}
	})

	altRatio := float64(m.ImagesWithAlt) / float64(max(1, m.ImagesTotal))
	singleH1 := m.Headers.H1 == 1
	hasLang := doc.Find("html[lang]").Length() > 0

	m.Performance = score(points(p.serverTiming, 90) + points(!p.serverTiming, 70))
	m.SEO = score(
		points(m.Description != "", 20) +
			points(singleH1, 20) +
			altRatio*30 +
			points(m.LinksInternal > 0, 30),
	)
	m.Accessibility = score(
		altRatio*50 +
			points(singleH1, 25) +
			points(hasLang, 25),
	)
	m.BestPractices = score(
		points(doc.Find("meta[charset]").Length() > 0, 25) +
			points(doc.Find(`meta[name="viewport"]`).Length() > 0, 25) +
			points(hasLang, 25) +
			points(p.contentTypeOptions, 25),
	)

	return m
}

// isInternal reports whether a link is root-relative or mentions the page host
func (p page) isInternal(href string) bool {
	return strings.HasPrefix(href, "/") || (p.host != "" && strings.Contains(href, p.host))
}

func points(ok bool, value float64) float64 {
	if ok {
		return value
	}
	return 0
}

// score rounds a 0..100 point total and caps it at 100
func score(total float64) int {
	return min(100, int(math.Round(total)))
}
