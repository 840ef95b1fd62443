package website

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormedPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width">
  <title> Acme Corp </title>
  <meta name="description" content="Acme makes everything">
</head>
<body>
  <h1>Acme</h1>
  <h2>Products</h2><h2>About</h2>
  <h3>Contact</h3>
  <img src="logo.png" alt="Acme logo">
  <img src="banner.png">
  <a href="/about">About</a>
  <a href="https://twitter.com/acme">Twitter</a>
  <a href="http://127.0.0.1/products">Products</a>
</body>
</html>`

func TestAnalyzer_Inspect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server-Timing", "db;dur=53")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Last-Modified", "Tue, 05 Mar 2024 12:00:00 GMT")
		w.Write([]byte(wellFormedPage))
	}))
	defer server.Close()

	metrics, err := NewAnalyzer().Inspect(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", metrics.Title)
	assert.Equal(t, "Acme makes everything", metrics.Description)
	assert.Equal(t, "Tue, 05 Mar 2024 12:00:00 GMT", metrics.LastModified)
	assert.Equal(t, 1, metrics.Headers.H1)
	assert.Equal(t, 2, metrics.Headers.H2)
	assert.Equal(t, 1, metrics.Headers.H3)
	assert.Equal(t, 2, metrics.ImagesTotal)
	assert.Equal(t, 1, metrics.ImagesWithAlt)
	assert.Equal(t, 2, metrics.LinksInternal)
	assert.Equal(t, 1, metrics.LinksExternal)

	assert.Equal(t, 90, metrics.Performance)
	assert.Equal(t, 85, metrics.SEO)
	assert.Equal(t, 75, metrics.Accessibility)
	assert.Equal(t, 100, metrics.BestPractices)
}

func TestAnalyzer_InspectBarePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>One</h1><h1>Two</h1></body></html>`))
	}))
	defer server.Close()

	metrics, err := NewAnalyzer().Inspect(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, 70, metrics.Performance)
	assert.Equal(t, 0, metrics.SEO)
	assert.Equal(t, 0, metrics.Accessibility)
	assert.Equal(t, 0, metrics.BestPractices)
	assert.Empty(t, metrics.Title)
	assert.Empty(t, metrics.LastModified)
}

func TestAnalyzer_InspectErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"Not found", server.URL + "/missing", "status 404"},
		{"Unsupported scheme", "ftp://example.com", "invalid website URL"},
		{"No host", "not a url", "invalid website URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAnalyzer().Inspect(context.Background(), tt.url)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScore(t *testing.T) {
	assert.Equal(t, 100, score(130))
	assert.Equal(t, 85, score(84.5))
	assert.Equal(t, 0, score(0))
}
