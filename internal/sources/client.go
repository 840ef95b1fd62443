package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const userAgent = "Brand-Pulse/1.0"

// Request quotas per platform. Twitter and NewsAPI follow their published
// free-tier windows; the Graph-style APIs use the per-user hourly budget.
var (
	twitterLimit   = quota(300, 15*time.Minute)
	facebookLimit  = quota(200, time.Hour)
	linkedInLimit  = quota(100, time.Hour)
	instagramLimit = quota(200, time.Hour)
	newsLimit      = quota(100, 24*time.Hour)
)

type limit struct {
	every time.Duration
	burst int
}

func quota(requests int, window time.Duration) limit {
	return limit{every: window / time.Duration(requests), burst: requests}
}

func (l limit) limiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(l.every), l.burst)
}

// newClient builds the resty client shared by every source: a request limiter
// runs before each attempt and 429 responses are retried after Retry-After.
func newClient(baseURL string, l limit) *resty.Client {
	limiter := l.limiter()

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("User-Agent", userAgent).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(30 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return r != nil && r.StatusCode() == http.StatusTooManyRequests
		}).
		SetRetryAfter(func(_ *resty.Client, r *resty.Response) (time.Duration, error) {
			return retryAfter(r), nil
		})

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	return client
}

// retryAfter reads the Retry-After header in seconds. Zero lets resty fall back
// to its own backoff.
func retryAfter(r *resty.Response) time.Duration {
	if r == nil {
		return 0
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(r.Header().Get("Retry-After")))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// getJSON issues a GET and decodes a 200 response into out
func getJSON(ctx context.Context, req *resty.Request, platform, path string, out any) error {
	resp, err := req.SetContext(ctx).Get(path)
	if err != nil {
		return err
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		logrus.Warnf("%s API rate limit still exceeded for %s", platform, path)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%s API returned status %d: %s", platform, resp.StatusCode(), truncate(string(resp.Body()), 200))
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", platform, err)
	}

	return nil
}

// parseTime accepts RFC3339 and the Graph API offset form
func parseTime(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	if value != "" {
		logrus.Debugf("Unrecognized timestamp %q", value)
	}
	return time.Time{}
}

// handle turns a brand into an account handle
func handle(brand string) string {
	return strings.ToLower(strings.Join(strings.Fields(brand), ""))
}

func truncate(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	return text[:maxLength] + "..."
}
