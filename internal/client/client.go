package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"forkboard/internal/config"
	"forkboard/internal/util"
)

// retryBaseDelay is the initial backoff between request attempts.
const retryBaseDelay = 500 * time.Millisecond

// Client talks to the Forkalytics REST API. All methods take a context and
// return decoded responses; transient failures are retried with backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// New creates a client for the backend described by cfg.
func New(cfg config.API) *Client {
	retries := cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		maxRetries: retries,
	}
}

// get performs a GET against path with the given query parameters and
// decodes the JSON response body into out.
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	return util.Retry(ctx, c.maxRetries, retryBaseDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return util.Permanent(fmt.Errorf("building request for %s: %w", path, err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("GET %s: %w", path, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
			if retryableStatus(resp.StatusCode) {
				return err
			}
			return util.Permanent(err)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			// A 200 with an undecodable body is a shape mismatch, not a
			// transient fault.
			return util.Permanent(fmt.Errorf("decoding %s response: %w", path, err))
		}
		return nil
	})
}

// retryableStatus reports whether a response status is worth another
// attempt: server-side failures and throttling, not client errors.
func retryableStatus(code int) bool {
	return code >= 500 || code == http.StatusRequestTimeout || code == http.StatusTooManyRequests
}

// Stats retrieves the overview counter snapshot.
func (c *Client) Stats(ctx context.Context) (*StatsOverview, error) {
	var out StatsOverview
	if err := c.get(ctx, "/api/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PopularPosts retrieves the highest-engagement posts within the window.
func (c *Client) PopularPosts(ctx context.Context, hours, limit int) ([]Post, error) {
	q := url.Values{}
	q.Set("hours", strconv.Itoa(hours))
	q.Set("limit", strconv.Itoa(limit))
	var out []Post
	if err := c.get(ctx, "/api/posts/popular", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentPosts retrieves the most recent posts.
func (c *Client) RecentPosts(ctx context.Context, limit int) ([]Post, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	var out []Post
	if err := c.get(ctx, "/api/posts/recent", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HourlyStats retrieves per-hour activity records, hour ascending.
func (c *Client) HourlyStats(ctx context.Context, hours int) ([]HourlyStat, error) {
	q := url.Values{}
	q.Set("hours", strconv.Itoa(hours))
	var out []HourlyStat
	if err := c.get(ctx, "/api/stats/hourly", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TrendingHashtags retrieves the top hashtags within the window.
func (c *Client) TrendingHashtags(ctx context.Context, hours, limit int) ([]HashtagCount, error) {
	q := url.Values{}
	q.Set("hours", strconv.Itoa(hours))
	q.Set("limit", strconv.Itoa(limit))
	var out []HashtagCount
	if err := c.get(ctx, "/api/hashtags/trending", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DailySummaries retrieves AI-generated daily summaries, newest first.
func (c *Client) DailySummaries(ctx context.Context, days int) ([]DailySummary, error) {
	q := url.Values{}
	q.Set("days", strconv.Itoa(days))
	var out []DailySummary
	if err := c.get(ctx, "/api/summaries", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LatestSummary retrieves the most recent daily summary. The backend
// answers 404 when no summary exists yet; that surfaces as an error here.
func (c *Client) LatestSummary(ctx context.Context) (*DailySummary, error) {
	var out DailySummary
	if err := c.get(ctx, "/api/summaries/latest", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HourlyTopics retrieves the hour-keyed topic buckets within the window.
func (c *Client) HourlyTopics(ctx context.Context, hours int) (map[string][]TopicEntry, error) {
	q := url.Values{}
	q.Set("hours", strconv.Itoa(hours))
	var out HourlyTopicsResponse
	if err := c.get(ctx, "/api/topics/hourly", q, &out); err != nil {
		return nil, err
	}
	return out.HourlyTopics, nil
}

// CurrentTopics retrieves the topics of the most recent populated hour.
func (c *Client) CurrentTopics(ctx context.Context) (*CurrentTopicsResponse, error) {
	var out CurrentTopicsResponse
	if err := c.get(ctx, "/api/topics/current", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SentimentDistribution retrieves per-hour sentiment averages within the
// window, hour ascending.
func (c *Client) SentimentDistribution(ctx context.Context, hours int) ([]SentimentBucket, error) {
	q := url.Values{}
	q.Set("hours", strconv.Itoa(hours))
	var out []SentimentBucket
	if err := c.get(ctx, "/api/sentiment/distribution", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health checks backend liveness.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	return c.get(ctx, "/health", nil, &out)
}
