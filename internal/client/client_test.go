package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"forkboard/internal/config"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.API{BaseURL: srv.URL, TimeoutSeconds: 5, MaxRetries: 1}
	return New(cfg)
}

func TestStatsDecode(t *testing.T) {
	avg := 0.42
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stats" {
			t.Errorf("path = %q, want /api/stats", r.URL.Path)
		}
		json.NewEncoder(w).Encode(StatsOverview{
			TotalPosts:    1234,
			PostsToday:    56,
			PostsThisHour: 7,
			AvgEngagement: 3.5,
			Sentiment: SentimentOverview{
				AvgSentiment:  &avg,
				PositiveCount: 10,
				NegativeCount: 2,
				NeutralCount:  5,
				TotalAnalyzed: 17,
			},
		})
	}))

	got, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if got.TotalPosts != 1234 {
		t.Errorf("TotalPosts = %d, want 1234", got.TotalPosts)
	}
	if got.Sentiment.AvgSentiment == nil || *got.Sentiment.AvgSentiment != 0.42 {
		t.Errorf("Sentiment.AvgSentiment = %v, want 0.42", got.Sentiment.AvgSentiment)
	}
}

func TestPopularPostsQueryParams(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/posts/popular" {
			t.Errorf("path = %q, want /api/posts/popular", r.URL.Path)
		}
		if got := r.URL.Query().Get("hours"); got != "24" {
			t.Errorf("hours = %q, want 24", got)
		}
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("limit = %q, want 10", got)
		}
		json.NewEncoder(w).Encode([]Post{{ID: "1", CreatedAt: "2024-03-01T10:00:00"}})
	}))

	posts, err := c.PopularPosts(context.Background(), 24, 10)
	if err != nil {
		t.Fatalf("PopularPosts returned error: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "1" {
		t.Errorf("posts = %+v, want one post with ID 1", posts)
	}
	// Sentiment fields are optional and absent here.
	if posts[0].SentimentLabel != nil {
		t.Errorf("SentimentLabel = %v, want nil", posts[0].SentimentLabel)
	}
}

func TestHourlyTopicsGrouping(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("hours"); got != "72" {
			t.Errorf("hours = %q, want 72", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"hourly_topics": map[string]any{
				"2024-03-01T10:00:00": []map[string]any{
					{"topic": "release day", "post_count": 12, "avg_sentiment": nil},
				},
				"2024-03-01T11:00:00": []map[string]any{
					{"topic": "outage", "post_count": 40, "avg_sentiment": -0.6},
				},
			},
		})
	}))

	topics, err := c.HourlyTopics(context.Background(), 72)
	if err != nil {
		t.Fatalf("HourlyTopics returned error: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("got %d hour buckets, want 2", len(topics))
	}
	bucket := topics["2024-03-01T10:00:00"]
	if len(bucket) != 1 || bucket[0].Topic != "release day" {
		t.Errorf("bucket = %+v, want one topic %q", bucket, "release day")
	}
	if bucket[0].AvgSentiment != nil {
		t.Errorf("AvgSentiment = %v, want nil", bucket[0].AvgSentiment)
	}
}

func TestDailySummariesWindow(t *testing.T) {
	text := "a quiet day"
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("days"); got != "30" {
			t.Errorf("days = %q, want 30", got)
		}
		json.NewEncoder(w).Encode([]DailySummary{
			{Date: "2024-03-02T00:00:00", TotalPosts: 5, SummaryText: &text},
			{Date: "2024-03-01T00:00:00", TotalPosts: 9},
		})
	}))

	sums, err := c.DailySummaries(context.Background(), 30)
	if err != nil {
		t.Fatalf("DailySummaries returned error: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("got %d summaries, want 2", len(sums))
	}
	if sums[0].Date != "2024-03-02T00:00:00" {
		t.Errorf("first summary date = %q, want newest first", sums[0].Date)
	}
	if sums[1].SummaryText != nil {
		t.Errorf("second SummaryText = %v, want nil", sums[1].SummaryText)
	}
}

func TestRecentPosts(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/posts/recent" {
			t.Errorf("path = %q, want /api/posts/recent", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "20" {
			t.Errorf("limit = %q, want 20", got)
		}
		json.NewEncoder(w).Encode([]Post{
			{ID: "2", CreatedAt: "2024-03-01T11:00:00"},
			{ID: "1", CreatedAt: "2024-03-01T10:00:00"},
		})
	}))

	posts, err := c.RecentPosts(context.Background(), 20)
	if err != nil {
		t.Fatalf("RecentPosts returned error: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != "2" {
		t.Errorf("posts = %+v, want two posts newest first", posts)
	}
}

func TestLatestSummaryDecode(t *testing.T) {
	text := "busy day"
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/summaries/latest" {
			t.Errorf("path = %q, want /api/summaries/latest", r.URL.Path)
		}
		json.NewEncoder(w).Encode(DailySummary{Date: "2024-03-02T00:00:00", TotalPosts: 42, SummaryText: &text})
	}))

	s, err := c.LatestSummary(context.Background())
	if err != nil {
		t.Fatalf("LatestSummary returned error: %v", err)
	}
	if s.Date != "2024-03-02T00:00:00" || s.TotalPosts != 42 {
		t.Errorf("summary = %+v, want the decoded latest summary", s)
	}
	if s.SummaryText == nil || *s.SummaryText != "busy day" {
		t.Errorf("SummaryText = %v, want %q", s.SummaryText, "busy day")
	}
}

func TestCurrentTopics(t *testing.T) {
	hour := "2024-03-01T11:00:00"
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/topics/current" {
			t.Errorf("path = %q, want /api/topics/current", r.URL.Path)
		}
		json.NewEncoder(w).Encode(CurrentTopicsResponse{
			Hour:   &hour,
			Topics: []TopicEntry{{Topic: "outage", PostCount: 40}},
		})
	}))

	cur, err := c.CurrentTopics(context.Background())
	if err != nil {
		t.Fatalf("CurrentTopics returned error: %v", err)
	}
	if cur.Hour == nil || *cur.Hour != hour {
		t.Errorf("Hour = %v, want %q", cur.Hour, hour)
	}
	if len(cur.Topics) != 1 || cur.Topics[0].Topic != "outage" {
		t.Errorf("Topics = %+v, want one topic outage", cur.Topics)
	}
}

func TestSentimentDistribution(t *testing.T) {
	neg := -0.2
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sentiment/distribution" {
			t.Errorf("path = %q, want /api/sentiment/distribution", r.URL.Path)
		}
		if got := r.URL.Query().Get("hours"); got != "48" {
			t.Errorf("hours = %q, want 48", got)
		}
		json.NewEncoder(w).Encode([]SentimentBucket{
			{Hour: "2024-03-01T10:00:00", AvgSentiment: &neg, Count: 12},
			{Hour: "2024-03-01T11:00:00", Count: 3},
		})
	}))

	buckets, err := c.SentimentDistribution(context.Background(), 48)
	if err != nil {
		t.Fatalf("SentimentDistribution returned error: %v", err)
	}
	if len(buckets) != 2 || buckets[0].Hour != "2024-03-01T10:00:00" {
		t.Errorf("buckets = %+v, want two hour-ascending buckets", buckets)
	}
	if buckets[0].AvgSentiment == nil || *buckets[0].AvgSentiment != -0.2 {
		t.Errorf("AvgSentiment = %v, want -0.2", buckets[0].AvgSentiment)
	}
	if buckets[1].AvgSentiment != nil {
		t.Errorf("second AvgSentiment = %v, want nil", buckets[1].AvgSentiment)
	}
}

func TestHealth(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %q, want /health", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}))

	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
}

func TestNonOKStatus(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	if _, err := c.LatestSummary(context.Background()); err == nil {
		t.Fatal("LatestSummary should return error on 404")
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	cfg := config.API{BaseURL: srv.URL, TimeoutSeconds: 5, MaxRetries: 3}
	c := New(cfg)

	// 404 means "no summary yet", not a transient fault; retrying it only
	// delays the cycle.
	if _, err := c.LatestSummary(context.Background()); err == nil {
		t.Fatal("LatestSummary should return error on 404")
	}
	if calls != 1 {
		t.Errorf("backend saw %d calls, want 1 (no retry on 404)", calls)
	}
}

func TestRetryOnTransientFailure(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]HashtagCount{{Hashtag: "golang", Count: 3}})
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.API{BaseURL: srv.URL, TimeoutSeconds: 5, MaxRetries: 2}
	c := New(cfg)

	tags, err := c.TrendingHashtags(context.Background(), 24, 10)
	if err != nil {
		t.Fatalf("TrendingHashtags returned error after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("backend saw %d calls, want 2", calls)
	}
	if len(tags) != 1 || tags[0].Hashtag != "golang" {
		t.Errorf("tags = %+v, want one hashtag golang", tags)
	}
}
