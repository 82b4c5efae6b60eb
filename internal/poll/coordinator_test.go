package poll

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"forkboard/internal/client"
	"forkboard/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// backendMux serves every endpoint of the analytics API, with hashtags
// optionally failing.
func backendMux(failHashtags bool) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(client.StatsOverview{TotalPosts: 10})
	})
	mux.HandleFunc("/api/posts/popular", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]client.Post{{ID: "p1"}})
	})
	mux.HandleFunc("/api/stats/hourly", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]client.HourlyStat{{Hour: "2024-03-01T10:00:00", PostCount: 4}})
	})
	mux.HandleFunc("/api/hashtags/trending", func(w http.ResponseWriter, r *http.Request) {
		if failHashtags {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]client.HashtagCount{{Hashtag: "go", Count: 2}})
	})
	mux.HandleFunc("/api/summaries", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]client.DailySummary{{Date: "2024-03-01T00:00:00"}})
	})
	mux.HandleFunc("/api/topics/hourly", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"hourly_topics": map[string]any{
				"2024-03-01T10:00:00": []map[string]any{{"topic": "release", "post_count": 3}},
			},
		})
	})
	return mux
}

func newCoordinator(t *testing.T, handler http.Handler) *Coordinator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.Default()
	cfg.API.BaseURL = srv.URL
	cfg.API.MaxRetries = 1
	c := client.New(cfg.API)
	return NewCoordinator(c, cfg.Refresh, 5*time.Second, discardLogger())
}

func TestRunCycleAllSucceed(t *testing.T) {
	coord := newCoordinator(t, backendMux(false))

	b := coord.RunCycle(context.Background())

	if b.Err != nil {
		t.Fatalf("Batch.Err = %v, want nil", b.Err)
	}
	if b.Stats.Err != nil || b.Stats.Value == nil || b.Stats.Value.TotalPosts != 10 {
		t.Errorf("stats = %+v (err %v), want TotalPosts 10", b.Stats.Value, b.Stats.Err)
	}
	if b.Posts.Err != nil || len(b.Posts.Value) != 1 {
		t.Errorf("posts = %+v (err %v), want one post", b.Posts.Value, b.Posts.Err)
	}
	if b.Hourly.Err != nil || len(b.Hourly.Value) != 1 {
		t.Errorf("hourly = %+v (err %v), want one record", b.Hourly.Value, b.Hourly.Err)
	}
	if b.Hashtags.Err != nil || len(b.Hashtags.Value) != 1 {
		t.Errorf("hashtags = %+v (err %v), want one tag", b.Hashtags.Value, b.Hashtags.Err)
	}
	if b.Summaries.Err != nil || len(b.Summaries.Value) != 1 {
		t.Errorf("summaries = %+v (err %v), want one summary", b.Summaries.Value, b.Summaries.Err)
	}
	if b.Topics.Err != nil || len(b.Topics.Value) != 1 {
		t.Errorf("topics = %+v (err %v), want one bucket", b.Topics.Value, b.Topics.Err)
	}
}

func TestRunCyclePartialFailureIsolated(t *testing.T) {
	coord := newCoordinator(t, backendMux(true))

	b := coord.RunCycle(context.Background())

	if b.Err != nil {
		t.Fatalf("Batch.Err = %v, want nil for partial failure", b.Err)
	}
	if b.Hashtags.Err == nil {
		t.Error("hashtags should carry an error")
	}
	// The sibling endpoints are unaffected.
	if b.Stats.Err != nil || b.Posts.Err != nil || b.Hourly.Err != nil ||
		b.Summaries.Err != nil || b.Topics.Err != nil {
		t.Errorf("sibling endpoints failed: stats=%v posts=%v hourly=%v summaries=%v topics=%v",
			b.Stats.Err, b.Posts.Err, b.Hourly.Err, b.Summaries.Err, b.Topics.Err)
	}
}

func TestRunCycleWholeCycleFailure(t *testing.T) {
	coord := newCoordinator(t, backendMux(false))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := coord.RunCycle(ctx)

	if b.Err == nil {
		t.Fatal("Batch.Err should be set when the cycle context is cancelled")
	}
}

func TestRunCycleBackendDown(t *testing.T) {
	// A refused connection is six independent endpoint failures, not a
	// whole-cycle failure; the state layer keeps what it has.
	srv := httptest.NewServer(backendMux(false))
	srv.Close()
	cfg := config.Default()
	cfg.API.BaseURL = srv.URL
	cfg.API.MaxRetries = 1
	c := client.New(cfg.API)
	coord := NewCoordinator(c, cfg.Refresh, 2*time.Second, discardLogger())

	b := coord.RunCycle(context.Background())

	if b.Err != nil {
		t.Fatalf("Batch.Err = %v, want nil", b.Err)
	}
	for name, err := range map[string]error{
		"stats":     b.Stats.Err,
		"posts":     b.Posts.Err,
		"hourly":    b.Hourly.Err,
		"hashtags":  b.Hashtags.Err,
		"summaries": b.Summaries.Err,
		"topics":    b.Topics.Err,
	} {
		if err == nil {
			t.Errorf("%s fetch should fail when the backend is down", name)
		}
	}
}
