// Package poll runs the periodic acquisition cycle against the analytics
// backend: six endpoints fetched concurrently, each classified as succeeded
// or failed on its own.
package poll

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"forkboard/internal/client"
	"forkboard/internal/config"
)

// Result pairs one endpoint's decoded payload with its fetch error.
type Result[T any] struct {
	Value T
	Err   error
}

// Batch is the outcome of one refresh cycle. Per-endpoint failures live in
// the individual results; Err is set only when the whole cycle failed
// (context expiry or cancellation) before the requests could complete.
type Batch struct {
	Stats     Result[*client.StatsOverview]
	Posts     Result[[]client.Post]
	Hourly    Result[[]client.HourlyStat]
	Hashtags  Result[[]client.HashtagCount]
	Summaries Result[[]client.DailySummary]
	Topics    Result[map[string][]client.TopicEntry]

	Err error
}

// Coordinator issues refresh cycles. Cycles are expected to be serialized
// by the caller; the coordinator itself holds no mutable state.
type Coordinator struct {
	client  *client.Client
	refresh config.Refresh
	timeout time.Duration
	log     *slog.Logger
}

// NewCoordinator creates a coordinator fetching with the windows and limits
// from refresh. Each cycle is capped at cycleTimeout; it should sit below
// the refresh interval so a stuck cycle cannot starve the next one.
func NewCoordinator(c *client.Client, refresh config.Refresh, cycleTimeout time.Duration, log *slog.Logger) *Coordinator {
	return &Coordinator{client: c, refresh: refresh, timeout: cycleTimeout, log: log}
}

// RunCycle fetches all six endpoints concurrently and returns the batch.
// It never returns an error: failures are recorded in the batch so the
// state layer can apply its per-endpoint retention policy.
func (c *Coordinator) RunCycle(ctx context.Context) Batch {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var b Batch
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.Stats.Value, b.Stats.Err = c.client.Stats(gctx)
		return nil
	})
	g.Go(func() error {
		b.Posts.Value, b.Posts.Err = c.client.PopularPosts(gctx, c.refresh.PostsHours, c.refresh.PostsLimit)
		return nil
	})
	g.Go(func() error {
		b.Hourly.Value, b.Hourly.Err = c.client.HourlyStats(gctx, c.refresh.HourlyHours)
		return nil
	})
	g.Go(func() error {
		b.Hashtags.Value, b.Hashtags.Err = c.client.TrendingHashtags(gctx, c.refresh.HashtagsHours, c.refresh.HashtagsLimit)
		return nil
	})
	g.Go(func() error {
		b.Summaries.Value, b.Summaries.Err = c.client.DailySummaries(gctx, c.refresh.SummariesDays)
		return nil
	})
	g.Go(func() error {
		b.Topics.Value, b.Topics.Err = c.client.HourlyTopics(gctx, c.refresh.TopicsHours)
		return nil
	})

	// Per-endpoint errors are recorded in the batch; the group never errors.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		b.Err = err
		c.log.Error("refresh cycle failed", "error", err)
		return b
	}

	// Required endpoints keep stale data on failure; optional ones
	// (summaries, topics) degrade to an empty view.
	logResult(c.log, "stats", b.Stats.Err, true)
	logResult(c.log, "posts", b.Posts.Err, true)
	logResult(c.log, "hourly", b.Hourly.Err, true)
	logResult(c.log, "hashtags", b.Hashtags.Err, true)
	logResult(c.log, "summaries", b.Summaries.Err, false)
	logResult(c.log, "topics", b.Topics.Err, false)

	return b
}

func logResult(log *slog.Logger, endpoint string, err error, required bool) {
	if err == nil {
		return
	}
	if required {
		log.Warn("endpoint fetch failed, keeping previous data", "endpoint", endpoint, "error", err)
	} else {
		log.Debug("optional endpoint unavailable", "endpoint", endpoint, "error", err)
	}
}
