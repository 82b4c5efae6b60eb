// Package state owns the dashboard's in-memory view state: the payload
// slots filled by each refresh cycle, the two selection pointers into the
// historical collections, and the initial loading flag. All mutation happens
// from the UI event loop, so no locking is needed.
package state

import (
	"sort"

	"forkboard/internal/client"
	"forkboard/internal/poll"
)

// Dashboard is the reconciled view state. Non-historical slots are replaced
// wholesale per cycle; Summaries and Topics are merge-reconciled so the
// user's current selection survives refreshes.
type Dashboard struct {
	// Loading is true only until the first batch lands (success or not).
	Loading bool

	Stats    *client.StatsOverview
	Posts    []client.Post
	Hourly   []client.HourlyStat
	Hashtags []client.HashtagCount

	// Summaries arrive newest first; SummaryIdx is the selected position
	// (0 = newest), -1 when the collection is empty.
	Summaries  []client.DailySummary
	SummaryIdx int

	// Topics maps hour-key timestamps to that hour's topics. TopicHours is
	// the derived key list sorted descending (newest first); TopicHour is
	// the selected key, "" when the mapping is empty.
	Topics     map[string][]client.TopicEntry
	TopicHours []string
	TopicHour  string
}

// New returns an empty dashboard in the loading state.
func New() *Dashboard {
	return &Dashboard{Loading: true, SummaryIdx: -1}
}

// ApplyBatch folds one refresh cycle into the dashboard. Required endpoints
// keep their previous value on failure; the optional historical endpoints
// treat failure as empty data. The loading flag clears on every batch,
// including a whole-cycle failure, and never comes back.
func (d *Dashboard) ApplyBatch(b poll.Batch) {
	d.Loading = false

	if b.Err != nil {
		// Whole-cycle failure: everything stays as it was.
		return
	}

	if b.Stats.Err == nil {
		d.Stats = b.Stats.Value
	}
	if b.Posts.Err == nil {
		d.Posts = b.Posts.Value
	}
	if b.Hourly.Err == nil {
		d.Hourly = b.Hourly.Value
	}
	if b.Hashtags.Err == nil {
		d.Hashtags = b.Hashtags.Value
	}

	summaries := b.Summaries.Value
	if b.Summaries.Err != nil {
		summaries = nil
	}
	d.setSummaries(summaries)

	topics := b.Topics.Value
	if b.Topics.Err != nil {
		topics = nil
	}
	d.setTopics(topics)
}

// setSummaries replaces the summary collection and reconciles the
// index-based selection.
func (d *Dashboard) setSummaries(summaries []client.DailySummary) {
	d.SummaryIdx = reconcileSummaryIndex(d.SummaryIdx, len(summaries))
	d.Summaries = summaries
}

// setTopics replaces the topic mapping, rederives the descending hour-key
// list, and reconciles the key-based selection.
func (d *Dashboard) setTopics(topics map[string][]client.TopicEntry) {
	hours := make([]string, 0, len(topics))
	for h := range topics {
		hours = append(hours, h)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(hours)))

	d.Topics = topics
	d.TopicHours = hours
	d.TopicHour = reconcileTopicHour(d.TopicHour, hours)
}

// SelectedSummary returns the summary under the selection pointer, or nil.
func (d *Dashboard) SelectedSummary() *client.DailySummary {
	if d.SummaryIdx < 0 || d.SummaryIdx >= len(d.Summaries) {
		return nil
	}
	return &d.Summaries[d.SummaryIdx]
}

// SelectedTopics returns the selected hour-key and its topic bucket.
func (d *Dashboard) SelectedTopics() (string, []client.TopicEntry) {
	if d.TopicHour == "" {
		return "", nil
	}
	return d.TopicHour, d.Topics[d.TopicHour]
}
