package state

import "slices"

// The two historical collections reconcile differently on purpose.
// Summaries are a rolling, append-mostly list where position approximates a
// recency band, so the position is preserved even when the record at that
// position changes identity as old days roll off. Topic buckets are keyed
// by the hour itself, a stable natural identifier, so the key is preserved
// instead.

// reconcileSummaryIndex applies the index-based policy: -1 for an empty
// collection, 0 on first population, otherwise the previous index clamped
// to the new bounds.
func reconcileSummaryIndex(prev, n int) int {
	if n == 0 {
		return -1
	}
	if prev < 0 {
		return 0
	}
	if prev > n-1 {
		return n - 1
	}
	return prev
}

// reconcileTopicHour applies the key-based policy: keep the previous key if
// it still exists, else fall back to the newest key. hours must be sorted
// descending.
func reconcileTopicHour(prev string, hours []string) string {
	if len(hours) == 0 {
		return ""
	}
	if prev != "" && slices.Contains(hours, prev) {
		return prev
	}
	return hours[0]
}
