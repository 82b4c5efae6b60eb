package state

import "slices"

// Stepping direction: +1 moves toward older records, -1 toward newer ones.
// Out-of-bounds steps are silent no-ops; the UI disables the control at the
// boundary instead of surfacing an error.

// StepSummary moves the summary selection by dir. Summaries are newest
// first, so +1 increases the index.
func (d *Dashboard) StepSummary(dir int) {
	idx := d.SummaryIdx + dir
	if d.SummaryIdx < 0 || idx < 0 || idx >= len(d.Summaries) {
		return
	}
	d.SummaryIdx = idx
}

// StepTopic moves the topic-hour selection by dir through the descending
// hour-key list, resolving the new key from the current mapping.
func (d *Dashboard) StepTopic(dir int) {
	cur := slices.Index(d.TopicHours, d.TopicHour)
	if cur < 0 {
		return
	}
	pos := cur + dir
	if pos < 0 || pos >= len(d.TopicHours) {
		return
	}
	d.TopicHour = d.TopicHours[pos]
}
