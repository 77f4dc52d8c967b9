package booking

import "time"

// TimelineEntry records one status the booking has held, when it was entered,
// who drove the change and an optional free-text remark.
type TimelineEntry struct {
	Status Status    `json:"status"`
	At     time.Time `json:"at"`
	By     string    `json:"by"`
	Remark string    `json:"remark,omitempty"`
}

// Timeline is the append-only audit trail of a booking's status history.
// Entries are never reordered or mutated after the fact.
type Timeline []TimelineEntry

// Last returns the most recent entry. The second return value is false for an
// empty timeline, which never occurs for a persisted booking.
func (t Timeline) Last() (TimelineEntry, bool) {
	if len(t) == 0 {
		return TimelineEntry{}, false
	}
	return t[len(t)-1], true
}

// Reversed returns a copy of the timeline in newest-first order, the
// convention report views render in.
func (t Timeline) Reversed() Timeline {
	out := make(Timeline, len(t))
	for i, e := range t {
		out[len(t)-1-i] = e
	}
	return out
}
