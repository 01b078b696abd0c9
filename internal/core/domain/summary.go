package domain

import "time"

// SummaryRow holds the ticket counts of one level, one per status bucket.
type SummaryRow struct {
	Level      Level
	New        int
	InProgress int
	Resolved   int
	Unresolved int
}

// Count returns the counter for the given bucket.
func (r SummaryRow) Count(b StatusBucket) int {
	switch b {
	case BucketNew:
		return r.New
	case BucketInProgress:
		return r.InProgress
	case BucketResolved:
		return r.Resolved
	default:
		return r.Unresolved
	}
}

// Add increments the counter for the given bucket.
func (r *SummaryRow) Add(b StatusBucket) {
	switch b {
	case BucketNew:
		r.New++
	case BucketInProgress:
		r.InProgress++
	case BucketResolved:
		r.Resolved++
	default:
		r.Unresolved++
	}
}

// Total is the sum of the four bucket counters.
func (r SummaryRow) Total() int {
	return r.New + r.InProgress + r.Resolved + r.Unresolved
}

// Summary is the per-level table shown on the dashboard. It always holds one
// row per level, in Levels order.
type Summary struct {
	Rows []SummaryRow
}

// NewSummary returns a zero-filled summary with a row for every level.
func NewSummary() Summary {
	rows := make([]SummaryRow, len(Levels))
	for i, level := range Levels {
		rows[i] = SummaryRow{Level: level}
	}
	return Summary{Rows: rows}
}

// Row returns the row for level.
func (s *Summary) Row(level Level) *SummaryRow {
	for i := range s.Rows {
		if s.Rows[i].Level == level {
			return &s.Rows[i]
		}
	}
	return nil
}

// TrendPoint is the number of tickets opened on one day.
type TrendPoint struct {
	Day   time.Time
	Count int
}

// Trend is a run of consecutive days, oldest first.
type Trend struct {
	Points []TrendPoint
}

// Snapshot is everything the dashboard renders for one date range. Snapshots
// are shared through the summary cache and must be treated as read-only.
type Snapshot struct {
	Start   string
	End     string
	Summary Summary
	Trend   Trend
}
