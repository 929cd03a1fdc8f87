package services

import (
	"time"

	"tictot/internal/domain"
)

// DailyTotal sums the durations of closed entries. Open entries contribute nothing.
func DailyTotal(entries []*domain.TimeEntry) time.Duration {
	var total time.Duration
	for _, e := range entries {
		total += e.Duration()
	}
	return total
}

// Aggregator keeps the running total for one calendar day so that reading it
// does not rescan entries.
type Aggregator struct {
	day   time.Time
	total time.Duration
}

// NewAggregator creates an empty aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Reset switches to day and seeds the total from that day's entries
func (a *Aggregator) Reset(day time.Time, entries []*domain.TimeEntry) {
	a.day = day
	a.total = DailyTotal(entries)
}

// Add counts a newly closed entry if it starts on the aggregated day.
// It reports whether the entry was counted.
func (a *Aggregator) Add(entry domain.TimeEntry) bool {
	if entry.IsOpen() || a.day.IsZero() || !entry.StartsOn(a.day) {
		return false
	}
	a.total += entry.Duration()
	return true
}

// Total returns the aggregated duration
func (a *Aggregator) Total() time.Duration {
	return a.total
}

// Day returns the day being aggregated
func (a *Aggregator) Day() time.Time {
	return a.day
}
