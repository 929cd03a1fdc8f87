package domain

import (
	"time"
)

// TimeEntry is one tracked interval against a task.
// An entry with a nil EndTime is open: the session that created it is still running.
type TimeEntry struct {
	ID        int64
	TaskID    int64
	StartTime time.Time
	EndTime   *time.Time
}

// NewTimeEntry creates an open TimeEntry for the given task.
func NewTimeEntry(taskID int64, startTime time.Time) TimeEntry {
	return TimeEntry{
		TaskID:    taskID,
		StartTime: startTime,
	}
}

// IsOpen returns true while the entry has no end time.
func (te TimeEntry) IsOpen() bool {
	return te.EndTime == nil
}

// Close returns a copy of the entry ending at endTime.
func (te TimeEntry) Close(endTime time.Time) TimeEntry {
	te.EndTime = &endTime
	return te
}

// Duration returns the recorded length of a closed entry.
// Open entries have not recorded anything yet and report zero.
func (te TimeEntry) Duration() time.Duration {
	if te.EndTime == nil {
		return 0
	}
	return te.EndTime.Sub(te.StartTime)
}

// StartsOn reports whether the entry starts on the calendar day of day,
// evaluated in day's location.
func (te TimeEntry) StartsOn(day time.Time) bool {
	return SameDay(te.StartTime, day)
}

// SameDay reports whether t falls on the calendar day of day in day's location.
func SameDay(t, day time.Time) bool {
	y1, m1, d1 := t.In(day.Location()).Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsValid checks if the time entry has valid data.
func (te TimeEntry) IsValid() bool {
	if te.TaskID <= 0 {
		return false
	}
	if te.StartTime.IsZero() {
		return false
	}
	if te.EndTime != nil && te.EndTime.Before(te.StartTime) {
		return false
	}
	return true
}

// TaskEntry is a time entry joined with the name of its task.
type TaskEntry struct {
	TimeEntry
	TaskName string
}
