package sqlite

import "time"

// Task is a row of the tasks table.
type Task struct {
	ID   int64
	Name string
}

// TimeEntry is a row of the time_entries table.
type TimeEntry struct {
	ID        int64
	TaskID    int64
	StartTime time.Time
	EndTime   *time.Time // NULL while the entry is open
}

// EntryWithTask is a time entry joined with its task name.
type EntryWithTask struct {
	TimeEntry
	TaskName string
}
