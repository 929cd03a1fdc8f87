package domain

import (
	"tictot/internal/repository/sqlite"
)

// TaskMapper handles conversion between domain and database Task models.
type TaskMapper struct{}

// ToDatabase converts a domain Task to a database Task.
func (m TaskMapper) ToDatabase(task Task) sqlite.Task {
	return sqlite.Task{
		ID:   task.ID,
		Name: task.Name,
	}
}

// FromDatabase converts a database Task to a domain Task.
func (m TaskMapper) FromDatabase(dbTask sqlite.Task) Task {
	return Task{
		ID:   dbTask.ID,
		Name: dbTask.Name,
	}
}

// FromDatabaseSlice converts a slice of database Tasks to domain Tasks.
func (m TaskMapper) FromDatabaseSlice(dbTasks []sqlite.Task) []Task {
	tasks := make([]Task, len(dbTasks))
	for i, task := range dbTasks {
		tasks[i] = m.FromDatabase(task)
	}
	return tasks
}

// TimeEntryMapper handles conversion between domain and database TimeEntry models.
type TimeEntryMapper struct{}

// ToDatabase converts a domain TimeEntry to a database TimeEntry.
func (m TimeEntryMapper) ToDatabase(entry TimeEntry) sqlite.TimeEntry {
	return sqlite.TimeEntry{
		ID:        entry.ID,
		TaskID:    entry.TaskID,
		StartTime: entry.StartTime,
		EndTime:   entry.EndTime,
	}
}

// FromDatabase converts a database TimeEntry to a domain TimeEntry.
func (m TimeEntryMapper) FromDatabase(dbEntry sqlite.TimeEntry) TimeEntry {
	return TimeEntry{
		ID:        dbEntry.ID,
		TaskID:    dbEntry.TaskID,
		StartTime: dbEntry.StartTime,
		EndTime:   dbEntry.EndTime,
	}
}

// FromDatabaseSlice converts a slice of database TimeEntries to domain TimeEntries.
func (m TimeEntryMapper) FromDatabaseSlice(dbEntries []sqlite.TimeEntry) []TimeEntry {
	entries := make([]TimeEntry, len(dbEntries))
	for i, entry := range dbEntries {
		entries[i] = m.FromDatabase(entry)
	}
	return entries
}

// FromDatabaseJoined converts joined entry rows to TaskEntries.
func (m TimeEntryMapper) FromDatabaseJoined(rows []sqlite.EntryWithTask) []TaskEntry {
	entries := make([]TaskEntry, len(rows))
	for i, row := range rows {
		entries[i] = TaskEntry{
			TimeEntry: m.FromDatabase(row.TimeEntry),
			TaskName:  row.TaskName,
		}
	}
	return entries
}

// Mapper groups the per-model mappers.
type Mapper struct {
	Task      TaskMapper
	TimeEntry TimeEntryMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{}
}
