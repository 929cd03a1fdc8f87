package sqlite

import (
	"database/sql"
	"fmt"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTimeEntry scans id, task_id, start_time, end_time
func ScanTimeEntry(scanner Scanner) (*TimeEntry, error) {
	entry := &TimeEntry{}
	var start string
	var end sql.NullString

	if err := scanner.Scan(&entry.ID, &entry.TaskID, &start, &end); err != nil {
		return nil, err
	}

	if err := fillTimes(entry, start, end); err != nil {
		return nil, err
	}
	return entry, nil
}

// ScanEntryWithTask scans id, task_id, start_time, end_time, task name
func ScanEntryWithTask(scanner Scanner) (*EntryWithTask, error) {
	row := &EntryWithTask{}
	var start string
	var end sql.NullString

	if err := scanner.Scan(&row.ID, &row.TaskID, &start, &end, &row.TaskName); err != nil {
		return nil, err
	}

	if err := fillTimes(&row.TimeEntry, start, end); err != nil {
		return nil, err
	}
	return row, nil
}

func fillTimes(entry *TimeEntry, start string, end sql.NullString) error {
	startTime, err := ParseTimeFromDB(start)
	if err != nil {
		return fmt.Errorf("parse start_time of entry %d: %w", entry.ID, err)
	}
	entry.StartTime = startTime

	if end.Valid {
		endTime, err := ParseTimeFromDB(end.String)
		if err != nil {
			return fmt.Errorf("parse end_time of entry %d: %w", entry.ID, err)
		}
		entry.EndTime = &endTime
	}
	return nil
}

// ScanTask scans a single task from a database row
func ScanTask(scanner Scanner) (*Task, error) {
	task := &Task{}
	if err := scanner.Scan(&task.ID, &task.Name); err != nil {
		return nil, err
	}
	return task, nil
}

// ScanTimeEntries scans multiple time entries from database rows
func ScanTimeEntries(rows Rows) ([]*TimeEntry, error) {
	return scanAll(rows, ScanTimeEntry)
}

// ScanEntriesWithTasks scans multiple joined rows
func ScanEntriesWithTasks(rows Rows) ([]*EntryWithTask, error) {
	return scanAll(rows, ScanEntryWithTask)
}

// ScanTasks scans multiple tasks from database rows
func ScanTasks(rows Rows) ([]*Task, error) {
	return scanAll(rows, ScanTask)
}

func scanAll[T any](rows Rows, scanOne func(Scanner) (*T, error)) ([]*T, error) {
	var results []*T
	for rows.Next() {
		item, err := scanOne(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
