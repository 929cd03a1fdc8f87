// Package export writes stored time entries to external formats.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"tictot/internal/domain"
)

// TimeLayout is the timestamp format used in exported files.
const TimeLayout = "2006-01-02 15:04:05"

// Header is the first CSV record.
var Header = []string{"id", "task", "start time", "end time"}

// EntryLister supplies every entry joined with its task name, in store order.
type EntryLister interface {
	ListWithTasks(ctx context.Context) ([]*domain.TaskEntry, error)
}

// CSV writes all entries from lister to w and returns the number of rows written.
func CSV(ctx context.Context, lister EntryLister, w io.Writer) (int, error) {
	entries, err := lister.ListWithTasks(ctx)
	if err != nil {
		return 0, err
	}
	if err := WriteCSV(w, entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// WriteCSV writes entries as CSV. Open entries have an empty end time.
func WriteCSV(w io.Writer, entries []*domain.TaskEntry) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, entry := range entries {
		var endTime string
		if entry.EndTime != nil {
			endTime = entry.EndTime.Local().Format(TimeLayout)
		}

		row := []string{
			strconv.FormatInt(entry.ID, 10),
			entry.TaskName,
			entry.StartTime.Local().Format(TimeLayout),
			endTime,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
