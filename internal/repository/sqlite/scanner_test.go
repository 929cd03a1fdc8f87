package sqlite

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScanner feeds fixed values into Scan destinations
type TestScanner struct {
	values []interface{}
	err    error
}

func (ts *TestScanner) Scan(dest ...interface{}) error {
	if ts.err != nil {
		return ts.err
	}
	for i, d := range dest {
		switch v := d.(type) {
		case *int64:
			*v = ts.values[i].(int64)
		case *string:
			*v = ts.values[i].(string)
		case *sql.NullString:
			if ts.values[i] == nil {
				*v = sql.NullString{}
			} else {
				*v = sql.NullString{String: ts.values[i].(string), Valid: true}
			}
		}
	}
	return nil
}

// TestRows iterates over a list of TestScanners
type TestRows struct {
	rows []*TestScanner
	pos  int
	err  error
}

func (tr *TestRows) Next() bool {
	if tr.pos >= len(tr.rows) {
		return false
	}
	tr.pos++
	return true
}

func (tr *TestRows) Scan(dest ...interface{}) error {
	return tr.rows[tr.pos-1].Scan(dest...)
}

func (tr *TestRows) Err() error {
	return tr.err
}

func TestScanTimeEntry(t *testing.T) {
	tests := []struct {
		name           string
		scanner        *TestScanner
		expectOpen     bool
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:       "open entry",
			scanner:    &TestScanner{values: []interface{}{int64(1), int64(2), "2024-03-04T09:00:00.000000000Z", nil}},
			expectOpen: true,
			errorAssertion: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:    "closed entry",
			scanner: &TestScanner{values: []interface{}{int64(1), int64(2), "2024-03-04T09:00:00.000000000Z", "2024-03-04T10:00:00.000000000Z"}},
			errorAssertion: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:    "bad timestamp",
			scanner: &TestScanner{values: []interface{}{int64(1), int64(2), "not a time", nil}},
			errorAssertion: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "parse start_time of entry 1")
			},
		},
		{
			name:    "scan error",
			scanner: &TestScanner{err: sql.ErrNoRows},
			errorAssertion: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, sql.ErrNoRows)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := ScanTimeEntry(tt.scanner)

			tt.errorAssertion(t, err)
			if err == nil {
				assert.Equal(t, int64(2), entry.TaskID)
				assert.Equal(t, tt.expectOpen, entry.EndTime == nil)
			}
		})
	}
}

func TestScanEntriesWithTasks(t *testing.T) {
	rows := &TestRows{rows: []*TestScanner{
		{values: []interface{}{int64(1), int64(3), "2024-03-04T09:00:00.000000000Z", nil, "Writing"}},
		{values: []interface{}{int64(2), int64(4), "2024-03-04T10:00:00.000000000Z", nil, "Reading"}},
	}}

	result, err := ScanEntriesWithTasks(rows)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Writing", result[0].TaskName)
	assert.Equal(t, int64(4), result[1].TaskID)
}

func TestScanTasks(t *testing.T) {
	t.Run("rows", func(t *testing.T) {
		rows := &TestRows{rows: []*TestScanner{
			{values: []interface{}{int64(1), "Default"}},
		}}

		tasks, err := ScanTasks(rows)

		require.NoError(t, err)
		assert.Equal(t, []*Task{{ID: 1, Name: "Default"}}, tasks)
	})

	t.Run("iteration error", func(t *testing.T) {
		rows := &TestRows{err: errors.New("interrupted")}

		_, err := ScanTasks(rows)

		assert.EqualError(t, err, "interrupted")
	})
}
