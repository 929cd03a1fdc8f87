package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"tictot/internal/errors"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// InMemoryPath opens a private in-memory database.
const InMemoryPath = ":memory:"

// SearchOptions filters time entries. Nil fields do not constrain the result.
type SearchOptions struct {
	StartFrom   *time.Time // inclusive
	StartBefore *time.Time // exclusive
	TaskID      *int64
	OpenOnly    bool
	OrderByID   bool // insertion order instead of start time
}

// Options tunes the connection.
type Options struct {
	BusyTimeout time.Duration
	InMemory    bool
}

// Repository defines the interface for database operations
type Repository interface {
	// Tasks
	GetOrCreateTask(ctx context.Context, name string) (*Task, error)
	GetTask(ctx context.Context, id int64) (*Task, error)
	GetTaskByName(ctx context.Context, name string) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	UpdateTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, id int64) error

	// Time entries
	CreateTimeEntry(ctx context.Context, entry *TimeEntry) error
	GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, entry *TimeEntry) error
	CloseTimeEntry(ctx context.Context, id int64, endTime time.Time) error
	DeleteTimeEntry(ctx context.Context, id int64) error
	SearchTimeEntries(ctx context.Context, opts SearchOptions) ([]*TimeEntry, error)
	SearchEntriesWithTasks(ctx context.Context, opts SearchOptions) ([]*EntryWithTask, error)

	// Utility
	WithinTx(ctx context.Context, fn func(Repository) error) error
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
	q  Querier
	tx bool
}

// DefaultBusyTimeout is how long a file database waits for another process's lock.
const DefaultBusyTimeout = 5 * time.Second

// New opens the database at dbPath with default options
func New(dbPath string) (*SQLiteRepository, error) {
	opts := Options{InMemory: dbPath == InMemoryPath}
	if !opts.InMemory {
		opts.BusyTimeout = DefaultBusyTimeout
	}
	return NewWithOptions(context.Background(), dbPath, opts)
}

// NewWithOptions opens (or creates) the database at dbPath and ensures the schema exists
func NewWithOptions(ctx context.Context, dbPath string, opts Options) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dataSourceName(dbPath, opts))
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	if err := configure(ctx, db, opts); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("initialize database", err)
	}

	return &SQLiteRepository{db: db, q: db}, nil
}

// Close closes the database connection. It is a no-op on a transaction-scoped repository.
func (r *SQLiteRepository) Close() error {
	if r.tx {
		return nil
	}
	return r.db.Close()
}

// WithinTx runs fn against a repository bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (r *SQLiteRepository) WithinTx(ctx context.Context, fn func(Repository) error) error {
	if r.tx {
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin transaction", err)
	}

	if err := fn(&SQLiteRepository{db: r.db, q: tx, tx: true}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit transaction", err)
	}
	return nil
}

// GetOrCreateTask returns the task called name, inserting it first if needed
func (r *SQLiteRepository) GetOrCreateTask(ctx context.Context, name string) (*Task, error) {
	query := `INSERT INTO tasks (name) VALUES (?) ON CONFLICT(name) DO NOTHING`
	if _, err := r.q.ExecContext(ctx, query, name); err != nil {
		return nil, HandleDatabaseError("create task", err)
	}
	return r.GetTaskByName(ctx, name)
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (*Task, error) {
	query := `SELECT id, name FROM tasks WHERE id = ?`
	return QuerySingle(ctx, r.q, query, ScanTask, "task", fmt.Sprintf("%d", id), id)
}

// GetTaskByName retrieves a task by its exact name
func (r *SQLiteRepository) GetTaskByName(ctx context.Context, name string) (*Task, error) {
	query := `SELECT id, name FROM tasks WHERE name = ?`
	return QuerySingle(ctx, r.q, query, ScanTask, "task", name, name)
}

// ListTasks retrieves all tasks
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]*Task, error) {
	query := `SELECT id, name FROM tasks ORDER BY name ASC`
	return QueryMultiple(ctx, r.q, query, ScanTasks, "tasks")
}

// UpdateTask renames an existing task
func (r *SQLiteRepository) UpdateTask(ctx context.Context, task *Task) error {
	query := `UPDATE tasks SET name = ? WHERE id = ?`
	result, err := r.q.ExecContext(ctx, query, task.Name, task.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return errors.NewConflictError("task", task.Name)
		}
		return HandleDatabaseError("update task", err)
	}
	return ValidateRowsAffected(result, "task", fmt.Sprintf("%d", task.ID))
}

// DeleteTask deletes a task together with its time entries
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id int64) error {
	return r.WithinTx(ctx, func(txRepo Repository) error {
		tx := txRepo.(*SQLiteRepository)
		if _, err := tx.q.ExecContext(ctx, `DELETE FROM time_entries WHERE task_id = ?`, id); err != nil {
			return HandleDatabaseError("delete task entries", err)
		}
		return ExecuteWithRowsAffected(ctx, tx.q, `DELETE FROM tasks WHERE id = ?`, "task", fmt.Sprintf("%d", id), id)
	})
}

// CreateTimeEntry creates a new time entry
func (r *SQLiteRepository) CreateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	query := `
	INSERT INTO time_entries (task_id, start_time, end_time)
	VALUES (?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.q, query, entry.TaskID, FormatTimeForDB(entry.StartTime), FormatTimePtrForDB(entry.EndTime))
	if err != nil {
		return err
	}

	entry.ID = id
	return nil
}

// GetTimeEntry retrieves a time entry by ID
func (r *SQLiteRepository) GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error) {
	query := `
	SELECT id, task_id, start_time, end_time
	FROM time_entries
	WHERE id = ?`

	return QuerySingle(ctx, r.q, query, ScanTimeEntry, "time entry", fmt.Sprintf("%d", id), id)
}

// UpdateTimeEntry updates an existing time entry
func (r *SQLiteRepository) UpdateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	query := `
	UPDATE time_entries
	SET task_id = ?, start_time = ?, end_time = ?
	WHERE id = ?`

	return ExecuteWithRowsAffected(ctx, r.q, query, "time entry", fmt.Sprintf("%d", entry.ID),
		entry.TaskID, FormatTimeForDB(entry.StartTime), FormatTimePtrForDB(entry.EndTime), entry.ID)
}

// CloseTimeEntry sets the end time of an entry
func (r *SQLiteRepository) CloseTimeEntry(ctx context.Context, id int64, endTime time.Time) error {
	query := `UPDATE time_entries SET end_time = ? WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.q, query, "time entry", fmt.Sprintf("%d", id), FormatTimeForDB(endTime), id)
}

// DeleteTimeEntry deletes a time entry by ID
func (r *SQLiteRepository) DeleteTimeEntry(ctx context.Context, id int64) error {
	query := `DELETE FROM time_entries WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.q, query, "time entry", fmt.Sprintf("%d", id), id)
}

// SearchTimeEntries lists time entries matching opts
func (r *SQLiteRepository) SearchTimeEntries(ctx context.Context, opts SearchOptions) ([]*TimeEntry, error) {
	where, args := buildConditions(opts)
	query := `
	SELECT time_entries.id, task_id, start_time, end_time
	FROM time_entries` + where + orderClause(opts)

	return QueryMultiple(ctx, r.q, query, ScanTimeEntries, "time entries", args...)
}

// SearchEntriesWithTasks lists time entries matching opts joined with their task names
func (r *SQLiteRepository) SearchEntriesWithTasks(ctx context.Context, opts SearchOptions) ([]*EntryWithTask, error) {
	where, args := buildConditions(opts)
	query := `
	SELECT time_entries.id, task_id, start_time, end_time, tasks.name
	FROM time_entries
	JOIN tasks ON time_entries.task_id = tasks.id` + where + orderClause(opts)

	return QueryMultiple(ctx, r.q, query, ScanEntriesWithTasks, "time entries", args...)
}

func buildConditions(opts SearchOptions) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if opts.StartFrom != nil {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, FormatTimeForDB(*opts.StartFrom))
	}
	if opts.StartBefore != nil {
		conditions = append(conditions, "start_time < ?")
		args = append(args, FormatTimeForDB(*opts.StartBefore))
	}
	if opts.TaskID != nil {
		conditions = append(conditions, "task_id = ?")
		args = append(args, *opts.TaskID)
	}
	if opts.OpenOnly {
		conditions = append(conditions, "end_time IS NULL")
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "\n\tWHERE " + strings.Join(conditions, " AND "), args
}

func orderClause(opts SearchOptions) string {
	if opts.OrderByID {
		return "\n\tORDER BY time_entries.id ASC"
	}
	return "\n\tORDER BY start_time ASC, time_entries.id ASC"
}
