package services

import (
	"context"
	"fmt"
	"time"

	"tictot/internal/domain"
	"tictot/internal/errors"
	"tictot/internal/repository/sqlite"
	"tictot/internal/validation"
)

// timeEntryStoreImpl implements the TimeEntryStore interface
type timeEntryStoreImpl struct {
	repo      sqlite.Repository
	mapper    *domain.Mapper
	validator *validation.TimeEntryValidator
	strict    bool
}

// NewTimeEntryStore creates a new TimeEntryStore instance
func NewTimeEntryStore(repo sqlite.Repository, v *validation.Validator, opts Options) TimeEntryStore {
	return &timeEntryStoreImpl{
		repo:      repo,
		mapper:    domain.NewMapper(),
		validator: validation.NewTimeEntryValidator(v),
		strict:    opts.StrictUpdates,
	}
}

func (s *timeEntryStoreImpl) toDomain(dbEntry *sqlite.TimeEntry) *domain.TimeEntry {
	entry := s.mapper.TimeEntry.FromDatabase(*dbEntry)
	return &entry
}

func (s *timeEntryStoreImpl) toDomainSlice(dbEntries []*sqlite.TimeEntry) []*domain.TimeEntry {
	entries := make([]*domain.TimeEntry, 0, len(dbEntries))
	for _, dbEntry := range dbEntries {
		entries = append(entries, s.toDomain(dbEntry))
	}
	return entries
}

// ensureNoOtherOpen keeps at most one open entry in the store
func (s *timeEntryStoreImpl) ensureNoOtherOpen(ctx context.Context, repo sqlite.Repository, exceptID int64) error {
	open, err := repo.SearchTimeEntries(ctx, sqlite.SearchOptions{OpenOnly: true})
	if err != nil {
		return err
	}
	for _, e := range open {
		if e.ID != exceptID {
			return errors.NewConflictError("open time entry", fmt.Sprintf("%d", e.ID))
		}
	}
	return nil
}

// Create stores a new open entry and returns it with its assigned ID
func (s *timeEntryStoreImpl) Create(ctx context.Context, entry domain.TimeEntry) (*domain.TimeEntry, error) {
	if err := s.validator.ValidateOpenEntry(entry); err != nil {
		return nil, err
	}

	dbEntry := s.mapper.TimeEntry.ToDatabase(entry)
	dbEntry.ID = 0
	err := s.repo.WithinTx(ctx, func(tx sqlite.Repository) error {
		if err := s.ensureNoOtherOpen(ctx, tx, 0); err != nil {
			return err
		}
		return tx.CreateTimeEntry(ctx, &dbEntry)
	})
	if err != nil {
		return nil, err
	}
	return s.toDomain(&dbEntry), nil
}

// Get retrieves an entry by ID, or nil when it does not exist
func (s *timeEntryStoreImpl) Get(ctx context.Context, id int64) (*domain.TimeEntry, error) {
	dbEntry, err := s.repo.GetTimeEntry(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return s.toDomain(dbEntry), nil
}

// CloseEntry sets the end time of an entry. A missing entry is not an error:
// it returns nil, nil and leaves the store unchanged.
func (s *timeEntryStoreImpl) CloseEntry(ctx context.Context, id int64, end time.Time) (*domain.TimeEntry, error) {
	var result *domain.TimeEntry
	err := s.repo.WithinTx(ctx, func(tx sqlite.Repository) error {
		dbEntry, err := tx.GetTimeEntry(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				return nil
			}
			return err
		}

		closed := s.toDomain(dbEntry).Close(end)
		if err := s.validator.ValidateTimeEntry(closed); err != nil {
			return err
		}

		if err := tx.CloseTimeEntry(ctx, id, end); err != nil {
			return err
		}
		result = &closed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListByDate returns the entries starting on date's calendar day, ordered by start time
func (s *timeEntryStoreImpl) ListByDate(ctx context.Context, date time.Time) ([]*domain.TimeEntry, error) {
	from, before := sqlite.DayBounds(date)
	dbEntries, err := s.repo.SearchTimeEntries(ctx, sqlite.SearchOptions{StartFrom: &from, StartBefore: &before})
	if err != nil {
		return nil, err
	}
	return s.toDomainSlice(dbEntries), nil
}

// ListByDateWithTasks is ListByDate joined with task names
func (s *timeEntryStoreImpl) ListByDateWithTasks(ctx context.Context, date time.Time) ([]*domain.TaskEntry, error) {
	from, before := sqlite.DayBounds(date)
	return s.listWithTasks(ctx, sqlite.SearchOptions{StartFrom: &from, StartBefore: &before})
}

// ListWithTasks returns every entry joined with its task name in ID order
func (s *timeEntryStoreImpl) ListWithTasks(ctx context.Context) ([]*domain.TaskEntry, error) {
	return s.listWithTasks(ctx, sqlite.SearchOptions{OrderByID: true})
}

func (s *timeEntryStoreImpl) listWithTasks(ctx context.Context, opts sqlite.SearchOptions) ([]*domain.TaskEntry, error) {
	rows, err := s.repo.SearchEntriesWithTasks(ctx, opts)
	if err != nil {
		return nil, err
	}

	flat := make([]sqlite.EntryWithTask, len(rows))
	for i, row := range rows {
		flat[i] = *row
	}

	joined := s.mapper.TimeEntry.FromDatabaseJoined(flat)
	result := make([]*domain.TaskEntry, len(joined))
	for i := range joined {
		result[i] = &joined[i]
	}
	return result, nil
}

// ListOpen returns entries that have no end time
func (s *timeEntryStoreImpl) ListOpen(ctx context.Context) ([]*domain.TimeEntry, error) {
	dbEntries, err := s.repo.SearchTimeEntries(ctx, sqlite.SearchOptions{OpenOnly: true})
	if err != nil {
		return nil, err
	}
	return s.toDomainSlice(dbEntries), nil
}

// Remove deletes an entry by ID
func (s *timeEntryStoreImpl) Remove(ctx context.Context, id int64) error {
	if err := s.validator.ValidateTimeEntryID(id); err != nil {
		return err
	}
	return s.repo.DeleteTimeEntry(ctx, id)
}

// Update corrects the task and times of entry.ID. When the ID does not exist
// a new entry is created from the supplied values, unless strict updates are
// enabled, in which case NotFound is returned.
func (s *timeEntryStoreImpl) Update(ctx context.Context, entry domain.TimeEntry) (*domain.TimeEntry, error) {
	if err := s.validator.ValidateTimeEntry(entry); err != nil {
		return nil, err
	}

	dbEntry := s.mapper.TimeEntry.ToDatabase(entry)
	err := s.repo.WithinTx(ctx, func(tx sqlite.Repository) error {
		_, err := tx.GetTimeEntry(ctx, entry.ID)
		missing := errors.IsNotFound(err)
		if err != nil && !missing {
			return err
		}

		if missing && s.strict {
			return errors.NewNotFoundError("time entry", fmt.Sprintf("%d", entry.ID))
		}

		if entry.IsOpen() {
			exceptID := entry.ID
			if missing {
				exceptID = 0
			}
			if err := s.ensureNoOtherOpen(ctx, tx, exceptID); err != nil {
				return err
			}
		}

		if missing {
			dbEntry.ID = 0
			return tx.CreateTimeEntry(ctx, &dbEntry)
		}
		return tx.UpdateTimeEntry(ctx, &dbEntry)
	})
	if err != nil {
		return nil, err
	}
	return s.toDomain(&dbEntry), nil
}
