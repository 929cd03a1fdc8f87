package validation

import (
	"time"

	"tictot/internal/domain"
)

// TimeEntryValidator provides validation for TimeEntry-related operations
type TimeEntryValidator struct {
	validator *Validator
}

// NewTimeEntryValidator creates a new time entry validator
func NewTimeEntryValidator(v *Validator) *TimeEntryValidator {
	return &TimeEntryValidator{validator: v}
}

// ValidateTimeEntry checks task reference, start time and range
func (tev *TimeEntryValidator) ValidateTimeEntry(entry domain.TimeEntry) error {
	validationError := NewValidationError()
	tev.collect(validationError, entry)
	return validationError.Result()
}

// ValidateOpenEntry is ValidateTimeEntry plus the requirement that the entry has no end time
func (tev *TimeEntryValidator) ValidateOpenEntry(entry domain.TimeEntry) error {
	validationError := NewValidationError()
	tev.collect(validationError, entry)
	if !entry.IsOpen() {
		validationError.AddInvalidValueError("end_time", *entry.EndTime, "a new entry must be open")
	}
	return validationError.Result()
}

// ValidateTimeEntryID validates a time entry ID
func (tev *TimeEntryValidator) ValidateTimeEntryID(id int64) error {
	validationError := NewValidationError()
	if !tev.validator.IsValidID(id) {
		validationError.AddInvalidValueError("time_entry_id", id, "must be a positive integer")
	}
	return validationError.Result()
}

// ParseTimestamp parses a user supplied time for field
func (tev *TimeEntryValidator) ParseTimestamp(field, value string, loc *time.Location) (time.Time, error) {
	t, ok := tev.validator.ParseTimestamp(value, loc)
	if !ok {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError(field, value, "YYYY-MM-DD HH:MM[:SS] or RFC3339")
		return time.Time{}, validationError.Result()
	}
	return t, nil
}

func (tev *TimeEntryValidator) collect(validationError *ValidationError, entry domain.TimeEntry) {
	if !tev.validator.IsValidID(entry.TaskID) {
		validationError.AddInvalidValueError("task_id", entry.TaskID, "must be a positive integer")
	}

	if entry.StartTime.IsZero() {
		validationError.AddRequiredError("start_time")
		return
	}

	if !tev.validator.IsValidTimeRange(entry.StartTime, entry.EndTime) {
		validationError.AddInvalidRangeError("time_range", map[string]time.Time{
			"start": entry.StartTime,
			"end":   *entry.EndTime,
		}, "end time must not be before start time")
	}
}
