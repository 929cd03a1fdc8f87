package validation

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// DefaultTaskNameMaxLength applies when no limit is configured.
const DefaultTaskNameMaxLength = 255

// Layouts accepted by ParseTimestamp, tried in order.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// Validator provides common validation utilities
type Validator struct {
	taskNameMaxLength int
}

// NewValidator creates a validator with the given task name limit.
// A non-positive limit falls back to DefaultTaskNameMaxLength.
func NewValidator(taskNameMaxLength int) *Validator {
	if taskNameMaxLength <= 0 {
		taskNameMaxLength = DefaultTaskNameMaxLength
	}
	return &Validator{taskNameMaxLength: taskNameMaxLength}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidTaskNameLength checks the rune count against the configured limit
func (v *Validator) IsValidTaskNameLength(name string) bool {
	return utf8.RuneCountInString(name) <= v.taskNameMaxLength
}

// HasNoControlCharacters rejects newlines, tabs and other control runes
func (v *Validator) HasNoControlCharacters(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) < 0
}

// IsValidTimeRange allows open entries and zero-length closed entries
func (v *Validator) IsValidTimeRange(startTime time.Time, endTime *time.Time) bool {
	if endTime == nil {
		return true
	}
	return !endTime.Before(startTime)
}

// IsValidID checks that an identifier is positive
func (v *Validator) IsValidID(id int64) bool {
	return id > 0
}

// ParseTimestamp parses user input in one of the accepted layouts.
// Layouts without a zone are read in loc.
func (v *Validator) ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TaskNameMaxLength returns the configured limit
func (v *Validator) TaskNameMaxLength() int {
	return v.taskNameMaxLength
}
