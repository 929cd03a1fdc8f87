package cli

import (
	"errors"
	"testing"

	apperrors "tictot/internal/errors"
	"tictot/internal/validation"
)

func TestErrorHandler_Handle(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name      string
		operation string
		err       error
		expected  string
	}{
		{
			name:      "Validation error",
			operation: "start session",
			err:       apperrors.NewValidationError("task_name is required", nil),
			expected:  "failed to start session: task_name is required",
		},
		{
			name:      "Not found error",
			operation: "delete task",
			err:       apperrors.NewNotFoundError("task", "Email"),
			expected:  "failed to delete task: task not found: Email",
		},
		{
			name:      "Database error",
			operation: "export entries",
			err:       apperrors.NewDatabaseError("insert", errors.New("timeout")),
			expected:  "failed to export entries: A database error occurred. Please try again.",
		},
		{
			name:      "Conflict error",
			operation: "rename task",
			err:       apperrors.NewConflictError("task", "Inbox"),
			expected:  "failed to rename task: task already exists: Inbox",
		},
		{
			name:      "Invalid transition",
			operation: "stop session",
			err:       apperrors.NewInvalidTransitionError("stop", "idle"),
			expected:  "failed to stop session: cannot stop while idle",
		},
		{
			name:      "Bare validation error",
			operation: "edit entry",
			err: &validation.ValidationError{
				Errors: []validation.FieldError{{Field: "start_time", Message: "start_time is required"}},
			},
			expected: "failed to edit entry: start_time is required",
		},
		{
			name:      "Regular error",
			operation: "process",
			err:       errors.New("regular error"),
			expected:  "failed to process: regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eh.Handle(tt.operation, tt.err)
			if result.Error() != tt.expected {
				t.Errorf("ErrorHandler.Handle() = %v, want %v", result.Error(), tt.expected)
			}
		})
	}
}

func TestErrorHandler_HandleNil(t *testing.T) {
	eh := NewErrorHandler()

	if err := eh.Handle("anything", nil); err != nil {
		t.Errorf("ErrorHandler.Handle(nil) = %v, want nil", err)
	}
	if err := eh.HandleSimple(nil); err != nil {
		t.Errorf("ErrorHandler.HandleSimple(nil) = %v, want nil", err)
	}
}

func TestErrorHandler_HandleSimple(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Validation error",
			err:      apperrors.NewValidationError("invalid input", nil),
			expected: "invalid input",
		},
		{
			name:     "Invalid input error",
			err:      apperrors.NewInvalidInputError("id", "abc", "must be a positive integer"),
			expected: "invalid input for id: must be a positive integer",
		},
		{
			name:     "Database error",
			err:      apperrors.NewDatabaseError("insert", errors.New("timeout")),
			expected: "A database error occurred. Please try again.",
		},
		{
			name:     "Regular error",
			err:      errors.New("regular error"),
			expected: "regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eh.HandleSimple(tt.err)
			if result.Error() != tt.expected {
				t.Errorf("ErrorHandler.HandleSimple() = %v, want %v", result.Error(), tt.expected)
			}
		})
	}
}

func TestErrorHandler_IsValidationError(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "AppError validation",
			err:      apperrors.NewValidationError("invalid input", nil),
			expected: true,
		},
		{
			name: "Field validation error",
			err: &validation.ValidationError{
				Errors: []validation.FieldError{
					{Field: "test", Message: "invalid"},
				},
			},
			expected: true,
		},
		{
			name:     "Database error",
			err:      apperrors.NewDatabaseError("insert", nil),
			expected: false,
		},
		{
			name:     "Regular error",
			err:      errors.New("regular error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eh.IsValidationError(tt.err)
			if result != tt.expected {
				t.Errorf("ErrorHandler.IsValidationError() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestErrorHandler_TypeChecks(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"not found", apperrors.NewNotFoundError("task", "x"), eh.IsNotFoundError, true},
		{"not found on validation", apperrors.NewValidationError("bad", nil), eh.IsNotFoundError, false},
		{"database", apperrors.NewDatabaseError("insert", nil), eh.IsDatabaseError, true},
		{"database on regular", errors.New("regular"), eh.IsDatabaseError, false},
		{"conflict", apperrors.NewConflictError("task", "x"), eh.IsConflictError, true},
		{"conflict on not found", apperrors.NewNotFoundError("task", "x"), eh.IsConflictError, false},
		{"transition", apperrors.NewInvalidTransitionError("start", "running"), eh.IsInvalidTransitionError, true},
		{"transition on regular", errors.New("regular"), eh.IsInvalidTransitionError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("check() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorHandler_GetErrorCode(t *testing.T) {
	eh := NewErrorHandler()

	if code := eh.GetErrorCode(apperrors.NewConflictError("task", "x")); code != "CONFLICT" {
		t.Errorf("GetErrorCode() = %v, want CONFLICT", code)
	}
	if code := eh.GetErrorCode(errors.New("plain")); code != "UNKNOWN_ERROR" {
		t.Errorf("GetErrorCode() = %v, want UNKNOWN_ERROR", code)
	}
}
