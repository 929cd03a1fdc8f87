package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("time entry", "42")

	if err.Type != ErrorTypeNotFound {
		t.Errorf("Type = %v, want %v", err.Type, ErrorTypeNotFound)
	}
	if err.Message != "time entry not found: 42" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Code != "NOT_FOUND" {
		t.Errorf("Code = %q", err.Code)
	}
	if v, _ := err.GetContext("resource"); v != "time entry" {
		t.Errorf("resource context = %v", v)
	}
	if v, _ := err.GetContext("identifier"); v != "42" {
		t.Errorf("identifier context = %v", v)
	}
}

func TestNewInvalidTransitionError(t *testing.T) {
	err := NewInvalidTransitionError("stop", "idle")

	if err.Message != "cannot stop while idle" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Code != "INVALID_TRANSITION" {
		t.Errorf("Code = %q", err.Code)
	}
	if !IsInvalidTransition(fmt.Errorf("wrapped: %w", err)) {
		t.Error("expected IsInvalidTransition to see through wrapping")
	}
}

func TestNewConflictError(t *testing.T) {
	err := NewConflictError("task", "Writing")

	if err.Type != ErrorTypeConflict {
		t.Errorf("Type = %v", err.Type)
	}
	if err.Message != "task already exists: Writing" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewDatabaseError(t *testing.T) {
	cause := errors.New("database is locked")
	err := NewDatabaseError("create time entry", cause)

	if err.Code != "DATABASE_ERROR" {
		t.Errorf("Code = %q", err.Code)
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be unwrapped")
	}
}

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"invalid transition", NewInvalidTransitionError("start", "running"), "cannot start while running"},
		{"not found", NewNotFoundError("task", "Writing"), "task not found: Writing"},
		{"conflict", NewConflictError("task", "Reading"), "task already exists: Reading"},
		{"database", NewDatabaseError("list", errors.New("boom")), "A database error occurred. Please try again."},
		{"plain error", errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetUserMessage(tt.err); got != tt.expected {
				t.Errorf("GetUserMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestShouldLogError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"validation", NewValidationError("bad", nil), false},
		{"invalid transition", NewInvalidTransitionError("stop", "idle"), false},
		{"conflict", NewConflictError("task", "x"), false},
		{"database", NewDatabaseError("open", errors.New("x")), true},
		{"plain", errors.New("x"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldLogError(tt.err); got != tt.expected {
				t.Errorf("ShouldLogError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := GetErrorCode(NewConflictError("task", "x")); got != "CONFLICT" {
		t.Errorf("GetErrorCode() = %q", got)
	}
	if got := GetErrorCode(errors.New("x")); got != "UNKNOWN_ERROR" {
		t.Errorf("GetErrorCode() = %q", got)
	}
}
