// Package errors provides the structured error type shared by the registry,
// the enrollment service and the HTTP layer.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Registry errors
const (
	ErrCodeActivityNotFound  ErrorCode = "ACTIVITY_NOT_FOUND"
	ErrCodeAlreadyRegistered ErrorCode = "ALREADY_REGISTERED"
	ErrCodeCapacityExceeded  ErrorCode = "CAPACITY_EXCEEDED"
	ErrCodeNotRegistered     ErrorCode = "NOT_REGISTERED"
)

// Request and infrastructure errors
const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidSeed      ErrorCode = "INVALID_SEED"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
// Message is the caller-facing text; Details is for logs.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is reports whether target is a StandardError with the same code, so callers
// can match with errors.Is(err, errors.ErrNotFound) style sentinels.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrActivityNotFound  = &StandardError{Code: ErrCodeActivityNotFound}
	ErrAlreadyRegistered = &StandardError{Code: ErrCodeAlreadyRegistered}
	ErrCapacityExceeded  = &StandardError{Code: ErrCodeCapacityExceeded}
	ErrNotRegistered     = &StandardError{Code: ErrCodeNotRegistered}
	ErrValidationFailed  = &StandardError{Code: ErrCodeValidationFailed}
)

// ==========================
// 2. Error Constructors
// ==========================

// NewActivityNotFoundError is returned for any operation on an unknown activity.
func NewActivityNotFoundError(activity string) *StandardError {
	return &StandardError{
		Code:      ErrCodeActivityNotFound,
		Message:   "Activity not found",
		Details:   fmt.Sprintf("activity: %s", activity),
		Retryable: false,
		Metadata:  map[string]interface{}{"activity": activity},
		Timestamp: time.Now().UTC(),
	}
}

func NewAlreadyRegisteredError(activity, email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadyRegistered,
		Message:   fmt.Sprintf("%s is already signed up for %s", email, activity),
		Retryable: false,
		Metadata:  map[string]interface{}{"activity": activity, "email": email},
		Timestamp: time.Now().UTC(),
	}
}

func NewCapacityExceededError(activity string, capacity int) *StandardError {
	return &StandardError{
		Code:      ErrCodeCapacityExceeded,
		Message:   fmt.Sprintf("%s is full", activity),
		Details:   fmt.Sprintf("max_participants: %d", capacity),
		Retryable: false,
		Metadata:  map[string]interface{}{"activity": activity, "maxParticipants": capacity},
		Timestamp: time.Now().UTC(),
	}
}

func NewNotRegisteredError(activity, email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotRegistered,
		Message:   fmt.Sprintf("%s is not registered for %s", email, activity),
		Retryable: false,
		Metadata:  map[string]interface{}{"activity": activity, "email": email},
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError creates a non-retryable request validation error.
func NewValidationError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidSeedError reports a seed catalog that violates the registry invariants.
func NewInvalidSeedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSeed,
		Message:   "Invalid activity seed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
