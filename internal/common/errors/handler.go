// internal/common/errors/handler.go
package errors

import (
	stderrors "errors"
	"net/http"
	"time"
)

// ErrorHandler turns errors into HTTP responses and logs the unexpected ones.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Resolve returns the status code and the caller-facing detail for err.
func (h *ErrorHandler) Resolve(err error) (int, string) {
	stdErr := Normalize(err)
	status := HTTPStatus(stdErr.Code)

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"message":   stdErr.Message,
			"details":   stdErr.Details,
			"retryable": stdErr.Retryable,
		})
	}

	return status, stdErr.Message
}

// Normalize ensures we always have a StandardError
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal server error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code to its response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeActivityNotFound, ErrCodeNotRegistered:
		return http.StatusNotFound
	case ErrCodeAlreadyRegistered, ErrCodeCapacityExceeded:
		return http.StatusBadRequest
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
