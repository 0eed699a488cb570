// Package errors provides standardized error handling for the admin API.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeBadCursor           ErrorCode = "BAD_CURSOR"
	ErrCodeInvalidFilterFormat ErrorCode = "INVALID_FILTER_FORMAT"
	ErrCodeInvalidPageSize     ErrorCode = "INVALID_PAGE_SIZE"

	ErrCodeListingNotFound   ErrorCode = "LISTING_NOT_FOUND"
	ErrCodeAdvisorNotFound   ErrorCode = "ADVISOR_NOT_FOUND"
	ErrCodeIllegalTransition ErrorCode = "ILLEGAL_STATUS_TRANSITION"
	ErrCodeStatusConflict    ErrorCode = "STATUS_CONFLICT"

	ErrCodePayloadValidationFailed ErrorCode = "PAYLOAD_VALIDATION_FAILED"

	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout         ErrorCode = "QUERY_TIMEOUT"
	ErrCodeSearchQueryFailed    ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeCountsFailed         ErrorCode = "COUNTS_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
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

// AsStandard extracts a *StandardError from err, or wraps err as an
// internal error when it is something else.
func AsStandard(err error) *StandardError {
	var se *StandardError
	if errors.As(err, &se) {
		return se
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "internal error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code to the response status the admin API uses.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeBadCursor, ErrCodeInvalidFilterFormat, ErrCodeInvalidPageSize,
		ErrCodePayloadValidationFailed:
		return http.StatusBadRequest
	case ErrCodeListingNotFound, ErrCodeAdvisorNotFound:
		return http.StatusNotFound
	case ErrCodeIllegalTransition, ErrCodeStatusConflict:
		return http.StatusConflict
	case ErrCodeQueryTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewBadCursorError flags an unreadable pagination token.
func NewBadCursorError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeBadCursor,
		Message:   "Pagination cursor could not be decoded",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFilterError flags a filter field or value the API does not know.
func NewInvalidFilterError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFilterFormat,
		Message:   "Filter contains an unknown field or value",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewListingNotFoundError reports a missing listing.
func NewListingNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeListingNotFound,
		Message:   "Listing not found",
		Details:   id,
		Retryable: false,
		Metadata:  map[string]interface{}{"listingId": id},
		Timestamp: time.Now().UTC(),
	}
}

// NewIllegalTransitionError reports a status move the workflow forbids.
func NewIllegalTransitionError(from, to string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIllegalTransition,
		Message:   fmt.Sprintf("Cannot move listing from %s to %s", from, to),
		Retryable: false,
		Metadata:  map[string]interface{}{"from": from, "to": to},
		Timestamp: time.Now().UTC(),
	}
}

// NewStatusConflictError reports a lost optimistic-concurrency race: the
// listing was no longer in the expected status when the update ran.
func NewStatusConflictError(id, expected string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStatusConflict,
		Message:   "Listing status changed concurrently",
		Retryable: true,
		Metadata:  map[string]interface{}{"listingId": id, "expected": expected},
		Timestamp: time.Now().UTC(),
	}
}

// NewPayloadValidationError reports a listing payload that failed its
// sub-type schema.
func NewPayloadValidationError(details string, issues []string) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadValidationFailed,
		Message:   "Listing payload failed validation",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"issues": issues},
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryError wraps a failed database fetch. Retryable: the console
// surfaces it and offers an explicit retry.
func NewQueryError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Listing query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchError wraps a failed Elasticsearch fetch.
func NewSearchError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Listing search failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCountsError wraps a failed badge-count computation.
func NewCountsError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCountsFailed,
		Message:   "Badge counts could not be computed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationError wraps a failed status-change notification.
func NewNotificationError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Status-change notification failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
