package utils

import (
	"errors"
	"fmt"
	"net/http"

	"jobsearch-api/pkg/models"
)

// SearchError is the base error for everything that can go wrong between
// accepting a search request and returning a response. Code is the
// machine-readable identifier surfaced to clients; Status is the HTTP status
// the API boundary maps it to.
type SearchError struct {
	Code    string
	Message string
	Status  int
	Cause   error

	// Optional, populated per taxonomy
	Site        string
	URL         string
	RetryAfter  int // seconds
	TimeoutSecs int
	FieldErrors []models.FieldError
}

func (e *SearchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SearchError) Unwrap() error {
	return e.Cause
}

// AsSearchError extracts a *SearchError from an error chain
func AsSearchError(err error) (*SearchError, bool) {
	var se *SearchError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// NewValidationError reports a client-correctable validation failure listing
// every offending field.
func NewValidationError(message string, fields ...models.FieldError) *SearchError {
	return &SearchError{
		Code:        "VALIDATION_ERROR",
		Message:     message,
		Status:      http.StatusUnprocessableEntity,
		FieldErrors: fields,
	}
}

// NewRateLimitError reports a source-imposed rate limit with an optional
// retry-after hint in seconds.
func NewRateLimitError(site string, retryAfter int) *SearchError {
	return &SearchError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    fmt.Sprintf("Rate limit exceeded for %s. Please try again later.", site),
		Status:     http.StatusTooManyRequests,
		Site:       site,
		RetryAfter: retryAfter,
	}
}

// NewNetworkError reports a transport-level failure, carrying the target
// URL when known.
func NewNetworkError(message, url string, cause error) *SearchError {
	return &SearchError{
		Code:    "NETWORK_ERROR",
		Message: message,
		Status:  http.StatusServiceUnavailable,
		URL:     url,
		Cause:   cause,
	}
}

// NewTimeoutError reports that waiting for the search exceeded the
// configured bound.
func NewTimeoutError(timeoutSecs int) *SearchError {
	return &SearchError{
		Code:        "SEARCH_TIMEOUT",
		Message:     fmt.Sprintf("Search timed out after %d seconds", timeoutSecs),
		Status:      http.StatusRequestTimeout,
		TimeoutSecs: timeoutSecs,
	}
}

// NewJobBoardError reports one upstream job board's own failure. The API
// boundary downgrades this to a partial-success response rather than a
// failure status so other boards' results stay usable.
func NewJobBoardError(site string, cause error) *SearchError {
	return &SearchError{
		Code:    "JOB_BOARD_ERROR",
		Message: fmt.Sprintf("Error from %s: %v", site, cause),
		Status:  http.StatusOK,
		Site:    site,
		Cause:   cause,
	}
}

// NewJobSearchError is the catch-all for unclassified search failures
func NewJobSearchError(message string, cause error) *SearchError {
	return &SearchError{
		Code:    "SEARCH_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Cause:   cause,
	}
}

// NewExportError reports a failed export (empty batch or projection error)
func NewExportError(message string) *SearchError {
	return &SearchError{
		Code:    "EXPORT_ERROR",
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewNotFoundError reports an unknown or expired cache identifier. Expired
// and never-existed are deliberately indistinguishable.
func NewNotFoundError(searchID string) *SearchError {
	return &SearchError{
		Code: "NOT_FOUND",
		Message: fmt.Sprintf("Search results not found for search_id: %s. "+
			"Results may have expired or the search_id is invalid.", searchID),
		Status: http.StatusNotFound,
	}
}
