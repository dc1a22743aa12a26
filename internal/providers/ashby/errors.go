package ashby

import (
	"errors"
	"fmt"
	"strings"

	"github.com/smallbiznis/feedbackrelay/internal/apperr"
)

var (
	ErrInvalidCandidate = errors.New("invalid_candidate_payload")
	ErrMissingFileURL   = errors.New("file_url_missing")
)

// APIError is a success=false envelope or a non-2xx response.
type APIError struct {
	Endpoint   string
	StatusCode int
	Code       string
	RequestID  string
	Message    string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ashby %s failed", e.Endpoint)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// NotFound reports whether the tracking system says the resource does not exist.
func (e *APIError) NotFound() bool {
	if e.StatusCode == 404 {
		return true
	}
	code := strings.ToLower(e.Code)
	if strings.Contains(code, "not_found") || strings.Contains(code, "notfound") {
		return true
	}
	return strings.Contains(strings.ToLower(e.Message), "not found")
}

// classify wraps err with the failure taxonomy used by callers.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.NotFound() {
		return apperr.NotFound(op, err)
	}
	return apperr.DependencyFailed(op, err)
}
