// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notion

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/todo-harvest/internal/httputil"
)

// APIError is a non-2xx answer from the Notion API, decoded from its
// error envelope. Transient statuses are retried by the client before
// one of these reaches a caller, so by the time an APIError surfaces it
// is either non-retryable or the retry budget is spent.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion API: %s (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("notion API: HTTP %d: %s", e.Status, e.Message)
}

// Transient reports whether the failure was rate limiting or a
// server-side condition (the caller may retry an entire run safely).
func (e *APIError) Transient() bool {
	return httputil.Transient(e.Status)
}

// IsTransient reports whether err wraps a transient APIError.
func IsTransient(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Transient()
}

// decodeError turns a non-2xx response into an *APIError. The body may
// be empty or non-JSON (proxies, hard 5xx); the status code alone is
// still enough to classify the failure.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &APIError{Status: resp.StatusCode, Message: string(body)}
	}
	return &APIError{
		Status:  resp.StatusCode,
		Code:    envelope.Code,
		Message: envelope.Message,
	}
}
