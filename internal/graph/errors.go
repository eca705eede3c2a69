// Package graph talks to the Microsoft Graph API: an OAuth2
// client-credentials token provider and a path-addressed drive client.
package graph

import (
	"fmt"
	"io"
	"net/http"
)

// errBodyLimit caps how much of an upstream error body is kept in APIError.
const errBodyLimit = 2048

// APIError describes a non-2xx reply from the Graph or login endpoints.
// The request-id header is captured when present for correlation against
// Microsoft-side logs.
type APIError struct {
	Op         string
	StatusCode int
	RequestID  string
	Message    string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("graph: %s: HTTP %d (request-id: %s): %s", e.Op, e.StatusCode, e.RequestID, e.Message)
	}
	return fmt.Sprintf("graph: %s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
}

// newAPIError drains resp into an APIError. The response body is consumed
// and closed.
func newAPIError(op string, resp *http.Response) *APIError {
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
	resp.Body.Close()
	if readErr != nil {
		body = []byte("(failed to read response body)")
	}
	return &APIError{
		Op:         op,
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("request-id"),
		Message:    string(body),
	}
}
