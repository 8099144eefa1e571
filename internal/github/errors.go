// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"fmt"
	"net/http"
	"strings"
)

// TransportError reports a request that never produced a readable response:
// connection failures, timeouts and body read errors.
type TransportError struct {
	Operation string
	// Payload is a redacted, truncated rendering of the request body.
	Payload string
	// Status is set when the failure happened while reading the body.
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("request failed when running operation %s; %s", e.Operation, e.Payload)
	if e.Status != 0 {
		msg += fmt.Sprintf("; status %d", e.Status)
	}
	return msg + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsNetworkError reports true; transport failures are network failures.
func (e *TransportError) IsNetworkError() bool { return true }

// HTTPStatusError reports a response with a non-2xx status code.
type HTTPStatusError struct {
	Operation string
	Status    int
	// Snippet is the start of the response body.
	Snippet string
	Err     error
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP status %d for operation %s | body snippet: %s: %v",
		e.Status, e.Operation, e.Snippet, e.Err)
}

func (e *HTTPStatusError) Unwrap() error { return e.Err }

// IsAuthError reports 401 responses and 403 responses that are not rate limits.
func (e *HTTPStatusError) IsAuthError() bool {
	return e.Status == http.StatusUnauthorized ||
		(e.Status == http.StatusForbidden && !e.IsRateLimitError())
}

// IsNotFoundError reports 404 responses.
func (e *HTTPStatusError) IsNotFoundError() bool { return e.Status == http.StatusNotFound }

// IsRateLimitError reports 429 responses and 403 responses mentioning a rate limit.
func (e *HTTPStatusError) IsRateLimitError() bool {
	return e.Status == http.StatusTooManyRequests ||
		(e.Status == http.StatusForbidden && strings.Contains(strings.ToLower(e.Snippet), "rate limit"))
}

// DecodeError reports a body that could not be decoded, either because the
// envelope is not JSON or because data does not match the expected type.
type DecodeError struct {
	Status  int
	Message string
	// Path locates the mismatch inside data; empty for envelope failures.
	Path    string
	Snippet string
}

func (e *DecodeError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg += " at " + e.Path
	}
	return fmt.Sprintf("malformed response (status %d): %s | snippet: %s", e.Status, msg, e.Snippet)
}

// APIError carries the messages of a GraphQL errors array.
type APIError struct {
	Messages []string
}

func (e *APIError) Error() string {
	return "API errors: " + strings.Join(e.Messages, ", ")
}

// IsNotFoundError reports GitHub's "Could not resolve to a ..." rejections.
func (e *APIError) IsNotFoundError() bool {
	return e.contains("could not resolve to")
}

// IsAuthError reports GraphQL rejections caused by missing scopes or credentials.
func (e *APIError) IsAuthError() bool {
	return e.contains("bad credentials") || e.contains("resource not accessible")
}

// IsRateLimitError reports GraphQL rate limit rejections.
func (e *APIError) IsRateLimitError() bool {
	return e.contains("rate limit")
}

func (e *APIError) contains(needle string) bool {
	for _, m := range e.Messages {
		if strings.Contains(strings.ToLower(m), needle) {
			return true
		}
	}
	return false
}

// EmptyResponseError reports a response with neither data nor errors.
type EmptyResponseError struct {
	Status    int
	Operation string
	Snippet   string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("empty GraphQL response (status %d) for operation %s | body snippet: %s",
		e.Status, e.Operation, e.Snippet)
}

// MissingCursorError reports a page with hasNextPage set and no endCursor.
type MissingCursorError struct{}

func (e *MissingCursorError) Error() string {
	return "bad response: hasNextPage=true but endCursor missing"
}

// PageLimitError reports a pagination loop stopped at the page ceiling.
type PageLimitError struct {
	Limit int
}

func (e *PageLimitError) Error() string {
	return fmt.Sprintf("bad response: pagination exceeded max pages %d", e.Limit)
}

// InvalidVariablesError reports variables that cannot carry a cursor. It is
// raised before any request is sent.
type InvalidVariablesError struct {
	Reason string
}

func (e *InvalidVariablesError) Error() string {
	return "invalid fetch_page variables: " + e.Reason
}

// MissingNodeError reports a node lookup that returned null.
type MissingNodeError struct {
	ID     string
	Cursor string
}

func (e *MissingNodeError) Error() string {
	cursor := e.Cursor
	if cursor == "" {
		cursor = "None"
	}
	return fmt.Sprintf("bad response: missing node in response (id: %s, cursor: %s)", e.ID, cursor)
}

// IsNotFoundError reports true; the node no longer exists or is not visible.
func (e *MissingNodeError) IsNotFoundError() bool { return true }

// RepeatedCursorError reports a server handing back the cursor it was given.
type RepeatedCursorError struct {
	Cursor string
}

func (e *RepeatedCursorError) Error() string {
	return fmt.Sprintf("bad response: non-progressing pagination (repeated endCursor %q)", e.Cursor)
}
