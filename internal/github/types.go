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
	"encoding/json"
	"log/slog"
	"time"
)

// DefaultEndpoint is the public GitHub GraphQL endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

// Endpoint names the GraphQL URL a client talks to. It is fixed at
// construction.
type Endpoint string

// String returns the endpoint URL.
func (e Endpoint) String() string {
	if e == "" {
		return DefaultEndpoint
	}
	return string(e)
}

// Token is a GitHub credential. An empty token means anonymous access.
// Printing or logging a Token never reveals the value.
type Token string

// String implements fmt.Stringer without exposing the credential.
func (t Token) String() string {
	if t == "" {
		return "<anonymous>"
	}
	return "<redacted>"
}

// GoString keeps %#v from printing the credential.
func (t Token) GoString() string { return t.String() }

// LogValue implements slog.LogValuer for every handler, JSON included.
func (t Token) LogValue() slog.Value { return slog.StringValue(t.String()) }

// Query is a GraphQL document together with the operation label derived
// from it. The label is computed once when the query is built.
type Query struct {
	text      string
	name      string
	operation string
}

// NewQuery wraps a GraphQL document.
func NewQuery(text string) Query {
	name, ok := operationName(text)
	operation := name
	if !ok {
		operation = snippet(text, operationSnippetLen)
	}
	return Query{text: text, name: name, operation: operation}
}

// Text returns the GraphQL document.
func (q Query) Text() string { return q.text }

// Name returns the declared operation name, or "" for anonymous documents.
func (q Query) Name() string { return q.name }

// Operation returns the label used in logs, transcripts and errors: the
// operation name when present, otherwise a prefix of the document.
func (q Query) Operation() string { return q.operation }

// PageInfo is the pagination block of a GraphQL connection.
type PageInfo struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

// NextCursor returns the cursor for the following page, or nil when the
// connection is exhausted. A page claiming more results without a cursor is
// a protocol violation.
func (p PageInfo) NextCursor() (*string, error) {
	if !p.HasNextPage {
		return nil, nil
	}
	if p.EndCursor == nil {
		return nil, &MissingCursorError{}
	}
	return p.EndCursor, nil
}

// Connection is a GraphQL connection of nodes with pagination metadata.
type Connection[T any] struct {
	Nodes    []T      `json:"nodes"`
	PageInfo PageInfo `json:"pageInfo"`
}

// User is the minimal actor representation used for authorship.
type User struct {
	Login string `json:"login"`
}

// ReviewComment is a single comment in a review thread.
type ReviewComment struct {
	Body             string `json:"body"`
	DiffHunk         string `json:"diffHunk"`
	OriginalPosition *int   `json:"originalPosition"`
	Position         *int   `json:"position"`
	Path             string `json:"path"`
	URL              string `json:"url"`
	Author           *User  `json:"author"`
}

// ReviewThread is a pull request review thread with its comments.
type ReviewThread struct {
	ID         string                    `json:"id"`
	IsResolved bool                      `json:"isResolved"`
	IsOutdated bool                      `json:"isOutdated"`
	Comments   Connection[ReviewComment] `json:"comments"`
}

// PullRequestReview is a submitted review on a pull request.
type PullRequestReview struct {
	Body        string     `json:"body"`
	State       string     `json:"state"`
	SubmittedAt *time.Time `json:"submittedAt"`
	Author      *User      `json:"author"`
}

// Issue is the minimal issue representation displayed by the issue command.
type Issue struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// RepoInfo identifies a repository by owner and name.
type RepoInfo struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// String returns the owner/name form.
func (r RepoInfo) String() string {
	return r.Owner + "/" + r.Name
}

// httpResponse is what the transport hands to the classifier: the status and
// the full body text, captured for every status code.
type httpResponse struct {
	Status int
	Body   string
}

// graphQLResponse is the GraphQL envelope. Data stays raw so that it can be
// decoded into the caller's type after the envelope has been checked.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
}
