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

// Package testutil provides mock GitHub servers for vk tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// Reply is one scripted HTTP response.
type Reply struct {
	Status int
	Body   string
	// Delay holds the response back, for exercising client timeouts.
	Delay time.Duration
}

// JSONReply returns a 200 reply with the given body.
func JSONReply(body string) Reply {
	return Reply{Status: http.StatusOK, Body: body}
}

// StatusReply returns a reply with an arbitrary status and body.
func StatusReply(status int, body string) Reply {
	return Reply{Status: status, Body: body}
}

// DataReply returns a 200 reply wrapping data in a GraphQL envelope.
func DataReply(data any) Reply {
	body, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		panic(fmt.Sprintf("testutil: encode data: %v", err))
	}
	return JSONReply(string(body))
}

// Request is a GraphQL request captured by the server.
type Request struct {
	Header        http.Header
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
	Raw           string         `json:"-"`
}

// GraphQLServer replays scripted replies in order and records every request.
type GraphQLServer struct {
	*httptest.Server

	mu       sync.Mutex
	replies  []Reply
	requests []Request
}

// NewGraphQLServer starts a server that answers the n-th request with the
// n-th reply. Requests beyond the script fail the test and get a 500. The
// server is closed when the test ends.
func NewGraphQLServer(t *testing.T, replies ...Reply) *GraphQLServer {
	t.Helper()
	s := &GraphQLServer{replies: replies}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		req := Request{Header: r.Header.Clone(), Raw: string(raw)}
		if err := json.Unmarshal(raw, &req); err != nil {
			t.Errorf("testutil: request body is not JSON: %v", err)
		}

		s.mu.Lock()
		n := len(s.requests)
		s.requests = append(s.requests, req)
		var reply Reply
		ok := n < len(s.replies)
		if ok {
			reply = s.replies[n]
		}
		s.mu.Unlock()

		if !ok {
			t.Errorf("testutil: unexpected request %d (%s)", n+1, req.OperationName)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if reply.Delay > 0 {
			select {
			case <-time.After(reply.Delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(reply.Status)
		_, _ = w.Write([]byte(reply.Body))
	}))
	t.Cleanup(s.Close)
	return s
}

// NewErrorServer creates a mock server that always returns the specified status.
func NewErrorServer(t *testing.T, statusCode int, body string) *GraphQLServer {
	t.Helper()
	replies := make([]Reply, 100)
	for i := range replies {
		replies[i] = StatusReply(statusCode, body)
	}
	return NewGraphQLServer(t, replies...)
}

// Endpoint returns the GraphQL URL of the server.
func (s *GraphQLServer) Endpoint() string {
	return s.URL + "/graphql"
}

// RequestCount returns how many requests the server has received.
func (s *GraphQLServer) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns the captured requests in arrival order.
func (s *GraphQLServer) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// CommentNodes builds review comment nodes whose bodies are c<start>..c<end>.
func CommentNodes(start, end int) []map[string]any {
	nodes := make([]map[string]any, 0, end-start+1)
	for i := start; i <= end; i++ {
		nodes = append(nodes, map[string]any{
			"body":             fmt.Sprintf("c%d", i),
			"diffHunk":         "@@ -1 +1 @@\n-a\n+b",
			"originalPosition": 1,
			"position":         1,
			"path":             "src/lib.rs",
			"url":              fmt.Sprintf("https://github.com/o/r/pull/1#discussion_r%d", i),
			"author":           map[string]any{"login": "reviewer"},
		})
	}
	return nodes
}

// PageInfo builds a pageInfo object. An empty cursor encodes as null.
func PageInfo(hasNext bool, cursor string) map[string]any {
	var end any
	if cursor != "" {
		end = cursor
	}
	return map[string]any{"hasNextPage": hasNext, "endCursor": end}
}

// AssertGraphQLRequest validates a GraphQL request structure
func AssertGraphQLRequest(t *testing.T, r *http.Request) {
	t.Helper()
	if r.Method != http.MethodPost {
		t.Errorf("Expected POST method, got: %s", r.Method)
	}
	if ct := r.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type: application/json, got: %s", ct)
	}
}
