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
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type replyRequest struct {
	Body      string `json:"body"`
	InReplyTo int64  `json:"in_reply_to"`
}

func newRestServer(t *testing.T, status int, got *replyRequest, hits *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/octocat/hello-world/pulls/7/comments", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 300 {
			_, _ = w.Write([]byte(`{"message":"` + http.StatusText(status) + `"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestRestClient(t *testing.T, endpoint string) *RestClient {
	t.Helper()
	client, err := NewRestClient("tok", endpoint, testRetryConfig(1), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return client
}

var replyRef = CommentRef{Repo: testRepo, PullNumber: 7, CommentID: 42}

func TestRestClient_PostReply(t *testing.T) {
	var got replyRequest
	var hits int32
	server := newRestServer(t, http.StatusCreated, &got, &hits)
	client := newTestRestClient(t, server.URL)

	require.NoError(t, client.PostReply(context.Background(), replyRef, "  Fixed in abc123.\n"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, "Fixed in abc123.", got.Body)
	assert.Equal(t, int64(42), got.InReplyTo)
}

func TestRestClient_PostReplySkipsBlankBody(t *testing.T) {
	var hits int32
	server := newRestServer(t, http.StatusCreated, nil, &hits)
	client := newTestRestClient(t, server.URL)

	require.NoError(t, client.PostReply(context.Background(), replyRef, " \n\t"))
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestRestClient_PostReplyIgnoresNotFound(t *testing.T) {
	var hits int32
	server := newRestServer(t, http.StatusNotFound, nil, &hits)
	client := newTestRestClient(t, server.URL)

	assert.NoError(t, client.PostReply(context.Background(), replyRef, "thanks"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestRestClient_PostReplyError(t *testing.T) {
	var hits int32
	server := newRestServer(t, http.StatusUnprocessableEntity, nil, &hits)
	client := newTestRestClient(t, server.URL)

	err := client.PostReply(context.Background(), replyRef, "thanks")
	assert.ErrorContains(t, err, "reply to comment 42")
}

func TestNewRestClient_InvalidEndpoint(t *testing.T) {
	_, err := NewRestClient("", "://bad", DefaultRetryConfig(), nil)
	assert.Error(t, err)
}
