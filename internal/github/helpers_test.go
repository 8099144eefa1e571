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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnippet(t *testing.T) {
	tests := []struct {
		text string
		max  int
		want string
	}{
		{"", 3, ""},
		{"abc", 0, ""},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc..."},
		{"👍👍👍", 2, "👍👍..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, snippet(tt.text, tt.max), "snippet(%q, %d)", tt.text, tt.max)
	}
}

func TestOperationName(t *testing.T) {
	tests := []struct {
		query  string
		want   string
		wantOK bool
	}{
		{"query RetryOp { __typename }", "RetryOp", true},
		{"mutation UpdateThing { __typename }", "UpdateThing", true},
		{"subscription OnEvent { __typename }", "OnEvent", true},
		{"\n  query Threads($owner: String!) { x }", "Threads", true},
		{"query\tTabbed{ x }", "Tabbed", true},
		{"queryFoo { __typename }", "", false},
		{"query { viewer { login } }", "", false},
		{"query($id: ID!) { node(id: $id) { id } }", "", false},
		{"{ viewer { login } }", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := operationName(tt.query)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewQuery_FallsBackToSnippet(t *testing.T) {
	named := NewQuery("query RetryOp { __typename }")
	assert.Equal(t, "RetryOp", named.Name())
	assert.Equal(t, "RetryOp", named.Operation())

	long := "queryFoo { " + strings.Repeat("field ", 20) + "}"
	anon := NewQuery(long)
	assert.Empty(t, anon.Name())
	assert.Equal(t, snippet(long, operationSnippetLen), anon.Operation())
	assert.True(t, strings.HasSuffix(anon.Operation(), "..."))
}

func TestPayloadSnippet_RedactsSensitiveFields(t *testing.T) {
	payload := []byte(`{
		"query": "query { viewer { login } }",
		"variables": {
			"Token": "secret",
			"nested": {"PASSWORD": "p", "api_key": "api-key-123", "keep": "visible"},
			"list": [{"access_token": "access-789"}],
			"credentials": "creds-000",
			"private_key": "private-456",
			"owner": "octocat"
		}
	}`)

	snip := payloadSnippet(payload, slog.New(slog.DiscardHandler))
	for _, secret := range []string{"secret", `"p"`, "api-key-123", "access-789", "creds-000", "private-456"} {
		assert.NotContains(t, snip, secret)
	}
	assert.Contains(t, snip, "<redacted>")
	assert.Contains(t, snip, "visible")
	assert.Contains(t, snip, "octocat")
}

func TestRedactPayload_PreservesStructure(t *testing.T) {
	out, err := redactPayload([]byte(`{"variables":{"auth":{"nested":"x"},"n":1}}`))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	vars := got["variables"].(map[string]any)
	assert.Equal(t, "<redacted>", vars["auth"])
	assert.Equal(t, float64(1), vars["n"])
}

func TestPayloadSnippet_Unparseable(t *testing.T) {
	assert.Equal(t, "<failed to serialise payload>",
		payloadSnippet([]byte("not json"), slog.New(slog.DiscardHandler)))
}

func TestPayloadSnippet_Truncates(t *testing.T) {
	payload, err := json.Marshal(map[string]string{"query": strings.Repeat("x", 2000)})
	require.NoError(t, err)
	snip := payloadSnippet(payload, slog.New(slog.DiscardHandler))
	assert.Equal(t, requestSnippetLen+3, len([]rune(snip)))
}
