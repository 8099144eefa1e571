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
	"strconv"
	"testing"

	"github.com/cockroachdb/errors"
	vkerrors "github.com/sirseerhq/vk/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func branchData(owners ...string) string {
	nodes := ""
	for i, owner := range owners {
		if i > 0 {
			nodes += ","
		}
		head := "null"
		if owner != "" {
			head = `{"owner":{"login":"` + owner + `"}}`
		}
		nodes += `{"number":` + strconv.Itoa(i+1) + `,"headRepository":` + head + `}`
	}
	return `{"repository":{"pullRequests":{"nodes":[` + nodes + `]}}}`
}

func TestFetchPRForBranch(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		headOwner string
		want      int
		wantErr   error
	}{
		{name: "first match without owner", data: branchData("alice", "bob"), want: 1},
		{name: "owner match case-insensitive", data: branchData("alice", "Bob"), headOwner: "bob", want: 2},
		{name: "deleted fork skipped", data: branchData("", "bob"), headOwner: "bob", want: 2},
		{name: "no owner match", data: branchData("alice"), headOwner: "carol", wantErr: vkerrors.ErrNoPRForBranch},
		{name: "no pull requests", data: branchData(), wantErr: vkerrors.ErrNoPRForBranch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockQueryer(WithMockData(tt.data))
			got, err := FetchPRForBranch(context.Background(), mock, testRepo, "feature", tt.headOwner)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			call := mock.Calls()[0]
			assert.Equal(t, "PullRequestForBranch", call.Operation)
			assert.Equal(t, "feature", call.Variables["headRef"])
		})
	}
}

func TestFetchIssue(t *testing.T) {
	mock := NewMockQueryer(
		WithMockData(`{"repository":{"issue":{"title":"Broken build","body":"It fails."}}}`),
		WithMockData(`{"repository":{"issue":null}}`),
	)

	issue, err := FetchIssue(context.Background(), mock, testRepo, 5)
	require.NoError(t, err)
	assert.Equal(t, "Broken build", issue.Title)
	assert.Equal(t, "It fails.", issue.Body)

	call := mock.Calls()[0]
	assert.Equal(t, "Issue", call.Operation)
	_, hasCursor := call.Variables["cursor"]
	assert.False(t, hasCursor)

	_, err = FetchIssue(context.Background(), mock, testRepo, 6)
	assert.ErrorIs(t, err, vkerrors.ErrResourceNotFound)
}

func TestFetchIssue_PropagatesAPIError(t *testing.T) {
	mock := NewMockQueryer(WithMockError(&APIError{Messages: []string{"Could not resolve to an Issue"}}))

	_, err := FetchIssue(context.Background(), mock, testRepo, 5)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsNotFoundError())
}
