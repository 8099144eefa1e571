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
	"github.com/sirseerhq/vk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedFetcher returns its pages in order and records the cursors asked for.
type scriptedFetcher struct {
	pages   []*ReviewCommentsPage
	cursors []*string
}

func (f *scriptedFetcher) FetchReviewComments(_ context.Context, _ RepoInfo, _ int, cursor *string) (*ReviewCommentsPage, error) {
	f.cursors = append(f.cursors, cursor)
	if len(f.pages) == 0 {
		return nil, errors.New("unexpected fetch")
	}
	p := f.pages[0]
	f.pages = f.pages[1:]
	return p, nil
}

func commentsPage(t *testing.T, ids []int64, cursor string, hasNext bool) *ReviewCommentsPage {
	t.Helper()
	nodes := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, map[string]any{
			"databaseId":              id,
			"pullRequestReviewThread": map[string]any{"id": "thread-for-" + strconv.FormatInt(id, 10)},
		})
	}
	var page ReviewCommentsPage
	mock := NewMockQueryer(WithMockData(map[string]any{"repository": map[string]any{"pullRequest": map[string]any{
		"reviewComments": map[string]any{"nodes": nodes, "pageInfo": testutil.PageInfo(hasNext, cursor)},
	}}}))
	require.NoError(t, mock.Query(context.Background(), "query T { x }", nil, &page))
	return &page
}

func TestGetThreadID(t *testing.T) {
	ref := CommentRef{Repo: testRepo, PullNumber: 1, CommentID: 42}

	t.Run("found on second page", func(t *testing.T) {
		f := &scriptedFetcher{pages: []*ReviewCommentsPage{
			commentsPage(t, []int64{1, 2}, "a", true),
			commentsPage(t, []int64{41, 42}, "", false),
		}}
		id, err := GetThreadID(context.Background(), f, ref)
		require.NoError(t, err)
		assert.Equal(t, "thread-for-42", id)
		require.Len(t, f.cursors, 2)
		assert.Nil(t, f.cursors[0])
		assert.Equal(t, "a", *f.cursors[1])
	})

	t.Run("missing review comments", func(t *testing.T) {
		f := &scriptedFetcher{pages: []*ReviewCommentsPage{{}}}
		_, err := GetThreadID(context.Background(), f, ref)
		assert.ErrorContains(t, err, "missing review comments")
	})

	t.Run("missing cursor", func(t *testing.T) {
		f := &scriptedFetcher{pages: []*ReviewCommentsPage{commentsPage(t, nil, "", true)}}
		_, err := GetThreadID(context.Background(), f, ref)
		var missing *MissingCursorError
		assert.True(t, errors.As(err, &missing))
	})

	t.Run("repeated cursor", func(t *testing.T) {
		f := &scriptedFetcher{pages: []*ReviewCommentsPage{
			commentsPage(t, nil, "a", true),
			commentsPage(t, nil, "a", true),
		}}
		_, err := GetThreadID(context.Background(), f, ref)
		var repeated *RepeatedCursorError
		require.True(t, errors.As(err, &repeated))
		assert.Equal(t, "a", repeated.Cursor)
	})

	t.Run("not found", func(t *testing.T) {
		f := &scriptedFetcher{pages: []*ReviewCommentsPage{
			commentsPage(t, []int64{1}, "a", true),
			commentsPage(t, []int64{2}, "", false),
		}}
		_, err := GetThreadID(context.Background(), f, ref)
		assert.ErrorIs(t, err, vkerrors.ErrCommentNotFound)
	})
}

func TestQueryerFetcher(t *testing.T) {
	mock := NewMockQueryer(WithMockData(`{"repository":{"pullRequest":{"reviewComments":{
		"pageInfo":{"hasNextPage":false,"endCursor":null},
		"nodes":[{"databaseId":42,"pullRequestReviewThread":{"id":"T_42"}}]}}}}`))

	id, err := GetThreadID(context.Background(), QueryerFetcher{Q: mock},
		CommentRef{Repo: testRepo, PullNumber: 3, CommentID: 42})
	require.NoError(t, err)
	assert.Equal(t, "T_42", id)

	call := mock.Calls()[0]
	assert.Equal(t, "ReviewComments", call.Operation)
	assert.Equal(t, float64(3), call.Variables["number"])
}

func TestResolveThread(t *testing.T) {
	server := testutil.NewGraphQLServer(t,
		testutil.DataReply(map[string]any{"resolveReviewThread": map[string]any{"clientMutationId": nil}}),
	)
	client := newTestClient(t, "tok", server.Endpoint())

	require.NoError(t, ResolveThread(context.Background(), client, "T_1"))

	req := server.Requests()[0]
	assert.Equal(t, "ResolveThread", req.OperationName)
	assert.Equal(t, map[string]any{"id": "T_1"}, req.Variables)
}

func TestResolveThread_APIError(t *testing.T) {
	mock := NewMockQueryer(WithMockError(&APIError{Messages: []string{"Resource not accessible by integration"}}))

	err := ResolveThread(context.Background(), mock, "T_1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsAuthError())
}
