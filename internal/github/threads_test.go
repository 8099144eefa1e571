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
	"fmt"
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	vkerrors "github.com/sirseerhq/vk/internal/errors"
	"github.com/sirseerhq/vk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRepo = RepoInfo{Owner: "octocat", Name: "hello-world"}

func threadNode(id string, resolved bool, comments []map[string]any, hasNext bool, cursor string) map[string]any {
	return map[string]any{
		"id":         id,
		"isResolved": resolved,
		"isOutdated": false,
		"comments": map[string]any{
			"nodes":    comments,
			"pageInfo": testutil.PageInfo(hasNext, cursor),
		},
	}
}

func threadsReply(threads []map[string]any, hasNext bool, cursor string) testutil.Reply {
	return testutil.DataReply(map[string]any{
		"repository": map[string]any{
			"pullRequest": map[string]any{
				"reviewThreads": map[string]any{
					"nodes":    threads,
					"pageInfo": testutil.PageInfo(hasNext, cursor),
				},
			},
		},
	})
}

func commentsReply(comments []map[string]any, hasNext bool, cursor string) testutil.Reply {
	return testutil.DataReply(map[string]any{
		"node": map[string]any{
			"comments": map[string]any{
				"nodes":    comments,
				"pageInfo": testutil.PageInfo(hasNext, cursor),
			},
		},
	})
}

func TestFetchReviewThreads_NestedCommentPagination(t *testing.T) {
	server := testutil.NewGraphQLServer(t,
		threadsReply([]map[string]any{
			threadNode("T_1", false, testutil.CommentNodes(0, 99), true, "c99"),
		}, false, ""),
		commentsReply(testutil.CommentNodes(100, 100), false, ""),
	)
	client := newTestClient(t, "", server.Endpoint())

	threads, err := FetchReviewThreads(context.Background(), client, testRepo, 7)
	require.NoError(t, err)
	require.Len(t, threads, 1)

	comments := threads[0].Comments.Nodes
	require.Len(t, comments, 101)
	for i, c := range comments {
		assert.Equal(t, fmt.Sprintf("c%d", i), c.Body)
	}
	assert.False(t, threads[0].Comments.PageInfo.HasNextPage)

	require.Equal(t, 2, server.RequestCount())
	reqs := server.Requests()
	assert.Equal(t, "ReviewThreads", reqs[0].OperationName)
	assert.Equal(t, map[string]any{"owner": "octocat", "name": "hello-world", "number": float64(7)}, reqs[0].Variables)
	assert.Equal(t, "ThreadComments", reqs[1].OperationName)
	assert.Equal(t, "T_1", reqs[1].Variables["id"])
	assert.Equal(t, "c99", reqs[1].Variables["cursor"])
}

func TestFetchReviewThreads_FiltersResolvedAndPaginates(t *testing.T) {
	mock := NewMockQueryer(
		WithMockData(threadsPageFrom([]ReviewThread{
			{ID: "T_1", IsResolved: true, Comments: comments("a.go")},
			{ID: "T_2", Comments: comments("b.go")},
		}, PageInfo{HasNextPage: true, EndCursor: ptr("t1")})),
		WithMockData(threadsPageFrom([]ReviewThread{
			{ID: "T_3", Comments: Connection[ReviewComment]{
				Nodes:    []ReviewComment{{Path: "c.go", Body: "first"}},
				PageInfo: PageInfo{HasNextPage: false, EndCursor: ptr("ignored")},
			}},
		}, PageInfo{})),
	)

	threads, err := FetchReviewThreads(context.Background(), mock, testRepo, 1)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, "T_2", threads[0].ID)
	assert.Equal(t, "T_3", threads[1].ID)

	calls := mock.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "t1", calls[1].Variables["cursor"])
}

func TestFetchReviewThreads_MissingNode(t *testing.T) {
	mock := NewMockQueryer(
		WithMockData(threadsPageFrom([]ReviewThread{{
			ID: "T_9",
			Comments: Connection[ReviewComment]{
				Nodes:    []ReviewComment{{Body: "x"}},
				PageInfo: PageInfo{HasNextPage: true, EndCursor: ptr("c0")},
			},
		}}, PageInfo{})),
		WithMockData(`{"node": null}`),
	)

	_, err := FetchReviewThreads(context.Background(), mock, testRepo, 1)
	var missing *MissingNodeError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "T_9", missing.ID)
	assert.Equal(t, "c0", missing.Cursor)
	assert.Contains(t, err.Error(), "id: T_9, cursor: c0")
}

func TestFetchReviewThreads_InvalidNumber(t *testing.T) {
	mock := NewMockQueryer()
	_, err := FetchReviewThreads(context.Background(), mock, testRepo, math.MaxInt32+1)
	assert.ErrorIs(t, err, vkerrors.ErrInvalidReference)
	assert.Empty(t, mock.Calls())
}

func TestFilterThreadsByFiles(t *testing.T) {
	threads := []ReviewThread{
		{ID: "1", Comments: comments("a.go")},
		{ID: "2", Comments: comments("b.go")},
		{ID: "3"},
	}

	assert.Equal(t, threads, FilterThreadsByFiles(threads, nil))

	got := FilterThreadsByFiles(threads, []string{"b.go", "missing.go"})
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	assert.Empty(t, FilterThreadsByFiles(threads, []string{"missing.go"}))
}

func TestFilterThreadsByComment(t *testing.T) {
	threads := []ReviewThread{
		{ID: "1", Comments: Connection[ReviewComment]{Nodes: []ReviewComment{
			{URL: "https://github.com/o/r/pull/1#discussion_r10"},
		}}},
		{ID: "2", Comments: Connection[ReviewComment]{Nodes: []ReviewComment{
			{URL: "https://github.com/o/r/pull/1#discussion_r100"},
			{URL: "https://github.com/o/r/pull/1#discussion_r101"},
		}}},
	}

	got := FilterThreadsByComment(threads, 101)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	got = FilterThreadsByComment(threads, 10)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	assert.Empty(t, FilterThreadsByComment(threads, 1))
}

func comments(path string) Connection[ReviewComment] {
	return Connection[ReviewComment]{Nodes: []ReviewComment{{Path: path, Body: "body"}}}
}

func threadsPageFrom(threads []ReviewThread, info PageInfo) threadsPage {
	var p threadsPage
	p.Repository.PullRequest.ReviewThreads = Connection[ReviewThread]{Nodes: threads, PageInfo: info}
	return p
}
