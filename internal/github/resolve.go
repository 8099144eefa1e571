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

	"github.com/cockroachdb/errors"
	"github.com/shurcooL/graphql"
	vkerrors "github.com/sirseerhq/vk/internal/errors"
	"github.com/sirseerhq/vk/internal/queries"
)

// CommentRef identifies a review comment on a pull request.
type CommentRef struct {
	Repo       RepoInfo
	PullNumber int
	CommentID  int64
}

// ReviewCommentsPage is one page of a pull request's review comments.
type ReviewCommentsPage struct {
	Repository *struct {
		PullRequest *struct {
			ReviewComments *struct {
				PageInfo PageInfo            `json:"pageInfo"`
				Nodes    []ReviewCommentNode `json:"nodes"`
			} `json:"reviewComments"`
		} `json:"pullRequest"`
	} `json:"repository"`
}

// ReviewCommentNode links a comment's database ID to its thread.
type ReviewCommentNode struct {
	DatabaseID int64 `json:"databaseId"`
	Thread     struct {
		ID string `json:"id"`
	} `json:"pullRequestReviewThread"`
}

// ReviewCommentsFetcher fetches one page of review comments. cursor is nil
// for the first page.
type ReviewCommentsFetcher interface {
	FetchReviewComments(ctx context.Context, repo RepoInfo, number int, cursor *string) (*ReviewCommentsPage, error)
}

// QueryerFetcher adapts a Queryer to ReviewCommentsFetcher.
type QueryerFetcher struct {
	Q Queryer
}

// FetchReviewComments implements ReviewCommentsFetcher.
func (f QueryerFetcher) FetchReviewComments(ctx context.Context, repo RepoInfo, number int, cursor *string) (*ReviewCommentsPage, error) {
	vars, err := repoVariables(queries.ReviewComments, repo, number)
	if err != nil {
		return nil, err
	}
	page, err := FetchPage[ReviewCommentsPage](ctx, f.Q, queries.ReviewComments, cursor, vars)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetThreadID walks the review comments of a pull request until it finds
// ref.CommentID and returns the ID of the thread holding it.
func GetThreadID(ctx context.Context, f ReviewCommentsFetcher, ref CommentRef) (string, error) {
	var cursor *string
	for {
		page, err := f.FetchReviewComments(ctx, ref.Repo, ref.PullNumber, cursor)
		if err != nil {
			return "", err
		}
		if page == nil || page.Repository == nil || page.Repository.PullRequest == nil ||
			page.Repository.PullRequest.ReviewComments == nil {
			return "", errors.New("bad response: missing review comments")
		}
		comments := page.Repository.PullRequest.ReviewComments

		for _, node := range comments.Nodes {
			if node.DatabaseID == ref.CommentID {
				return node.Thread.ID, nil
			}
		}

		next, err := comments.PageInfo.NextCursor()
		if err != nil {
			return "", err
		}
		if next == nil {
			break
		}
		if cursor != nil && *next == *cursor {
			return "", &RepeatedCursorError{Cursor: *next}
		}
		cursor = next
	}
	return "", errors.Wrapf(vkerrors.ErrCommentNotFound, "comment %d", ref.CommentID)
}

type resolveThreadResult struct {
	ResolveReviewThread *struct {
		ClientMutationID *string `json:"clientMutationId"`
	} `json:"resolveReviewThread"`
}

// ResolveThread marks a review thread as resolved.
func ResolveThread(ctx context.Context, q Queryer, threadID string) error {
	vars := map[string]any{"id": graphql.ID(threadID)}
	if err := queries.Check(queries.ResolveThread, vars); err != nil {
		return err
	}
	_, err := RunQuery[resolveThreadResult](ctx, q, queries.ResolveThread, vars)
	return err
}
