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
	"strings"

	"github.com/shurcooL/graphql"
	"github.com/sirseerhq/vk/internal/queries"
)

type threadsPage struct {
	Repository struct {
		PullRequest struct {
			ReviewThreads Connection[ReviewThread] `json:"reviewThreads"`
		} `json:"pullRequest"`
	} `json:"repository"`
}

type threadCommentsPage struct {
	Node *struct {
		Comments Connection[ReviewComment] `json:"comments"`
	} `json:"node"`
}

// FetchReviewThreads returns the unresolved review threads of a pull request
// with all of their comments. Threads whose first comment page is incomplete
// are completed with ThreadComments, one thread at a time.
func FetchReviewThreads(ctx context.Context, q Queryer, repo RepoInfo, number int) ([]ReviewThread, error) {
	vars, err := repoVariables(queries.ReviewThreads, repo, number)
	if err != nil {
		return nil, err
	}

	all, err := PaginateAll(ctx, q, queries.ReviewThreads, vars, nil,
		func(p threadsPage) ([]ReviewThread, PageInfo, error) {
			conn := p.Repository.PullRequest.ReviewThreads
			return conn.Nodes, conn.PageInfo, nil
		})
	if err != nil {
		return nil, err
	}

	// GitHub cannot filter threads by resolution state.
	threads := all[:0]
	for _, t := range all {
		if !t.IsResolved {
			threads = append(threads, t)
		}
	}

	for i := range threads {
		if err := completeComments(ctx, q, &threads[i]); err != nil {
			return nil, err
		}
	}
	return threads, nil
}

// completeComments fetches the remaining comment pages of a thread.
func completeComments(ctx context.Context, q Queryer, thread *ReviewThread) error {
	start, err := thread.Comments.PageInfo.NextCursor()
	if err != nil {
		return err
	}
	if start == nil {
		return nil
	}

	vars := map[string]any{"id": graphql.ID(thread.ID)}
	if err := queries.Check(queries.ThreadComments, vars); err != nil {
		return err
	}
	cursor := *start
	more, err := PaginateAll(ctx, q, queries.ThreadComments, vars, start,
		func(p threadCommentsPage) ([]ReviewComment, PageInfo, error) {
			if p.Node == nil {
				return nil, PageInfo{}, &MissingNodeError{ID: thread.ID, Cursor: cursor}
			}
			info := p.Node.Comments.PageInfo
			if info.EndCursor != nil {
				cursor = *info.EndCursor
			}
			return p.Node.Comments.Nodes, info, nil
		})
	if err != nil {
		return err
	}

	thread.Comments = Connection[ReviewComment]{
		Nodes: append(thread.Comments.Nodes, more...),
	}
	return nil
}

// FilterThreadsByFiles keeps the threads whose first comment is on one of
// files. An empty file list keeps every thread.
func FilterThreadsByFiles(threads []ReviewThread, files []string) []ReviewThread {
	if len(files) == 0 {
		return threads
	}
	wanted := make(map[string]struct{}, len(files))
	for _, f := range files {
		wanted[f] = struct{}{}
	}
	var out []ReviewThread
	for _, t := range threads {
		if len(t.Comments.Nodes) == 0 {
			continue
		}
		if _, ok := wanted[t.Comments.Nodes[0].Path]; ok {
			out = append(out, t)
		}
	}
	return out
}

// FilterThreadsByComment keeps the threads containing the review comment
// with the given database ID, matched by its "#discussion_r<ID>" URL anchor.
func FilterThreadsByComment(threads []ReviewThread, commentID int64) []ReviewThread {
	anchor := "#discussion_r" + strconv.FormatInt(commentID, 10)
	var out []ReviewThread
	for _, t := range threads {
		for _, c := range t.Comments.Nodes {
			if strings.HasSuffix(c.URL, anchor) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}
