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

	"github.com/sirseerhq/vk/internal/queries"
)

type reviewsPage struct {
	Repository struct {
		PullRequest struct {
			Reviews Connection[PullRequestReview] `json:"reviews"`
		} `json:"pullRequest"`
	} `json:"repository"`
}

// FetchReviews returns every review of a pull request in API order. number
// must fit a GraphQL Int.
func FetchReviews(ctx context.Context, q Queryer, repo RepoInfo, number int) ([]PullRequestReview, error) {
	vars, err := repoVariables(queries.Reviews, repo, number)
	if err != nil {
		return nil, err
	}
	return PaginateAll(ctx, q, queries.Reviews, vars, nil,
		func(p reviewsPage) ([]PullRequestReview, PageInfo, error) {
			conn := p.Repository.PullRequest.Reviews
			return conn.Nodes, conn.PageInfo, nil
		})
}

// supersedes reports whether next should replace current as an author's
// latest review. A timestamp beats none, a later timestamp beats an earlier
// one, and ties go to next.
func supersedes(next, current PullRequestReview) bool {
	switch {
	case next.SubmittedAt != nil && current.SubmittedAt != nil:
		return !next.SubmittedAt.Before(*current.SubmittedAt)
	case current.SubmittedAt != nil:
		return false
	default:
		return true
	}
}

// LatestReviews keeps the most recent review of each author. Authors appear
// in order of their first review; reviews without an author are kept
// individually and follow the authored ones.
func LatestReviews(reviews []PullRequestReview) []PullRequestReview {
	index := make(map[string]int)
	var latest, anonymous []PullRequestReview
	for _, r := range reviews {
		if r.Author == nil {
			anonymous = append(anonymous, r)
			continue
		}
		i, seen := index[r.Author.Login]
		if !seen {
			index[r.Author.Login] = len(latest)
			latest = append(latest, r)
			continue
		}
		if supersedes(r, latest[i]) {
			latest[i] = r
		}
	}
	return append(latest, anonymous...)
}
