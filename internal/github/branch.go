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
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/shurcooL/graphql"
	vkerrors "github.com/sirseerhq/vk/internal/errors"
	"github.com/sirseerhq/vk/internal/queries"
)

type branchPage struct {
	Repository struct {
		PullRequests struct {
			Nodes []struct {
				Number         int `json:"number"`
				HeadRepository *struct {
					Owner User `json:"owner"`
				} `json:"headRepository"`
			} `json:"nodes"`
		} `json:"pullRequests"`
	} `json:"repository"`
}

// FetchPRForBranch returns the number of the open or merged pull request
// whose head is branch. When headOwner is set only pull requests from that
// owner's repository (case-insensitive) qualify; otherwise the first match
// wins.
func FetchPRForBranch(ctx context.Context, q Queryer, repo RepoInfo, branch, headOwner string) (int, error) {
	vars := map[string]any{
		"owner":   graphql.String(repo.Owner),
		"name":    graphql.String(repo.Name),
		"headRef": graphql.String(branch),
	}
	if err := queries.Check(queries.PullRequestForBranch, vars); err != nil {
		return 0, err
	}

	page, err := RunQuery[branchPage](ctx, q, queries.PullRequestForBranch, vars)
	if err != nil {
		return 0, err
	}

	for _, pr := range page.Repository.PullRequests.Nodes {
		if headOwner == "" {
			return pr.Number, nil
		}
		if pr.HeadRepository != nil && strings.EqualFold(pr.HeadRepository.Owner.Login, headOwner) {
			return pr.Number, nil
		}
	}
	return 0, errors.Wrapf(vkerrors.ErrNoPRForBranch, "branch %q", branch)
}
