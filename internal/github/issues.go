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
	vkerrors "github.com/sirseerhq/vk/internal/errors"
	"github.com/sirseerhq/vk/internal/queries"
)

type issuePage struct {
	Repository struct {
		Issue *Issue `json:"issue"`
	} `json:"repository"`
}

// FetchIssue returns the title and body of an issue.
func FetchIssue(ctx context.Context, q Queryer, repo RepoInfo, number int) (*Issue, error) {
	vars, err := repoVariables(queries.Issue, repo, number)
	if err != nil {
		return nil, err
	}
	page, err := FetchPage[issuePage](ctx, q, queries.Issue, nil, vars)
	if err != nil {
		return nil, err
	}
	if page.Repository.Issue == nil {
		return nil, errors.Wrapf(vkerrors.ErrResourceNotFound, "issue %s#%d", repo, number)
	}
	return page.Repository.Issue, nil
}
