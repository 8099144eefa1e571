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
	"math"

	"github.com/cockroachdb/errors"
	"github.com/shurcooL/graphql"
	vkerrors "github.com/sirseerhq/vk/internal/errors"
	"github.com/sirseerhq/vk/internal/queries"
)

// graphQLInt converts a pull request or issue number to a GraphQL Int, which
// is a signed 32-bit integer.
func graphQLInt(number int) (graphql.Int, error) {
	if number < 0 || number > math.MaxInt32 {
		return 0, errors.Wrapf(vkerrors.ErrInvalidReference,
			"number %d exceeds GraphQL Int range", number)
	}
	return graphql.Int(number), nil
}

// repoVariables builds the owner/name/number variables shared by the
// repository-scoped documents and checks them against doc.
func repoVariables(doc string, repo RepoInfo, number int) (map[string]any, error) {
	n, err := graphQLInt(number)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"owner":  graphql.String(repo.Owner),
		"name":   graphql.String(repo.Name),
		"number": n,
	}
	if err := queries.Check(doc, vars); err != nil {
		return nil, err
	}
	return vars, nil
}
