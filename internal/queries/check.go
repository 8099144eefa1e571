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

package queries

import (
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

var parsed sync.Map // document text -> *ast.QueryDocument

// Parse parses a GraphQL document, caching the result.
func Parse(doc string) (*ast.QueryDocument, error) {
	if cached, ok := parsed.Load(doc); ok {
		return cached.(*ast.QueryDocument), nil
	}
	qd, err := parser.ParseQuery(&ast.Source{Name: "query", Input: doc})
	if err != nil {
		return nil, errors.Wrap(err, "parse GraphQL document")
	}
	if len(qd.Operations) != 1 {
		return nil, errors.Newf("expected exactly one operation, found %d", len(qd.Operations))
	}
	parsed.Store(doc, qd)
	return qd, nil
}

// Check verifies that every non-null variable the document declares without
// a default value is present and non-nil in vars, and that vars carries no
// undeclared names.
func Check(doc string, vars map[string]any) error {
	qd, err := Parse(doc)
	if err != nil {
		return err
	}
	op := qd.Operations[0]

	declared := make(map[string]struct{}, len(op.VariableDefinitions))
	var missing []string
	for _, def := range op.VariableDefinitions {
		declared[def.Variable] = struct{}{}
		if !def.Type.NonNull || def.DefaultValue != nil {
			continue
		}
		if v, ok := vars[def.Variable]; !ok || v == nil {
			missing = append(missing, "$"+def.Variable)
		}
	}

	var unknown []string
	for name := range vars {
		if _, ok := declared[name]; !ok {
			unknown = append(unknown, "$"+name)
		}
	}

	switch {
	case len(missing) > 0:
		return errors.Newf("operation %s: missing required variables %s", op.Name, strings.Join(missing, ", "))
	case len(unknown) > 0:
		sort.Strings(unknown)
		return errors.Newf("operation %s: undeclared variables %s", op.Name, strings.Join(unknown, ", "))
	}
	return nil
}
