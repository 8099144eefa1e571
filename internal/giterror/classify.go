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

package giterror

// Kind is the user-facing category of a failure.
type Kind int

const (
	// KindOther is any failure without a more specific category.
	KindOther Kind = iota
	KindAuth
	KindNotFound
	KindRateLimit
	KindNetwork
)

// Classify places err in a single category. Rate limits are checked before
// auth because GitHub reports secondary rate limits with status 403.
func Classify(inspector Inspector, err error) Kind {
	switch {
	case err == nil:
		return KindOther
	case inspector.IsRateLimitError(err):
		return KindRateLimit
	case inspector.IsAuthError(err):
		return KindAuth
	case inspector.IsNotFoundError(err):
		return KindNotFound
	case inspector.IsNetworkError(err):
		return KindNetwork
	default:
		return KindOther
	}
}

// Hint returns a short suggestion printed under the error message, or ""
// when there is nothing useful to add.
func (k Kind) Hint() string {
	switch k {
	case KindAuth:
		return "check that GITHUB_TOKEN (or --token) holds a valid token with repo scope"
	case KindNotFound:
		return "check the reference; private repositories need an authenticated token"
	case KindRateLimit:
		return "GitHub rate limit reached; wait for the limit to reset and try again"
	case KindNetwork:
		return "could not reach GitHub; check the network or --http-timeout"
	default:
		return ""
	}
}
