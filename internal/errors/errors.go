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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "github.com/cockroachdb/errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrRepoNotFound indicates the repository could not be determined from
	// the reference, configuration or local git state.
	// Maps to exit code 2.
	ErrRepoNotFound = errors.New("unable to determine repository")

	// ErrInvalidReference indicates a malformed pull request or issue reference.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrWrongResourceType indicates a URL pointing at the wrong kind of
	// resource, such as an issue URL passed to the pr command.
	ErrWrongResourceType = errors.New("wrong resource type")

	// ErrCommentNotFound indicates the review comment could not be located
	// in the pull request.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrResourceNotFound indicates the API returned no object for an
	// otherwise valid reference.
	// Maps to exit code 2.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrNoPRForBranch indicates no open or merged pull request uses the
	// branch as its head.
	ErrNoPRForBranch = errors.New("no pull request for branch")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")
)
