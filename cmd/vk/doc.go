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

// Package main implements the vk command-line interface. vk shows the
// unresolved review threads of a GitHub pull request, prints issues, and
// resolves review threads.
//
// Usage:
//
//	vk pr [reference] [files...]
//	vk issue <reference>
//	vk resolve <reference> [-m message]
//
// A reference is a github.com URL, owner/repo#<n>, or a bare number resolved
// against --repo, the repository configuration, FETCH_HEAD or the origin
// remote. Omitting the pull request reference looks up the pull request for
// the current branch.
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	vk pr https://github.com/golang/go/pull/12345
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication, not found or rate limit error
//   - 3: Network error
package main
