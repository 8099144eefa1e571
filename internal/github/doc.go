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

// Package github talks to GitHub's GraphQL API on behalf of vk. It issues
// authenticated requests, classifies failures, retries transient ones with
// exponential backoff and walks cursor-based pagination.
//
// The package includes:
//   - Client, a Queryer backed by HTTP with an optional request transcript
//   - RunQuery, FetchPage, PaginateAll and Paginate, generic helpers written
//     against Queryer
//   - Fetchers for review threads, reviews, issues and branch pull requests
//   - ResolveThread and RestClient for the resolve command
//   - MockQueryer for testing
//
// Basic usage:
//
//	client, err := github.NewClient(token, github.WithTranscript("vk.ndjson"))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	threads, err := github.FetchReviewThreads(ctx, client, repo, 42)
//	if err != nil {
//	    // Handle error
//	}
package github
