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

// Package queries holds the GraphQL documents vk sends to GitHub and checks
// request variables against each document's declarations before a request
// is made.
package queries

// ReviewThreads lists the review threads of a pull request together with the
// first page of each thread's comments.
const ReviewThreads = `
query ReviewThreads($owner: String!, $name: String!, $number: Int!, $cursor: String) {
  repository(owner: $owner, name: $name) {
    pullRequest(number: $number) {
      reviewThreads(first: 100, after: $cursor) {
        nodes {
          id
          isResolved
          isOutdated
          comments(first: 100) {
            nodes {
              body
              diffHunk
              originalPosition
              position
              path
              url
              author { login }
            }
            pageInfo { hasNextPage endCursor }
          }
        }
        pageInfo { hasNextPage endCursor }
      }
    }
  }
}
`

// ThreadComments pages through the comments of a single review thread.
const ThreadComments = `
query ThreadComments($id: ID!, $cursor: String) {
  node(id: $id) {
    ... on PullRequestReviewThread {
      comments(first: 100, after: $cursor) {
        nodes {
          body
          diffHunk
          originalPosition
          position
          path
          url
          author { login }
        }
        pageInfo { hasNextPage endCursor }
      }
    }
  }
}
`

// Reviews lists the submitted reviews of a pull request.
const Reviews = `
query Reviews($owner: String!, $name: String!, $number: Int!, $cursor: String) {
  repository(owner: $owner, name: $name) {
    pullRequest(number: $number) {
      reviews(first: 100, after: $cursor) {
        nodes {
          body
          state
          submittedAt
          author { login }
        }
        pageInfo { hasNextPage endCursor }
      }
    }
  }
}
`

// Issue fetches the title and body of an issue.
const Issue = `
query Issue($owner: String!, $name: String!, $number: Int!) {
  repository(owner: $owner, name: $name) {
    issue(number: $number) {
      title
      body
    }
  }
}
`

// PullRequestForBranch finds open or merged pull requests by head branch.
// Up to ten are returned so forks using the same branch name can be told
// apart by head repository owner.
const PullRequestForBranch = `
query PullRequestForBranch($owner: String!, $name: String!, $headRef: String!) {
  repository(owner: $owner, name: $name) {
    pullRequests(headRefName: $headRef, first: 10, states: [OPEN, MERGED]) {
      nodes {
        number
        headRepository {
          owner { login }
        }
      }
    }
  }
}
`

// ReviewComments pages through the review comments of a pull request, used to
// map a comment's database ID to its thread.
const ReviewComments = `
query ReviewComments($owner: String!, $name: String!, $number: Int!, $cursor: String) {
  repository(owner: $owner, name: $name) {
    pullRequest(number: $number) {
      reviewComments(first: 100, after: $cursor) {
        pageInfo { endCursor hasNextPage }
        nodes { databaseId pullRequestReviewThread { id } }
      }
    }
  }
}
`

// ResolveThread marks a review thread as resolved.
const ResolveThread = `
mutation ResolveThread($id: ID!) {
  resolveReviewThread(input: {threadId: $id}) { clientMutationId }
}
`

// All lists every registered document.
var All = map[string]string{
	"ReviewThreads":        ReviewThreads,
	"ThreadComments":       ThreadComments,
	"Reviews":              Reviews,
	"Issue":                Issue,
	"PullRequestForBranch": PullRequestForBranch,
	"ReviewComments":       ReviewComments,
	"ResolveThread":        ResolveThread,
}
