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

package main

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	vkerrors "github.com/sirseerhq/vk/internal/errors"
	"github.com/sirseerhq/vk/internal/github"
)

func newResolveCommand(a *app) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "resolve <reference>",
		Short: "Resolve the review thread containing a comment",
		Long: `Resolve the review thread containing a review comment, optionally replying
to the comment first.

The reference must identify the comment: a pull request URL ending in
#discussion_r<id>, or a bare #discussion_r<id> fragment for the pull request
of the current branch. A token is required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), a, args[0], message)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Reply posted to the comment before resolving")

	return cmd
}

func runResolve(ctx context.Context, a *app, arg, message string) error {
	if a.token == "" {
		return errors.Wrap(vkerrors.ErrInvalidToken, "resolving a thread requires a GitHub token")
	}

	client, err := a.graphQLClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ref, _, err := resolvePRReference(ctx, a, client, []string{arg})
	if err != nil {
		return err
	}
	if ref.CommentID == 0 {
		return errors.Wrapf(vkerrors.ErrInvalidReference, "%q does not name a review comment", arg)
	}
	commentRef := github.CommentRef{Repo: ref.Repo, PullNumber: ref.Number, CommentID: ref.CommentID}

	if message != "" {
		rest, err := github.NewRestClient(a.token, a.cfg.GitHub.APIEndpoint, a.retryConfig(), a.logger.Logger)
		if err != nil {
			return err
		}
		if err := rest.PostReply(ctx, commentRef, message); err != nil {
			return err
		}
	}

	threadID, err := github.GetThreadID(ctx, github.QueryerFetcher{Q: client}, commentRef)
	if err != nil {
		return errors.Wrap(err, "find review thread")
	}
	if err := github.ResolveThread(ctx, client, threadID); err != nil {
		return errors.Wrap(err, "resolve review thread")
	}

	_, err = fmt.Fprintf(a.out, "Resolved thread %s for comment %d on %s#%d\n",
		threadID, ref.CommentID, ref.Repo, ref.Number)
	return err
}
