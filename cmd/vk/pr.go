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
	"github.com/sirseerhq/vk/internal/output"
	"github.com/sirseerhq/vk/internal/printer"
	"github.com/sirseerhq/vk/internal/reference"
)

func newPRCommand(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "pr [reference] [files...]",
		Short: "Show unresolved review threads of a pull request",
		Long: `Show the unresolved review threads of a pull request, followed by the latest
review from each reviewer.

The reference may be a pull request URL (optionally with a #discussion_r<id>
fragment selecting one thread), owner/repo#<n>, or a bare number. Without a
reference, or with only a #discussion_r<id> fragment, the pull request is
looked up from the current git branch. Further arguments restrict the output
to threads on those files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPR(cmd.Context(), a, args, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit threads and reviews as NDJSON")

	return cmd
}

// prRecord is one line of pr --json output.
type prRecord struct {
	Kind   string                    `json:"kind"`
	Thread *github.ReviewThread      `json:"thread,omitempty"`
	Review *github.PullRequestReview `json:"review,omitempty"`
}

func runPR(ctx context.Context, a *app, args []string, jsonOutput bool) error {
	client, err := a.graphQLClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ref, files, err := resolvePRReference(ctx, a, client, args)
	if err != nil {
		return err
	}
	a.warnAnonymous()
	a.logger.Debug("fetching review threads", "repo", ref.Repo.String(), "number", ref.Number)

	threads, err := github.FetchReviewThreads(ctx, client, ref.Repo, ref.Number)
	if err != nil {
		return errors.Wrap(err, "fetch review threads")
	}
	if ref.CommentID != 0 {
		threads = github.FilterThreadsByComment(threads, ref.CommentID)
	} else {
		threads = github.FilterThreadsByFiles(threads, files)
	}

	var reviews []github.PullRequestReview
	if len(threads) > 0 || jsonOutput {
		all, err := github.FetchReviews(ctx, client, ref.Repo, ref.Number)
		if err != nil {
			return errors.Wrap(err, "fetch reviews")
		}
		reviews = github.LatestReviews(all)
	}

	if jsonOutput {
		return writePRJSON(a, threads, reviews)
	}

	warnLocale(a.logger.Logger)
	p := a.printer()
	if err := p.Banner(printer.StartBanner); err != nil {
		return err
	}
	if len(threads) == 0 {
		if _, err := fmt.Fprintln(a.out, emptyThreadsMessage(files, ref.CommentID)); err != nil {
			return err
		}
		return p.Banner(printer.EndBanner)
	}

	if err := p.Summary(printer.SummarizeFiles(threads)); err != nil {
		return err
	}
	for _, r := range reviews {
		if err := p.Review(r); err != nil {
			return err
		}
	}
	if err := p.Banner(printer.CommentsBanner); err != nil {
		return err
	}
	for _, t := range threads {
		if err := p.Thread(t); err != nil {
			return err
		}
	}
	return p.Banner(printer.EndBanner)
}

func writePRJSON(a *app, threads []github.ReviewThread, reviews []github.PullRequestReview) error {
	w := output.NewWriter(a.out)
	defer w.Close()
	for i := range threads {
		if err := w.Write(prRecord{Kind: "thread", Thread: &threads[i]}); err != nil {
			return err
		}
	}
	for i := range reviews {
		if err := w.Write(prRecord{Kind: "review", Review: &reviews[i]}); err != nil {
			return err
		}
	}
	return nil
}

func emptyThreadsMessage(files []string, commentID int64) string {
	switch {
	case commentID != 0:
		return "No unresolved comments in the requested discussion."
	case len(files) == 0:
		return "No unresolved comments."
	default:
		return "No unresolved comments for the specified files."
	}
}

// resolvePRReference turns the positional arguments into a pull request
// reference and a file filter, detecting the pull request from the current
// branch when no explicit reference is given.
func resolvePRReference(ctx context.Context, a *app, q github.Queryer, args []string) (reference.Reference, []string, error) {
	checkout := a.checkout()
	defaultRepo := a.defaultRepo(checkout)

	if len(args) > 0 && !reference.IsFragmentOnly(args[0]) {
		ref, err := reference.ParsePR(args[0], defaultRepo)
		return ref, args[1:], err
	}

	var (
		commentID int64
		files     []string
	)
	if len(args) > 0 {
		id, err := reference.ParseFragment(args[0])
		if err != nil {
			return reference.Reference{}, nil, err
		}
		commentID = id
		files = args[1:]
	}

	ref, err := detectPR(ctx, q, checkout, defaultRepo)
	if err != nil {
		return reference.Reference{}, nil, err
	}
	ref.CommentID = commentID
	return ref, files, nil
}

// detectPR finds the pull request whose head is the current branch. When
// origin is known, only pull requests from origin's owner qualify so that a
// fork's branch is not confused with an upstream one of the same name.
func detectPR(ctx context.Context, q github.Queryer, checkout *reference.Checkout, defaultRepo string) (reference.Reference, error) {
	if checkout == nil {
		return reference.Reference{}, errors.Wrap(vkerrors.ErrInvalidReference,
			"no pull request reference given and not inside a git repository")
	}
	branch, ok := checkout.CurrentBranch()
	if !ok {
		return reference.Reference{}, errors.Wrap(vkerrors.ErrInvalidReference,
			"no pull request reference given and HEAD is detached")
	}
	repo, ok := reference.ParseRepo(defaultRepo)
	if !ok {
		return reference.Reference{}, vkerrors.ErrRepoNotFound
	}
	var headOwner string
	if origin, ok := checkout.Origin(); ok {
		headOwner = origin.Owner
	}

	number, err := github.FetchPRForBranch(ctx, q, repo, branch, headOwner)
	if err != nil {
		return reference.Reference{}, err
	}
	return reference.Reference{Repo: repo, Number: number}, nil
}
