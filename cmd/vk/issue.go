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

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/vk/internal/github"
	"github.com/sirseerhq/vk/internal/reference"
)

func newIssueCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "issue <reference>",
		Short: "Show the title and body of an issue",
		Long: `Show the title and body of an issue.

The reference may be an issue URL, owner/repo#<n>, or a bare number.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIssue(cmd.Context(), a, args[0])
		},
	}
}

func runIssue(ctx context.Context, a *app, arg string) error {
	ref, err := reference.ParseIssue(arg, a.defaultRepo(a.checkout()))
	if err != nil {
		return err
	}
	a.warnAnonymous()

	client, err := a.graphQLClient()
	if err != nil {
		return err
	}
	defer client.Close()

	issue, err := github.FetchIssue(ctx, client, ref.Repo, ref.Number)
	if err != nil {
		return errors.Wrap(err, "fetch issue")
	}
	warnLocale(a.logger.Logger)
	return a.printer().Issue(*issue)
}
