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

package reference

import (
	"bufio"

	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/sirseerhq/vk/internal/github"
)

// Checkout is the local git repository the command runs in.
type Checkout struct {
	repo *git.Repository
}

// OpenCheckout opens the repository containing dir, searching parent
// directories for .git.
func OpenCheckout(dir string) (*Checkout, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open git repository at %s", dir)
	}
	return &Checkout{repo: repo}, nil
}

// CurrentBranch returns the branch HEAD points at. It reports false for a
// detached HEAD. Unborn branches are still reported.
func (c *Checkout) CurrentBranch() (string, bool) {
	head, err := c.repo.Storer.Reference(plumbing.HEAD)
	if err != nil || head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", false
	}
	return head.Target().Short(), true
}

// Origin returns the GitHub repository of the origin remote.
func (c *Checkout) Origin() (github.RepoInfo, bool) {
	remote, err := c.repo.Remote(git.DefaultRemoteName)
	if err != nil {
		return github.RepoInfo{}, false
	}
	for _, u := range remote.Config().URLs {
		if repo, ok := ParseRepo(u); ok {
			return repo, true
		}
	}
	return github.RepoInfo{}, false
}

// FetchHead returns the first GitHub repository named in FETCH_HEAD, which
// git writes after a fetch.
func (c *Checkout) FetchHead() (github.RepoInfo, bool) {
	storage, ok := c.repo.Storer.(*filesystem.Storage)
	if !ok {
		return github.RepoInfo{}, false
	}
	f, err := storage.Filesystem().Open("FETCH_HEAD")
	if err != nil {
		return github.RepoInfo{}, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := githubRepoRE.FindStringSubmatch(scanner.Text()); m != nil {
			if repo, ok := repoInfo(m[1], m[2]); ok {
				return repo, true
			}
		}
	}
	return github.RepoInfo{}, false
}

// DefaultRepo picks the repository bare numbers refer to: explicit wins,
// then FETCH_HEAD, then origin. It returns "" when nothing is known.
func DefaultRepo(explicit string, checkout *Checkout) string {
	if explicit != "" {
		return explicit
	}
	if checkout == nil {
		return ""
	}
	if repo, ok := checkout.FetchHead(); ok {
		return repo.String()
	}
	if repo, ok := checkout.Origin(); ok {
		return repo.String()
	}
	return ""
}
