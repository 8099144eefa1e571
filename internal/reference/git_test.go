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
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirseerhq/vk/internal/github"
)

func initRepo(t *testing.T, origin string) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	if origin != "" {
		_, err = repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{origin}})
		require.NoError(t, err)
	}
	return dir, repo
}

func TestCheckout_CurrentBranch(t *testing.T) {
	dir, repo := initRepo(t, "")
	require.NoError(t, repo.Storer.SetReference(
		plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("feature/thread-fix"))))

	checkout, err := OpenCheckout(dir)
	require.NoError(t, err)
	branch, ok := checkout.CurrentBranch()
	require.True(t, ok)
	assert.Equal(t, "feature/thread-fix", branch)
}

func TestCheckout_DetachedHead(t *testing.T) {
	dir, repo := initRepo(t, "")
	require.NoError(t, repo.Storer.SetReference(
		plumbing.NewHashReference(plumbing.HEAD, plumbing.NewHash("0123456789abcdef0123456789abcdef01234567"))))

	checkout, err := OpenCheckout(dir)
	require.NoError(t, err)
	_, ok := checkout.CurrentBranch()
	assert.False(t, ok)
}

func TestCheckout_FromSubdirectory(t *testing.T) {
	dir, _ := initRepo(t, "git@github.com:octocat/hello-world.git")
	sub := filepath.Join(dir, "src", "pkg")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	checkout, err := OpenCheckout(sub)
	require.NoError(t, err)
	repo, ok := checkout.Origin()
	require.True(t, ok)
	assert.Equal(t, github.RepoInfo{Owner: "octocat", Name: "hello-world"}, repo)
}

func TestCheckout_NotARepository(t *testing.T) {
	_, err := OpenCheckout(t.TempDir())
	assert.Error(t, err)
}

func TestCheckout_OriginMissingOrForeign(t *testing.T) {
	dir, _ := initRepo(t, "")
	checkout, err := OpenCheckout(dir)
	require.NoError(t, err)
	_, ok := checkout.Origin()
	assert.False(t, ok)

	dir, _ = initRepo(t, "https://example.com/repo")
	checkout, err = OpenCheckout(dir)
	require.NoError(t, err)
	_, ok = checkout.Origin()
	assert.False(t, ok)
}

func TestCheckout_FetchHead(t *testing.T) {
	dir, _ := initRepo(t, "https://github.com/fork/hello-world.git")
	fetchHead := "0123456789abcdef0123456789abcdef01234567\t\tbranch 'main' of https://github.com/octocat/hello-world\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "FETCH_HEAD"), []byte(fetchHead), 0o644))

	checkout, err := OpenCheckout(dir)
	require.NoError(t, err)
	repo, ok := checkout.FetchHead()
	require.True(t, ok)
	assert.Equal(t, github.RepoInfo{Owner: "octocat", Name: "hello-world"}, repo)

	assert.Equal(t, "octocat/hello-world", DefaultRepo("", checkout))
	assert.Equal(t, "me/mine", DefaultRepo("me/mine", checkout))
}

func TestDefaultRepo_FallsBackToOrigin(t *testing.T) {
	dir, _ := initRepo(t, "https://github.com/fork/hello-world.git")
	checkout, err := OpenCheckout(dir)
	require.NoError(t, err)

	assert.Equal(t, "fork/hello-world", DefaultRepo("", checkout))
	assert.Equal(t, "", DefaultRepo("", nil))
}
