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
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	vkerrors "github.com/sirseerhq/vk/internal/errors"
	"github.com/sirseerhq/vk/internal/github"
)

// DiscussionFragment prefixes review comment anchors in pull request URLs.
const DiscussionFragment = "#discussion_r"

// Kind selects which URL segments a reference may use.
type Kind int

const (
	// PullRequest accepts /pull/<n> and /pulls/<n>.
	PullRequest Kind = iota
	// Issue accepts /issues/<n> and /issue/<n>.
	Issue
)

func (k Kind) segments() []string {
	if k == Issue {
		return []string{"issues", "issue"}
	}
	return []string{"pull", "pulls"}
}

func (k Kind) String() string {
	if k == Issue {
		return "issue"
	}
	return "pull request"
}

// Reference identifies a pull request or issue, optionally pointing at a
// single review comment.
type Reference struct {
	Repo   github.RepoInfo
	Number int
	// CommentID is the discussion comment id, zero when absent.
	CommentID int64
}

var githubRepoRE = regexp.MustCompile(`github\.com[/:]([^/\s]+)/([^/\s]+)`)

// ParseRepo reads owner/name from a GitHub HTTPS or SSH URL, or from the
// short owner/name form. A trailing .git is dropped.
func ParseRepo(s string) (github.RepoInfo, bool) {
	s = strings.TrimSpace(s)
	if m := githubRepoRE.FindStringSubmatch(s); m != nil {
		return repoInfo(m[1], m[2])
	}
	owner, name, ok := strings.Cut(s, "/")
	if !ok || strings.ContainsAny(owner, ":@") || strings.Contains(name, "/") {
		return github.RepoInfo{}, false
	}
	return repoInfo(owner, name)
}

func repoInfo(owner, name string) (github.RepoInfo, bool) {
	name = strings.TrimSuffix(name, ".git")
	if owner == "" || name == "" {
		return github.RepoInfo{}, false
	}
	return github.RepoInfo{Owner: owner, Name: name}, true
}

// Parse resolves input as a reference of the given kind. Accepted forms are a
// github.com URL, owner/repo#<n>, and a bare number resolved against
// defaultRepo. Only pull request references may carry a #discussion_r<id>
// fragment.
func Parse(input string, kind Kind, defaultRepo string) (Reference, error) {
	input = strings.TrimSpace(input)
	base, commentID, err := splitDiscussion(input)
	if err != nil {
		return Reference{}, err
	}
	if commentID != 0 && kind != PullRequest {
		return Reference{}, errors.Wrapf(vkerrors.ErrInvalidReference,
			"discussion fragment on %s reference %q", kind, input)
	}

	ref, handled, err := parseURL(base, kind)
	if !handled {
		ref, err = parseShort(base, defaultRepo)
	}
	if err != nil {
		return Reference{}, err
	}
	ref.CommentID = commentID
	return ref, nil
}

// ParsePR is Parse for pull request references.
func ParsePR(input, defaultRepo string) (Reference, error) {
	return Parse(input, PullRequest, defaultRepo)
}

// ParseIssue is Parse for issue references.
func ParseIssue(input, defaultRepo string) (Reference, error) {
	return Parse(input, Issue, defaultRepo)
}

// IsFragmentOnly reports whether input is a bare #discussion_r<id> anchor,
// which needs the pull request detected from the current branch.
func IsFragmentOnly(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), DiscussionFragment)
}

// ParseFragment extracts the comment id from a bare #discussion_r<id> anchor.
func ParseFragment(input string) (int64, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(input), DiscussionFragment)
	if !ok {
		return 0, errors.Wrapf(vkerrors.ErrInvalidReference, "%q is not a discussion anchor", input)
	}
	return parseCommentID(rest, input)
}

func splitDiscussion(input string) (string, int64, error) {
	base, id, found := strings.Cut(input, DiscussionFragment)
	if !found {
		return input, 0, nil
	}
	commentID, err := parseCommentID(id, input)
	if err != nil {
		return "", 0, err
	}
	return base, commentID, nil
}

func parseCommentID(id, input string) (int64, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 || n > math.MaxInt64 {
		return 0, errors.Wrapf(vkerrors.ErrInvalidReference, "bad discussion id in %q", input)
	}
	return int64(n), nil
}

// parseURL handles github.com URLs. handled is false when input is not such
// a URL and should be tried as a short reference.
func parseURL(input string, kind Kind) (ref Reference, handled bool, err error) {
	u, err := url.Parse(input)
	if err != nil || u.Scheme == "" || !strings.EqualFold(u.Host, "github.com") {
		return Reference{}, false, nil
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 4 {
		return Reference{}, true, errors.Wrapf(vkerrors.ErrInvalidReference, "%q", input)
	}
	segment := parts[2]
	allowed := kind.segments()
	if segment != allowed[0] && segment != allowed[1] {
		return Reference{}, true, errors.Wrapf(vkerrors.ErrWrongResourceType,
			"expected /%s/ or /%s/ in URL, found /%s/", allowed[0], allowed[1], segment)
	}
	repo, ok := repoInfo(parts[0], parts[1])
	if !ok {
		return Reference{}, true, errors.Wrapf(vkerrors.ErrInvalidReference, "%q", input)
	}
	number, err := parseNumber(parts[3], input)
	if err != nil {
		return Reference{}, true, err
	}
	return Reference{Repo: repo, Number: number}, true, nil
}

func parseShort(input, defaultRepo string) (Reference, error) {
	if repoPart, numberPart, found := strings.Cut(input, "#"); found {
		repo, ok := ParseRepo(repoPart)
		if !ok {
			return Reference{}, errors.Wrapf(vkerrors.ErrInvalidReference, "%q", input)
		}
		number, err := parseNumber(numberPart, input)
		if err != nil {
			return Reference{}, err
		}
		return Reference{Repo: repo, Number: number}, nil
	}

	number, err := parseNumber(input, input)
	if err != nil {
		return Reference{}, err
	}
	repo, ok := ParseRepo(defaultRepo)
	if !ok {
		return Reference{}, errors.Wrapf(vkerrors.ErrRepoNotFound, "no repository for #%d", number)
	}
	return Reference{Repo: repo, Number: number}, nil
}

func parseNumber(s, input string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 || n > math.MaxInt {
		return 0, errors.Wrapf(vkerrors.ErrInvalidReference, "%q", input)
	}
	return int(n), nil
}
