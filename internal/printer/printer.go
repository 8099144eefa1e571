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

// Package printer renders review threads, reviews and issues for the
// terminal.
package printer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/sirseerhq/vk/internal/github"
)

// Banners framing pull request output.
const (
	StartBanner    = "========== code review =========="
	CommentsBanner = "========== review comments =========="
	EndBanner      = "========== end of code review =========="
)

const (
	commentIcon = "💬"
	reviewIcon  = "📝"
	unknownUser = "(unknown)"
	separator   = "---"
)

// Printer writes formatted output. Styling is dropped when colour is off.
type Printer struct {
	out io.Writer

	author  lipgloss.Style
	added   lipgloss.Style
	removed lipgloss.Style
	faint   lipgloss.Style
	title   lipgloss.Style
}

// New creates a Printer writing to out.
func New(out io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(out)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &Printer{
		out:     out,
		author:  base.Bold(true),
		added:   base.Foreground(lipgloss.Color("2")),
		removed: base.Foreground(lipgloss.Color("1")),
		faint:   base.Foreground(lipgloss.Color("8")),
		title:   base.Bold(true).Foreground(lipgloss.Color("6")),
	}
}

// Banner writes a banner line.
func (p *Printer) Banner(text string) error {
	_, err := fmt.Fprintln(p.out, text)
	return err
}

// FileCount is the number of review comments on one file.
type FileCount struct {
	Path  string
	Count int
}

// SummarizeFiles counts comments per path, most discussed first. Ties are
// ordered by path.
func SummarizeFiles(threads []github.ReviewThread) []FileCount {
	counts := make(map[string]int)
	for _, t := range threads {
		for _, c := range t.Comments.Nodes {
			counts[c.Path]++
		}
	}
	summary := make([]FileCount, 0, len(counts))
	for path, n := range counts {
		summary = append(summary, FileCount{Path: path, Count: n})
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Count != summary[j].Count {
			return summary[i].Count > summary[j].Count
		}
		return summary[i].Path < summary[j].Path
	})
	return summary
}

// Summary writes the per-file comment counts. Nothing is written for an
// empty summary.
func (p *Printer) Summary(summary []FileCount) error {
	if len(summary) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString("Summary:\n")
	for _, fc := range summary {
		label := "comments"
		if fc.Count == 1 {
			label = "comment"
		}
		fmt.Fprintf(&b, "%s: %d %s\n", fc.Path, fc.Count, label)
	}
	b.WriteString("\n")
	_, err := io.WriteString(p.out, b.String())
	return err
}

// Thread writes a review thread: the diff hunk of the first comment, then
// every comment followed by its URL.
func (p *Printer) Thread(thread github.ReviewThread) error {
	var b strings.Builder
	for i, c := range thread.Comments.Nodes {
		if i == 0 {
			b.WriteString(p.formatDiff(c))
		}
		p.writeBody(&b, commentIcon, c.Author, " wrote:", c.Body)
		b.WriteString(c.URL + "\n" + separator + "\n")
	}
	_, err := io.WriteString(p.out, b.String())
	return err
}

// Review writes a review summary with its state.
func (p *Printer) Review(review github.PullRequestReview) error {
	var b strings.Builder
	p.writeBody(&b, reviewIcon, review.Author, " "+review.State+":", review.Body)
	_, err := io.WriteString(p.out, b.String())
	return err
}

// Issue writes an issue title and body.
func (p *Printer) Issue(issue github.Issue) error {
	body := squeezeBlankLines(CollapseDetails(issue.Body))
	_, err := fmt.Fprintf(p.out, "%s\n\n%s\n", p.title.Render(issue.Title), strings.TrimRight(body, "\n"))
	return err
}

func (p *Printer) writeBody(b *strings.Builder, icon string, author *github.User, suffix, body string) {
	login := unknownUser
	if author != nil && author.Login != "" {
		login = author.Login
	}
	fmt.Fprintf(b, "%s  %s%s\n", icon, p.author.Render(login), suffix)
	body = squeezeBlankLines(CollapseDetails(body))
	b.WriteString(strings.TrimRight(body, "\n"))
	b.WriteString("\n\n")
}

// FormatDiff renders the hunk a comment is attached to with a line number
// gutter, limited to the lines around the comment.
func FormatDiff(comment github.ReviewComment) string {
	return New(io.Discard, false).formatDiff(comment)
}

func (p *Printer) formatDiff(comment github.ReviewComment) string {
	var b strings.Builder
	for _, l := range hunkWindow(ParseHunk(comment.DiffHunk), comment) {
		text := l.Text
		switch {
		case strings.HasPrefix(text, "+"):
			text = p.added.Render(text)
		case strings.HasPrefix(text, "-"):
			text = p.removed.Render(text)
		}
		b.WriteString(p.faint.Render(gutter(l) + "|"))
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String()
}
