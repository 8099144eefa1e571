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

package printer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sirseerhq/vk/internal/github"
)

// GutterWidth is the width of the line number column in formatted hunks.
const GutterWidth = 5

const (
	maxHunkLines  = 20
	contextBefore = 5
	contextAfter  = 5
)

var hunkHeaderRE = regexp.MustCompile(`@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// DiffLine is one line of a hunk with its old and new line numbers. A zero
// number means the line does not exist on that side.
type DiffLine struct {
	Old  int
	New  int
	Text string
}

// ParseHunk splits a diff hunk into numbered lines. When the first line is
// not a hunk header every line is kept unnumbered.
func ParseHunk(hunk string) []DiffLine {
	if hunk == "" {
		return nil
	}
	raw := strings.Split(strings.TrimRight(hunk, "\n"), "\n")
	for i, l := range raw {
		raw[i] = strings.TrimSuffix(l, "\r")
	}

	m := hunkHeaderRE.FindStringSubmatch(raw[0])
	if m == nil {
		return numberLines(raw, 0, 0)
	}
	oldStart, _ := strconv.Atoi(m[1])
	newStart, _ := strconv.Atoi(m[3])
	return numberLines(raw[1:], oldStart, newStart)
}

func numberLines(lines []string, oldLine, newLine int) []DiffLine {
	next := func(n int) int {
		if n == 0 {
			return 0
		}
		return n + 1
	}
	parsed := make([]DiffLine, 0, len(lines))
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "+"):
			parsed = append(parsed, DiffLine{New: newLine, Text: l})
			newLine = next(newLine)
		case strings.HasPrefix(l, "-"):
			parsed = append(parsed, DiffLine{Old: oldLine, Text: l})
			oldLine = next(oldLine)
		default:
			parsed = append(parsed, DiffLine{Old: oldLine, New: newLine, Text: " " + strings.TrimPrefix(l, " ")})
			oldLine = next(oldLine)
			newLine = next(newLine)
		}
	}
	return parsed
}

// hunkWindow picks the lines shown for a comment: a few lines around the
// commented line when it can be located, otherwise the head of the hunk.
func hunkWindow(lines []DiffLine, comment github.ReviewComment) []DiffLine {
	target := -1
	for i, l := range lines {
		if matches(comment.OriginalPosition, l.Old) || matches(comment.Position, l.New) {
			target = i
			break
		}
	}
	if target < 0 {
		return lines[:min(len(lines), maxHunkLines)]
	}
	return lines[max(target-contextBefore, 0):min(len(lines), target+contextAfter+1)]
}

func matches(position *int, line int) bool {
	return position != nil && line != 0 && *position == line
}

// gutter renders a line number right-aligned in GutterWidth columns,
// keeping the last digits of numbers that do not fit.
func gutter(l DiffLine) string {
	n := l.New
	if n == 0 {
		n = l.Old
	}
	if n == 0 {
		return strings.Repeat(" ", GutterWidth)
	}
	s := strconv.Itoa(n)
	if len(s) > GutterWidth {
		s = s[len(s)-GutterWidth:]
	}
	return strings.Repeat(" ", GutterWidth-len(s)) + s
}
