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
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// collapsedMarker prefixes the summary line that replaces a <details> block.
const collapsedMarker = "▶ "

// CollapseDetails replaces every top-level <details> block in a comment body
// with its summary line. Blocks without a summary are dropped. Other markup
// is reduced to its text.
func CollapseDetails(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	if !strings.Contains(body, "<") {
		return body
	}
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return body
	}
	var out strings.Builder
	collapseNode(doc, &out)
	return out.String()
}

func collapseNode(n *html.Node, out *strings.Builder) {
	switch {
	case n.Type == html.ElementNode && n.DataAtom == atom.Details:
		if summary, ok := summaryText(n); ok {
			out.WriteString(collapsedMarker)
			out.WriteString(summary)
			out.WriteByte('\n')
		}
		return
	case n.Type == html.TextNode:
		out.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collapseNode(c, out)
	}
}

func summaryText(details *html.Node) (string, bool) {
	for c := details.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Summary {
			return textContent(c), true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// squeezeBlankLines limits runs of newlines to two.
func squeezeBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}
