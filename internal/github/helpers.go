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

package github

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// bodySnippetLen bounds response bodies quoted in errors and transcripts.
	bodySnippetLen = 500
	// requestSnippetLen bounds redacted request payloads quoted in errors.
	requestSnippetLen = 1024
	// valueSnippetLen bounds decoded values quoted in decode errors.
	valueSnippetLen = 200
	// operationSnippetLen bounds the fallback label of anonymous documents.
	operationSnippetLen = 64
)

const redacted = "<redacted>"

var sensitiveKeys = map[string]struct{}{
	"token":         {},
	"authorization": {},
	"password":      {},
	"secret":        {},
	"access_token":  {},
	"refresh_token": {},
	"api_key":       {},
	"apikey":        {},
	"bearer":        {},
	"auth":          {},
	"credentials":   {},
	"credential":    {},
	"private_key":   {},
}

// snippet returns at most max runes of text, marking truncation with "...".
func snippet(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + "..."
}

// redactSensitive replaces the values of sensitive keys, matched
// case-insensitively, anywhere inside a decoded JSON value.
func redactSensitive(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for k, child := range v {
			if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
				v[k] = redacted
				continue
			}
			v[k] = redactSensitive(child)
		}
		return v
	case []any:
		for i, child := range v {
			v[i] = redactSensitive(child)
		}
		return v
	default:
		return value
	}
}

// redactPayload returns a JSON copy of payload with sensitive values removed.
func redactPayload(payload []byte) (json.RawMessage, error) {
	var generic any
	if err := json.Unmarshal(payload, &generic); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(redactSensitive(generic)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// payloadSnippet renders a redacted, truncated payload for error context.
func payloadSnippet(payload []byte, logger *slog.Logger) string {
	clean, err := redactPayload(payload)
	if err != nil {
		logger.Warn("failed to serialise redacted payload", "error", err)
		return "<failed to serialise payload>"
	}
	return snippet(string(clean), requestSnippetLen)
}

// operationName extracts the name declared after query, mutation or
// subscription. The keyword must be followed by a delimiter so that a field
// such as "queryFoo" is not mistaken for an operation.
func operationName(text string) (string, bool) {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	for _, prefix := range []string{"query", "mutation", "subscription"} {
		rest, ok := strings.CutPrefix(trimmed, prefix)
		if !ok || rest == "" {
			continue
		}
		switch rest[0] {
		case '{', '(', ' ', '\n', '\t', '\r':
		default:
			continue
		}
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		end := strings.IndexFunc(rest, func(r rune) bool {
			return r == '(' || r == '{' || unicode.IsSpace(r)
		})
		if end < 0 {
			end = len(rest)
		}
		if name := rest[:end]; name != "" {
			return name, true
		}
	}
	return "", false
}

// isTransient reports whether a failed response looks like an infrastructure
// hiccup: a server error, a rate limit, or an HTML page from a proxy.
func isTransient(status int, body string) bool {
	return status >= 500 || status == 429 || strings.HasPrefix(strings.TrimLeftFunc(body, unicode.IsSpace), "<")
}
