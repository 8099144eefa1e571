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
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// decodeResponse classifies a 2xx GraphQL response and decodes its data into
// receiver. A nil receiver only checks the envelope.
func decodeResponse(resp *httpResponse, operation string, receiver any) error {
	var envelope graphQLResponse
	if err := json.Unmarshal([]byte(resp.Body), &envelope); err != nil {
		return &DecodeError{
			Status:  resp.Status,
			Message: err.Error(),
			Snippet: snippet(resp.Body, bodySnippetLen),
		}
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return &APIError{Messages: messages}
	}

	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return &EmptyResponseError{
			Status:    resp.Status,
			Operation: operation,
			Snippet:   snippet(resp.Body, bodySnippetLen),
		}
	}

	if receiver == nil {
		return nil
	}
	if err := json.Unmarshal(data, receiver); err != nil {
		message, path := describeDecodeFailure(err, data)
		return &DecodeError{
			Status:  resp.Status,
			Message: message,
			Path:    path,
			Snippet: snippet(prettyJSON(data), valueSnippetLen),
		}
	}
	return nil
}

// describeDecodeFailure splits a decoding error into its cause and the
// location of the offending value, with array indices filled in from data.
func describeDecodeFailure(err error, data []byte) (message, path string) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		path = indexedPath(data, typeErr.Field, typeErr.Value)
		if path == "" {
			path = "."
		}
		return fmt.Sprintf("invalid type: %s, expected %s", typeErr.Value, typeErr.Type), path
	}
	return err.Error(), "."
}

// indexedPath resolves field, a dotted path without array positions, to the
// first value in document order whose JSON kind matches value. The decoder
// reports the first mismatch it meets, so that value is the offending one.
// field is returned unchanged when no such value exists.
func indexedPath(data []byte, field, value string) string {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return field
	}
	var segments []string
	if field != "" {
		segments = strings.Split(field, ".")
	}
	if path, ok := locate(root, segments, value, ""); ok {
		return path
	}
	return field
}

func locate(v any, segments []string, value, prefix string) (string, bool) {
	if len(segments) == 0 && kindMatches(v, value) {
		return prefix, true
	}
	switch node := v.(type) {
	case []any:
		for i, elem := range node {
			if path, ok := locate(elem, segments, value, prefix+"["+strconv.Itoa(i)+"]"); ok {
				return path, true
			}
		}
	case map[string]any:
		if len(segments) == 0 {
			return "", false
		}
		key, child, ok := lookupKey(node, segments[0])
		if !ok {
			return "", false
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		return locate(child, segments[1:], value, key)
	}
	return "", false
}

// lookupKey finds name in obj, falling back to the case-insensitive match
// encoding/json itself accepts.
func lookupKey(obj map[string]any, name string) (string, any, bool) {
	if v, ok := obj[name]; ok {
		return name, v, true
	}
	for k, v := range obj {
		if strings.EqualFold(k, name) {
			return name, v, true
		}
	}
	return "", nil, false
}

// kindMatches reports whether v has the kind named by an
// UnmarshalTypeError value, such as "number" or "number 300".
func kindMatches(v any, value string) bool {
	var kind, literal string
	switch x := v.(type) {
	case json.Number:
		kind, literal = "number", x.String()
	case string:
		kind = "string"
	case bool:
		kind = "bool"
	case []any:
		kind = "array"
	case map[string]any:
		kind = "object"
	default:
		return false
	}
	if value == kind {
		return true
	}
	rest, ok := strings.CutPrefix(value, kind+" ")
	return ok && (literal == "" || rest == literal)
}

func prettyJSON(data []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}
