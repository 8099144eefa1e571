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
	"encoding/json"
	"log/slog"

	"github.com/sirseerhq/vk/internal/output"
)

// transcriptEntry is one line of the diagnostic transcript.
type transcriptEntry struct {
	Operation string          `json:"operation"`
	Status    int             `json:"status"`
	Request   json.RawMessage `json:"request"`
	Response  string          `json:"response"`
}

// transcript records request/response pairs. It never fails the request it
// describes: write errors are logged and dropped.
type transcript struct {
	sink   output.RecordWriter
	logger *slog.Logger
}

func newTranscript(path string, logger *slog.Logger) (*transcript, error) {
	w, err := output.NewFileWriter(path)
	if err != nil {
		return nil, err
	}
	return &transcript{sink: w, logger: logger}, nil
}

// record appends an entry. A nil transcript records nothing.
func (t *transcript) record(operation string, payload []byte, resp *httpResponse) {
	if t == nil {
		return
	}
	request, err := redactPayload(payload)
	if err != nil {
		t.logger.Warn("failed to redact transcript payload", "operation", operation, "error", err)
		request = json.RawMessage(`"<failed to serialise payload>"`)
	}
	entry := transcriptEntry{
		Operation: operation,
		Status:    resp.Status,
		Request:   request,
		Response:  snippet(resp.Body, bodySnippetLen),
	}
	if err := t.sink.Write(entry); err != nil {
		t.logger.Warn("failed to write transcript", "operation", operation, "error", err)
	}
}

func (t *transcript) close() error {
	if t == nil {
		return nil
	}
	return t.sink.Close()
}
