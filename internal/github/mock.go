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
	"context"
	"encoding/json"
	"sync"

	"github.com/cockroachdb/errors"
)

// MockResponse is one scripted reply of a MockQueryer. Data is encoded to
// JSON and decoded into the receiver; a string or json.RawMessage is used as
// raw JSON.
type MockResponse struct {
	Data any
	Err  error
}

// MockCall records one Query invocation.
type MockCall struct {
	Query     string
	Operation string
	Variables map[string]any
}

// MockQueryer is a Queryer that replays scripted responses in order, for
// testing code written against Queryer without an HTTP server.
type MockQueryer struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     []MockCall
}

// MockQueryerOption allows configuring the mock queryer
type MockQueryerOption func(*MockQueryer)

// WithMockData queues a successful response.
func WithMockData(data any) MockQueryerOption {
	return func(m *MockQueryer) {
		m.responses = append(m.responses, MockResponse{Data: data})
	}
}

// WithMockError queues a failing response.
func WithMockError(err error) MockQueryerOption {
	return func(m *MockQueryer) {
		m.responses = append(m.responses, MockResponse{Err: err})
	}
}

// NewMockQueryer creates a mock queryer with queued responses.
func NewMockQueryer(opts ...MockQueryerOption) *MockQueryer {
	m := &MockQueryer{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Query implements Queryer.
func (m *MockQueryer) Query(ctx context.Context, query string, variables any, receiver any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	vars, err := decodeVariables(variables)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.calls = append(m.calls, MockCall{
		Query:     query,
		Operation: NewQuery(query).Operation(),
		Variables: vars,
	})
	if len(m.responses) == 0 {
		m.mu.Unlock()
		return errors.Newf("mock: unexpected query %s", NewQuery(query).Operation())
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	if resp.Err != nil {
		return resp.Err
	}
	if receiver == nil {
		return nil
	}

	var raw []byte
	switch d := resp.Data.(type) {
	case string:
		raw = []byte(d)
	case json.RawMessage:
		raw = d
	default:
		if raw, err = json.Marshal(d); err != nil {
			return errors.Wrap(err, "mock: encode data")
		}
	}
	return json.Unmarshal(raw, receiver)
}

// Calls returns the recorded invocations.
func (m *MockQueryer) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

// Remaining returns how many scripted responses have not been consumed.
func (m *MockQueryer) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.responses)
}

func decodeVariables(variables any) (map[string]any, error) {
	if variables == nil {
		return nil, nil
	}
	raw, err := json.Marshal(variables)
	if err != nil {
		return nil, errors.Wrap(err, "mock: encode variables")
	}
	var vars map[string]any
	if err := json.Unmarshal(raw, &vars); err != nil {
		return nil, errors.Wrap(err, "mock: variables are not an object")
	}
	return vars, nil
}
