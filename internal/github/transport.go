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
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirseerhq/vk/pkg/version"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 10 * 1024 * 1024

// newPooledTransport returns the base transport used when the caller does not
// supply an HTTP client.
func newPooledTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// headerTransport sets the headers every GraphQL request carries and caps
// the response size. Authorization is added by an outer oauth2 transport.
type headerTransport struct {
	base http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseSize,
		}
	}

	return resp, nil
}

// transport issues single GraphQL POSTs. It does not retry.
type transport struct {
	endpoint   string
	client     *http.Client
	timeout    time.Duration
	transcript *transcript
	logger     *slog.Logger
}

// execute sends one request and returns the status and body. Any status is
// captured; non-2xx statuses are returned together with an HTTPStatusError.
func (t *transport) execute(ctx context.Context, operation string, payload []byte) (*httpResponse, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{
			Operation: operation,
			Payload:   payloadSnippet(payload, t.logger),
			Err:       errors.Wrap(err, "build request"),
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &TransportError{
			Operation: operation,
			Payload:   payloadSnippet(payload, t.logger),
			Err:       err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{
			Operation: operation,
			Payload:   payloadSnippet(payload, t.logger),
			Status:    resp.StatusCode,
			Err:       errors.Wrap(err, "read response body"),
		}
	}

	out := &httpResponse{Status: resp.StatusCode, Body: string(body)}
	t.transcript.record(operation, payload, out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &HTTPStatusError{
			Operation: operation,
			Status:    resp.StatusCode,
			Snippet:   snippet(out.Body, bodySnippetLen),
			Err:       errors.Newf("unexpected status %s", resp.Status),
		}
	}
	return out, nil
}
