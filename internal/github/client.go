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
	"log/slog"
	"net/http"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

const tracerName = "github.com/sirseerhq/vk/internal/github"

// Queryer executes a GraphQL document and decodes its data into receiver.
// This interface allows for easy mocking in tests.
type Queryer interface {
	Query(ctx context.Context, query string, variables any, receiver any) error
}

// Client is a GitHub GraphQL client. It is safe for concurrent use; the
// endpoint, headers and retry policy are fixed at construction.
type Client struct {
	endpoint   Endpoint
	retry      RetryConfig
	transport  *transport
	transcript *transcript
	logger     *slog.Logger
	tracer     trace.Tracer
}

type clientOptions struct {
	endpoint       Endpoint
	retry          RetryConfig
	transcriptPath string
	httpClient     *http.Client
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

// WithEndpoint targets a GraphQL URL other than the public GitHub API.
func WithEndpoint(endpoint string) Option {
	return func(o *clientOptions) {
		o.endpoint = Endpoint(endpoint)
	}
}

// WithRetryConfig replaces the default retry policy.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(o *clientOptions) {
		o.retry = cfg
	}
}

// WithTranscript records every request and response to path. The file is
// truncated when the client is created.
func WithTranscript(path string) Option {
	return func(o *clientOptions) {
		o.transcriptPath = path
	}
}

// WithHTTPClient supplies the HTTP client whose transport requests go
// through. Its transport is wrapped, never replaced.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// WithLogger sets the logger used for retry and transcript warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// NewClient creates a GitHub GraphQL client. An empty token sends anonymous
// requests with no Authorization header.
func NewClient(token Token, opts ...Option) (*Client, error) {
	o := clientOptions{retry: DefaultRetryConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	var httpClient http.Client
	if o.httpClient != nil {
		httpClient = *o.httpClient
	}
	base := httpClient.Transport
	if base == nil {
		base = newPooledTransport()
	}
	var rt http.RoundTripper = &headerTransport{base: base}
	if token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: string(token)}),
			Base:   rt,
		}
	}
	httpClient.Transport = otelhttp.NewTransport(rt)

	var tr *transcript
	if o.transcriptPath != "" {
		var err error
		tr, err = newTranscript(o.transcriptPath, o.logger)
		if err != nil {
			return nil, errors.Wrapf(err, "open transcript %s", o.transcriptPath)
		}
	}

	return &Client{
		endpoint: o.endpoint,
		retry:    o.retry,
		transport: &transport{
			endpoint:   o.endpoint.String(),
			client:     &httpClient,
			timeout:    o.retry.RequestTimeout,
			transcript: tr,
			logger:     o.logger,
		},
		transcript: tr,
		logger:     o.logger,
		tracer:     otel.Tracer(tracerName),
	}, nil
}

// Endpoint returns the GraphQL URL the client talks to.
func (c *Client) Endpoint() string { return c.endpoint.String() }

// Close releases the transcript file, if any.
func (c *Client) Close() error {
	return c.transcript.close()
}

type requestPayload struct {
	Query         string          `json:"query"`
	Variables     json.RawMessage `json:"variables"`
	OperationName string          `json:"operationName,omitempty"`
}

// Query implements Queryer. Transient failures are retried according to the
// client's RetryConfig.
func (c *Client) Query(ctx context.Context, query string, variables any, receiver any) error {
	q := NewQuery(query)

	vars, err := json.Marshal(variables)
	if err != nil {
		return errors.Wrapf(err, "encode variables for %s", q.Operation())
	}
	if string(vars) == "null" {
		vars = json.RawMessage("{}")
	}
	payload, err := json.Marshal(requestPayload{
		Query:         q.Text(),
		Variables:     vars,
		OperationName: q.Name(),
	})
	if err != nil {
		return errors.Wrapf(err, "encode payload for %s", q.Operation())
	}

	ctx, span := c.tracer.Start(ctx, "graphql "+q.Operation(),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("graphql.operation.name", q.Operation())))
	defer span.End()

	err = c.withRetry(ctx, q.Operation(), func() error {
		resp, err := c.transport.execute(ctx, q.Operation(), payload)
		if err != nil {
			return err
		}
		return decodeResponse(resp, q.Operation(), receiver)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// RunQuery executes query and returns its decoded data.
func RunQuery[T any](ctx context.Context, q Queryer, query string, variables any) (T, error) {
	var out T
	if err := q.Query(ctx, query, variables, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// FetchPage executes one page of a paginated query. variables must encode to
// a JSON object; cursor, when non-nil, is merged in under the "cursor" key,
// replacing any existing value. Invalid variables fail before any request.
func FetchPage[T any](ctx context.Context, q Queryer, query string, cursor *string, variables any) (T, error) {
	var zero T
	vars, err := withCursor(variables, cursor)
	if err != nil {
		return zero, err
	}
	return RunQuery[T](ctx, q, query, vars)
}

func withCursor(variables any, cursor *string) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(variables)
	if err != nil {
		return nil, &InvalidVariablesError{Reason: "serialising variables: " + err.Error()}
	}
	var vars map[string]json.RawMessage
	if err := json.Unmarshal(raw, &vars); err != nil || vars == nil {
		return nil, &InvalidVariablesError{Reason: "variables must be a JSON object"}
	}
	if cursor != nil {
		encoded, err := json.Marshal(*cursor)
		if err != nil {
			return nil, &InvalidVariablesError{Reason: "serialising cursor: " + err.Error()}
		}
		vars["cursor"] = encoded
	}
	return vars, nil
}
