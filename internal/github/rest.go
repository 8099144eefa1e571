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
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	gh "github.com/google/go-github/v62/github"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"
)

// DefaultAPIEndpoint is the public GitHub REST API.
const DefaultAPIEndpoint = "https://api.github.com/"

// RestClient posts review comment replies through the REST API, which has no
// GraphQL equivalent for replying to a specific comment.
type RestClient struct {
	client *gh.Client
	logger *slog.Logger
}

// NewRestClient creates a REST client. apiEndpoint may be empty for the
// public API. Requests are retried by go-retryablehttp using cfg's attempt
// count and delays.
func NewRestClient(token Token, apiEndpoint string, cfg RetryConfig, logger *slog.Logger) (*RestClient, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rc := retryablehttp.NewClient()
	rc.Logger = logger
	rc.RetryMax = max(cfg.Attempts-1, 0)
	if cfg.BaseDelay > 0 {
		rc.RetryWaitMin = cfg.BaseDelay
	}
	if cfg.MaxDelay > 0 {
		rc.RetryWaitMax = cfg.MaxDelay
	}
	rc.HTTPClient.Timeout = cfg.RequestTimeout
	if token != "" {
		rc.HTTPClient.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: string(token)}),
			Base:   &headerTransport{base: newPooledTransport()},
		}
	} else {
		rc.HTTPClient.Transport = &headerTransport{base: newPooledTransport()}
	}

	client := gh.NewClient(rc.StandardClient())
	if apiEndpoint != "" && apiEndpoint != DefaultAPIEndpoint {
		if !strings.HasSuffix(apiEndpoint, "/") {
			apiEndpoint += "/"
		}
		base, err := url.Parse(apiEndpoint)
		if err != nil {
			return nil, errors.Wrapf(err, "parse API endpoint %q", apiEndpoint)
		}
		client.BaseURL = base
	}

	return &RestClient{client: client, logger: logger}, nil
}

// PostReply replies to the review comment ref.CommentID. Blank bodies are
// skipped. A 404, meaning the comment is gone, is logged and treated as done.
func (c *RestClient) PostReply(ctx context.Context, ref CommentRef, body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}

	_, _, err := c.client.PullRequests.CreateCommentInReplyTo(ctx,
		ref.Repo.Owner, ref.Repo.Name, ref.PullNumber, body, ref.CommentID)
	if err == nil {
		return nil
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil &&
		respErr.Response.StatusCode == http.StatusNotFound {
		c.logger.Warn("review comment not found; skipping reply",
			"repo", ref.Repo.String(),
			"pr", ref.PullNumber,
			"comment", ref.CommentID)
		return nil
	}
	return errors.Wrapf(err, "reply to comment %d", ref.CommentID)
}
