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

package giterror

import (
	"net"
	"strings"

	"github.com/cockroachdb/errors"
	gh "github.com/google/go-github/v62/github"
)

// Inspector provides methods for analyzing GitHub API errors.
type Inspector interface {
	// IsAuthError returns true if the error represents an authentication or authorization failure.
	IsAuthError(err error) bool

	// IsNotFoundError returns true if the error represents a resource not found error.
	IsNotFoundError(err error) bool

	// IsRateLimitError returns true if the error represents a rate limit error.
	IsRateLimitError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool
}

// GitHubErrorInspector implements Inspector by matching error messages.
type GitHubErrorInspector struct{}

// NewInspector creates a new GitHubErrorInspector.
func NewInspector() Inspector {
	return &GitHubErrorInspector{}
}

// IsAuthError checks if the error is an authentication or authorization error.
func (i *GitHubErrorInspector) IsAuthError(err error) bool {
	return containsAny(err, "401", "403", "unauthorized", "forbidden", "bad credentials", "authentication")
}

// IsNotFoundError checks if the error is a not found error.
func (i *GitHubErrorInspector) IsNotFoundError(err error) bool {
	return containsAny(err, "404", "not found", "could not resolve to")
}

// IsRateLimitError checks if the error is a rate limit error.
func (i *GitHubErrorInspector) IsRateLimitError(err error) bool {
	return containsAny(err, "rate limit", "429")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *GitHubErrorInspector) IsNetworkError(err error) bool {
	return containsAny(err, "connection refused", "no such host", "timeout", "temporary failure",
		"dial tcp", "tls handshake", "network is unreachable")
}

func containsAny(err error, needles ...string) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, needle := range needles {
		if strings.Contains(errStr, needle) {
			return true
		}
	}
	return false
}

type (
	authClassifier      interface{ IsAuthError() bool }
	notFoundClassifier  interface{ IsNotFoundError() bool }
	rateLimitClassifier interface{ IsRateLimitError() bool }
	networkClassifier   interface{ IsNetworkError() bool }
)

// ErrorChainInspector wraps a base inspector and consults the error chain
// first. When the chain holds a typed error that classifies itself, its
// answer is final and the message is not inspected.
type ErrorChainInspector struct {
	base Inspector
}

// NewErrorChainInspector creates a new ErrorChainInspector that checks both
// the error chain and falls back to string-based inspection.
func NewErrorChainInspector(base Inspector) Inspector {
	return &ErrorChainInspector{base: base}
}

// IsAuthError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsAuthError(err error) bool {
	var authErr authClassifier
	if errors.As(err, &authErr) {
		return authErr.IsAuthError()
	}
	if typed(err) {
		return false
	}
	return e.base.IsAuthError(err)
}

// IsNotFoundError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsNotFoundError(err error) bool {
	var notFoundErr notFoundClassifier
	if errors.As(err, &notFoundErr) {
		return notFoundErr.IsNotFoundError()
	}
	if typed(err) {
		return false
	}
	return e.base.IsNotFoundError(err)
}

// IsRateLimitError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsRateLimitError(err error) bool {
	var rateLimitErr rateLimitClassifier
	if errors.As(err, &rateLimitErr) {
		return rateLimitErr.IsRateLimitError()
	}
	var restRateLimit *gh.RateLimitError
	var abuse *gh.AbuseRateLimitError
	if errors.As(err, &restRateLimit) || errors.As(err, &abuse) {
		return true
	}
	if typed(err) {
		return false
	}
	return e.base.IsRateLimitError(err)
}

// IsNetworkError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsNetworkError(err error) bool {
	var networkErr networkClassifier
	if errors.As(err, &networkErr) {
		return networkErr.IsNetworkError()
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if typed(err) {
		return false
	}
	return e.base.IsNetworkError(err)
}

// typed reports whether the chain carries any self-classifying error.
func typed(err error) bool {
	var (
		a authClassifier
		n notFoundClassifier
		r rateLimitClassifier
		w networkClassifier
	)
	return errors.As(err, &a) || errors.As(err, &n) || errors.As(err, &r) || errors.As(err, &w)
}
