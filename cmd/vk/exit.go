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

package main

import (
	"github.com/cockroachdb/errors"

	vkerrors "github.com/sirseerhq/vk/internal/errors"
	"github.com/sirseerhq/vk/internal/giterror"
)

var inspector = giterror.NewErrorChainInspector(giterror.NewInspector())

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, vkerrors.ErrInvalidToken) ||
		errors.Is(err, vkerrors.ErrRepoNotFound) ||
		errors.Is(err, vkerrors.ErrResourceNotFound) ||
		errors.Is(err, vkerrors.ErrRateLimit) {
		return 2
	}

	if errors.Is(err, vkerrors.ErrNetworkFailure) {
		return 3
	}

	switch giterror.Classify(inspector, err) {
	case giterror.KindAuth, giterror.KindNotFound, giterror.KindRateLimit:
		return 2
	case giterror.KindNetwork:
		return 3
	}

	return 1
}
