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

package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ConsoleLevel(t *testing.T) {
	var console bytes.Buffer
	logger, err := New(Options{Console: &console, Level: "warn"})
	require.NoError(t, err)
	defer logger.Close()

	logger.Info("hidden")
	logger.Warn("retrying GraphQL request", "operation", "ReviewThreads", "attempt", 1)

	out := console.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "retrying GraphQL request")
	assert.Contains(t, out, "operation=ReviewThreads")
}

func TestNew_Verbose(t *testing.T) {
	var console bytes.Buffer
	logger, err := New(Options{Console: &console, Level: "error", Verbose: true})
	require.NoError(t, err)

	logger.Debug("payload", "bytes", 12)
	assert.Contains(t, console.String(), "payload")
}

func TestNew_File(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "vk.log")
	logger, err := New(Options{Console: &console, Level: "warn", File: path, MaxSize: 1})
	require.NoError(t, err)

	logger.With("component", "client").Debug("file only")
	require.NoError(t, logger.Close())

	assert.NotContains(t, console.String(), "file only")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "file only")
	assert.Contains(t, string(data), "component=client")
}

func TestLogger_CloseWithoutFile(t *testing.T) {
	logger, err := New(Options{Console: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.NoError(t, logger.Close())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}
