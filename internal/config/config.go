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

// Package config provides configuration management for vk with support for
// multiple configuration sources and a well-defined precedence order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// Flags are applied by the caller after LoadConfig returns.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// fallbackTokenEnv is consulted when the configured token variable is unset.
const fallbackTokenEnv = "GH_TOKEN"

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .vk.yaml (current directory)
//   - .vk.yml (current directory)
//   - ~/.config/vk/config.yaml
//
// Environment variables are applied after loading the config file. Returns
// an error if the specified config file cannot be loaded, but succeeds with
// defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to load config file")
		}
	} else {
		for _, path := range defaultPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, errors.Wrapf(err, "failed to load config from %s", path)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	cfg.Transcript = expandPath(cfg.Transcript)
	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

func defaultPaths() []string {
	paths := []string{".vk.yaml", ".vk.yml"}
	if home := homeDir(); home != "" {
		paths = append(paths, filepath.Join(home, ".config", "vk", "config.yaml"))
	}
	return paths
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
// Unparseable numeric values are ignored.
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("GITHUB_GRAPHQL_URL"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}
	if endpoint := os.Getenv("GITHUB_API_URL"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}
	if repo := os.Getenv("VK_REPO"); repo != "" {
		cfg.Repo = repo
	}
	if transcript := os.Getenv("VK_TRANSCRIPT"); transcript != "" {
		cfg.Transcript = transcript
	}
	if timeout := os.Getenv("VK_HTTP_TIMEOUT"); timeout != "" {
		if secs, err := parsePositiveInt(timeout); err == nil {
			cfg.Retry.RequestTimeout = time.Duration(secs) * time.Second
		}
	}
	if attempts := os.Getenv("VK_RETRY_ATTEMPTS"); attempts != "" {
		if n, err := parsePositiveInt(attempts); err == nil {
			cfg.Retry.Attempts = n
		}
	}
	if logFile := os.Getenv("VK_LOG_FILE"); logFile != "" {
		cfg.Log.File = logFile
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir(), path[2:])
	}
	return os.ExpandEnv(path)
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	return os.Getenv("USERPROFILE") // Windows
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse integer from '%s'", s)
	}
	if i <= 0 {
		return 0, errors.Newf("value must be positive, got: %d", i)
	}
	return i, nil
}

// Token resolves the GitHub token: the flag value, then the variable named
// by github.token_env, then GH_TOKEN. An empty result means anonymous access.
func (c *Config) Token(flagToken string) string {
	if flagToken != "" {
		return flagToken
	}
	if c.GitHub.TokenEnv != "" {
		if token := os.Getenv(c.GitHub.TokenEnv); token != "" {
			return token
		}
	}
	return os.Getenv(fallbackTokenEnv)
}

// Validate checks if the configuration contains valid values. This should
// be called after flags have been applied to catch invalid settings early.
func (c *Config) Validate() error {
	if c.GitHub.APIEndpoint == "" {
		return errors.New("GitHub API endpoint cannot be empty")
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return errors.New("GitHub GraphQL endpoint cannot be empty")
	}
	if c.Retry.Attempts < 1 {
		return errors.Newf("retry attempts must be at least 1, got: %d", c.Retry.Attempts)
	}
	if c.Retry.RequestTimeout <= 0 {
		return errors.Newf("request timeout must be positive, got: %s", c.Retry.RequestTimeout)
	}
	if c.Retry.BaseDelay < 0 || c.Retry.MaxDelay < 0 {
		return errors.New("retry delays cannot be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return errors.Newf("unknown log level %q", c.Log.Level)
	}
	return nil
}
