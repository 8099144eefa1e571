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

// Package config types define the configuration structures used by vk.
// These types represent settings that can be loaded from YAML configuration
// files, environment variables, or command-line flags.
package config

import "time"

// Config represents the complete configuration for vk.
type Config struct {
	GitHub GitHubConfig `yaml:"github"`
	// Repo is the owner/name used for bare numeric references when the
	// local checkout cannot provide one.
	Repo       string      `yaml:"repo"`
	Transcript string      `yaml:"transcript"`
	Retry      RetryConfig `yaml:"retry"`
	Log        LogConfig   `yaml:"log"`
}

// GitHubConfig contains GitHub-specific settings including API endpoints
// and authentication configuration. This allows easy configuration for
// GitHub Enterprise deployments by specifying custom endpoints.
type GitHubConfig struct {
	APIEndpoint     string `yaml:"api_endpoint"`
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
}

// RetryConfig controls how failed API requests are retried.
type RetryConfig struct {
	Attempts       int           `yaml:"attempts"`
	BaseDelay      time.Duration `yaml:"base_delay"`
	MaxDelay       time.Duration `yaml:"max_delay"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Jitter         bool          `yaml:"jitter"`
}

// LogConfig controls the optional rotating log file. Sizes are in
// megabytes and ages in days.
type LogConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// DefaultConfig returns a Config with defaults suitable for github.com.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint:     "https://api.github.com",
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Retry: RetryConfig{
			Attempts:       5,
			BaseDelay:      200 * time.Millisecond,
			MaxDelay:       60 * time.Second,
			RequestTimeout: 30 * time.Second,
			Jitter:         true,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}
