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
	"io"
	"log/slog"
	"os"
	"regexp"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/vk/internal/config"
	"github.com/sirseerhq/vk/internal/github"
	"github.com/sirseerhq/vk/internal/logging"
	"github.com/sirseerhq/vk/internal/printer"
	"github.com/sirseerhq/vk/internal/reference"
	"github.com/sirseerhq/vk/pkg/version"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath  string
	token       string
	repo        string
	transcript  string
	httpTimeout int
	verbose     bool
}

// app is the state a subcommand runs with once configuration is resolved.
type app struct {
	cfg    *config.Config
	token  github.Token
	logger *logging.Logger
	out    io.Writer
}

func newRootCommand() *cobra.Command {
	var (
		opts globalOptions
		a    app
	)

	rootCmd := &cobra.Command{
		Use:   "vk",
		Short: "View and resolve GitHub pull request review comments",
		Long: `vk prints the unresolved review threads of a GitHub pull request together
with the latest review from each reviewer, prints issues, and resolves review
threads once they have been addressed.

Authentication uses a GitHub token:
  - Use --token flag to provide token directly
  - Or set GITHUB_TOKEN (or GH_TOKEN) environment variable`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, opts)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.logger == nil {
				return nil
			}
			return a.logger.Close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flags.StringVar(&opts.token, "token", "", "GitHub token (overrides GITHUB_TOKEN env var)")
	flags.StringVar(&opts.repo, "repo", "", "Default repository (owner/name) for bare numeric references")
	flags.StringVar(&opts.transcript, "transcript", "", "Record every API exchange to this NDJSON file (.gz to compress)")
	flags.IntVar(&opts.httpTimeout, "http-timeout", 0, "Per-request timeout in seconds")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newPRCommand(&a), newIssueCommand(&a), newResolveCommand(&a))
	return rootCmd
}

// setup loads configuration, applies flags over it and builds the logger.
func (a *app) setup(cmd *cobra.Command, opts globalOptions) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.repo != "" {
		cfg.Repo = opts.repo
	}
	if opts.transcript != "" {
		cfg.Transcript = opts.transcript
	}
	if cmd.Flags().Changed("http-timeout") {
		cfg.Retry.RequestTimeout = time.Duration(opts.httpTimeout) * time.Second
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	logger, err := logging.New(logging.Options{
		Console:    cmd.ErrOrStderr(),
		Level:      cfg.Log.Level,
		Verbose:    opts.verbose,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.token = github.Token(cfg.Token(opts.token))
	a.logger = logger
	a.out = cmd.OutOrStdout()
	logger.Debug("configuration loaded",
		"graphql_endpoint", cfg.GitHub.GraphQLEndpoint,
		"api_endpoint", cfg.GitHub.APIEndpoint,
		"repo", cfg.Repo,
		"token", a.token)
	return nil
}

func (a *app) retryConfig() github.RetryConfig {
	r := a.cfg.Retry
	return github.RetryConfig{
		Attempts:       r.Attempts,
		BaseDelay:      r.BaseDelay,
		MaxDelay:       r.MaxDelay,
		RequestTimeout: r.RequestTimeout,
		Jitter:         r.Jitter,
	}
}

// graphQLClient builds the API client. A transcript that cannot be created
// is reported and the client runs without one.
func (a *app) graphQLClient() (*github.Client, error) {
	opts := []github.Option{
		github.WithEndpoint(a.cfg.GitHub.GraphQLEndpoint),
		github.WithRetryConfig(a.retryConfig()),
		github.WithLogger(a.logger.Logger),
	}
	if a.cfg.Transcript != "" {
		client, err := github.NewClient(a.token, append(opts, github.WithTranscript(a.cfg.Transcript))...)
		if err == nil {
			return client, nil
		}
		a.logger.Warn("failed to create transcript", "path", a.cfg.Transcript, "error", err)
	}
	return github.NewClient(a.token, opts...)
}

func (a *app) warnAnonymous() {
	if a.token == "" {
		a.logger.Warn("GitHub token not set, using anonymous API access")
	}
}

// checkout opens the git repository around the working directory, or
// returns nil outside one.
func (a *app) checkout() *reference.Checkout {
	wd, err := os.Getwd()
	if err != nil {
		return nil
	}
	checkout, err := reference.OpenCheckout(wd)
	if err != nil {
		a.logger.Debug("no git repository", "dir", wd, "error", err)
		return nil
	}
	return checkout
}

func (a *app) defaultRepo(checkout *reference.Checkout) string {
	return reference.DefaultRepo(a.cfg.Repo, checkout)
}

func (a *app) printer() *printer.Printer {
	return printer.New(a.out, colorEnabled(a.out))
}

// colorEnabled reports whether w is a terminal and NO_COLOR is unset.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var utf8LocaleRE = regexp.MustCompile(`(?i)utf-?8$`)

// localeIsUTF8 checks LC_ALL, LC_CTYPE and LANG in order; the first one set
// decides.
func localeIsUTF8() bool {
	for _, name := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return utf8LocaleRE.MatchString(v)
		}
	}
	return false
}

func warnLocale(logger *slog.Logger) {
	if !localeIsUTF8() {
		logger.Warn("terminal locale is not UTF-8; emojis may not render correctly")
	}
}
