// Package cli provides the command-line interface for jira-issue.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nhle/jira-issues/internal/credential"
	"github.com/nhle/jira-issues/internal/jira"
	"github.com/nhle/jira-issues/internal/logging"
	"github.com/nhle/jira-issues/internal/model"
)

// Function variables allowing the system keyring and terminal detection
// to be replaced in tests.
var (
	openCredentialsFunc = credential.Open
	isTerminalFunc      = stdoutIsTerminal
	httpClientFunc      = func(timeout time.Duration) *http.Client {
		return &http.Client{Timeout: timeout}
	}
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	debug      bool
}

// NewRootCommand creates the root command for jira-issue.
func NewRootCommand(version string) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "jira-issue",
		Short: "Create Jira issues from the command line",
		Long: `jira-issue creates issues in a Jira Cloud project.

The tenant and defaults live in ~/.config/jira-issues/config.yaml.
The API token is read from $JIRA_TOKEN or from the system keyring
(see "jira-issue login").`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", model.DefaultConfigPath(), "path to config file")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newCreateCommand(opts),
		newLoginCommand(opts),
		newLogoutCommand(opts),
		newHistoryCommand(opts),
		newConfigCommand(opts),
	)

	return root
}

// loadConfig reads the config file named by the global options.
func (o *globalOptions) loadConfig() (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// logger builds the logger for a command run.
func (o *globalOptions) logger(w io.Writer, cfg *model.AppConfig) (*slog.Logger, error) {
	level := cfg.Log.Level
	if o.debug {
		level = "debug"
	}
	return logging.New(w, level, cfg.Log.Format)
}

// tenant names the Jira instance in logs and history.
func tenant(cfg *model.AppConfig) string {
	if cfg.Jira.Subdomain != "" {
		return cfg.Jira.Subdomain
	}
	return cfg.Jira.BaseURL
}

// resolveToken reads the API token from the environment or the keyring.
// The keyring is only opened when the environment has no token.
func resolveToken(cfg *model.AppConfig) (string, error) {
	var store *credential.Store
	if os.Getenv(credential.TokenEnv) == "" {
		s, err := openCredentialsFunc()
		if err != nil {
			return "", err
		}
		store = s
	}

	token, err := credential.ResolveToken(store, cfg.CredentialKey())
	if err != nil {
		return "", fmt.Errorf(
			"no API token for %s: set $%s or run \"jira-issue login\": %w",
			tenant(cfg), credential.TokenEnv, err,
		)
	}
	return token, nil
}

// newIssueClient builds the Jira client described by cfg.
func newIssueClient(cfg *model.AppConfig, token string) *jira.IssueClient {
	opts := []jira.Option{
		jira.WithHTTPClient(httpClientFunc(cfg.Jira.Timeout())),
	}
	if cfg.Jira.BaseURL != "" {
		opts = append(opts, jira.WithBaseURL(cfg.Jira.BaseURL))
	}
	return jira.NewIssueClient(token, cfg.Jira.Subdomain, opts...)
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
