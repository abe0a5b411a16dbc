package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// defaultTimeoutSec applies when jira.timeout_sec is unset or zero.
const defaultTimeoutSec = 30

// appDir is the directory name under ~/.config holding config and history.
const appDir = "jira-issues"

// subdomainPattern matches a Jira Cloud tenant prefix.
var subdomainPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// JiraConfig holds the tenant address and issue defaults.
type JiraConfig struct {
	// Subdomain is the tenant prefix of <subdomain>.atlassian.net.
	Subdomain string `mapstructure:"subdomain" yaml:"subdomain"`

	// BaseURL overrides the address derived from Subdomain
	// (self-hosted instances).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// ProjectKey is used when no project is given on the command line.
	ProjectKey string `mapstructure:"project_key" yaml:"project_key"`

	// IssueType is used when no issue type is given on the command line.
	IssueType string `mapstructure:"issue_type" yaml:"issue_type"`

	// SummaryPrefix is prepended to every summary, separated by a space.
	SummaryPrefix string `mapstructure:"summary_prefix" yaml:"summary_prefix"`

	// TimeoutSec bounds a single request to Jira. Zero means the default.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// Timeout returns the request timeout. It is never zero, since a zero
// http.Client timeout would wait forever.
func (c JiraConfig) Timeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return defaultTimeoutSec * time.Second
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

// HistoryConfig controls the local log of created issues.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	DBPath  string `mapstructure:"db_path" yaml:"db_path"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Jira    JiraConfig    `mapstructure:"jira" yaml:"jira"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// ConfigDir returns ~/.config/jira-issues, or the working directory when
// the home directory cannot be resolved.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", appDir)
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/jira-issues/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Jira: JiraConfig{
			IssueType:  "Task",
			TimeoutSec: defaultTimeoutSec,
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  filepath.Join(ConfigDir(), "history.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("jira.issue_type", def.Jira.IssueType)
	v.SetDefault("jira.timeout_sec", def.Jira.TimeoutSec)
	v.SetDefault("history.enabled", def.History.Enabled)
	v.SetDefault("history.db_path", def.History.DBPath)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.History.DBPath = expandHome(cfg.History.DBPath)

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("jira", cfg.Jira)
	v.Set("history", cfg.History)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// Validate checks the settings required to talk to Jira.
func (c *AppConfig) Validate() error {
	sub := c.Jira.Subdomain
	if sub == "" && c.Jira.BaseURL == "" {
		return errors.New(`"jira.subdomain" property is missing`)
	}
	if sub != "" && !subdomainPattern.MatchString(sub) {
		return fmt.Errorf(
			`"jira.subdomain" property should match the expression %q`,
			subdomainPattern.String(),
		)
	}
	if c.Jira.BaseURL != "" &&
		!strings.HasPrefix(c.Jira.BaseURL, "https://") &&
		!strings.HasPrefix(c.Jira.BaseURL, "http://") {
		return errors.New(`"jira.base_url" property must be an http(s) URL`)
	}
	if c.Jira.TimeoutSec < 0 {
		return errors.New(`"jira.timeout_sec" property must not be negative`)
	}
	if c.History.Enabled && c.History.DBPath == "" {
		return errors.New(`"history.db_path" property is missing`)
	}
	return nil
}

// CredentialKey returns the keyring entry name holding the API token for
// this tenant.
func (c *AppConfig) CredentialKey() string {
	id := c.Jira.Subdomain
	if id == "" {
		id = strings.TrimPrefix(strings.TrimPrefix(c.Jira.BaseURL, "https://"), "http://")
		id = strings.TrimRight(id, "/")
	}
	return "jira-" + id
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
