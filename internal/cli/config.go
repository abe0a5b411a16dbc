package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/jira-issues/internal/jira"
	"github.com/nhle/jira-issues/internal/model"
	"github.com/nhle/jira-issues/internal/theme"
	"github.com/nhle/jira-issues/internal/ui/form"
)

func newConfigCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write the configuration",
	}
	cmd.AddCommand(newConfigShowCommand(g), newConfigInitCommand(g))
	return cmd
}

func newConfigShowCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, theme.HeaderStyle.Render("jira-issue config"))

			row := func(label, value string) {
				if value == "" {
					value = theme.HelpStyle.Render("(unset)")
				}
				fmt.Fprintf(out, "  %s %s\n", theme.LabelStyle.Width(16).Render(label), value)
			}
			row("file", g.configPath)
			row("subdomain", cfg.Jira.Subdomain)
			base := cfg.Jira.BaseURL
			if base == "" && cfg.Jira.Subdomain != "" {
				base = jira.TenantURL(cfg.Jira.Subdomain)
			}
			row("base url", base)
			row("project key", cfg.Jira.ProjectKey)
			row("issue type", cfg.Jira.IssueType)
			row("summary prefix", cfg.Jira.SummaryPrefix)
			row("timeout", cfg.Jira.Timeout().String())
			row("history", fmt.Sprintf("%t (%s)", cfg.History.Enabled, cfg.History.DBPath))
			row("log", cfg.Log.Level+"/"+cfg.Log.Format)

			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(out, "%s %v\n", theme.ErrorStyle.Render("invalid:"), err)
			}
			return nil
		},
	}
}

func newConfigInitCommand(g *globalOptions) *cobra.Command {
	var jc model.JiraConfig

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the config file",
		Long: `Write the config file. Values given as flags are kept; on a
terminal the Jira settings are asked for when --subdomain is omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			f := cmd.Flags()
			if f.Changed("subdomain") {
				cfg.Jira.Subdomain = jc.Subdomain
			}
			if f.Changed("base-url") {
				cfg.Jira.BaseURL = jc.BaseURL
			}
			if f.Changed("project") {
				cfg.Jira.ProjectKey = jc.ProjectKey
			}
			if f.Changed("type") {
				cfg.Jira.IssueType = jc.IssueType
			}
			if f.Changed("prefix") {
				cfg.Jira.SummaryPrefix = jc.SummaryPrefix
			}

			if !f.Changed("subdomain") && !f.Changed("base-url") && isTerminalFunc() {
				if err := form.PromptConfig(&cfg.Jira); err != nil {
					return err
				}
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := model.SaveConfig(g.configPath, cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n",
				theme.SuccessStyle.Render("OK"), g.configPath)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&jc.Subdomain, "subdomain", "", "tenant prefix of <subdomain>.atlassian.net")
	f.StringVar(&jc.BaseURL, "base-url", "", "explicit Jira root URL")
	f.StringVarP(&jc.ProjectKey, "project", "p", "", "default project key")
	f.StringVarP(&jc.IssueType, "type", "t", "", "default issue type")
	f.StringVar(&jc.SummaryPrefix, "prefix", "", "summary prefix")

	return cmd
}
