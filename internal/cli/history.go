package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nhle/jira-issues/internal/model"
	"github.com/nhle/jira-issues/internal/store"
	"github.com/nhle/jira-issues/internal/theme"
)

func newHistoryCommand(g *globalOptions) *cobra.Command {
	var (
		project    string
		limit      int
		allTenants bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List issues created from this machine",
		Long: `List issues created from this machine, newest first. Only issues
of the configured tenant are listed unless --all-tenants is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, s, err := g.openHistory()
			if err != nil {
				return err
			}
			defer s.Close()

			filter := store.IssueFilter{Limit: limit}
			if project != "" {
				filter.ProjectKey = &project
			}
			if !allTenants {
				t := tenant(cfg)
				filter.Tenant = &t
			}

			issues, err := s.ListIssues(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, issues)
			}
			if len(issues) == 0 {
				fmt.Fprintln(out, theme.HelpStyle.Render("No issues recorded yet."))
				return nil
			}

			total, err := s.CountIssues(cmd.Context(), filter)
			if err != nil {
				return err
			}
			for _, is := range issues {
				fmt.Fprintf(out, "%s  %s  %s  %s\n",
					is.CreatedAt.Local().Format("2006-01-02 15:04"),
					theme.KeyStyle.Render(is.IssueKey),
					theme.IssueTypeStyle(is.IssueType).Render(is.IssueType),
					is.Summary,
				)
			}
			fmt.Fprintln(out, theme.HelpStyle.Render(
				fmt.Sprintf("Showing %d of %d issues.", len(issues), total)))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&project, "project", "p", "", "only issues of this project key")
	f.IntVarP(&limit, "limit", "n", 20, "maximum number of issues (0 for all)")
	f.BoolVar(&allTenants, "all-tenants", false, "include issues of other Jira tenants")
	f.BoolVar(&asJSON, "json", false, "print as JSON")

	cmd.AddCommand(newHistoryShowCommand(g))
	return cmd
}

func newHistoryShowCommand(g *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show KEY",
		Short: "Show the recorded details of one issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := g.openHistory()
			if err != nil {
				return err
			}
			defer s.Close()

			key := strings.ToUpper(strings.TrimSpace(args[0]))
			is, err := s.GetIssueByKey(cmd.Context(), tenant(cfg), key)
			if errors.Is(err, store.ErrIssueNotFound) {
				return fmt.Errorf("%s was not created from this machine", key)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, is)
			}
			printRecord(out, is)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

// openHistory loads the config and opens the history store it names.
func (o *globalOptions) openHistory() (*model.AppConfig, store.Store, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil, errors.New("history is disabled in the config")
	}

	s, err := store.NewSQLiteStore(cfg.History.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, s, nil
}

func printRecord(w io.Writer, is *model.CreatedIssue) {
	row := func(label, value string) string {
		return theme.LabelStyle.Render(label) + " " + theme.ValueStyle.Render(value)
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		theme.KeyStyle.Render(is.IssueKey)+"  "+theme.IssueTypeStyle(is.IssueType).Render(is.IssueType),
		row("Summary", is.Summary),
		row("Project", is.ProjectKey),
		row("Assignee", is.AssigneeEmail),
		row("Tenant", is.Tenant),
		row("ID", is.IssueID),
		row("Created", is.CreatedAt.Local().Format("2006-01-02 15:04:05")),
		row("URL", is.BrowseURL),
	)
	fmt.Fprintln(w, theme.PanelStyle.Render(body))
}
