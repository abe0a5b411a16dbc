package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nhle/jira-issues/internal/issue"
	"github.com/nhle/jira-issues/internal/jira"
	"github.com/nhle/jira-issues/internal/model"
	"github.com/nhle/jira-issues/internal/store"
	"github.com/nhle/jira-issues/internal/theme"
	"github.com/nhle/jira-issues/internal/ui/form"
	"github.com/nhle/jira-issues/internal/ui/submit"
)

type createOptions struct {
	req    issue.Request
	plain  bool
	asJSON bool
}

func newCreateCommand(g *globalOptions) *cobra.Command {
	opts := &createOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create one issue",
		Long: `Create one issue in a Jira project.

Blank fields fall back to the configured defaults. On a terminal the
remaining ones are asked for interactively; with --plain they are
required as flags. Every run creates a new issue.`,
		Example: `  jira-issue create -p ENG -s "Fix bug" -a a@b.com -t Bug`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreate(cmd, g, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.req.ProjectKey, "project", "p", "", "project key (e.g., ENG)")
	f.StringVarP(&opts.req.Summary, "summary", "s", "", "issue summary")
	f.StringVarP(&opts.req.AssigneeEmail, "assignee", "a", "", "assignee email")
	f.StringVarP(&opts.req.IssueType, "type", "t", "", "issue type name (e.g., Bug)")
	f.BoolVar(&opts.plain, "plain", false, "never prompt or animate")
	f.BoolVar(&opts.asJSON, "json", false, "print the created issue as JSON")

	return cmd
}

func runCreate(cmd *cobra.Command, g *globalOptions, opts *createOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", g.configPath, err)
	}

	log, err := g.logger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	interactive := !opts.plain && !opts.asJSON && isTerminalFunc()

	token, err := resolveToken(cfg)
	if err != nil {
		return err
	}
	client := newIssueClient(cfg, token)

	var recorder issue.Recorder
	if cfg.History.Enabled {
		s, err := store.NewSQLiteStore(cfg.History.DBPath)
		if err != nil {
			log.Warn("history disabled for this run", "db", cfg.History.DBPath, "err", err)
		} else {
			defer s.Close()
			recorder = s
		}
	}

	svc := issue.NewService(client, recorder, tenant(cfg), issue.Defaults{
		ProjectKey:    cfg.Jira.ProjectKey,
		IssueType:     cfg.Jira.IssueType,
		SummaryPrefix: cfg.Jira.SummaryPrefix,
	}, log)

	req := opts.req
	if interactive {
		if req.ProjectKey == "" {
			req.ProjectKey = cfg.Jira.ProjectKey
		}
		if req.IssueType == "" {
			req.IssueType = cfg.Jira.IssueType
		}
		if err := form.PromptIssue(&req); err != nil {
			return err
		}
	}

	create := func(ctx context.Context) (*model.CreatedIssue, error) {
		return svc.Create(ctx, req)
	}

	var created *model.CreatedIssue
	if interactive {
		created, err = submit.Run(ctx, "Creating issue in "+client.BaseURL(), create)
	} else {
		created, err = create(ctx)
	}
	if err != nil {
		return describeCreateError(err)
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		return writeJSON(out, created)
	}
	printCreated(out, created)
	return nil
}

// describeCreateError adds a hint for the common Jira failures.
func describeCreateError(err error) error {
	if svcErr, ok := jira.AsServiceError(err); ok {
		switch svcErr.StatusCode {
		case 401, 403:
			return fmt.Errorf("%w (check the API token)", err)
		case 404:
			return fmt.Errorf("%w (check the subdomain)", err)
		}
	}
	return err
}

func printCreated(w io.Writer, c *model.CreatedIssue) {
	fmt.Fprintf(w, "%s %s\n",
		theme.SuccessStyle.Render("Created"),
		theme.KeyStyle.Render(c.IssueKey),
	)
	row := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", theme.LabelStyle.Render(label), theme.ValueStyle.Render(value))
	}
	row("Summary", c.Summary)
	fmt.Fprintf(w, "  %s %s\n", theme.LabelStyle.Render("Type"), theme.IssueTypeStyle(c.IssueType).Render(c.IssueType))
	row("Project", c.ProjectKey)
	row("Assignee", c.AssigneeEmail)
	row("URL", c.BrowseURL)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
