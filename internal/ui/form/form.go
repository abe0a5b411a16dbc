// Package form holds the interactive prompts of the command line.
package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nhle/jira-issues/internal/issue"
	"github.com/nhle/jira-issues/internal/model"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted")

// commonIssueTypes are suggested in the issue type prompt.
var commonIssueTypes = []string{"Task", "Bug", "Story", "Epic", "Sub-task"}

// MissingIssueFields reports whether any field of req still needs input.
func MissingIssueFields(req issue.Request) bool {
	return strings.TrimSpace(req.ProjectKey) == "" ||
		strings.TrimSpace(req.Summary) == "" ||
		strings.TrimSpace(req.AssigneeEmail) == "" ||
		strings.TrimSpace(req.IssueType) == ""
}

// BuildIssueForm returns a form asking for the blank fields of req. Values
// are written back into req.
func BuildIssueForm(req *issue.Request) *huh.Form {
	var fields []huh.Field

	if strings.TrimSpace(req.ProjectKey) == "" {
		fields = append(fields, huh.NewInput().
			Title("Project key").
			Description("Short key of the Jira project (e.g., ENG)").
			Placeholder("ENG").
			Value(&req.ProjectKey).
			Validate(validateRequired("Project key")))
	}
	if strings.TrimSpace(req.Summary) == "" {
		fields = append(fields, huh.NewInput().
			Title("Summary").
			Value(&req.Summary).
			Validate(validateRequired("Summary")))
	}
	if strings.TrimSpace(req.AssigneeEmail) == "" {
		fields = append(fields, huh.NewInput().
			Title("Assignee email").
			Placeholder("someone@example.com").
			Value(&req.AssigneeEmail).
			Validate(validateEmail))
	}
	if strings.TrimSpace(req.IssueType) == "" {
		fields = append(fields, huh.NewInput().
			Title("Issue type").
			Suggestions(commonIssueTypes).
			Placeholder("Task").
			Value(&req.IssueType).
			Validate(validateRequired("Issue type")))
	}

	return huh.NewForm(huh.NewGroup(fields...))
}

// PromptIssue asks for the blank fields of req.
func PromptIssue(req *issue.Request) error {
	if !MissingIssueFields(*req) {
		return nil
	}
	return run(BuildIssueForm(req))
}

// PromptToken asks for an API token without echoing it.
func PromptToken(tenant string) (string, error) {
	var token string
	f := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API token").
				Description(fmt.Sprintf("Token used for %s", tenant)).
				EchoMode(huh.EchoModePassword).
				Value(&token).
				Validate(validateRequired("Token")),
		),
	)
	if err := run(f); err != nil {
		return "", err
	}
	return strings.TrimSpace(token), nil
}

// BuildConfigForm returns a form editing the Jira section of cfg.
func BuildConfigForm(cfg *model.JiraConfig) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Subdomain").
				Description("Tenant prefix of <subdomain>.atlassian.net").
				Placeholder("acme").
				Value(&cfg.Subdomain).
				Validate(validateRequired("Subdomain")),
			huh.NewInput().
				Title("Default project key").
				Description("Optional").
				Value(&cfg.ProjectKey),
			huh.NewSelect[string]().
				Title("Default issue type").
				Options(huh.NewOptions(commonIssueTypes...)...).
				Value(&cfg.IssueType),
			huh.NewInput().
				Title("Summary prefix").
				Description("Optional text prepended to every summary").
				Value(&cfg.SummaryPrefix),
		),
	)
}

// PromptConfig edits the Jira section of cfg interactively.
func PromptConfig(cfg *model.JiraConfig) error {
	return run(BuildConfigForm(cfg))
}

func run(f *huh.Form) error {
	if err := f.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return fmt.Errorf("running prompt: %w", err)
	}
	return nil
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("assignee email is required")
	}
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return fmt.Errorf("%q is not an email address", s)
	}
	return nil
}
