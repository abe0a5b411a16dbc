package form

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/jira-issues/internal/issue"
	"github.com/nhle/jira-issues/internal/model"
)

func TestMissingIssueFields(t *testing.T) {
	full := issue.Request{ProjectKey: "ENG", Summary: "Fix bug", AssigneeEmail: "a@b.com", IssueType: "Bug"}
	assert.False(t, MissingIssueFields(full))

	partial := full
	partial.Summary = "  "
	assert.True(t, MissingIssueFields(partial))
}

func TestBuildIssueForm(t *testing.T) {
	req := issue.Request{ProjectKey: "ENG"}
	assert.NotNil(t, BuildIssueForm(&req))
}

func TestBuildConfigForm(t *testing.T) {
	cfg := model.JiraConfig{IssueType: "Task"}
	assert.NotNil(t, BuildConfigForm(&cfg))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, validateEmail("a@b.com"))
	assert.Error(t, validateEmail(""))
	assert.Error(t, validateEmail("alice"))
	assert.Error(t, validateEmail("@b.com"))
	assert.Error(t, validateEmail("a@"))
}

func TestValidateRequired(t *testing.T) {
	v := validateRequired("Summary")
	assert.NoError(t, v("x"))
	assert.EqualError(t, v(" "), "Summary is required")
}
