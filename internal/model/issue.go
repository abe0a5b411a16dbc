package model

import "time"

// CreatedIssue is the local record of an issue created through this tool.
type CreatedIssue struct {
	// ID is the internal unique identifier of the record.
	ID string `json:"id" db:"id"`

	// IssueID is Jira's numeric issue id.
	IssueID string `json:"issue_id" db:"issue_id"`

	// IssueKey is the human-readable key (e.g., ENG-24).
	IssueKey string `json:"issue_key" db:"issue_key"`

	// Self is the REST URL of the issue as returned by Jira.
	Self string `json:"self" db:"self"`

	// BrowseURL is the web link of the issue.
	BrowseURL string `json:"browse_url" db:"browse_url"`

	// Tenant is the subdomain or base URL the issue was created in.
	Tenant string `json:"tenant" db:"tenant"`

	ProjectKey    string `json:"project_key" db:"project_key"`
	Summary       string `json:"summary" db:"summary"`
	AssigneeEmail string `json:"assignee_email" db:"assignee_email"`
	IssueType     string `json:"issue_type" db:"issue_type"`

	// RawResponse is Jira's response body, unmodified.
	RawResponse string `json:"raw_response" db:"raw_response"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
