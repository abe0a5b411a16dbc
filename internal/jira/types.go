package jira

import (
	"encoding/json"
	"strings"
)

// IssueRequest holds the parameters of a single issue creation.
type IssueRequest struct {
	ProjectKey    string
	Summary       string
	AssigneeEmail string
	IssueTypeName string
	Labels        []string
}

// payload converts the request into the body of POST /rest/api/2/issue.
func (r IssueRequest) payload() createIssuePayload {
	labels := r.Labels
	if labels == nil {
		labels = []string{}
	}
	return createIssuePayload{
		Fields: createIssueFields{
			Project:   ProjectRef{Key: r.ProjectKey},
			Summary:   r.Summary,
			IssueType: IssueTypeRef{Name: r.IssueTypeName},
			Assignee:  UserRef{EmailAddress: r.AssigneeEmail},
			Labels:    labels,
		},
	}
}

// createIssuePayload is the request body of POST /rest/api/2/issue.
type createIssuePayload struct {
	Fields createIssueFields `json:"fields"`
}

type createIssueFields struct {
	Project   ProjectRef   `json:"project"`
	Summary   string       `json:"summary"`
	IssueType IssueTypeRef `json:"issuetype"`
	Assignee  UserRef      `json:"assignee"`
	Labels    []string     `json:"labels"`
}

// ProjectRef references a project by key.
type ProjectRef struct {
	Key string `json:"key"`
}

// IssueTypeRef references an issue type by name (Bug, Story, etc.).
type IssueTypeRef struct {
	Name string `json:"name"`
}

// UserRef references a user by email address.
type UserRef struct {
	EmailAddress string `json:"emailAddress"`
}

// createIssueResponse is the response from POST /rest/api/2/issue. The
// id is kept raw since some instances send it as a number.
type createIssueResponse struct {
	ID   json.RawMessage `json:"id"`
	Key  string          `json:"key"`
	Self string          `json:"self"`
}

// idString returns the id as text whether it was a JSON string or number.
func (r createIssueResponse) idString() string {
	var s string
	if err := json.Unmarshal(r.ID, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(r.ID))
}

// IssueResult identifies a created issue. Raw is the response body
// exactly as Jira sent it; ID, Key and Self are empty when that body
// could not be decoded.
type IssueResult struct {
	ID   string
	Key  string
	Self string
	Raw  json.RawMessage
}

// ErrorResponse is the standard Jira error response format.
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}
