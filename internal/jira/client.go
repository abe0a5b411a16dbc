package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// cloudDomain is the host suffix of Jira Cloud tenants.
	cloudDomain = "atlassian.net"

	// apiVersion is the REST API version used for issue creation.
	apiVersion = "2"

	defaultTimeout = 30 * time.Second
)

// IssueClient creates issues in a single Jira tenant. The token and the
// tenant address are fixed at construction, so one client may be shared
// by concurrent callers.
type IssueClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option customizes an IssueClient at construction time.
type Option func(*IssueClient)

// WithHTTPClient replaces the default HTTP client. Timeouts and
// cancellation are the transport's business.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *IssueClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL points the client at an explicit root URL instead of
// https://<subdomain>.atlassian.net.
func WithBaseURL(baseURL string) Option {
	return func(c *IssueClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// NewIssueClient creates a client for the tenant identified by subdomain,
// authenticating every request with token as a Bearer credential.
func NewIssueClient(token, subdomain string, opts ...Option) *IssueClient {
	c := &IssueClient{
		baseURL: TenantURL(subdomain),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TenantURL returns the root URL of a Jira Cloud tenant.
func TenantURL(subdomain string) string {
	return fmt.Sprintf("https://%s.%s", subdomain, cloudDomain)
}

// BaseURL returns the root URL every request is sent to.
func (c *IssueClient) BaseURL() string {
	return c.baseURL
}

// BrowseURL returns the web link of an issue.
func (c *IssueClient) BrowseURL(key string) string {
	return c.baseURL + "/browse/" + key
}

// CreateIssue creates one issue in projectKey assigned to the user with
// assigneeEmail. The call is not idempotent: every invocation creates a
// new issue, and failures are returned without retrying.
func (c *IssueClient) CreateIssue(
	ctx context.Context,
	projectKey string,
	summary string,
	assigneeEmail string,
	issueTypeName string,
) (*IssueResult, error) {
	req := IssueRequest{
		ProjectKey:    projectKey,
		Summary:       summary,
		AssigneeEmail: assigneeEmail,
		IssueTypeName: issueTypeName,
		Labels:        []string{},
	}

	raw, err := c.post(ctx, "/rest/api/"+apiVersion+"/issue", req.payload())
	if err != nil {
		return nil, err
	}

	// The issue exists once Jira answered 2xx, so an unexpected body is
	// not an error.
	res := &IssueResult{Raw: json.RawMessage(raw)}
	var created createIssueResponse
	if err := json.Unmarshal(raw, &created); err == nil {
		res.ID = created.idString()
		res.Key = created.Key
		res.Self = created.Self
	}
	return res, nil
}

// post sends a single JSON POST and returns the raw response body of a
// successful (2xx) response.
func (c *IssueClient) post(
	ctx context.Context,
	path string,
	body interface{},
) ([]byte, error) {
	url := c.baseURL + path

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, url, bytes.NewReader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestFailedError{
			Method: http.MethodPost,
			URL:    url,
			Err:    err,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestFailedError{
			Method: http.MethodPost,
			URL:    url,
			Err:    fmt.Errorf("reading response body: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newServiceError(resp.StatusCode, respBody)
	}

	return respBody, nil
}
