// Package issue turns user input into a single Jira issue creation and
// keeps a local record of what was created.
package issue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nhle/jira-issues/internal/jira"
	"github.com/nhle/jira-issues/internal/model"
)

// Creator creates issues in Jira. *jira.IssueClient implements it.
type Creator interface {
	CreateIssue(
		ctx context.Context,
		projectKey string,
		summary string,
		assigneeEmail string,
		issueTypeName string,
	) (*jira.IssueResult, error)
	BrowseURL(key string) string
}

// Recorder stores created issues. *store.SQLiteStore implements it.
type Recorder interface {
	RecordIssue(ctx context.Context, issue *model.CreatedIssue) error
}

// ErrInvalidRequest wraps every validation failure.
var ErrInvalidRequest = errors.New("invalid issue request")

// Request is the user's description of the issue to create.
type Request struct {
	ProjectKey    string
	Summary       string
	AssigneeEmail string
	IssueType     string
}

// Normalize trims surrounding whitespace from every field.
func (r Request) Normalize() Request {
	return Request{
		ProjectKey:    strings.TrimSpace(r.ProjectKey),
		Summary:       strings.TrimSpace(r.Summary),
		AssigneeEmail: strings.TrimSpace(r.AssigneeEmail),
		IssueType:     strings.TrimSpace(r.IssueType),
	}
}

// Validate reports the first missing or malformed field. Whether the
// assignee exists is for Jira to decide.
func (r Request) Validate() error {
	switch {
	case r.ProjectKey == "":
		return fmt.Errorf("%w: project key is required", ErrInvalidRequest)
	case r.Summary == "":
		return fmt.Errorf("%w: summary is required", ErrInvalidRequest)
	case r.AssigneeEmail == "":
		return fmt.Errorf("%w: assignee email is required", ErrInvalidRequest)
	case !strings.Contains(r.AssigneeEmail, "@"):
		return fmt.Errorf("%w: assignee %q is not an email address", ErrInvalidRequest, r.AssigneeEmail)
	case r.IssueType == "":
		return fmt.Errorf("%w: issue type is required", ErrInvalidRequest)
	}
	return nil
}

// Defaults fills blank request fields.
type Defaults struct {
	ProjectKey    string
	IssueType     string
	SummaryPrefix string
}

// Service creates issues and records them.
type Service struct {
	client   Creator
	recorder Recorder
	tenant   string
	defaults Defaults
	logger   *slog.Logger
}

// NewService builds a Service. recorder may be nil to skip the history;
// logger may be nil to discard logs.
func NewService(
	client Creator,
	recorder Recorder,
	tenant string,
	defaults Defaults,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		client:   client,
		recorder: recorder,
		tenant:   tenant,
		defaults: defaults,
		logger:   logger,
	}
}

// Prepare applies defaults, validates, then prepends the summary prefix.
// The prefix is added on every call.
func (s *Service) Prepare(req Request) (Request, error) {
	req = req.Normalize()
	if req.ProjectKey == "" {
		req.ProjectKey = s.defaults.ProjectKey
	}
	if req.IssueType == "" {
		req.IssueType = s.defaults.IssueType
	}
	if err := req.Validate(); err != nil {
		return req, err
	}
	if prefix := strings.TrimSpace(s.defaults.SummaryPrefix); prefix != "" {
		req.Summary = fmt.Sprintf("%s %s", prefix, req.Summary)
	}
	return req, nil
}

// Create creates exactly one issue. Jira errors are returned as is, so
// callers can inspect jira.ServiceError and jira.RequestFailedError. A
// failure to record the created issue is logged and does not fail the
// call.
func (s *Service) Create(ctx context.Context, req Request) (*model.CreatedIssue, error) {
	req, err := s.Prepare(req)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(
		"tenant", s.tenant,
		"project", req.ProjectKey,
		"issueType", req.IssueType,
	)
	log.Debug("creating jira issue", "summary", req.Summary, "assignee", req.AssigneeEmail)

	res, err := s.client.CreateIssue(ctx, req.ProjectKey, req.Summary, req.AssigneeEmail, req.IssueType)
	if err != nil {
		if svcErr, ok := jira.AsServiceError(err); ok {
			log.Error("jira rejected issue", "status", svcErr.StatusCode, "body", string(svcErr.Body))
		} else {
			log.Error("creating jira issue failed", "err", err)
		}
		return nil, err
	}

	created := &model.CreatedIssue{
		IssueID:       res.ID,
		IssueKey:      res.Key,
		Self:          res.Self,
		Tenant:        s.tenant,
		ProjectKey:    req.ProjectKey,
		Summary:       req.Summary,
		AssigneeEmail: req.AssigneeEmail,
		IssueType:     req.IssueType,
		RawResponse:   string(res.Raw),
	}
	if res.Key == "" {
		// Jira accepted the request but its body named no key; the issue
		// exists, so this is still a success.
		log.Warn("jira issue created without a readable key", "body", string(res.Raw))
		return created, nil
	}
	created.BrowseURL = s.client.BrowseURL(res.Key)
	log.Info("jira issue created", "key", res.Key, "id", res.ID)

	if s.recorder != nil {
		if err := s.recorder.RecordIssue(ctx, created); err != nil {
			log.Warn("recording created issue failed", "key", res.Key, "err", err)
		}
	}

	return created, nil
}
