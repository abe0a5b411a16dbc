package store

import (
	"context"

	"github.com/nhle/jira-issues/internal/model"
)

// IssueFilter controls filtering and pagination for history queries.
// Results are ordered newest first.
type IssueFilter struct {
	ProjectKey *string
	Tenant     *string
	Limit      int
	Offset     int
}

// Store defines the persistence interface for the local history of
// created issues.
type Store interface {
	RecordIssue(ctx context.Context, issue *model.CreatedIssue) error
	GetIssueByKey(ctx context.Context, tenant, key string) (*model.CreatedIssue, error)
	ListIssues(ctx context.Context, filter IssueFilter) ([]model.CreatedIssue, error)
	CountIssues(ctx context.Context, filter IssueFilter) (int, error)
	Close() error
}
