package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/jira-issues/internal/model"
)

// ErrIssueNotFound is returned when a history lookup has no match.
var ErrIssueNotFound = errors.New("issue not found")

const issueColumns = `id, issue_id, issue_key, self, browse_url, tenant,
	project_key, summary, assignee_email, issue_type, raw_response, created_at`

// RecordIssue appends a created issue to the history. A missing ID is
// generated and a zero CreatedAt is set to now.
func (s *SQLiteStore) RecordIssue(ctx context.Context, issue *model.CreatedIssue) error {
	if strings.TrimSpace(issue.IssueKey) == "" {
		return fmt.Errorf("issue key must not be empty")
	}
	if issue.ID == "" {
		issue.ID = uuid.New().String()
	}
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO issues (`+issueColumns+`)
		VALUES (
			:id, :issue_id, :issue_key, :self, :browse_url, :tenant,
			:project_key, :summary, :assignee_email, :issue_type, :raw_response, :created_at
		)`,
		issue,
	)
	if err != nil {
		return fmt.Errorf("recording issue %s: %w", issue.IssueKey, err)
	}
	return nil
}

// GetIssueByKey retrieves the history record of an issue in a tenant.
func (s *SQLiteStore) GetIssueByKey(
	ctx context.Context,
	tenant string,
	key string,
) (*model.CreatedIssue, error) {
	var issue model.CreatedIssue
	err := s.db.GetContext(ctx, &issue,
		"SELECT "+issueColumns+" FROM issues WHERE tenant = ? AND issue_key = ?",
		tenant, key,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting issue %s: %w", key, ErrIssueNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting issue %s: %w", key, err)
	}
	return &issue, nil
}

// ListIssues retrieves history records matching the filter, newest first.
func (s *SQLiteStore) ListIssues(
	ctx context.Context,
	filter IssueFilter,
) ([]model.CreatedIssue, error) {
	where, args := filter.where()

	query := "SELECT " + issueColumns + " FROM issues" + where +
		" ORDER BY created_at DESC, rowid DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	issues := []model.CreatedIssue{}
	if err := s.db.SelectContext(ctx, &issues, query, args...); err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}
	return issues, nil
}

// CountIssues returns the number of history records matching the filter,
// ignoring Limit and Offset.
func (s *SQLiteStore) CountIssues(ctx context.Context, filter IssueFilter) (int, error) {
	where, args := filter.where()

	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM issues"+where, args...); err != nil {
		return 0, fmt.Errorf("counting issues: %w", err)
	}
	return n, nil
}

// where builds the WHERE clause shared by list and count queries.
func (f IssueFilter) where() (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if f.ProjectKey != nil {
		conditions = append(conditions, "project_key = ?")
		args = append(args, *f.ProjectKey)
	}
	if f.Tenant != nil {
		conditions = append(conditions, "tenant = ?")
		args = append(args, *f.Tenant)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
