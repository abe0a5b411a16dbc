package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS issues (
	id             TEXT PRIMARY KEY,
	issue_id       TEXT NOT NULL,
	issue_key      TEXT NOT NULL,
	self           TEXT NOT NULL DEFAULT '',
	browse_url     TEXT NOT NULL DEFAULT '',
	tenant         TEXT NOT NULL,
	project_key    TEXT NOT NULL,
	summary        TEXT NOT NULL,
	assignee_email TEXT NOT NULL DEFAULT '',
	issue_type     TEXT NOT NULL,
	raw_response   TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_issues_project ON issues(project_key);
CREATE INDEX IF NOT EXISTS idx_issues_created ON issues(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE UNIQUE INDEX IF NOT EXISTS idx_issues_tenant_key ON issues(tenant, issue_key);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
