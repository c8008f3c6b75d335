package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_people",
		SQL: `CREATE TABLE IF NOT EXISTS people (
  email        TEXT PRIMARY KEY,
  given_name   TEXT NOT NULL DEFAULT '',
  family_name  TEXT NOT NULL DEFAULT '',
  display_name TEXT NOT NULL DEFAULT '',
  photo_url    TEXT NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_index_people_email_lower",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_people_email_lower ON people (lower(email));`,
	},
	{
		Name: "create_table_groups",
		SQL: `CREATE TABLE IF NOT EXISTS groups (
  email TEXT PRIMARY KEY,
  name  TEXT NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id            TEXT    PRIMARY KEY,
  is_draft      BOOLEAN NOT NULL DEFAULT false,
  title         TEXT    NOT NULL,
  doc_type      TEXT    NOT NULL DEFAULT '',
  doc_number    TEXT    NOT NULL DEFAULT '',
  product       TEXT    NOT NULL DEFAULT '',
  status        TEXT    NOT NULL DEFAULT '',
  summary       TEXT    NOT NULL DEFAULT '',
  owners        JSONB   NOT NULL DEFAULT '[]',
  approvers     JSONB   NOT NULL DEFAULT '[]',
  contributors  JSONB   NOT NULL DEFAULT '[]',
  created_time  BIGINT  NOT NULL DEFAULT 0,
  modified_time BIGINT  NOT NULL DEFAULT 0
);`,
	},
	{
		Name: "create_index_documents_modified_time",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_modified_time ON documents (is_draft, modified_time DESC);`,
	},
	{
		Name: "create_index_documents_owners",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_owners ON documents USING GIN (owners);`,
	},
	{
		Name: "create_table_projects",
		SQL: `CREATE TABLE IF NOT EXISTS projects (
  id            INTEGER PRIMARY KEY,
  title         TEXT    NOT NULL,
  status        TEXT    NOT NULL DEFAULT 'active',
  description   TEXT    NOT NULL DEFAULT '',
  creator       TEXT    NOT NULL DEFAULT '',
  jira_issue_id TEXT    NOT NULL DEFAULT '',
  products      JSONB   NOT NULL DEFAULT '[]',
  created_time  BIGINT  NOT NULL DEFAULT 0,
  modified_time BIGINT  NOT NULL DEFAULT 0
);`,
	},
}

// EnsureMigrated creates the mock backend schema unless the sentinel
// 'projects' table, created last, already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass('public.projects') IS NOT NULL").Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Duration("duration_ms", time.Since(start)),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "schema already exists"),
			zap.Duration("duration_ms", time.Since(start)),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Duration("duration_ms", time.Since(start)),
				zap.Duration("step_duration_ms", time.Since(stepStart)),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Duration("step_duration_ms", time.Since(stepStart)),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Duration("duration_ms", time.Since(start)),
	)
	return nil
}
