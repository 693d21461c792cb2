package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for all wfstage tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS stages (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		workflow_id   TEXT NOT NULL,
		workflow_type TEXT NOT NULL DEFAULT '',
		raw           TEXT NOT NULL,
		normalized    TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_stages_workflow_id ON stages(workflow_id)`,
	`CREATE INDEX IF NOT EXISTS idx_stages_created_at ON stages(created_at)`,
}

// migrate executes all schema DDL statements.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
