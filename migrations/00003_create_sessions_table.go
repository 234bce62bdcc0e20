package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateSessionsTable, downCreateSessionsTable)
}

func upCreateSessionsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE sessions (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  name TEXT UNIQUE NOT NULL,
	  description TEXT NOT NULL DEFAULT '',
	  instructor_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  duration_min INTEGER NOT NULL,
	  start_at TIMESTAMP WITH TIME ZONE NOT NULL,
	  capacity INTEGER NOT NULL DEFAULT 20,
	  completed BOOLEAN NOT NULL DEFAULT FALSE,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  CONSTRAINT check_capacity_positive CHECK (capacity > 0),
	  CONSTRAINT check_duration_positive CHECK (duration_min > 0)
	);

	CREATE INDEX idx_sessions_start_at ON sessions (start_at);
	CREATE INDEX idx_sessions_instructor ON sessions (instructor_id);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateSessionsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS sessions;`)
	return err
}
