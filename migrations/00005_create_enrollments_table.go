package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateEnrollmentsTable, downCreateEnrollmentsTable)
}

func upCreateEnrollmentsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE enrollments (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  session_id UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	  enrolled_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  UNIQUE (user_id, session_id)
	);

	CREATE INDEX idx_enrollments_session ON enrollments (session_id);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateEnrollmentsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS enrollments;`)
	return err
}
