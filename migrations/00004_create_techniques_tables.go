package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateTechniquesTables, downCreateTechniquesTables)
}

func upCreateTechniquesTables(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE techniques (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  name TEXT UNIQUE NOT NULL,
	  description TEXT NOT NULL DEFAULT '',
	  instructor_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE session_techniques (
	  session_id UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	  technique_id UUID NOT NULL REFERENCES techniques(id) ON DELETE CASCADE,
	  PRIMARY KEY (session_id, technique_id)
	);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateTechniquesTables(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		DROP TABLE IF EXISTS session_techniques;
		DROP TABLE IF EXISTS techniques;
	`)
	return err
}
