package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateRatingsTables, downCreateRatingsTables)
}

func upCreateRatingsTables(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE ratings (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  session_id UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	  user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  score INTEGER NOT NULL,
	  comment TEXT,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  UNIQUE (session_id, user_id),
	  CONSTRAINT check_score_range CHECK (score BETWEEN 1 AND 5)
	);

	CREATE TABLE instructor_ratings (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  instructor_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  score INTEGER NOT NULL,
	  comment TEXT NOT NULL,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  UNIQUE (user_id, instructor_id),
	  CONSTRAINT check_instructor_score_range CHECK (score BETWEEN 1 AND 5)
	);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateRatingsTables(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		DROP TABLE IF EXISTS instructor_ratings;
		DROP TABLE IF EXISTS ratings;
	`)
	return err
}
