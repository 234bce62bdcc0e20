package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateUserProfilesTable, downCreateUserProfilesTable)
}

func upCreateUserProfilesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE user_profiles (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  user_id UUID UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  biography TEXT,
	  avatar_url TEXT,
	  sessions_attended INTEGER NOT NULL DEFAULT 0,
	  total_minutes INTEGER NOT NULL DEFAULT 0,
	  updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateUserProfilesTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS user_profiles;`)
	return err
}
