package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateUserDeviceTokensTable, downCreateUserDeviceTokensTable)
}

func upCreateUserDeviceTokensTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE user_device_tokens (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  device_token TEXT UNIQUE NOT NULL,
	  platform TEXT NOT NULL DEFAULT 'ios',
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  CONSTRAINT check_platform CHECK (platform IN ('ios', 'android'))
	);

	CREATE INDEX idx_device_tokens_user ON user_device_tokens (user_id);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateUserDeviceTokensTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS user_device_tokens;`)
	return err
}
