package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateMessagesTable, downCreateMessagesTable)
}

func upCreateMessagesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE messages (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  receiver_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  content TEXT NOT NULL,
	  is_read BOOLEAN NOT NULL DEFAULT FALSE,
	  sent_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX idx_messages_receiver ON messages (receiver_id, sent_at DESC);
	CREATE INDEX idx_messages_sender ON messages (sender_id, sent_at DESC);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateMessagesTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS messages;`)
	return err
}
