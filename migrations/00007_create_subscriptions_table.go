package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateSubscriptionsTable, downCreateSubscriptionsTable)
}

func upCreateSubscriptionsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE subscriptions (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  start_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	  end_date TIMESTAMP WITH TIME ZONE NOT NULL,
	  cost_cents BIGINT NOT NULL,
	  is_active BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE INDEX idx_subscriptions_user_active ON subscriptions (user_id, is_active);
	CREATE INDEX idx_subscriptions_end_date ON subscriptions (end_date) WHERE is_active;
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateSubscriptionsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS subscriptions;`)
	return err
}
