package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
)

// ErrInsufficientFunds is returned when the conditional debit matches no row,
// leaving the balance untouched.
var ErrInsufficientFunds = errors.New("insufficient funds")

type SubscriptionRepository interface {
	Purchase(ctx context.Context, userID uuid.UUID, costCents int64) (*model.Subscription, bool, error)
	HasActive(ctx context.Context, userID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Subscription, error)
	SweepExpired(ctx context.Context) (int64, error)
}

type postgresSubscriptionRepository struct {
	db *sqlx.DB
}

func NewPostgresSubscriptionRepository(db *sqlx.DB) SubscriptionRepository {
	return &postgresSubscriptionRepository{db: db}
}

// Purchase debits the balance and extends or creates the subscription in one
// transaction. The debit is conditional on sufficient funds, so a concurrent
// double purchase can never overdraw. The second return value reports whether
// an existing subscription was renewed in place.
func (r *postgresSubscriptionRepository) Purchase(ctx context.Context, userID uuid.UUID, costCents int64) (*model.Subscription, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET balance_cents = balance_cents - $2, updated_at = now() WHERE id = $1 AND balance_cents >= $2`,
		userID, costCents,
	)
	if err != nil {
		return nil, false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	if affected == 0 {
		return nil, false, ErrInsufficientFunds
	}

	var active model.Subscription
	err = tx.GetContext(ctx, &active,
		`SELECT id, user_id, start_date, end_date, cost_cents, is_active
		 FROM subscriptions
		 WHERE user_id = $1 AND is_active AND end_date > now()
		 ORDER BY end_date DESC
		 LIMIT 1
		 FOR UPDATE`,
		userID,
	)

	if err == nil {
		// Renewal path: extend the existing row, no second row created.
		err = tx.GetContext(ctx, &active.EndDate,
			`UPDATE subscriptions SET end_date = end_date + interval '30 days' WHERE id = $1 RETURNING end_date`,
			active.ID,
		)
		if err != nil {
			return nil, false, err
		}

		if err := tx.Commit(); err != nil {
			return nil, false, err
		}

		return &active, true, nil
	}

	if err != sql.ErrNoRows {
		return nil, false, err
	}

	sub := &model.Subscription{
		UserID:    userID,
		CostCents: costCents,
		IsActive:  true,
	}
	row := tx.QueryRowxContext(ctx,
		`INSERT INTO subscriptions (user_id, end_date, cost_cents, is_active)
		 VALUES ($1, now() + interval '30 days', $2, TRUE)
		 RETURNING id, start_date, end_date`,
		userID, costCents,
	)
	if err := row.Scan(&sub.ID, &sub.StartDate, &sub.EndDate); err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	return sub, false, nil
}

// HasActive checks entitlement live against end_date rather than trusting the
// flag alone, so a stale sweep never grants access past expiry.
func (r *postgresSubscriptionRepository) HasActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM subscriptions WHERE user_id = $1 AND is_active AND end_date > now())`
	err := r.db.GetContext(ctx, &exists, query, userID)
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}
	return exists, nil
}

func (r *postgresSubscriptionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Subscription, error) {
	var subs []model.Subscription
	query := `
		SELECT id, user_id, start_date, end_date, cost_cents, is_active
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY start_date DESC
	`
	err := r.db.SelectContext(ctx, &subs, query, userID)

	if subs == nil {
		subs = []model.Subscription{}
	}

	return subs, err
}

// SweepExpired deactivates rows whose end_date is in the past at statement
// time. A renewal that already pushed end_date forward is never touched, and
// rerunning the sweep is a no-op.
func (r *postgresSubscriptionRepository) SweepExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE subscriptions SET is_active = FALSE WHERE end_date < now() AND is_active`)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
