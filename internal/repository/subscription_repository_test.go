package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	repo "github.com/Kali2114/ZenithFlowAPI/internal/repository"
)

func TestPostgresSubscriptionRepository_Purchase_New(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresSubscriptionRepository(sqlxDB)

	userID := uuid.New()
	subID := uuid.New()
	start := time.Now()
	end := start.Add(30 * 24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET balance_cents = balance_cents - $2, updated_at = now() WHERE id = $1 AND balance_cents >= $2`)).
		WithArgs(userID, int64(12050)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, start_date, end_date, cost_cents, is_active
		 FROM subscriptions
		 WHERE user_id = $1 AND is_active AND end_date > now()
		 ORDER BY end_date DESC
		 LIMIT 1
		 FOR UPDATE`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO subscriptions (user_id, end_date, cost_cents, is_active)
		 VALUES ($1, now() + interval '30 days', $2, TRUE)
		 RETURNING id, start_date, end_date`)).
		WithArgs(userID, int64(12050)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "start_date", "end_date"}).AddRow(subID, start, end))
	mock.ExpectCommit()

	sub, renewed, err := r.Purchase(context.Background(), userID, 12050)
	require.NoError(t, err)
	require.False(t, renewed)
	require.Equal(t, subID, sub.ID)
	require.Equal(t, int64(12050), sub.CostCents)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSubscriptionRepository_Purchase_ExtendsActive(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresSubscriptionRepository(sqlxDB)

	userID := uuid.New()
	subID := uuid.New()
	start := time.Now().Add(-10 * 24 * time.Hour)
	end := time.Now().Add(20 * 24 * time.Hour)
	extended := end.Add(30 * 24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET balance_cents = balance_cents - $2, updated_at = now() WHERE id = $1 AND balance_cents >= $2`)).
		WithArgs(userID, int64(12050)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, start_date, end_date, cost_cents, is_active
		 FROM subscriptions
		 WHERE user_id = $1 AND is_active AND end_date > now()
		 ORDER BY end_date DESC
		 LIMIT 1
		 FOR UPDATE`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "start_date", "end_date", "cost_cents", "is_active"}).
			AddRow(subID, userID, start, end, int64(12050), true))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE subscriptions SET end_date = end_date + interval '30 days' WHERE id = $1 RETURNING end_date`)).
		WithArgs(subID).
		WillReturnRows(sqlmock.NewRows([]string{"end_date"}).AddRow(extended))
	mock.ExpectCommit()

	sub, renewed, err := r.Purchase(context.Background(), userID, 12050)
	require.NoError(t, err)
	require.True(t, renewed)
	require.Equal(t, subID, sub.ID)
	require.WithinDuration(t, extended, sub.EndDate, time.Second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSubscriptionRepository_Purchase_InsufficientFunds(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresSubscriptionRepository(sqlxDB)

	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET balance_cents = balance_cents - $2, updated_at = now() WHERE id = $1 AND balance_cents >= $2`)).
		WithArgs(userID, int64(12050)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, _, err := r.Purchase(context.Background(), userID, 12050)
	require.ErrorIs(t, err, repo.ErrInsufficientFunds)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSubscriptionRepository_SweepExpired(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresSubscriptionRepository(sqlxDB)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE subscriptions SET is_active = FALSE WHERE end_date < now() AND is_active`)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	swept, err := r.SweepExpired(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), swept)

	// Nothing left to sweep on the second pass.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE subscriptions SET is_active = FALSE WHERE end_date < now() AND is_active`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	swept, err = r.SweepExpired(context.Background())
	require.NoError(t, err)
	require.Zero(t, swept)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSubscriptionRepository_HasActive(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresSubscriptionRepository(sqlxDB)

	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM subscriptions WHERE user_id = $1 AND is_active AND end_date > now())`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	active, err := r.HasActive(context.Background(), userID)
	require.NoError(t, err)
	require.False(t, active)
	require.NoError(t, mock.ExpectationsWereMet())
}
