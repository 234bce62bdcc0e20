package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) (uuid.UUID, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	AddFunds(ctx context.Context, id uuid.UUID, amountCents int64) (int64, error)
	RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token, platform string) error
	ListDeviceTokens(ctx context.Context, userID uuid.UUID, platform string) ([]string, error)
}

type postgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *model.User) (uuid.UUID, error) {
	query := `INSERT INTO users (email, password_hash, name, role) VALUES ($1, $2, $3, $4) RETURNING id`
	var newID uuid.UUID
	err := r.db.QueryRowxContext(ctx, query, user.Email, user.PasswordHash, user.Name, user.Role).Scan(&newID)

	if err != nil {
		return uuid.Nil, err
	}

	return newID, nil
}

func (r *postgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `SELECT id, email, password_hash, name, role, balance_cents, created_at, updated_at FROM users WHERE email = $1`
	err := r.db.GetContext(ctx, &user, query, email)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *postgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	query := `SELECT id, email, password_hash, name, role, balance_cents, created_at, updated_at FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// AddFunds credits the balance atomically and returns the new amount.
func (r *postgresUserRepository) AddFunds(ctx context.Context, id uuid.UUID, amountCents int64) (int64, error) {
	query := `UPDATE users SET balance_cents = balance_cents + $2, updated_at = now() WHERE id = $1 RETURNING balance_cents`
	var balance int64
	err := r.db.GetContext(ctx, &balance, query, id, amountCents)

	if err != nil {
		return 0, err
	}

	return balance, nil
}

// RegisterDeviceToken reassigns a token that moved between accounts on the
// same device instead of failing on the uniqueness constraint.
func (r *postgresUserRepository) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token, platform string) error {
	query := `
		INSERT INTO user_device_tokens (user_id, device_token, platform)
		VALUES ($1, $2, $3)
		ON CONFLICT (device_token) DO UPDATE SET user_id = $1, platform = $3
	`
	_, err := r.db.ExecContext(ctx, query, userID, token, platform)
	return err
}

func (r *postgresUserRepository) ListDeviceTokens(ctx context.Context, userID uuid.UUID, platform string) ([]string, error) {
	var tokens []string
	query := `SELECT device_token FROM user_device_tokens WHERE user_id = $1 AND platform = $2`
	err := r.db.SelectContext(ctx, &tokens, query, userID, platform)
	return tokens, err
}
