package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
)

type ProfileUpdate struct {
	Biography *string
	AvatarURL *string
}

type ProfileRepository interface {
	Create(ctx context.Context, userID uuid.UUID) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.UserProfile, error)
	Update(ctx context.Context, userID uuid.UUID, update ProfileUpdate) error
	RecomputeStats(ctx context.Context, userID uuid.UUID) error
}

type postgresProfileRepository struct {
	db *sqlx.DB
}

func NewPostgresProfileRepository(db *sqlx.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

func (r *postgresProfileRepository) Create(ctx context.Context, userID uuid.UUID) error {
	query := `INSERT INTO user_profiles (user_id) VALUES ($1)`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *postgresProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.UserProfile, error) {
	var profile model.UserProfile
	query := `SELECT id, user_id, biography, avatar_url, sessions_attended, total_minutes, updated_at FROM user_profiles WHERE user_id = $1`
	err := r.db.GetContext(ctx, &profile, query, userID)

	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *postgresProfileRepository) Update(ctx context.Context, userID uuid.UUID, update ProfileUpdate) error {
	var setClauses []string
	var args []interface{}
	argId := 1

	if update.Biography != nil {
		setClauses = append(setClauses, fmt.Sprintf("biography = $%d", argId))
		args = append(args, *update.Biography)
		argId++
	}
	if update.AvatarURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("avatar_url = $%d", argId))
		args = append(args, *update.AvatarURL)
		argId++
	}

	if len(setClauses) == 0 {
		return nil
	}

	setClauses = append(setClauses, "updated_at = now()")

	query := fmt.Sprintf("UPDATE user_profiles SET %s WHERE user_id = $%d", strings.Join(setClauses, ", "), argId)
	args = append(args, userID)

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// RecomputeStats rebuilds attendance counters from completed enrollments.
// Recompute-from-source keeps repeated completions idempotent.
func (r *postgresProfileRepository) RecomputeStats(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE user_profiles p
		SET sessions_attended = stats.attended,
		    total_minutes = stats.minutes,
		    updated_at = now()
		FROM (
			SELECT COUNT(*) AS attended, COALESCE(SUM(s.duration_min), 0) AS minutes
			FROM enrollments e
			JOIN sessions s ON s.id = e.session_id
			WHERE e.user_id = $1 AND s.completed
		) AS stats
		WHERE p.user_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
