package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
)

type RatingRepository interface {
	Create(ctx context.Context, rating *model.Rating) error
	Exists(ctx context.Context, userID, sessionID uuid.UUID) (bool, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Rating, error)
}

type postgresRatingRepository struct {
	db *sqlx.DB
}

func NewPostgresRatingRepository(db *sqlx.DB) RatingRepository {
	return &postgresRatingRepository{db: db}
}

func (r *postgresRatingRepository) Create(ctx context.Context, rating *model.Rating) error {
	query := `
		INSERT INTO ratings (session_id, user_id, score, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	row := r.db.QueryRowxContext(ctx, query, rating.SessionID, rating.UserID, rating.Score, rating.Comment)
	return row.Scan(&rating.ID, &rating.CreatedAt)
}

func (r *postgresRatingRepository) Exists(ctx context.Context, userID, sessionID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM ratings WHERE user_id = $1 AND session_id = $2)`
	err := r.db.GetContext(ctx, &exists, query, userID, sessionID)
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}
	return exists, nil
}

func (r *postgresRatingRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Rating, error) {
	var ratings []model.Rating
	query := `
		SELECT id, session_id, user_id, score, comment, created_at
		FROM ratings
		WHERE session_id = $1
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &ratings, query, sessionID)

	if ratings == nil {
		ratings = []model.Rating{}
	}

	return ratings, err
}
