package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
)

type InstructorRatingRepository interface {
	Create(ctx context.Context, rating *model.InstructorRating) error
	FindByID(ctx context.Context, ratingID uuid.UUID) (*model.InstructorRating, error)
	Update(ctx context.Context, ratingID uuid.UUID, score int, comment string) error
	Delete(ctx context.Context, ratingID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.InstructorRating, error)
	ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]model.InstructorRating, error)
}

type postgresInstructorRatingRepository struct {
	db *sqlx.DB
}

func NewPostgresInstructorRatingRepository(db *sqlx.DB) InstructorRatingRepository {
	return &postgresInstructorRatingRepository{db: db}
}

func (r *postgresInstructorRatingRepository) Create(ctx context.Context, rating *model.InstructorRating) error {
	query := `
		INSERT INTO instructor_ratings (user_id, instructor_id, score, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	row := r.db.QueryRowxContext(ctx, query, rating.UserID, rating.InstructorID, rating.Score, rating.Comment)
	return row.Scan(&rating.ID, &rating.CreatedAt)
}

func (r *postgresInstructorRatingRepository) FindByID(ctx context.Context, ratingID uuid.UUID) (*model.InstructorRating, error) {
	var rating model.InstructorRating
	query := `SELECT id, user_id, instructor_id, score, comment, created_at FROM instructor_ratings WHERE id = $1`
	err := r.db.GetContext(ctx, &rating, query, ratingID)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &rating, nil
}

func (r *postgresInstructorRatingRepository) Update(ctx context.Context, ratingID uuid.UUID, score int, comment string) error {
	query := `UPDATE instructor_ratings SET score = $2, comment = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, ratingID, score, comment)
	return err
}

func (r *postgresInstructorRatingRepository) Delete(ctx context.Context, ratingID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM instructor_ratings WHERE id = $1`, ratingID)
	return err
}

func (r *postgresInstructorRatingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.InstructorRating, error) {
	var ratings []model.InstructorRating
	query := `
		SELECT id, user_id, instructor_id, score, comment, created_at
		FROM instructor_ratings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &ratings, query, userID)

	if ratings == nil {
		ratings = []model.InstructorRating{}
	}

	return ratings, err
}

func (r *postgresInstructorRatingRepository) ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]model.InstructorRating, error) {
	var ratings []model.InstructorRating
	query := `
		SELECT id, user_id, instructor_id, score, comment, created_at
		FROM instructor_ratings
		WHERE instructor_id = $1
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &ratings, query, instructorID)

	if ratings == nil {
		ratings = []model.InstructorRating{}
	}

	return ratings, err
}
