package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type SessionParticipants struct {
	SessionName  string `db:"session_name" json:"session_name"`
	Participants int    `db:"participants" json:"participants"`
}

// StatsRepository serves the aggregates behind the instructor admin panel
// and the report endpoint.
type StatsRepository interface {
	CountUsers(ctx context.Context) (int, error)
	CountActiveSubscribers(ctx context.Context) (int, error)
	CountSessions(ctx context.Context) (int, error)
	CountSessionsByInstructor(ctx context.Context, instructorID uuid.UUID) (int, error)
	ParticipantsPerSession(ctx context.Context, instructorID uuid.UUID) ([]SessionParticipants, error)
}

type postgresStatsRepository struct {
	db *sqlx.DB
}

func NewPostgresStatsRepository(db *sqlx.DB) StatsRepository {
	return &postgresStatsRepository{db: db}
}

func (r *postgresStatsRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	return count, err
}

func (r *postgresStatsRepository) CountActiveSubscribers(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(DISTINCT user_id) FROM subscriptions WHERE is_active AND end_date > now()`)
	return count, err
}

func (r *postgresStatsRepository) CountSessions(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM sessions`)
	return count, err
}

func (r *postgresStatsRepository) CountSessionsByInstructor(ctx context.Context, instructorID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM sessions WHERE instructor_id = $1`, instructorID)
	return count, err
}

func (r *postgresStatsRepository) ParticipantsPerSession(ctx context.Context, instructorID uuid.UUID) ([]SessionParticipants, error) {
	var rows []SessionParticipants
	query := `
		SELECT s.name AS session_name, COUNT(e.id) AS participants
		FROM sessions s
		LEFT JOIN enrollments e ON e.session_id = s.id
		WHERE s.instructor_id = $1
		GROUP BY s.name
		ORDER BY s.name
	`
	err := r.db.SelectContext(ctx, &rows, query, instructorID)

	if rows == nil {
		rows = []SessionParticipants{}
	}

	return rows, err
}
