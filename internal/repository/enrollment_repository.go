package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
)

// ErrCapacityReached is returned when an enrollment would exceed the
// session's capacity, decided under a row lock on the session.
var ErrCapacityReached = errors.New("session capacity reached")

type EnrollmentRepository interface {
	Enroll(ctx context.Context, sessionID, userID uuid.UUID) (*model.Enrollment, error)
	FindByID(ctx context.Context, enrollmentID uuid.UUID) (*model.Enrollment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.EnrollmentDetails, error)
	DeleteOwned(ctx context.Context, enrollmentID, userID uuid.UUID) (bool, error)
	Exists(ctx context.Context, userID, sessionID uuid.UUID) (bool, error)
	HasCompletedWithInstructor(ctx context.Context, userID, instructorID uuid.UUID) (bool, error)
}

type postgresEnrollmentRepository struct {
	db *sqlx.DB
}

func NewPostgresEnrollmentRepository(db *sqlx.DB) EnrollmentRepository {
	return &postgresEnrollmentRepository{db: db}
}

// Enroll inserts the admission record inside one transaction: the session row
// is locked, the current count is compared against capacity, then the row is
// inserted. The unique (user_id, session_id) index backstops concurrent
// double-submits; callers translate that violation into a conflict.
func (r *postgresEnrollmentRepository) Enroll(ctx context.Context, sessionID, userID uuid.UUID) (*model.Enrollment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var capacity int
	err = tx.GetContext(ctx, &capacity, `SELECT capacity FROM sessions WHERE id = $1 FOR UPDATE`, sessionID)
	if err != nil {
		return nil, err
	}

	var count int
	err = tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM enrollments WHERE session_id = $1`, sessionID)
	if err != nil {
		return nil, err
	}

	if count >= capacity {
		return nil, ErrCapacityReached
	}

	enrollment := &model.Enrollment{
		UserID:    userID,
		SessionID: sessionID,
	}

	query := `
		INSERT INTO enrollments (user_id, session_id)
		VALUES ($1, $2)
		RETURNING id, enrolled_at
	`
	row := tx.QueryRowxContext(ctx, query, userID, sessionID)
	if err := row.Scan(&enrollment.ID, &enrollment.EnrolledAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return enrollment, nil
}

func (r *postgresEnrollmentRepository) FindByID(ctx context.Context, enrollmentID uuid.UUID) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	query := `SELECT id, user_id, session_id, enrolled_at FROM enrollments WHERE id = $1`
	err := r.db.GetContext(ctx, &enrollment, query, enrollmentID)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &enrollment, nil
}

func (r *postgresEnrollmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.EnrollmentDetails, error) {
	var enrollments []model.EnrollmentDetails
	query := `
		SELECT e.id, e.session_id, s.name AS session_name, s.start_at, s.duration_min, s.completed, e.enrolled_at
		FROM enrollments e
		JOIN sessions s ON s.id = e.session_id
		WHERE e.user_id = $1
		ORDER BY e.enrolled_at DESC
	`
	err := r.db.SelectContext(ctx, &enrollments, query, userID)

	if enrollments == nil {
		enrollments = []model.EnrollmentDetails{}
	}

	return enrollments, err
}

// DeleteOwned removes the enrollment only when it belongs to userID and
// reports whether a row was deleted.
func (r *postgresEnrollmentRepository) DeleteOwned(ctx context.Context, enrollmentID, userID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1 AND user_id = $2`, enrollmentID, userID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *postgresEnrollmentRepository) Exists(ctx context.Context, userID, sessionID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM enrollments WHERE user_id = $1 AND session_id = $2)`
	err := r.db.GetContext(ctx, &exists, query, userID, sessionID)
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}
	return exists, nil
}

func (r *postgresEnrollmentRepository) HasCompletedWithInstructor(ctx context.Context, userID, instructorID uuid.UUID) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM enrollments e
			JOIN sessions s ON s.id = e.session_id
			WHERE e.user_id = $1 AND s.instructor_id = $2 AND s.completed
		)
	`
	err := r.db.GetContext(ctx, &exists, query, userID, instructorID)
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}
	return exists, nil
}
