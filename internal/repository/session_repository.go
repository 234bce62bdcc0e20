package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
)

type PaginationMeta struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	TotalItems  int `json:"total_items"`
	PerPage     int `json:"per_page"`
}

type PaginatedSessions struct {
	Data []model.SessionDetails `json:"data"`
	Meta PaginationMeta         `json:"meta"`
}

type SessionUpdate struct {
	Description *string
	StartAt     *time.Time
	DurationMin *int
	Capacity    *int
}

type CalendarFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Technique string
}

type SessionRepository interface {
	Create(ctx context.Context, baseName string, session *model.Session) (*model.Session, error)
	FindByID(ctx context.Context, sessionID uuid.UUID) (*model.Session, error)
	List(ctx context.Context, page int, limit int) (*PaginatedSessions, error)
	Calendar(ctx context.Context, filter CalendarFilter) ([]model.SessionDetails, error)
	Update(ctx context.Context, sessionID uuid.UUID, update SessionUpdate) error
	Delete(ctx context.Context, sessionID uuid.UUID) error
	MarkCompleted(ctx context.Context, sessionID uuid.UUID) error
	EnrolledUserIDs(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, error)
	CountEnrolled(ctx context.Context, sessionID uuid.UUID) (int, error)
	AttachTechniques(ctx context.Context, sessionID uuid.UUID, techniqueIDs []uuid.UUID) error
	TechniquesForSession(ctx context.Context, sessionID uuid.UUID) ([]model.Technique, error)
	StartingBetween(ctx context.Context, from, to time.Time) ([]model.Session, error)
}

type postgresSessionRepository struct {
	db *sqlx.DB
}

func NewPostgresSessionRepository(db *sqlx.DB) SessionRepository {
	return &postgresSessionRepository{db: db}
}

// Create stores the session under a synthesized name "{base} #{n}" where n is
// one more than the number of sessions whose name starts with base. The
// count-then-format step is a known race under concurrent creates with the
// same base; the unique index on name surfaces the collision as a conflict.
func (r *postgresSessionRepository) Create(ctx context.Context, baseName string, session *model.Session) (*model.Session, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var count int
	err = tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM sessions WHERE name LIKE $1 || '%'`, baseName)
	if err != nil {
		return nil, err
	}

	session.Name = fmt.Sprintf("%s #%d", baseName, count+1)

	query := `
		INSERT INTO sessions (name, description, instructor_id, duration_min, start_at, capacity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	row := tx.QueryRowxContext(ctx, query,
		session.Name, session.Description, session.InstructorID,
		session.DurationMin, session.StartAt, session.Capacity,
	)
	if err := row.Scan(&session.ID, &session.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return session, nil
}

func (r *postgresSessionRepository) FindByID(ctx context.Context, sessionID uuid.UUID) (*model.Session, error) {
	var session model.Session
	query := `SELECT id, name, description, instructor_id, duration_min, start_at, capacity, completed, created_at FROM sessions WHERE id = $1`
	err := r.db.GetContext(ctx, &session, query, sessionID)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &session, nil
}

func (r *postgresSessionRepository) List(ctx context.Context, page int, limit int) (*PaginatedSessions, error) {
	var totalItems int
	err := r.db.GetContext(ctx, &totalItems, `SELECT COUNT(*) FROM sessions`)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	query := `
		SELECT
			s.id,
			s.name,
			s.description,
			s.instructor_id,
			COALESCE(u.name, '') AS instructor_name,
			s.duration_min,
			s.start_at,
			s.capacity,
			s.completed,
			(SELECT COUNT(*) FROM enrollments e WHERE e.session_id = s.id) AS enrolled_count
		FROM sessions s
		LEFT JOIN users u ON s.instructor_id = u.id
		ORDER BY s.created_at DESC
		LIMIT $1 OFFSET $2
	`

	var sessions []model.SessionDetails
	err = r.db.SelectContext(ctx, &sessions, query, limit, offset)
	if err != nil {
		return nil, err
	}

	if sessions == nil {
		sessions = []model.SessionDetails{}
	}

	totalPages := (totalItems + limit - 1) / limit

	return &PaginatedSessions{
		Data: sessions,
		Meta: PaginationMeta{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  totalItems,
			PerPage:     limit,
		},
	}, nil
}

func (r *postgresSessionRepository) Calendar(ctx context.Context, filter CalendarFilter) ([]model.SessionDetails, error) {
	baseQuery := `
		SELECT
			s.id,
			s.name,
			s.description,
			s.instructor_id,
			COALESCE(u.name, '') AS instructor_name,
			s.duration_min,
			s.start_at,
			s.capacity,
			s.completed,
			(SELECT COUNT(*) FROM enrollments e WHERE e.session_id = s.id) AS enrolled_count
		FROM sessions s
		LEFT JOIN users u ON s.instructor_id = u.id
		WHERE 1=1
	`

	args := []interface{}{}
	argId := 1
	if filter.StartDate != nil {
		baseQuery += fmt.Sprintf(" AND s.start_at >= $%d", argId)
		args = append(args, *filter.StartDate)
		argId++
	}
	if filter.EndDate != nil {
		baseQuery += fmt.Sprintf(" AND s.start_at < $%d", argId)
		args = append(args, *filter.EndDate)
		argId++
	}
	if filter.Technique != "" {
		baseQuery += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM session_techniques st
			JOIN techniques t ON t.id = st.technique_id
			WHERE st.session_id = s.id AND t.name = $%d
		)`, argId)
		args = append(args, filter.Technique)
		argId++
	}

	baseQuery += " ORDER BY s.start_at ASC"

	var sessions []model.SessionDetails
	err := r.db.SelectContext(ctx, &sessions, baseQuery, args...)
	if err != nil {
		return nil, err
	}

	if sessions == nil {
		sessions = []model.SessionDetails{}
	}

	return sessions, nil
}

func (r *postgresSessionRepository) Update(ctx context.Context, sessionID uuid.UUID, update SessionUpdate) error {
	setClauses := []string{}
	args := []interface{}{}
	argId := 1

	if update.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argId))
		args = append(args, *update.Description)
		argId++
	}
	if update.StartAt != nil {
		setClauses = append(setClauses, fmt.Sprintf("start_at = $%d", argId))
		args = append(args, *update.StartAt)
		argId++
	}
	if update.DurationMin != nil {
		setClauses = append(setClauses, fmt.Sprintf("duration_min = $%d", argId))
		args = append(args, *update.DurationMin)
		argId++
	}
	if update.Capacity != nil {
		setClauses = append(setClauses, fmt.Sprintf("capacity = $%d", argId))
		args = append(args, *update.Capacity)
		argId++
	}

	if len(setClauses) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE sessions SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argId)
	args = append(args, sessionID)

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *postgresSessionRepository) Delete(ctx context.Context, sessionID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	return err
}

// MarkCompleted is a one-way transition; completed sessions stay completed.
func (r *postgresSessionRepository) MarkCompleted(ctx context.Context, sessionID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sessions SET completed = TRUE WHERE id = $1`, sessionID)
	return err
}

func (r *postgresSessionRepository) EnrolledUserIDs(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT user_id FROM enrollments WHERE session_id = $1`
	err := r.db.SelectContext(ctx, &ids, query, sessionID)
	return ids, err
}

func (r *postgresSessionRepository) CountEnrolled(ctx context.Context, sessionID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM enrollments WHERE session_id = $1`
	err := r.db.GetContext(ctx, &count, query, sessionID)

	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *postgresSessionRepository) AttachTechniques(ctx context.Context, sessionID uuid.UUID, techniqueIDs []uuid.UUID) error {
	for _, techniqueID := range techniqueIDs {
		query := `
			INSERT INTO session_techniques (session_id, technique_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`
		if _, err := r.db.ExecContext(ctx, query, sessionID, techniqueID); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresSessionRepository) TechniquesForSession(ctx context.Context, sessionID uuid.UUID) ([]model.Technique, error) {
	var techniques []model.Technique
	query := `
		SELECT t.id, t.name, t.description, t.instructor_id
		FROM techniques t
		JOIN session_techniques st ON st.technique_id = t.id
		WHERE st.session_id = $1
		ORDER BY t.name
	`
	err := r.db.SelectContext(ctx, &techniques, query, sessionID)
	return techniques, err
}

func (r *postgresSessionRepository) StartingBetween(ctx context.Context, from, to time.Time) ([]model.Session, error) {
	var sessions []model.Session
	query := `
		SELECT id, name, description, instructor_id, duration_min, start_at, capacity, completed, created_at
		FROM sessions
		WHERE start_at >= $1 AND start_at < $2
		ORDER BY start_at ASC
	`
	err := r.db.SelectContext(ctx, &sessions, query, from, to)
	return sessions, err
}
