package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
	repo "github.com/Kali2114/ZenithFlowAPI/internal/repository"
)

func TestPostgresSessionRepository_Create_SynthesizesName(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresSessionRepository(sqlxDB)

	id := uuid.New()
	now := time.Now()

	// Two sessions share the base already, so the next one gets #3.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM sessions WHERE name LIKE $1 || '%'`)).
		WithArgs("Morning Meditation").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO sessions (name, description, instructor_id, duration_min, start_at, capacity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`)).WithArgs("Morning Meditation #3", sqlmock.AnyArg(), sqlmock.AnyArg(), 45, sqlmock.AnyArg(), 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id, now))
	mock.ExpectCommit()

	session := &model.Session{
		InstructorID: uuid.New(),
		DurationMin:  45,
		StartAt:      time.Now().Add(24 * time.Hour),
		Capacity:     20,
	}
	created, err := r.Create(context.Background(), "Morning Meditation", session)
	require.NoError(t, err)
	require.Equal(t, "Morning Meditation #3", created.Name)
	require.Equal(t, id, created.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSessionRepository_Create_FirstUse(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresSessionRepository(sqlxDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM sessions WHERE name LIKE $1 || '%'`)).
		WithArgs("Deep Rest").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO sessions (name, description, instructor_id, duration_min, start_at, capacity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`)).WithArgs("Deep Rest #1", sqlmock.AnyArg(), sqlmock.AnyArg(), 30, sqlmock.AnyArg(), 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.New(), time.Now()))
	mock.ExpectCommit()

	session := &model.Session{
		InstructorID: uuid.New(),
		DurationMin:  30,
		StartAt:      time.Now().Add(time.Hour),
		Capacity:     10,
	}
	created, err := r.Create(context.Background(), "Deep Rest", session)
	require.NoError(t, err)
	require.Equal(t, "Deep Rest #1", created.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSessionRepository_FindByID_NoRows(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresSessionRepository(sqlxDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, description, instructor_id, duration_min, start_at, capacity, completed, created_at FROM sessions WHERE id = $1`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	s, err := r.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, s)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSessionRepository_MarkCompleted(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresSessionRepository(sqlxDB)

	sessionID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE sessions SET completed = TRUE WHERE id = $1`)).
		WithArgs(sessionID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.MarkCompleted(context.Background(), sessionID))
	require.NoError(t, mock.ExpectationsWereMet())
}
