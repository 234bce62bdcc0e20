package model

import (
	"time"

	"github.com/google/uuid"
)

type Enrollment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	SessionID  uuid.UUID `db:"session_id" json:"session_id"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}

type EnrollmentDetails struct {
	ID          uuid.UUID `db:"id" json:"id"`
	SessionID   uuid.UUID `db:"session_id" json:"session_id"`
	SessionName string    `db:"session_name" json:"session_name"`
	StartAt     time.Time `db:"start_at" json:"start_at"`
	DurationMin int       `db:"duration_min" json:"duration_min"`
	Completed   bool      `db:"completed" json:"completed"`
	EnrolledAt  time.Time `db:"enrolled_at" json:"enrolled_at"`
}
