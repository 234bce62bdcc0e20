package model

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	InstructorID uuid.UUID `db:"instructor_id" json:"instructor_id"`
	DurationMin  int       `db:"duration_min" json:"duration_min"`
	StartAt      time.Time `db:"start_at" json:"start_at"`
	Capacity     int       `db:"capacity" json:"capacity"`
	Completed    bool      `db:"completed" json:"completed"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type SessionDetails struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Description    string    `db:"description" json:"description"`
	InstructorID   uuid.UUID `db:"instructor_id" json:"instructor_id"`
	InstructorName string    `db:"instructor_name" json:"instructor_name"`
	DurationMin    int       `db:"duration_min" json:"duration_min"`
	StartAt        time.Time `db:"start_at" json:"start_at"`
	Capacity       int       `db:"capacity" json:"capacity"`
	Completed      bool      `db:"completed" json:"completed"`
	EnrolledCount  int       `db:"enrolled_count" json:"enrolled_count"`
}
