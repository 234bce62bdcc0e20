package model

import "github.com/google/uuid"

type Technique struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	InstructorID uuid.UUID `db:"instructor_id" json:"instructor_id"`
}
