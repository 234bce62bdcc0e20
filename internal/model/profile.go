package model

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile carries attendance statistics recomputed from completed
// enrollments, never incremented in place.
type UserProfile struct {
	ID               uuid.UUID `db:"id"`
	UserID           uuid.UUID `db:"user_id"`
	Biography        *string   `db:"biography"`
	AvatarURL        *string   `db:"avatar_url"`
	SessionsAttended int       `db:"sessions_attended"`
	TotalMinutes     int       `db:"total_minutes"`
	UpdatedAt        time.Time `db:"updated_at"`
}
