package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleMember     = "member"
	RoleInstructor = "instructor"
)

type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	Role         string    `db:"role"`
	BalanceCents int64     `db:"balance_cents"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsInstructor() bool {
	return u.Role == RoleInstructor
}
