package models

import (
	"time"
)

// Role is the account type chosen at registration. It never changes afterwards.
type Role string

const (
	RoleEmployer  Role = "employer"
	RoleApplicant Role = "applicant"
)

func (r Role) Valid() bool {
	return r == RoleEmployer || r == RoleApplicant
}

// User represents a user in the system
type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (u User) Is(role Role) bool {
	return u.Role == role
}
