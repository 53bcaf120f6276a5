package models

import "time"

type Job struct {
	ID           int       `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Company      string    `json:"company" db:"company"`
	Description  string    `json:"description" db:"description"`
	Skills       string    `json:"skills" db:"skills"`
	Timeline     string    `json:"timeline" db:"timeline"`
	Requirements *string   `json:"requirements" db:"requirements"`
	EmployerID   int       `json:"employer_id" db:"employer_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// Derived from joins, never stored.
	EmployerName string `json:"employer_name" db:"employer_name"`
	TotalBids    int    `json:"total_bids" db:"total_bids"`
}

// JobInput carries the mutable fields of a job posting.
type JobInput struct {
	Title        string
	Company      string
	Description  string
	Skills       string
	Timeline     string
	Requirements string
}
