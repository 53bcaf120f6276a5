package models

import "time"

type BidStatus string

const (
	BidPending  BidStatus = "pending"
	BidAccepted BidStatus = "accepted"
	BidRejected BidStatus = "rejected"
)

// BidStatuses lists every status a bid may hold.
var BidStatuses = []BidStatus{BidPending, BidAccepted, BidRejected}

func (s BidStatus) Valid() bool {
	for _, known := range BidStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Bid struct {
	ID           int       `json:"id" db:"id"`
	JobID        int       `json:"job_id" db:"job_id"`
	ApplicantID  int       `json:"user_id" db:"user_id"`
	Rate         float64   `json:"rate" db:"rate"`
	Proposal     string    `json:"proposal" db:"proposal"`
	Availability string    `json:"availability" db:"availability"`
	Status       BidStatus `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	ApplicantName string `json:"applicant_name,omitempty" db:"applicant_name"`
	JobTitle      string `json:"job_title,omitempty" db:"job_title"`
	Company       string `json:"company,omitempty" db:"company"`
}

type BidInput struct {
	Rate         float64
	Proposal     string
	Availability string
}
