package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/arjunvsingh/CareerExchange/internal/apperrors"
	"github.com/arjunvsingh/CareerExchange/internal/models"
)

type rowScanner interface {
	Scan(dest ...any) error
}

const jobColumns = `j.id, j.title, j.company, j.description, j.skills, j.timeline, j.requirements, j.employer_id, j.created_at, j.updated_at`

const jobListSelect = `
	SELECT ` + jobColumns + `,
	       COALESCE(u.name, '') AS employer_name,
	       COUNT(b.id)::int AS total_bids
	FROM jobs j
	LEFT JOIN users u ON u.id = j.employer_id
	LEFT JOIN bids b ON b.job_id = j.id
`

const jobListGroupBy = `
	GROUP BY j.id, u.name
`

const bidColumns = `b.id, b.job_id, b.user_id, b.rate, b.proposal, b.availability, b.status, b.created_at, b.updated_at`

// scanJob fills job from the jobColumns projection followed by any extra columns.
func scanJob(row rowScanner, job *models.Job, extra ...any) error {
	var requirements sql.NullString
	dest := append([]any{
		&job.ID,
		&job.Title,
		&job.Company,
		&job.Description,
		&job.Skills,
		&job.Timeline,
		&requirements,
		&job.EmployerID,
		&job.CreatedAt,
		&job.UpdatedAt,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return err
	}
	if requirements.Valid {
		job.Requirements = &requirements.String
	}
	return nil
}

func scanBid(row rowScanner, bid *models.Bid, extra ...any) error {
	var status string
	dest := append([]any{
		&bid.ID,
		&bid.JobID,
		&bid.ApplicantID,
		&bid.Rate,
		&bid.Proposal,
		&bid.Availability,
		&status,
		&bid.CreatedAt,
		&bid.UpdatedAt,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return err
	}
	bid.Status = models.BidStatus(status)
	return nil
}

// lookupJobOwner returns the employer id of a job, or NotFound.
func lookupJobOwner(ctx context.Context, db *sql.DB, jobID int) (int, error) {
	var ownerID int
	err := db.QueryRowContext(ctx, `SELECT employer_id FROM jobs WHERE id = $1`, jobID).Scan(&ownerID)
	if err != nil {
		return 0, apperrors.FromStore(err, "Job not found", "Error checking job")
	}
	return ownerID, nil
}

func validateID(id int, label string) error {
	if id <= 0 {
		return apperrors.Validation("Invalid %s ID", label)
	}
	return nil
}

func nullableString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	return sql.NullString{String: value, Valid: value != ""}
}
