package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/arjunvsingh/CareerExchange/internal/apperrors"
	"github.com/arjunvsingh/CareerExchange/internal/cache"
	"github.com/arjunvsingh/CareerExchange/internal/models"
	"github.com/arjunvsingh/CareerExchange/internal/monitoring"
	log "github.com/sirupsen/logrus"
)

// BidService is the bid ledger. Bids belong to one job and one applicant,
// and only the job's employer may move them between statuses.
type BidService struct {
	DB    *sql.DB
	Cache cache.JobsCache
}

func NewBidService(db *sql.DB, jobsCache cache.JobsCache) *BidService {
	if jobsCache == nil {
		jobsCache = cache.NopJobsCache{}
	}
	return &BidService{DB: db, Cache: jobsCache}
}

const insertBidQuery = `
	INSERT INTO bids AS b (job_id, user_id, rate, proposal, availability, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING ` + bidColumns

const updateBidStatusQuery = `
	UPDATE bids AS b
	SET status = $1, updated_at = CURRENT_TIMESTAMP
	WHERE b.id = $2 AND b.job_id = $3
	RETURNING ` + bidColumns

func (s *BidService) CreateBid(ctx context.Context, actor models.User, jobID int, in models.BidInput) (*models.Bid, error) {
	if !actor.Is(models.RoleApplicant) {
		return nil, apperrors.Forbidden("Only applicants can place bids")
	}
	if err := validateID(jobID, "job"); err != nil {
		return nil, err
	}

	in.Proposal = strings.TrimSpace(in.Proposal)
	in.Availability = strings.TrimSpace(in.Availability)
	switch {
	case in.Rate <= 0:
		return nil, apperrors.Validation("rate is required and must be greater than zero")
	case in.Proposal == "":
		return nil, apperrors.Validation("proposal is required")
	case in.Availability == "":
		return nil, apperrors.Validation("availability is required")
	}

	if _, err := lookupJobOwner(ctx, s.DB, jobID); err != nil {
		return nil, err
	}

	var bid models.Bid
	row := s.DB.QueryRowContext(ctx, insertBidQuery,
		jobID,
		actor.ID,
		in.Rate,
		in.Proposal,
		in.Availability,
		string(models.BidPending),
	)
	if err := scanBid(row, &bid); err != nil {
		// A job deleted between the lookup and the insert surfaces as a foreign-key violation.
		return nil, apperrors.FromStore(err, "Job not found", "Error creating bid")
	}

	s.Cache.Invalidate(ctx)
	monitoring.RecordBidPlaced()
	log.WithFields(log.Fields{"bid_id": bid.ID, "job_id": jobID, "applicant_id": actor.ID}).Info("Bid placed")
	return &bid, nil
}

// ListBidsForJob returns every bid on a job, newest first, to the job's employer.
func (s *BidService) ListBidsForJob(ctx context.Context, jobID int, actor models.User) ([]models.Bid, error) {
	if err := validateID(jobID, "job"); err != nil {
		return nil, err
	}
	ownerID, err := lookupJobOwner(ctx, s.DB, jobID)
	if err != nil {
		return nil, err
	}
	if ownerID != actor.ID {
		return nil, apperrors.Forbidden("You don't have permission to view bids for this job")
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+bidColumns+`, COALESCE(u.name, '') AS applicant_name
		FROM bids b
		LEFT JOIN users u ON u.id = b.user_id
		WHERE b.job_id = $1
		ORDER BY b.created_at DESC, b.id DESC
	`, jobID)
	if err != nil {
		return nil, apperrors.Internal("Error retrieving bids", err)
	}
	defer rows.Close()

	bids := make([]models.Bid, 0)
	for rows.Next() {
		var bid models.Bid
		if err := scanBid(rows, &bid, &bid.ApplicantName); err != nil {
			return nil, apperrors.Internal("Error scanning bid", err)
		}
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal("Error retrieving bids", err)
	}
	return bids, nil
}

// ListBidsForApplicant returns the caller's own bids with the title and company of each job.
func (s *BidService) ListBidsForApplicant(ctx context.Context, actor models.User) ([]models.Bid, error) {
	if !actor.Is(models.RoleApplicant) {
		return nil, apperrors.Forbidden("Only applicants have bids")
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+bidColumns+`, j.title AS job_title, j.company
		FROM bids b
		JOIN jobs j ON j.id = b.job_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.id DESC
	`, actor.ID)
	if err != nil {
		return nil, apperrors.Internal("Error retrieving bids", err)
	}
	defer rows.Close()

	bids := make([]models.Bid, 0)
	for rows.Next() {
		var bid models.Bid
		if err := scanBid(rows, &bid, &bid.JobTitle, &bid.Company); err != nil {
			return nil, apperrors.Internal("Error scanning bid", err)
		}
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal("Error retrieving bids", err)
	}
	return bids, nil
}

// UpdateBidStatus sets the status of a bid under jobID. The status is checked
// before anything else, so an invalid value is rejected for every caller.
func (s *BidService) UpdateBidStatus(ctx context.Context, jobID, bidID int, status string, actor models.User) (*models.Bid, error) {
	newStatus, err := parseBidStatus(status)
	if err != nil {
		return nil, err
	}
	if err := validateID(jobID, "job"); err != nil {
		return nil, err
	}
	if err := validateID(bidID, "bid"); err != nil {
		return nil, err
	}

	ownerID, err := lookupJobOwner(ctx, s.DB, jobID)
	if err != nil {
		return nil, err
	}
	if ownerID != actor.ID {
		return nil, apperrors.Forbidden("You don't have permission to update bids for this job")
	}

	var bid models.Bid
	row := s.DB.QueryRowContext(ctx, updateBidStatusQuery, string(newStatus), bidID, jobID)
	if err := scanBid(row, &bid); err != nil {
		return nil, apperrors.FromStore(err, "Bid not found", "Error updating bid status")
	}

	monitoring.RecordBidStatusChange(newStatus)
	log.WithFields(log.Fields{
		"bid_id":      bid.ID,
		"job_id":      jobID,
		"employer_id": actor.ID,
		"status":      newStatus,
	}).Info("Bid status updated")
	return &bid, nil
}

// UpdateBidStatusByID resolves the bid's job first, then applies UpdateBidStatus.
func (s *BidService) UpdateBidStatusByID(ctx context.Context, bidID int, status string, actor models.User) (*models.Bid, error) {
	if _, err := parseBidStatus(status); err != nil {
		return nil, err
	}
	if err := validateID(bidID, "bid"); err != nil {
		return nil, err
	}

	var jobID int
	err := s.DB.QueryRowContext(ctx, `SELECT job_id FROM bids WHERE id = $1`, bidID).Scan(&jobID)
	if err != nil {
		return nil, apperrors.FromStore(err, "Bid not found", "Error retrieving bid")
	}
	return s.UpdateBidStatus(ctx, jobID, bidID, status, actor)
}

// GetBidDetails returns a single bid to the job's employer or to the applicant who placed it.
func (s *BidService) GetBidDetails(ctx context.Context, jobID, bidID int, actor models.User) (*models.Bid, error) {
	if err := validateID(jobID, "job"); err != nil {
		return nil, err
	}
	if err := validateID(bidID, "bid"); err != nil {
		return nil, err
	}

	var bid models.Bid
	var employerID int
	row := s.DB.QueryRowContext(ctx, `
		SELECT `+bidColumns+`, COALESCE(u.name, ''), j.title, j.company, j.employer_id
		FROM bids b
		JOIN jobs j ON j.id = b.job_id
		LEFT JOIN users u ON u.id = b.user_id
		WHERE b.id = $1 AND b.job_id = $2
	`, bidID, jobID)
	if err := scanBid(row, &bid, &bid.ApplicantName, &bid.JobTitle, &bid.Company, &employerID); err != nil {
		return nil, apperrors.FromStore(err, "Bid not found", "Error retrieving bid")
	}

	if actor.ID != employerID && actor.ID != bid.ApplicantID {
		return nil, apperrors.Forbidden("You don't have permission to view this bid")
	}
	return &bid, nil
}

func parseBidStatus(raw string) (models.BidStatus, error) {
	status := models.BidStatus(raw)
	if !status.Valid() {
		names := make([]string, len(models.BidStatuses))
		for i, s := range models.BidStatuses {
			names[i] = string(s)
		}
		return "", apperrors.Validation("status must be one of %s", strings.Join(names, ", "))
	}
	return status, nil
}
