package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/arjunvsingh/CareerExchange/internal/models"
	"github.com/stretchr/testify/require"
)

var (
	employer       = models.User{ID: 7, Name: "Erin Employer", Email: "erin@example.com", Role: models.RoleEmployer}
	otherEmployer  = models.User{ID: 8, Name: "Oscar Other", Email: "oscar@example.com", Role: models.RoleEmployer}
	applicant      = models.User{ID: 21, Name: "Ada Applicant", Email: "ada@example.com", Role: models.RoleApplicant}
	otherApplicant = models.User{ID: 22, Name: "Abe Applicant", Email: "abe@example.com", Role: models.RoleApplicant}
)

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

var (
	jobReturningColumns = []string{"id", "title", "company", "description", "skills", "timeline", "requirements", "employer_id", "created_at", "updated_at"}
	jobListColumns      = append(append([]string{}, jobReturningColumns...), "employer_name", "total_bids")
	bidReturningColumns = []string{"id", "job_id", "user_id", "rate", "proposal", "availability", "status", "created_at", "updated_at"}
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func expectJobOwner(mock sqlmock.Sqlmock, jobID, ownerID int) {
	mock.ExpectQuery(`SELECT employer_id FROM jobs WHERE id = \$1`).
		WithArgs(jobID).
		WillReturnRows(sqlmock.NewRows([]string{"employer_id"}).AddRow(ownerID))
}

func expectJobMissing(mock sqlmock.Sqlmock, jobID int) {
	mock.ExpectQuery(`SELECT employer_id FROM jobs WHERE id = \$1`).
		WithArgs(jobID).
		WillReturnError(sql.ErrNoRows)
}

func bidRow(id, jobID, userID int, rate string, status models.BidStatus) *sqlmock.Rows {
	return sqlmock.NewRows(bidReturningColumns).
		AddRow(id, jobID, userID, rate, "I can do this", "Immediate", string(status), fixedTime, fixedTime)
}

// recordingCache is an in-memory JobsCache that counts invalidations.
type recordingCache struct {
	jobs        []models.Job
	cached      bool
	sets        int
	invalidated int
	// invalidateOnMiss simulates a write racing the feed load.
	invalidateOnMiss bool
}

func (c *recordingCache) GetJobs(context.Context) ([]models.Job, int64, bool) {
	gen := int64(c.invalidated)
	if !c.cached && c.invalidateOnMiss {
		c.invalidated++
	}
	return c.jobs, gen, c.cached
}

func (c *recordingCache) SetJobs(_ context.Context, gen int64, jobs []models.Job) {
	c.sets++
	if gen != int64(c.invalidated) {
		return
	}
	c.jobs = jobs
	c.cached = true
}

func (c *recordingCache) Invalidate(context.Context) {
	c.jobs = nil
	c.cached = false
	c.invalidated++
}
