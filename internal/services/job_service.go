package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/arjunvsingh/CareerExchange/internal/apperrors"
	"github.com/arjunvsingh/CareerExchange/internal/cache"
	"github.com/arjunvsingh/CareerExchange/internal/models"
	log "github.com/sirupsen/logrus"
)

// JobFilter narrows ListJobs. The zero value lists every job.
type JobFilter struct {
	Search string
	Limit  int
	Offset int
}

// likeEscaper keeps LIKE wildcards in a search term literal.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f JobFilter) isZero() bool {
	return strings.TrimSpace(f.Search) == "" && f.Limit <= 0 && f.Offset <= 0
}

// JobService is the job registry: postings owned by exactly one employer.
type JobService struct {
	DB    *sql.DB
	Cache cache.JobsCache
}

func NewJobService(db *sql.DB, jobsCache cache.JobsCache) *JobService {
	if jobsCache == nil {
		jobsCache = cache.NopJobsCache{}
	}
	return &JobService{DB: db, Cache: jobsCache}
}

const insertJobQuery = `
	INSERT INTO jobs AS j (title, company, description, skills, timeline, requirements, employer_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + jobColumns

const updateJobQuery = `
	UPDATE jobs
	SET title = $1,
	    company = $2,
	    description = $3,
	    skills = $4,
	    timeline = $5,
	    requirements = $6,
	    updated_at = CURRENT_TIMESTAMP
	WHERE id = $7 AND employer_id = $8
`

func (s *JobService) CreateJob(ctx context.Context, actor models.User, in models.JobInput) (*models.Job, error) {
	if !actor.Is(models.RoleEmployer) {
		return nil, apperrors.Forbidden("Only employers can post jobs")
	}

	in, err := normalizeJobInput(in)
	if err != nil {
		return nil, err
	}

	var job models.Job
	row := s.DB.QueryRowContext(ctx, insertJobQuery,
		in.Title,
		in.Company,
		in.Description,
		in.Skills,
		in.Timeline,
		nullableString(in.Requirements),
		actor.ID,
	)
	if err := scanJob(row, &job); err != nil {
		return nil, apperrors.FromStore(err, "Employer not found", "Error creating job")
	}
	job.EmployerName = actor.Name

	s.Cache.Invalidate(ctx)
	log.WithFields(log.Fields{"job_id": job.ID, "employer_id": actor.ID}).Info("Job created")
	return &job, nil
}

// ListJobs returns jobs newest first with their bid counts and employer names.
func (s *JobService) ListJobs(ctx context.Context, filter JobFilter) ([]models.Job, error) {
	unfiltered := filter.isZero()
	var gen int64
	if unfiltered {
		var jobs []models.Job
		var ok bool
		if jobs, gen, ok = s.Cache.GetJobs(ctx); ok {
			return jobs, nil
		}
	}

	pattern := ""
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern = "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
	}
	limit := sql.NullInt64{Int64: int64(filter.Limit), Valid: filter.Limit > 0}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := jobListSelect + `
	WHERE (
		$1 = '' OR
		lower(j.title) LIKE $1 ESCAPE '\' OR
		lower(j.company) LIKE $1 ESCAPE '\' OR
		lower(j.skills) LIKE $1 ESCAPE '\'
	)` + jobListGroupBy + `
	ORDER BY j.created_at DESC, j.id DESC
	LIMIT $2 OFFSET $3
	`

	jobs, err := s.queryJobs(ctx, query, pattern, limit, offset)
	if err != nil {
		return nil, err
	}

	if unfiltered {
		s.Cache.SetJobs(ctx, gen, jobs)
	}
	return jobs, nil
}

func (s *JobService) GetJob(ctx context.Context, id int) (*models.Job, error) {
	if err := validateID(id, "job"); err != nil {
		return nil, err
	}

	query := jobListSelect + `
	WHERE j.id = $1` + jobListGroupBy

	var job models.Job
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := scanJob(row, &job, &job.EmployerName, &job.TotalBids); err != nil {
		return nil, apperrors.FromStore(err, "Job not found", "Error retrieving job")
	}
	return &job, nil
}

func (s *JobService) ListJobsByEmployer(ctx context.Context, actor models.User) ([]models.Job, error) {
	if !actor.Is(models.RoleEmployer) {
		return nil, apperrors.Forbidden("Only employers have job postings")
	}

	query := jobListSelect + `
	WHERE j.employer_id = $1` + jobListGroupBy + `
	ORDER BY j.created_at DESC, j.id DESC
	`
	return s.queryJobs(ctx, query, actor.ID)
}

func (s *JobService) UpdateJob(ctx context.Context, id int, actor models.User, in models.JobInput) (*models.Job, error) {
	if err := validateID(id, "job"); err != nil {
		return nil, err
	}
	in, err := normalizeJobInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, id, actor, "update"); err != nil {
		return nil, err
	}

	res, err := s.DB.ExecContext(ctx, updateJobQuery,
		in.Title,
		in.Company,
		in.Description,
		in.Skills,
		in.Timeline,
		nullableString(in.Requirements),
		id,
		actor.ID,
	)
	if err != nil {
		return nil, apperrors.FromStore(err, "Job not found", "Error updating job")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, apperrors.NotFound("Job not found")
	}

	s.Cache.Invalidate(ctx)
	log.WithFields(log.Fields{"job_id": id, "employer_id": actor.ID}).Info("Job updated")
	return s.GetJob(ctx, id)
}

// DeleteJob removes a job; its bids go with it through ON DELETE CASCADE.
func (s *JobService) DeleteJob(ctx context.Context, id int, actor models.User) error {
	if err := validateID(id, "job"); err != nil {
		return err
	}
	if err := s.requireOwner(ctx, id, actor, "delete"); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1 AND employer_id = $2`, id, actor.ID)
	if err != nil {
		return apperrors.FromStore(err, "Job not found", "Error deleting job")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("Job not found")
	}

	s.Cache.Invalidate(ctx)
	log.WithFields(log.Fields{"job_id": id, "employer_id": actor.ID}).Info("Job deleted")
	return nil
}

func (s *JobService) requireOwner(ctx context.Context, jobID int, actor models.User, action string) error {
	ownerID, err := lookupJobOwner(ctx, s.DB, jobID)
	if err != nil {
		return err
	}
	if ownerID != actor.ID {
		return apperrors.Forbidden("You don't have permission to " + action + " this job")
	}
	return nil
}

func (s *JobService) queryJobs(ctx context.Context, query string, args ...any) ([]models.Job, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Internal("Error retrieving jobs", err)
	}
	defer rows.Close()

	jobs := make([]models.Job, 0)
	for rows.Next() {
		var job models.Job
		if err := scanJob(rows, &job, &job.EmployerName, &job.TotalBids); err != nil {
			return nil, apperrors.Internal("Error scanning job", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal("Error retrieving jobs", err)
	}
	return jobs, nil
}

// normalizeJobInput trims every field and reports the first required one left empty.
func normalizeJobInput(in models.JobInput) (models.JobInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	in.Description = strings.TrimSpace(in.Description)
	in.Skills = strings.TrimSpace(in.Skills)
	in.Timeline = strings.TrimSpace(in.Timeline)
	in.Requirements = strings.TrimSpace(in.Requirements)

	required := []struct {
		field string
		value string
	}{
		{"title", in.Title},
		{"company", in.Company},
		{"description", in.Description},
		{"skills", in.Skills},
		{"timeline", in.Timeline},
	}
	for _, r := range required {
		if r.value == "" {
			return in, apperrors.Validation("%s is required", r.field)
		}
	}
	return in, nil
}
