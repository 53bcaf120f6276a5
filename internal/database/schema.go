package database

import (
	"context"
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// CreateTables creates all required tables in the database
func CreateTables(ctx context.Context, db *sql.DB) error {
	steps := []struct {
		name string
		fn   func(context.Context, *sql.DB) error
	}{
		{"users", createUsersTable},
		{"jobs", createJobsTable},
		{"bids", createBidsTable},
	}
	for _, step := range steps {
		if err := step.fn(ctx, db); err != nil {
			return fmt.Errorf("create %s table: %w", step.name, err)
		}
		log.WithField("table", step.name).Debug("Table ready")
	}
	log.Info("Database tables initialized")
	return nil
}

func createUsersTable(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL CHECK (role IN ('employer', 'applicant')),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.ExecContext(ctx, query)
	return err
}

func createJobsTable(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS jobs (
		id SERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		company VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		skills TEXT NOT NULL,
		timeline VARCHAR(255) NOT NULL,
		requirements TEXT,
		employer_id INTEGER NOT NULL REFERENCES users(id),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return err
	}
	return ensureJobsSchema(ctx, db)
}

func createBidsTable(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS bids (
		id SERIAL PRIMARY KEY,
		job_id INTEGER NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id),
		rate DECIMAL NOT NULL,
		proposal TEXT NOT NULL,
		availability VARCHAR(255) NOT NULL,
		status VARCHAR(50) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'rejected')),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return err
	}
	return ensureBidsSchema(ctx, db)
}

func ensureJobsSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS jobs_created_idx ON jobs(created_at DESC, id DESC)`,
		`CREATE INDEX IF NOT EXISTS jobs_employer_created_idx ON jobs(employer_id, created_at DESC)`,
	}
	return execAll(ctx, db, statements)
}

func ensureBidsSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS bids_job_created_idx ON bids(job_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS bids_user_created_idx ON bids(user_id, created_at DESC)`,
	}
	return execAll(ctx, db, statements)
}

func execAll(ctx context.Context, db *sql.DB, statements []string) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}
