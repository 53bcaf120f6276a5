package database

import (
	"context"
	"database/sql"

	"github.com/arjunvsingh/CareerExchange/internal/models"
	log "github.com/sirupsen/logrus"
)

// DefaultPassword is shared by the development accounts created by SeedDefaultUsers.
const DefaultPassword = "password123"

type seedUser struct {
	Name  string
	Email string
	Role  models.Role
}

var defaultUsers = []seedUser{
	{Name: "Test Employer", Email: "employer@test.com", Role: models.RoleEmployer},
	{Name: "Test Applicant", Email: "applicant@test.com", Role: models.RoleApplicant},
}

// SeedDefaultUsers inserts one employer and one applicant for local development.
// Existing accounts with the same email are left untouched.
func SeedDefaultUsers(ctx context.Context, db *sql.DB, hashPassword func(string) (string, error)) error {
	hashed, err := hashPassword(DefaultPassword)
	if err != nil {
		return err
	}

	inserted := 0
	for _, u := range defaultUsers {
		res, err := db.ExecContext(ctx,
			`INSERT INTO users (name, email, password, role) VALUES ($1, $2, $3, $4) ON CONFLICT (email) DO NOTHING`,
			u.Name, u.Email, hashed, string(u.Role),
		)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if inserted > 0 {
		log.WithField("count", inserted).Info("Default users created")
	}
	return nil
}
