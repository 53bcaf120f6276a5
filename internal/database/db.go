package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arjunvsingh/CareerExchange/internal/config"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

const pingTimeout = 5 * time.Second

// Open connects to PostgreSQL and verifies the connection. The caller owns the
// returned pool and must Close it on shutdown.
func Open(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	log.WithFields(log.Fields{
		"host":    cfg.Host,
		"port":    cfg.Port,
		"user":    cfg.User,
		"db":      cfg.Name,
		"sslmode": cfg.SSLMode,
	}).Info("Connecting to database")

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("Connected to database successfully")
	return db, nil
}

// Close closes the database connection
func Close(db *sql.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		log.WithError(err).Warn("Error closing database")
	}
}
