package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arjunvsingh/CareerExchange/internal/cache"
	"github.com/arjunvsingh/CareerExchange/internal/config"
	"github.com/arjunvsingh/CareerExchange/internal/database"
	"github.com/arjunvsingh/CareerExchange/internal/monitoring"
	"github.com/arjunvsingh/CareerExchange/internal/router"
	"github.com/arjunvsingh/CareerExchange/internal/services"
	"github.com/arjunvsingh/CareerExchange/internal/utils"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func main() {
	startedAt := time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	config.ConfigureLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer database.Close(db)

	if err := database.CreateTables(ctx, db); err != nil {
		log.WithError(err).Fatal("Failed to create tables")
	}

	if cfg.SeedDefaultUsers {
		hash := func(password string) (string, error) {
			return utils.HashPassword(password, cfg.BcryptCost)
		}
		if err := database.SeedDefaultUsers(ctx, db, hash); err != nil {
			log.WithError(err).Warn("Failed to seed default users")
		}
	}

	jobsCache, redisClient := setupJobsCache(ctx, cfg.Redis)
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.WithError(err).Warn("Error closing redis")
			}
		}()
	}

	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.WithError(err).Fatal("Invalid JWT configuration")
	}

	engine := router.New(router.Deps{
		Config:  cfg,
		Auth:    services.NewAuthService(db, tokens, cfg.BcryptCost),
		Jobs:    services.NewJobService(db, jobsCache),
		Bids:    services.NewBidService(db, jobsCache),
		Monitor: monitoring.NewService(db, startedAt),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{"port": cfg.Port, "env": cfg.Env}).Info("CareerExchange API starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.WithError(err).Error("Server failed")
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
	log.Info("Server stopped")
}

// setupJobsCache connects to redis when configured. A failed connection leaves the
// feed uncached rather than stopping the server.
func setupJobsCache(ctx context.Context, cfg config.RedisConfig) (cache.JobsCache, *redis.Client) {
	if !cfg.Enabled() {
		log.Info("REDIS_ADDR not set, jobs feed cache disabled")
		return cache.NopJobsCache{}, nil
	}

	client, err := cache.Connect(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, jobs feed cache disabled")
		return cache.NopJobsCache{}, nil
	}
	return cache.NewRedisJobsCache(client, cfg.JobsTTL), client
}
