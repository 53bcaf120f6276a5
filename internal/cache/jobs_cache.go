// Package cache holds the optional Redis-backed cache of the public job feed.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arjunvsingh/CareerExchange/internal/config"
	"github.com/arjunvsingh/CareerExchange/internal/models"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	// AllJobsKey prefixes the JSON encoded, unfiltered job list. The current
	// generation is appended, see feedKey.
	AllJobsKey = "cache:jobs:all"
	// GenerationKey is bumped by every invalidation.
	GenerationKey = "cache:jobs:gen"
)

// JobsCache stores the unfiltered job listing. Implementations must never fail a
// request: misses and backend errors both report ok=false.
//
// On a miss GetJobs returns the generation the caller must hand back to SetJobs.
// A feed loaded before an Invalidate carries an older generation and is never served.
type JobsCache interface {
	GetJobs(ctx context.Context) (jobs []models.Job, gen int64, ok bool)
	SetJobs(ctx context.Context, gen int64, jobs []models.Job)
	Invalidate(ctx context.Context)
}

// NopJobsCache is used when Redis is not configured.
type NopJobsCache struct{}

func (NopJobsCache) GetJobs(context.Context) ([]models.Job, int64, bool) { return nil, -1, false }
func (NopJobsCache) SetJobs(context.Context, int64, []models.Job)        {}
func (NopJobsCache) Invalidate(context.Context)                          {}

type RedisJobsCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisJobsCache(client redis.Cmdable, ttl time.Duration) *RedisJobsCache {
	return &RedisJobsCache{client: client, ttl: ttl}
}

func feedKey(gen int64) string {
	return fmt.Sprintf("%s:%d", AllJobsKey, gen)
}

// generation returns -1 when the backend cannot be read.
func (c *RedisJobsCache) generation(ctx context.Context) int64 {
	gen, err := c.client.Get(ctx, GenerationKey).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0
	case err != nil:
		log.WithError(err).Warn("Jobs cache generation read failed")
		return -1
	}
	return gen
}

func (c *RedisJobsCache) GetJobs(ctx context.Context) ([]models.Job, int64, bool) {
	gen := c.generation(ctx)
	if gen < 0 {
		return nil, gen, false
	}

	data, err := c.client.Get(ctx, feedKey(gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).Warn("Jobs cache read failed")
		}
		return nil, gen, false
	}

	var jobs []models.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		log.WithError(err).Warn("Jobs cache holds invalid data, dropping it")
		c.client.Del(ctx, feedKey(gen))
		return nil, gen, false
	}
	return jobs, gen, true
}

func (c *RedisJobsCache) SetJobs(ctx context.Context, gen int64, jobs []models.Job) {
	if gen < 0 {
		return
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	data, err := json.Marshal(jobs)
	if err != nil {
		log.WithError(err).Warn("Error marshaling jobs for cache")
		return
	}
	if err := c.client.Set(ctx, feedKey(gen), data, c.ttl).Err(); err != nil {
		log.WithError(err).Warn("Error setting jobs cache in Redis")
	}
}

func (c *RedisJobsCache) Invalidate(ctx context.Context) {
	gen, err := c.client.Incr(ctx, GenerationKey).Result()
	if err != nil {
		log.WithError(err).Warn("Error invalidating jobs cache")
		return
	}
	if err := c.client.Del(ctx, feedKey(gen-1)).Err(); err != nil {
		log.WithError(err).Warn("Error dropping stale jobs feed")
	}
}

// Connect opens a Redis client and pings it. The caller closes the client.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}

	log.WithField("addr", cfg.Addr).Info("Redis connection successfully opened")
	return client, nil
}
