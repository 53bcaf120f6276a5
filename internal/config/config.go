package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	minJWTSecretBytes = 32
)

type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// DSN renders the lib/pq key=value connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	JobsTTL  time.Duration
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type Config struct {
	Env              string
	Port             string
	LogLevel         string
	DB               DBConfig
	Redis            RedisConfig
	JWTSecret        string
	TokenTTL         time.Duration
	BcryptCost       int
	CORSOrigins      []string
	MonitoringAPIKey string
	SeedDefaultUsers bool
	ShutdownTimeout  time.Duration
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// ExposeInternalErrors reports whether 500 responses may carry the underlying message.
func (c *Config) ExposeInternalErrors() bool {
	return c.Env == EnvDevelopment
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment variables")
	}

	env := strings.ToLower(getEnvOrDefault("APP_ENV", EnvDevelopment))

	cfg := &Config{
		Env:      env,
		Port:     getEnvOrDefault("PORT", "3000"),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		DB: DBConfig{
			Host:            getEnvOrDefault("DB_HOST", "localhost"),
			Port:            getEnvOrDefault("DB_PORT", "5432"),
			User:            getEnvOrDefault("DB_USER", "postgres"),
			Password:        getEnvOrDefault("DB_PASSWORD", "password"),
			Name:            getEnvOrDefault("DB_NAME", "job_bidding_db"),
			SSLMode:         getEnvOrDefault("DB_SSLMODE", defaultSSLMode(env)),
			MaxOpenConns:    getIntEnvOrDefault("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnvOrDefault("DB_MAX_IDLE_CONNS", 25),
			ConnMaxIdleTime: time.Duration(getIntEnvOrDefault("DB_CONN_MAX_IDLE_MINUTES", 5)) * time.Minute,
			ConnMaxLifetime: time.Duration(getIntEnvOrDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getNonNegativeIntEnv("REDIS_DB", 0),
			JobsTTL:  time.Duration(getIntEnvOrDefault("JOBS_CACHE_TTL_SECONDS", 30)) * time.Second,
		},
		JWTSecret:        strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:         time.Duration(getIntEnvOrDefault("JWT_TTL_HOURS", 24)) * time.Hour,
		BcryptCost:       getIntEnvOrDefault("BCRYPT_COST", 10),
		CORSOrigins:      corsOrigins(),
		MonitoringAPIKey: strings.TrimSpace(os.Getenv("MONITORING_API_KEY")),
		SeedDefaultUsers: getBoolEnvOrDefault("SEED_DEFAULT_USERS", env != EnvProduction),
		ShutdownTimeout:  time.Duration(getIntEnvOrDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < minJWTSecretBytes {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretBytes)
	}
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("APP_ENV must be one of %s, %s, %s", EnvDevelopment, EnvProduction, EnvTest)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	return nil
}

func defaultSSLMode(env string) string {
	if env == EnvProduction {
		return "require"
	}
	return "disable"
}

// corsOrigins merges CORS_ORIGINS with CLIENT_URL, dropping blanks and duplicates.
func corsOrigins() []string {
	raw := getEnvOrDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:5174,http://localhost:3000")
	candidates := append(strings.Split(raw, ","), os.Getenv("CLIENT_URL"))

	seen := make(map[string]struct{}, len(candidates))
	origins := make([]string, 0, len(candidates))
	for _, origin := range candidates {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" {
			continue
		}
		if _, dup := seen[origin]; dup {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	return origins
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		log.Warnf("Invalid %s=%q, using default %d", key, raw, defaultValue)
		return defaultValue
	}

	return value
}

func getNonNegativeIntEnv(key string, defaultValue int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		log.Warnf("Invalid %s=%q, using default %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func getBoolEnvOrDefault(key string, defaultValue bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warnf("Invalid %s=%q, using default %t", key, raw, defaultValue)
		return defaultValue
	}
	return value
}
