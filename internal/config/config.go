package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Readiness ReadinessConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
	QueryTimeout   time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ReadinessConfig tunes the optimization readiness gate.
type ReadinessConfig struct {
	MinSamples  int
	MaxAvgScore float64
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	queryTimeoutMS, err := getEnvInt("DB_QUERY_TIMEOUT_MS", 30_000)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_QUERY_TIMEOUT_MS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	minSamples, err := getEnvInt("READINESS_MIN_SAMPLES", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid READINESS_MIN_SAMPLES: %w", err)
	}

	maxAvgScore, err := getEnvFloat("READINESS_MAX_AVG_SCORE", 0.7)
	if err != nil {
		return nil, fmt.Errorf("invalid READINESS_MAX_AVG_SCORE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
			QueryTimeout:   time.Duration(queryTimeoutMS) * time.Millisecond,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Readiness: ReadinessConfig{
			MinSamples:  minSamples,
			MaxAvgScore: maxAvgScore,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if c.Readiness.MinSamples < 1 {
		return fmt.Errorf("READINESS_MIN_SAMPLES must be >= 1")
	}
	if c.Readiness.MaxAvgScore <= 0 || c.Readiness.MaxAvgScore > 1 {
		return fmt.Errorf("READINESS_MAX_AVG_SCORE must be in (0, 1]")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}
