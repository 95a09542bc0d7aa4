// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and the environment over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"
)

// Roster store backends.
const (
	StoreFile     = "file"
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// AllowedOrigins lists CORS origins; empty allows any.
	AllowedOrigins []string `koanf:"allowed_origins"`

	// Store selects the roster backend: file, memory, redis or postgres.
	Store string `koanf:"store"`

	// OfficialPath and CommunityPath locate the JSON roster files.
	OfficialPath  string `koanf:"official_path"`
	CommunityPath string `koanf:"community_path"`

	// RedisURL and RedisKey address the redis roster hashes.
	RedisURL string `koanf:"redis_url"`
	RedisKey string `koanf:"redis_key"`

	// PostgresURL is the pgx connection string.
	PostgresURL string `koanf:"postgres_url"`

	// SportsPath optionally replaces the built-in sport catalog.
	SportsPath string `koanf:"sports_path"`

	// Seed makes runs reproducible. Zero draws a seed from the OS.
	Seed uint64 `koanf:"seed"`

	// WorkerCount sets the number of match workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize sets how many job request ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// JobRetention sets how many jobs stay queryable.
	JobRetention int `koanf:"job_retention"`

	// CommentaryLines is the number of narrative lines per sport.
	CommentaryLines int `koanf:"commentary_lines"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		Store:           StoreFile,
		OfficialPath:    "data/official_roster.json",
		CommunityPath:   "data/community_roster.json",
		RedisKey:        "universus:roster",
		WorkerCount:     runtime.NumCPU() * 2,
		QueueSize:       1024,
		DedupeSize:      50_000,
		JobRetention:    10_000,
		CommentaryLines: 2,
	}
}

// Validate checks that the selected backend is fully configured and that
// sizes are usable.
func (c *Config) Validate() error {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	switch c.Store {
	case StoreFile:
		if c.OfficialPath == "" || c.CommunityPath == "" {
			return fmt.Errorf("%w: file store needs official_path and community_path", ErrInvalidConfig)
		}
	case StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: redis store needs redis_url", ErrInvalidConfig)
		}
	case StorePostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("%w: postgres store needs postgres_url", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}

	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.DedupeSize < 1:
		return fmt.Errorf("%w: dedupe_size must be positive", ErrInvalidConfig)
	case c.JobRetention < 1:
		return fmt.Errorf("%w: job_retention must be positive", ErrInvalidConfig)
	case c.CommentaryLines < 0:
		return fmt.Errorf("%w: commentary_lines must not be negative", ErrInvalidConfig)
	}
	return nil
}
