// Package config loads the daemon's environment-variable settings and
// its optional YAML solver-policy file.
//
// Every environment variable has a safe default except ADMIN_PASSWORD,
// which has none: left unset, it disables the /admin endpoint instead of
// failing startup. Load does not call requireEnv for any variable. The
// policy file is a yaml.v3-tagged struct tree
// with a DefaultPolicy() constructor.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the daemon's process-wide environment configuration.
type Config struct {
	Port                string
	MaxConcurrentSolves int
	MaxQueueSize        int
	// RateLimitWindow is the minimum spacing between accepted
	// submissions from one client; a second submission inside the
	// window is rejected with a retry-after.
	RateLimitWindow time.Duration
	MaxSolveTime    time.Duration
	AllowedOrigins  []string
	AdminPassword   string
	JobTTL          time.Duration
}

// Load reads the daemon's configuration from the environment.
// ADMIN_PASSWORD has no default: an empty value disables the /admin
// endpoint rather than falling back to a guessable secret.
func Load() (Config, error) {
	maxConcurrent, err := envInt("MAX_CONCURRENT_SOLVES", 4)
	if err != nil {
		return Config{}, err
	}
	maxQueue, err := envInt("MAX_QUEUE_SIZE", 100)
	if err != nil {
		return Config{}, err
	}
	rateLimitSeconds, err := envInt("RATE_LIMIT_SECONDS", 10)
	if err != nil {
		return Config{}, err
	}
	maxSolveSeconds, err := envInt("MAX_SOLVE_TIME", 30)
	if err != nil {
		return Config{}, err
	}
	ttlSeconds, err := envInt("JOB_TTL_SECONDS", 3600)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Port:                getEnvOrDefault("PORT", "8080"),
		MaxConcurrentSolves: maxConcurrent,
		MaxQueueSize:        maxQueue,
		RateLimitWindow:     time.Duration(rateLimitSeconds) * time.Second,
		MaxSolveTime:        time.Duration(maxSolveSeconds) * time.Second,
		AllowedOrigins:      splitCSV(getEnvOrDefault("ALLOWED_ORIGINS", "*")),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
		JobTTL:              time.Duration(ttlSeconds) * time.Second,
	}, nil
}

// requireEnv reads a required environment variable, returning an error
// rather than exiting so callers (tests, the subprocess entrypoint) can
// decide how to fail.
func requireEnv(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("config: required environment variable %s is not set", key)
	}
	return val, nil
}

func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer, got %q", key, val)
	}
	return n, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
