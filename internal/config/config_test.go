package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUsesDefaultsWhenUnset(t *testing.T) {
	for _, k := range []string{"MAX_CONCURRENT_SOLVES", "MAX_QUEUE_SIZE", "RATE_LIMIT_SECONDS", "MAX_SOLVE_TIME", "ALLOWED_ORIGINS", "ADMIN_PASSWORD", "PORT", "JOB_TTL_SECONDS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 4, cfg.MaxConcurrentSolves)
	assert.Equal(t, 10*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.AdminPassword)
}

func TestLoadRejectsNonIntegerEnvVar(t *testing.T) {
	t.Setenv("MAX_CONCURRENT_SOLVES", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadSplitsAllowedOriginsOnComma(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadPolicyWithEmptyPathReturnsDefault(t *testing.T) {
	p, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)
}

func TestLoadPolicyParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/policy.yaml"
	contents := "room_values:\n  Spymaster: [10, 20, 30]\njunction_penalty: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	p, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, 5, p.JunctionPenalty)
	assert.Equal(t, [3]int{10, 20, 30}, p.RoomValues["Spymaster"])
}
