package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("API_TIMEOUT", "10s")
	t.Setenv("DEMO_MODE", "1")
	t.Setenv("DEMO_USER_ID", "test-user")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.True(t, cfg.DemoMode)
	assert.Equal(t, "test-user", cfg.DemoUserID)
}

func TestLoadBareSecondsTimeout(t *testing.T) {
	t.Setenv("API_TIMEOUT", "45")

	cfg := Load()

	assert.Equal(t, 45*time.Second, cfg.APITimeout)
}

func TestLoadBadTimeoutFallsBack(t *testing.T) {
	t.Setenv("API_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.APITimeout)
}
