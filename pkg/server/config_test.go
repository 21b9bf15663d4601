package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, 8080, cfg.Port)
	assert.NotZero(t, cfg.ReadTimeout)
	assert.NotZero(t, cfg.ShutdownTimeout)
}

func TestNewConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "5")

	cfg := NewConfig()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestNewConfigIgnoresInvalidEnv(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cfg := NewConfig()
	assert.Equal(t, 8080, cfg.Port)
}
