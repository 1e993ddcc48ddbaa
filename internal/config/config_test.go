package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 100, cfg.RateLimitRPS)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.ElevatedUserIDs)
}

func TestLoadElevatedUserAllowlist(t *testing.T) {
	t.Setenv("ELEVATED_USER_IDS", "3, 17,,abc,42")

	cfg := Load()
	assert.Equal(t, []uint{3, 17, 42}, cfg.ElevatedUserIDs)
}

func TestLoadAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://energyrank.app, https://staging.energyrank.app")

	cfg := Load()
	assert.Equal(t, []string{"https://energyrank.app", "https://staging.energyrank.app"}, cfg.AllowedOrigins)
}
