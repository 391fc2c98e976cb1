package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, "https://api.tyms.io/api/v1", cfg.TymsAPIURL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, time.Hour, cfg.AccessTokenDuration)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenDuration)
	assert.False(t, cfg.IsProduction())
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{Environment: "production"}).IsProduction())
	assert.False(t, (&Config{Environment: "development"}).IsProduction())
	assert.False(t, (&Config{}).IsProduction())
}
