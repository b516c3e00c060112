package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "https://api.chainview.io", c.APIBaseURL)
	assert.Equal(t, "chainview.db", c.DatabaseDSN)
	assert.Equal(t, 30*time.Minute, c.SessionDuration)
	assert.Equal(t, time.Minute, c.CheckInterval)
	assert.Equal(t, 3*time.Second, c.BootstrapTimeout)
	assert.Equal(t, 5, c.LockoutThreshold)
	assert.Equal(t, 15*time.Minute, c.LockoutDuration)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "https://api.chainview.io", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Minute, cfg.SessionDuration)
}

func Test_parseEnv_Overlays(t *testing.T) {
	t.Setenv("CHAINVIEW_API_URL", "https://staging.chainview.io")
	t.Setenv("CHAINVIEW_SESSION_DURATION", "45m")
	t.Setenv("CHAINVIEW_LOCKOUT_THRESHOLD", "3")

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg)

	assert.Equal(t, "https://staging.chainview.io", cfg.APIBaseURL)
	assert.Equal(t, 45*time.Minute, cfg.SessionDuration)
	assert.Equal(t, 3, cfg.LockoutThreshold)
	assert.Equal(t, "chainview.db", cfg.DatabaseDSN, "unset variables keep defaults")
}

func Test_parseEnv_MalformedValuesSkipped(t *testing.T) {
	t.Setenv("CHAINVIEW_SESSION_DURATION", "not-a-duration")
	t.Setenv("CHAINVIEW_LOCKOUT_THRESHOLD", "-2")

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg)

	assert.Equal(t, 30*time.Minute, cfg.SessionDuration)
	assert.Equal(t, 5, cfg.LockoutThreshold)
}
