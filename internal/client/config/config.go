package config

import "time"

// Config holds runtime settings for the ChainView client.
type Config struct {
	// APIBaseURL is the base URL of the ChainView auth API.
	APIBaseURL string

	// DatabaseDSN is the sqlite DSN of the local credential store.
	DatabaseDSN string

	// SessionDuration is how long an established session lives.
	SessionDuration time.Duration

	// CheckInterval is the period of the session expiry check.
	CheckInterval time.Duration

	// BootstrapTimeout bounds the startup loading phase.
	BootstrapTimeout time.Duration

	// LockoutThreshold is the number of consecutive failed login attempts
	// that engage the lockout.
	LockoutThreshold int

	// LockoutDuration is how long the lockout holds.
	LockoutDuration time.Duration
}

// LoadDefaults populates c with the production defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://api.chainview.io"
	c.DatabaseDSN = "chainview.db"
	c.SessionDuration = 30 * time.Minute
	c.CheckInterval = time.Minute
	c.BootstrapTimeout = 3 * time.Second
	c.LockoutThreshold = 5
	c.LockoutDuration = 15 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, JSON (if present) and command-line flags (if
// present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
