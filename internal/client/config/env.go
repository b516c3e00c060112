package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the environment. A .env file in
// the working directory is sourced first when present; already-exported
// variables win over the file, per godotenv semantics.
//
// Recognized variables:
//
//	CHAINVIEW_API_URL            base URL of the ChainView API
//	CHAINVIEW_DATABASE_DSN       sqlite DSN of the credential store
//	CHAINVIEW_SESSION_DURATION   e.g. "30m"
//	CHAINVIEW_CHECK_INTERVAL     e.g. "1m"
//	CHAINVIEW_BOOTSTRAP_TIMEOUT  e.g. "3s"
//	CHAINVIEW_LOCKOUT_THRESHOLD  integer attempt count
//	CHAINVIEW_LOCKOUT_DURATION   e.g. "15m"
//
// Malformed values are skipped, keeping the previous layer's setting.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("CHAINVIEW_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("CHAINVIEW_DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if d, ok := envDuration("CHAINVIEW_SESSION_DURATION"); ok {
		cfg.SessionDuration = d
	}
	if d, ok := envDuration("CHAINVIEW_CHECK_INTERVAL"); ok {
		cfg.CheckInterval = d
	}
	if d, ok := envDuration("CHAINVIEW_BOOTSTRAP_TIMEOUT"); ok {
		cfg.BootstrapTimeout = d
	}
	if v := os.Getenv("CHAINVIEW_LOCKOUT_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LockoutThreshold = n
		}
	}
	if d, ok := envDuration("CHAINVIEW_LOCKOUT_DURATION"); ok {
		cfg.LockoutDuration = d
	}
}

func envDuration(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}
