package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/chainviewhq/chainview/internal/flagx"
	"github.com/chainviewhq/chainview/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30m"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL       string         `json:"api_base_url"`
	DatabaseDSN      string         `json:"database_dsn"`
	SessionDuration  timex.Duration `json:"session_duration"`
	CheckInterval    timex.Duration `json:"check_interval"`
	BootstrapTimeout timex.Duration `json:"bootstrap_timeout"`
	LockoutThreshold int            `json:"lockout_threshold"`
	LockoutDuration  timex.Duration `json:"lockout_duration"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags via flagx.JsonConfigFlags; without
// one, no JSON is loaded. Read or unmarshal errors panic (the caller may
// recover). Zero-valued JSON fields keep the previous layer's setting.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SessionDuration.Duration > 0 {
		cfg.SessionDuration = time.Duration(jc.SessionDuration.Duration)
	}
	if jc.CheckInterval.Duration > 0 {
		cfg.CheckInterval = time.Duration(jc.CheckInterval.Duration)
	}
	if jc.BootstrapTimeout.Duration > 0 {
		cfg.BootstrapTimeout = time.Duration(jc.BootstrapTimeout.Duration)
	}
	if jc.LockoutThreshold > 0 {
		cfg.LockoutThreshold = jc.LockoutThreshold
	}
	if jc.LockoutDuration.Duration > 0 {
		cfg.LockoutDuration = time.Duration(jc.LockoutDuration.Duration)
	}
}
