// Package config loads runtime configuration for the ChainView client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, optionally sourced from a .env file
//     (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the ChainView API
//	-d string   sqlite DSN of the local credential store
//	-s int      session duration (minutes)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30m" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.chainview.io",
//	  "database_dsn": "chainview.db",
//	  "session_duration": "30m",
//	  "check_interval": "1m",
//	  "bootstrap_timeout": "3s",
//	  "lockout_threshold": 5,
//	  "lockout_duration": "15m"
//	}
package config
