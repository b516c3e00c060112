package config

import (
	"flag"
	"os"
	"time"

	"github.com/chainviewhq/chainview/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the ChainView API (default from Config)
//	-d string   sqlite DSN of the credential store (default from Config)
//	-s int      session duration in minutes (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the ChainView API")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "sqlite DSN of the credential store")
	sessionMinutes := fs.Int("s", int(cfg.SessionDuration.Minutes()), "session duration (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *sessionMinutes > 0 {
		cfg.SessionDuration = time.Duration(*sessionMinutes) * time.Minute
	}
}
