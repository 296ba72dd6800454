package config

import (
	"flag"
	"os"
	"time"

	"github.com/avasiljevs/healthsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   bind address for the REST endpoint
//	-d string   PostgreSQL DSN
//	-k string   token signing key
//	-t int      token validity in hours
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-t"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&cfg.RunAddr, "a", cfg.RunAddr, "bind address for the REST endpoint")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "token signing key")
	validity := fs.Int("t", int(cfg.TokenValidityDuration.Hours()), "token validity (in hours)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TokenValidityDuration = time.Duration(*validity) * time.Hour
}
