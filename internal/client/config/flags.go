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
//	-a string   address of the backend server
//	-f string   path of the local metadata database
//	-d int      debounce interval in seconds
//	-i int      online check interval in seconds
//
// Arguments are filtered through flagx.FilterArgs so flags owned by other
// components are left alone.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f", "-d", "-i"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the backend server")
	fs.StringVar(&cfg.DatabasePath, "f", cfg.DatabasePath, "path of the local metadata database")
	debounce := fs.Int("d", int(cfg.DebounceInterval.Seconds()), "debounce interval (in seconds)")
	onlineCheck := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.DebounceInterval = time.Duration(*debounce) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheck) * time.Second
}
