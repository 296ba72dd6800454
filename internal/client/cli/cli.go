// Package cli is the interactive terminal frontend: a small REPL over the
// client core with commands for accounts, family members, health items and
// manual sync.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/avasiljevs/healthsync/internal/client/app"
	"github.com/avasiljevs/healthsync/internal/client/config"
	"github.com/avasiljevs/healthsync/internal/common"
	"github.com/avasiljevs/healthsync/internal/logging"
)

type CLI struct {
	cfg    *config.Config
	log    logging.Logger
	core   *app.App
	reader *bufio.Reader
}

func NewCLI(ctx context.Context, cfg *config.Config, log logging.Logger) (*CLI, error) {
	core, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &CLI{cfg: cfg, log: log, core: core, reader: bufio.NewReader(os.Stdin)}, nil
}

func (c *CLI) isLoggedIn() bool {
	return c.core.Session() != nil
}

func (c *CLI) getStatus() string {
	s := ""
	if sess := c.core.Session(); sess != nil {
		s = sess.Username + " "
	}
	if c.core.IsOnline() {
		s += "online"
	} else {
		s += "offline"
	}
	return fmt.Sprintf("(%s)", s)
}

// Run bootstraps the core, starts the connectivity watcher and enters the
// command loop. It returns when the user exits or input reaches EOF.
func (c *CLI) Run(ctx context.Context) error {
	defer c.core.Close()

	printlnFn("Welcome to HealthSync (type 'help' for commands)")

	if err := c.core.Bootstrap(ctx); err != nil {
		if errors.Is(err, common.ErrNetworkUnavailable) {
			printlnFn("Server unreachable. Connect to the network and use 'login'.")
		} else {
			return err
		}
	}
	if c.core.MustRelogin() {
		printlnFn("HealthSync was updated. Please log in again.")
	}

	go c.core.StartOnlineWatcher(ctx, c.cfg.OnlineCheckInterval)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, c, c.getStatus, scanner)
	return nil
}
