package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/avasiljevs/healthsync/internal/common"
)

// Sync pushes the current snapshot immediately. Unlike the background
// auto-push, failures are reported to the user.
func (c *CLI) Sync(ctx context.Context) error {
	if !c.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}
	if err := c.core.SyncNow(ctx); err != nil {
		if errors.Is(err, common.ErrNetworkUnavailable) {
			printlnFn("Server unreachable. Changes are kept locally.")
		} else {
			printlnFn("Sync failed:", err.Error())
		}
		return err
	}
	printlnFn("Synced.")
	return nil
}

// Status prints the connectivity and sync state.
func (c *CLI) Status(ctx context.Context) error {
	if c.core.IsOnline() {
		printlnFn("Connection: online")
	} else {
		printlnFn("Connection: offline")
	}
	printlnFn("Sync:", string(c.core.Engine().Status()))
	if t := c.core.Engine().LastSyncedAt(); !t.IsZero() {
		printlnFn(fmt.Sprintf("Last synced: %s", t.Format("2006-01-02 15:04:05")))
	}
	return nil
}
