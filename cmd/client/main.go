package main

import (
	"context"
	"io"
	"log"

	"github.com/avasiljevs/healthsync/internal/client/cli"
	"github.com/avasiljevs/healthsync/internal/client/config"
	"github.com/avasiljevs/healthsync/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	// structured logs would garble the interactive prompt
	app, err := cli.NewCLI(ctx, cfg, logging.NewJSON(io.Discard))
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
