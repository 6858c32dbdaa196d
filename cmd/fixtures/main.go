// Command fixtures seeds the configured message store with fake messages.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"messageapi/internal/fixtures"
	"messageapi/internal/wire"
)

func main() {
	count := flag.Int("count", fixtures.DefaultCount, "number of messages to create")
	appendMode := flag.Bool("append", false, "keep existing messages instead of purging them")
	flag.Parse()

	app, cleanup, err := wire.InitializeFixtures()
	if err != nil {
		log.Fatalf("Failed to initialize fixtures: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	created, err := app.Loader.Load(ctx, *count, *appendMode)
	stop()
	if err != nil {
		app.Logger.Error("Loading fixtures failed", "created", len(created), "error", err)
		cleanup()
		os.Exit(1)
	}

	app.Logger.Info("Fixtures loaded", "count", len(created), "driver", app.Config.Database.Driver)
	cleanup()
}
