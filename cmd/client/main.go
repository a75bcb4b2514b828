package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/cygnuslabs/cygnusone/internal/buildinfo"
	"github.com/cygnuslabs/cygnusone/internal/client/cli"
	"github.com/cygnuslabs/cygnusone/internal/client/config"
	"github.com/cygnuslabs/cygnusone/internal/debuglog"
	"github.com/cygnuslabs/cygnusone/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	// Every record is captured in the ring for the 'log' command; only
	// warnings and up reach stderr to keep the REPL readable.
	ring := debuglog.NewRing(debuglog.DefaultCapacity)
	inner := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := logging.NewSlogLogger(slog.New(debuglog.NewHandler(ring, inner)))

	app, err := cli.NewApp(ctx, cfg, logger, ring)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
