package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/alcancesol/internal/buildinfo"
	"github.com/dmitrijs2005/alcancesol/internal/client/cli"
	"github.com/dmitrijs2005/alcancesol/internal/client/config"
	"github.com/dmitrijs2005/alcancesol/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	// Logs go to stderr so they do not interleave with the prompt.
	logger, err := logging.New(cfg.LogBackend, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
