package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/alcancesol/internal/buildinfo"
	"github.com/dmitrijs2005/alcancesol/internal/logging"
	"github.com/dmitrijs2005/alcancesol/internal/offline/config"
	"github.com/dmitrijs2005/alcancesol/internal/shellcache"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(cfg.LogBackend, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := shellcache.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
