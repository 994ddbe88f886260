// Package shellcache wires the offline cache controller into a process: the
// SQLite cache storage, the registration of the configured generation and the
// HTTP front, stopped by SIGINT, SIGTERM or SIGQUIT.
package shellcache

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/alcancesol/internal/logging"
	"github.com/dmitrijs2005/alcancesol/internal/offline"
	"github.com/dmitrijs2005/alcancesol/internal/offline/cachestore"
	"github.com/dmitrijs2005/alcancesol/internal/offline/config"
	"github.com/dmitrijs2005/alcancesol/internal/offline/server"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	storage *cachestore.SQLiteStorage
	reg     *offline.Registration
	gen     offline.Generation
	server  *server.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	origin, err := c.Origin()
	if err != nil {
		return nil, err
	}

	gen := offline.DefaultGeneration().WithVersion(c.CacheVersion)
	if err := gen.Validate(); err != nil {
		return nil, err
	}

	storage, err := cachestore.New(ctx, c.CacheDBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("cache storage init error: %w", err)
	}

	opts := offline.DefaultOptions()
	opts.SkipWaiting = c.SkipWaiting
	opts.Logger = logger.With("module", "offline")

	fetcher := offline.NewHTTPFetcher(&http.Client{}, c.FetchTimeout)
	reg, err := offline.NewRegistration(origin, storage, fetcher, opts)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	return &App{
		config:  c,
		logger:  logger,
		storage: storage,
		reg:     reg,
		gen:     gen,
		server:  server.New(c.ListenAddr, reg, gen, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// install resumes the generation from storage when a previous run left it,
// otherwise installs it. Failure is logged; the front keeps passing requests
// through until an update succeeds.
func (app *App) install(ctx context.Context) {
	w, err := app.reg.Resume(ctx, app.gen)
	if err != nil {
		app.logger.Warn(ctx, "could not resume cache", "error", err)
	}
	if w != nil {
		return
	}
	if _, err := app.reg.Register(ctx, app.gen); err != nil {
		app.logger.Error(ctx, "initial install failed", "cache", app.gen.CacheName(), "error", err)
	}
}

// Run serves until a signal arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "origin", app.config.OriginURL, "cache", app.gen.CacheName())

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
			cancelFunc()
		}
	}()

	app.install(ctx)

	wg.Wait()

	app.reg.Close()
	if err := app.storage.Close(); err != nil {
		app.logger.Warn(ctx, "error closing cache storage", "error", err)
	}
	return runErr
}
