package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/alcancesol/internal/client/config"
	"github.com/dmitrijs2005/alcancesol/internal/client/geo"
	"github.com/dmitrijs2005/alcancesol/internal/client/services"
	"github.com/dmitrijs2005/alcancesol/internal/client/store"
	"github.com/dmitrijs2005/alcancesol/internal/common"
	"github.com/dmitrijs2005/alcancesol/internal/logging"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	handle   *store.Handle
	sessions services.SessionService
	reports  services.ReportService
	locator  geo.Locator

	storageAvailable bool

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the store once and builds the services on top of it. A store
// that cannot be opened is not fatal: the app runs on the unavailable
// fallbacks and says so.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	locator, err := newLocator(c.Position)
	if err != nil {
		return nil, err
	}

	h := store.New(c.DatabasePath, logger)
	repos, err := store.InitRepositories(ctx, h)
	if err != nil {
		logger.Warn(ctx, "storage unavailable, running without history", "error", err)
	}

	return &App{
		config:           c,
		logger:           logger,
		handle:           h,
		sessions:         services.NewSessionService(repos.Sessions, logger),
		reports:          services.NewReportService(repos.Reports, c.SupportNumber, logger),
		locator:          locator,
		storageAvailable: repos.Available,
		reader:           bufio.NewReader(os.Stdin),
		out:              os.Stdout,
	}, nil
}

func newLocator(position string) (geo.Locator, error) {
	if position == "" {
		return geo.Unavailable{}, nil
	}
	p, err := geo.ParsePoint(position)
	if err != nil {
		return nil, fmt.Errorf("invalid position: %w", err)
	}
	return geo.Fixed(p), nil
}

// Run restores the session, asks for a login when there is none and runs
// the REPL until exit or end of input.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.handle.Close(); err != nil {
			a.logger.Warn(ctx, "error closing database", "error", err)
		}
	}()

	fmt.Fprintf(a.out, "Welcome to %s (type 'help' for commands)\n", common.AppName)
	if !a.storageAvailable {
		fmt.Fprintln(a.out, "Warning: local storage is unavailable, reports will not be saved.")
	}

	if _, err := a.sessions.Restore(ctx); err != nil {
		return err
	}
	if !a.isLoggedIn() {
		_ = a.Login(ctx)
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Current() != nil
}

func (a *App) getStatus() string {
	s := a.sessions.Current()
	if s == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", s.Identity)
}
