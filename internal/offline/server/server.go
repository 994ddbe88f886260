// Package server is the HTTP front of the offline cache controller. Every
// request of the application shell passes through one long-lived client of
// the registration; /_offline/ exposes the lifecycle controls.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/alcancesol/internal/logging"
	"github.com/dmitrijs2005/alcancesol/internal/netx"
	"github.com/dmitrijs2005/alcancesol/internal/offline"
	"github.com/labstack/echo/v4"
)

// HeaderSource names the response header carrying offline.Source.
const HeaderSource = "X-Offline-Cache"

// ShutdownTimeout bounds the graceful stop of Run.
const ShutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address string
	reg     *offline.Registration
	client  *offline.Client
	logger  logging.Logger
	echo    *echo.Echo

	genMu sync.Mutex
	gen   offline.Generation
}

// New builds the front for reg. gen is the generation the registration was
// started with; /_offline/update derives new generations from it.
func New(address string, reg *offline.Registration, gen offline.Generation, logger logging.Logger) *HTTPServer {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &HTTPServer{
		address: address,
		reg:     reg,
		client:  reg.Connect(),
		logger:  logger.With("module", "offline_server"),
		gen:     gen,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	ctl := e.Group("/_offline")
	ctl.POST("/skip-waiting", s.skipWaiting)
	ctl.GET("/status", s.status)
	ctl.POST("/update", s.update)

	e.Any("/*", s.proxy)

	s.echo = e
	return s
}

// Handler returns the routed echo instance.
func (s *HTTPServer) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down and releases the client.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: s.echo, ReadHeaderTimeout: 10 * time.Second}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
		s.client.Close(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-stopped
	return nil
}

func (s *HTTPServer) proxy(c echo.Context) error {
	ctx := c.Request().Context()

	resp, err := s.client.Fetch(ctx, outbound(c.Request()))
	switch {
	case errors.Is(err, offline.ErrResourceUnavailable):
		s.logger.Debug(ctx, "unavailable offline", "uri", c.Request().RequestURI)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "resource unavailable offline")
	case errors.Is(err, offline.ErrNetwork):
		return echo.NewHTTPError(http.StatusBadGateway, "origin unreachable")
	case err != nil:
		s.logger.Error(ctx, "fetch error", "uri", c.Request().RequestURI, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "fetch error")
	}

	netx.StripHopByHop(resp.Header)
	resp.Header.Set(HeaderSource, string(resp.Source))
	return resp.Write(c.Response())
}

// outbound copies the incoming request for the origin. Compression is left
// to the transport so cached bodies are identity-encoded.
func outbound(in *http.Request) *http.Request {
	out := in.Clone(in.Context())
	out.Header = make(http.Header, len(in.Header))
	netx.CopyHeader(out.Header, in.Header)
	netx.StripHopByHop(out.Header)
	out.Header.Del("Accept-Encoding")
	out.RequestURI = ""
	return out
}
