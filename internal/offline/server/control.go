package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/alcancesol/internal/offline"
	"github.com/labstack/echo/v4"
)

type skipWaitingResponse struct {
	Activated bool `json:"activated"`
}

func (s *HTTPServer) skipWaiting(c echo.Context) error {
	ctx := c.Request().Context()

	activated, err := s.reg.SkipWaiting(ctx)
	if err != nil {
		s.logger.Error(ctx, "skip waiting failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, skipWaitingResponse{Activated: activated})
}

func (s *HTTPServer) status(c echo.Context) error {
	st, err := s.reg.Status(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, st)
}

// update registers the current generation under the version form value.
func (s *HTTPServer) update(c echo.Context) error {
	ctx := c.Request().Context()

	version := strings.TrimSpace(c.FormValue("version"))
	if version == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "version is required")
	}

	s.genMu.Lock()
	defer s.genMu.Unlock()

	gen := s.gen.WithVersion(version)
	if err := gen.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := s.reg.Register(ctx, gen); err != nil {
		s.logger.Error(ctx, "update failed", "version", version, "error", err)
		if errors.Is(err, offline.ErrInstallFailed) {
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	s.gen = gen

	st, err := s.reg.Status(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, st)
}
