package api

import (
	"errors"

	"PatternPulse/internal/domain/models"
	drepo "PatternPulse/internal/domain/repository"
	"PatternPulse/internal/middleware"
	"PatternPulse/internal/services/stream"
	"PatternPulse/internal/usecase"
	xhttp "PatternPulse/pkg/http"
	xlogger "PatternPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketEchoHandler exposes the snapshot engine over HTTP plus the
// WebSocket push channel.
type MarketEchoHandler struct {
	logger *xlogger.Logger
	market *usecase.MarketService
	auth   *usecase.AuthService
	hub    *stream.Hub
}

func NewMarketEchoHandler(logger *xlogger.Logger, market *usecase.MarketService, auth *usecase.AuthService, hub *stream.Hub) *MarketEchoHandler {
	return &MarketEchoHandler{logger: logger, market: market, auth: auth, hub: hub}
}

func (h *MarketEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/market")
	g.GET("/snapshot", h.Snapshot)
	g.GET("/stats", h.Stats)
	g.GET("/sectors", h.Sectors)
	g.GET("/history", h.History)
	g.POST("/refresh", h.Refresh, middleware.RequireSession(h.auth))

	e.GET("/ws/market", h.hub.Serve)
}

// Snapshot returns the current snapshot, filtered and sorted per query.
func (h *MarketEchoHandler) Snapshot(c echo.Context) error {
	req := &models.SnapshotRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	entries := usecase.Filter(h.market.Snapshot(), *req)
	return xhttp.ListResponse(c, entries, int64(len(entries)))
}

// Stats returns trend counts and the mean confidence over the full snapshot.
func (h *MarketEchoHandler) Stats(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.market.Stats())
}

// Sectors returns the distinct sectors of the universe, in universe order.
func (h *MarketEchoHandler) Sectors(c echo.Context) error {
	sectors := h.market.Sectors()
	return xhttp.ListResponse(c, sectors, int64(len(sectors)))
}

// History returns a fresh synthetic series anchored at the symbol's
// current snapshot price.
func (h *MarketEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	points, err := h.market.History(req.Symbol)
	if err != nil {
		if errors.Is(err, drepo.ErrNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown symbol %q", req.Symbol))
		}
		h.logger.Error("history generation failed",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, points, int64(len(points)))
}

// Refresh regenerates the snapshot immediately instead of waiting for the
// scheduler tick.
func (h *MarketEchoHandler) Refresh(c echo.Context) error {
	entries := h.market.Refresh()
	return xhttp.SuccessResponse(c, map[string]int{"entries": len(entries)})
}
