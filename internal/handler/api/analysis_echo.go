package api

import (
	"errors"

	"PatternPulse/internal/domain/models"
	drepo "PatternPulse/internal/domain/repository"
	"PatternPulse/internal/domain/service"
	"PatternPulse/internal/middleware"
	"PatternPulse/internal/services/analyst"
	"PatternPulse/internal/usecase"
	xhttp "PatternPulse/pkg/http"
	xlogger "PatternPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisEchoHandler routes snapshot entries to the AI analyst.
type AnalysisEchoHandler struct {
	logger  *xlogger.Logger
	market  *usecase.MarketService
	auth    *usecase.AuthService
	analyst service.Analyst
	metrics drepo.Metrics
}

func NewAnalysisEchoHandler(logger *xlogger.Logger, market *usecase.MarketService, auth *usecase.AuthService, an service.Analyst, metrics drepo.Metrics) *AnalysisEchoHandler {
	return &AnalysisEchoHandler{logger: logger, market: market, auth: auth, analyst: an, metrics: metrics}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/analysis", h.Analyze, middleware.RequireSession(h.auth))
}

func (h *AnalysisEchoHandler) Analyze(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	entry, ok := h.market.Entry(req.Symbol)
	if !ok {
		h.metrics.RecordAnalysisRequest("unknown_symbol")
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown symbol %q", req.Symbol))
	}

	analysis, err := h.analyst.Analyze(c.Request().Context(), entry)
	if err != nil {
		switch {
		case errors.Is(err, analyst.ErrMissingCredentials):
			h.metrics.RecordAnalysisRequest("unconfigured")
			return xhttp.AppErrorResponse(c, xhttp.InternalError("analyst is not configured"))
		case errors.Is(err, analyst.ErrMalformedResponse):
			h.metrics.RecordAnalysisRequest("malformed")
			h.logger.Error("analyst returned malformed response",
				xlogger.String("symbol", req.Symbol),
				xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.BadGatewayError("analyst returned an unusable response"))
		}
		h.metrics.RecordAnalysisRequest("transport_error")
		h.logger.Error("analyst request failed",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayError("analyst unavailable"))
	}

	h.metrics.RecordAnalysisRequest("ok")
	return xhttp.SuccessResponse(c, analysis)
}
