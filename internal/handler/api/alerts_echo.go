package api

import (
	"errors"

	"PatternPulse/internal/domain/models"
	"PatternPulse/internal/middleware"
	"PatternPulse/internal/usecase"
	xhttp "PatternPulse/pkg/http"
	xlogger "PatternPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AlertsEchoHandler queues WhatsApp pattern alerts for verified sessions.
type AlertsEchoHandler struct {
	logger *xlogger.Logger
	alerts *usecase.AlertService
	auth   *usecase.AuthService
}

func NewAlertsEchoHandler(logger *xlogger.Logger, alerts *usecase.AlertService, auth *usecase.AuthService) *AlertsEchoHandler {
	return &AlertsEchoHandler{logger: logger, alerts: alerts, auth: auth}
}

func (h *AlertsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/alerts", middleware.RequireSession(h.auth))
	g.POST("/broadcast", h.Broadcast)
}

func (h *AlertsEchoHandler) Broadcast(c echo.Context) error {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("no session"))
	}

	req := &models.BroadcastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	result, err := h.alerts.Broadcast(c.Request().Context(), sess, req.Symbols)
	if err != nil {
		if errors.Is(err, usecase.ErrNotVerified) {
			return xhttp.AppErrorResponse(c, xhttp.ForbiddenError("whatsapp verification required"))
		}
		h.logger.Error("alert broadcast failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, result)
}
