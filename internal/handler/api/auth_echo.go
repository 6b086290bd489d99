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

// AuthEchoHandler exposes signup, login and the WhatsApp OTP verification
// flow.
type AuthEchoHandler struct {
	logger *xlogger.Logger
	auth   *usecase.AuthService
}

func NewAuthEchoHandler(logger *xlogger.Logger, auth *usecase.AuthService) *AuthEchoHandler {
	return &AuthEchoHandler{logger: logger, auth: auth}
}

func (h *AuthEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/auth")
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)

	authed := g.Group("", middleware.RequireSession(h.auth))
	authed.POST("/logout", h.Logout)
	authed.GET("/session", h.CurrentSession)
	authed.POST("/otp/request", h.RequestOTP)
	authed.POST("/otp/verify", h.VerifyOTP)
}

func (h *AuthEchoHandler) Signup(c echo.Context) error {
	req := &models.SignupRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sess, err := h.auth.Signup(c.Request().Context(), *req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDuplicateUser):
			return xhttp.AppErrorResponse(c, xhttp.ConflictError("account already exists"))
		case errors.Is(err, usecase.ErrInvalidPhone):
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError("phone number must have at least 10 digits"))
		}
		h.logger.Error("signup failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, sess)
}

func (h *AuthEchoHandler) Login(c echo.Context) error {
	req := &models.LoginRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sess, err := h.auth.Login(c.Request().Context(), *req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("invalid credentials"))
		}
		h.logger.Error("login failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, sess)
}

func (h *AuthEchoHandler) Logout(c echo.Context) error {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("no session"))
	}
	if err := h.auth.Logout(c.Request().Context(), sess.Token); err != nil {
		h.logger.Error("logout failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}

// CurrentSession echoes the caller's resolved session, which the frontend
// uses to restore state after a reload.
func (h *AuthEchoHandler) CurrentSession(c echo.Context) error {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("no session"))
	}
	return xhttp.SuccessResponse(c, sess)
}

func (h *AuthEchoHandler) RequestOTP(c echo.Context) error {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("no session"))
	}
	if err := h.auth.RequestOTP(c.Request().Context(), sess); err != nil {
		h.logger.Error("otp request failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "sent"})
}

func (h *AuthEchoHandler) VerifyOTP(c echo.Context) error {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("no session"))
	}

	req := &models.VerifyOTPRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	verified, err := h.auth.VerifyOTP(c.Request().Context(), sess, req.Code)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidOTP) {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid or expired code"))
		}
		h.logger.Error("otp verification failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, verified)
}
