package middleware

import (
	"strings"

	"PatternPulse/internal/domain/models"
	"PatternPulse/internal/usecase"
	xhttp "PatternPulse/pkg/http"

	"github.com/labstack/echo/v4"
)

// sessionContextKey is where RequireSession stores the resolved session.
const sessionContextKey = "session"

// RequireSession resolves the Bearer token into a session and stores it in
// the echo context. Requests without a valid session are rejected.
func RequireSession(auth *usecase.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("missing bearer token"))
			}
			sess, err := auth.Session(c.Request().Context(), token)
			if err != nil {
				return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("invalid or expired session"))
			}
			c.Set(sessionContextKey, sess)
			return next(c)
		}
	}
}

// SessionFromContext returns the session stored by RequireSession.
func SessionFromContext(c echo.Context) (models.Session, bool) {
	sess, ok := c.Get(sessionContextKey).(models.Session)
	return sess, ok
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
