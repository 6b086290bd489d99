package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CORSConfig lists the origins, methods and headers the dashboard client
// is allowed to use. An empty AllowOrigins list disables the allow-check.
type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}

func (c CORSConfig) originAllowed(origin string) bool {
	for _, o := range c.AllowOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// CORS sets the Access-Control headers and short-circuits preflight
// OPTIONS requests.
func CORS(conf CORSConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get("Origin")

			if len(conf.AllowOrigins) > 0 && !conf.originAllowed(origin) {
				return next(c)
			}

			h := c.Response().Header()
			if origin != "" {
				h.Set("Access-Control-Allow-Origin", origin)
			} else if len(conf.AllowOrigins) > 0 && conf.AllowOrigins[0] == "*" {
				h.Set("Access-Control-Allow-Origin", "*")
			}
			if len(conf.AllowMethods) > 0 {
				h.Set("Access-Control-Allow-Methods", strings.Join(conf.AllowMethods, ", "))
			}
			if len(conf.AllowHeaders) > 0 {
				h.Set("Access-Control-Allow-Headers", strings.Join(conf.AllowHeaders, ", "))
			}

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}
