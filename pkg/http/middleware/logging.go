package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogging writes one access-log line per request with the final
// status and the handler latency.
func RequestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			err := next(c)

			log.Printf("http: %s %s -> %d in %s (client %s)",
				req.Method,
				req.RequestURI,
				res.Status,
				time.Since(start),
				req.RemoteAddr,
			)
			return err
		}
	}
}
