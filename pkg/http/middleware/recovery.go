package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
)

// Recover turns a handler panic into a 500 envelope instead of killing
// the connection.
func Recover() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					req := c.Request()
					log.Printf("http: panic on %s %s: %v\n%s", req.Method, req.URL.Path, err, debug.Stack())
					_ = c.JSON(http.StatusInternalServerError, map[string]any{
						"status":  http.StatusInternalServerError,
						"message": "internal server error",
					})
				}
			}()
			return next(c)
		}
	}
}
