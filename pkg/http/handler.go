package http

import "github.com/labstack/echo/v4"

// Handler is implemented by each API surface (market, auth, alerts,
// analysis) so the server can mount their routes without knowing them.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
