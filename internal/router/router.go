package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/sezalkc/tablease/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication.
// The frontend pings this endpoint on load to confirm the API is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/ping", handler.Ping)
}
