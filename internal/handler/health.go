package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Ping answers liveness checks from the frontend and deploy tooling.
func Ping(c echo.Context) error {
	return c.String(http.StatusOK, "PONG")
}
