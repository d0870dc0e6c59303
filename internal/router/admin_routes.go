package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sezalkc/tablease/internal/handler"
	"github.com/sezalkc/tablease/internal/middleware"
	"github.com/sezalkc/tablease/internal/model"
)

// RegisterAdmin wires the management surface under /api/admin.
// Admin-only: staff roster and full menu CRUD, including items hidden
// from the floor menu.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/api/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/users", a.ListUsers)
	g.DELETE("/users/:id", a.DeleteUser)

	g.GET("/menu", a.ListMenu)
	g.POST("/menu", a.CreateMenuItem)
	g.PUT("/menu/:id", a.UpdateMenuItem)
	g.DELETE("/menu/:id", a.DeleteMenuItem)
}
