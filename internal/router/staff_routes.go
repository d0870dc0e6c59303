package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/sezalkc/tablease/internal/config"
	"github.com/sezalkc/tablease/internal/handler"
	"github.com/sezalkc/tablease/internal/middleware"
	"github.com/sezalkc/tablease/internal/model"
)

// RegisterStaff wires the order, table and menu endpoints under /api.
// All routes require a valid JWT; role gates mirror who performs the
// action on the floor.  Waiters place and read orders, the kitchen and
// cashier move them through the status pipeline, and every staff role
// can browse tables and the menu.
func RegisterStaff(e *echo.Echo, o *handler.OrderHandler, t *handler.TableHandler, m *handler.MenuHandler, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	auth := middleware.JWTAuth(jwtSecret)
	cache := middleware.NewRedisCache(cacheCfg, rdb)

	// ---- Orders ----
	orders := e.Group("/api/orders", auth)
	orders.POST("", o.PlaceOrder, middleware.RequireRole(model.RoleWaiter, model.RoleManager))
	orders.GET("/table/:tableId", o.GetActiveOrderForTable, middleware.RequireRole(model.RoleWaiter, model.RoleManager))
	orders.GET("/:orderId", o.GetOrder, middleware.RequireRole(model.RoleWaiter, model.RoleManager))
	orders.PATCH("/:orderId/add-items", o.AddItems, middleware.RequireRole(model.RoleWaiter, model.RoleManager))
	orders.PATCH("/:orderId/status", o.SetStatus, middleware.RequireRole(model.RoleKitchenStaff, model.RoleCashier, model.RoleManager))

	// ---- Floor and menu, any staff role ----
	staff := e.Group("/api", auth, middleware.RequireRole(
		model.RoleWaiter, model.RoleCashier, model.RoleManager, model.RoleAdmin, model.RoleKitchenStaff,
	))
	staff.GET("/tables", t.ListTables, cache)
	staff.GET("/menu", m.ListAvailable, cache)

	// Manager override for floor states the lifecycle does not set.
	e.PATCH("/api/tables/:id/status", t.SetTableStatus, auth,
		middleware.RequireRole(model.RoleManager, model.RoleAdmin))
}
