package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sezalkc/tablease/internal/repository"
)

// MenuHandler serves the staff-facing menu views used when building an
// order.  Catalog administration lives on the admin handler.
type MenuHandler struct {
	Menu *repository.MenuRepo
}

// NewMenuHandler constructs a MenuHandler.
func NewMenuHandler(menu *repository.MenuRepo) *MenuHandler {
	if menu == nil {
		panic("nil repository passed to NewMenuHandler")
	}
	return &MenuHandler{Menu: menu}
}

// ListAvailable handles GET /api/menu: only items flagged available,
// ordered by category then name so the UI can group them.
func (h *MenuHandler) ListAvailable(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Menu.ListAvailable(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch menu")
	}
	return respond(c, http.StatusOK, "Menu retrieved successfully", items)
}
