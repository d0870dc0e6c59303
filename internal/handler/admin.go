package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sezalkc/tablease/internal/model"
	"github.com/sezalkc/tablease/internal/repository"
)

// AdminHandler bundles the admin dashboard operations: staff account
// management and menu catalog CRUD.  Routes using it are gated to the
// admin role by middleware.
type AdminHandler struct {
	Users *repository.UserRepo
	Menu  *repository.MenuRepo
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(users *repository.UserRepo, menu *repository.MenuRepo) *AdminHandler {
	if users == nil || menu == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Users: users, Menu: menu}
}

// ListUsers handles GET /api/admin/users.  Credential material is never
// included.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch users")
	}
	return respond(c, http.StatusOK, "Users retrieved successfully", users)
}

// DeleteUser handles DELETE /api/admin/users/:id.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid user id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		return failFromError(c, err, "Failed to delete user")
	}
	return respond(c, http.StatusOK, "User deleted", nil)
}

// menuItemReq mirrors the admin menu form.
type menuItemReq struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	Description string  `json:"description"`
	Available   *bool   `json:"available"`
}

func (r menuItemReq) validate() string {
	if r.Name == "" || r.Category == "" || r.Price <= 0 {
		return "Name, category, and price are required"
	}
	if !model.ValidCategory(r.Category) {
		return "Unknown category"
	}
	return ""
}

// ListMenu handles GET /api/admin/menu: the whole catalog including
// unavailable items.
func (h *AdminHandler) ListMenu(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Menu.ListAll(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch menu")
	}
	return respond(c, http.StatusOK, "Menu retrieved successfully", items)
}

// CreateMenuItem handles POST /api/admin/menu.
func (h *AdminHandler) CreateMenuItem(c echo.Context) error {
	var body menuItemReq
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if msg := body.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	available := true
	if body.Available != nil {
		available = *body.Available
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	item, err := h.Menu.Create(ctx, model.MenuItem{
		Name:        body.Name,
		Category:    body.Category,
		Price:       body.Price,
		ImageURL:    body.ImageURL,
		Description: body.Description,
		Available:   available,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to add item")
	}
	return respond(c, http.StatusCreated, "Menu item added", item)
}

// UpdateMenuItem handles PUT /api/admin/menu/:id.
func (h *AdminHandler) UpdateMenuItem(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid item id")
	}
	var body menuItemReq
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if msg := body.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	available := true
	if body.Available != nil {
		available = *body.Available
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	item, err := h.Menu.Update(ctx, model.MenuItem{
		ID:          id,
		Name:        body.Name,
		Category:    body.Category,
		Price:       body.Price,
		ImageURL:    body.ImageURL,
		Description: body.Description,
		Available:   available,
	})
	if err != nil {
		return failFromError(c, err, "Failed to update item")
	}
	return respond(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem handles DELETE /api/admin/menu/:id.
func (h *AdminHandler) DeleteMenuItem(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid item id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Menu.Delete(ctx, id); err != nil {
		return failFromError(c, err, "Failed to delete item")
	}
	return respond(c, http.StatusOK, "Menu item deleted", nil)
}
