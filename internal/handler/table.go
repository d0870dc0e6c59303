package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sezalkc/tablease/internal/model"
	"github.com/sezalkc/tablease/internal/repository"
)

// TableRegistry is the slice of the table store the floor views need.
// Listing serves every staff role; SetOccupancy backs the manager-only
// override for states the order lifecycle does not set itself (e.g.
// marking a walk-in table "ordered" before its ticket is in).
type TableRegistry interface {
	List(ctx context.Context) ([]model.Table, error)
	GetByID(ctx context.Context, id uint64) (model.Table, error)
	SetOccupancy(ctx context.Context, tableID uint64, status string, orderID *uint64) (model.Table, error)
}

// OrderReader resolves the order a table references, so the override
// can refuse to orphan a live one.
type OrderReader interface {
	GetByID(ctx context.Context, id uint64) (model.Order, error)
}

// TableHandler serves the floor overview.  Claiming and releasing run
// through the order lifecycle only; the override below never touches
// orders and never severs a live order's table linkage.
type TableHandler struct {
	Tables TableRegistry
	Orders OrderReader
}

// NewTableHandler constructs a TableHandler.
func NewTableHandler(tables TableRegistry, orders OrderReader) *TableHandler {
	if tables == nil || orders == nil {
		panic("nil store passed to NewTableHandler")
	}
	return &TableHandler{Tables: tables, Orders: orders}
}

// ListTables handles GET /api/tables, sorted by table label ascending.
func (h *TableHandler) ListTables(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tables, err := h.Tables.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch tables")
	}
	return respond(c, http.StatusOK, "Tables retrieved successfully", tables)
}

// SetTableStatus handles PATCH /api/tables/:id/status (manager only).
// It is a floor-state override: setting "available" also clears the
// current order reference, the other states keep it.  A table whose
// referenced order is still live cannot be freed here; closing the
// order through the lifecycle is the only way to release it.
func (h *TableHandler) SetTableStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid table id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	switch body.Status {
	case model.TableAvailable, model.TableOccupied, model.TableOrdered:
	default:
		return fail(c, http.StatusBadRequest, "Unknown table status")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cur, err := h.Tables.GetByID(ctx, id)
	if err != nil {
		return failFromError(c, err, "Failed to update table")
	}

	var keepOrder *uint64
	if body.Status == model.TableAvailable {
		if cur.CurrentOrder != nil {
			order, err := h.Orders.GetByID(ctx, *cur.CurrentOrder)
			if err != nil && !errors.Is(err, repository.ErrOrderNotFound) {
				return failFromError(c, err, "Failed to update table")
			}
			if err == nil && !model.Terminal(order.Status) {
				return fail(c, http.StatusConflict, "Table has a live order; bill or pay it first")
			}
		}
	} else {
		// Preserve the existing reference; only the lifecycle sets it.
		keepOrder = cur.CurrentOrder
	}

	table, err := h.Tables.SetOccupancy(ctx, id, body.Status, keepOrder)
	if err != nil {
		return failFromError(c, err, "Failed to update table")
	}
	return respond(c, http.StatusOK, "Table status updated", table)
}
