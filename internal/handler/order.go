package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sezalkc/tablease/internal/model"
)

// maxNotesLen bounds the free-text notes field.
const maxNotesLen = 500

// OrderService is the slice of the order lifecycle the HTTP layer
// needs.  Keeping it an interface lets handler tests run against a
// stub without a database.
type OrderService interface {
	PlaceOrder(ctx context.Context, tableID, waiterID uint64, items []model.OrderItem, allergies []string, notes string) (model.Order, error)
	AddItems(ctx context.Context, orderID uint64, items []model.OrderItem) (model.Order, error)
	GetActiveOrderForTable(ctx context.Context, tableID uint64) (model.Order, error)
	GetOrder(ctx context.Context, orderID uint64) (model.Order, error)
	SetStatus(ctx context.Context, orderID uint64, status string) (model.Order, error)
}

// OrderHandler exposes the order lifecycle over REST.  All methods
// assume JWT authentication and role validation have already run in
// middleware; the waiter identity comes from the token, never from the
// request body.
type OrderHandler struct {
	Orders OrderService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orders OrderService) *OrderHandler {
	if orders == nil {
		panic("nil service passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: orders}
}

// itemReq mirrors the wire shape of one order line.
type itemReq struct {
	MenuItemID uint64  `json:"menuItemId"`
	Name       string  `json:"name"`
	Qty        uint32  `json:"qty"`
	Price      float64 `json:"price"`
}

func toModelItems(in []itemReq) []model.OrderItem {
	items := make([]model.OrderItem, 0, len(in))
	for _, it := range in {
		items = append(items, model.OrderItem{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Qty:        it.Qty,
			Price:      it.Price,
		})
	}
	return items
}

// PlaceOrder handles POST /api/orders.  The body carries a totalAmount
// field for compatibility with the original frontend; it is ignored and
// the total is always recomputed from the items server-side.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	waiterID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	var body struct {
		TableID     uint64    `json:"tableId"`
		Items       []itemReq `json:"items"`
		TotalAmount float64   `json:"totalAmount"` // ignored, derived field
		Allergies   []string  `json:"allergies"`
		Notes       string    `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if body.TableID == 0 || len(body.Items) == 0 {
		return fail(c, http.StatusBadRequest, "Table and items are required")
	}
	if len(body.Notes) > maxNotesLen {
		return fail(c, http.StatusBadRequest, "Notes are too long")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	order, err := h.Orders.PlaceOrder(ctx, body.TableID, waiterID, toModelItems(body.Items), body.Allergies, body.Notes)
	if err != nil {
		return failFromError(c, err, "Failed to place order")
	}
	return respond(c, http.StatusCreated, "Order placed successfully", order)
}

// GetActiveOrderForTable handles GET /api/orders/table/:tableId.  A 404
// tells the caller the table is free to start a new order.
func (h *OrderHandler) GetActiveOrderForTable(c echo.Context) error {
	tableID, ok := pathID(c, "tableId")
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid table id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	order, err := h.Orders.GetActiveOrderForTable(ctx, tableID)
	if err != nil {
		return failFromError(c, err, "Failed to fetch order")
	}
	return respond(c, http.StatusOK, "Order retrieved successfully", order)
}

// GetOrder handles GET /api/orders/:orderId.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid order id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	order, err := h.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return failFromError(c, err, "Failed to fetch order")
	}
	return respond(c, http.StatusOK, "Order retrieved successfully", order)
}

// AddItems handles PATCH /api/orders/:orderId/add-items.  Matching
// lines keep their captured price; the order drops back to pending so
// the kitchen sees the new items.
func (h *OrderHandler) AddItems(c echo.Context) error {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid order id")
	}
	var body struct {
		Items []itemReq `json:"items"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if len(body.Items) == 0 {
		return fail(c, http.StatusBadRequest, "At least one item is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	order, err := h.Orders.AddItems(ctx, orderID, toModelItems(body.Items))
	if err != nil {
		return failFromError(c, err, "Failed to add items")
	}
	return respond(c, http.StatusOK, "Items added to order", order)
}

// SetStatus handles PATCH /api/orders/:orderId/status for the kitchen
// and cashier workflows.  Billing or paying an order frees its table.
func (h *OrderHandler) SetStatus(c echo.Context) error {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid order id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if !model.KnownStatus(body.Status) {
		return fail(c, http.StatusBadRequest, "Unknown status")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	order, err := h.Orders.SetStatus(ctx, orderID, body.Status)
	if err != nil {
		return failFromError(c, err, "Failed to update order status")
	}
	return respond(c, http.StatusOK, "Order status updated", order)
}
