package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sezalkc/tablease/internal/handler"
	"github.com/sezalkc/tablease/internal/model"
	"github.com/sezalkc/tablease/internal/repository"
)

type stubOrderService struct {
	placeOrderFunc func(ctx context.Context, tableID, waiterID uint64, items []model.OrderItem, allergies []string, notes string) (model.Order, error)
	addItemsFunc   func(ctx context.Context, orderID uint64, items []model.OrderItem) (model.Order, error)
	activeFunc     func(ctx context.Context, tableID uint64) (model.Order, error)
	getFunc        func(ctx context.Context, orderID uint64) (model.Order, error)
	setStatusFunc  func(ctx context.Context, orderID uint64, status string) (model.Order, error)
}

func (s *stubOrderService) PlaceOrder(ctx context.Context, tableID, waiterID uint64, items []model.OrderItem, allergies []string, notes string) (model.Order, error) {
	return s.placeOrderFunc(ctx, tableID, waiterID, items, allergies, notes)
}

func (s *stubOrderService) AddItems(ctx context.Context, orderID uint64, items []model.OrderItem) (model.Order, error) {
	return s.addItemsFunc(ctx, orderID, items)
}

func (s *stubOrderService) GetActiveOrderForTable(ctx context.Context, tableID uint64) (model.Order, error) {
	return s.activeFunc(ctx, tableID)
}

func (s *stubOrderService) GetOrder(ctx context.Context, orderID uint64) (model.Order, error) {
	return s.getFunc(ctx, orderID)
}

func (s *stubOrderService) SetStatus(ctx context.Context, orderID uint64, status string) (model.Order, error) {
	return s.setStatusFunc(ctx, orderID, status)
}

// newCtx builds an echo context carrying the claims middleware would set.
func newCtx(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(9)) // JWT claims decode numbers as float64
	c.Set("role", model.RoleWaiter)
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPlaceOrderHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &stubOrderService{
			placeOrderFunc: func(ctx context.Context, tableID, waiterID uint64, items []model.OrderItem, allergies []string, notes string) (model.Order, error) {
				assert.Equal(t, uint64(5), tableID)
				assert.Equal(t, uint64(9), waiterID)
				require.Len(t, items, 1)
				assert.Equal(t, "Chicken Momo (8 pcs)", items[0].Name)
				return model.Order{ID: 42, TableID: tableID, WaiterID: waiterID, Items: items,
					Status: model.OrderPending, TotalAmount: 640}, nil
			},
		}
		h := handler.NewOrderHandler(svc)

		c, rec := newCtx(t, http.MethodPost, "/api/orders",
			`{"tableId":5,"items":[{"name":"Chicken Momo (8 pcs)","qty":2,"price":320}],"totalAmount":1,"notes":"no ice"}`)
		require.NoError(t, h.PlaceOrder(c))

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		data := body["data"].(map[string]interface{})
		assert.Equal(t, float64(42), data["_id"])
		// totalAmount in the request is ignored; the server total wins.
		assert.Equal(t, float64(640), data["totalAmount"])
	})

	t.Run("missing_table_or_items", func(t *testing.T) {
		h := handler.NewOrderHandler(&stubOrderService{})
		c, rec := newCtx(t, http.MethodPost, "/api/orders", `{"items":[]}`)
		require.NoError(t, h.PlaceOrder(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Table and items are required", body["message"])
	})

	t.Run("occupied_table_conflict", func(t *testing.T) {
		svc := &stubOrderService{
			placeOrderFunc: func(ctx context.Context, tableID, waiterID uint64, items []model.OrderItem, allergies []string, notes string) (model.Order, error) {
				return model.Order{}, repository.ErrTableOccupied
			},
		}
		h := handler.NewOrderHandler(svc)

		c, rec := newCtx(t, http.MethodPost, "/api/orders",
			`{"tableId":5,"items":[{"name":"Kheer","qty":1,"price":140}]}`)
		require.NoError(t, h.PlaceOrder(c))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Table already has an active order", decodeBody(t, rec)["message"])
	})

	t.Run("validation_error_from_service", func(t *testing.T) {
		svc := &stubOrderService{
			placeOrderFunc: func(ctx context.Context, tableID, waiterID uint64, items []model.OrderItem, allergies []string, notes string) (model.Order, error) {
				return model.Order{}, &repository.ValidationError{Msg: "item qty must be a positive integer"}
			},
		}
		h := handler.NewOrderHandler(svc)

		c, rec := newCtx(t, http.MethodPost, "/api/orders",
			`{"tableId":5,"items":[{"name":"Kheer","qty":0,"price":140}]}`)
		require.NoError(t, h.PlaceOrder(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "item qty must be a positive integer", decodeBody(t, rec)["message"])
	})
}

func TestGetActiveOrderForTableHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &stubOrderService{
			activeFunc: func(ctx context.Context, tableID uint64) (model.Order, error) {
				return model.Order{ID: 42, TableID: tableID, Status: model.OrderPreparing}, nil
			},
		}
		h := handler.NewOrderHandler(svc)

		c, rec := newCtx(t, http.MethodGet, "/", "")
		c.SetParamNames("tableId")
		c.SetParamValues("5")
		require.NoError(t, h.GetActiveOrderForTable(c))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("none_active", func(t *testing.T) {
		svc := &stubOrderService{
			activeFunc: func(ctx context.Context, tableID uint64) (model.Order, error) {
				return model.Order{}, repository.ErrNoActiveOrder
			},
		}
		h := handler.NewOrderHandler(svc)

		c, rec := newCtx(t, http.MethodGet, "/", "")
		c.SetParamNames("tableId")
		c.SetParamValues("5")
		require.NoError(t, h.GetActiveOrderForTable(c))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "No active order for this table", decodeBody(t, rec)["message"])
	})

	t.Run("bad_id", func(t *testing.T) {
		h := handler.NewOrderHandler(&stubOrderService{})
		c, rec := newCtx(t, http.MethodGet, "/", "")
		c.SetParamNames("tableId")
		c.SetParamValues("abc")
		require.NoError(t, h.GetActiveOrderForTable(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAddItemsHandler(t *testing.T) {
	t.Run("merged", func(t *testing.T) {
		svc := &stubOrderService{
			addItemsFunc: func(ctx context.Context, orderID uint64, items []model.OrderItem) (model.Order, error) {
				assert.Equal(t, uint64(42), orderID)
				return model.Order{ID: orderID, Status: model.OrderPending, TotalAmount: 1080}, nil
			},
		}
		h := handler.NewOrderHandler(svc)

		c, rec := newCtx(t, http.MethodPatch, "/",
			`{"items":[{"name":"Lassi (Sweet/Salted)","qty":1,"price":120}]}`)
		c.SetParamNames("orderId")
		c.SetParamValues("42")
		require.NoError(t, h.AddItems(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]interface{})
		assert.Equal(t, model.OrderPending, data["status"])
	})

	t.Run("empty_items", func(t *testing.T) {
		h := handler.NewOrderHandler(&stubOrderService{})
		c, rec := newCtx(t, http.MethodPatch, "/", `{"items":[]}`)
		c.SetParamNames("orderId")
		c.SetParamValues("42")
		require.NoError(t, h.AddItems(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("closed_order", func(t *testing.T) {
		svc := &stubOrderService{
			addItemsFunc: func(ctx context.Context, orderID uint64, items []model.OrderItem) (model.Order, error) {
				return model.Order{}, repository.ErrOrderClosed
			},
		}
		h := handler.NewOrderHandler(svc)

		c, rec := newCtx(t, http.MethodPatch, "/",
			`{"items":[{"name":"Kheer","qty":1,"price":140}]}`)
		c.SetParamNames("orderId")
		c.SetParamValues("42")
		require.NoError(t, h.AddItems(c))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Order is already billed or paid", decodeBody(t, rec)["message"])
	})
}

func TestSetStatusHandler(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		svc := &stubOrderService{
			setStatusFunc: func(ctx context.Context, orderID uint64, status string) (model.Order, error) {
				return model.Order{ID: orderID, Status: status}, nil
			},
		}
		h := handler.NewOrderHandler(svc)

		c, rec := newCtx(t, http.MethodPatch, "/", `{"status":"ready"}`)
		c.SetParamNames("orderId")
		c.SetParamValues("42")
		require.NoError(t, h.SetStatus(c))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown_status", func(t *testing.T) {
		h := handler.NewOrderHandler(&stubOrderService{})
		c, rec := newCtx(t, http.MethodPatch, "/", `{"status":"cancelled"}`)
		c.SetParamNames("orderId")
		c.SetParamValues("42")
		require.NoError(t, h.SetStatus(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Unknown status", decodeBody(t, rec)["message"])
	})

	t.Run("invalid_transition", func(t *testing.T) {
		svc := &stubOrderService{
			setStatusFunc: func(ctx context.Context, orderID uint64, status string) (model.Order, error) {
				return model.Order{}, repository.ErrInvalidTransition
			},
		}
		h := handler.NewOrderHandler(svc)

		c, rec := newCtx(t, http.MethodPatch, "/", `{"status":"pending"}`)
		c.SetParamNames("orderId")
		c.SetParamValues("42")
		require.NoError(t, h.SetStatus(c))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
