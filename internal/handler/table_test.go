package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sezalkc/tablease/internal/handler"
	"github.com/sezalkc/tablease/internal/model"
	"github.com/sezalkc/tablease/internal/repository"
)

type stubTableRegistry struct {
	listFunc         func(ctx context.Context) ([]model.Table, error)
	getByIDFunc      func(ctx context.Context, id uint64) (model.Table, error)
	setOccupancyFunc func(ctx context.Context, tableID uint64, status string, orderID *uint64) (model.Table, error)
}

func (s *stubTableRegistry) List(ctx context.Context) ([]model.Table, error) {
	return s.listFunc(ctx)
}

func (s *stubTableRegistry) GetByID(ctx context.Context, id uint64) (model.Table, error) {
	return s.getByIDFunc(ctx, id)
}

func (s *stubTableRegistry) SetOccupancy(ctx context.Context, tableID uint64, status string, orderID *uint64) (model.Table, error) {
	return s.setOccupancyFunc(ctx, tableID, status, orderID)
}

type stubOrderReader struct {
	getByIDFunc func(ctx context.Context, id uint64) (model.Order, error)
}

func (s *stubOrderReader) GetByID(ctx context.Context, id uint64) (model.Order, error) {
	return s.getByIDFunc(ctx, id)
}

func orderWithStatus(status string) *stubOrderReader {
	return &stubOrderReader{
		getByIDFunc: func(ctx context.Context, id uint64) (model.Order, error) {
			return model.Order{ID: id, TableID: 1, Status: status}, nil
		},
	}
}

func TestListTablesHandler(t *testing.T) {
	reg := &stubTableRegistry{
		listFunc: func(ctx context.Context) ([]model.Table, error) {
			return []model.Table{
				{ID: 1, TableNumber: "T1", Seats: 4, Status: model.TableAvailable},
				{ID: 2, TableNumber: "T2", Seats: 2, Status: model.TableOccupied},
			}, nil
		},
	}
	h := handler.NewTableHandler(reg, orderWithStatus(model.OrderPending))

	c, rec := newCtx(t, http.MethodGet, "/api/tables", "")
	require.NoError(t, h.ListTables(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 2)
}

func TestSetTableStatusHandler(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		orderID := uint64(42)
		reg := &stubTableRegistry{
			getByIDFunc: func(ctx context.Context, id uint64) (model.Table, error) {
				return model.Table{ID: id, TableNumber: "T1", Status: model.TableOccupied, CurrentOrder: &orderID}, nil
			},
			setOccupancyFunc: func(ctx context.Context, tableID uint64, status string, oid *uint64) (model.Table, error) {
				assert.Equal(t, model.TableOrdered, status)
				// The existing order reference survives the override.
				require.NotNil(t, oid)
				assert.Equal(t, orderID, *oid)
				return model.Table{ID: tableID, TableNumber: "T1", Status: status, CurrentOrder: oid}, nil
			},
		}
		h := handler.NewTableHandler(reg, orderWithStatus(model.OrderPending))

		c, rec := newCtx(t, http.MethodPatch, "/", `{"status":"ordered"}`)
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, h.SetTableStatus(c))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("available_clears_settled_order", func(t *testing.T) {
		orderID := uint64(42)
		reg := &stubTableRegistry{
			getByIDFunc: func(ctx context.Context, id uint64) (model.Table, error) {
				return model.Table{ID: id, Status: model.TableOccupied, CurrentOrder: &orderID}, nil
			},
			setOccupancyFunc: func(ctx context.Context, tableID uint64, status string, oid *uint64) (model.Table, error) {
				assert.Equal(t, model.TableAvailable, status)
				assert.Nil(t, oid)
				return model.Table{ID: tableID, Status: status}, nil
			},
		}
		h := handler.NewTableHandler(reg, orderWithStatus(model.OrderPaid))

		c, rec := newCtx(t, http.MethodPatch, "/", `{"status":"available"}`)
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, h.SetTableStatus(c))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("live_order_blocks_freeing", func(t *testing.T) {
		orderID := uint64(42)
		reg := &stubTableRegistry{
			getByIDFunc: func(ctx context.Context, id uint64) (model.Table, error) {
				return model.Table{ID: id, Status: model.TableOccupied, CurrentOrder: &orderID}, nil
			},
			setOccupancyFunc: func(ctx context.Context, tableID uint64, status string, oid *uint64) (model.Table, error) {
				t.Fatal("occupancy must not change while the order is live")
				return model.Table{}, nil
			},
		}
		h := handler.NewTableHandler(reg, orderWithStatus(model.OrderPreparing))

		c, rec := newCtx(t, http.MethodPatch, "/", `{"status":"available"}`)
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, h.SetTableStatus(c))

		assert.Equal(t, http.StatusConflict, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["message"], "live order")
	})

	t.Run("dangling_reference_freed", func(t *testing.T) {
		orderID := uint64(42)
		reg := &stubTableRegistry{
			getByIDFunc: func(ctx context.Context, id uint64) (model.Table, error) {
				return model.Table{ID: id, Status: model.TableOccupied, CurrentOrder: &orderID}, nil
			},
			setOccupancyFunc: func(ctx context.Context, tableID uint64, status string, oid *uint64) (model.Table, error) {
				assert.Nil(t, oid)
				return model.Table{ID: tableID, Status: status}, nil
			},
		}
		orders := &stubOrderReader{
			getByIDFunc: func(ctx context.Context, id uint64) (model.Order, error) {
				return model.Order{}, repository.ErrOrderNotFound
			},
		}
		h := handler.NewTableHandler(reg, orders)

		c, rec := newCtx(t, http.MethodPatch, "/", `{"status":"available"}`)
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, h.SetTableStatus(c))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown_status", func(t *testing.T) {
		h := handler.NewTableHandler(&stubTableRegistry{}, &stubOrderReader{})
		c, rec := newCtx(t, http.MethodPatch, "/", `{"status":"reserved"}`)
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, h.SetTableStatus(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("table_not_found", func(t *testing.T) {
		reg := &stubTableRegistry{
			getByIDFunc: func(ctx context.Context, id uint64) (model.Table, error) {
				return model.Table{}, repository.ErrTableNotFound
			},
		}
		h := handler.NewTableHandler(reg, &stubOrderReader{})

		c, rec := newCtx(t, http.MethodPatch, "/", `{"status":"occupied"}`)
		c.SetParamNames("id")
		c.SetParamValues("99")
		require.NoError(t, h.SetTableStatus(c))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
