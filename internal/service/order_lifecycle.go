// Package service holds the order lifecycle orchestration: the cross-
// entity rules linking a table's occupancy to its active order.  All
// state lives in the backing stores, so any number of service instances
// can run side by side; the table claim and the per-order row locks in
// the stores are the only serialization points.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sezalkc/tablease/internal/model"
	"github.com/sezalkc/tablease/internal/queue"
	"github.com/sezalkc/tablease/internal/repository"
)

// TableStore is the slice of the table registry the lifecycle needs.
// Release takes the order reference being cleared so a release that
// raced a newer claim matches zero rows instead of wiping the claim.
type TableStore interface {
	GetByID(ctx context.Context, id uint64) (model.Table, error)
	Claim(ctx context.Context, tableID, orderID uint64) error
	Release(ctx context.Context, tableID uint64, orderID *uint64) error
}

// OrderStore is the slice of the order store the lifecycle needs.
type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id uint64) (model.Order, error)
	FindActiveForTable(ctx context.Context, tableID uint64) (model.Order, error)
	MergeItems(ctx context.Context, orderID uint64, items []model.OrderItem) (model.Order, error)
	SetStatus(ctx context.Context, orderID uint64, status string) (model.Order, error)
	Delete(ctx context.Context, orderID uint64) error
}

// EventPublisher fans order events out to the kitchen.  Publishing is
// best effort; failures are logged and never fail the request.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error
	PublishOrderStatusChanged(ctx context.Context, ev queue.OrderStatusChangedEvent) error
}

// OrderLifecycle enforces the invariant that a table is non-available
// exactly while it references a non-terminal order, and that at most
// one active order exists per table.
type OrderLifecycle struct {
	tables TableStore
	orders OrderStore
	events EventPublisher // optional, may be nil
}

// NewOrderLifecycle constructs the service.  The publisher may be nil
// when no broker is configured.
func NewOrderLifecycle(tables TableStore, orders OrderStore, events EventPublisher) *OrderLifecycle {
	if tables == nil || orders == nil {
		panic("nil store passed to NewOrderLifecycle")
	}
	return &OrderLifecycle{tables: tables, orders: orders, events: events}
}

// PlaceOrder opens a new order for a table.  The sequence is:
// validate, check the table, create the order, then claim the table
// with a conditional update.  Creation and claim commit together in
// effect: when the claim loses a race the just-created order is deleted
// so the system never keeps an order without its table linkage.
func (s *OrderLifecycle) PlaceOrder(ctx context.Context, tableID, waiterID uint64, items []model.OrderItem, allergies []string, notes string) (model.Order, error) {
	if msg := model.ValidateItems(items); msg != "" {
		return model.Order{}, &repository.ValidationError{Msg: msg}
	}

	table, err := s.tables.GetByID(ctx, tableID)
	if err != nil {
		return model.Order{}, err
	}
	if !table.Free() {
		// A non-available table only blocks placement while its current
		// order is still live.  A reference to an order that was billed
		// out of band (or a status with no order at all) is stale data;
		// it is repaired by releasing the table, and the conditional
		// claim below still decides any race fairly.
		if table.CurrentOrder != nil {
			cur, err := s.orders.GetByID(ctx, *table.CurrentOrder)
			if err == nil && !model.Terminal(cur.Status) {
				return model.Order{}, repository.ErrTableOccupied
			}
			if err != nil && !errors.Is(err, repository.ErrOrderNotFound) {
				return model.Order{}, err
			}
		}
		// The release is keyed to the stale reference; if another
		// placement repaired and re-claimed the table in between, this
		// matches nothing and the claim below loses cleanly.
		if err := s.tables.Release(ctx, tableID, table.CurrentOrder); err != nil {
			return model.Order{}, err
		}
	}

	order := model.Order{
		TableID:   tableID,
		WaiterID:  waiterID,
		Items:     items,
		Allergies: allergies,
		Notes:     notes,
	}
	if err := s.orders.Create(ctx, &order); err != nil {
		return model.Order{}, err
	}

	// The conditional claim is the serialization point: of two racing
	// placements exactly one updates the row.  The loser compensates by
	// deleting its order so no orphan survives.
	if err := s.tables.Claim(ctx, tableID, order.ID); err != nil {
		if delErr := s.orders.Delete(ctx, order.ID); delErr != nil {
			log.Printf("lifecycle: rollback of order %d failed: %v", order.ID, delErr)
		}
		return model.Order{}, err
	}

	s.publishPlaced(ctx, table, order)
	return order, nil
}

// AddItems merges new line items into an existing order.  Table state
// does not change: the table was already claimed when the order was
// placed.  The store enforces the billed/paid guard and the per-order
// serialization.
func (s *OrderLifecycle) AddItems(ctx context.Context, orderID uint64, items []model.OrderItem) (model.Order, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return model.Order{}, err
	}
	return s.orders.MergeItems(ctx, orderID, items)
}

// GetActiveOrderForTable is a read-through to the order store.  A
// repository.ErrNoActiveOrder result means the table is free to start a
// new order.
func (s *OrderLifecycle) GetActiveOrderForTable(ctx context.Context, tableID uint64) (model.Order, error) {
	return s.orders.FindActiveForTable(ctx, tableID)
}

// GetOrder loads a single order.
func (s *OrderLifecycle) GetOrder(ctx context.Context, orderID uint64) (model.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// SetStatus advances an order through the kitchen/cashier workflow.
// Entering a terminal state releases the order's table in the same
// step, keeping the occupancy invariant: a table must never reference a
// closed order as its active order.
func (s *OrderLifecycle) SetStatus(ctx context.Context, orderID uint64, status string) (model.Order, error) {
	order, err := s.orders.SetStatus(ctx, orderID, status)
	if err != nil {
		return model.Order{}, err
	}
	if model.Terminal(order.Status) {
		// Keyed to the closed order: if a new placement already repaired
		// the table and claimed it for a fresh order, this release
		// matches zero rows and the fresh claim survives.
		if err := s.tables.Release(ctx, order.TableID, &order.ID); err != nil {
			// The order is closed either way; a failed release is
			// repaired by the stale-reference path in PlaceOrder.
			log.Printf("lifecycle: release of table %d after order %d closed failed: %v", order.TableID, order.ID, err)
		}
	}
	s.publishStatusChanged(ctx, order)
	return order, nil
}

func (s *OrderLifecycle) publishPlaced(ctx context.Context, table model.Table, order model.Order) {
	if s.events == nil {
		return
	}
	ev := queue.OrderPlacedEvent{
		OrderID:     order.ID,
		TableID:     order.TableID,
		TableNumber: table.TableNumber,
		WaiterID:    order.WaiterID,
		Items:       itemLines(order.Items),
		Allergies:   order.Allergies,
		Notes:       order.Notes,
		TotalAmount: order.TotalAmount,
		PlacedAt:    order.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := s.events.PublishOrderPlaced(ctx, ev); err != nil {
		log.Printf("lifecycle: publish order.placed failed: %v", err)
	}
}

func (s *OrderLifecycle) publishStatusChanged(ctx context.Context, order model.Order) {
	if s.events == nil {
		return
	}
	ev := queue.OrderStatusChangedEvent{
		OrderID: order.ID,
		TableID: order.TableID,
		Status:  order.Status,
	}
	if err := s.events.PublishOrderStatusChanged(ctx, ev); err != nil {
		log.Printf("lifecycle: publish order.status_changed failed: %v", err)
	}
}

func itemLines(items []model.OrderItem) []queue.ItemLine {
	lines := make([]queue.ItemLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, queue.ItemLine{Name: it.Name, Qty: it.Qty, Price: it.Price})
	}
	return lines
}
