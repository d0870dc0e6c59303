package model

import "time"

// Order statuses form the kitchen/cashier lifecycle:
// pending → preparing → ready → served → billed → paid.
// Adding items to an order moves it back to pending so the kitchen sees
// the unprepared items again.  billed and paid are terminal: the order
// becomes immutable and its table no longer counts as occupied by it.
const (
	OrderPending   = "pending"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderServed    = "served"
	OrderBilled    = "billed"
	OrderPaid      = "paid"
)

// ActiveStatuses is the set matched by the "active order for table"
// lookup.  A served order is no longer active for that lookup even
// though it still keeps the table occupied until it is billed.
var ActiveStatuses = []string{OrderPending, OrderPreparing, OrderReady}

// OrderItem is one line of an order.  Price is captured at order time;
// later menu price changes never alter existing lines.  MenuItemID is
// the catalog reference when the client carries it through, zero when
// the line was keyed by name only.
type OrderItem struct {
	MenuItemID uint64  `json:"menuItemId,omitempty"` // order_items.menu_item_id
	Name       string  `json:"name"`                 // order_items.name
	Qty        uint32  `json:"qty"`                  // order_items.qty
	Price      float64 `json:"price"`                // order_items.price
}

// Order groups the line items a waiter has placed for a table.
//
// Fields:
//  ID          – primary key identifier.
//  TableID     – table the order belongs to.
//  WaiterID    – staff member who created the order.
//  Items       – ordered line items.
//  Allergies   – free-text allergy tags.
//  Notes       – free text, bounded length.
//  Status      – lifecycle status, see constants above.
//  TotalAmount – always equals the sum of qty×price over Items.
type Order struct {
	ID          uint64      `json:"_id"`         // orders.id
	TableID     uint64      `json:"table"`       // orders.table_id
	WaiterID    uint64      `json:"waiter"`      // orders.waiter_id
	Items       []OrderItem `json:"items"`       // order_items rows
	Allergies   []string    `json:"allergies"`   // orders.allergies
	Notes       string      `json:"notes"`       // orders.notes
	Status      string      `json:"status"`      // orders.status
	TotalAmount float64     `json:"totalAmount"` // orders.total_amount
	CreatedAt   time.Time   `json:"createdAt"`   // orders.created_at
	UpdatedAt   time.Time   `json:"updatedAt"`   // orders.updated_at
}

// Terminal reports whether a status closes the order for good.
func Terminal(status string) bool {
	return status == OrderBilled || status == OrderPaid
}

// ItemsTotal computes the invariant total from a set of line items.
func ItemsTotal(items []OrderItem) float64 {
	var sum float64
	for _, it := range items {
		sum += float64(it.Qty) * it.Price
	}
	return sum
}

// ValidateItems checks the line-item rules shared by order creation and
// item merging: at least one item, positive quantities, non-negative
// prices, non-empty names.  The first violation is returned as a
// human-readable message; an empty string means the items are valid.
func ValidateItems(items []OrderItem) string {
	if len(items) == 0 {
		return "at least one item is required"
	}
	for _, it := range items {
		if it.Name == "" {
			return "item name is required"
		}
		if it.Qty == 0 {
			return "item qty must be a positive integer"
		}
		if it.Price < 0 {
			return "item price must not be negative"
		}
	}
	return ""
}

// MergeItems folds incoming line items into an existing list.  A match
// is keyed by menu item id when both sides carry one, by exact name
// otherwise.  Matched lines gain the incoming quantity but keep their
// captured price even when the incoming line carries a different one;
// unmatched lines are appended in order.  The input slices are not
// modified.
func MergeItems(existing, incoming []OrderItem) []OrderItem {
	merged := make([]OrderItem, len(existing))
	copy(merged, existing)
	for _, in := range incoming {
		idx := -1
		for i, have := range merged {
			if in.MenuItemID != 0 && have.MenuItemID != 0 {
				if in.MenuItemID == have.MenuItemID {
					idx = i
					break
				}
				continue
			}
			if have.Name == in.Name {
				idx = i
				break
			}
		}
		if idx >= 0 {
			merged[idx].Qty += in.Qty
			continue
		}
		merged = append(merged, in)
	}
	return merged
}

// validNext lists the transitions setStatus accepts.  Adding items is
// the only other path that changes status (back to pending) and it does
// not go through setStatus.
var validNext = map[string][]string{
	OrderPending:   {OrderPreparing, OrderReady, OrderServed, OrderBilled},
	OrderPreparing: {OrderReady, OrderServed, OrderBilled},
	OrderReady:     {OrderServed, OrderBilled},
	OrderServed:    {OrderBilled},
	OrderBilled:    {OrderPaid},
	OrderPaid:      {},
}

// CanTransition reports whether an order may move from one status to
// another via the kitchen/cashier workflow.  Nothing leaves paid, and
// the only move out of billed is billed → paid.
func CanTransition(from, to string) bool {
	for _, s := range validNext[from] {
		if s == to {
			return true
		}
	}
	return false
}

// KnownStatus reports whether s is one of the six order statuses.
func KnownStatus(s string) bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady, OrderServed, OrderBilled, OrderPaid:
		return true
	}
	return false
}
