// Package queue defines message payloads exchanged over the message broker.
package queue

// ItemLine is one order line as carried inside kitchen events.
type ItemLine struct {
	Name  string  `json:"name"`
	Qty   uint32  `json:"qty"`
	Price float64 `json:"price"`
}

// OrderPlacedEvent is published when a waiter opens an order for a table.
// It carries enough information for the kitchen display and notification
// consumers to act without querying the primary database.
type OrderPlacedEvent struct {
	OrderID     uint64     `json:"order_id"`
	TableID     uint64     `json:"table_id"`
	TableNumber string     `json:"table_number"`
	WaiterID    uint64     `json:"waiter_id"`
	Items       []ItemLine `json:"items"`
	Allergies   []string   `json:"allergies"`
	Notes       string     `json:"notes"`
	TotalAmount float64    `json:"total_amount"`
	PlacedAt    string     `json:"placed_at"`
}

// OrderStatusChangedEvent is published when the kitchen or cashier moves
// an order through its lifecycle.
type OrderStatusChangedEvent struct {
	OrderID uint64 `json:"order_id"`
	TableID uint64 `json:"table_id"`
	Status  string `json:"status"`
}
