package model

// Table statuses describe floor state, not billing state.  A table is
// "ordered" while its order is with the kitchen and "occupied" for the
// rest of the sitting; "available" means no open order references it.
const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
	TableOrdered   = "ordered"
)

// Table describes a physical table on the restaurant floor.  Tables are
// created by floor-plan setup and are never deleted during service; only
// their occupancy fields change, and only through the order lifecycle.
//
// Fields:
//  ID           – primary key identifier.
//  TableNumber  – human-facing label, unique per floor.
//  Seats        – seat count.
//  Status       – one of available, occupied, ordered.
//  CurrentOrder – id of the open order for this table, nil when free.
type Table struct {
	ID           uint64  `json:"_id"`          // tables.id
	TableNumber  string  `json:"tableNumber"`  // tables.table_number
	Seats        uint32  `json:"seats"`        // tables.seats
	Status       string  `json:"status"`       // tables.status
	CurrentOrder *uint64 `json:"currentOrder"` // tables.current_order_id (nullable)
}

// Free reports whether the table can accept a new order.
func (t Table) Free() bool { return t.Status == TableAvailable }
