package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/sezalkc/tablease/internal/model"
)

// OrderRepo provides persistence for orders and their line items.
// Line items live in the order_items table; allergy tags are stored as
// a JSON array on the order row.  Mutating operations run inside a
// transaction and lock the order row first (SELECT ... FOR UPDATE) so
// concurrent merges or status updates against the same order serialize
// instead of losing writes.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create inserts a new order with status pending.  The total is always
// recomputed from the items here; any total supplied by a client is
// ignored upstream.  The generated id and DB timestamps are populated
// on the passed order.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	if msg := model.ValidateItems(o.Items); msg != "" {
		return &ValidationError{Msg: msg}
	}
	allergies, err := marshalAllergies(o.Allergies)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	o.Status = model.OrderPending
	o.TotalAmount = model.ItemsTotal(o.Items)
	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (table_id, waiter_id, status, total_amount, allergies, notes) VALUES (?, ?, ?, ?, ?, ?)",
		o.TableID, o.WaiterID, o.Status, o.TotalAmount, allergies, o.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	if err := insertItemsTx(ctx, tx, o.ID, o.Items); err != nil {
		return err
	}
	// Query back timestamps populated by the DB defaults.
	if err := tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM orders WHERE id = ?", o.ID).
		Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// insertItemsTx bulk-inserts line items for an order in one statement.
func insertItemsTx(ctx context.Context, tx *sql.Tx, orderID uint64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	query := "INSERT INTO order_items (order_id, menu_item_id, name, qty, price) VALUES "
	args := make([]interface{}, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		var menuRef sql.NullInt64
		if it.MenuItemID != 0 {
			menuRef = sql.NullInt64{Int64: int64(it.MenuItemID), Valid: true}
		}
		args = append(args, orderID, menuRef, it.Name, it.Qty, it.Price)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByID returns an order with its line items, or ErrOrderNotFound.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (model.Order, error) {
	const q = `SELECT id, table_id, waiter_id, status, total_amount, allergies, notes, created_at, updated_at
	           FROM orders WHERE id = ? LIMIT 1`
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return model.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return model.Order{}, err
	}
	o.Items = items
	return o, nil
}

// FindActiveForTable returns the most recently created order for the
// table whose status is in the active set (pending, preparing, ready).
// Under the one-active-order invariant at most one row qualifies; the
// ORDER BY makes the result deterministic if the invariant was ever
// violated by hand-edited data.  ErrNoActiveOrder means the table is
// free to start a new order.
func (r *OrderRepo) FindActiveForTable(ctx context.Context, tableID uint64) (model.Order, error) {
	q := `SELECT id, table_id, waiter_id, status, total_amount, allergies, notes, created_at, updated_at
	      FROM orders
	      WHERE table_id = ? AND status IN (` + statusPlaceholders(model.ActiveStatuses) + `)
	      ORDER BY created_at DESC, id DESC
	      LIMIT 1`
	args := []interface{}{tableID}
	for _, s := range model.ActiveStatuses {
		args = append(args, s)
	}
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, args...))
	if err == sql.ErrNoRows {
		return model.Order{}, ErrNoActiveOrder
	}
	if err != nil {
		return model.Order{}, err
	}
	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return model.Order{}, err
	}
	o.Items = items
	return o, nil
}

// MergeItems folds incoming items into an order.  Matching lines gain
// quantity but keep their captured price; new lines are appended.  The
// total is recomputed and the status reset to pending so the kitchen
// sees the unprepared items.  The order row is locked for the duration
// of the transaction, so two concurrent merges serialize and neither
// update is lost.  Billed or paid orders are immutable and produce
// ErrOrderClosed without modification.
func (r *OrderRepo) MergeItems(ctx context.Context, orderID uint64, incoming []model.OrderItem) (model.Order, error) {
	if msg := model.ValidateItems(incoming); msg != "" {
		return model.Order{}, &ValidationError{Msg: msg}
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var status string
	err = tx.QueryRowContext(ctx,
		"SELECT status FROM orders WHERE id = ? FOR UPDATE", orderID).Scan(&status)
	if err == sql.ErrNoRows {
		return model.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	if model.Terminal(status) {
		return model.Order{}, ErrOrderClosed
	}

	existing, err := loadItemsTx(ctx, tx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	merged := model.MergeItems(existing, incoming)

	// Rewrite the item rows rather than diffing quantities; the set is
	// small (one table's order) and the rewrite keeps insertion order.
	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = ?", orderID); err != nil {
		return model.Order{}, err
	}
	if err := insertItemsTx(ctx, tx, orderID, merged); err != nil {
		return model.Order{}, err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = ?, total_amount = ? WHERE id = ?",
		model.OrderPending, model.ItemsTotal(merged), orderID); err != nil {
		return model.Order{}, err
	}

	const q = `SELECT id, table_id, waiter_id, status, total_amount, allergies, notes, created_at, updated_at
	           FROM orders WHERE id = ? LIMIT 1`
	o, err := scanOrder(tx.QueryRowContext(ctx, q, orderID))
	if err != nil {
		return model.Order{}, err
	}
	o.Items = merged
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	committed = true
	return o, nil
}

// SetStatus advances an order through the kitchen/cashier workflow.
// The transition table in the model package is enforced under the same
// row lock as merges, so a merge racing a billing cannot slip items
// into a closed order.
func (r *OrderRepo) SetStatus(ctx context.Context, orderID uint64, newStatus string) (model.Order, error) {
	if !model.KnownStatus(newStatus) {
		return model.Order{}, &ValidationError{Msg: "unknown status: " + newStatus}
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var status string
	err = tx.QueryRowContext(ctx,
		"SELECT status FROM orders WHERE id = ? FOR UPDATE", orderID).Scan(&status)
	if err == sql.ErrNoRows {
		return model.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	if !model.CanTransition(status, newStatus) {
		return model.Order{}, ErrInvalidTransition
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = ? WHERE id = ?", newStatus, orderID); err != nil {
		return model.Order{}, err
	}

	const q = `SELECT id, table_id, waiter_id, status, total_amount, allergies, notes, created_at, updated_at
	           FROM orders WHERE id = ? LIMIT 1`
	o, err := scanOrder(tx.QueryRowContext(ctx, q, orderID))
	if err != nil {
		return model.Order{}, err
	}
	items, err := loadItemsTx(ctx, tx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	o.Items = items
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	committed = true
	return o, nil
}

// Delete removes an order and its items.  Only the lifecycle service
// uses it, to compensate when a table claim loses a race after the
// order row was already created.
func (r *OrderRepo) Delete(ctx context.Context, orderID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = ?", orderID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", orderID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// --- scanning helpers ---

func scanOrder(row interface{ Scan(...any) error }) (model.Order, error) {
	var o model.Order
	var allergies sql.NullString
	if err := row.Scan(&o.ID, &o.TableID, &o.WaiterID, &o.Status, &o.TotalAmount,
		&allergies, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return model.Order{}, err
	}
	o.Allergies = unmarshalAllergies(allergies)
	return o, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT menu_item_id, name, qty, price FROM order_items WHERE order_id = ? ORDER BY id ASC", orderID)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

func loadItemsTx(ctx context.Context, tx *sql.Tx, orderID uint64) ([]model.OrderItem, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT menu_item_id, name, qty, price FROM order_items WHERE order_id = ? ORDER BY id ASC", orderID)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

func collectItems(rows *sql.Rows) ([]model.OrderItem, error) {
	defer rows.Close()
	items := make([]model.OrderItem, 0)
	for rows.Next() {
		var it model.OrderItem
		var menuRef sql.NullInt64
		if err := rows.Scan(&menuRef, &it.Name, &it.Qty, &it.Price); err != nil {
			return nil, err
		}
		if menuRef.Valid {
			it.MenuItemID = uint64(menuRef.Int64)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func marshalAllergies(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalAllergies(raw sql.NullString) []string {
	tags := []string{}
	if raw.Valid && strings.TrimSpace(raw.String) != "" {
		_ = json.Unmarshal([]byte(raw.String), &tags)
	}
	return tags
}

func statusPlaceholders(statuses []string) string {
	return strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
}
