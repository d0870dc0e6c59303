package repository

import (
	"context"
	"database/sql"

	"github.com/sezalkc/tablease/internal/model"
)

// TableRepo provides persistence for the floor's tables.  Occupancy
// fields (status and current order) are only ever written together, and
// the claim path is a single conditional UPDATE so that two concurrent
// order placements can never both take the same table, even across
// multiple service instances sharing the database.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableColumns = "id, table_number, seats, status, current_order_id"

func scanTable(row interface{ Scan(...any) error }) (model.Table, error) {
	var t model.Table
	var cur sql.NullInt64
	if err := row.Scan(&t.ID, &t.TableNumber, &t.Seats, &t.Status, &cur); err != nil {
		return model.Table{}, err
	}
	if cur.Valid {
		id := uint64(cur.Int64)
		t.CurrentOrder = &id
	}
	return t, nil
}

// List returns every table ordered by table label ascending.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+tableColumns+" FROM tables ORDER BY table_number ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tables := make([]model.Table, 0)
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}

// GetByID fetches a single table.  ErrTableNotFound is returned when
// the id is unknown.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (model.Table, error) {
	t, err := scanTable(r.db.QueryRowContext(ctx,
		"SELECT "+tableColumns+" FROM tables WHERE id = ? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Table{}, ErrTableNotFound
	}
	return t, err
}

// Claim marks a table occupied by the given order, but only when the
// table is currently available.  It returns ErrTableOccupied when the
// conditional update matches no row because another order holds the
// table, and ErrTableNotFound when the table does not exist at all.
// This is the serialization point for concurrent order placement.
func (r *TableRepo) Claim(ctx context.Context, tableID, orderID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE tables SET status = ?, current_order_id = ? WHERE id = ? AND status = ?",
		model.TableOccupied, orderID, tableID, model.TableAvailable)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	// No row matched: either the table is taken or it never existed.
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM tables WHERE id = ?)", tableID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrTableNotFound
	}
	return ErrTableOccupied
}

// Release returns a table to the floor: status available, no current
// order.  The update is conditional on the table still referencing the
// order being released (nil matches a table with no reference), so a
// release that raced a newer claim cannot wipe that claim.  Zero rows
// affected on an existing table means somebody else already repaired
// or re-claimed it, which is not an error; an unknown table is reported
// as ErrTableNotFound.
func (r *TableRepo) Release(ctx context.Context, tableID uint64, orderID *uint64) error {
	var (
		res sql.Result
		err error
	)
	if orderID != nil {
		res, err = r.db.ExecContext(ctx,
			"UPDATE tables SET status = ?, current_order_id = NULL WHERE id = ? AND current_order_id = ?",
			model.TableAvailable, tableID, *orderID)
	} else {
		res, err = r.db.ExecContext(ctx,
			"UPDATE tables SET status = ?, current_order_id = NULL WHERE id = ? AND current_order_id IS NULL",
			model.TableAvailable, tableID)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM tables WHERE id = ?)", tableID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrTableNotFound
		}
	}
	return nil
}

// SetOccupancy updates status and current order together for workflows
// outside claiming, e.g. marking a table "ordered" once the kitchen has
// the ticket.  Both fields always move in one statement.
func (r *TableRepo) SetOccupancy(ctx context.Context, tableID uint64, status string, orderID *uint64) (model.Table, error) {
	var cur sql.NullInt64
	if orderID != nil {
		cur = sql.NullInt64{Int64: int64(*orderID), Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE tables SET status = ?, current_order_id = ? WHERE id = ?",
		status, cur, tableID)
	if err != nil {
		return model.Table{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return model.Table{}, err
	} else if n == 0 {
		if t, err := r.GetByID(ctx, tableID); err == nil {
			return t, nil // values already matched
		}
		return model.Table{}, ErrTableNotFound
	}
	return r.GetByID(ctx, tableID)
}

// Create inserts a table; used by floor seeding, not by request paths.
func (r *TableRepo) Create(ctx context.Context, tableNumber string, seats uint32) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO tables (table_number, seats, status) VALUES (?, ?, ?)",
		tableNumber, seats, model.TableAvailable)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
