package repository

import (
	"context"
	"database/sql"

	"github.com/sezalkc/tablease/internal/model"
)

// MenuRepo provides CRUD for the menu catalog.  Order lines capture
// price at order time, so catalog edits never touch existing orders.
type MenuRepo struct {
	db *sql.DB
}

// NewMenuRepo returns a new MenuRepo bound to the given database.
func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{db: db} }

const menuColumns = "id, name, category, price, image_url, description, available, created_at, updated_at"

func scanMenuItem(row interface{ Scan(...any) error }) (model.MenuItem, error) {
	var m model.MenuItem
	var desc sql.NullString
	if err := row.Scan(&m.ID, &m.Name, &m.Category, &m.Price, &m.ImageURL,
		&desc, &m.Available, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return model.MenuItem{}, err
	}
	m.Description = desc.String
	return m, nil
}

// ListAvailable returns items shown on order-building screens, grouped
// for the client by category then name.
func (r *MenuRepo) ListAvailable(ctx context.Context) ([]model.MenuItem, error) {
	return r.list(ctx, "SELECT "+menuColumns+" FROM menu_items WHERE available = TRUE ORDER BY category, name")
}

// ListAll returns the whole catalog for the admin dashboard.
func (r *MenuRepo) ListAll(ctx context.Context) ([]model.MenuItem, error) {
	return r.list(ctx, "SELECT "+menuColumns+" FROM menu_items ORDER BY category, name")
}

func (r *MenuRepo) list(ctx context.Context, query string) ([]model.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.MenuItem, 0)
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID fetches one catalog item or ErrMenuItemNotFound.
func (r *MenuRepo) GetByID(ctx context.Context, id uint64) (model.MenuItem, error) {
	m, err := scanMenuItem(r.db.QueryRowContext(ctx,
		"SELECT "+menuColumns+" FROM menu_items WHERE id = ? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.MenuItem{}, ErrMenuItemNotFound
	}
	return m, err
}

// Create inserts a catalog item and returns it with id and timestamps.
func (r *MenuRepo) Create(ctx context.Context, m model.MenuItem) (model.MenuItem, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO menu_items (name, category, price, image_url, description, available) VALUES (?,?,?,?,?,?)",
		m.Name, m.Category, m.Price, m.ImageURL, m.Description, m.Available)
	if err != nil {
		return model.MenuItem{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.MenuItem{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// Update overwrites a catalog item's editable fields.
func (r *MenuRepo) Update(ctx context.Context, m model.MenuItem) (model.MenuItem, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE menu_items SET name=?, category=?, price=?, image_url=?, description=?, available=? WHERE id=?",
		m.Name, m.Category, m.Price, m.ImageURL, m.Description, m.Available, m.ID)
	if err != nil {
		return model.MenuItem{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return model.MenuItem{}, err
	} else if n == 0 {
		// Zero rows can also mean a no-op update; GetByID settles it.
		if _, err := r.GetByID(ctx, m.ID); err != nil {
			return model.MenuItem{}, err
		}
	}
	return r.GetByID(ctx, m.ID)
}

// Delete removes a catalog item, ErrMenuItemNotFound when absent.
func (r *MenuRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM menu_items WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}
