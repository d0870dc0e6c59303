package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sezalkc/tablease/internal/model"
	"github.com/sezalkc/tablease/internal/utils"
)

// UserRepo persists staff accounts.  Emails are normalized to lower
// case; passwords are stored as bcrypt hashes only.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, name, email, password_hash, role, is_email_verified, email_verification_token, email_verification_expires, created_at, updated_at"

// Create inserts an unverified user holding the given verification
// token and returns the new id.
func (r *UserRepo) Create(ctx context.Context, name, email, password, role, verifyToken string, verifyExpires time.Time, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, is_email_verified, email_verification_token, email_verification_expires) VALUES (?,?,?,?,FALSE,?,?)",
		name, email, hash, role, verifyToken, verifyExpires)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// VerifyEmail marks the account verified when the token matches and has
// not expired, clearing the token so the link is single use.  It
// reports whether a row was updated.
func (r *UserRepo) VerifyEmail(ctx context.Context, email, token string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users
		 SET is_email_verified = TRUE, email_verification_token = NULL, email_verification_expires = NULL
		 WHERE email = ? AND email_verification_token = ? AND email_verification_expires > NOW()`,
		email, token)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// List returns all users without credential material, for the admin
// dashboard.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, email, role, is_email_verified, created_at, updated_at FROM users ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.IsEmailVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes a user by id, returning ErrUserNotFound when no row
// matched.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	var token sql.NullString
	var expires sql.NullTime
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.IsEmailVerified, &token, &expires, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return u, err
	}
	if token.Valid {
		u.VerifyToken = token.String
	}
	if expires.Valid {
		t := expires.Time
		u.VerifyExpires = &t
	}
	return u, nil
}
