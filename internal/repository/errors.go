// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// lifecycle service and handlers to distinguish between failure
// scenarios without inspecting driver errors: a missing row, a table
// already claimed by another order, or a merge attempted against an
// order that has already been billed.
package repository

import "errors"

// ErrTableNotFound is returned when no table exists for the given id.
// Handlers translate this into an HTTP 404 response.
var ErrTableNotFound = errors.New("table not found")

// ErrOrderNotFound is returned when no order exists for the given id.
var ErrOrderNotFound = errors.New("order not found")

// ErrNoActiveOrder is returned by the active-order lookup when a table
// has no order in the active set. Callers treat it as "table is free
// to start a new order".
var ErrNoActiveOrder = errors.New("no active order for table")

// ErrTableOccupied is returned when a conditional table claim affects
// no rows because the table was not available. Handlers translate this
// into an HTTP 409 response.
var ErrTableOccupied = errors.New("table already has an active order")

// ErrOrderClosed is returned when items are merged into an order whose
// status is billed or paid. Closed orders are immutable.
var ErrOrderClosed = errors.New("order is billed or paid and cannot be modified")

// ErrInvalidTransition is returned when a status update would skip the
// terminal-state rules, e.g. moving a paid order anywhere.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrMenuItemNotFound is returned when no menu item exists for the id.
var ErrMenuItemNotFound = errors.New("menu item not found")

// ErrUserNotFound is returned when no user exists for the given id.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when signup hits the unique email index.
var ErrEmailExists = errors.New("email already exists")

// ValidationError reports malformed input with a caller-facing message.
// Validation always happens before any mutation is attempted, so a
// ValidationError implies nothing was written. Handlers translate it
// into an HTTP 400 response via errors.As.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

