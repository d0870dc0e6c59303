package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sezalkc/tablease/internal/repository"
)

// fail writes the error envelope the frontend expects.  Internal store
// details never leak: callers pass a caller-facing message only.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}

// respond writes the success envelope with an optional data payload.
func respond(c echo.Context, status int, msg string, data interface{}) error {
	body := echo.Map{"success": true, "message": msg}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(status, body)
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter; zero is never a valid id.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// failFromError maps the repository error taxonomy onto HTTP statuses:
// validation 400, missing rows 404, invariant violations 409, anything
// else 500 with a generic message.
func failFromError(c echo.Context, err error, fallback string) error {
	var verr *repository.ValidationError
	switch {
	case errors.As(err, &verr):
		return fail(c, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, repository.ErrTableNotFound):
		return fail(c, http.StatusNotFound, "Table not found")
	case errors.Is(err, repository.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, repository.ErrNoActiveOrder):
		return fail(c, http.StatusNotFound, "No active order for this table")
	case errors.Is(err, repository.ErrMenuItemNotFound):
		return fail(c, http.StatusNotFound, "Item not found")
	case errors.Is(err, repository.ErrUserNotFound):
		return fail(c, http.StatusNotFound, "User not found")
	case errors.Is(err, repository.ErrTableOccupied):
		return fail(c, http.StatusConflict, "Table already has an active order")
	case errors.Is(err, repository.ErrOrderClosed):
		return fail(c, http.StatusConflict, "Order is already billed or paid")
	case errors.Is(err, repository.ErrInvalidTransition):
		return fail(c, http.StatusConflict, "Invalid status transition")
	}
	return fail(c, http.StatusInternalServerError, fallback)
}
