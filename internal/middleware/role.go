package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole returns a middleware that enforces that the authenticated
// staff member holds one of the given roles.  Role strings come from
// the JWT's "role" claim, which carries the closed enumeration accepted
// at signup (waiter, cashier, manager, admin, kitchen_staff).  Role
// checks live here at the routing layer only; handlers and the
// lifecycle service never compare roles themselves.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v := c.Get("role")
			role, ok := v.(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false, "message": "Forbidden",
				})
			}
			return next(c)
		}
	}
}
