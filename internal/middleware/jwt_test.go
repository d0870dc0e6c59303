package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sezalkc/tablease/internal/middleware"
	"github.com/sezalkc/tablease/internal/utils"
)

const testSecret = "test-secret"

func runProtected(t *testing.T, authHeader string, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	require.NoError(t, h(c))
	return rec
}

func TestJWTAuth(t *testing.T) {
	t.Run("valid_token", func(t *testing.T) {
		at, err := utils.NewAccessToken(testSecret, 9, "Sita", "waiter", 15)
		require.NoError(t, err)

		rec := runProtected(t, "Bearer "+at.Token, middleware.JWTAuth(testSecret))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing_header", func(t *testing.T) {
		rec := runProtected(t, "", middleware.JWTAuth(testSecret))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		at, err := utils.NewAccessToken("another-secret", 9, "Sita", "waiter", 15)
		require.NoError(t, err)

		rec := runProtected(t, "Bearer "+at.Token, middleware.JWTAuth(testSecret))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired_token", func(t *testing.T) {
		at, err := utils.NewAccessToken(testSecret, 9, "Sita", "waiter", -5)
		require.NoError(t, err)

		rec := runProtected(t, "Bearer "+at.Token, middleware.JWTAuth(testSecret))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage_token", func(t *testing.T) {
		rec := runProtected(t, "Bearer not.a.jwt", middleware.JWTAuth(testSecret))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("allowed_role", func(t *testing.T) {
		at, err := utils.NewAccessToken(testSecret, 9, "Sita", "waiter", 15)
		require.NoError(t, err)

		rec := runProtected(t, "Bearer "+at.Token,
			middleware.JWTAuth(testSecret), middleware.RequireRole("waiter", "manager"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong_role", func(t *testing.T) {
		at, err := utils.NewAccessToken(testSecret, 9, "Sita", "waiter", 15)
		require.NoError(t, err)

		rec := runProtected(t, "Bearer "+at.Token,
			middleware.JWTAuth(testSecret), middleware.RequireRole("kitchen_staff", "cashier"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no_role_in_context", func(t *testing.T) {
		rec := runProtected(t, "", middleware.RequireRole("waiter"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
