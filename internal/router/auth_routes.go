package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/sezalkc/tablease/internal/config"
	"github.com/sezalkc/tablease/internal/handler"
	"github.com/sezalkc/tablease/internal/middleware"
)

// RegisterAuth wires the account endpoints.  Signup, login, refresh and
// the verification link are open; /api/me needs a valid access token.
// The token bucket sits on the open group so credential guessing runs
// out of tokens quickly.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/auth", middleware.NewTokenBucket(rlCfg, rdb))
	g.POST("/signup", a.Signup)
	g.GET("/verify-email", a.VerifyEmail)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/api/me", a.Me, middleware.JWTAuth(jwtSecret))
}
