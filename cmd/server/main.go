package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/sezalkc/tablease/internal/config"
	"github.com/sezalkc/tablease/internal/database"
	"github.com/sezalkc/tablease/internal/handler"
	"github.com/sezalkc/tablease/internal/queue"
	"github.com/sezalkc/tablease/internal/repository"
	"github.com/sezalkc/tablease/internal/router"
	"github.com/sezalkc/tablease/internal/service"
	"github.com/sezalkc/tablease/internal/service/queue_publisher"
	"github.com/sezalkc/tablease/internal/utils"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.ApplySchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	// Redis backs the response cache and the rate limiter; both degrade
	// to pass-through when it is absent.
	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	tableRepo := repository.NewTableRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	menuRepo := repository.NewMenuRepo(db)

	lifecycle := service.NewOrderLifecycle(tableRepo, orderRepo, queue_publisher.New())

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo, utils.NewMailer())
	orderH := handler.NewOrderHandler(lifecycle)
	tableH := handler.NewTableHandler(tableRepo, orderRepo)
	menuH := handler.NewMenuHandler(menuRepo)
	adminH := handler.NewAdminHandler(userRepo, menuRepo)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORS())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, rlCfg, rdb)
	router.RegisterStaff(e, orderH, tableH, menuH, cfg.JWTSecret, cacheCfg, rdb)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// Kitchen display consumer; reconnects on its own, the API does not
	// depend on the broker being up.
	go func() {
		if err := queue.StartKitchenConsumer(); err != nil {
			log.Printf("kitchen consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
