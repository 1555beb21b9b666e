package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	httpadp "cuotas-backend/internal/adapter/http"
	idemp "cuotas-backend/internal/adapter/middleware"
	"cuotas-backend/internal/adapter/repository/gormslot"
	"cuotas-backend/internal/adapter/repository/redisslot"
	"cuotas-backend/internal/config"
	domain "cuotas-backend/internal/domain/debt"
	"cuotas-backend/internal/infrastructure/cache"
	"cuotas-backend/internal/infrastructure/db"
	uc "cuotas-backend/internal/usecase/debt"
)

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()

	var rdb *redis.Client
	if cfg.NeedsRedis() {
		var err error
		rdb, err = cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
	}

	var gw domain.Gateway
	switch cfg.StorageDriver {
	case config.DriverRedis:
		gw = redisslot.NewGateway(rdb, cfg.StorageSlot)
	default:
		gdb, err := db.OpenGorm(cfg.StorageDriver, cfg.SQLDSN())
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		slot := gormslot.NewGateway(gdb, cfg.StorageSlot)
		if err := slot.Migrate(ctx); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		gw = slot
	}

	store := uc.NewStore(ctx, gw, cfg.SaveTimeout)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger(), middleware.Recover())

	var createMW []echo.MiddlewareFunc
	if cfg.IdempEnabled {
		createMW = append(createMW, idemp.Idempotency(rdb, cfg.IdempTTL()))
	}
	httpadp.Register(e, httpadp.NewHandler(), httpadp.NewDebtHandler(store), createMW...)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s (storage=%s slot=%s)", addr, cfg.StorageDriver, cfg.StorageSlot)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
