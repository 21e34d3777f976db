package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/show-ticket-office/internal/booking"    // Core seat and order engine
	"github.com/iliyamo/show-ticket-office/internal/config"     // Internal config loader
	"github.com/iliyamo/show-ticket-office/internal/database"   // MySQL connection pool
	"github.com/iliyamo/show-ticket-office/internal/handler"    // HTTP handlers
	"github.com/iliyamo/show-ticket-office/internal/middleware" // Rate limiting and response caching
	"github.com/iliyamo/show-ticket-office/internal/queue"      // Order event consumer
	"github.com/iliyamo/show-ticket-office/internal/repository" // Data access layer
	"github.com/iliyamo/show-ticket-office/internal/router"     // Route registration
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load() // Load environment config

	db, err := database.Open(database.Params{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	showRepo := repository.NewShowRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	sessionRepo := repository.NewSessionRepo(db)

	svc := booking.New(db, showRepo, seatRepo, orderRepo, sessionRepo)

	// Redis is optional: without it the rate limiter fails open and
	// responses are simply not cached.
	rdb := config.NewRedisClient()
	var cacheMW, limitMW echo.MiddlewareFunc
	if rdb != nil {
		if cacheCfg := config.LoadCacheConfig(); cacheCfg.Enabled {
			cacheMW = middleware.NewRedisCache(cacheCfg, rdb)
		}
		if rlCfg := config.LoadRateLimitConfig(); rlCfg.Enabled {
			limitMW = middleware.NewTokenBucket(rlCfg, rdb)
		}
	}

	// Background consumer appends order events to logs/orders.log and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order-consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(&cfg))
	router.RegisterBuyer(e, handler.NewBuyerHandler(svc, cfg.HoldTTLMin), cfg.JWTSecret, cacheMW, limitMW)
	router.RegisterOperator(e, handler.NewOperatorHandler(svc), cfg.JWTSecret)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
