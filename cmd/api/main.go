package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mintme-bridge/internal/auth"
	"mintme-bridge/internal/broker"
	"mintme-bridge/internal/cache"
	"mintme-bridge/internal/cli"
	"mintme-bridge/internal/config"
	"mintme-bridge/internal/db"
	"mintme-bridge/internal/health"
	"mintme-bridge/internal/httpserver"
	"mintme-bridge/internal/journal"
	"mintme-bridge/internal/marketdata"
	"mintme-bridge/internal/markets"
	"mintme-bridge/internal/mintme"
	"mintme-bridge/internal/orders"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	startedAt := time.Now()
	if err := config.LoadEnvFile(os.Getenv("ENV_FILE")); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Load()
	credsMissing := errors.Is(err, config.ErrMissingEnv)
	if err != nil && !credsMissing {
		log.Fatal(err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatal(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var adapter broker.Adapter
	adapterMode := "mintme"
	catalog := markets.Load()
	if credsMissing {
		log.Printf("exchange adapter disabled: %v", err)
		adapter = broker.NewDisabledAdapter()
		adapterMode = "disabled"
	} else {
		client, err := mintme.NewClient(cli.AdapterConfig(cfg))
		if err != nil {
			log.Fatal(err)
		}
		catalog = client.LoadMarkets()
		adapter = client
	}

	var orderJournal orders.Journal
	var pool *pgxpool.Pool
	if cfg.DBDSN != "" {
		pool, err = db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			log.Fatal(err)
		}
		defer pool.Close()
		store := journal.NewStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatal(err)
		}
		orderJournal = store
	} else {
		log.Printf("DB_DSN not set, order journal disabled")
	}

	var assetsCache marketdata.AssetsCache
	var redisPinger health.Pinger
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(cache.Config{Addr: cfg.RedisAddr, TTL: cfg.AssetsCacheTTL, KeyPrefix: "mintme-bridge"})
		if err != nil {
			log.Fatal(err)
		}
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Printf("redis %s not reachable yet: %v", cfg.RedisAddr, err)
		}
		assetsCache = rc
		redisPinger = rc
	}

	bus := marketdata.NewBus()
	authSvc := auth.NewService(cfg.JWTIssuer, []byte(cfg.JWTSecret), auth.DefaultTTL, cfg.InternalTokenHash)
	var internalCheck health.InternalCheck
	if authSvc.InternalEnabled() {
		internalCheck = authSvc.CheckInternalToken
	}
	orderSvc := orders.NewService(adapter, catalog, orderJournal, bus)
	limiter := httpserver.NewRateLimiter(10, 30)
	go limiter.Run(ctx)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandler:   auth.NewHandler(authSvc),
		AuthService:   authSvc,
		HealthHandler: health.NewHandler(pool, redisPinger, startedAt, cfg.HTTPAddr, adapterMode, internalCheck),
		MarketHandler: marketdata.NewHandler(catalog, adapter, assetsCache),
		OrderHandler:  orders.NewHandler(orderSvc),
		WSHandler:     httpserver.NewWSHandler(bus, authSvc, cfg.WebSocketOrigin),
		RateLimiter:   limiter,
		Origin:        cfg.WebSocketOrigin,
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	log.Printf("server listening on %s (adapter: %s, markets: %d)", cfg.HTTPAddr, adapterMode, len(catalog))
	log.Printf("health endpoint: http://localhost%s/health", cfg.HTTPAddr)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
