package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/surplus/internal/auth"
	"github.com/nikolayk812/surplus/internal/cache"
	"github.com/nikolayk812/surplus/internal/config"
	"github.com/nikolayk812/surplus/internal/db"
	"github.com/nikolayk812/surplus/internal/events"
	"github.com/nikolayk812/surplus/internal/httpapi"
	"github.com/nikolayk812/surplus/internal/repository"
	"github.com/nikolayk812/surplus/internal/service"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	initSchema := flag.Bool("init-schema", false, "create tables before serving, for local bootstrap")
	flag.Parse()

	if err := run(*initSchema); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(initSchema bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})).
		With("service", cfg.ServiceName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	if initSchema {
		if _, err := pool.Exec(ctx, db.Schema); err != nil {
			return fmt.Errorf("pool.Exec schema: %w", err)
		}
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := rdb.Close(); err != nil {
			slog.Warn("Failed to close redis", "method", "run", "error", err)
		}
	}()
	redisCache := cache.NewRedis(rdb)

	producer, err := events.NewProducer(events.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic), cfg.ServiceName)
	if err != nil {
		return fmt.Errorf("events.NewProducer: %w", err)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			slog.Warn("Failed to close kafka producer", "method", "run", "error", err)
		}
	}()

	jwtService, err := auth.NewJWTService(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("auth.NewJWTService: %w", err)
	}

	handler, err := newHandler(cfg, pool, redisCache, producer, jwtService)
	if err != nil {
		return fmt.Errorf("newHandler: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP listening", "addr", cfg.HTTPAddr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	return nil
}

func newHandler(
	cfg config.Config,
	pool *pgxpool.Pool,
	redisCache *cache.Redis,
	producer *events.Producer,
	jwtService *auth.JWTService,
) (*httpapi.Handler, error) {
	carts := repository.NewCart(pool)
	products := repository.NewProduct(pool)
	orders := repository.NewOrder(pool)
	transactor := repository.NewTransactor(pool)

	cartService, err := service.NewCartService(carts, products)
	if err != nil {
		return nil, fmt.Errorf("service.NewCartService: %w", err)
	}

	checkoutService, err := service.NewCheckoutService(transactor, redisCache, redisCache, producer)
	if err != nil {
		return nil, fmt.Errorf("service.NewCheckoutService: %w", err)
	}

	stateMachine, err := service.NewOrderStateMachine(transactor, redisCache, producer, cfg.ApproveMaxAttempts)
	if err != nil {
		return nil, fmt.Errorf("service.NewOrderStateMachine: %w", err)
	}

	sellerOrders, err := service.NewSellerOrderView(orders, products)
	if err != nil {
		return nil, fmt.Errorf("service.NewSellerOrderView: %w", err)
	}

	clientOrders, err := service.NewClientOrderView(orders, products, redisCache)
	if err != nil {
		return nil, fmt.Errorf("service.NewClientOrderView: %w", err)
	}

	catalogue, err := service.NewCatalogueService(products)
	if err != nil {
		return nil, fmt.Errorf("service.NewCatalogueService: %w", err)
	}

	return httpapi.NewHandler(httpapi.Deps{
		Carts:        cartService,
		Checkout:     checkoutService,
		StateMachine: stateMachine,
		SellerOrders: sellerOrders,
		ClientOrders: clientOrders,
		Catalogue:    catalogue,
		Tokens:       jwtService,
		HealthChecks: map[string]httpapi.HealthCheck{
			"postgres": pool.Ping,
			"redis":    redisCache.Ping,
		},
	})
}
