package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/TemirB/wb-cart-quantity/internal/application/handler"
	"github.com/TemirB/wb-cart-quantity/internal/application/service"
	"github.com/TemirB/wb-cart-quantity/internal/cache"
	"github.com/TemirB/wb-cart-quantity/internal/config"
	"github.com/TemirB/wb-cart-quantity/internal/database"
	"github.com/TemirB/wb-cart-quantity/internal/httpapi"
	"github.com/TemirB/wb-cart-quantity/internal/kafka"
	"github.com/TemirB/wb-cart-quantity/internal/observability"
	"github.com/TemirB/wb-cart-quantity/internal/pkg/breaker"
	"github.com/TemirB/wb-cart-quantity/internal/quantity"
	"github.com/TemirB/wb-cart-quantity/internal/session"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Can't connect to postgres", zap.Error(err))
	}
	defer pool.Close()
	repo := database.New(pool, cfg.Tables)

	carts, err := cache.New(cfg.CacheCap)
	if err != nil {
		logger.Fatal("Can't create cart cache", zap.Error(err))
	}
	warmCtx, cancelWarm := context.WithTimeout(ctx, 10*time.Second)
	loaded := carts.Warm(warmCtx, repo)
	cancelWarm()
	logger.Info("Cache warmed", zap.Int("carts", loaded))

	sessions, err := session.New(cfg.Session.Capacity, quantity.NewUnitModifier(quantity.NewUUIDUnitFactory()))
	if err != nil {
		logger.Fatal("Can't create session registry", zap.Error(err))
	}

	metrics := observability.NewInmem(1000)
	svc := service.NewService(carts, repo, sessions, logger, metrics, cfg.Cart.MaxQuantity)

	if err := kafka.EnsureTopic(ctx, cfg.Kafka, logger); err != nil {
		logger.Warn("Can't ensure kafka topic", zap.Error(err))
	}
	reader := kafka.NewReader(cfg.Kafka)
	defer func() { _ = reader.Close() }()

	h := handler.NewHandler(svc, breaker.New(cfg.Breaker), cfg.Retry, logger, metrics)
	consumer := kafka.NewConsumer(h, reader, cfg.Kafka.Workers, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		consumer.Start(ctx)
		logger.Info("Kafka consumer stopped")
	}()

	server := httpapi.New(svc, logger, metrics)
	logger.Info("HTTP server started", zap.String("addr", cfg.HTTPAddr))
	if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("HTTP server failed", zap.Error(err))
		stop()
	}

	wg.Wait()
	logger.Info("Shutdown complete")
}

func newLogger(c config.Log) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Env == "development" || c.Env == "dev" {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = level
	return zc.Build()
}
