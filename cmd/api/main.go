package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/events"
	"storefront/internal/httpserver"
	"storefront/internal/payment"
	"storefront/internal/repository/catalogcache"
	"storefront/internal/repository/source"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
	categorysvc "storefront/internal/service/category"
	checkoutsvc "storefront/internal/service/checkout"
	"storefront/internal/service/session"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	base, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer base.Sync()
	logger := base.With(zap.String("component", "api"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	sourceRepo := source.NewPostgres(dbpool, cfg.CatalogTables, logger)
	loader := catalog.NewLoader(sourceRepo, catalog.NewNormalizer(logger), catalog.LoaderOptions{
		Tables:      cfg.CatalogTables,
		PageSize:    cfg.CatalogPageSize,
		Concurrency: cfg.CatalogConcurrency,
	}, logger)

	var cache catalogcache.Cache = catalogcache.Nop{}
	if cfg.RedisAddr != "" {
		rdb := catalogcache.NewClient(cfg.RedisAddr)
		defer rdb.Close()
		cache = catalogcache.NewRedis(rdb, cfg.CatalogCacheTTL, logger)
	}

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventsTopic, cfg.ServiceName, 256, logger)
		kp.Start()
		defer kp.Close()
		publisher = kp
	}

	paymentClient, err := payment.New(cfg.PaymentAPIURL, cfg.PaymentTimeout, logger)
	if err != nil {
		logger.Fatal("init payment client", zap.Error(err))
	}

	catalogService := catalogsvc.New(loader, sourceRepo, cache, logger)
	categoryService := categorysvc.New(catalogService)
	cartService := cartsvc.New(catalogService, logger)
	checkoutService := checkoutsvc.New(paymentClient, paymentClient, publisher, logger)
	sessions := session.New(cfg.SessionTTL, logger)
	go sessions.Run(ctx, time.Minute)

	go func() {
		records, err := catalogService.Snapshot(ctx)
		if err != nil {
			logger.Warn("catalog warm-up failed", zap.Error(err))
			return
		}
		logger.Info("catalog warmed", zap.Int("products", len(records)))
	}()

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		SessionSvc:  sessions,
		CatalogSvc:  catalogService,
		CategorySvc: categoryService,
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
