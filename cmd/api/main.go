package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vitrineturbo/vitrineturbo-backend/api/routes"
	cartsvc "github.com/vitrineturbo/vitrineturbo-backend/internal/cart"
	checkoutsvc "github.com/vitrineturbo/vitrineturbo-backend/internal/checkout"
	productsvc "github.com/vitrineturbo/vitrineturbo-backend/internal/products"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/config"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/db"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/logger"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/metrics"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/migrate"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	productRepo := productsvc.NewRepository(dbClient.DB())
	productService, err := productsvc.NewService(productRepo, dbClient, cfg.Catalog, productsvc.NewSizeKindCache())
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(
		cartsvc.NewRepository(dbClient.DB()),
		cartsvc.NewDistributionRepo(dbClient.DB()),
		dbClient,
		productRepo,
		cartsvc.NewAggregator(logg),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(cartService)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			httpMetrics,
			productService,
			cartService,
			checkoutService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
