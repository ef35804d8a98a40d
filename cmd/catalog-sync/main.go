package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/angelmondragon/comicstore/internal/catalog"
	"github.com/angelmondragon/comicstore/internal/catalogsync"
	"github.com/angelmondragon/comicstore/internal/cron"
	"github.com/angelmondragon/comicstore/internal/wishlist"
	"github.com/angelmondragon/comicstore/pkg/config"
	"github.com/angelmondragon/comicstore/pkg/db"
	"github.com/angelmondragon/comicstore/pkg/logger"
	"github.com/angelmondragon/comicstore/pkg/marvel"
	"github.com/angelmondragon/comicstore/pkg/metrics"
	"github.com/angelmondragon/comicstore/pkg/migrate"
	"github.com/angelmondragon/comicstore/pkg/redis"
)

func main() {
	once := flag.Bool("once", false, "run the sync a single time and exit")
	metricsAddr := flag.String("metrics-addr", "", "optional address for the /metrics listener")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "catalog-sync"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = "catalog-sync"

	logg = logger.New(logger.Options{
		ServiceName: "catalog-sync",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if !cfg.Marvel.Enabled() {
		logg.Error(context.Background(), "marvel keys are not configured", errors.New("COMICSTORE_MARVEL_PUBLIC_KEY and COMICSTORE_MARVEL_PRIVATE_KEY are required"))
		os.Exit(1)
	}

	if err := run(cfg, logg, *once, *metricsAddr); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger, once bool, metricsAddr string) (err error) {
	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		return err
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	registry := metrics.NewRegistry()
	storefront := metrics.NewStorefrontMetrics(registry)

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:     catalog.NewRepository(dbClient.DB()),
		Entries:  wishlist.NewRepository(dbClient.DB()),
		PageSize: cfg.Storefront.PageSize,
		Metrics:  storefront,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		return err
	}

	client, err := marvel.NewClient(cfg.Marvel.PublicKey, cfg.Marvel.PrivateKey,
		marvel.WithBaseURL(cfg.Marvel.BaseURL),
		marvel.WithRateLimit(cfg.Marvel.RequestsPerSecond),
		marvel.WithHTTPClient(&http.Client{Timeout: cfg.Marvel.Timeout}),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create marvel client", err)
		return err
	}

	job, err := catalogsync.NewJob(catalogsync.JobParams{
		Logger:       logg,
		Client:       client,
		Catalog:      catalogService,
		PageSize:     cfg.Marvel.PageSize,
		MaxComics:    cfg.Marvel.MaxComics,
		Concurrency:  cfg.Marvel.Concurrency,
		DefaultStock: cfg.Marvel.DefaultStock,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sync job", err)
		return err
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient, catalogsync.JobName, 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync lock", err)
		return err
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(job),
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(registry),
		Schedule: cfg.Marvel.Schedule,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"schedule":    cfg.Marvel.Schedule,
	})

	if metricsAddr != "" {
		server := &http.Server{Addr: metricsAddr, Handler: metrics.Handler(registry)}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logg.Error(ctx, "metrics listener stopped", err)
			}
		}()
		defer func() { _ = server.Close() }()
	}

	if once {
		logg.Info(ctx, "running catalog sync once")
		if err := service.RunOnce(ctx); err != nil {
			logg.Error(ctx, "catalog sync failed", err)
			return err
		}
		return nil
	}

	logg.Info(ctx, "starting catalog sync worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "catalog sync worker stopped unexpectedly", err)
		return err
	}
	logg.Info(ctx, "catalog sync worker shutting down gracefully")
	return nil
}
