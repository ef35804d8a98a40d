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
	"go.uber.org/multierr"

	"github.com/angelmondragon/comicstore/api/routes"
	"github.com/angelmondragon/comicstore/internal/auth"
	"github.com/angelmondragon/comicstore/internal/cart"
	"github.com/angelmondragon/comicstore/internal/catalog"
	"github.com/angelmondragon/comicstore/internal/checkout"
	"github.com/angelmondragon/comicstore/internal/profiles"
	"github.com/angelmondragon/comicstore/internal/users"
	"github.com/angelmondragon/comicstore/internal/wishlist"
	"github.com/angelmondragon/comicstore/pkg/auth/session"
	"github.com/angelmondragon/comicstore/pkg/config"
	"github.com/angelmondragon/comicstore/pkg/db"
	"github.com/angelmondragon/comicstore/pkg/logger"
	"github.com/angelmondragon/comicstore/pkg/metrics"
	"github.com/angelmondragon/comicstore/pkg/migrate"
	"github.com/angelmondragon/comicstore/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		_ = dbClient.Close()
		os.Exit(1)
	}
	defer func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := metrics.NewRegistry()
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	services, err := buildServices(cfg, dbClient, sessionManager, storefrontMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			DB:       dbClient,
			Redis:    redisClient,
			Sessions: sessionManager,
			Registry: registry,
		}, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
		}
		return
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "api server shutdown failed", err)
		return
	}
	logg.Info(ctx, "api server stopped")
}

func buildServices(cfg *config.Config, dbClient *db.Client, sessions *session.Manager, storefront *metrics.StorefrontMetrics) (routes.Services, error) {
	conn := dbClient.DB()
	catalogRepo := catalog.NewRepository(conn)
	wishlistRepo := wishlist.NewRepository(conn)
	userRepo := users.NewRepository(conn)

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:     catalogRepo,
		Entries:  wishlistRepo,
		PageSize: cfg.Storefront.PageSize,
		Metrics:  storefront,
	})
	if err != nil {
		return routes.Services{}, err
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		DB:          dbClient,
		Repo:        wishlistRepo,
		CatalogRepo: catalogRepo,
		UserRepo:    userRepo,
		Metrics:     storefront,
	})
	if err != nil {
		return routes.Services{}, err
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		DB:           dbClient,
		WishlistRepo: wishlistRepo,
		CatalogRepo:  catalogRepo,
		Metrics:      storefront,
	})
	if err != nil {
		return routes.Services{}, err
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		DB:           dbClient,
		Repo:         checkout.NewRepository(conn),
		WishlistRepo: wishlistRepo,
		CatalogRepo:  catalogRepo,
		Metrics:      storefront,
	})
	if err != nil {
		return routes.Services{}, err
	}

	profileService, err := profiles.NewService(profiles.ServiceParams{
		DB:       dbClient,
		Repo:     profiles.NewRepository(conn),
		UserRepo: userRepo,
	})
	if err != nil {
		return routes.Services{}, err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return routes.Services{}, err
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Catalog:  catalogService,
		Wishlist: wishlistService,
		Cart:     cartService,
		Checkout: checkoutService,
		Profiles: profileService,
		Auth:     authService,
		Register: registerService,
	}, nil
}
