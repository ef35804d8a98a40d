package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/comicstore/api/controllers"
	"github.com/angelmondragon/comicstore/api/middleware"
	"github.com/angelmondragon/comicstore/internal/auth"
	"github.com/angelmondragon/comicstore/internal/cart"
	"github.com/angelmondragon/comicstore/internal/catalog"
	"github.com/angelmondragon/comicstore/internal/checkout"
	"github.com/angelmondragon/comicstore/internal/profiles"
	"github.com/angelmondragon/comicstore/internal/wishlist"
	"github.com/angelmondragon/comicstore/pkg/auth/session"
	"github.com/angelmondragon/comicstore/pkg/config"
	"github.com/angelmondragon/comicstore/pkg/logger"
	"github.com/angelmondragon/comicstore/pkg/metrics"
	"github.com/angelmondragon/comicstore/pkg/redis"
)

type rateLimiter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Services groups everything the router dispatches to.
type Services struct {
	Catalog  catalog.Service
	Wishlist wishlist.Service
	Cart     cart.Service
	Checkout checkout.Service
	Profiles profiles.Service
	Auth     auth.Service
	Register auth.RegisterService
}

// Dependencies carries the infrastructure shared by the middleware stack.
type Dependencies struct {
	DB       controllers.Pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Registry *prometheus.Registry
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies, svc Services) http.Handler {
	var httpMetrics *metrics.HTTPMetrics
	if deps.Registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(deps.Registry)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.Storefront.CORSOrigins),
		middleware.Account(cfg.JWT, cfg.Storefront.CookieName, deps.Sessions, logg),
	)

	var (
		idempotencyStore redis.IdempotencyStore
		limiterStore     rateLimiter
	)
	if deps.Redis != nil {
		idempotencyStore = deps.Redis
		limiterStore = deps.Redis
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUsernameLimit,
	)
	cookie := controllers.NewSessionCookie(cfg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger(deps.Redis)))
	})
	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Registry))
	}

	r.Get("/", controllers.CatalogList(svc.Catalog, logg))
	r.Get("/detail", controllers.ComicDetail(svc.Catalog, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthRateLimit(loginPolicy, limiterStore, logg))
		r.Get("/login", controllers.AuthLoginForm())
		r.Post("/login", controllers.AuthLogin(svc.Auth, cookie, logg))
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthRateLimit(registerPolicy, limiterStore, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))
		r.Get("/register", controllers.AuthRegisterForm())
		r.Post("/register", controllers.AuthRegister(svc.Register, logg))
	})
	r.Post("/logout", controllers.AuthLogout(svc.Auth, cookie, logg))
	r.Post("/refresh", controllers.AuthRefresh(svc.Auth, cookie, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAccount(cfg.Storefront.LoginPath))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Post("/check-button", controllers.CheckButton(svc.Wishlist, logg))
		r.Get("/wish", controllers.Favorites(svc.Wishlist, logg))
		r.Post("/update-qty", controllers.UpdateQuantity(svc.Cart, logg))
		r.Get("/cart", controllers.CartView(svc.Cart, logg))
		r.Post("/checkout", controllers.Checkout(svc.Checkout, logg))
		r.Get("/thanks", controllers.Thanks(svc.Checkout, logg))
		r.Get("/user", controllers.ProfileView(svc.Profiles, logg))
		r.Get("/user/update", controllers.ProfileForm(svc.Profiles, logg))
		r.Post("/user/update", controllers.ProfileUpdate(svc.Profiles, logg))
	})

	return r
}

func redisPinger(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}
