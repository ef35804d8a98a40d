package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/comicstore/internal/cart"
	"github.com/angelmondragon/comicstore/internal/catalog"
	pkgAuth "github.com/angelmondragon/comicstore/pkg/auth"
	"github.com/angelmondragon/comicstore/pkg/config"
	"github.com/angelmondragon/comicstore/pkg/logger"
	"github.com/angelmondragon/comicstore/pkg/metrics"
)

type catalogStub struct{ catalog.Service }

func (catalogStub) List(context.Context, string) (catalog.ListPageDTO, error) {
	return catalog.ListPageDTO{Page: 1, NumPages: 1, Comics: []catalog.ComicDTO{}}, nil
}

type cartStub struct {
	cart.Service
	calls int
}

func (c *cartStub) View(_ context.Context, account pkgAuth.Account) (cart.ViewDTO, error) {
	c.calls++
	return cart.ViewDTO{Items: []cart.ItemDTO{}, TotalPrice: "0.00"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:        config.AppConfig{Env: "test"},
		JWT:        config.JWTConfig{Secret: "secret", Issuer: "comicstore", ExpirationMinutes: 15},
		Storefront: config.StorefrontConfig{LoginPath: "/login", CookieName: "access_token"},
	}
}

func newTestRouter(t *testing.T, carts *cartStub) http.Handler {
	t.Helper()
	return NewRouter(testConfig(), logger.Nop(), Dependencies{Registry: metrics.NewRegistry()}, Services{
		Catalog: catalogStub{},
		Cart:    carts,
	})
}

func TestRouterPublicCatalog(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter(t, &cartStub{}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected request id header")
	}
}

func TestRouterAnonymousCartRedirectsToLogin(t *testing.T) {
	carts := &cartStub{}
	resp := httptest.NewRecorder()
	newTestRouter(t, carts).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/cart", nil))

	if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to login, got %d %q", resp.Code, resp.Header().Get("Location"))
	}
	if carts.calls != 0 {
		t.Fatal("cart service should not be reached")
	}
}

func TestRouterSignedInCart(t *testing.T) {
	cfg := testConfig()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "peter",
		JTI:      "sess-1",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	carts := &cartStub{}
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	resp := httptest.NewRecorder()
	newTestRouter(t, carts).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || carts.calls != 1 {
		t.Fatalf("expected cart view, got %d calls=%d", resp.Code, carts.calls)
	}
}

func TestRouterExposesMetricsAndHealth(t *testing.T) {
	router := newTestRouter(t, &cartStub{})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected live 200 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "comicstore_http_requests_total") {
		t.Fatalf("expected metrics exposition, got %d", resp.Code)
	}
}
