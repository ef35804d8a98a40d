package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/comicstore/pkg/auth"
	"github.com/angelmondragon/comicstore/pkg/config"
	"github.com/angelmondragon/comicstore/pkg/logger"
	"github.com/google/uuid"
)

type stubSessionVerifier struct {
	ok  bool
	err error
}

func (s stubSessionVerifier) HasSession(context.Context, string) (bool, error) {
	return s.ok, s.err
}

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}

func mintTestToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := auth.MintAccessToken(testJWT, time.Now(), auth.AccessTokenPayload{
		UserID:   userID,
		Username: "peter",
		JTI:      "session-1",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func resolve(t *testing.T, verifier stubSessionVerifier, logg *logger.Logger, mutate func(*http.Request)) auth.Account {
	t.Helper()
	var captured auth.Account
	handler := Account(testJWT, "access_token", verifier, logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = AccountFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if mutate != nil {
		mutate(req)
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("account middleware must not reject, got %d", resp.Code)
	}
	return captured
}

func TestAccountAnonymousWithoutToken(t *testing.T) {
	if account := resolve(t, stubSessionVerifier{ok: true}, nil, nil); account.IsAuthenticated() {
		t.Fatalf("expected anonymous, got %+v", account)
	}
}

func TestAccountInvalidTokenDegradesToAnonymous(t *testing.T) {
	var logs bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "mw-test", Output: &logs})

	account := resolve(t, stubSessionVerifier{ok: true}, logg, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer invalid")
	})
	if account.IsAuthenticated() {
		t.Fatalf("expected anonymous, got %+v", account)
	}
	if !strings.Contains(logs.String(), "auth.token_invalid") {
		t.Fatalf("expected warning log, got %s", logs.String())
	}
}

func TestAccountFromBearerToken(t *testing.T) {
	userID := uuid.New()
	token := mintTestToken(t, userID)

	account := resolve(t, stubSessionVerifier{ok: true}, nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	if account.UserID != userID || account.Username != "peter" || account.AccessID != "session-1" {
		t.Fatalf("unexpected account %+v", account)
	}
}

func TestAccountFromCookie(t *testing.T) {
	userID := uuid.New()
	token := mintTestToken(t, userID)

	account := resolve(t, stubSessionVerifier{ok: true}, nil, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	})
	if account.UserID != userID {
		t.Fatalf("expected cookie account, got %+v", account)
	}
}

func TestAccountRevokedOrUncheckableSession(t *testing.T) {
	token := mintTestToken(t, uuid.New())
	withToken := func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }

	if account := resolve(t, stubSessionVerifier{ok: false}, nil, withToken); account.IsAuthenticated() {
		t.Fatalf("revoked session should be anonymous")
	}
	if account := resolve(t, stubSessionVerifier{err: errors.New("redis down")}, nil, withToken); account.IsAuthenticated() {
		t.Fatalf("failed session check should be anonymous")
	}
}

func TestRequireAccountRedirectsAnonymous(t *testing.T) {
	called := false
	handler := RequireAccount("/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/cart", nil))
	if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to login, got %d %q", resp.Code, resp.Header().Get("Location"))
	}
	if called {
		t.Fatal("handler should not run for anonymous callers")
	}

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req = req.WithContext(WithAccount(req.Context(), auth.Account{UserID: uuid.New(), Username: "peter"}))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if !called {
		t.Fatal("handler should run for signed-in callers")
	}
}
