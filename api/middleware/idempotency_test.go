package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/comicstore/pkg/auth"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func requestWithPattern(method, url, pattern string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, url, body)
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{pattern}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rc)
	ctx = WithAccount(ctx, auth.Account{UserID: uuid.MustParse("7f9c1d9e-0000-4000-8000-000000000001"), Username: "peter"})
	return req.WithContext(ctx)
}

func TestRouteTTLSelection(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		pattern string
		want    time.Duration
		ok      bool
	}{
		{"checkout", http.MethodPost, "/checkout", criticalIdempotencyTTL, true},
		{"register", http.MethodPost, "/register", defaultIdempotencyTTL, true},
		{"quantity", http.MethodPost, "/update-qty", defaultIdempotencyTTL, true},
		{"login", http.MethodPost, "/login", 0, false},
		{"cart view", http.MethodGet, "/checkout", 0, false},
	}

	for _, tt := range tests {
		ttl, ok := routeTTL(tt.method, tt.pattern)
		if ok != tt.ok {
			t.Fatalf("%s: expected ok=%v got %v", tt.name, tt.ok, ok)
		}
		if ok && ttl != tt.want {
			t.Fatalf("%s: expected ttl=%v got %v", tt.name, tt.want, ttl)
		}
	}
}

func TestIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusSeeOther)
	}))

	for i := 0; i < 2; i++ {
		req := requestWithPattern(http.MethodPost, "/checkout", "/checkout", strings.NewReader(""))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Fatalf("expected both requests to reach the handler, got %d", calls)
	}
	if len(store.data) != 0 {
		t.Fatalf("nothing should be stored without a key")
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Location", "/thanks?settlement=abc")
		w.WriteHeader(http.StatusSeeOther)
		_, _ = w.Write([]byte(`{"data":{"redirect":"/thanks?settlement=abc"}}`))
	}))

	first := requestWithPattern(http.MethodPost, "/checkout", "/checkout", strings.NewReader(""))
	first.Header.Set("Idempotency-Key", "abc")
	handler.ServeHTTP(httptest.NewRecorder(), first)

	replay := requestWithPattern(http.MethodPost, "/checkout", "/checkout", strings.NewReader(""))
	replay.Header.Set("Idempotency-Key", "abc")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, replay)

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected replayed 303 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "settlement=abc") {
		t.Fatalf("unexpected replay body %s", resp.Body.String())
	}
}

func TestIdempotencyRejectsDifferentBody(t *testing.T) {
	store := newFakeStore()
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusSeeOther)
	}))

	first := requestWithPattern(http.MethodPost, "/update-qty", "/update-qty", strings.NewReader("comic_id=1&quantity=3"))
	first.Header.Set("Idempotency-Key", "xyz")
	handler.ServeHTTP(httptest.NewRecorder(), first)

	replay := requestWithPattern(http.MethodPost, "/update-qty", "/update-qty", strings.NewReader("comic_id=1&quantity=5"))
	replay.Header.Set("Idempotency-Key", "xyz")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, replay)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected error code %s got %s", pkgerrors.CodeIdempotency, payload.Error.Code)
	}
}

func TestIdempotencySkipsServerErrors(t *testing.T) {
	store := newFakeStore()
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	req := requestWithPattern(http.MethodPost, "/checkout", "/checkout", strings.NewReader(""))
	req.Header.Set("Idempotency-Key", "retry-me")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if len(store.data) != 0 {
		t.Fatalf("5xx responses must not be stored: %v", store.data)
	}
}
