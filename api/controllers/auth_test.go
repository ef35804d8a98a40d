package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/comicstore/internal/auth"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
)

var testCookie = SessionCookie{Name: "access_token", TTL: 15 * time.Minute}

func findCookie(resp *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range resp.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthLoginSetsCookie(t *testing.T) {
	svc := &stubAuth{login: &auth.LoginResponse{AccessToken: "jwt", RefreshToken: "refresh"}}
	resp := httptest.NewRecorder()
	AuthLogin(svc, testCookie, nil).ServeHTTP(resp, formRequest(http.MethodPost, "/login", "username=peter&password=secret123"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	c := findCookie(resp, "access_token")
	if c == nil || c.Value != "jwt" || !c.HttpOnly || c.MaxAge != 900 {
		t.Fatalf("unexpected cookie %+v", c)
	}
	if !strings.Contains(resp.Body.String(), `"refresh_token":"refresh"`) {
		t.Fatalf("expected tokens in body, got %s", resp.Body.String())
	}
}

func TestAuthLoginFailure(t *testing.T) {
	svc := &stubAuth{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	resp := httptest.NewRecorder()
	AuthLogin(svc, testCookie, nil).ServeHTTP(resp, formRequest(http.MethodPost, "/login", "username=peter&password=nope"))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if findCookie(resp, "access_token") != nil {
		t.Fatal("no cookie should be set on failure")
	}
}

func TestAuthLoginRequiresFields(t *testing.T) {
	resp := httptest.NewRecorder()
	AuthLogin(&stubAuth{}, testCookie, nil).ServeHTTP(resp, formRequest(http.MethodPost, "/login", "username=peter"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLogoutClearsCookie(t *testing.T) {
	svc := &stubAuth{}
	resp := httptest.NewRecorder()
	AuthLogout(svc, testCookie, nil).ServeHTTP(resp, asShopper(httptest.NewRequest(http.MethodPost, "/logout", nil)))

	if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/" {
		t.Fatalf("unexpected response %d %q", resp.Code, resp.Header().Get("Location"))
	}
	if svc.loggedOut.AccessID != "sess-1" {
		t.Fatalf("expected session to be revoked, got %+v", svc.loggedOut)
	}
	if c := findCookie(resp, "access_token"); c == nil || c.MaxAge >= 0 {
		t.Fatalf("expected cookie to be cleared, got %+v", c)
	}
}

func TestAuthRefreshFallsBackToCookie(t *testing.T) {
	svc := &stubAuth{pair: &auth.TokenPair{AccessToken: "new-jwt", RefreshToken: "new-refresh"}}
	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"refresh_token":"old-refresh"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "old-jwt"})
	resp := httptest.NewRecorder()
	AuthRefresh(svc, testCookie, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.refreshFrom != "old-jwt" || svc.refreshToken != "old-refresh" {
		t.Fatalf("unexpected refresh call %q %q", svc.refreshFrom, svc.refreshToken)
	}
	if c := findCookie(resp, "access_token"); c == nil || c.Value != "new-jwt" {
		t.Fatalf("expected rotated cookie, got %+v", c)
	}
}

func TestAuthRefreshWithoutAccessToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"refresh_token":"old-refresh"}`))
	resp := httptest.NewRecorder()
	AuthRefresh(&stubAuth{}, testCookie, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRegisterRedirectsToLogin(t *testing.T) {
	svc := &stubRegister{}
	body := "first_name=Peter&last_name=Parker&username=spidey&email=peter%40bugle.com&password1=webslinger&password2=webslinger"
	resp := httptest.NewRecorder()
	AuthRegister(svc, nil).ServeHTTP(resp, formRequest(http.MethodPost, "/register", body))

	if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/login" {
		t.Fatalf("unexpected response %d %q: %s", resp.Code, resp.Header().Get("Location"), resp.Body.String())
	}
	if svc.req.Username != "spidey" || svc.req.Password2 != "webslinger" {
		t.Fatalf("unexpected register request %+v", svc.req)
	}
}

func TestAuthRegisterRejectsBadUsername(t *testing.T) {
	svc := &stubRegister{}
	body := "first_name=Peter&last_name=Parker&username=spi+dey%21&email=peter%40bugle.com&password1=webslinger&password2=webslinger"
	resp := httptest.NewRecorder()
	AuthRegister(svc, nil).ServeHTTP(resp, formRequest(http.MethodPost, "/register", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"username"`) {
		t.Fatalf("expected username detail, got %s", resp.Body.String())
	}
	if svc.req.Username != "" {
		t.Fatal("service should not be called")
	}
}

func TestFormDescriptors(t *testing.T) {
	resp := httptest.NewRecorder()
	AuthRegisterForm().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/register", nil))
	if !strings.Contains(resp.Body.String(), "password2") {
		t.Fatalf("unexpected register descriptor %s", resp.Body.String())
	}

	resp = httptest.NewRecorder()
	AuthLoginForm().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/login", nil))
	if !strings.Contains(resp.Body.String(), `"fields":["username","password"]`) {
		t.Fatalf("unexpected login descriptor %s", resp.Body.String())
	}
}
