package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/comicstore/pkg/config"
)

// SessionCookie describes the browser cookie that carries the access token.
type SessionCookie struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// NewSessionCookie reads the cookie settings from config.
func NewSessionCookie(cfg *config.Config) SessionCookie {
	return SessionCookie{
		Name:   cfg.Storefront.CookieName,
		Secure: cfg.Storefront.CookieSecure,
		TTL:    cfg.JWT.AccessTokenTTL(),
	}
}

func (c SessionCookie) set(w http.ResponseWriter, token string) {
	if c.Name == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c SessionCookie) clear(w http.ResponseWriter) {
	if c.Name == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
