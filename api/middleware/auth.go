package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/comicstore/api/responses"
	pkgAuth "github.com/angelmondragon/comicstore/pkg/auth"
	"github.com/angelmondragon/comicstore/pkg/auth/session"
	"github.com/angelmondragon/comicstore/pkg/config"
	"github.com/angelmondragon/comicstore/pkg/logger"
)

// Account resolves the caller from a bearer token or the access cookie. Any
// token that fails to parse or whose session was revoked degrades to the
// anonymous account; the request is never rejected here.
func Account(cfg config.JWTConfig, cookieName string, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			account := pkgAuth.Anonymous

			if token := AccessToken(r, cookieName); token != "" {
				claims, err := pkgAuth.ParseAccessToken(cfg, token)
				switch {
				case err != nil:
					warn(logg, r, "auth.token_invalid", err.Error())
				case claims.ID == "":
					warn(logg, r, "auth.token_invalid", "missing session id")
				default:
					active := true
					if verifier != nil {
						ok, checkErr := verifier.HasSession(ctx, claims.ID)
						if checkErr != nil {
							warn(logg, r, "auth.session_check_failed", checkErr.Error())
						}
						active = ok && checkErr == nil
					}
					if active {
						account = claims.Account()
					} else {
						warn(logg, r, "auth.session_revoked", claims.ID)
					}
				}
			}

			ctx = WithAccount(ctx, account)
			if logg != nil && account.IsAuthenticated() {
				ctx = logg.WithAccount(ctx, account.UserID.String(), account.Username)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAccount sends anonymous callers to the login page.
func RequireAccount(loginPath string) func(http.Handler) http.Handler {
	if loginPath == "" {
		loginPath = "/login"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !AccountFromContext(r.Context()).IsAuthenticated() {
				responses.Redirect(w, loginPath, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AccessToken extracts the raw JWT from the Authorization header, falling back to the cookie.
func AccessToken(r *http.Request, cookieName string) string {
	if raw := strings.TrimSpace(r.Header.Get("Authorization")); raw != "" {
		if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			return strings.TrimSpace(raw[7:])
		}
		return raw
	}
	if cookieName == "" {
		return ""
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

func warn(logg *logger.Logger, r *http.Request, msg, reason string) {
	if logg == nil {
		return
	}
	logg.Warn(logg.WithField(r.Context(), "reason", reason), msg)
}
