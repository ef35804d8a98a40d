package controllers

import (
	"net/http"

	"github.com/angelmondragon/comicstore/api/middleware"
	"github.com/angelmondragon/comicstore/api/responses"
	"github.com/angelmondragon/comicstore/api/validators"
	"github.com/angelmondragon/comicstore/internal/auth"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/angelmondragon/comicstore/pkg/logger"
)

// FormDescriptor lists the fields a client must post to a form endpoint.
type FormDescriptor struct {
	Action string   `json:"action"`
	Fields []string `json:"fields"`
}

type refreshRequest struct {
	AccessToken  string `json:"access_token" schema:"access_token"`
	RefreshToken string `json:"refresh_token" schema:"refresh_token" validate:"required"`
}

// AuthLoginForm describes the login form.
func AuthLoginForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, FormDescriptor{Action: "/login", Fields: []string{"username", "password"}})
	}
}

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, cookie SessionCookie, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeRequest(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cookie.set(w, result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}

// AuthLogout revokes the caller's session, clears the cookie and redirects home.
func AuthLogout(svc auth.Service, cookie SessionCookie, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		if err := svc.Logout(r.Context(), middleware.AccountFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cookie.clear(w)
		responses.Redirect(w, "/", nil)
	}
}

// AuthRefresh rotates the refresh token. The expired access token may come
// from the body, the Authorization header or the cookie.
func AuthRefresh(svc auth.Service, cookie SessionCookie, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body refreshRequest
		if err := validators.DecodeRequest(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		accessToken := body.AccessToken
		if accessToken == "" {
			accessToken = middleware.AccessToken(r, cookie.Name)
		}
		if accessToken == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "access token required"))
			return
		}

		pair, err := svc.Refresh(r.Context(), accessToken, body.RefreshToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cookie.set(w, pair.AccessToken)
		responses.WriteSuccess(w, pair)
	}
}
