package controllers

import (
	"net/http"

	"github.com/angelmondragon/comicstore/api/responses"
	"github.com/angelmondragon/comicstore/api/validators"
	"github.com/angelmondragon/comicstore/internal/auth"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/angelmondragon/comicstore/pkg/logger"
)

// AuthRegisterForm describes the signup form.
func AuthRegisterForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, FormDescriptor{
			Action: "/register",
			Fields: []string{"first_name", "last_name", "username", "email", "password1", "password2"},
		})
	}
}

// AuthRegister creates the account and its default profile, then sends the
// shopper to the login page.
func AuthRegister(svc auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register service unavailable"))
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeRequest(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Register(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Redirect(w, auth.LoginRedirect, nil)
	}
}
