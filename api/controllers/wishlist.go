package controllers

import (
	"net/http"

	"github.com/angelmondragon/comicstore/api/middleware"
	"github.com/angelmondragon/comicstore/api/responses"
	"github.com/angelmondragon/comicstore/api/validators"
	"github.com/angelmondragon/comicstore/internal/wishlist"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/angelmondragon/comicstore/pkg/logger"
)

type checkButtonRequest struct {
	Username          string `json:"username" schema:"username" validate:"max=150"`
	MarvelID          int64  `json:"marvel_id" schema:"marvel_id" validate:"required,gt=0"`
	UserAuthenticated string `json:"user_authenticated" schema:"user_authenticated"`
	TypeButton        string `json:"type_button" schema:"type_button" validate:"required,max=32"`
	ActualValue       string `json:"actual_value" schema:"actual_value" validate:"required"`
	Path              string `json:"path" schema:"path" validate:"max=2048"`
}

// CheckButton flips the favorite or cart flag of a comic and redirects back.
func CheckButton(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		var body checkButtonRequest
		if err := validators.DecodeRequest(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actual, err := wishlist.ParseFlag(body.ActualValue)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithMarvelID(ctx, body.MarvelID)
		}
		target, err := svc.Toggle(ctx, middleware.AccountFromContext(ctx), wishlist.ToggleInput{
			Username:    body.Username,
			MarvelID:    body.MarvelID,
			Kind:        body.TypeButton,
			ActualValue: actual,
			Path:        body.Path,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.Redirect(w, target, nil)
	}
}

// Favorites lists the caller's favorite comics.
func Favorites(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		favorites, err := svc.Favorites(r.Context(), middleware.AccountFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, favorites)
	}
}
