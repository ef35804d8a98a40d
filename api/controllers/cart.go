package controllers

import (
	"net/http"

	"github.com/angelmondragon/comicstore/api/middleware"
	"github.com/angelmondragon/comicstore/api/responses"
	"github.com/angelmondragon/comicstore/api/validators"
	"github.com/angelmondragon/comicstore/internal/cart"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/angelmondragon/comicstore/pkg/logger"
)

type updateQuantityRequest struct {
	ComicID  int64 `json:"comic_id" schema:"comic_id" validate:"required,gt=0"`
	Quantity int   `json:"quantity" schema:"quantity" validate:"required,gte=1"`
}

type updateQuantityResult struct {
	Outcome   string `json:"outcome"`
	WishedQty int    `json:"wished_qty"`
}

// UpdateQuantity adds the requested units to a cart entry without exceeding stock.
func UpdateQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var body updateQuantityRequest
		if err := validators.DecodeRequest(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Reconcile(r.Context(), middleware.AccountFromContext(r.Context()), cart.ReconcileInput{
			ComicID:  body.ComicID,
			Quantity: body.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Redirect(w, result.Redirect, updateQuantityResult{
			Outcome:   result.Outcome.String(),
			WishedQty: result.DesiredQty,
		})
	}
}

// CartView lists the caller's cart with the running total.
func CartView(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		view, err := svc.View(r.Context(), middleware.AccountFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
