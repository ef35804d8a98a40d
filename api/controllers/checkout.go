package controllers

import (
	"net/http"

	"github.com/angelmondragon/comicstore/api/middleware"
	"github.com/angelmondragon/comicstore/api/responses"
	"github.com/angelmondragon/comicstore/internal/checkout"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/angelmondragon/comicstore/pkg/logger"
)

// Checkout settles every cart entry with a positive quantity.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		result, err := svc.Settle(r.Context(), middleware.AccountFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Redirect(w, result.Redirect, result)
	}
}

// Thanks renders the receipt for ?settlement=<id>, or an empty one without it.
func Thanks(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		receipt, err := svc.Receipt(r.Context(), middleware.AccountFromContext(r.Context()), r.URL.Query().Get("settlement"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, receipt)
	}
}
