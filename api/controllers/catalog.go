package controllers

import (
	"net/http"

	"github.com/angelmondragon/comicstore/api/middleware"
	"github.com/angelmondragon/comicstore/api/responses"
	"github.com/angelmondragon/comicstore/api/validators"
	"github.com/angelmondragon/comicstore/internal/catalog"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/angelmondragon/comicstore/pkg/logger"
)

// CatalogList serves one page of the catalog, newest first.
func CatalogList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		page, err := svc.List(r.Context(), r.URL.Query().Get("page"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ComicDetail serves a single comic with the caller's favorite/cart overlay.
func ComicDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		marvelID, err := validators.ParseQueryID(r, "marvel_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithMarvelID(ctx, marvelID)
		}
		detail, err := svc.Detail(ctx, middleware.AccountFromContext(ctx), marvelID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
