package controllers

import (
	"net/http"

	"github.com/angelmondragon/comicstore/api/middleware"
	"github.com/angelmondragon/comicstore/api/responses"
	"github.com/angelmondragon/comicstore/api/validators"
	"github.com/angelmondragon/comicstore/internal/profiles"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/angelmondragon/comicstore/pkg/logger"
)

type profileUpdateRequest struct {
	Name            string `json:"name" schema:"name"`
	Surname         string `json:"surname" schema:"surname"`
	Username        string `json:"username" schema:"username" validate:"required"`
	Email           string `json:"email" schema:"email" validate:"required"`
	Country         string `json:"country" schema:"country"`
	State           string `json:"state" schema:"state"`
	City            string `json:"city" schema:"city"`
	PostalCode      string `json:"postal_code" schema:"postal_code"`
	CellPhoneNumber string `json:"cell_phone_number" schema:"cell_phone_number"`
}

// ProfileView lists the caller's profile fields in display order.
func ProfileView(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
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

// ProfileForm returns the current values that prefill the update form.
func ProfileForm(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		form, err := svc.Form(r.Context(), middleware.AccountFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, form)
	}
}

// ProfileUpdate saves the account and address fields, then redirects to the profile.
func ProfileUpdate(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		var body profileUpdateRequest
		if err := validators.DecodeRequest(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err := svc.Update(r.Context(), middleware.AccountFromContext(r.Context()), profiles.UpdateInput{
			Name:     body.Name,
			Surname:  body.Surname,
			Username: body.Username,
			Email:    body.Email,
			AddressInput: profiles.AddressInput{
				Country:         body.Country,
				State:           body.State,
				City:            body.City,
				PostalCode:      body.PostalCode,
				CellPhoneNumber: body.CellPhoneNumber,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Redirect(w, profiles.RedirectPath, nil)
	}
}
