package profiles

import (
	"github.com/angelmondragon/comicstore/pkg/db/models"
)

// RedirectPath is where a profile update lands.
const RedirectPath = "/user"

// FieldDTO is one labelled row of the profile page.
type FieldDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ViewDTO is the profile page context in display order.
type ViewDTO struct {
	Fields []FieldDTO `json:"data_user"`
}

// FormDTO prefills the profile update form.
type FormDTO struct {
	Name            string `json:"name"`
	Surname         string `json:"surname"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Country         string `json:"country"`
	State           string `json:"state"`
	City            string `json:"city"`
	PostalCode      string `json:"postal_code"`
	CellPhoneNumber string `json:"cell_phone_number"`
}

// AddressInput carries the profile columns. Limits match user_profiles.
type AddressInput struct {
	Country         string `json:"country" validate:"max=100"`
	State           string `json:"state" validate:"max=100"`
	City            string `json:"city" validate:"max=100"`
	PostalCode      string `json:"postal_code" validate:"max=15"`
	CellPhoneNumber string `json:"cell_phone_number" validate:"max=20"`
}

// UpdateInput is the decoded profile update form. Limits match users.
type UpdateInput struct {
	Name     string `json:"name" validate:"max=100"`
	Surname  string `json:"surname" validate:"max=100"`
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
	AddressInput
}

func newForm(user *models.User, profile *models.UserProfile) FormDTO {
	return FormDTO{
		Name:            user.FirstName,
		Surname:         user.LastName,
		Username:        user.Username,
		Email:           user.Email,
		Country:         profile.Country,
		State:           profile.State,
		City:            profile.City,
		PostalCode:      profile.PostalCode,
		CellPhoneNumber: profile.CellPhoneNumber,
	}
}

func (f FormDTO) fields() []FieldDTO {
	return []FieldDTO{
		{Key: "name", Value: f.Name},
		{Key: "surname", Value: f.Surname},
		{Key: "username", Value: f.Username},
		{Key: "email", Value: f.Email},
		{Key: "country", Value: f.Country},
		{Key: "state", Value: f.State},
		{Key: "city", Value: f.City},
		{Key: "postal_code", Value: f.PostalCode},
		{Key: "cell_phone_number", Value: f.CellPhoneNumber},
	}
}
