package auth

import (
	"github.com/angelmondragon/comicstore/internal/users"
)

// LoginRedirect is where a finished registration sends the shopper.
const LoginRedirect = "/login"

// LoginRequest captures the credentials posted to the login form.
type LoginRequest struct {
	Username string `json:"username" schema:"username" validate:"required,max=150"`
	Password string `json:"password" schema:"password" validate:"required"`
}

// LoginResponse contains the tokens and user produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// TokenPair is the result of a refresh rotation.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterRequest contains the signup form.
type RegisterRequest struct {
	FirstName string `json:"first_name" schema:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" schema:"last_name" validate:"required,max=100"`
	Username  string `json:"username" schema:"username" validate:"required,max=150,username"`
	Email     string `json:"email" schema:"email" validate:"required,email,max=254"`
	Password1 string `json:"password1" schema:"password1" validate:"required"`
	Password2 string `json:"password2" schema:"password2" validate:"required"`
}
