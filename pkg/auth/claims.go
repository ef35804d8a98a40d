package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Username string
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to shoppers.
type AccessTokenClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}

// Account returns the identity carried by the token.
func (c *AccessTokenClaims) Account() Account {
	if c == nil {
		return Anonymous
	}
	return Account{UserID: c.UserID, Username: c.Username, AccessID: c.ID}
}
