package auth

import "github.com/google/uuid"

// Account is the caller identity passed into every storefront operation.
// The zero value is the anonymous shopper.
type Account struct {
	UserID   uuid.UUID
	Username string
	AccessID string
}

// Anonymous is the identity of a caller without a valid token.
var Anonymous = Account{}

// IsAuthenticated reports whether the account belongs to a signed-in user.
func (a Account) IsAuthenticated() bool {
	return a.UserID != uuid.Nil
}
