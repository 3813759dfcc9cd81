package service

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims embedded in a bearer token.
type Claims struct {
	UserID   int64  `json:"-"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and verifying bearer tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// Sign creates a signed, time-bound bearer token for the given identity.
	Sign(userID int64, username string) (string, error)

	// Validate checks the signature and expiry of a token string and
	// returns its claims.
	Validate(tokenString string) (*Claims, error)
}
