package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the caller identity asserted by a bearer token. It never
// carries a role.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Photo string `json:"photo,omitempty"`
}

// IdentityClaims represents the JWT payload of an access token.
type IdentityClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Photo string `json:"photo,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the identity portion of the claims.
func (c *IdentityClaims) Identity() Identity {
	return Identity{Email: c.Email, Name: c.Name, Photo: c.Photo}
}

// TokenRequest is the payload of POST /jwt.
type TokenRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"omitempty,max=200"`
	Photo string `json:"photo" validate:"omitempty,max=2048"`
}

// TokenResponse returns an issued access token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
