package models

import "github.com/golang-jwt/jwt/v5"

// IdentityClaims are the claims expected on an identity-provider token
// presented at login or on protected routes.
type IdentityClaims struct {
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UID returns the provider UID carried in the subject claim.
func (c *IdentityClaims) UID() string {
	return c.Subject
}
