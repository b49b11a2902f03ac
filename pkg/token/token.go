package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Iggy502/booking-web-sub000/pkg/errcode"
)

// Claims represents the bearer credential claims the client cares about.
// The client holds no signing secret, so claims are inspected without
// signature verification; the server remains the authority on validity.
type Claims struct {
	UserId string `json:"user_id"`
	jwt.RegisteredClaims
}

// Inspect decodes the credential claims without verifying the signature
func Inspect(tokenString string) (*Claims, error) {
	parser := jwt.NewParser()
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, errcode.ErrTokenInvalid.Wrap(err)
	}
	return claims, nil
}

// Expired reports whether the credential expiry has passed. A credential
// without an expiry claim is treated as non-expiring.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return now.After(c.ExpiresAt.Time)
}

// Validate inspects the credential and gates on expiry and a non-empty
// subject user id.
func Validate(tokenString string, now time.Time) (*Claims, error) {
	claims, err := Inspect(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Expired(now) {
		return nil, errcode.ErrTokenExpired
	}
	if claims.UserId == "" && claims.Subject == "" {
		return nil, errcode.ErrTokenInvalid
	}
	return claims, nil
}

// SubjectId returns the user id the credential was issued to
func (c *Claims) SubjectId() string {
	if c.UserId != "" {
		return c.UserId
	}
	return c.Subject
}
