package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenClaims are the parts of a session token the client cares about.
type TokenClaims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// ErrOpaqueToken is returned when a token is not a JWT. Opaque tokens are
// accepted by the session manager but carry no expiry.
var ErrOpaqueToken = errors.New("token is not a JWT")

// InspectToken reads the claims of a session token without verifying its
// signature. The client never holds the signing key; the backend remains the
// authority and rejects forged tokens with 401.
func InspectToken(tokenString string) (*TokenClaims, error) {
	parser := new(jwt.Parser)
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrOpaqueToken
	}

	tc := &TokenClaims{}
	tc.Subject, _ = claims["sub"].(string)
	tc.Email, _ = claims["email"].(string)
	switch exp := claims["exp"].(type) {
	case float64:
		tc.ExpiresAt = time.Unix(int64(exp), 0)
	case int64:
		tc.ExpiresAt = time.Unix(exp, 0)
	}
	return tc, nil
}

// GenerateToken signs an HS256 token with the given subject, email and lifetime.
// Used by tests and local tooling to mint tokens shaped like the backend's.
func GenerateToken(secret []byte, subject, email string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
