// Package token decodes bearer token claims without verifying the signature.
// The client cannot verify signatures and only needs the expiration claim to
// schedule session timers; this is informational, not a security boundary.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned when a token cannot be decoded (wrong segment
// count, invalid base64, invalid JSON). Callers treat it as "no valid
// expiration known".
var ErrMalformedToken = errors.New("malformed token")

// Claims is the decoded, unverified payload of a bearer token.
type Claims struct {
	jwt.RegisteredClaims
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
}

var parser = jwt.NewParser()

// Decode splits the token into its three dot-separated segments and decodes
// the payload segment as JSON claims. The signature is not checked. Returns
// ErrMalformedToken for anything that does not decode.
func Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// ExpirationTime returns the exp claim as a wall-clock time and true, or
// false when the claim is absent.
func (c *Claims) ExpirationTime() (time.Time, bool) {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}, false
	}
	return c.ExpiresAt.Time, true
}

// TimeUntilExpiration returns the remaining token lifetime at now, clamped to
// zero. An undecodable token or a token without exp yields zero: the client
// treats such tokens as already expired rather than non-expiring.
func TimeUntilExpiration(tokenString string, now time.Time) time.Duration {
	claims, err := Decode(tokenString)
	if err != nil {
		return 0
	}
	exp, ok := claims.ExpirationTime()
	if !ok {
		return 0
	}
	if remaining := exp.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}

// IsExpired reports whether the token is expired at now. True when the
// expiration is unknown (malformed token or missing exp) or already reached.
func IsExpired(tokenString string, now time.Time) bool {
	claims, err := Decode(tokenString)
	if err != nil {
		return true
	}
	exp, ok := claims.ExpirationTime()
	if !ok {
		return true
	}
	return !now.Before(exp)
}
