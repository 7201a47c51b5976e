package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashToken returns a SHA-256 hash of the token string, hex-encoded. Used for
// comparing tokens without holding the raw value.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// TokenHashEqual performs constant-time comparison of the provided token's
// hash with a stored hash. Returns true only if they match.
func TokenHashEqual(providedToken, storedHash string) bool {
	providedHash := HashToken(providedToken)
	return subtle.ConstantTimeCompare([]byte(providedHash), []byte(storedHash)) == 1
}

// TokenFingerprint returns a short, non-reversible identifier for a token,
// safe to include in logs and telemetry. Never log the raw token.
func TokenFingerprint(token string) string {
	if token == "" {
		return ""
	}
	return HashToken(token)[:12]
}
