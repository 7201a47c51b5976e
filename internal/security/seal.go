// Package security provides at-rest protection for the locally persisted
// bearer token and hashing helpers for logging and comparison.
package security

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrSealCorrupt is returned when a sealed value cannot be opened (truncated
// ciphertext, wrong key, or tampering).
var ErrSealCorrupt = errors.New("sealed value corrupt")

// Sealer encrypts slot values at rest with ChaCha20-Poly1305. The key is
// derived from the per-install client ID, so a copied database file is
// unreadable on another install.
type Sealer struct {
	key []byte
}

// NewSealer returns a Sealer using a key derived from installID and scope.
// scope separates keys for different slots or stores sharing one install ID.
func NewSealer(installID, scope string) *Sealer {
	return &Sealer{key: DeriveKey(installID, scope)}
}

// DeriveKey derives a 32-byte sealing key from installID and scope.
func DeriveKey(installID, scope string) []byte {
	h := sha256.New()
	h.Write([]byte("care-connect/seal/v1\x00"))
	h.Write([]byte(installID))
	h.Write([]byte{0})
	h.Write([]byte(scope))
	return h.Sum(nil)
}

// Seal encrypts plain and returns nonce||ciphertext.
func (s *Sealer) Seal(plain []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plain, nil), nil
}

// Open decrypts a value produced by Seal. Returns ErrSealCorrupt when the
// value does not authenticate.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, ErrSealCorrupt
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrSealCorrupt
	}
	return plain, nil
}
