package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LoadOrCreateInstallID returns the per-install client id persisted at path,
// generating and persisting a new one on first run. The id scopes the seal
// key so a copied database file is unreadable on another install.
func LoadOrCreateInstallID(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(raw))
		if _, parseErr := uuid.Parse(id); parseErr == nil {
			return id, nil
		}
		// Corrupt id file: regenerate. Sealed tokens become unreadable,
		// which the store treats as an absent session.
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("security: read install id: %w", err)
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("security: create data dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("security: persist install id: %w", err)
	}
	return id, nil
}
