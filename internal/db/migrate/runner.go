// Package migrate runs local database migrations from embedded SQL files
// using golang-migrate.
package migrate

import (
	"errors"
	"fmt"

	"care-connect/client/internal/db"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Run applies migrations in the given direction to the SQLite database at
// path. direction must be "up" or "down". Returns nil on success (including
// when already at the target version); other errors for DB or I/O failures.
func Run(path string, direction string) error {
	if path == "" {
		return errors.New("session database path is not set; set DATA_DIR or use the default")
	}
	if direction != "up" && direction != "down" {
		return fmt.Errorf("direction must be up or down, got %q", direction)
	}

	sourceDriver, err := iofs.New(db.MigrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrate source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, "sqlite://"+path)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	switch direction {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	}
	return nil
}
