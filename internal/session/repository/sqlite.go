package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"care-connect/client/internal/security"
	"care-connect/client/internal/session/domain"
)

// Slot names in the session_slots table.
const (
	slotToken        = "token"
	slotUser         = "user"
	slotLogoutReason = "logout_reason"
)

// SQLite is a Repository backed by the local SQLite database opened via
// internal/db. The token slot is sealed at rest; the user record and logout
// reason are stored as plain JSON/text.
type SQLite struct {
	db     *sql.DB
	sealer *security.Sealer
}

// NewSQLite returns a store over db. sealer protects the token slot; it must
// be derived from the same install ID across runs or the token is unreadable
// and the session is treated as absent.
func NewSQLite(db *sql.DB, sealer *security.Sealer) *SQLite {
	return &SQLite{db: db, sealer: sealer}
}

// Token returns the persisted bearer token, or "" when absent. A token slot
// that fails to unseal (copied database, key change) is reported as absent:
// the session monitor then forces a clean logout instead of erroring.
func (s *SQLite) Token(ctx context.Context) (string, error) {
	sealed, ok, err := s.get(ctx, slotToken)
	if err != nil || !ok {
		return "", err
	}
	plain, err := s.sealer.Open(sealed)
	if err != nil {
		if errors.Is(err, security.ErrSealCorrupt) {
			return "", nil
		}
		return "", err
	}
	return string(plain), nil
}

// SetToken seals and replaces the bearer token slot.
func (s *SQLite) SetToken(ctx context.Context, tok string) error {
	sealed, err := s.sealer.Seal([]byte(tok))
	if err != nil {
		return err
	}
	return s.put(ctx, slotToken, sealed)
}

// DeleteToken clears the bearer token slot.
func (s *SQLite) DeleteToken(ctx context.Context) error {
	return s.delete(ctx, slotToken)
}

// User returns the persisted user record, or nil when absent or undecodable.
func (s *SQLite) User(ctx context.Context) (*domain.User, error) {
	raw, ok, err := s.get(ctx, slotUser)
	if err != nil || !ok {
		return nil, err
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, nil
	}
	return &u, nil
}

// SetUser replaces the user record slot with the JSON-serialized record.
func (s *SQLite) SetUser(ctx context.Context, u *domain.User) error {
	if u == nil {
		return s.delete(ctx, slotUser)
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.put(ctx, slotUser, raw)
}

// DeleteUser clears the user record slot.
func (s *SQLite) DeleteUser(ctx context.Context) error {
	return s.delete(ctx, slotUser)
}

// SetLogoutReason stores the forced-logout reason.
func (s *SQLite) SetLogoutReason(ctx context.Context, reason string) error {
	return s.put(ctx, slotLogoutReason, []byte(reason))
}

// TakeLogoutReason returns the pending reason and removes it in the same
// transaction, so the reason is read at most once.
func (s *SQLite) TakeLogoutReason(ctx context.Context) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var raw []byte
	err = tx.QueryRowContext(ctx,
		`SELECT value FROM session_slots WHERE name = ?`, slotLogoutReason).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM session_slots WHERE name = ?`, slotLogoutReason); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s *SQLite) get(ctx context.Context, name string) ([]byte, bool, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM session_slots WHERE name = ?`, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("session store: read %s: %w", name, err)
	}
	return raw, true, nil
}

func (s *SQLite) put(ctx context.Context, name string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_slots (name, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		name, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("session store: write %s: %w", name, err)
	}
	return nil
}

func (s *SQLite) delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_slots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("session store: delete %s: %w", name, err)
	}
	return nil
}
