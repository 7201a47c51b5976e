// Package journal keeps a local history of session lifecycle events so the
// user can see when and why sessions started and ended on this install.
// Entries never contain tokens.
package journal

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Journaled event names.
const (
	EventLogin       = "login"
	EventLogout      = "logout"
	EventAdminChange = "admin_change"
)

// Entry is one journaled session event. Detail carries the logout reason or
// the new admin standing.
type Entry struct {
	ID        string
	UserID    string
	Event     string
	Detail    string
	CreatedAt time.Time
}

// Repository defines persistence for the session journal.
type Repository interface {
	Append(ctx context.Context, e *Entry) error
	ListRecent(ctx context.Context, limit int) ([]*Entry, error)
}

// SQLite persists journal entries in the local session database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite returns a journal repository over db. The session_journal table
// must exist (migrations applied).
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// Append persists one entry. ID and CreatedAt are filled in when unset.
func (s *SQLite) Append(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_journal (id, user_id, event, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Event, e.Detail, e.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// ListRecent returns up to limit entries, newest first.
func (s *SQLite) ListRecent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, event, detail, created_at FROM session_journal ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Event, &e.Detail, &createdAt); err != nil {
			return nil, err
		}
		if t, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			e.CreatedAt = t
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
