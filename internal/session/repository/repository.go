// Package repository persists the client session slots: the bearer token,
// the JSON user record, and the single-read logout reason. The store is a
// process-wide singleton in production, injected into components that need
// session data so tests can construct a fresh store per case.
package repository

import (
	"context"

	"care-connect/client/internal/session/domain"
)

// Repository is the session slot store. Absent slots are reported as empty
// values with a nil error; errors are reserved for storage failures.
type Repository interface {
	// Token returns the persisted bearer token, or "" when absent.
	Token(ctx context.Context) (string, error)
	// SetToken replaces the bearer token slot.
	SetToken(ctx context.Context, token string) error
	// DeleteToken clears the bearer token slot.
	DeleteToken(ctx context.Context) error

	// User returns the persisted user record, or nil when absent.
	User(ctx context.Context) (*domain.User, error)
	// SetUser replaces the user record slot.
	SetUser(ctx context.Context, u *domain.User) error
	// DeleteUser clears the user record slot.
	DeleteUser(ctx context.Context) error

	// SetLogoutReason stores the human-readable forced-logout reason.
	SetLogoutReason(ctx context.Context, reason string) error
	// TakeLogoutReason returns the stored reason and removes it, so the
	// reason is shown at most once (e.g. by the login banner). Returns ""
	// when no reason is pending.
	TakeLogoutReason(ctx context.Context) (string, error)
}
