package repository

import (
	"context"
	"sync"

	"care-connect/client/internal/session/domain"
)

// Memory is an in-memory Repository. Used in tests and as the fallback when
// no local database path is configured.
type Memory struct {
	mu           sync.Mutex
	token        string
	user         *domain.User
	logoutReason string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Token returns the stored bearer token, or "" when absent.
func (m *Memory) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

// SetToken replaces the bearer token slot.
func (m *Memory) SetToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

// DeleteToken clears the bearer token slot.
func (m *Memory) DeleteToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// User returns a copy of the stored user record, or nil when absent.
func (m *Memory) User(ctx context.Context) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil, nil
	}
	u := *m.user
	return &u, nil
}

// SetUser replaces the user record slot.
func (m *Memory) SetUser(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u == nil {
		m.user = nil
		return nil
	}
	copied := *u
	m.user = &copied
	return nil
}

// DeleteUser clears the user record slot.
func (m *Memory) DeleteUser(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	return nil
}

// SetLogoutReason stores the forced-logout reason.
func (m *Memory) SetLogoutReason(ctx context.Context, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logoutReason = reason
	return nil
}

// TakeLogoutReason returns and clears the pending reason.
func (m *Memory) TakeLogoutReason(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reason := m.logoutReason
	m.logoutReason = ""
	return reason, nil
}
