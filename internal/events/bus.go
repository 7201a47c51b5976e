// Package events provides the in-process notification bus for session
// signals. Delivery is fire-and-forget: subscribers present at publish time
// are invoked once; late subscribers see nothing.
package events

import (
	"sync"

	"care-connect/client/internal/session/domain"
)

// Bus fans out session signals to subscribers. Each Subscribe* call returns
// an unsubscribe func so listeners are not leaked across component lifetimes.
// The zero value is not usable; call NewBus.
type Bus struct {
	mu        sync.Mutex
	nextID    int
	adminSubs map[int]func(bool)
	loginSubs map[int]func(domain.User)
	endedSubs map[int]func(string)
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{
		adminSubs: make(map[int]func(bool)),
		loginSubs: make(map[int]func(domain.User)),
		endedSubs: make(map[int]func(string)),
	}
}

// SubscribeAdminStatus registers fn for "admin status changed" signals.
func (b *Bus) SubscribeAdminStatus(fn func(admin bool)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.adminSubs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.adminSubs, id)
	}
}

// SubscribeUserLoggedIn registers fn for "user logged in" signals.
func (b *Bus) SubscribeUserLoggedIn(fn func(user domain.User)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.loginSubs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.loginSubs, id)
	}
}

// SubscribeSessionEnded registers fn for session-end signals; reason is the
// human-readable logout reason, empty for user-initiated logout.
func (b *Bus) SubscribeSessionEnded(fn func(reason string)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.endedSubs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.endedSubs, id)
	}
}

// PublishAdminStatus notifies admin-status subscribers.
func (b *Bus) PublishAdminStatus(admin bool) {
	for _, fn := range b.snapshotAdmin() {
		fn(admin)
	}
}

// PublishUserLoggedIn notifies login subscribers with the new user record.
func (b *Bus) PublishUserLoggedIn(user domain.User) {
	for _, fn := range b.snapshotLogin() {
		fn(user)
	}
}

// PublishSessionEnded notifies session-end subscribers.
func (b *Bus) PublishSessionEnded(reason string) {
	for _, fn := range b.snapshotEnded() {
		fn(reason)
	}
}

// Subscribers are invoked outside the lock so a callback may subscribe or
// unsubscribe without deadlocking.
func (b *Bus) snapshotAdmin() []func(bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]func(bool), 0, len(b.adminSubs))
	for _, fn := range b.adminSubs {
		out = append(out, fn)
	}
	return out
}

func (b *Bus) snapshotLogin() []func(domain.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]func(domain.User), 0, len(b.loginSubs))
	for _, fn := range b.loginSubs {
		out = append(out, fn)
	}
	return out
}

func (b *Bus) snapshotEnded() []func(string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]func(string), 0, len(b.endedSubs))
	for _, fn := range b.endedSubs {
		out = append(out, fn)
	}
	return out
}
