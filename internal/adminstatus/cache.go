// Package adminstatus caches the signed-in user's admin standing so that
// navigation chrome can be gated without a network round trip per render.
// The cache is advisory: it gates what the client shows, while every
// privileged call is still authorized by the backend.
package adminstatus

import (
	"context"
	"log"
	"sync"
	"time"

	"care-connect/client/internal/events"
	"care-connect/client/internal/session/domain"
)

// DefaultTTL is how long a verified admin check stays fresh.
const DefaultTTL = 5 * time.Minute

// Fetcher verifies the current user's admin standing with the backend.
type Fetcher interface {
	FetchAdminStatus(ctx context.Context) (bool, error)
}

// UserStore is the slice of the session store the cache reads and updates.
type UserStore interface {
	User(ctx context.Context) (*domain.User, error)
	SetUser(ctx context.Context, u *domain.User) error
}

type record struct {
	isAdmin   bool
	checkedAt time.Time
}

// Cache memoizes the backend admin check for a TTL. A locally admin user
// record short-circuits the network check entirely; any fetch failure
// resolves to non-admin.
type Cache struct {
	fetcher Fetcher
	store   UserStore
	bus     *events.Bus
	ttl     time.Duration

	mu   sync.RWMutex
	rec  *record
	nowF func() time.Time
}

// New returns a cache with DefaultTTL. A non-positive ttl keeps the default.
func New(fetcher Fetcher, store UserStore, bus *events.Bus, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		fetcher: fetcher,
		store:   store,
		bus:     bus,
		ttl:     ttl,
		nowF:    func() time.Time { return time.Now().UTC() },
	}
}

// CheckSync resolves admin standing without touching the network: a fresh
// record wins, otherwise the persisted user record decides and that answer
// is cached for the TTL. Within the TTL the answer is stable even if the
// user record is mutated underneath. Returns false when neither source is
// available; a store read error is not cached.
func (c *Cache) CheckSync(ctx context.Context) bool {
	if v, ok := c.cached(); ok {
		return v
	}
	u, err := c.store.User(ctx)
	if err != nil {
		return false
	}
	v := u.Admin()
	c.put(v)
	return v
}

// CheckAsync resolves admin standing, reaching the backend when the cache
// cannot answer. force bypasses both the cache and the local short-circuit.
// A failed fetch resolves to false rather than surfacing the error to
// navigation code.
func (c *Cache) CheckAsync(ctx context.Context, force bool) bool {
	if !force {
		if v, ok := c.cached(); ok {
			return v
		}
		// A user record already marked admin needs no round trip: the
		// flag was set from a server response at login or on a prior
		// refresh, and showing admin chrome to a demoted admin is
		// corrected by the backend rejecting the actual calls.
		if u, err := c.store.User(ctx); err == nil && u != nil && u.Admin() {
			c.put(true)
			return true
		}
	}

	verified, err := c.fetcher.FetchAdminStatus(ctx)
	if err != nil {
		log.Printf("adminstatus: verify: %v", err)
		return false
	}
	c.put(verified)
	c.syncUserRecord(ctx, verified)
	return verified
}

// Invalidate drops the cached record. Called on logout and login so one
// account's standing never leaks into the next session.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.rec = nil
	c.mu.Unlock()
}

func (c *Cache) cached() (bool, bool) {
	c.mu.RLock()
	rec := c.rec
	c.mu.RUnlock()
	if rec == nil {
		return false, false
	}
	if c.nowF().Sub(rec.checkedAt) >= c.ttl {
		c.mu.Lock()
		if c.rec == rec {
			c.rec = nil
		}
		c.mu.Unlock()
		return false, false
	}
	return rec.isAdmin, true
}

func (c *Cache) put(isAdmin bool) {
	c.mu.Lock()
	prev := c.rec
	c.rec = &record{isAdmin: isAdmin, checkedAt: c.nowF()}
	c.mu.Unlock()
	if c.bus != nil && (prev == nil || prev.isAdmin != isAdmin) {
		c.bus.PublishAdminStatus(isAdmin)
	}
}

// syncUserRecord folds a verified result back into the persisted user so
// the next CheckSync after restart agrees with the backend. Best effort.
func (c *Cache) syncUserRecord(ctx context.Context, verified bool) {
	u, err := c.store.User(ctx)
	if err != nil || u == nil || u.IsAdmin == verified {
		return
	}
	u.IsAdmin = verified
	if err := c.store.SetUser(ctx, u); err != nil {
		log.Printf("adminstatus: update user record: %v", err)
	}
}
