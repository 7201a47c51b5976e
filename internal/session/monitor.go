// Package session owns the client-side session lifecycle: it keeps exactly
// one pair of timers (hard expiration, inactivity) alive while a token is
// present and forces a clean logout when either fires.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"care-connect/client/internal/activity"
	"care-connect/client/internal/events"
	"care-connect/client/internal/security"
	"care-connect/client/internal/session/domain"
	"care-connect/client/internal/session/repository"
	"care-connect/client/internal/token"
)

// ErrNoSession is returned by Setup when no token is persisted.
var ErrNoSession = errors.New("no session token present")

// inactivityCap is the idle limit for an authenticated session.
const inactivityCap = 30 * time.Minute

// inactivityWindow returns the idle window for a token with the given
// remaining lifetime and whether an idle timer should be armed at all.
// The idle limit is min(80% of remaining lifetime, 30 minutes). When the
// 30-minute cap is not the binding term the token expires within ~37 minutes
// anyway, so the expiration timer bounds the session sooner than a meaningful
// idle limit could and no idle timer is armed.
func inactivityWindow(remaining time.Duration) (time.Duration, bool) {
	w := remaining / 5 * 4
	if w >= inactivityCap {
		return inactivityCap, true
	}
	return w, false
}

// Invalidator clears a cached fact on logout (the admin-status cache).
type Invalidator interface {
	Invalidate()
}

// Monitor is the session lifecycle manager. It is either idle (no session)
// or monitoring: while monitoring, an expiration timer is armed for the
// token's exact remaining lifetime and an inactivity timer for the idle
// window, and every tracked activity event re-arms the inactivity timer.
//
// All forced-logout paths clear the persisted token and user record, clear
// the admin cache, persist the logout reason in the single-read slot, and
// invoke the redirect hook; none of them surface an error to UI code.
type Monitor struct {
	store    repository.Repository
	tracker  *activity.Tracker
	bus      *events.Bus
	admin    Invalidator
	redirect func(reason string)
	clock    Clock

	mu         sync.Mutex
	monitoring bool
	timers     timerPair
}

// NewMonitor returns a Monitor over the given store and activity tracker.
// admin and redirect may be nil; clock nil means the real wall clock.
func NewMonitor(store repository.Repository, tracker *activity.Tracker, bus *events.Bus, admin Invalidator, redirect func(reason string), clock Clock) *Monitor {
	if clock == nil {
		clock = RealClock()
	}
	return &Monitor{
		store:    store,
		tracker:  tracker,
		bus:      bus,
		admin:    admin,
		redirect: redirect,
		clock:    clock,
	}
}

// Monitoring reports whether a session is currently being monitored.
func (m *Monitor) Monitoring() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.monitoring
}

// Setup starts monitoring the persisted token. Calling Setup while already
// monitoring first tears down the existing timers and listeners, so there is
// never more than one live timer of each kind. A token that is already
// expired (or undecodable, or without an exp claim) triggers an immediate
// forced logout instead of monitoring.
func (m *Monitor) Setup(ctx context.Context) error {
	m.teardown()

	tok, err := m.store.Token(ctx)
	if err != nil {
		return err
	}
	if tok == "" {
		return ErrNoSession
	}

	remaining := token.TimeUntilExpiration(tok, m.clock.Now())
	if remaining <= 0 {
		m.ForceLogout(domain.ReasonSessionExpired)
		return nil
	}
	log.Printf("session: monitoring token %s, expires in %s",
		security.TokenFingerprint(tok), remaining.Round(time.Second))

	m.mu.Lock()
	m.timers.armExpiration(m.clock, remaining, func() {
		m.ForceLogout(domain.ReasonSessionExpired)
	})
	if window, ok := inactivityWindow(remaining); ok {
		m.timers.rearmInactivity(m.clock, window, func() {
			m.ForceLogout(domain.ReasonInactivity)
		})
	}
	m.monitoring = true
	m.mu.Unlock()

	m.tracker.Start(m.onActivity)
	return nil
}

// Resume re-establishes monitoring from current token state, recomputing both
// timers. Called when the client regains the foreground, which covers clock
// drift while the process was suspended. A missing token is not an error
// here: the session may have legitimately ended while suspended.
func (m *Monitor) Resume(ctx context.Context) error {
	err := m.Setup(ctx)
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	return err
}

// HandleLogin persists the login response (token and user record), announces
// the login, and starts monitoring. Any cached admin standing belongs to the
// previous account and is dropped first.
func (m *Monitor) HandleLogin(ctx context.Context, tok string, user *domain.User) error {
	if m.admin != nil {
		m.admin.Invalidate()
	}
	if err := m.store.SetToken(ctx, tok); err != nil {
		return err
	}
	if err := m.store.SetUser(ctx, user); err != nil {
		return err
	}
	if m.bus != nil && user != nil {
		m.bus.PublishUserLoggedIn(*user)
	}
	return m.Setup(ctx)
}

// Logout ends the session by explicit user action: timers cancelled,
// listeners detached, slots cleared, admin cache invalidated. No logout
// reason is recorded and the redirect hook is not invoked.
func (m *Monitor) Logout(ctx context.Context) error {
	m.teardown()
	err := m.clearSession(ctx)
	if m.bus != nil {
		m.bus.PublishSessionEnded("")
	}
	return err
}

// ForceLogout ends the session on behalf of the system: same teardown as
// Logout, plus the reason is persisted in the single-read slot and the
// redirect hook is invoked. Errors are logged, never returned; the outcome
// of a forced logout is a navigation side effect, not an error value.
func (m *Monitor) ForceLogout(reason string) {
	m.mu.Lock()
	m.monitoring = false
	m.timers.stopAll()
	m.mu.Unlock()
	m.tracker.Stop()

	ctx := context.Background()
	if err := m.clearSession(ctx); err != nil {
		log.Printf("session: forced logout cleanup: %v", err)
	}
	if err := m.store.SetLogoutReason(ctx, reason); err != nil {
		log.Printf("session: persist logout reason: %v", err)
	}
	if m.bus != nil {
		m.bus.PublishSessionEnded(reason)
	}
	if m.redirect != nil {
		m.redirect(reason)
	}
}

// teardown cancels timers and detaches activity listeners. Idempotent.
func (m *Monitor) teardown() {
	m.mu.Lock()
	m.monitoring = false
	m.timers.stopAll()
	m.mu.Unlock()
	// Outside the lock: Stop waits for listener goroutines, which may be
	// blocked acquiring it in onActivity.
	m.tracker.Stop()
}

func (m *Monitor) clearSession(ctx context.Context) error {
	var firstErr error
	if err := m.store.DeleteToken(ctx); err != nil {
		firstErr = err
	}
	if err := m.store.DeleteUser(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if m.admin != nil {
		m.admin.Invalidate()
	}
	return firstErr
}

// onActivity handles one tracked activity event: re-read the remaining token
// lifetime and either force logout (token meanwhile expired) or re-arm the
// inactivity timer. The handler stays cheap (no network) since activity
// events can fire at high frequency.
func (m *Monitor) onActivity(activity.Kind) {
	m.mu.Lock()
	if !m.monitoring {
		m.mu.Unlock()
		return
	}
	tok, err := m.store.Token(context.Background())
	if err != nil || tok == "" {
		m.mu.Unlock()
		return
	}
	remaining := token.TimeUntilExpiration(tok, m.clock.Now())
	if remaining <= 0 {
		m.mu.Unlock()
		// ForceLogout stops the tracker, which waits for this listener
		// to return; run it off the listener goroutine.
		go m.ForceLogout(domain.ReasonSessionExpired)
		return
	}
	if window, ok := inactivityWindow(remaining); ok {
		m.timers.rearmInactivity(m.clock, window, func() {
			m.ForceLogout(domain.ReasonInactivity)
		})
	} else {
		m.timers.stopInactivity()
	}
	m.mu.Unlock()
}
