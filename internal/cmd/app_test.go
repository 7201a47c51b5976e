package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"care-connect/client/internal/activity"
	"care-connect/client/internal/events"
	"care-connect/client/internal/session"
	"care-connect/client/internal/session/domain"
	"care-connect/client/internal/session/repository"
)

func expiredToken(t *testing.T) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// newTestApp wires just the pieces requireSession touches, over an in-memory
// store.
func newTestApp(t *testing.T) *app {
	t.Helper()
	a := &app{
		store:     repository.NewMemory(),
		bus:       events.NewBus(),
		inputFeed: activity.NewFeed(activity.KindInput),
		cmdFeed:   activity.NewFeed(activity.KindCommand),
		apiFeed:   activity.NewFeed(activity.KindAPICall),
	}
	tracker := activity.NewTracker(a.inputFeed, a.cmdFeed, a.apiFeed)
	a.monitor = session.NewMonitor(a.store, tracker, a.bus, nil, a.redirectToLogin, nil)
	return a
}

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stderr = w
	defer func() { os.Stderr = orig }()
	fn()
	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read captured stderr: %v", err)
	}
	return string(out)
}

func TestRequireSession_ExpiredTokenPrintsReasonOnce(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	if err := a.store.SetToken(ctx, expiredToken(t)); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	var got error
	out := captureStderr(t, func() {
		got = a.requireSession(ctx)
	})
	if !errors.Is(got, errNotLoggedIn) {
		t.Fatalf("requireSession = %v, want errNotLoggedIn", got)
	}
	if n := strings.Count(out, domain.ReasonSessionExpired); n != 1 {
		t.Errorf("reason printed %d times, want once; stderr: %q", n, out)
	}

	// The redirect hook consumed the single-read slot.
	reason, err := a.store.TakeLogoutReason(ctx)
	if err != nil {
		t.Fatalf("TakeLogoutReason: %v", err)
	}
	if reason != "" {
		t.Errorf("logout reason slot = %q, want consumed", reason)
	}
}

func TestRequireSession_PriorForcedLogoutStillShowsReason(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	// A previous invocation force-logged-out and exited before the banner
	// was shown: no token, reason still pending.
	if err := a.store.SetLogoutReason(ctx, domain.ReasonInactivity); err != nil {
		t.Fatalf("SetLogoutReason: %v", err)
	}

	var got error
	out := captureStderr(t, func() {
		got = a.requireSession(ctx)
	})
	if !errors.Is(got, errNotLoggedIn) {
		t.Fatalf("requireSession = %v, want errNotLoggedIn", got)
	}
	if n := strings.Count(out, domain.ReasonInactivity); n != 1 {
		t.Errorf("reason printed %d times, want once; stderr: %q", n, out)
	}
}
