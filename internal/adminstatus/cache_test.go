package adminstatus

import (
	"context"
	"errors"
	"testing"
	"time"

	"care-connect/client/internal/events"
	"care-connect/client/internal/session/domain"
	"care-connect/client/internal/session/repository"
)

type fakeFetcher struct {
	isAdmin bool
	err     error
	calls   int
}

func (f *fakeFetcher) FetchAdminStatus(ctx context.Context) (bool, error) {
	f.calls++
	return f.isAdmin, f.err
}

func newCache(t *testing.T, fetcher *fakeFetcher) (*Cache, *repository.Memory, *time.Time) {
	t.Helper()
	store := repository.NewMemory()
	c := New(fetcher, store, events.NewBus(), 0)
	now := time.Unix(1700000000, 0).UTC()
	c.nowF = func() time.Time { return now }
	return c, store, &now
}

func TestCheckAsync_FetchesAndCaches(t *testing.T) {
	fetcher := &fakeFetcher{isAdmin: true}
	c, store, _ := newCache(t, fetcher)
	ctx := context.Background()
	if err := store.SetUser(ctx, &domain.User{ID: "u1", Role: domain.RolePatient}); err != nil {
		t.Fatalf("SetUser: %v", err)
	}

	if !c.CheckAsync(ctx, false) {
		t.Fatal("CheckAsync = false, want verified admin")
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetch calls = %d, want 1", fetcher.calls)
	}

	// Within the TTL the second check is answered from cache.
	if !c.CheckAsync(ctx, false) {
		t.Error("cached CheckAsync = false")
	}
	if fetcher.calls != 1 {
		t.Errorf("fetch calls after cached check = %d, want 1", fetcher.calls)
	}
}

func TestCheckAsync_CacheMasksStatusChangeWithinTTL(t *testing.T) {
	fetcher := &fakeFetcher{isAdmin: true}
	c, store, now := newCache(t, fetcher)
	ctx := context.Background()
	if err := store.SetUser(ctx, &domain.User{ID: "u1", Role: domain.RolePatient}); err != nil {
		t.Fatalf("SetUser: %v", err)
	}

	if !c.CheckAsync(ctx, false) {
		t.Fatal("initial check = false")
	}

	// The backend demotes the user mid-TTL; the cache keeps answering
	// from the verified record until it expires.
	fetcher.isAdmin = false
	*now = now.Add(2 * time.Minute)
	if !c.CheckAsync(ctx, false) {
		t.Error("mid-TTL check = false, want cached true")
	}

	// Past the TTL the demotion is observed.
	*now = now.Add(4 * time.Minute)
	if c.CheckAsync(ctx, false) {
		t.Error("post-TTL check = true, want refreshed false")
	}
}

func TestCheckAsync_LocalAdminShortCircuits(t *testing.T) {
	fetcher := &fakeFetcher{isAdmin: true}
	c, store, _ := newCache(t, fetcher)
	ctx := context.Background()
	if err := store.SetUser(ctx, &domain.User{ID: "u1", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("SetUser: %v", err)
	}

	if !c.CheckAsync(ctx, false) {
		t.Fatal("CheckAsync = false for locally admin user")
	}
	if fetcher.calls != 0 {
		t.Errorf("fetch calls = %d, want 0 (local short-circuit)", fetcher.calls)
	}
}

func TestCheckAsync_ForceBypassesCacheAndShortCircuit(t *testing.T) {
	fetcher := &fakeFetcher{isAdmin: false}
	c, store, _ := newCache(t, fetcher)
	ctx := context.Background()
	if err := store.SetUser(ctx, &domain.User{ID: "u1", Role: domain.RoleAdmin, IsAdmin: true}); err != nil {
		t.Fatalf("SetUser: %v", err)
	}

	if c.CheckAsync(ctx, true) {
		t.Error("forced check = true, want backend answer false")
	}
	if fetcher.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.calls)
	}
}

func TestCheckAsync_FetchErrorResolvesNonAdmin(t *testing.T) {
	fetcher := &fakeFetcher{isAdmin: true, err: errors.New("backend unreachable")}
	c, store, _ := newCache(t, fetcher)
	ctx := context.Background()
	if err := store.SetUser(ctx, &domain.User{ID: "u1", Role: domain.RolePatient}); err != nil {
		t.Fatalf("SetUser: %v", err)
	}

	if c.CheckAsync(ctx, false) {
		t.Error("CheckAsync = true despite fetch error, want fail-closed false")
	}
}

func TestCheckSync_NeverTouchesNetwork(t *testing.T) {
	fetcher := &fakeFetcher{isAdmin: true}
	c, store, _ := newCache(t, fetcher)
	ctx := context.Background()

	if c.CheckSync(ctx) {
		t.Error("CheckSync = true with no user record")
	}

	// The no-record answer was cached; a sign-in drops it before the new
	// account's record is consulted.
	c.Invalidate()
	if err := store.SetUser(ctx, &domain.User{ID: "u1", Role: domain.RoleHospitalAdmin}); err != nil {
		t.Fatalf("SetUser: %v", err)
	}
	if !c.CheckSync(ctx) {
		t.Error("CheckSync = false for hospital_admin user record")
	}
	if fetcher.calls != 0 {
		t.Errorf("fetch calls = %d, want 0", fetcher.calls)
	}
}

func TestCheckSync_CachesFallbackWithinTTL(t *testing.T) {
	fetcher := &fakeFetcher{}
	c, store, now := newCache(t, fetcher)
	ctx := context.Background()
	if err := store.SetUser(ctx, &domain.User{ID: "u1", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("SetUser: %v", err)
	}

	if !c.CheckSync(ctx) {
		t.Fatal("CheckSync = false for admin user record")
	}

	// The user record is demoted mid-TTL; the cached answer holds until
	// the TTL expires.
	if err := store.SetUser(ctx, &domain.User{ID: "u1", Role: domain.RolePatient}); err != nil {
		t.Fatalf("SetUser: %v", err)
	}
	*now = now.Add(time.Minute)
	if !c.CheckSync(ctx) {
		t.Error("mid-TTL CheckSync = false, want cached true")
	}

	// Past the TTL the fallback re-reads the record and sees the demotion.
	*now = now.Add(5 * time.Minute)
	if c.CheckSync(ctx) {
		t.Error("post-TTL CheckSync = true, want refreshed false")
	}
	if fetcher.calls != 0 {
		t.Errorf("fetch calls = %d, want 0", fetcher.calls)
	}
}

func TestInvalidate_DropsCachedRecord(t *testing.T) {
	fetcher := &fakeFetcher{isAdmin: true}
	c, store, _ := newCache(t, fetcher)
	ctx := context.Background()
	if err := store.SetUser(ctx, &domain.User{ID: "u1", Role: domain.RolePatient}); err != nil {
		t.Fatalf("SetUser: %v", err)
	}

	if !c.CheckAsync(ctx, false) {
		t.Fatal("initial check = false")
	}
	c.Invalidate()

	fetcher.isAdmin = false
	if c.CheckAsync(ctx, false) {
		t.Error("post-invalidate check = true, want fresh backend answer")
	}
	if fetcher.calls != 2 {
		t.Errorf("fetch calls = %d, want 2", fetcher.calls)
	}
}

func TestCheckAsync_SyncsVerifiedFlagIntoUserRecord(t *testing.T) {
	fetcher := &fakeFetcher{isAdmin: true}
	c, store, _ := newCache(t, fetcher)
	ctx := context.Background()
	if err := store.SetUser(ctx, &domain.User{ID: "u1", Role: domain.RolePatient}); err != nil {
		t.Fatalf("SetUser: %v", err)
	}

	if !c.CheckAsync(ctx, false) {
		t.Fatal("CheckAsync = false")
	}
	u, err := store.User(ctx)
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	if u == nil || !u.IsAdmin {
		t.Errorf("user record = %+v, want IsAdmin folded back in", u)
	}
}

func TestAdminStatusPublishedOnChange(t *testing.T) {
	fetcher := &fakeFetcher{isAdmin: true}
	store := repository.NewMemory()
	bus := events.NewBus()
	var published []bool
	unsubscribe := bus.SubscribeAdminStatus(func(isAdmin bool) {
		published = append(published, isAdmin)
	})
	defer unsubscribe()

	c := New(fetcher, store, bus, 0)
	now := time.Unix(1700000000, 0).UTC()
	c.nowF = func() time.Time { return now }
	ctx := context.Background()
	if err := store.SetUser(ctx, &domain.User{ID: "u1", Role: domain.RolePatient}); err != nil {
		t.Fatalf("SetUser: %v", err)
	}

	c.CheckAsync(ctx, false) // true: published
	c.CheckAsync(ctx, true)  // still true: no change, not published
	fetcher.isAdmin = false
	c.CheckAsync(ctx, true) // false: published

	want := []bool{true, false}
	if len(published) != len(want) {
		t.Fatalf("published = %v, want %v", published, want)
	}
	for i := range want {
		if published[i] != want[i] {
			t.Fatalf("published = %v, want %v", published, want)
		}
	}
}
