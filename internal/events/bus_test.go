package events

import (
	"testing"

	"care-connect/client/internal/session/domain"
)

func TestBus_AdminStatusDelivery(t *testing.T) {
	bus := NewBus()
	var got []bool
	unsubscribe := bus.SubscribeAdminStatus(func(admin bool) {
		got = append(got, admin)
	})
	defer unsubscribe()

	bus.PublishAdminStatus(true)
	bus.PublishAdminStatus(false)

	if len(got) != 2 || got[0] != true || got[1] != false {
		t.Errorf("delivered = %v, want [true false]", got)
	}
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()
	calls := 0
	unsubscribe := bus.SubscribeSessionEnded(func(string) { calls++ })

	bus.PublishSessionEnded("first")
	unsubscribe()
	bus.PublishSessionEnded("second")

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBus_LateSubscriberSeesNothing(t *testing.T) {
	bus := NewBus()
	bus.PublishUserLoggedIn(domain.User{ID: "u1"})

	called := false
	unsubscribe := bus.SubscribeUserLoggedIn(func(domain.User) { called = true })
	defer unsubscribe()

	if called {
		t.Error("late subscriber received an earlier signal")
	}
}

func TestBus_UserLoggedInCarriesRecord(t *testing.T) {
	bus := NewBus()
	var got domain.User
	unsubscribe := bus.SubscribeUserLoggedIn(func(u domain.User) { got = u })
	defer unsubscribe()

	bus.PublishUserLoggedIn(domain.User{ID: "u1", Email: "p@example.com", Role: domain.RolePatient})

	if got.ID != "u1" || got.Email != "p@example.com" {
		t.Errorf("got = %+v, want the published record", got)
	}
}

func TestBus_UnsubscribeIdempotent(t *testing.T) {
	bus := NewBus()
	unsubscribe := bus.SubscribeAdminStatus(func(bool) {})
	unsubscribe()
	unsubscribe() // must not panic
}
