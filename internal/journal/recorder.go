package journal

import (
	"context"
	"fmt"
	"log"

	"care-connect/client/internal/events"
	"care-connect/client/internal/session/domain"
)

// Recorder writes journal entries for bus events. Best-effort: failures are
// logged and do not affect the session code paths that published the event.
type Recorder struct {
	repo Repository
}

// NewRecorder returns a Recorder persisting to repo.
func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

// Record writes one entry.
func (r *Recorder) Record(ctx context.Context, userID, event, detail string) {
	if r.repo == nil {
		return
	}
	if err := r.repo.Append(ctx, &Entry{UserID: userID, Event: event, Detail: detail}); err != nil {
		log.Printf("journal: record %s: %v", event, err)
	}
}

// Attach subscribes the recorder to session events on bus. The returned
// function detaches it.
func (r *Recorder) Attach(bus *events.Bus) (detach func()) {
	ctx := context.Background()
	unsubLogin := bus.SubscribeUserLoggedIn(func(u domain.User) {
		r.Record(ctx, u.ID, EventLogin, u.Role)
	})
	unsubEnded := bus.SubscribeSessionEnded(func(reason string) {
		r.Record(ctx, "", EventLogout, reason)
	})
	unsubAdmin := bus.SubscribeAdminStatus(func(isAdmin bool) {
		r.Record(ctx, "", EventAdminChange, fmt.Sprintf("admin=%t", isAdmin))
	})
	return func() {
		unsubLogin()
		unsubEnded()
		unsubAdmin()
	}
}
