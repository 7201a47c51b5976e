// Package telemetry defines the client's best-effort event stream: session
// lifecycle, bookings and API failures, emitted without ever blocking the
// interaction that produced them.
package telemetry

import (
	"context"
	"time"
)

// Event kinds emitted by the client.
const (
	KindSessionStarted = "session_started"
	KindSessionEnded   = "session_ended"
	KindSessionResumed = "session_resumed"
	KindBookingPlaced  = "booking_placed"
	KindAPIFailure     = "api_failure"
)

// Event is one client telemetry event. Reason is set for session_ended;
// Attrs carries kind-specific detail.
type Event struct {
	Kind      string
	UserID    string
	Role      string
	InstallID string
	Reason    string
	At        time.Time
	Attrs     map[string]string
}

// EventEmitter emits telemetry events (e.g. to OTel Logs). Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *Event) error
}
