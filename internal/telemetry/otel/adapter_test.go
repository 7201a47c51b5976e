package otel

import (
	"context"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"care-connect/client/internal/telemetry"
)

func TestNewEventEmitter_NilProvider_ReturnsNoop(t *testing.T) {
	em := NewEventEmitter(nil)
	if em == nil {
		t.Fatal("NewEventEmitter(nil) returned nil")
	}
	if err := em.Emit(context.Background(), nil); err != nil {
		t.Errorf("noop Emit(ctx, nil): %v", err)
	}
	if err := em.Emit(context.Background(), &telemetry.Event{Kind: telemetry.KindSessionStarted}); err != nil {
		t.Errorf("noop Emit(ctx, event): %v", err)
	}
}

func TestEmit_NilEvent_ReturnsNil(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()
	em := NewEventEmitter(provider)
	if err := em.Emit(context.Background(), nil); err != nil {
		t.Errorf("Emit(ctx, nil): %v", err)
	}
}

// recordCapture stores the last Record passed to Emit for assertion.
type recordCapture struct {
	rec otellog.Record
}

func (r *recordCapture) Emit(ctx context.Context, rec otellog.Record) {
	r.rec = rec
}

func TestEmit_AttributeAndBodyMapping(t *testing.T) {
	capture := &recordCapture{}
	em := NewEventEmitterWithLogger(capture)
	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	event := &telemetry.Event{
		Kind:      telemetry.KindSessionEnded,
		UserID:    "u1",
		Role:      "patient",
		InstallID: "install-1",
		Reason:    "You have been logged out due to inactivity.",
		At:        at,
		Attrs:     map[string]string{"idle_minutes": "30"},
	}
	if err := em.Emit(context.Background(), event); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	rec := capture.rec

	if got := rec.Body().AsString(); got != telemetry.KindSessionEnded {
		t.Errorf("body = %q, want %q", got, telemetry.KindSessionEnded)
	}
	if !rec.Timestamp().Equal(at) {
		t.Errorf("timestamp = %v, want %v", rec.Timestamp(), at)
	}

	attrs := make(map[string]string)
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})
	want := map[string]string{
		"user_id":      "u1",
		"role":         "patient",
		"install_id":   "install-1",
		"reason":       "You have been logged out due to inactivity.",
		"idle_minutes": "30",
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attr %q = %q, want %q", k, attrs[k], v)
		}
	}
}

func TestEmit_ZeroTimestampDefaultsToNow(t *testing.T) {
	capture := &recordCapture{}
	em := NewEventEmitterWithLogger(capture)
	before := time.Now().UTC()
	if err := em.Emit(context.Background(), &telemetry.Event{Kind: telemetry.KindBookingPlaced}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if capture.rec.Timestamp().Before(before) {
		t.Errorf("timestamp = %v, want >= %v", capture.rec.Timestamp(), before)
	}
}
