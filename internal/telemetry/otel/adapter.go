package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"care-connect/client/internal/telemetry"
)

// NewEventEmitter returns an EventEmitter that sends events as OTel log records via the given LoggerProvider.
// If provider is nil, returns a no-op emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) telemetry.EventEmitter {
	if provider == nil {
		return noopEmitter{}
	}
	return &otelEmitter{logger: provider.Logger("careconnect.client")}
}

// NewEventEmitterWithLogger returns an EventEmitter over the given logger.
// Mainly for tests.
func NewEventEmitterWithLogger(logger recordEmitter) telemetry.EventEmitter {
	return &otelEmitter{logger: logger}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, *telemetry.Event) error { return nil }

// recordEmitter is the slice of otellog.Logger the adapter uses.
type recordEmitter interface {
	Emit(ctx context.Context, rec otellog.Record)
}

type otelEmitter struct {
	logger recordEmitter
}

// Emit converts the event to an OTel log record and emits it.
func (e *otelEmitter) Emit(ctx context.Context, event *telemetry.Event) error {
	if event == nil {
		return nil
	}
	rec := otellog.Record{}
	rec.SetBody(otellog.StringValue(event.Kind))
	if !event.At.IsZero() {
		rec.SetTimestamp(event.At)
	} else {
		rec.SetTimestamp(time.Now().UTC())
	}
	if event.UserID != "" {
		rec.AddAttributes(otellog.String("user_id", event.UserID))
	}
	if event.Role != "" {
		rec.AddAttributes(otellog.String("role", event.Role))
	}
	if event.InstallID != "" {
		rec.AddAttributes(otellog.String("install_id", event.InstallID))
	}
	if event.Reason != "" {
		rec.AddAttributes(otellog.String("reason", event.Reason))
	}
	for k, v := range event.Attrs {
		rec.AddAttributes(otellog.String(k, v))
	}
	e.logger.Emit(ctx, rec)
	return nil
}
