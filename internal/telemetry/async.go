package telemetry

import (
	"context"
	"log"
	"time"
)

// emitTimeout is the max time allowed for a single async emit.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration is how long to wait before shutting down OTel
// providers on exit, so in-flight async emits have time to complete.
// Must be >= emitTimeout.
const ShutdownDrainDuration = emitTimeout

// EmitAsync runs Emit in a goroutine with a short timeout so the caller is
// never blocked on telemetry. Errors are logged.
//
// emitter and event may be nil; EmitAsync returns immediately without
// starting a goroutine. The goroutine uses context.Background() with
// emitTimeout so caller cancellation does not abort an in-flight emit.
func EmitAsync(emitter EventEmitter, event *Event) {
	if emitter == nil || event == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()
		if err := emitter.Emit(ctx, event); err != nil {
			log.Printf("telemetry: async emit failed: %v", err)
		}
	}()
}
