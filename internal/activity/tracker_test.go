package activity

import (
	"sync"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestTracker_DeliversEvents(t *testing.T) {
	input := NewFeed(KindInput)
	api := NewFeed(KindAPICall)
	tracker := NewTracker(input, api)

	var mu sync.Mutex
	var got []Kind
	tracker.Start(func(k Kind) {
		mu.Lock()
		got = append(got, k)
		mu.Unlock()
	})
	defer tracker.Stop()

	input.Emit()
	api.Emit()

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	})

	mu.Lock()
	defer mu.Unlock()
	seen := map[Kind]bool{}
	for _, k := range got {
		seen[k] = true
	}
	if !seen[KindInput] || !seen[KindAPICall] {
		t.Errorf("delivered kinds = %v, want input and api_call", got)
	}
}

func TestTracker_StopDetachesListeners(t *testing.T) {
	feed := NewFeed(KindInput)
	tracker := NewTracker(feed)

	var mu sync.Mutex
	calls := 0
	tracker.Start(func(Kind) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	feed.Emit()
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	})

	tracker.Stop()
	feed.Emit()
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("calls after Stop = %d, want 1", calls)
	}
}

func TestTracker_StopIdempotent(t *testing.T) {
	tracker := NewTracker(NewFeed(KindInput))
	tracker.Stop() // not started
	tracker.Start(func(Kind) {})
	tracker.Stop()
	tracker.Stop() // second stop must not panic or block
}

func TestTracker_RestartUsesNewCallback(t *testing.T) {
	feed := NewFeed(KindCommand)
	tracker := NewTracker(feed)

	tracker.Start(func(Kind) { t.Error("old callback invoked after restart") })

	var mu sync.Mutex
	calls := 0
	tracker.Start(func(Kind) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	defer tracker.Stop()

	feed.Emit()
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	})
}

func TestFeed_EmitNeverBlocks(t *testing.T) {
	feed := NewFeed(KindInput)
	// No listener attached; emitting more than the buffer must not block.
	for i := 0; i < 100; i++ {
		feed.Emit()
	}
}
