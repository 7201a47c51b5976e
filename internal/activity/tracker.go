// Package activity detects user presence to support the inactivity timeout.
// Sources feed interaction events (keystrokes, executed commands, API calls);
// the tracker fans them into a single callback and knows nothing about timers
// or sessions.
package activity

import "sync"

// Kind names a tracked interaction event.
type Kind string

// Tracked activity kinds. Every firing independently signals presence;
// debouncing is the caller's responsibility.
const (
	KindInput   Kind = "input"
	KindCommand Kind = "command"
	KindAPICall Kind = "api_call"
	KindResume  Kind = "resume"
)

// Source is a feed of interaction events of one kind. Events is read until
// the tracker stops or the channel closes.
type Source interface {
	Kind() Kind
	Events() <-chan struct{}
}

// Tracker attaches to a fixed set of sources and invokes a callback for every
// event. Start/Stop are safe for repeated use; Stop is idempotent.
type Tracker struct {
	sources []Source

	mu      sync.Mutex
	stop    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewTracker returns a Tracker over the given sources.
func NewTracker(sources ...Source) *Tracker {
	return &Tracker{sources: sources}
}

// Start attaches a listener to every source; each event invokes onActivity
// with the source's kind. Calling Start while running restarts listening with
// the new callback.
func (t *Tracker) Start(onActivity func(Kind)) {
	t.Stop()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stop = make(chan struct{})
	t.running = true
	for _, src := range t.sources {
		t.wg.Add(1)
		go t.listen(src, onActivity, t.stop)
	}
}

// Stop detaches all listeners and waits for them to exit. Safe to call when
// not started.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	close(t.stop)
	t.running = false
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *Tracker) listen(src Source, onActivity func(Kind), stop <-chan struct{}) {
	defer t.wg.Done()
	kind := src.Kind()
	for {
		select {
		case <-stop:
			return
		case _, ok := <-src.Events():
			if !ok {
				return
			}
			onActivity(kind)
		}
	}
}

// Feed is a channel-backed Source. Emit never blocks: an event is dropped
// when the listener is behind, which is acceptable since any one event is
// enough to signal presence.
type Feed struct {
	kind Kind
	ch   chan struct{}
}

// NewFeed returns a Feed of the given kind with a small event buffer.
func NewFeed(kind Kind) *Feed {
	return &Feed{kind: kind, ch: make(chan struct{}, 16)}
}

// Kind returns the feed's activity kind.
func (f *Feed) Kind() Kind { return f.kind }

// Events returns the event channel read by the tracker.
func (f *Feed) Events() <-chan struct{} { return f.ch }

// Emit records one interaction event.
func (f *Feed) Emit() {
	select {
	case f.ch <- struct{}{}:
	default:
	}
}
