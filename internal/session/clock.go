package session

import "time"

// Timer is an armed callback that can be cancelled. Stop reports whether the
// call prevented the callback from running.
type Timer interface {
	Stop() bool
}

// Clock supplies wall-clock time and timer scheduling. The monitor takes a
// Clock so tests can drive timer behavior deterministically.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealClock returns the wall clock backed by the time package.
func RealClock() Clock { return realClock{} }
