package session

import "time"

// timerPair holds the session's two timer handles. Arming always cancels the
// previous handle first, which makes the at-most-one-of-each invariant a
// property of this type rather than a convention at call sites. Callers must
// hold the monitor's lock.
type timerPair struct {
	expiration Timer
	inactivity Timer
}

// armExpiration cancels any outstanding expiration timer and sets a new one.
func (p *timerPair) armExpiration(clock Clock, d time.Duration, fire func()) {
	if p.expiration != nil {
		p.expiration.Stop()
	}
	p.expiration = clock.AfterFunc(d, fire)
}

// rearmInactivity cancels any outstanding inactivity timer and sets a new one.
func (p *timerPair) rearmInactivity(clock Clock, d time.Duration, fire func()) {
	p.stopInactivity()
	p.inactivity = clock.AfterFunc(d, fire)
}

// stopInactivity cancels the inactivity timer if armed.
func (p *timerPair) stopInactivity() {
	if p.inactivity != nil {
		p.inactivity.Stop()
		p.inactivity = nil
	}
}

// stopAll cancels both timers.
func (p *timerPair) stopAll() {
	if p.expiration != nil {
		p.expiration.Stop()
		p.expiration = nil
	}
	p.stopInactivity()
}
