package remap

import (
	"time"
)

// ManualScheduler is virtual time scheduler. Timers fire only inside Advance.
// Not safe for concurrent use, intended for tests and simulation.
type ManualScheduler struct {
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	seq       uint64
	next      time.Duration
	period    time.Duration
	fire      func()
	cancelled bool
}

func (self *manualTimer) Cancel() { self.cancelled = true }

func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

func (self *ManualScheduler) StartPeriodic(initial, period time.Duration, fire func()) Timer {
	self.seq++
	t := &manualTimer{
		seq:    self.seq,
		next:   self.now + initial,
		period: period,
		fire:   fire,
	}
	self.timers = append(self.timers, t)
	return t
}

// Now is virtual time elapsed since scheduler creation.
func (self *ManualScheduler) Now() time.Duration { return self.now }

// Active returns number of not cancelled timers.
func (self *ManualScheduler) Active() int {
	self.prune()
	return len(self.timers)
}

// Advance moves virtual time forward by d, firing due timers in order.
// Callbacks may start or cancel timers.
func (self *ManualScheduler) Advance(d time.Duration) {
	target := self.now + d
	for {
		t := self.due(target)
		if t == nil {
			break
		}
		self.now = t.next
		if t.period > 0 {
			t.next += t.period
		} else {
			t.cancelled = true
		}
		t.fire()
	}
	self.now = target
	self.prune()
}

func (self *ManualScheduler) due(target time.Duration) *manualTimer {
	var found *manualTimer
	for _, t := range self.timers {
		if t.cancelled || t.next > target {
			continue
		}
		if found == nil || t.next < found.next || (t.next == found.next && t.seq < found.seq) {
			found = t
		}
	}
	return found
}

func (self *ManualScheduler) prune() {
	alive := self.timers[:0]
	for _, t := range self.timers {
		if !t.cancelled {
			alive = append(alive, t)
		}
	}
	for i := len(alive); i < len(self.timers); i++ {
		self.timers[i] = nil
	}
	self.timers = alive
}
