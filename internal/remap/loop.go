package remap

import (
	"context"
	"time"

	"github.com/temoto/remapd/helpers/atomic_clock"
	"github.com/temoto/remapd/log2"
)

type Handler interface {
	Handle(KeyEvent)
	Close()
}

// Loop serializes key events and timer callbacks into one goroutine.
type Loop struct {
	log    *log2.Log
	inner  Scheduler
	events chan KeyEvent
	fires  chan func()
	done   chan struct{}
	last   atomic_clock.Clock
}

func NewLoop(log *log2.Log, inner Scheduler, queue int) *Loop {
	return &Loop{
		log:    log,
		inner:  inner,
		events: make(chan KeyEvent, queue),
		fires:  make(chan func(), 1),
		done:   make(chan struct{}),
	}
}

// Scheduler returns scheduler whose callbacks run inside Run goroutine.
func (self *Loop) Scheduler() Scheduler { return loopScheduler{self} }

// Post queues event for Run. Blocks while queue is full.
// Returns false when loop is finished.
func (self *Loop) Post(ev KeyEvent) bool {
	select {
	case <-self.done:
		return false
	default:
	}
	select {
	case self.events <- ev:
		return true
	case <-self.done:
		return false
	}
}

func (self *Loop) Done() <-chan struct{} { return self.done }

// LastActivity is time of last handled key event, zero if none.
func (self *Loop) LastActivity() time.Time {
	if self.last.IsZero() {
		return time.Time{}
	}
	return self.last.Time()
}

// Run handles events until ctx is done, then calls h.Close() on the same goroutine.
func (self *Loop) Run(ctx context.Context, h Handler) {
	defer close(self.done)
	defer h.Close()

	for {
		select {
		case <-ctx.Done():
			self.log.Debugf("loop stop: %v", ctx.Err())
			return
		case ev := <-self.events:
			self.last.SetNow()
			h.Handle(ev)
		case f := <-self.fires:
			f()
		}
	}
}

type loopScheduler struct{ l *Loop }

func (self loopScheduler) StartPeriodic(initial, period time.Duration, fire func()) Timer {
	l := self.l
	return l.inner.StartPeriodic(initial, period, func() {
		select {
		case l.fires <- fire:
		case <-l.done:
		}
	})
}
