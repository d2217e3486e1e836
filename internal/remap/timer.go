package remap

import (
	"sync"
	"time"
)

// Timer is a handle of started periodic task. Cancel is idempotent.
type Timer interface {
	Cancel()
}

type Scheduler interface {
	// StartPeriodic calls fire after initial delay, then every period until cancelled.
	// period <= 0 means fire once.
	StartPeriodic(initial, period time.Duration, fire func()) Timer
}

// ClockScheduler runs timers on wall clock, one goroutine per timer.
// fire is called from that goroutine; wrap with Loop.Scheduler() to run it on loop.
type ClockScheduler struct{}

type clockTimer struct {
	once sync.Once
	stop chan struct{}
}

func (self *clockTimer) Cancel() { self.once.Do(func() { close(self.stop) }) }

func (ClockScheduler) StartPeriodic(initial, period time.Duration, fire func()) Timer {
	t := &clockTimer{stop: make(chan struct{})}
	go t.run(initial, period, fire)
	return t
}

func (self *clockTimer) run(initial, period time.Duration, fire func()) {
	tmr := time.NewTimer(initial)
	defer tmr.Stop()
	select {
	case <-self.stop:
		return
	case <-tmr.C:
	}
	fire()
	if period <= 0 {
		return
	}

	tick := time.NewTicker(period)
	defer tick.Stop()
	for {
		select {
		case <-self.stop:
			return
		case <-tick.C:
			select {
			case <-self.stop:
				return
			default:
			}
			fire()
		}
	}
}
