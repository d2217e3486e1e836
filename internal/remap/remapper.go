package remap

import (
	"github.com/temoto/remapd/log2"
)

type Deps struct {
	Log       *log2.Log
	Emitter   Emitter
	Launcher  Launcher
	Focuser   Focuser
	Scheduler Scheduler
}

// Remapper owns all interpretation state. Every method must be called
// from single goroutine, normally Loop.Run.
type Remapper struct {
	cfg   Config
	log   *log2.Log
	emit  Emitter
	dual  *DualKey
	combo *Combo

	// combo letters pressed while modifier was held, their release is not passed through
	consumed map[Key]struct{}
}

func NewRemapper(cfg Config, deps Deps) *Remapper {
	self := &Remapper{
		cfg:      cfg,
		log:      deps.Log,
		emit:     deps.Emitter,
		consumed: make(map[Key]struct{}),
	}
	self.dual = NewDualKey(deps.Log, deps.Emitter, cfg.DualKey, cfg.TapKey, cfg.HoldKey, cfg.HoldThreshold)
	self.combo = &Combo{
		Modifier:      cfg.Modifier,
		Mode:          cfg.Mode,
		Repeat:        cfg.Repeat,
		RepeatDelay:   cfg.RepeatDelay,
		RepeatPeriod:  cfg.RepeatPeriod,
		FocusOnScroll: cfg.FocusOnScroll,
		FocusOnLaunch: cfg.FocusOnLaunch,
		Launch:        cfg.Launch,

		log:      deps.Log,
		emit:     deps.Emitter,
		launcher: deps.Launcher,
		focuser:  deps.Focuser,
		sched:    deps.Scheduler,
	}
	return self
}

func (self *Remapper) Config() Config { return self.cfg }
func (self *Remapper) Dual() *DualKey { return self.dual }
func (self *Remapper) Combo() *Combo  { return self.combo }

// Handle classifies one raw key transition and runs matching handlers.
// Combo letter press may notify both combo dispatcher and dual key tracker.
func (self *Remapper) Handle(ev KeyEvent) {
	if ev.Repeat {
		self.passThrough(ev)
		return
	}
	self.log.Debugf("event %s", ev)

	switch {
	case self.cfg.DualEnable && ev.Key == self.cfg.DualKey:
		if ev.Press {
			self.dual.Press(ev.Time)
		} else {
			self.dual.Release(ev.Time)
		}
		return

	case self.cfg.ComboEnable && ev.Key == self.cfg.Modifier:
		if ev.Press {
			self.combo.ModifierPress()
		} else {
			self.combo.ModifierRelease()
		}
		return
	}

	if self.cfg.ComboEnable && self.combo.IsLetter(ev.Key) {
		if ev.Press {
			if self.combo.Held() {
				self.consumed[ev.Key] = struct{}{}
			}
			self.combo.LetterPress(ev.Key)
		} else {
			self.combo.LetterRelease(ev.Key)
		}
	}
	if self.cfg.DualEnable && ev.Press && ev.Key.IsOther() {
		self.dual.OtherKey()
	}
	self.passThrough(ev)
}

func (self *Remapper) passThrough(ev KeyEvent) {
	if !self.cfg.PassThrough {
		return
	}
	if self.cfg.DualEnable && ev.Key == self.cfg.DualKey {
		return
	}
	if self.cfg.ComboEnable && ev.Key == self.cfg.Modifier {
		return
	}
	if _, ok := self.consumed[ev.Key]; ok {
		if !ev.Press {
			delete(self.consumed, ev.Key)
		}
		return
	}
	emitKey(self.log, self.emit, ev.Key, ev.Press)
}

// Close cancels repeat timer and releases synthetic modifier, if asserted.
func (self *Remapper) Close() {
	self.combo.Close()
	self.dual.Reset()
	self.consumed = make(map[Key]struct{})
}
