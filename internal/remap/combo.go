package remap

import (
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/remapd/log2"
)

type Direction uint8

const (
	DirLeft Direction = iota
	DirDown
	DirUp
	DirRight
	dirCount
)

// Fixed vi-style direction letters.
var DirectionKeys = map[Key]Direction{
	KeyH: DirLeft,
	KeyJ: DirDown,
	KeyK: DirUp,
	KeyL: DirRight,
}

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirDown:
		return "down"
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	}
	return "direction?"
}

// Scroll returns one wheel unit in direction, positive dy is up.
func (d Direction) Scroll() (dx, dy int32) {
	switch d {
	case DirLeft:
		return -1, 0
	case DirDown:
		return 0, -1
	case DirUp:
		return 0, 1
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) Arrow() Key {
	switch d {
	case DirLeft:
		return KeyLeft
	case DirDown:
		return KeyDown
	case DirUp:
		return KeyUp
	case DirRight:
		return KeyRight
	}
	return KeyReserved
}

type DirectionalMode uint8

const (
	ModeScroll DirectionalMode = iota
	ModeArrow
)

func (m DirectionalMode) String() string {
	if m == ModeArrow {
		return "arrow"
	}
	return "scroll"
}

func ParseDirectionalMode(s string) (DirectionalMode, error) {
	switch strings.ToLower(s) {
	case "", "scroll":
		return ModeScroll, nil
	case "arrow":
		return ModeArrow, nil
	}
	return ModeScroll, errors.NotValidf("directional=%q (expected scroll|arrow)", s)
}

// Combo is modifier + letter dispatcher: one-shot launches and
// directional actions repeated by timer while direction key is held.
type Combo struct {
	Modifier      Key
	Mode          DirectionalMode
	Repeat        bool
	RepeatDelay   time.Duration
	RepeatPeriod  time.Duration
	FocusOnScroll bool
	FocusOnLaunch bool
	Launch        map[Key]string

	log      *log2.Log
	emit     Emitter
	launcher Launcher
	focuser  Focuser
	sched    Scheduler

	held   bool
	active [dirCount]bool
	timer  Timer
	gen    uint64
}

func (self *Combo) Held() bool              { return self.held }
func (self *Combo) Active(d Direction) bool { return d < dirCount && self.active[d] }
func (self *Combo) TimerActive() bool       { return self.timer != nil }

func (self *Combo) anyActive() bool {
	for _, a := range self.active {
		if a {
			return true
		}
	}
	return false
}

// IsLetter reports whether key takes part in combos.
func (self *Combo) IsLetter(key Key) bool {
	if _, ok := DirectionKeys[key]; ok {
		return true
	}
	_, ok := self.Launch[key]
	return ok
}

func (self *Combo) ModifierPress() {
	self.held = true
}

// ModifierRelease is unconditional reset of directional state.
func (self *Combo) ModifierRelease() {
	self.held = false
	if self.anyActive() || self.timer != nil {
		self.log.Debugf("combo %s release, reset directions", self.Modifier)
	}
	self.active = [dirCount]bool{}
	self.stopRepeat()
}

func (self *Combo) LetterPress(key Key) {
	if !self.held {
		return
	}
	if app, ok := self.Launch[key]; ok {
		self.launch(key, app)
		return
	}
	d, ok := DirectionKeys[key]
	if !ok || self.active[d] {
		return
	}
	self.active[d] = true
	self.log.Debugf("combo %s start", d)
	if self.Mode == ModeScroll && self.FocusOnScroll {
		self.focus()
	}
	self.act(d)
	if self.Repeat && self.timer == nil {
		self.startRepeat()
	}
}

// LetterRelease works regardless of modifier state, so late direction release still cleans up.
func (self *Combo) LetterRelease(key Key) {
	d, ok := DirectionKeys[key]
	if !ok {
		return
	}
	if self.active[d] {
		self.log.Debugf("combo %s stop", d)
	}
	self.active[d] = false
	if !self.anyActive() {
		self.stopRepeat()
	}
}

// Close cancels repeat timer and clears all state.
func (self *Combo) Close() {
	self.held = false
	self.active = [dirCount]bool{}
	self.stopRepeat()
}

func (self *Combo) launch(key Key, app string) {
	self.log.Debugf("combo %s launch app=%s", key, app)
	if self.launcher == nil {
		self.log.Errorf("launch app=%s: launcher not configured", app)
	} else if err := self.launcher.Launch(app); err != nil {
		self.log.Errorf("launch app=%s err=%v", app, err)
	}
	if self.FocusOnLaunch {
		self.focus()
	}
}

func (self *Combo) focus() {
	if self.focuser == nil {
		return
	}
	if err := self.focuser.FocusFrontmost(); err != nil {
		self.log.Errorf("focus frontmost window err=%v", err)
	}
}

func (self *Combo) act(d Direction) {
	switch self.Mode {
	case ModeArrow:
		k := d.Arrow()
		emitKey(self.log, self.emit, k, true)
		emitKey(self.log, self.emit, k, false)
	default:
		dx, dy := d.Scroll()
		emitScroll(self.log, self.emit, dx, dy)
	}
}

func (self *Combo) startRepeat() {
	if self.sched == nil {
		self.log.Errorf("combo repeat: scheduler not configured")
		return
	}
	self.gen++
	gen := self.gen
	self.log.Debugf("combo repeat start gen=%d", gen)
	self.timer = self.sched.StartPeriodic(self.RepeatDelay, self.RepeatPeriod, func() { self.tick(gen) })
}

func (self *Combo) stopRepeat() {
	if self.timer == nil {
		return
	}
	self.log.Debugf("combo repeat stop gen=%d", self.gen)
	self.timer.Cancel()
	self.timer = nil
	// invalidate ticks already queued for cancelled timer
	self.gen++
}

func (self *Combo) tick(gen uint64) {
	if gen != self.gen || self.timer == nil {
		return
	}
	for d := Direction(0); d < dirCount; d++ {
		if self.active[d] {
			self.act(d)
		}
	}
}
