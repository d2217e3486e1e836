package remap

import (
	"time"

	"github.com/temoto/remapd/log2"
)

// DualKey is tap-vs-hold tracker for one physical key.
// Quick tap emits Tap key, holding it while any other key is pressed
// acts as Hold modifier. Long hold without other keys emits nothing.
type DualKey struct {
	Key       Key
	Tap       Key
	Hold      Key
	Threshold time.Duration

	log  *log2.Log
	emit Emitter

	pressAt time.Time
	held    bool
	fired   bool
}

func NewDualKey(log *log2.Log, emit Emitter, key, tap, hold Key, threshold time.Duration) *DualKey {
	return &DualKey{
		Key:       key,
		Tap:       tap,
		Hold:      hold,
		Threshold: threshold,
		log:       log,
		emit:      emit,
	}
}

func (self *DualKey) Held() bool       { return self.held }
func (self *DualKey) ComboFired() bool { return self.fired }

func (self *DualKey) Press(at time.Time) {
	if self.held {
		// already Held, keep original press time
		return
	}
	self.held = true
	self.fired = false
	self.pressAt = at
}

func (self *DualKey) OtherKey() {
	if !self.held || self.fired {
		return
	}
	self.fired = true
	self.log.Debugf("dual %s hold, %s down", self.Key, self.Hold)
	emitKey(self.log, self.emit, self.Hold, true)
}

func (self *DualKey) Release(at time.Time) {
	if !self.held {
		return
	}
	elapsed := at.Sub(self.pressAt)
	switch {
	case self.fired:
		self.log.Debugf("dual %s release, %s up", self.Key, self.Hold)
		emitKey(self.log, self.emit, self.Hold, false)
	case elapsed < self.Threshold:
		self.log.Debugf("dual %s tap elapsed=%s", self.Key, elapsed)
		emitKey(self.log, self.emit, self.Tap, true)
		emitKey(self.log, self.emit, self.Tap, false)
	default:
		self.log.Debugf("dual %s long hold elapsed=%s, no output", self.Key, elapsed)
	}
	self.reset()
}

// Reset returns tracker to Idle, releasing Hold modifier if it was asserted.
func (self *DualKey) Reset() {
	if self.held && self.fired {
		self.log.Debugf("dual %s reset, %s up", self.Key, self.Hold)
		emitKey(self.log, self.emit, self.Hold, false)
	}
	self.reset()
}

func (self *DualKey) reset() {
	self.held = false
	self.fired = false
	self.pressAt = time.Time{}
}

func emitKey(log *log2.Log, emit Emitter, key Key, down bool) {
	if emit == nil {
		log.Errorf("emit key=%s down=%t: emitter not ready", key, down)
		return
	}
	if err := emit.EmitKey(key, down); err != nil {
		log.Errorf("emit key=%s down=%t err=%v", key, down, err)
	}
}

func emitScroll(log *log2.Log, emit Emitter, dx, dy int32) {
	if emit == nil {
		log.Errorf("emit scroll=%d,%d: emitter not ready", dx, dy)
		return
	}
	if err := emit.EmitScroll(dx, dy); err != nil {
		log.Errorf("emit scroll=%d,%d err=%v", dx, dy, err)
	}
}
