package output

import (
	"sync"

	evdev "github.com/holoplot/go-evdev"
	"github.com/juju/errors"
	"github.com/temoto/remapd/internal/remap"
)

// Uinput is virtual keyboard+wheel device created via /dev/uinput.
// Needs write access to /dev/uinput (root or uinput group).
type Uinput struct {
	mu     sync.Mutex
	dev    *evdev.InputDevice
	closed bool
}

var uinputID = evdev.InputID{
	BusType: 0x03, // BUS_USB
	Vendor:  0x1209,
	Product: 0x5243,
	Version: 1,
}

// Every evdev key code is advertised so pass-through and configured
// tap/hold keys (validated against remap.KeyMax) can always be emitted.
// Pointer buttons within that range plus axes make desktop input stacks accept wheel events.
func uinputCapabilities() map[evdev.EvType][]evdev.EvCode {
	keys := make([]evdev.EvCode, 0, int(remap.KeyMax))
	for c := remap.Key(1); c <= remap.KeyMax; c++ {
		keys = append(keys, evdev.EvCode(c))
	}
	return map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: keys,
		evdev.EV_REL: {evdev.REL_X, evdev.REL_Y, evdev.REL_WHEEL, evdev.REL_HWHEEL},
	}
}

func NewUinput(name string) (*Uinput, error) {
	dev, err := evdev.CreateDevice(name, uinputID, uinputCapabilities())
	if err != nil {
		return nil, errors.Annotatef(err, "uinput create name=%s", name)
	}
	return &Uinput{dev: dev}, nil
}

func (self *Uinput) EmitKey(key remap.Key, down bool) error {
	var value int32
	if down {
		value = 1
	}
	return self.write(
		evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.EvCode(key), Value: value},
	)
}

func (self *Uinput) EmitScroll(dx, dy int32) error {
	events := make([]evdev.InputEvent, 0, 2)
	if dx != 0 {
		events = append(events, evdev.InputEvent{Type: evdev.EV_REL, Code: evdev.REL_HWHEEL, Value: dx})
	}
	if dy != 0 {
		events = append(events, evdev.InputEvent{Type: evdev.EV_REL, Code: evdev.REL_WHEEL, Value: dy})
	}
	if len(events) == 0 {
		return nil
	}
	return self.write(events...)
}

// write sends events as one frame terminated by SYN_REPORT.
func (self *Uinput) write(events ...evdev.InputEvent) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.closed {
		return ErrClosed
	}
	events = append(events, evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT})
	for i := range events {
		if err := self.dev.WriteOne(&events[i]); err != nil {
			return errors.Annotatef(err, "uinput write type=%d code=%d", events[i].Type, events[i].Code)
		}
	}
	return nil
}

func (self *Uinput) Close() error {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.closed {
		return nil
	}
	self.closed = true
	return self.dev.Close()
}
