// Desktop session automation through robotgo (X11, macOS, Windows).
package robot

import (
	"github.com/go-vgo/robotgo"
	"github.com/juju/errors"
	"github.com/temoto/remapd/internal/remap"
)

// Emitter injects events through desktop session,
// no uinput permission required.
type Emitter struct{}

func NewEmitter() *Emitter { return &Emitter{} }

// compile-time interface compliance test
var (
	_ remap.Emitter = new(Emitter)
	_ remap.Focuser = Focuser{}
)

var keyNames = map[remap.Key]string{
	remap.KeyEsc:        "esc",
	remap.KeyBackspace:  "backspace",
	remap.KeyTab:        "tab",
	remap.KeyEnter:      "enter",
	remap.KeySpace:      "space",
	remap.KeyCapsLock:   "capslock",
	remap.KeyLeftCtrl:   "lctrl",
	remap.KeyRightCtrl:  "rctrl",
	remap.KeyLeftShift:  "lshift",
	remap.KeyRightShift: "rshift",
	remap.KeyLeftAlt:    "lalt",
	remap.KeyRightAlt:   "ralt",
	remap.KeyLeftMeta:   "lcmd",
	remap.KeyRightMeta:  "rcmd",
	remap.KeyUp:         "up",
	remap.KeyDown:       "down",
	remap.KeyLeft:       "left",
	remap.KeyRight:      "right",
}

// KeyName maps evdev code to robotgo key name.
func KeyName(key remap.Key) (string, bool) {
	if name, ok := keyNames[key]; ok {
		return name, true
	}
	if r, ok := key.Letter(); ok {
		return string(r), true
	}
	if key >= remap.Key1 && key <= remap.Key0 {
		return key.String(), true
	}
	return "", false
}

func (self *Emitter) EmitKey(key remap.Key, down bool) error {
	name, ok := KeyName(key)
	if !ok {
		return errors.NotSupportedf("robot key=%s", key)
	}
	state := "up"
	if down {
		state = "down"
	}
	if err := robotgo.KeyToggle(name, state); err != nil {
		return errors.Annotatef(err, "robot key=%s %s", name, state)
	}
	return nil
}

func (self *Emitter) EmitScroll(dx, dy int32) error {
	robotgo.Scroll(int(dx), int(dy))
	return nil
}

func (self *Emitter) Close() error { return nil }
