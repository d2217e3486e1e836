package input

import (
	"expvar"
	"io"
	"os"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/inputevent-go"
	"github.com/temoto/remapd/helpers"
	"github.com/temoto/remapd/internal/remap"
)

const DevInputEventTag = "dev-input-event"

// linux/input-event-codes.h
const evKey = 0x01

// StatBytes counts raw bytes read from all input devices.
var StatBytes = expvar.NewInt("remapd_input_bytes")

// DevInputEventSource reads Linux evdev character device, e.g. /dev/input/event3.
// Only EV_KEY events are passed on. Kernel autorepeat is marked Repeat.
type DevInputEventSource struct {
	path string
	grab bool
	mu   sync.Mutex
	f    io.ReadCloser
	r    io.Reader
}

// compile-time interface compliance test
var _ Reopener = new(DevInputEventSource)

func (self *DevInputEventSource) String() string {
	if self.path == "" {
		return DevInputEventTag
	}
	return DevInputEventTag + ":" + self.path
}

// NewDevInputEventSource opens device. With grab=true other readers
// (X server, console) stop receiving events from it.
func NewDevInputEventSource(path string, grab bool) (*DevInputEventSource, error) {
	self := &DevInputEventSource{path: path, grab: grab}
	if err := self.Reopen(); err != nil {
		return nil, err
	}
	return self, nil
}

// NewReaderSource wraps any stream of raw input_event structs.
func NewReaderSource(r io.ReadCloser) *DevInputEventSource {
	return &DevInputEventSource{f: r, r: helpers.NewStatReader(r, StatBytes, 0)}
}

func (self *DevInputEventSource) Reopen() error {
	if self.path == "" {
		return errors.NotSupportedf("reopen without device path")
	}
	f, err := os.Open(self.path)
	if err != nil {
		return errors.Annotatef(err, "open %s", self.path)
	}
	if self.grab {
		if err := grab(f, true); err != nil {
			f.Close()
			return errors.Annotatef(err, "grab %s", self.path)
		}
	}
	self.mu.Lock()
	old := self.f
	self.f = f
	self.r = helpers.NewStatReader(f, StatBytes, 0)
	self.mu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

func (self *DevInputEventSource) Close() error {
	self.mu.Lock()
	f := self.f
	self.mu.Unlock()
	if f == nil {
		return nil
	}
	// kernel releases grab with last file reference
	return f.Close()
}

func (self *DevInputEventSource) Read() (remap.KeyEvent, error) {
	self.mu.Lock()
	r := self.r
	self.mu.Unlock()
	if r == nil {
		return remap.KeyEvent{}, errors.NotValidf("%s not open", self.String())
	}
	for {
		ie, err := inputevent.ReadOne(r)
		if err != nil {
			return remap.KeyEvent{}, err
		}
		if ie.Type != evKey {
			continue
		}
		ev := remap.KeyEvent{
			Key:    remap.Key(ie.Code),
			Press:  ie.Value != int32(inputevent.KeyStateUp),
			Repeat: ie.Value == int32(inputevent.KeyStateHold),
			Time:   time.Unix(ie.Time.Unix()),
		}
		return ev, nil
	}
}
