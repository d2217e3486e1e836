// Synthetic input event emitters.
package output

import (
	"io"

	"github.com/juju/errors"
	"github.com/temoto/remapd/internal/remap"
	"github.com/temoto/remapd/log2"
)

const (
	DriverUinput = "uinput"
	DriverMock   = "mock"
)

const DefaultDeviceName = "remapd virtual keyboard"

type Emitter interface {
	remap.Emitter
	io.Closer
}

// compile-time interface compliance test
var (
	_ Emitter = new(Mock)
	_ Emitter = new(Uinput)
)

// New creates emitter by driver name. name is uinput device name.
// Desktop session driver lives in hardware/robot.
func New(log *log2.Log, driver, name string) (Emitter, error) {
	switch driver {
	case "", DriverUinput:
		if name == "" {
			name = DefaultDeviceName
		}
		u, err := NewUinput(name)
		if err != nil {
			return nil, errors.Annotatef(err, "output driver=%s", DriverUinput)
		}
		return u, nil
	case DriverMock:
		m := NewMock()
		m.Log = log
		return m, nil
	}
	return nil, errors.NotValidf("output driver=%s", driver)
}
