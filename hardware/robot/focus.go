package robot

import (
	"github.com/go-vgo/robotgo"
	"github.com/juju/errors"
)

// Focuser moves mouse pointer to center of active window,
// so wheel events land there.
type Focuser struct{}

func (Focuser) FocusFrontmost() error {
	pid := int(robotgo.GetPid())
	x, y, w, h := robotgo.GetBounds(pid)
	if w <= 0 || h <= 0 {
		return errors.NotFoundf("active window pid=%d bounds", pid)
	}
	robotgo.Move(x+w/2, y+h/2)
	return nil
}
