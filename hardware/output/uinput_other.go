//go:build !linux

package output

import (
	"github.com/juju/errors"
	"github.com/temoto/remapd/internal/remap"
)

type Uinput struct{}

func NewUinput(name string) (*Uinput, error) {
	return nil, errors.NotSupportedf("uinput on this OS")
}

func (self *Uinput) EmitKey(key remap.Key, down bool) error { return errors.NotSupportedf("uinput") }
func (self *Uinput) EmitScroll(dx, dy int32) error          { return errors.NotSupportedf("uinput") }
func (self *Uinput) Close() error                           { return nil }
