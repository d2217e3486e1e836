//go:build !linux

package input

import "github.com/juju/errors"

type Device struct {
	Path string
	Name string
}

func (self Device) String() string { return self.Path + " " + self.Name }

func FindKeyboards(exclude ...string) ([]Device, error) {
	return nil, errors.NotSupportedf("keyboard discovery on this OS")
}
