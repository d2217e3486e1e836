//go:build !linux

package input

import (
	"os"

	"github.com/juju/errors"
)

func grab(f *os.File, on bool) error {
	return errors.NotSupportedf("input grab on this OS")
}
