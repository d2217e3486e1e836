package output

import "github.com/juju/errors"

var ErrClosed = errors.New("output closed")
