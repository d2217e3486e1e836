package remap

import (
	"fmt"
	"time"
)

type KeyEvent struct {
	Key   Key
	Press bool
	// OS generated key repeat, only ever passed through
	Repeat bool
	Time   time.Time
}

func (self KeyEvent) String() string {
	state := "up"
	switch {
	case self.Repeat:
		state = "repeat"
	case self.Press:
		state = "down"
	}
	return fmt.Sprintf("%s/%s", self.Key.String(), state)
}

// Collaborators below are fire-and-forget from the core point of view:
// returned errors are logged and never change remapper state.

type Emitter interface {
	EmitKey(key Key, down bool) error
	EmitScroll(dx, dy int32) error
}

type Launcher interface {
	Launch(app string) error
}

type Focuser interface {
	FocusFrontmost() error
}
