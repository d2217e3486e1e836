package desktop

import (
	"sync"

	"github.com/temoto/remapd/log2"
)

// Mock records launch and focus requests instead of touching desktop.
type Mock struct {
	Log       *log2.Log
	LaunchErr error
	FocusErr  error

	mu      sync.Mutex
	apps    []string
	focused int
}

func NewMock(log *log2.Log) *Mock { return &Mock{Log: log} }

func (self *Mock) Launch(app string) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.apps = append(self.apps, app)
	self.Log.Infof("desktop launch app=%s", app)
	return self.LaunchErr
}

func (self *Mock) FocusFrontmost() error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.focused++
	self.Log.Infof("desktop focus frontmost")
	return self.FocusErr
}

func (self *Mock) Apps() []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	return append([]string(nil), self.apps...)
}

func (self *Mock) Focused() int {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.focused
}
