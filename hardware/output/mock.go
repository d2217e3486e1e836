package output

import (
	"fmt"
	"sync"

	"github.com/temoto/remapd/internal/remap"
	"github.com/temoto/remapd/log2"
)

type MockEvent struct {
	Key    remap.Key
	Down   bool
	Scroll bool
	DX, DY int32
}

func (self MockEvent) String() string {
	if self.Scroll {
		return fmt.Sprintf("scroll/%d,%d", self.DX, self.DY)
	}
	return remap.KeyEvent{Key: self.Key, Press: self.Down}.String()
}

// Mock records emitted events. Safe for concurrent use.
type Mock struct {
	Log *log2.Log
	Err error

	mu     sync.Mutex
	events []MockEvent
	closed bool
}

func NewMock() *Mock { return &Mock{} }

func (self *Mock) EmitKey(key remap.Key, down bool) error {
	return self.record(MockEvent{Key: key, Down: down})
}

func (self *Mock) EmitScroll(dx, dy int32) error {
	return self.record(MockEvent{Scroll: true, DX: dx, DY: dy})
}

func (self *Mock) record(e MockEvent) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.closed {
		return ErrClosed
	}
	if self.Err != nil {
		return self.Err
	}
	self.events = append(self.events, e)
	self.Log.Infof("output %s", e)
	return nil
}

func (self *Mock) Events() []MockEvent {
	self.mu.Lock()
	defer self.mu.Unlock()
	return append([]MockEvent(nil), self.events...)
}

// Take returns recorded events as strings and forgets them.
func (self *Mock) Take() []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	if len(self.events) == 0 {
		return nil
	}
	ss := make([]string, len(self.events))
	for i, e := range self.events {
		ss[i] = e.String()
	}
	self.events = nil
	return ss
}

func (self *Mock) Close() error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.closed = true
	return nil
}
