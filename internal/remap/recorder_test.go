package remap

import (
	"fmt"
	"time"
)

type recorder struct {
	events []string
	err    error
}

func (self *recorder) EmitKey(key Key, down bool) error {
	self.events = append(self.events, KeyEvent{Key: key, Press: down}.String())
	return self.err
}

func (self *recorder) EmitScroll(dx, dy int32) error {
	self.events = append(self.events, fmt.Sprintf("scroll/%d,%d", dx, dy))
	return self.err
}

func (self *recorder) take() []string {
	e := self.events
	self.events = nil
	return e
}

var epoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func ms(n int) time.Time { return epoch.Add(time.Duration(n) * time.Millisecond) }
