package input

import (
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/remapd/helpers"
	"github.com/temoto/remapd/internal/remap"
	"github.com/temoto/remapd/log2"
)

func TestDispatchDoubleSubscribe(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	dstop := make(chan struct{})
	d := NewDispatch(log, dstop)

	nop := func(remap.KeyEvent) {}
	go func() {
		sub1stop := make(chan struct{})
		d.SubscribeFunc("name", nop, sub1stop)
		close(sub1stop)
		sub2stop := make(chan struct{})
		d.SubscribeFunc("name", nop, sub2stop)
		close(dstop)
	}()

	d.Run(nil)
}

type flakySource struct {
	mu      sync.Mutex
	events  []remap.KeyEvent
	fails   int
	reopens int
	closed  bool
}

func (self *flakySource) String() string { return "flaky" }

func (self *flakySource) Read() (remap.KeyEvent, error) {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.fails > 0 {
		self.fails--
		return remap.KeyEvent{}, fmt.Errorf("no such device")
	}
	if len(self.events) == 0 {
		return remap.KeyEvent{}, io.EOF
	}
	ev := self.events[0]
	self.events = self.events[1:]
	return ev, nil
}

func (self *flakySource) Reopen() error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.reopens++
	return nil
}

func (self *flakySource) Close() error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.closed = true
	return nil
}

func TestDispatchReopen(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	stop := make(chan struct{})
	d := NewDispatch(log, stop)
	d.Backoff = helpers.Backoff{Min: time.Millisecond, Max: 4 * time.Millisecond, K: 2}
	src := &flakySource{
		fails:  2,
		events: []remap.KeyEvent{{Key: remap.KeyA, Press: true}, {Key: remap.KeyA}},
	}
	got := make(chan remap.KeyEvent, 4)
	d.SubscribeFunc("test", func(ev remap.KeyEvent) { got <- ev }, stop)
	done := make(chan struct{})
	go func() {
		d.Run([]Source{src})
		close(done)
	}()

	for _, expect := range []string{"a/down", "a/up"} {
		select {
		case ev := <-got:
			assert.Equal(t, expect, ev.String())
		case <-time.After(5 * time.Second):
			t.Fatal("timeout")
		}
	}
	d.Wait()
	close(stop)
	<-done

	src.mu.Lock()
	defer src.mu.Unlock()
	assert.Equal(t, 2, src.reopens)
	assert.True(t, src.closed)
}

func TestDispatchSubscriberStop(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	stop := make(chan struct{})
	d := NewDispatch(log, stop)
	got := make(chan remap.KeyEvent, 4)
	substop := make(chan struct{})
	d.SubscribeFunc("consumer", func(ev remap.KeyEvent) { got <- ev }, substop)
	done := make(chan struct{})
	go func() {
		d.Run(nil)
		close(done)
	}()

	require.True(t, d.Emit(remap.KeyEvent{Key: remap.KeyCapsLock, Press: true}))
	select {
	case ev := <-got:
		require.Equal(t, remap.KeyCapsLock, ev.Key)
		assert.True(t, ev.Press)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout")
	}

	close(substop)
	// unbuffered bus: second Emit returns only after first event was dispatched
	require.True(t, d.Emit(remap.KeyEvent{Key: remap.KeyA, Press: true}))
	require.True(t, d.Emit(remap.KeyEvent{Key: remap.KeyA}))
	assert.Len(t, got, 0)

	close(stop)
	<-done
	assert.False(t, d.Emit(remap.KeyEvent{Key: remap.KeyA}))
}
