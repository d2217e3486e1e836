// Key event sources and fan-in dispatch.
package input

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/remapd/helpers"
	"github.com/temoto/remapd/internal/remap"
	"github.com/temoto/remapd/log2"
)

func drain(ch <-chan remap.KeyEvent) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

type Source interface {
	Read() (remap.KeyEvent, error)
	String() string
}

// Reopener is Source able to recover after read error, e.g. keyboard unplugged.
type Reopener interface {
	Source
	Reopen() error
}

type EventFunc func(remap.KeyEvent)
type sub struct {
	name string
	fun  EventFunc
	stop <-chan struct{}
}

type Dispatch struct {
	Log     *log2.Log
	Backoff helpers.Backoff
	bus     chan remap.KeyEvent
	mu      sync.Mutex
	subs    map[string]*sub
	stop    <-chan struct{}
	wg      sync.WaitGroup
}

func NewDispatch(log *log2.Log, stop <-chan struct{}) *Dispatch {
	return &Dispatch{
		Log:     log,
		Backoff: helpers.Backoff{Min: 100 * time.Millisecond, Max: 5 * time.Second, K: 2},
		bus:     make(chan remap.KeyEvent),
		subs:    make(map[string]*sub, 16),
		stop:    stop,
	}
}

func (self *Dispatch) SubscribeFunc(name string, fun EventFunc, substop <-chan struct{}) {
	sub := &sub{
		name: name,
		fun:  fun,
		stop: substop,
	}
	self.safeSubscribe(sub)
}

// Run reads all sources until stop, then closes sources implementing io.Closer.
func (self *Dispatch) Run(sources []Source) {
	for _, source := range sources {
		self.wg.Add(1)
		go self.readSource(source)
	}

	for {
		select {
		case event := <-self.bus:
			handled := false
			self.mu.Lock()
			for _, sub := range self.subs {
				self.subFire(sub, event)
				handled = true
			}
			self.mu.Unlock()
			if !handled {
				self.Log.Debugf("input is not handled event=%s", event)
			}

		case <-self.stop:
			for _, source := range sources {
				if c, ok := source.(io.Closer); ok {
					if err := c.Close(); err != nil {
						self.Log.Errorf("input source=%s close err=%v", source, err)
					}
				}
			}
			drain(self.bus)
			return
		}
	}
}

// Wait blocks until all source readers returned.
func (self *Dispatch) Wait() { self.wg.Wait() }

func (self *Dispatch) Emit(event remap.KeyEvent) bool {
	select {
	case self.bus <- event:
		return true
	case <-self.stop:
		return false
	}
}

func (self *Dispatch) subFire(sub *sub, event remap.KeyEvent) {
	select {
	case <-sub.stop:
		self.subClose(sub)
		return
	default:
	}

	if sub.fun == nil {
		panic(fmt.Sprintf("input sub=%s fun=nil", sub.name))
	}
	sub.fun(event)
}

func (self *Dispatch) subClose(s *sub) {
	delete(self.subs, s.name)
}

func (self *Dispatch) safeSubscribe(s *sub) {
	self.mu.Lock()
	if existing, ok := self.subs[s.name]; ok {
		select {
		case <-s.stop:
			panic("code error input subscribe already closed name=" + s.name)
		case <-existing.stop:
			self.subClose(existing)
		default:
			panic("code error input duplicate subscribe name=" + s.name)
		}
	}
	self.subs[s.name] = s
	self.mu.Unlock()
}

func (self *Dispatch) stopped() bool {
	select {
	case <-self.stop:
		return true
	default:
		return false
	}
}

func (self *Dispatch) readSource(source Source) {
	defer self.wg.Done()
	tag := source.String()
	for {
		event, err := source.Read()
		if err != nil {
			if self.stopped() {
				return
			}
			if errors.Cause(err) == io.EOF {
				self.Log.Infof("input source=%s end of stream", tag)
				return
			}
			err = errors.Annotatef(err, "input source=%s", tag)
			ro, ok := source.(Reopener)
			if !ok {
				self.Log.Error(errors.ErrorStack(err))
				return
			}
			self.Log.Errorf("%v, reopening", err)
			if !self.reopen(ro) {
				return
			}
			continue
		}
		if !self.Emit(event) {
			return
		}
	}
}

func (self *Dispatch) reopen(source Reopener) bool {
	b := self.Backoff
	for {
		b.Failure()
		select {
		case <-self.stop:
			return false
		case <-time.After(b.DelayBefore()):
		}
		err := source.Reopen()
		if err == nil {
			self.Log.Infof("input source=%s reopened", source)
			return true
		}
		self.Log.Debugf("input source=%s reopen err=%v", source, err)
	}
}
