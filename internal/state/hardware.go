package state

import (
	"io"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/juju/errors"
	"github.com/temoto/remapd/hardware/desktop"
	"github.com/temoto/remapd/hardware/input"
	"github.com/temoto/remapd/hardware/output"
	"github.com/temoto/remapd/internal/remap"
	"github.com/temoto/remapd/log2"
)

const (
	LauncherExec = "exec"
	LauncherMock = "mock"

	FocusNone = "none"
	FocusMock = "mock"
)

type OutputFunc func(g *Global) (output.Emitter, error)
type FocusFunc func(g *Global) (remap.Focuser, error)

var drivers = struct {
	sync.Mutex
	output map[string]OutputFunc
	focus  map[string]FocusFunc
}{
	output: map[string]OutputFunc{
		output.DriverUinput: func(g *Global) (output.Emitter, error) {
			return output.New(g.Log, output.DriverUinput, g.Config.OutputName())
		},
		output.DriverMock: func(g *Global) (output.Emitter, error) {
			return output.New(g.Log, output.DriverMock, "")
		},
	},
	focus: map[string]FocusFunc{
		FocusNone: func(*Global) (remap.Focuser, error) { return nil, nil },
		FocusMock: func(g *Global) (remap.Focuser, error) { return desktop.NewMock(g.Log), nil },
	},
}

// RegisterOutput makes output driver available to output.driver config.
// Drivers with heavy dependencies (desktop session) register from main.
func RegisterOutput(name string, f OutputFunc) {
	drivers.Lock()
	drivers.output[name] = f
	drivers.Unlock()
}

func RegisterFocus(name string, f FocusFunc) {
	drivers.Lock()
	drivers.focus[name] = f
	drivers.Unlock()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type hardware struct {
	Input *input.Dispatch
	// nil means input.NewDevInputEventSource, set in tests
	OpenSource func(path string, grab bool) (input.Source, error)
	Output     struct {
		once
		Emitter output.Emitter
	}
	Launcher struct {
		once
		Launcher remap.Launcher
	}
	Focuser struct {
		once
		Focuser remap.Focuser
	}
}

func (g *Global) Output() (output.Emitter, error) {
	x := &g.Hardware.Output // short alias
	_ = x.do(func() error {
		if x.Emitter != nil { // testing mode
			return nil
		}
		name := g.Config.OutputDriver()
		drivers.Lock()
		f, ok := drivers.output[name]
		valid := sortedKeys(drivers.output)
		drivers.Unlock()
		if !ok {
			return errors.NotValidf("config: output.driver=%s valid: %v", name, valid)
		}
		x.Emitter, x.err = f(g)
		return x.err
	})
	return x.Emitter, x.err
}

func (g *Global) Launcher() (remap.Launcher, error) {
	x := &g.Hardware.Launcher
	_ = x.do(func() error {
		if x.Launcher != nil {
			return nil
		}
		switch d := g.Config.Launcher.Driver; d {
		case "", LauncherExec:
			l, err := desktop.NewExecLauncher(g.Log, g.Config.LaunchCommand())
			if err != nil {
				return errors.Annotatef(err, "config: launcher.command=%q", g.Config.LaunchCommand())
			}
			x.Launcher = l
		case LauncherMock:
			x.Launcher = desktop.NewMock(g.Log)
		default:
			return errors.NotValidf("config: launcher.driver=%s valid: exec, mock", d)
		}
		return nil
	})
	return x.Launcher, x.err
}

// Focuser may return nil,nil when focus is disabled.
func (g *Global) Focuser() (remap.Focuser, error) {
	x := &g.Hardware.Focuser
	_ = x.do(func() error {
		if x.Focuser != nil {
			return nil
		}
		name := g.Config.Launcher.Focus
		if name == "" {
			name = FocusNone
		}
		drivers.Lock()
		f, ok := drivers.focus[name]
		valid := sortedKeys(drivers.focus)
		drivers.Unlock()
		if !ok {
			return errors.NotValidf("config: launcher.focus=%s valid: %v", name, valid)
		}
		x.Focuser, x.err = f(g)
		return x.err
	})
	return x.Focuser, x.err
}

// NewRemapper assembles core with configured collaborators.
func (g *Global) NewRemapper(sched remap.Scheduler) (*remap.Remapper, error) {
	emit, err := g.Output()
	if err != nil {
		return nil, errors.Annotate(err, "output")
	}
	launcher, err := g.Launcher()
	if err != nil {
		return nil, errors.Annotate(err, "launcher")
	}
	focuser, err := g.Focuser()
	if err != nil {
		return nil, errors.Annotate(err, "focus")
	}
	return remap.NewRemapper(g.Remap, remap.Deps{
		Log:       g.Log,
		Emitter:   emit,
		Launcher:  launcher,
		Focuser:   focuser,
		Scheduler: sched,
	}), nil
}

// InputSources opens configured devices or autodetected keyboards.
func (g *Global) InputSources() ([]input.Source, error) {
	paths := g.Config.Input.Devices
	if len(paths) == 0 {
		devs, err := input.FindKeyboards(g.Config.OutputName())
		if err != nil {
			return nil, err
		}
		for _, d := range devs {
			g.Log.Infof("input keyboard found %s", d.String())
			paths = append(paths, d.Path)
		}
	}
	if len(paths) == 0 {
		return nil, errors.NotFoundf("config: input.devices empty and no keyboard found")
	}

	open := g.Hardware.OpenSource
	if open == nil {
		open = func(path string, grab bool) (input.Source, error) {
			return input.NewDevInputEventSource(path, grab)
		}
	}
	sources := make([]input.Source, 0, len(paths))
	for _, p := range paths {
		src, err := open(p, g.Config.Input.Grab)
		if err != nil {
			// release grab on already opened devices
			CloseSources(g.Log, sources)
			return nil, errors.Annotatef(err, "input device=%s", p)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func CloseSources(log *log2.Log, sources []input.Source) {
	for _, s := range sources {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				log.Errorf("input source=%s close err=%v", s, err)
			}
		}
	}
}

// InitInput starts reading sources into g.Hardware.Input until Alive stops.
func (g *Global) InitInput(sources []input.Source) *input.Dispatch {
	g.Hardware.Input = input.NewDispatch(g.Log, g.Alive.StopChan())
	go g.Hardware.Input.Run(sources)
	return g.Hardware.Input
}

func (g *Global) InputQueue() int {
	if g.Config.Input.Queue <= 0 {
		return 64
	}
	return g.Config.Input.Queue
}

type once struct {
	sync.Mutex
	called uint32 // atomic bool
	err    error
}

func (o *once) done() bool {
	return atomic.LoadUint32(&o.called) == 1
}

func (o *once) do(f func() error) error {
	if o.done() { // fast path
		return o.err
	}
	o.Lock()
	defer o.Unlock()
	if o.done() {
		return o.err
	}
	o.err = f()
	atomic.StoreUint32(&o.called, 1)
	return o.err
}
