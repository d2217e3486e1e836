// Interactive simulator: feed key events to remap core with virtual clock,
// print synthetic output and desktop requests. No devices are touched.
package sim

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	prompt "github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/temoto/remapd/cmd/remapd/subcmd"
	"github.com/temoto/remapd/hardware/desktop"
	"github.com/temoto/remapd/hardware/output"
	"github.com/temoto/remapd/helpers/cli"
	"github.com/temoto/remapd/internal/remap"
	"github.com/temoto/remapd/internal/state"
	"github.com/temoto/remapd/log2"
)

const usage = `syntax: commands separated by whitespace
- +KEY   press key (name or code: +capslock +rightalt +58)
- -KEY   release key
- KEY    tap: press then release
- /sN    advance virtual clock N milliseconds
- /close release everything, like on daemon stop
`

var Mod = subcmd.Mod{Name: "sim", Usage: "simulate key events interactively", Main: Main}

func Main(ctx context.Context, config *state.Config) error {
	g := state.GetGlobal(ctx)
	g.MustInit(ctx, config)

	s := NewSim(log2.FromContext(ctx), g.Remap)
	fmt.Print(usage)
	cli.MainLoop("remapd-sim", func(line string) {
		out, err := s.Exec(line)
		for _, o := range out {
			fmt.Println(o)
		}
		if err != nil {
			fmt.Printf("error: %v\n%s", err, usage)
		}
	}, newCompleter())
	return nil
}

type Sim struct {
	Sched    *remap.ManualScheduler
	Output   *output.Mock
	Desktop  *desktop.Mock
	remapper *remap.Remapper
	base     time.Time
	apps     int
	focused  int
}

func NewSim(log *log2.Log, cfg remap.Config) *Sim {
	self := &Sim{
		Sched:   remap.NewManualScheduler(),
		Output:  output.NewMock(),
		Desktop: desktop.NewMock(log),
		base:    time.Now(),
	}
	self.remapper = remap.NewRemapper(cfg, remap.Deps{
		Log:       log,
		Emitter:   self.Output,
		Launcher:  self.Desktop,
		Focuser:   self.Desktop,
		Scheduler: self.Sched,
	})
	return self
}

type step struct {
	key     remap.Key
	press   bool
	tap     bool
	advance time.Duration
	close   bool
}

func parseLine(line string) ([]step, error) {
	words := strings.Fields(line)
	steps := make([]step, 0, len(words))
	for _, word := range words {
		switch {
		case word == "/close":
			steps = append(steps, step{close: true})

		case strings.HasPrefix(word, "/s"):
			ms, err := strconv.ParseUint(word[2:], 10, 32)
			if err != nil {
				return nil, errors.NotValidf("word=%s", word)
			}
			steps = append(steps, step{advance: time.Duration(ms) * time.Millisecond})

		case strings.HasPrefix(word, "+"), strings.HasPrefix(word, "-"):
			key, err := remap.ParseKey(word[1:])
			if err != nil {
				return nil, errors.Annotatef(err, "word=%s", word)
			}
			steps = append(steps, step{key: key, press: word[0] == '+'})

		default:
			key, err := remap.ParseKey(word)
			if err != nil {
				return nil, errors.Annotatef(err, "word=%s", word)
			}
			steps = append(steps, step{key: key, tap: true})
		}
	}
	return steps, nil
}

// Exec runs whole line or nothing if it does not parse.
func (self *Sim) Exec(line string) ([]string, error) {
	steps, err := parseLine(line)
	if err != nil {
		return nil, err
	}
	for _, s := range steps {
		switch {
		case s.close:
			self.remapper.Close()
		case s.advance != 0:
			self.Sched.Advance(s.advance)
		case s.tap:
			self.handle(s.key, true)
			self.handle(s.key, false)
		default:
			self.handle(s.key, s.press)
		}
	}
	return self.report(), nil
}

func (self *Sim) handle(key remap.Key, press bool) {
	self.remapper.Handle(remap.KeyEvent{
		Key:   key,
		Press: press,
		Time:  self.base.Add(self.Sched.Now()),
	})
}

func (self *Sim) report() []string {
	out := self.Output.Take()
	apps := self.Desktop.Apps()
	for _, app := range apps[self.apps:] {
		out = append(out, "launch "+app)
	}
	self.apps = len(apps)
	if f := self.Desktop.Focused(); f != self.focused {
		out = append(out, fmt.Sprintf("focus x%d", f-self.focused))
		self.focused = f
	}
	return out
}

func newCompleter() func(d prompt.Document) []prompt.Suggest {
	suggests := []prompt.Suggest{
		{Text: "/s", Description: "advance clock, ms"},
		{Text: "/close", Description: "release everything"},
		{Text: "+capslock", Description: "press dual key"},
		{Text: "-capslock", Description: "release dual key"},
		{Text: "+rightalt", Description: "press combo modifier"},
		{Text: "-rightalt", Description: "release combo modifier"},
	}
	return func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), false)
	}
}
