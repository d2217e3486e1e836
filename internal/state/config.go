package state

import (
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/remapd/hardware/desktop"
	"github.com/temoto/remapd/hardware/output"
	"github.com/temoto/remapd/helpers"
	"github.com/temoto/remapd/internal/remap"
	"github.com/temoto/remapd/log2"
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Log struct {
		// error|info|debug|all
		Level string `hcl:"level"`
	} `hcl:"log"`

	Input struct {
		// empty: autodetect keyboards
		Devices []string `hcl:"devices"`
		Grab    bool     `hcl:"grab"`
		Queue   int      `hcl:"queue"`
	} `hcl:"input"`

	Output struct {
		Driver string `hcl:"driver"`
		Name   string `hcl:"name"`
	} `hcl:"output"`

	Dual struct {
		Enable *bool `hcl:"enable"`
		// number is evdev code, string is key name, see KeyField
		Key         KeyField `hcl:"key"`
		Tap         KeyField `hcl:"tap"`
		Hold        KeyField `hcl:"hold"`
		ThresholdMs int      `hcl:"threshold_ms"`
	} `hcl:"dual"`

	Combo struct {
		Enable         *bool          `hcl:"enable"`
		Modifier       KeyField       `hcl:"modifier"`
		Directional    string         `hcl:"directional"`
		Repeat         *bool          `hcl:"repeat"`
		RepeatDelayMs  int            `hcl:"repeat_delay_ms"`
		RepeatPeriodMs int            `hcl:"repeat_period_ms"`
		FocusOnScroll  *bool          `hcl:"focus_on_scroll"`
		FocusOnLaunch  *bool          `hcl:"focus_on_launch"`
		LaunchDefaults *bool          `hcl:"launch_defaults"`
		Launch         []LaunchConfig `hcl:"launch"`
	} `hcl:"combo"`

	Launcher struct {
		// exec|mock
		Driver  string `hcl:"driver"`
		Command string `hcl:"command"`
		// robot|none|mock
		Focus string `hcl:"focus"`
	} `hcl:"launcher"`
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

// KeyField keeps HCL number and string apart: `tap = 1` is evdev code 1 (esc),
// `tap = "1"` is digit key 1. Strings also accept "keyN".
type KeyField interface{}

func ParseKeyField(v KeyField) (remap.Key, error) {
	switch x := v.(type) {
	case int:
		return remap.KeyCode(int64(x))
	case int64:
		return remap.KeyCode(x)
	case float64:
		if x != float64(int64(x)) {
			return remap.KeyReserved, errors.NotValidf("key code=%v", x)
		}
		return remap.KeyCode(int64(x))
	case string:
		return remap.ParseKey(x)
	}
	return remap.KeyReserved, errors.NotValidf("key=%#v (expected number or string)", v)
}

type LaunchConfig struct {
	Key string `hcl:"key,key"`
	App string `hcl:"app"`
}

func boolDefault(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func parseKeyDefault(v KeyField, def remap.Key, what string, errs *[]error) remap.Key {
	if v == nil {
		return def
	}
	k, err := ParseKeyField(v)
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config: %s", what))
		return def
	}
	return k
}

// Remap converts config into core settings, applying defaults and validation.
func (c *Config) Remap() (remap.Config, error) {
	r := remap.DefaultConfig()
	errs := make([]error, 0)

	r.DualEnable = boolDefault(c.Dual.Enable, r.DualEnable)
	r.DualKey = parseKeyDefault(c.Dual.Key, r.DualKey, "dual.key", &errs)
	r.TapKey = parseKeyDefault(c.Dual.Tap, r.TapKey, "dual.tap", &errs)
	r.HoldKey = parseKeyDefault(c.Dual.Hold, r.HoldKey, "dual.hold", &errs)
	r.HoldThreshold = helpers.IntMillisecondDefault(c.Dual.ThresholdMs, r.HoldThreshold)

	r.ComboEnable = boolDefault(c.Combo.Enable, r.ComboEnable)
	r.Modifier = parseKeyDefault(c.Combo.Modifier, r.Modifier, "combo.modifier", &errs)
	if mode, err := remap.ParseDirectionalMode(c.Combo.Directional); err != nil {
		errs = append(errs, errors.Annotate(err, "config: combo"))
	} else {
		r.Mode = mode
	}
	r.Repeat = boolDefault(c.Combo.Repeat, r.Repeat)
	r.RepeatDelay = helpers.IntMillisecondDefault(c.Combo.RepeatDelayMs, r.RepeatDelay)
	r.RepeatPeriod = helpers.IntMillisecondDefault(c.Combo.RepeatPeriodMs, r.RepeatPeriod)
	r.FocusOnScroll = boolDefault(c.Combo.FocusOnScroll, r.FocusOnScroll)
	r.FocusOnLaunch = boolDefault(c.Combo.FocusOnLaunch, r.FocusOnLaunch)

	if len(c.Combo.Launch) != 0 || !boolDefault(c.Combo.LaunchDefaults, true) {
		r.Launch = make(map[remap.Key]string, len(c.Combo.Launch))
	}
	for _, l := range c.Combo.Launch {
		runes := []rune(strings.TrimSpace(l.Key))
		var key remap.Key
		ok := len(runes) == 1
		if ok {
			key, ok = remap.LetterKey(runes[0])
		}
		if !ok {
			errs = append(errs, errors.NotValidf("config: combo launch key=%q (expected single letter)", l.Key))
			continue
		}
		r.Launch[key] = l.App
	}

	r.PassThrough = c.Input.Grab

	if len(errs) == 0 {
		if err := r.Validate(); err != nil {
			errs = append(errs, errors.Annotate(err, "config"))
		}
	}
	return r, helpers.FoldErrors(errs)
}

// LogLevel is nil error with ok=false when level is not configured.
func (c *Config) LogLevel() (level log2.Level, ok bool, err error) {
	if c.Log.Level == "" {
		return log2.LInfo, false, nil
	}
	level, ok = log2.ParseLevel(c.Log.Level)
	if !ok {
		return level, false, errors.NotValidf("config: log.level=%s valid: error, info, debug, all", c.Log.Level)
	}
	return level, true, nil
}

func (c *Config) LaunchCommand() string {
	if c.Launcher.Command == "" {
		return desktop.DefaultLaunchCommand()
	}
	return c.Launcher.Command
}

func (c *Config) OutputDriver() string {
	if c.Output.Driver == "" {
		return output.DriverUinput
	}
	return c.Output.Driver
}

func (c *Config) OutputName() string {
	if c.Output.Name == "" {
		return output.DefaultDeviceName
	}
	return c.Output.Name
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		*errs = append(*errs, errors.Errorf("config duplicate source=%s", source.Name))
		return
	}
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func NewConfig() *Config {
	return &Config{includeSeen: make(map[string]struct{})}
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		log.Fatal("code error [Must]ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := NewConfig()
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
