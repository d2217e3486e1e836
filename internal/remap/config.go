package remap

import (
	"time"

	"github.com/juju/errors"
	"github.com/temoto/remapd/helpers"
)

const (
	DefaultHoldThreshold = 500 * time.Millisecond
	DefaultRepeatDelay   = 100 * time.Millisecond
	DefaultRepeatPeriod  = 50 * time.Millisecond
)

type Config struct {
	DualEnable    bool
	DualKey       Key
	TapKey        Key
	HoldKey       Key
	HoldThreshold time.Duration

	ComboEnable   bool
	Modifier      Key
	Mode          DirectionalMode
	Repeat        bool
	RepeatDelay   time.Duration
	RepeatPeriod  time.Duration
	FocusOnScroll bool
	FocusOnLaunch bool
	Launch        map[Key]string

	// Re-emit raw events not consumed by remapper, required when input is grabbed.
	PassThrough bool
}

func DefaultLaunch() map[Key]string {
	return map[Key]string{
		KeyS: "Safari",
		KeyN: "Notes",
		KeyR: "Reminders",
		KeyM: "Music",
		KeyT: "Terminal",
		KeyX: "Xcode",
	}
}

func DefaultConfig() Config {
	return Config{
		DualEnable:    true,
		DualKey:       KeyCapsLock,
		TapKey:        KeyEsc,
		HoldKey:       KeyLeftCtrl,
		HoldThreshold: DefaultHoldThreshold,

		ComboEnable:   true,
		Modifier:      KeyRightAlt,
		Mode:          ModeScroll,
		Repeat:        true,
		RepeatDelay:   DefaultRepeatDelay,
		RepeatPeriod:  DefaultRepeatPeriod,
		FocusOnScroll: true,
		FocusOnLaunch: true,
		Launch:        DefaultLaunch(),
	}
}

func (self *Config) Validate() error {
	errs := make([]error, 0)
	if self.DualEnable {
		if !validCode(self.DualKey) || !validCode(self.TapKey) || !validCode(self.HoldKey) {
			errs = append(errs, errors.NotValidf("dual key=%d tap=%d hold=%d (expected 1..%d)", self.DualKey, self.TapKey, self.HoldKey, KeyMax))
		}
		if self.HoldThreshold <= 0 {
			errs = append(errs, errors.NotValidf("dual threshold=%s", self.HoldThreshold))
		}
	}
	if self.ComboEnable {
		if !validCode(self.Modifier) {
			errs = append(errs, errors.NotValidf("combo modifier=%d (expected 1..%d)", self.Modifier, KeyMax))
		}
		if self.DualEnable && self.Modifier == self.DualKey {
			errs = append(errs, errors.NotValidf("combo modifier=%s same as dual key", self.Modifier))
		}
		if self.Repeat && (self.RepeatDelay <= 0 || self.RepeatPeriod <= 0) {
			errs = append(errs, errors.NotValidf("combo repeat delay=%s period=%s", self.RepeatDelay, self.RepeatPeriod))
		}
		for key, app := range self.Launch {
			if _, ok := key.Letter(); !ok {
				errs = append(errs, errors.NotValidf("combo launch key=%s (expected letter)", key))
			}
			if _, ok := DirectionKeys[key]; ok {
				errs = append(errs, errors.NotValidf("combo launch key=%s clashes with direction", key))
			}
			if key == self.Modifier {
				errs = append(errs, errors.NotValidf("combo launch key=%s same as modifier", key))
			}
			if self.DualEnable && key == self.DualKey {
				errs = append(errs, errors.NotValidf("combo launch key=%s same as dual key", key))
			}
			if app == "" {
				errs = append(errs, errors.NotValidf("combo launch key=%s app=empty", key))
			}
		}
	}
	return helpers.FoldErrors(errs)
}

func validCode(k Key) bool { return k != KeyReserved && k <= KeyMax }
