package input

import (
	"sort"

	evdev "github.com/holoplot/go-evdev"
	"github.com/juju/errors"
)

type Device struct {
	Path string
	Name string
}

func (self Device) String() string { return self.Path + " " + self.Name }

// keyboard-class device must report all of these
var keyboardProbe = []evdev.EvCode{evdev.KEY_A, evdev.KEY_Z, evdev.KEY_ENTER, evdev.KEY_SPACE}

// FindKeyboards lists evdev devices capable of typing letters.
// Devices named in exclude (our own virtual output) are skipped.
func FindKeyboards(exclude ...string) ([]Device, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, errors.Annotate(err, "list input devices")
	}
	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[name] = struct{}{}
	}

	found := make([]Device, 0, len(paths))
	for _, p := range paths {
		if _, ok := skip[p.Name]; ok {
			continue
		}
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		codes := dev.CapableEvents(evdev.EV_KEY)
		dev.Close()
		if isKeyboard(codes) {
			found = append(found, Device{Path: p.Path, Name: p.Name})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return found, nil
}

func isKeyboard(codes []evdev.EvCode) bool {
	have := make(map[evdev.EvCode]struct{}, len(codes))
	for _, c := range codes {
		have[c] = struct{}{}
	}
	for _, c := range keyboardProbe {
		if _, ok := have[c]; !ok {
			return false
		}
	}
	return true
}
