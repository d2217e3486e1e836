package remap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// Key is Linux evdev key code, see linux/input-event-codes.h
type Key uint16

const (
	KeyReserved   Key = 0
	KeyEsc        Key = 1
	Key1          Key = 2
	Key0          Key = 11
	KeyBackspace  Key = 14
	KeyTab        Key = 15
	KeyQ          Key = 16
	KeyW          Key = 17
	KeyE          Key = 18
	KeyR          Key = 19
	KeyT          Key = 20
	KeyY          Key = 21
	KeyU          Key = 22
	KeyI          Key = 23
	KeyO          Key = 24
	KeyP          Key = 25
	KeyEnter      Key = 28
	KeyLeftCtrl   Key = 29
	KeyA          Key = 30
	KeyS          Key = 31
	KeyD          Key = 32
	KeyF          Key = 33
	KeyG          Key = 34
	KeyH          Key = 35
	KeyJ          Key = 36
	KeyK          Key = 37
	KeyL          Key = 38
	KeyLeftShift  Key = 42
	KeyZ          Key = 44
	KeyX          Key = 45
	KeyC          Key = 46
	KeyV          Key = 47
	KeyB          Key = 48
	KeyN          Key = 49
	KeyM          Key = 50
	KeyRightShift Key = 54
	KeyLeftAlt    Key = 56
	KeySpace      Key = 57
	KeyCapsLock   Key = 58
	KeyRightCtrl  Key = 97
	KeyRightAlt   Key = 100
	KeyUp         Key = 103
	KeyLeft       Key = 105
	KeyRight      Key = 106
	KeyDown       Key = 108
	KeyLeftMeta   Key = 125
	KeyRightMeta  Key = 126
	KeyMicMute    Key = 248
)

// Bounds of "any other key" classification, evdev equivalent of HID keyboard usages 0x04..0xE7.
const (
	OtherKeyMin = KeyEsc
	OtherKeyMax = KeyMicMute
	// KEY_MAX, highest code evdev reports
	KeyMax Key = 0x2ff
)

var keyNames = map[Key]string{
	KeyEsc:        "esc",
	KeyBackspace:  "backspace",
	KeyTab:        "tab",
	KeyEnter:      "enter",
	KeyLeftCtrl:   "leftctrl",
	KeyLeftShift:  "leftshift",
	KeyRightShift: "rightshift",
	KeyLeftAlt:    "leftalt",
	KeySpace:      "space",
	KeyCapsLock:   "capslock",
	KeyRightCtrl:  "rightctrl",
	KeyRightAlt:   "rightalt",
	KeyUp:         "up",
	KeyLeft:       "left",
	KeyRight:      "right",
	KeyDown:       "down",
	KeyLeftMeta:   "leftmeta",
	KeyRightMeta:  "rightmeta",
	KeyMicMute:    "micmute",
}

var letterKeys = [26]Key{
	KeyA, KeyB, KeyC, KeyD, KeyE, KeyF, KeyG, KeyH, KeyI, KeyJ, KeyK, KeyL, KeyM,
	KeyN, KeyO, KeyP, KeyQ, KeyR, KeyS, KeyT, KeyU, KeyV, KeyW, KeyX, KeyY, KeyZ,
}

var keyByName map[string]Key

func init() {
	keyByName = make(map[string]Key, len(keyNames)+len(letterKeys)+10)
	for k, name := range keyNames {
		keyByName[name] = k
	}
	for i, k := range letterKeys {
		keyByName[string(rune('a'+i))] = k
	}
	for i := 0; i < 10; i++ {
		keyByName[strconv.Itoa((i+1)%10)] = Key1 + Key(i)
	}
}

// LetterKey maps 'a'..'z' (any case) to key code.
func LetterKey(r rune) (Key, bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	if r < 'a' || r > 'z' {
		return KeyReserved, false
	}
	return letterKeys[r-'a'], true
}

// Letter is inverse of LetterKey.
func (k Key) Letter() (rune, bool) {
	for i, lk := range letterKeys {
		if lk == k {
			return rune('a' + i), true
		}
	}
	return 0, false
}

func (k Key) IsOther() bool { return k >= OtherKeyMin && k <= OtherKeyMax }

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if r, ok := k.Letter(); ok {
		return string(r)
	}
	if k >= Key1 && k <= Key0 {
		return strconv.Itoa(int(k-Key1+1) % 10)
	}
	return fmt.Sprintf("key%d", uint16(k))
}

// KeyCode accepts numeric evdev code in 1..KeyMax.
func KeyCode(n int64) (Key, error) {
	if n < 1 || n > int64(KeyMax) {
		return KeyReserved, errors.NotValidf("key code=%d (expected 1..%d)", n, KeyMax)
	}
	return Key(n), nil
}

// ParseKey accepts key name ("capslock", "a", "7") or code ("key58", "58").
// Names win: "1" is digit key 1, code 1 is "key1" or "esc".
func ParseKey(s string) (Key, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if k, ok := keyByName[s]; ok {
		return k, nil
	}
	num := strings.TrimPrefix(s, "key")
	if n, err := strconv.ParseUint(num, 10, 16); err == nil && n != 0 && n <= uint64(KeyMax) {
		return Key(n), nil
	}
	return KeyReserved, errors.NotValidf("key=%q", s)
}
