package remap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input  string
		expect Key
		err    bool
	}{
		{"capslock", KeyCapsLock, false},
		{"CapsLock", KeyCapsLock, false},
		{"rightalt", KeyRightAlt, false},
		{"a", KeyA, false},
		{"h", KeyH, false},
		{"1", Key1, false},
		{"0", Key0, false},
		{"58", KeyCapsLock, false},
		{"key100", KeyRightAlt, false},
		{"key0", KeyReserved, true},
		{"", KeyReserved, true},
		{"hyper", KeyReserved, true},
		{"70000", KeyReserved, true},
		{"key1", KeyEsc, false},
		{"key767", KeyMax, false},
		{"key768", KeyReserved, true},
	}
	for _, c := range cases {
		c := c
		t.Run(c.input, func(t *testing.T) {
			k, err := ParseKey(c.input)
			if c.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expect, k)
		})
	}
}

func TestKeyCode(t *testing.T) {
	t.Parallel()

	k, err := KeyCode(1)
	require.NoError(t, err)
	assert.Equal(t, KeyEsc, k)
	k, err = KeyCode(int64(KeyMax))
	require.NoError(t, err)
	assert.Equal(t, KeyMax, k)
	for _, n := range []int64{0, -1, int64(KeyMax) + 1} {
		_, err = KeyCode(n)
		assert.Error(t, err, "n=%d", n)
	}
}

func TestKeyString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "esc", KeyEsc.String())
	assert.Equal(t, "x", KeyX.String())
	assert.Equal(t, "9", (Key0 - 1).String())
	assert.Equal(t, "0", Key0.String())
	assert.Equal(t, "key183", Key(183).String())
	for r := 'a'; r <= 'z'; r++ {
		k, ok := LetterKey(r)
		require.True(t, ok)
		back, ok := k.Letter()
		require.True(t, ok)
		assert.Equal(t, r, back)
		parsed, err := ParseKey(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, ok := LetterKey('!')
	assert.False(t, ok)
	k, ok := LetterKey('Q')
	assert.True(t, ok)
	assert.Equal(t, KeyQ, k)
}

func TestKeyIsOther(t *testing.T) {
	t.Parallel()

	assert.False(t, KeyReserved.IsOther())
	assert.True(t, KeyEsc.IsOther())
	assert.True(t, KeyA.IsOther())
	assert.True(t, KeyRightMeta.IsOther())
	assert.True(t, KeyMicMute.IsOther())
	assert.False(t, Key(0x110).IsOther(), "BTN_LEFT")
}
