package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/remapd/internal/remap"
	"github.com/temoto/remapd/log2"
)

func TestParseLine(t *testing.T) {
	t.Parallel()

	type Case struct {
		line      string
		expect    []step
		expectErr string
	}
	cases := []Case{
		{"", []step{}, ""},
		{"+capslock a -capslock", []step{
			{key: remap.KeyCapsLock, press: true},
			{key: remap.KeyA, tap: true},
			{key: remap.KeyCapsLock},
		}, ""},
		{"/s150 /close +58", []step{
			{advance: 150e6},
			{close: true},
			{key: remap.KeyCapsLock, press: true},
		}, ""},
		{"/sx", nil, "word=/sx not valid"},
		{"+nokey", nil, "word=+nokey"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.line, func(t *testing.T) {
			steps, err := parseLine(c.line)
			if c.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), c.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expect, steps)
		})
	}
}

func TestSimExec(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	s := NewSim(log, remap.DefaultConfig())

	out, err := s.Exec("capslock")
	require.NoError(t, err)
	assert.Equal(t, []string{"esc/down", "esc/up"}, out)

	out, err = s.Exec("+capslock c -capslock")
	require.NoError(t, err)
	assert.Equal(t, []string{"leftctrl/down", "leftctrl/up"}, out)

	out, err = s.Exec("+rightalt +j /s180 -j -rightalt")
	require.NoError(t, err)
	assert.Equal(t, []string{"scroll/0,-1", "scroll/0,-1", "scroll/0,-1", "focus x1"}, out)

	out, err = s.Exec("+rightalt t -rightalt")
	require.NoError(t, err)
	assert.Equal(t, []string{"launch Terminal", "focus x1"}, out)

	_, err = s.Exec("+rightalt bogus")
	require.Error(t, err)
	assert.Equal(t, 0, s.Sched.Active())
}
