package remap

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/temoto/remapd/log2"
)

func newTestDual(t testing.TB) (*DualKey, *recorder) {
	rec := &recorder{}
	log := log2.NewTest(t, log2.LDebug)
	return NewDualKey(log, rec, KeyCapsLock, KeyEsc, KeyLeftCtrl, 500*time.Millisecond), rec
}

func TestDualKey(t *testing.T) {
	t.Parallel()

	type Case struct {
		name   string
		fun    func(d *DualKey)
		expect []string
	}
	cases := []Case{
		{"tap", func(d *DualKey) {
			d.Press(ms(0))
			d.Release(ms(200))
		}, []string{"esc/down", "esc/up"}},
		{"tap-just-below-threshold", func(d *DualKey) {
			d.Press(ms(0))
			d.Release(ms(499))
		}, []string{"esc/down", "esc/up"}},
		{"hold-at-threshold", func(d *DualKey) {
			d.Press(ms(0))
			d.Release(ms(500))
		}, nil},
		{"long-hold", func(d *DualKey) {
			d.Press(ms(0))
			d.Release(ms(3000))
		}, nil},
		{"combo", func(d *DualKey) {
			d.Press(ms(0))
			d.OtherKey()
			d.Release(ms(100))
		}, []string{"leftctrl/down", "leftctrl/up"}},
		{"combo-repeated-other", func(d *DualKey) {
			d.Press(ms(0))
			for i := 0; i < 5; i++ {
				d.OtherKey()
			}
			d.Release(ms(1500))
		}, []string{"leftctrl/down", "leftctrl/up"}},
		{"release-idle", func(d *DualKey) {
			d.Release(ms(10))
			d.Release(ms(20))
		}, nil},
		{"other-idle", func(d *DualKey) {
			d.OtherKey()
			d.Press(ms(0))
			d.Release(ms(10))
		}, []string{"esc/down", "esc/up"}},
		{"duplicate-press-keeps-start", func(d *DualKey) {
			d.Press(ms(0))
			d.Press(ms(400))
			d.Release(ms(600))
		}, nil},
		{"reset-fired", func(d *DualKey) {
			d.Press(ms(0))
			d.OtherKey()
			d.Reset()
			d.Release(ms(100))
		}, []string{"leftctrl/down", "leftctrl/up"}},
		{"reset-not-fired", func(d *DualKey) {
			d.Press(ms(0))
			d.Reset()
		}, nil},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			d, rec := newTestDual(t)
			c.fun(d)
			assert.Equal(t, c.expect, rec.take())
			assert.False(t, d.Held())
			assert.False(t, d.ComboFired())
		})
	}
}

func TestDualKeyTapSequences(t *testing.T) {
	t.Parallel()

	d, rec := newTestDual(t)
	now := 0
	for i, hold := range []int{1, 50, 120, 250, 499, 0, 333} {
		d.Press(ms(now))
		now += hold
		d.Release(ms(now))
		now += 17 * i
		assert.Equal(t, []string{"esc/down", "esc/up"}, rec.take(), fmt.Sprintf("hold=%d", hold))
	}
}

func TestDualKeyComboFiredOnlyWhileHeld(t *testing.T) {
	t.Parallel()

	d, rec := newTestDual(t)
	d.Press(ms(0))
	assert.True(t, d.Held())
	assert.False(t, d.ComboFired())
	d.OtherKey()
	assert.True(t, d.Held())
	assert.True(t, d.ComboFired())
	d.Release(ms(10))
	assert.False(t, d.ComboFired())
	d.OtherKey()
	assert.False(t, d.ComboFired())
	assert.Equal(t, []string{"leftctrl/down", "leftctrl/up"}, rec.take())
}

func TestDualKeyEmitterFailure(t *testing.T) {
	t.Parallel()

	d, rec := newTestDual(t)
	rec.err = fmt.Errorf("device gone")
	d.Press(ms(0))
	d.Release(ms(10))
	// errors are logged, both halves still attempted
	assert.Equal(t, []string{"esc/down", "esc/up"}, rec.take())
	assert.False(t, d.Held())

	nilEmit := NewDualKey(log2.NewTest(t, log2.LDebug), nil, KeyCapsLock, KeyEsc, KeyLeftCtrl, time.Second)
	nilEmit.Press(ms(0))
	nilEmit.OtherKey()
	nilEmit.Release(ms(10))
	assert.False(t, nilEmit.Held())
}
