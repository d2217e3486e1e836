package remap

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/remapd/log2"
)

type recordLauncher struct {
	apps []string
	err  error
}

func (self *recordLauncher) Launch(app string) error {
	self.apps = append(self.apps, app)
	return self.err
}

type countFocuser struct{ n int }

func (self *countFocuser) FocusFrontmost() error {
	self.n++
	return nil
}

func newTestCombo(t testing.TB, mode DirectionalMode) (*Combo, *recorder, *ManualScheduler) {
	rec := &recorder{}
	sched := NewManualScheduler()
	c := &Combo{
		Modifier:     KeyRightAlt,
		Mode:         mode,
		Repeat:       true,
		RepeatDelay:  100 * time.Millisecond,
		RepeatPeriod: 50 * time.Millisecond,
		Launch:       DefaultLaunch(),
		log:          log2.NewTest(t, log2.LDebug),
		emit:         rec,
		sched:        sched,
	}
	return c, rec, sched
}

func TestComboIgnoredWithoutModifier(t *testing.T) {
	t.Parallel()

	c, rec, sched := newTestCombo(t, ModeScroll)
	launcher := &recordLauncher{}
	c.launcher = launcher
	for key := range DirectionKeys {
		c.LetterPress(key)
	}
	c.LetterPress(KeyS)
	sched.Advance(time.Second)
	assert.Nil(t, rec.take())
	assert.Nil(t, launcher.apps)
	assert.Equal(t, 0, sched.Active())
	assert.False(t, c.TimerActive())
}

func TestComboDirection(t *testing.T) {
	t.Parallel()

	cases := []struct {
		key    Key
		mode   DirectionalMode
		expect []string
	}{
		{KeyH, ModeScroll, []string{"scroll/-1,0"}},
		{KeyJ, ModeScroll, []string{"scroll/0,-1"}},
		{KeyK, ModeScroll, []string{"scroll/0,1"}},
		{KeyL, ModeScroll, []string{"scroll/1,0"}},
		{KeyH, ModeArrow, []string{"left/down", "left/up"}},
		{KeyJ, ModeArrow, []string{"down/down", "down/up"}},
		{KeyK, ModeArrow, []string{"up/down", "up/up"}},
		{KeyL, ModeArrow, []string{"right/down", "right/up"}},
	}
	for _, c := range cases {
		c := c
		t.Run(fmt.Sprintf("%s/%s", c.mode, c.key), func(t *testing.T) {
			t.Parallel()
			combo, rec, sched := newTestCombo(t, c.mode)
			combo.ModifierPress()
			combo.LetterPress(c.key)
			assert.Equal(t, c.expect, rec.take(), "immediate")
			assert.True(t, combo.TimerActive())

			// OS key repeat must not start second action
			combo.LetterPress(c.key)
			assert.Nil(t, rec.take())
			assert.Equal(t, 1, sched.Active())

			sched.Advance(99 * time.Millisecond)
			assert.Nil(t, rec.take(), "before initial delay")
			sched.Advance(1 * time.Millisecond)
			assert.Equal(t, c.expect, rec.take(), "first tick")
			sched.Advance(50 * time.Millisecond)
			assert.Equal(t, c.expect, rec.take(), "second tick")

			combo.LetterRelease(c.key)
			assert.False(t, combo.TimerActive())
			assert.Equal(t, 0, sched.Active())
			sched.Advance(time.Second)
			assert.Nil(t, rec.take())
		})
	}
}

func TestComboMultipleDirections(t *testing.T) {
	t.Parallel()

	c, rec, sched := newTestCombo(t, ModeScroll)
	c.ModifierPress()
	c.LetterPress(KeyK)
	c.LetterPress(KeyH)
	assert.Equal(t, []string{"scroll/0,1", "scroll/-1,0"}, rec.take())
	assert.Equal(t, 1, sched.Active(), "one shared timer")

	sched.Advance(100 * time.Millisecond)
	// tick order is fixed: left, down, up, right
	assert.Equal(t, []string{"scroll/-1,0", "scroll/0,1"}, rec.take())

	c.LetterRelease(KeyH)
	assert.True(t, c.TimerActive())
	sched.Advance(50 * time.Millisecond)
	assert.Equal(t, []string{"scroll/0,1"}, rec.take())

	c.LetterRelease(KeyK)
	assert.False(t, c.TimerActive())
}

func TestComboModifierReleaseResets(t *testing.T) {
	t.Parallel()

	c, rec, sched := newTestCombo(t, ModeScroll)
	c.ModifierPress()
	for _, key := range []Key{KeyH, KeyJ, KeyK, KeyL} {
		c.LetterPress(key)
	}
	assert.Len(t, rec.take(), 4)
	timer := c.timer
	gen := c.gen
	require.NotNil(t, timer)

	c.ModifierRelease()
	for d := Direction(0); d < dirCount; d++ {
		assert.False(t, c.Active(d), d.String())
	}
	assert.False(t, c.TimerActive())
	assert.Equal(t, 0, sched.Active())

	// tick of cancelled timer racing with release
	c.tick(gen)
	// tick of current generation with no active direction
	c.tick(c.gen)
	sched.Advance(time.Second)
	assert.Nil(t, rec.take())

	// late direction release after modifier is harmless
	c.LetterRelease(KeyH)
	timer.Cancel()
	assert.Nil(t, rec.take())
}

func TestComboStaleGeneration(t *testing.T) {
	t.Parallel()

	c, rec, _ := newTestCombo(t, ModeScroll)
	c.ModifierPress()
	c.LetterPress(KeyJ)
	old := c.gen
	c.LetterRelease(KeyJ)
	c.LetterPress(KeyJ)
	rec.take()
	c.tick(old)
	assert.Nil(t, rec.take())
	c.tick(c.gen)
	assert.Equal(t, []string{"scroll/0,-1"}, rec.take())
}

func TestComboNoRepeat(t *testing.T) {
	t.Parallel()

	c, rec, sched := newTestCombo(t, ModeArrow)
	c.Repeat = false
	c.ModifierPress()
	c.LetterPress(KeyL)
	c.LetterPress(KeyL)
	assert.Equal(t, []string{"right/down", "right/up"}, rec.take())
	assert.Equal(t, 0, sched.Active())
	c.LetterRelease(KeyL)
	c.LetterPress(KeyL)
	assert.Equal(t, []string{"right/down", "right/up"}, rec.take())
}

func TestComboLaunch(t *testing.T) {
	t.Parallel()

	c, rec, sched := newTestCombo(t, ModeScroll)
	launcher := &recordLauncher{}
	focuser := &countFocuser{}
	c.launcher = launcher
	c.focuser = focuser
	c.FocusOnLaunch = true
	c.FocusOnScroll = true

	c.ModifierPress()
	c.LetterPress(KeyS)
	c.LetterRelease(KeyS)
	c.LetterPress(KeyT)
	assert.Equal(t, []string{"Safari", "Terminal"}, launcher.apps)
	assert.Equal(t, 2, focuser.n)
	assert.Nil(t, rec.take())
	assert.Equal(t, 0, sched.Active())

	c.LetterPress(KeyK)
	assert.Equal(t, 3, focuser.n, "focus before first scroll")
	c.LetterPress(KeyK)
	assert.Equal(t, 3, focuser.n)

	launcher.err = fmt.Errorf("not found")
	c.LetterPress(KeyX)
	assert.Equal(t, []string{"Safari", "Terminal", "Xcode"}, launcher.apps)
	assert.True(t, c.Held())
	assert.True(t, c.Active(DirUp))

	c.launcher = nil
	c.LetterPress(KeyN)
	assert.True(t, c.Held())
}

func TestComboClose(t *testing.T) {
	t.Parallel()

	c, rec, sched := newTestCombo(t, ModeScroll)
	c.ModifierPress()
	c.LetterPress(KeyH)
	rec.take()
	c.Close()
	c.Close()
	assert.False(t, c.Held())
	assert.False(t, c.TimerActive())
	assert.Equal(t, 0, sched.Active())
	sched.Advance(time.Second)
	assert.Nil(t, rec.take())
}

func TestParseDirectionalMode(t *testing.T) {
	t.Parallel()

	m, err := ParseDirectionalMode("arrow")
	require.NoError(t, err)
	assert.Equal(t, ModeArrow, m)
	m, err = ParseDirectionalMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeScroll, m)
	_, err = ParseDirectionalMode("wheel")
	assert.Error(t, err)
}
