package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff(t *testing.T) {
	t.Parallel()

	b := Backoff{Min: time.Second, Max: 4 * time.Second, K: 2}
	assert.Equal(t, time.Duration(0), b.DelayBefore())

	b.Failure()
	d1 := b.DelayBefore()
	assert.True(t, d1 > 900*time.Millisecond && d1 <= time.Second, "d1=%s", d1)

	b.Failure()
	b.Failure()
	b.Failure()
	d4 := b.DelayBefore()
	assert.True(t, d4 > 3*time.Second && d4 <= 4*time.Second, "d4=%s", d4)

	b.Update(true)
	assert.Equal(t, time.Duration(0), b.DelayBefore())
}
