package parallax

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeSystemCapsLongStalls(t *testing.T) {
	clock := &Time{Time: time.Now().Add(-5 * time.Second)}
	timeSystem(clock)
	assert.Equal(t, MaxFrameDelta, clock.Dt)
}

func TestTimeSystemClampsBackwardClock(t *testing.T) {
	clock := &Time{Time: time.Now().Add(time.Hour)}
	timeSystem(clock)
	assert.Equal(t, time.Duration(0), clock.Dt)
}

func TestTimeSystemAdvancesReference(t *testing.T) {
	start := time.Now().Add(-10 * time.Millisecond)
	clock := &Time{Time: start}
	timeSystem(clock)
	assert.True(t, clock.Time.After(start))
	assert.GreaterOrEqual(t, clock.Dt, 10*time.Millisecond)
	assert.LessOrEqual(t, clock.Dt, MaxFrameDelta)
}
