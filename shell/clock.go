package shell

import "time"

// maxStep bounds how much time a single Advance may add, so a stalled frame
// does not turn into a burst of ticks.
const maxStep = 250 * time.Millisecond

// Clock turns frame durations into tick and blink events for frontends that
// own their own frame loop.
type Clock struct {
	blinkEvery time.Duration
	tickAcc    time.Duration
	blinkAcc   time.Duration
}

func NewClock(blinkEvery time.Duration) *Clock {
	return &Clock{blinkEvery: blinkEvery}
}

// Advance adds the elapsed frame time.
func (c *Clock) Advance(dt time.Duration) {
	if dt < 0 {
		return
	}
	if dt > maxStep {
		dt = maxStep
	}
	c.tickAcc += dt
	c.blinkAcc += dt
}

// TakeTick consumes one tick if interval has elapsed. Call it in a loop,
// passing the game's current interval each time.
func (c *Clock) TakeTick(interval time.Duration) bool {
	if interval <= 0 || c.tickAcc < interval {
		return false
	}
	c.tickAcc -= interval
	return true
}

// TakeBlink consumes one blink period if it has elapsed.
func (c *Clock) TakeBlink() bool {
	if c.blinkEvery <= 0 || c.blinkAcc < c.blinkEvery {
		return false
	}
	c.blinkAcc -= c.blinkEvery
	return true
}

// Restart drops any accumulated time.
func (c *Clock) Restart() {
	c.tickAcc = 0
	c.blinkAcc = 0
}
