package snake

import "time"

// Speed ramp defaults.
const (
	BaseInterval      = 170 * time.Millisecond
	MinInterval       = 70 * time.Millisecond
	IntervalDecrement = 12 * time.Millisecond
	ApplesPerStep     = 4
)

// Speed maps the number of eaten apples to the tick interval.
type Speed struct {
	Base      time.Duration
	Step      int
	Decrement time.Duration
	Floor     time.Duration
}

// DefaultSpeed is 170ms, 12ms faster every 4 apples, never below 70ms.
func DefaultSpeed() Speed {
	return Speed{
		Base:      BaseInterval,
		Step:      ApplesPerStep,
		Decrement: IntervalDecrement,
		Floor:     MinInterval,
	}
}

// Interval is the interval after eaten apples, computed from scratch.
func Interval(base time.Duration, eaten, step int, decrement, floor time.Duration) time.Duration {
	if step <= 0 {
		return maxDuration(base, floor)
	}
	return maxDuration(base-time.Duration(eaten/step)*decrement, floor)
}

// Interval computes the interval for eaten apples.
func (s Speed) Interval(eaten int) time.Duration {
	return Interval(s.Base, eaten, s.Step, s.Decrement, s.Floor)
}

// Next applies one eat event to current: every Step-th apple takes
// Decrement off, clamped at Floor.
func (s Speed) Next(current time.Duration, eaten int) time.Duration {
	if s.Step > 0 && eaten > 0 && eaten%s.Step == 0 {
		return maxDuration(current-s.Decrement, s.Floor)
	}
	return current
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
