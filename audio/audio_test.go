package audio

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/hoshinonyaruko/snake-retro/snake"
)

func drain(s interface {
	Stream([][2]float64) (int, bool)
}) (int, float64) {
	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for {
		n, ok := s.Stream(buf)
		for _, v := range buf[:n] {
			if v[0] > peak {
				peak = v[0]
			}
		}
		total += n
		if !ok || n == 0 {
			return total, peak
		}
	}
}

func TestEffectLengths(t *testing.T) {
	c := qt.New(t)

	n, peak := drain(Effect(snake.Ate))
	c.Assert(n, qt.Equals, sampleRate.N(50*time.Millisecond)+sampleRate.N(70*time.Millisecond))
	c.Assert(peak > 0, qt.IsTrue)

	n, _ = drain(Effect(snake.HitSelf))
	c.Assert(n, qt.Equals, sampleRate.N(120*time.Millisecond)+sampleRate.N(240*time.Millisecond))
}

func TestSilentOutcomes(t *testing.T) {
	c := qt.New(t)
	for _, o := range []snake.Outcome{snake.Idle, snake.Moved} {
		c.Assert(Effect(o), qt.IsNil)
	}
}

func TestDisabledPlayerIsQuiet(t *testing.T) {
	p := New(false)
	p.Play(snake.Ate)
	p.Play(snake.HitWall)
}
