package audio

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/hoshinonyaruko/snake-retro/snake"
)

const sampleRate = beep.SampleRate(44100)

// Player plays a short tone for the outcomes that deserve one.
// A Player whose speaker failed to open stays silent.
type Player struct {
	mu    sync.Mutex
	ready bool
}

// New opens the speaker when enabled. Failure is logged, not fatal.
func New(enabled bool) *Player {
	p := &Player{}
	if !enabled {
		return p
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("Audio initialization failed: %v", err)
		return p
	}
	p.ready = true
	return p
}

// Play queues the effect for o and returns immediately.
func (p *Player) Play(o snake.Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	if s := Effect(o); s != nil {
		speaker.Play(s)
	}
}

// Effect returns the streamer for o, or nil for outcomes without sound.
func Effect(o snake.Outcome) beep.Streamer {
	switch o {
	case snake.Ate:
		// 两个上行音
		return volume(beep.Seq(
			tone(660, 50*time.Millisecond),
			tone(990, 70*time.Millisecond),
		), 0.4)
	case snake.HitWall, snake.HitSelf:
		return volume(beep.Seq(
			tone(220, 120*time.Millisecond),
			tone(110, 240*time.Millisecond),
		), 0.5)
	}
	return nil
}

func tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		log.Printf("bad tone %.0fHz: %v", freq, err)
		return beep.Silence(sampleRate.N(d))
	}
	return beep.Take(sampleRate.N(d), sine)
}

// math.Log2(0) is -Inf, so 0 volume is silent
func volume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
