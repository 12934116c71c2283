package shell

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/hoshinonyaruko/snake-retro/snake"
	"github.com/hoshinonyaruko/snake-retro/sqlite"
	"github.com/hoshinonyaruko/snake-retro/structs"
)

type pt = structs.GridPoint

// firstFree places apples on the first free cell, row by row.
var firstFree = snake.SpawnerFunc(func(width, height int, occupied map[pt]bool) pt {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !occupied[pt{X: x, Y: y}] {
				return pt{X: x, Y: y}
			}
		}
	}
	panic("grid is full")
})

type recorder struct {
	outcomes []snake.Outcome
	games    []sqlite.GameRecord
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		OnOutcome: func(o snake.Outcome) { r.outcomes = append(r.outcomes, o) },
		OnGameEnd: func(rec sqlite.GameRecord) { r.games = append(r.games, rec) },
	}
}

func newSession(speed snake.Speed, hooks Hooks) *Session {
	return NewSession(snake.New(snake.Options{Spawner: firstFree, Speed: speed}), hooks)
}

func TestSessionRecordsCrash(t *testing.T) {
	c := qt.New(t)
	rec := &recorder{}
	s := newSession(snake.DefaultSpeed(), rec.hooks())
	id := s.ID()

	// 从(8,7)向右走到墙边需要11步，第12步撞墙
	for i := 0; i < 11; i++ {
		c.Assert(s.Tick(), qt.Equals, snake.Moved)
	}
	c.Assert(s.Tick(), qt.Equals, snake.HitWall)
	c.Assert(s.Tick(), qt.Equals, snake.Idle)

	c.Assert(rec.outcomes, qt.HasLen, 12)
	c.Assert(rec.games, qt.HasLen, 1)
	c.Assert(rec.games[0].SessionID, qt.Equals, id)
	c.Assert(rec.games[0].WallMode, qt.Equals, structs.Classic)
}

func TestSessionResetStartsNewGame(t *testing.T) {
	c := qt.New(t)
	rec := &recorder{}
	s := newSession(snake.DefaultSpeed(), rec.hooks())
	first := s.ID()

	// 未移动就重置不记录
	s.Apply(structs.Reset)
	c.Assert(rec.games, qt.HasLen, 0)
	c.Assert(s.ID(), qt.Not(qt.Equals), first)

	s.Tick()
	second := s.ID()
	s.Apply(structs.Reset)
	c.Assert(rec.games, qt.HasLen, 1)
	c.Assert(rec.games[0].SessionID, qt.Equals, second)
	c.Assert(s.Game().Snake(), qt.DeepEquals, []pt{{8, 7}, {7, 7}, {6, 7}})
}

func TestSessionResetAfterCrashRecordsOnce(t *testing.T) {
	c := qt.New(t)
	rec := &recorder{}
	s := newSession(snake.DefaultSpeed(), rec.hooks())
	for s.Tick() != snake.HitWall {
	}
	s.Apply(structs.Reset)
	c.Assert(rec.games, qt.HasLen, 1)
	c.Assert(s.Game().Status(), qt.Equals, structs.Running)
}

func TestSessionSnapshot(t *testing.T) {
	c := qt.New(t)
	s := newSession(snake.DefaultSpeed(), Hooks{})
	s.ToggleBlink()
	s.Apply(structs.ToggleWallMode)

	snap := s.Snapshot()
	c.Assert(snap.SessionID, qt.Equals, s.ID())
	c.Assert(snap.Blink, qt.IsTrue)
	c.Assert(snap.WallMode, qt.Equals, structs.Wrap)
	c.Assert(snap.IntervalMS, qt.Equals, int64(170))
}

func TestClock(t *testing.T) {
	c := qt.New(t)
	clock := NewClock(300 * time.Millisecond)
	interval := 100 * time.Millisecond

	clock.Advance(90 * time.Millisecond)
	c.Assert(clock.TakeTick(interval), qt.IsFalse)

	clock.Advance(120 * time.Millisecond)
	c.Assert(clock.TakeTick(interval), qt.IsTrue)
	c.Assert(clock.TakeTick(interval), qt.IsTrue)
	c.Assert(clock.TakeTick(interval), qt.IsFalse)
	c.Assert(clock.TakeBlink(), qt.IsFalse)

	clock.Advance(100 * time.Millisecond)
	c.Assert(clock.TakeBlink(), qt.IsTrue)
	c.Assert(clock.TakeBlink(), qt.IsFalse)
}

func TestClockCapsLongFrames(t *testing.T) {
	c := qt.New(t)
	clock := NewClock(time.Second)
	clock.Advance(10 * time.Second)

	ticks := 0
	for clock.TakeTick(50 * time.Millisecond) {
		ticks++
	}
	c.Assert(ticks, qt.Equals, 5)

	clock.Advance(40 * time.Millisecond)
	clock.Restart()
	c.Assert(clock.TakeTick(time.Millisecond), qt.IsFalse)
}
