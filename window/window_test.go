package window

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/hoshinonyaruko/snake-retro/memimg"
	"github.com/hoshinonyaruko/snake-retro/render"
	"github.com/hoshinonyaruko/snake-retro/shell"
	"github.com/hoshinonyaruko/snake-retro/snake"
	"github.com/hoshinonyaruko/snake-retro/structs"
)

func newGame(c *qt.C) *Game {
	lib, err := memimg.Open("")
	c.Assert(err, qt.IsNil)
	game := snake.New(snake.Options{Spawner: snake.NewAppleSpawner(7)})
	return New(shell.NewSession(game, shell.Hooks{}), render.New(lib), 300*time.Millisecond)
}

func TestKeyCommandsCoverEveryCommand(t *testing.T) {
	c := qt.New(t)
	seen := map[structs.Command]bool{}
	keys := map[int]bool{}
	for _, kc := range keyCommands {
		c.Assert(keys[int(kc.key)], qt.IsFalse, qt.Commentf("key %v bound twice", kc.key))
		keys[int(kc.key)] = true
		seen[kc.cmd] = true
	}
	for cmd := structs.MoveUp; cmd <= structs.ToggleWallMode; cmd++ {
		c.Assert(seen[cmd], qt.IsTrue, qt.Commentf("command %v has no key", cmd))
	}
}

func TestStepTicksOnInterval(t *testing.T) {
	c := qt.New(t)
	g := newGame(c)
	head := g.session.Game().Head()

	g.step(169 * time.Millisecond)
	c.Assert(g.session.Game().Head(), qt.Equals, head)

	g.step(time.Millisecond)
	c.Assert(g.session.Game().Head(), qt.Equals, head.Add(structs.Right.Offset()))
	c.Assert(g.session.Blink(), qt.IsFalse)

	g.step(130 * time.Millisecond)
	c.Assert(g.session.Blink(), qt.IsTrue)
}

func TestClickTogglesWallMode(t *testing.T) {
	c := qt.New(t)
	g := newGame(c)
	g.Layout(960, 900)

	g.click(10, 10)
	c.Assert(g.session.Game().WallMode(), qt.Equals, structs.Classic)

	g.click(762, 813)
	c.Assert(g.session.Game().WallMode(), qt.Equals, structs.Wrap)
}

func TestResetRestartsClock(t *testing.T) {
	c := qt.New(t)
	g := newGame(c)
	g.clock.Advance(160 * time.Millisecond)
	g.apply(structs.Reset)

	g.step(20 * time.Millisecond)
	c.Assert(g.session.Game().Snake()[0], qt.Equals, structs.GridPoint{X: 8, Y: 7})
}
