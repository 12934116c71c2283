package tui

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/gdamore/tcell/v2"

	"github.com/hoshinonyaruko/snake-retro/shell"
	"github.com/hoshinonyaruko/snake-retro/snake"
	"github.com/hoshinonyaruko/snake-retro/structs"
)

func newScreen(c *qt.C) tcell.SimulationScreen {
	s := tcell.NewSimulationScreen("UTF-8")
	c.Assert(s.Init(), qt.IsNil)
	s.SetSize(80, 24)
	c.Cleanup(s.Fini)
	return s
}

func content(s tcell.Screen, x, y, n int) string {
	out := make([]rune, n)
	for i := range out {
		r, _, _, _ := s.GetContent(x+i, y)
		out[i] = r
	}
	return string(out)
}

func TestKeyCommand(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		ev   *tcell.EventKey
		want structs.Command
	}{
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), structs.MoveUp},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), structs.MoveLeft},
		{tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone), structs.MoveDown},
		{tcell.NewEventKey(tcell.KeyRune, 'D', tcell.ModNone), structs.MoveRight},
		{tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone), structs.TogglePause},
		{tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), structs.Reset},
		{tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModNone), structs.ToggleWallMode},
	}
	for _, test := range tests {
		got, ok := KeyCommand(test.ev)
		c.Assert(ok, qt.IsTrue)
		c.Assert(got, qt.Equals, test.want)
	}

	_, ok := KeyCommand(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	c.Assert(ok, qt.IsFalse)
	c.Assert(IsQuit(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)), qt.IsTrue)
	c.Assert(IsQuit(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)), qt.IsTrue)
	c.Assert(IsQuit(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone)), qt.IsFalse)
}

func TestDraw(t *testing.T) {
	c := qt.New(t)
	s := newScreen(c)
	snap := structs.Snapshot{
		Snake:     []structs.GridPoint{{X: 8, Y: 7}, {X: 7, Y: 7}, {X: 6, Y: 7}},
		Apple:     structs.GridPoint{X: 2, Y: 3},
		Direction: structs.Right,
		Score:     30,
		BestScore: 120,
		Status:    structs.Running,
		WallMode:  structs.Wrap,
	}
	Draw(s, snap)

	x, y := CellAt(snap.Snake[0])
	c.Assert(content(s, x, y, 2), qt.Equals, ">>")
	x, y = CellAt(snap.Snake[2])
	c.Assert(content(s, x, y, 2), qt.Equals, "[]")
	x, y = CellAt(snap.Apple)
	c.Assert(content(s, x, y, 2), qt.Equals, "()")
	c.Assert(content(s, originX, statusY, 18), qt.Equals, "SCORE 30  BEST 120")
	c.Assert(content(s, buttonX, statusY, 12), qt.Equals, "[WALL: WRAP]")
}

func TestDrawGameOver(t *testing.T) {
	c := qt.New(t)
	s := newScreen(c)
	Draw(s, structs.Snapshot{
		Snake:  []structs.GridPoint{{X: 0, Y: 0}},
		Status: structs.GameOver,
	})

	found := false
	for x := 0; x < 60; x++ {
		if content(s, x, originY+snake.GridHeight/2-1, 9) == "GAME OVER" {
			found = true
		}
	}
	c.Assert(found, qt.IsTrue)
}

func TestHitModeButton(t *testing.T) {
	c := qt.New(t)
	c.Assert(HitModeButton(buttonX, statusY, structs.Classic), qt.IsTrue)
	c.Assert(HitModeButton(buttonX+14, statusY, structs.Classic), qt.IsTrue)
	c.Assert(HitModeButton(buttonX+14, statusY, structs.Wrap), qt.IsFalse)
	c.Assert(HitModeButton(buttonX, statusY+1, structs.Classic), qt.IsFalse)
	c.Assert(HitModeButton(buttonX-1, statusY, structs.Classic), qt.IsFalse)
}

func TestRunForwardsKeys(t *testing.T) {
	c := qt.New(t)
	s := newScreen(c)

	speed := snake.Speed{Base: time.Hour, Step: 4, Decrement: time.Millisecond, Floor: time.Hour}
	loop := shell.NewLoop(shell.NewSession(snake.New(snake.Options{Speed: speed}), shell.Hooks{}), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	done := make(chan error, 1)
	go func() { done <- Run(ctx, s, loop) }()

	s.InjectKey(tcell.KeyRune, 'm', tcell.ModNone)
	deadline := time.Now().Add(5 * time.Second)
	for {
		snap, err := loop.Snapshot(ctx)
		c.Assert(err, qt.IsNil)
		if snap.WallMode == structs.Wrap {
			break
		}
		if time.Now().After(deadline) {
			c.Fatal("wall mode key was not forwarded")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		c.Assert(err, qt.IsNil)
	case <-time.After(5 * time.Second):
		c.Fatal("quit key did not stop the frontend")
	}
}
