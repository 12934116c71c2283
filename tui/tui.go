package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/hoshinonyaruko/snake-retro/shell"
	"github.com/hoshinonyaruko/snake-retro/snake"
	"github.com/hoshinonyaruko/snake-retro/structs"
)

const (
	// 每个格子占两列，终端字符大约是半个正方形
	cellWidth = 2

	originX = 1
	originY = 1

	statusY = originY + snake.GridHeight + 1
	hintY   = statusY + 1
	buttonX = originX + 28
)

var (
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleGrass  = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	styleSnake  = tcell.StyleDefault.Foreground(tcell.ColorLime)
	styleHead   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleApple  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleButton = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleBanner = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorMaroon).Bold(true)
)

var headGlyphs = map[structs.Direction]string{
	structs.Up:    "^^",
	structs.Right: ">>",
	structs.Down:  "vv",
	structs.Left:  "<<",
}

// KeyCommand maps a key press to a game command: arrows and WASD steer,
// P pauses, R resets and M toggles the wall mode.
func KeyCommand(ev *tcell.EventKey) (structs.Command, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return structs.MoveUp, true
	case tcell.KeyRight:
		return structs.MoveRight, true
	case tcell.KeyDown:
		return structs.MoveDown, true
	case tcell.KeyLeft:
		return structs.MoveLeft, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return structs.MoveUp, true
		case 'd', 'D':
			return structs.MoveRight, true
		case 's', 'S':
			return structs.MoveDown, true
		case 'a', 'A':
			return structs.MoveLeft, true
		case 'p', 'P':
			return structs.TogglePause, true
		case 'r', 'R':
			return structs.Reset, true
		case 'm', 'M':
			return structs.ToggleWallMode, true
		}
	}
	return structs.MoveUp, false
}

// IsQuit reports whether the key ends the program.
func IsQuit(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return true
	}
	return ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')
}

func modeLabel(mode structs.WallMode) string {
	if mode == structs.Wrap {
		return "[WALL: WRAP]"
	}
	return "[WALL: CLASSIC]"
}

// HitModeButton reports whether the terminal cell (x, y) is on the wall
// mode label.
func HitModeButton(x, y int, mode structs.WallMode) bool {
	return y == statusY && x >= buttonX && x < buttonX+len(modeLabel(mode))
}

// CellAt returns the screen column and row of the left half of a grid cell.
func CellAt(p structs.GridPoint) (int, int) {
	return originX + 1 + p.X*cellWidth, originY + p.Y
}

func drawString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}

// Draw paints snap onto the screen and shows it.
func Draw(s tcell.Screen, snap structs.Snapshot) {
	s.Clear()

	right := originX + 1 + snake.GridWidth*cellWidth
	bottom := originY + snake.GridHeight
	for x := originX; x <= right; x++ {
		s.SetContent(x, originY-1, '-', nil, styleBorder)
		s.SetContent(x, bottom, '-', nil, styleBorder)
	}
	for y := originY - 1; y <= bottom; y++ {
		s.SetContent(originX, y, '|', nil, styleBorder)
		s.SetContent(right, y, '|', nil, styleBorder)
	}

	for y := 0; y < snake.GridHeight; y++ {
		for x := 0; x < snake.GridWidth; x++ {
			cx, cy := CellAt(structs.GridPoint{X: x, Y: y})
			drawString(s, cx, cy, " .", styleGrass)
		}
	}

	ax, ay := CellAt(snap.Apple)
	apple := styleApple
	if snap.Blink {
		apple = apple.Bold(true)
	}
	drawString(s, ax, ay, "()", apple)

	for i := len(snap.Snake) - 1; i >= 0; i-- {
		cx, cy := CellAt(snap.Snake[i])
		if i == 0 {
			drawString(s, cx, cy, headGlyphs[snap.Direction], styleHead)
		} else {
			drawString(s, cx, cy, "[]", styleSnake)
		}
	}

	drawString(s, originX, statusY, fmt.Sprintf("SCORE %d  BEST %d", snap.Score, snap.BestScore), styleText)
	drawString(s, buttonX, statusY, modeLabel(snap.WallMode), styleButton)
	drawString(s, originX, hintY, "ARROWS/WASD MOVE  P PAUSE  R RESET  M WALL  Q QUIT", styleText)

	switch snap.Status {
	case structs.Paused:
		banner(s, originY+snake.GridHeight/2, " PAUSED ")
	case structs.GameOver:
		banner(s, originY+snake.GridHeight/2-1, " GAME OVER ")
		banner(s, originY+snake.GridHeight/2+1, " R - RESTART ")
	}

	s.Show()
}

func banner(s tcell.Screen, y int, text string) {
	width := snake.GridWidth*cellWidth + 2
	drawString(s, originX+(width-len(text))/2, y, text, styleBanner)
}

// Run drives the terminal until ctx ends or the player quits. The screen
// must already be initialised; the caller calls Fini.
func Run(ctx context.Context, screen tcell.Screen, loop *shell.Loop) error {
	screen.EnableMouse()
	screen.HideCursor()

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	updates, cancel := loop.Subscribe()
	defer cancel()

	snap, err := loop.Snapshot(ctx)
	if err != nil {
		return err
	}
	Draw(screen, snap)

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap = <-updates:
			Draw(screen, snap)
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if IsQuit(ev) {
					return nil
				}
				if cmd, ok := KeyCommand(ev); ok {
					if err := loop.Send(ctx, cmd); err != nil {
						return err
					}
				}
			case *tcell.EventMouse:
				x, y := ev.Position()
				if ev.Buttons()&tcell.Button1 != 0 && HitModeButton(x, y, snap.WallMode) {
					if err := loop.Send(ctx, structs.ToggleWallMode); err != nil {
						return err
					}
				}
			case *tcell.EventResize:
				screen.Sync()
				Draw(screen, snap)
			}
		}
	}
}
