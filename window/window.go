package window

import (
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/hoshinonyaruko/snake-retro/render"
	"github.com/hoshinonyaruko/snake-retro/shell"
	"github.com/hoshinonyaruko/snake-retro/structs"
)

var keyCommands = []struct {
	key ebiten.Key
	cmd structs.Command
}{
	{ebiten.KeyArrowUp, structs.MoveUp},
	{ebiten.KeyW, structs.MoveUp},
	{ebiten.KeyArrowRight, structs.MoveRight},
	{ebiten.KeyD, structs.MoveRight},
	{ebiten.KeyArrowDown, structs.MoveDown},
	{ebiten.KeyS, structs.MoveDown},
	{ebiten.KeyArrowLeft, structs.MoveLeft},
	{ebiten.KeyA, structs.MoveLeft},
	{ebiten.KeyP, structs.TogglePause},
	{ebiten.KeyR, structs.Reset},
	{ebiten.KeyM, structs.ToggleWallMode},
}

// Game adapts a Session to ebiten. Ebiten calls Update and Draw from one
// goroutine, so the session is driven directly without a shell.Loop.
type Game struct {
	session  *shell.Session
	renderer *render.Renderer
	clock    *shell.Clock

	canvas        *ebiten.Image
	width, height int
	err           error
}

func New(session *shell.Session, renderer *render.Renderer, blinkEvery time.Duration) *Game {
	return &Game{
		session:  session,
		renderer: renderer,
		clock:    shell.NewClock(blinkEvery),
		width:    render.LogicalWidth,
		height:   render.LogicalHeight,
	}
}

func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for _, kc := range keyCommands {
		if inpututil.IsKeyJustPressed(kc.key) {
			g.apply(kc.cmd)
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.click(x, y)
	}
	g.step(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

func (g *Game) apply(cmd structs.Command) {
	g.session.Apply(cmd)
	if cmd == structs.Reset {
		g.clock.Restart()
	}
}

// click handles a left click at window coordinates.
func (g *Game) click(x, y int) {
	p := render.ToLogical(image.Pt(x, y), g.width, g.height)
	if render.HitModeButton(p) {
		g.session.Apply(structs.ToggleWallMode)
	}
}

// step advances the clock by dt and runs the ticks and blinks that fall due.
func (g *Game) step(dt time.Duration) {
	g.clock.Advance(dt)
	for g.clock.TakeTick(g.session.Game().Interval()) {
		g.session.Tick()
	}
	for g.clock.TakeBlink() {
		g.session.ToggleBlink()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	frame, err := g.renderer.Frame(g.session.Game(), g.session.Blink())
	if err != nil {
		// Update 会返回这个错误并结束游戏
		g.err = err
		return
	}
	if g.canvas == nil {
		g.canvas = ebiten.NewImage(render.LogicalWidth, render.LogicalHeight)
	}
	g.canvas.WritePixels(frame.Pix)

	screen.Fill(color.Black)
	scale, offsetX, offsetY := render.Fit(g.width, g.height)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(g.canvas, op)
}

// Layout keeps the screen at window resolution; Draw does the letterboxing.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.width, g.height = outsideWidth, outsideHeight
	}
	return g.width, g.height
}

// Run opens the window at scale times the logical size and blocks until it
// is closed.
func Run(g *Game, scale int) error {
	if scale <= 0 {
		scale = 1
	}
	ebiten.SetWindowSize(render.LogicalWidth*scale, render.LogicalHeight*scale)
	ebiten.SetWindowTitle("Snake")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err := ebiten.RunGame(g)
	if err == ebiten.Termination {
		return nil
	}
	return err
}
