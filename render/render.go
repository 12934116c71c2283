// Package render draws a game onto the fixed 320x300 logical canvas.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/snake-retro/memimg"
	"github.com/hoshinonyaruko/snake-retro/snake"
	"github.com/hoshinonyaruko/snake-retro/structs"
)

// Logical canvas layout.
const (
	LogicalWidth  = 320
	LogicalHeight = 300
	TileSize      = 16
	UITop         = 240
	PanelHeight   = 60
)

// ModeButton is the clickable wall-mode button in logical coordinates.
var ModeButton = image.Rect(198, UITop+17, 198+112, UITop+17+28)

var tileNames = []string{"grass_a", "grass_b", "dirt_a", "moss_a", "stone_a"}

var (
	borderColor    = color.RGBA{18, 17, 17, 255}
	scoreColor     = color.RGBA{232, 225, 203, 255}
	bestColor      = color.RGBA{200, 182, 130, 255}
	hintColor      = color.RGBA{164, 157, 142, 255}
	pauseColor     = color.RGBA{245, 227, 129, 255}
	gameOverColor  = color.RGBA{248, 144, 127, 255}
	buttonText     = color.RGBA{235, 219, 185, 255}
	panelDark      = color.RGBA{86, 80, 66, 255}
	panelMid       = color.RGBA{122, 113, 93, 255}
	panelLight     = color.RGBA{165, 152, 123, 255}
	buttonDark     = color.RGBA{54, 49, 41, 255}
	buttonMid      = color.RGBA{87, 79, 66, 255}
	buttonLight    = color.RGBA{123, 114, 94, 255}
	backgroundFill = color.RGBA{0, 0, 0, 255}
)

// Sprites is the sprite lookup the renderer draws from.
type Sprites interface {
	Sprite(category memimg.Category, name string) (*memimg.Sprite, error)
	Palette() *memimg.Palette
}

// View is the read-only game state a frame is drawn from.
type View interface {
	Snake() []structs.GridPoint
	Direction() structs.Direction
	Apple() structs.GridPoint
	Score() int
	BestScore() int
	WallMode() structs.WallMode
	Status() structs.Status
	Grid() snake.Grid
}

// Renderer turns a View into pixels. It holds no game state.
type Renderer struct {
	sprites Sprites
}

func New(sprites Sprites) *Renderer {
	return &Renderer{sprites: sprites}
}

// RequiredSprites lists every sprite a frame can use, for preloading.
func RequiredSprites() []memimg.Ref {
	refs := make([]memimg.Ref, 0, 32)
	for _, name := range tileNames {
		refs = append(refs, memimg.Ref{Category: memimg.Tiles, Name: name})
	}
	for _, role := range []structs.Role{structs.Head, structs.Turn, structs.Tail} {
		for _, d := range structs.Directions {
			shape := structs.Shape{Role: role, Orientation: d}
			refs = append(refs, memimg.Ref{Category: memimg.Snake, Name: shape.SpriteName()})
		}
	}
	for _, d := range []structs.Direction{structs.Up, structs.Right} {
		shape := structs.Shape{Role: structs.Body, Orientation: d}
		refs = append(refs, memimg.Ref{Category: memimg.Snake, Name: shape.SpriteName()})
	}
	return append(refs,
		memimg.Ref{Category: memimg.Items, Name: "apple_blink_a"},
		memimg.Ref{Category: memimg.Items, Name: "apple_blink_b"},
		memimg.Ref{Category: memimg.UI, Name: "icon_apple"},
		memimg.Ref{Category: memimg.UI, Name: "icon_trophy"},
	)
}

// TileName is the background tile of a cell. It only depends on the cell
// coordinates, so every frame draws the same floor.
func TileName(x, y int) string {
	return tileNames[(x*13+y*17)%len(tileNames)]
}

// Frame draws one logical frame. blink selects the apple sprite.
func (r *Renderer) Frame(v View, blink bool) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, LogicalWidth, LogicalHeight))
	dc := gg.NewContextForRGBA(img)
	dc.SetColor(backgroundFill)
	dc.Clear()

	if err := r.drawBackground(dc, img, v.Grid()); err != nil {
		return nil, err
	}
	if err := r.drawSnake(img, v); err != nil {
		return nil, err
	}
	if err := r.drawApple(img, v.Apple(), blink); err != nil {
		return nil, err
	}
	if err := r.drawUI(dc, img, v); err != nil {
		return nil, err
	}
	return img, nil
}

func (r *Renderer) drawBackground(dc *gg.Context, img *image.RGBA, grid snake.Grid) error {
	palette := r.sprites.Palette()
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			sprite, err := r.sprites.Sprite(memimg.Tiles, TileName(x, y))
			if err != nil {
				return err
			}
			DrawSprite(img, sprite, palette, x*TileSize, y*TileSize, 1)
		}
	}

	w, h := grid.Width*TileSize, grid.Height*TileSize
	fillRect(dc, 0, 0, w, 2, borderColor)
	fillRect(dc, 0, h-2, w, 2, borderColor)
	fillRect(dc, 0, 0, 2, h, borderColor)
	fillRect(dc, w-2, 0, 2, h, borderColor)
	return nil
}

func (r *Renderer) drawSnake(img *image.RGBA, v View) error {
	palette := r.sprites.Palette()
	body := v.Snake()
	shapes := snake.Shapes(body, v.Direction(), v.Grid())
	for i, p := range body {
		sprite, err := r.sprites.Sprite(memimg.Snake, shapes[i].SpriteName())
		if err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
		DrawSprite(img, sprite, palette, p.X*TileSize, p.Y*TileSize, 1)
	}
	return nil
}

func (r *Renderer) drawApple(img *image.RGBA, apple structs.GridPoint, blink bool) error {
	name := "apple_blink_b"
	if blink {
		name = "apple_blink_a"
	}
	sprite, err := r.sprites.Sprite(memimg.Items, name)
	if err != nil {
		return err
	}
	DrawSprite(img, sprite, r.sprites.Palette(), apple.X*TileSize, apple.Y*TileSize, 1)
	return nil
}

func (r *Renderer) drawUI(dc *gg.Context, img *image.RGBA, v View) error {
	drawPanel(dc, img)

	palette := r.sprites.Palette()
	for _, icon := range []struct {
		name string
		y    int
	}{{"icon_apple", UITop + 9}, {"icon_trophy", UITop + 33}} {
		sprite, err := r.sprites.Sprite(memimg.UI, icon.name)
		if err != nil {
			return err
		}
		DrawSprite(img, sprite, palette, 8, icon.y, 1)
	}

	DrawText(img, fmt.Sprintf("SCORE: %d", v.Score()), 26, UITop+10, 1, scoreColor)
	DrawText(img, fmt.Sprintf("BEST: %d", v.BestScore()), 26, UITop+34, 1, bestColor)
	DrawText(img, "P PAUSE", 120, UITop+10, 1, hintColor)
	DrawText(img, "R RESET", 120, UITop+34, 1, hintColor)

	drawModeButton(dc, img, v.WallMode())

	switch v.Status() {
	case structs.Paused:
		DrawText(img, "PAUSED", centered("PAUSED", 3), 108, 3, pauseColor)
	case structs.GameOver:
		DrawText(img, "GAME OVER", centered("GAME OVER", 3), 100, 3, gameOverColor)
		DrawText(img, "R - RESTART", centered("R - RESTART", 2), 148, 2, scoreColor)
	}
	return nil
}

func drawPanel(dc *gg.Context, img *image.RGBA) {
	rect := image.Rect(0, UITop, LogicalWidth, UITop+PanelHeight)
	draw.Draw(img, rect, image.NewUniform(panelMid), image.Point{}, draw.Src)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, panelDark)
			}
		}
	}
	fillRect(dc, rect.Min.X, rect.Min.Y, rect.Dx(), 2, panelLight)
	fillRect(dc, rect.Min.X, rect.Min.Y, 2, rect.Dy(), panelLight)
	fillRect(dc, rect.Min.X, rect.Max.Y-2, rect.Dx(), 2, borderColor)
	fillRect(dc, rect.Max.X-2, rect.Min.Y, 2, rect.Dy(), borderColor)
}

func drawModeButton(dc *gg.Context, img *image.RGBA, mode structs.WallMode) {
	rect := ModeButton
	fillRect(dc, rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy(), buttonMid)
	fillRect(dc, rect.Min.X, rect.Min.Y, rect.Dx(), 2, buttonLight)
	fillRect(dc, rect.Min.X, rect.Min.Y, 2, rect.Dy(), buttonLight)
	fillRect(dc, rect.Min.X, rect.Max.Y-2, rect.Dx(), 2, buttonDark)
	fillRect(dc, rect.Max.X-2, rect.Min.Y, 2, rect.Dy(), buttonDark)

	label := "WALL: CLASSIC"
	if mode == structs.Wrap {
		label = "WALL: WRAP"
	}
	DrawText(img, label, rect.Min.X+8, rect.Min.Y+8, 1, buttonText)
}

func fillRect(dc *gg.Context, x, y, w, h int, c color.Color) {
	dc.SetColor(c)
	dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	dc.Fill()
}

// DrawSprite paints each coloured symbol of s as a pixelSize square at
// (x, y). Transparent symbols are skipped.
func DrawSprite(dst *image.RGBA, s *memimg.Sprite, p *memimg.Palette, x, y, pixelSize int) {
	for row := 0; row < s.Height; row++ {
		for col := 0; col < s.Width; col++ {
			c, ok := p.Color(s.Pixels[row][col])
			if !ok {
				continue
			}
			px, py := x+col*pixelSize, y+row*pixelSize
			if pixelSize == 1 {
				dst.Set(px, py, c)
				continue
			}
			draw.Draw(dst, image.Rect(px, py, px+pixelSize, py+pixelSize), image.NewUniform(c), image.Point{}, draw.Src)
		}
	}
}
