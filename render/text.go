package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Bitmap font metrics of basicfont.Face7x13.
const (
	glyphWidth  = 7
	glyphHeight = 13
	glyphAscent = 11
)

// TextSize is the pixel size of s drawn at scale.
func TextSize(s string, scale int) (int, int) {
	return len([]rune(s)) * glyphWidth * scale, glyphHeight * scale
}

func centered(s string, scale int) int {
	w, _ := TextSize(s, scale)
	return (LogicalWidth - w) / 2
}

// DrawText writes s with its top-left corner at (x, y). Glyphs are drawn at
// 1x and blown up with nearest-neighbour so they stay crisp.
func DrawText(dst *image.RGBA, s string, x, y, scale int, c color.Color) {
	if s == "" || scale < 1 {
		return
	}
	w, h := TextSize(s, 1)
	dc := gg.NewContext(w, h)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(c)
	dc.DrawString(s, 0, glyphAscent)

	var glyphs image.Image = dc.Image()
	if scale > 1 {
		glyphs = imaging.Resize(glyphs, w*scale, h*scale, imaging.NearestNeighbor)
	}
	draw.Draw(dst, image.Rect(x, y, x+w*scale, y+h*scale), glyphs, image.Point{}, draw.Over)
}
