package render

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Fit returns the uniform scale and the letterbox offsets that centre the
// logical canvas inside a w x h window.
func Fit(w, h int) (scale, offsetX, offsetY float64) {
	scale = math.Min(float64(w)/LogicalWidth, float64(h)/LogicalHeight)
	offsetX = (float64(w) - LogicalWidth*scale) / 2
	offsetY = (float64(h) - LogicalHeight*scale) / 2
	return scale, offsetX, offsetY
}

// Present scales a logical frame into a w x h image with nearest-neighbour
// sampling, centred on black bars.
func Present(frame image.Image, w, h int) *image.NRGBA {
	dst := imaging.New(w, h, color.Black)
	scale, _, _ := Fit(w, h)
	drawW := int(LogicalWidth * scale)
	drawH := int(LogicalHeight * scale)
	if drawW <= 0 || drawH <= 0 {
		return dst
	}
	scaled := imaging.Resize(frame, drawW, drawH, imaging.NearestNeighbor)
	return imaging.Paste(dst, scaled, image.Pt((w-drawW)/2, (h-drawH)/2))
}

// ToLogical maps a point in a w x h window back to logical canvas
// coordinates. Points on the letterbox bars land outside the canvas.
func ToLogical(p image.Point, w, h int) image.Point {
	scale, offsetX, offsetY := Fit(w, h)
	if scale <= 0 {
		return image.Pt(-1, -1)
	}
	return image.Pt(
		int(math.Floor((float64(p.X)-offsetX)/scale)),
		int(math.Floor((float64(p.Y)-offsetY)/scale)),
	)
}

// HitModeButton reports whether a logical point is on the wall-mode button.
func HitModeButton(p image.Point) bool {
	return p.In(ModeButton)
}
