package snake

import "github.com/hoshinonyaruko/snake-retro/structs"

// 固定的游戏地图尺寸
const (
	GridWidth  = 20
	GridHeight = 15
)

// Grid is the coordinate space of the playfield.
type Grid struct {
	Width  int
	Height int
}

// DefaultGrid is the fixed 20x15 playfield.
func DefaultGrid() Grid {
	return Grid{Width: GridWidth, Height: GridHeight}
}

// Contains reports whether p lies inside [0,Width)x[0,Height).
func (g Grid) Contains(p structs.GridPoint) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Wrap 确保位置不会超出地图边界，结果总是非负
func (g Grid) Wrap(p structs.GridPoint) structs.GridPoint {
	return structs.GridPoint{X: mod(p.X, g.Width), Y: mod(p.Y, g.Height)}
}

// Clamp pins p to the nearest cell inside the grid.
func (g Grid) Clamp(p structs.GridPoint) structs.GridPoint {
	return structs.GridPoint{X: clamp(p.X, 0, g.Width-1), Y: clamp(p.Y, 0, g.Height-1)}
}

// Step returns the offset from one cell to an adjacent one. Cells that sit on
// opposite edges are treated as neighbours across the wrap seam, so the
// result is a unit step for any pair of cells a snake can link.
func (g Grid) Step(from, to structs.GridPoint) structs.GridPoint {
	return structs.GridPoint{
		X: seam(to.X-from.X, g.Width),
		Y: seam(to.Y-from.Y, g.Height),
	}
}

func seam(d, size int) int {
	if size > 2 {
		if d == size-1 {
			return -1
		}
		if d == -(size - 1) {
			return 1
		}
	}
	return d
}

func mod(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
