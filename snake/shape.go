package snake

import "github.com/hoshinonyaruko/snake-retro/structs"

// ResolveShape picks the sprite role and orientation for body[i]. heading is
// the current movement direction, used for the head. It is a pure function
// of its arguments.
func ResolveShape(body []structs.GridPoint, i int, heading structs.Direction, grid Grid) structs.Shape {
	if i == 0 {
		return structs.Shape{Role: structs.Head, Orientation: heading}
	}
	cur := body[i]
	prev := body[i-1]
	if i == len(body)-1 {
		return structs.Shape{Role: structs.Tail, Orientation: towards(grid.Step(cur, prev))}
	}

	next := body[i+1]
	if prev.X == next.X || prev.Y == next.Y {
		if prev.X == next.X {
			return structs.Shape{Role: structs.Body, Orientation: structs.Up}
		}
		return structs.Shape{Role: structs.Body, Orientation: structs.Right}
	}
	return structs.Shape{Role: structs.Turn, Orientation: corner(grid.Step(cur, prev), grid.Step(cur, next))}
}

// Shapes resolves every segment of body.
func Shapes(body []structs.GridPoint, heading structs.Direction, grid Grid) []structs.Shape {
	shapes := make([]structs.Shape, len(body))
	for i := range body {
		shapes[i] = ResolveShape(body, i, heading, grid)
	}
	return shapes
}

// towards converts a unit offset into the direction it points.
func towards(d structs.GridPoint) structs.Direction {
	switch {
	case d.X < 0:
		return structs.Left
	case d.X > 0:
		return structs.Right
	case d.Y < 0:
		return structs.Up
	default:
		return structs.Down
	}
}

// corner names the turn sprite from the offsets of the previous and next
// segment. Only four corners exist on a 4-connected grid; the last one is
// the fallthrough.
func corner(from, to structs.GridPoint) structs.Direction {
	switch {
	case (from.X == -1 && to.Y == -1) || (to.X == -1 && from.Y == -1):
		return structs.Up
	case (from.X == 1 && to.Y == -1) || (to.X == 1 && from.Y == -1):
		return structs.Right
	case (from.X == 1 && to.Y == 1) || (to.X == 1 && from.Y == 1):
		return structs.Down
	default:
		return structs.Left
	}
}
