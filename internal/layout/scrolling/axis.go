package scrolling

import "github.com/Gaurav-Gosain/tessera/internal/geom"

// axis maps logical strip coordinates to the screen. The primary axis runs
// along the strips in the scroll direction, the secondary axis across them.
type axis struct {
	dir  geom.Direction
	area geom.Box
}

func (a axis) horizontal() bool {
	return a.dir == geom.DirectionRight || a.dir == geom.DirectionLeft
}

func (a axis) primary() float64 {
	if a.horizontal() {
		return a.area.W
	}
	return a.area.H
}

func (a axis) secondary() float64 {
	if a.horizontal() {
		return a.area.H
	}
	return a.area.W
}

// box converts a logical rectangle, p and q measured from the viewport start,
// into a screen box.
func (a axis) box(p, pl, q, ql float64) geom.Box {
	wa := a.area
	switch a.dir {
	case geom.DirectionLeft:
		return geom.Box{X: wa.X + wa.W - p - pl, Y: wa.Y + q, W: pl, H: ql}
	case geom.DirectionDown:
		return geom.Box{X: wa.X + q, Y: wa.Y + p, W: ql, H: pl}
	case geom.DirectionUp:
		return geom.Box{X: wa.X + q, Y: wa.Y + wa.H - p - pl, W: ql, H: pl}
	default:
		return geom.Box{X: wa.X + p, Y: wa.Y + q, W: pl, H: ql}
	}
}

// primaryOf returns the logical primary coordinate of a screen point.
func (a axis) primaryOf(pt geom.Vector2D) float64 {
	wa := a.area
	switch a.dir {
	case geom.DirectionLeft:
		return wa.X + wa.W - pt.X
	case geom.DirectionDown:
		return pt.Y - wa.Y
	case geom.DirectionUp:
		return wa.Y + wa.H - pt.Y
	default:
		return pt.X - wa.X
	}
}

func (a axis) secondaryOf(pt geom.Vector2D) float64 {
	if a.horizontal() {
		return pt.Y - a.area.Y
	}
	return pt.X - a.area.X
}

// delta splits a screen delta into primary and secondary components.
func (a axis) delta(d geom.Vector2D) (float64, float64) {
	switch a.dir {
	case geom.DirectionLeft:
		return -d.X, d.Y
	case geom.DirectionDown:
		return d.Y, d.X
	case geom.DirectionUp:
		return -d.Y, d.X
	default:
		return d.X, d.Y
	}
}

// step maps a screen direction to a strip step or an item step.
func (a axis) step(d geom.Direction) (strip, item int) {
	forward, backward := a.dir, opposite(a.dir)
	switch d {
	case forward:
		return 1, 0
	case backward:
		return -1, 0
	case geom.DirectionUp, geom.DirectionLeft:
		return 0, -1
	case geom.DirectionDown, geom.DirectionRight:
		return 0, 1
	}
	return 0, 0
}

// edges reports whether corner grabs the trailing primary edge and the far
// secondary edge of a tile. No corner grabs the bottom right.
func (a axis) edges(c geom.Corner) (trailing, secondaryEnd bool) {
	right := c == geom.CornerNone || !c.Left()
	bottom := c == geom.CornerNone || !c.Top()
	switch a.dir {
	case geom.DirectionLeft:
		return !right, bottom
	case geom.DirectionDown:
		return bottom, right
	case geom.DirectionUp:
		return !bottom, right
	default:
		return right, bottom
	}
}

func opposite(d geom.Direction) geom.Direction {
	switch d {
	case geom.DirectionUp:
		return geom.DirectionDown
	case geom.DirectionDown:
		return geom.DirectionUp
	case geom.DirectionLeft:
		return geom.DirectionRight
	case geom.DirectionRight:
		return geom.DirectionLeft
	}
	return geom.DirectionDefault
}
