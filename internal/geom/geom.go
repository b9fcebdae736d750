// Package geom provides the vector and rectangle math shared by the layout
// engine, the drag controller and the desktop model.
package geom

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used when comparing layout coordinates.
const Epsilon = 1e-6

// Vector2D is a point or a size in logical pixels.
type Vector2D struct {
	X, Y float64
}

// Vec is shorthand for Vector2D{x, y}.
func Vec(x, y float64) Vector2D { return Vector2D{X: x, Y: y} }

func (v Vector2D) Add(o Vector2D) Vector2D { return Vector2D{v.X + o.X, v.Y + o.Y} }
func (v Vector2D) Sub(o Vector2D) Vector2D { return Vector2D{v.X - o.X, v.Y - o.Y} }
func (v Vector2D) Scale(f float64) Vector2D { return Vector2D{v.X * f, v.Y * f} }
func (v Vector2D) Round() Vector2D { return Vector2D{math.Round(v.X), math.Round(v.Y)} }

// Distance returns the euclidean distance between v and o.
func (v Vector2D) Distance(o Vector2D) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Clamp limits v component-wise to [lo, hi]. A zero component in hi means
// unbounded on that axis.
func (v Vector2D) Clamp(lo, hi Vector2D) Vector2D {
	out := v
	out.X = math.Max(out.X, lo.X)
	out.Y = math.Max(out.Y, lo.Y)
	if hi.X > 0 {
		out.X = math.Min(out.X, hi.X)
	}
	if hi.Y > 0 {
		out.Y = math.Min(out.Y, hi.Y)
	}
	return out
}

// IsZero reports whether both components are zero.
func (v Vector2D) IsZero() bool { return v.X == 0 && v.Y == 0 }

func (v Vector2D) String() string { return fmt.Sprintf("[%g, %g]", v.X, v.Y) }

// Box is an axis aligned rectangle in global logical coordinates.
type Box struct {
	X, Y, W, H float64
}

// BoxFrom builds a box from a position and a size.
func BoxFrom(pos, size Vector2D) Box {
	return Box{X: pos.X, Y: pos.Y, W: size.X, H: size.Y}
}

func (b Box) Pos() Vector2D { return Vector2D{b.X, b.Y} }
func (b Box) Size() Vector2D { return Vector2D{b.W, b.H} }

// Extent returns the bottom-right corner.
func (b Box) Extent() Vector2D { return Vector2D{b.X + b.W, b.Y + b.H} }

// Middle returns the center point.
func (b Box) Middle() Vector2D { return Vector2D{b.X + b.W/2, b.Y + b.H/2} }

func (b Box) Translate(d Vector2D) Box {
	return Box{X: b.X + d.X, Y: b.Y + d.Y, W: b.W, H: b.H}
}

// Round rounds the position and the extent so adjacent boxes stay adjacent.
func (b Box) Round() Box {
	x, y := math.Round(b.X), math.Round(b.Y)
	return Box{X: x, Y: y, W: math.Round(b.X+b.W) - x, H: math.Round(b.Y+b.H) - y}
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool { return b.W <= 0 || b.H <= 0 }

// Contains reports whether p lies in the box. The right and bottom edges are
// exclusive so a point on a shared edge belongs to exactly one box.
func (b Box) Contains(p Vector2D) bool {
	return p.X >= b.X && p.X < b.X+b.W && p.Y >= b.Y && p.Y < b.Y+b.H
}

// Intersects reports whether the two boxes overlap with positive area.
func (b Box) Intersects(o Box) bool {
	return b.X < o.X+o.W && o.X < b.X+b.W && b.Y < o.Y+o.H && o.Y < b.Y+b.H
}

// Intersection returns the overlapping region, or an empty box.
func (b Box) Intersection(o Box) Box {
	x1, y1 := math.Max(b.X, o.X), math.Max(b.Y, o.Y)
	x2, y2 := math.Min(b.X+b.W, o.X+o.W), math.Min(b.Y+b.H, o.Y+o.H)
	if x2 <= x1 || y2 <= y1 {
		return Box{}
	}
	return Box{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// DistanceTo returns the distance from p to the closest point of the box,
// zero when p is inside.
func (b Box) DistanceTo(p Vector2D) float64 {
	dx := math.Max(math.Max(b.X-p.X, 0), p.X-(b.X+b.W))
	dy := math.Max(math.Max(b.Y-p.Y, 0), p.Y-(b.Y+b.H))
	return math.Hypot(dx, dy)
}

// Expand grows the box by n on every side. Negative n shrinks it.
func (b Box) Expand(n float64) Box {
	return Box{X: b.X - n, Y: b.Y - n, W: b.W + 2*n, H: b.H + 2*n}
}

// AddExtents grows the box by the given decoration extents.
func (b Box) AddExtents(e Extents) Box {
	return Box{
		X: b.X - e.TopLeft.X,
		Y: b.Y - e.TopLeft.Y,
		W: b.W + e.TopLeft.X + e.BottomRight.X,
		H: b.H + e.TopLeft.Y + e.BottomRight.Y,
	}
}

// SubExtents is the inverse of AddExtents.
func (b Box) SubExtents(e Extents) Box {
	return Box{
		X: b.X + e.TopLeft.X,
		Y: b.Y + e.TopLeft.Y,
		W: b.W - e.TopLeft.X - e.BottomRight.X,
		H: b.H - e.TopLeft.Y - e.BottomRight.Y,
	}
}

// ApproxEqual compares two boxes with Epsilon tolerance.
func (b Box) ApproxEqual(o Box) bool {
	return math.Abs(b.X-o.X) < Epsilon && math.Abs(b.Y-o.Y) < Epsilon &&
		math.Abs(b.W-o.W) < Epsilon && math.Abs(b.H-o.H) < Epsilon
}

func (b Box) String() string {
	return fmt.Sprintf("(%g, %g %gx%g)", b.X, b.Y, b.W, b.H)
}

// Extents describes the space decorations take around a logical box.
type Extents struct {
	TopLeft     Vector2D
	BottomRight Vector2D
}

// UniformExtents returns extents of n on every side.
func UniformExtents(n float64) Extents {
	return Extents{TopLeft: Vector2D{n, n}, BottomRight: Vector2D{n, n}}
}

// Clamp limits f to [lo, hi].
func Clamp(f, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, f))
}
