package geom

import (
	"fmt"
	"strings"
)

// Corner identifies a rectangle corner grabbed during a resize.
type Corner int

const (
	CornerNone Corner = iota
	CornerTopLeft
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft
)

// CornerMask is a set of corners, used by snapping to tell which edges move.
type CornerMask uint8

const (
	MaskTopLeft CornerMask = 1 << iota
	MaskTopRight
	MaskBottomRight
	MaskBottomLeft

	MaskAll = MaskTopLeft | MaskTopRight | MaskBottomRight | MaskBottomLeft
)

// Mask converts a single corner to its mask bit. CornerNone maps to no bits.
func (c Corner) Mask() CornerMask {
	switch c {
	case CornerTopLeft:
		return MaskTopLeft
	case CornerTopRight:
		return MaskTopRight
	case CornerBottomRight:
		return MaskBottomRight
	case CornerBottomLeft:
		return MaskBottomLeft
	}
	return 0
}

// Left reports whether the corner is on the left edge.
func (c Corner) Left() bool { return c == CornerTopLeft || c == CornerBottomLeft }

// Top reports whether the corner is on the top edge.
func (c Corner) Top() bool { return c == CornerTopLeft || c == CornerTopRight }

func (c Corner) String() string {
	switch c {
	case CornerTopLeft:
		return "topleft"
	case CornerTopRight:
		return "topright"
	case CornerBottomRight:
		return "bottomright"
	case CornerBottomLeft:
		return "bottomleft"
	}
	return "none"
}

// ParseCorner accepts the names produced by Corner.String plus short forms.
func ParseCorner(s string) (Corner, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CornerNone, nil
	case "topleft", "tl":
		return CornerTopLeft, nil
	case "topright", "tr":
		return CornerTopRight, nil
	case "bottomright", "br":
		return CornerBottomRight, nil
	case "bottomleft", "bl":
		return CornerBottomLeft, nil
	}
	return CornerNone, fmt.Errorf("invalid corner %q", s)
}

// CornerFor returns the corner of box closest to p, split at the middle.
func CornerFor(box Box, p Vector2D) Corner {
	mid := box.Middle()
	left, top := p.X < mid.X, p.Y < mid.Y
	switch {
	case left && top:
		return CornerTopLeft
	case !left && top:
		return CornerTopRight
	case left && !top:
		return CornerBottomLeft
	default:
		return CornerBottomRight
	}
}

// Direction is a cardinal direction used by directional moves and preselection.
type Direction int

const (
	DirectionDefault Direction = iota
	DirectionUp
	DirectionRight
	DirectionDown
	DirectionLeft
)

// ParseDirection accepts l/r/u/d, t/b and the full names.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "l", "left":
		return DirectionLeft, nil
	case "r", "right":
		return DirectionRight, nil
	case "u", "t", "up", "top":
		return DirectionUp, nil
	case "d", "b", "down", "bottom":
		return DirectionDown, nil
	}
	return DirectionDefault, fmt.Errorf("invalid direction %q", s)
}

// Horizontal reports whether the direction is left or right.
func (d Direction) Horizontal() bool { return d == DirectionLeft || d == DirectionRight }

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionRight:
		return "right"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	}
	return "default"
}

// EdgeFocal returns a point one pixel outside the midpoint of the box edge
// facing d.
func EdgeFocal(b Box, d Direction) Vector2D {
	switch d {
	case DirectionUp:
		return Vector2D{b.X + b.W/2, b.Y - 1}
	case DirectionDown:
		return Vector2D{b.X + b.W/2, b.Y + b.H + 1}
	case DirectionLeft:
		return Vector2D{b.X - 1, b.Y + b.H/2}
	case DirectionRight:
		return Vector2D{b.X + b.W + 1, b.Y + b.H/2}
	}
	return b.Middle()
}
