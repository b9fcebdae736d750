package drag

import (
	"math"

	"github.com/Gaurav-Gosain/tessera/internal/config"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
)

type snapEdges uint8

const (
	snapLeft snapEdges = 1 << iota
	snapRight
	snapUp
	snapDown
)

// span is a closed interval on one axis.
type span struct{ start, end float64 }

func canSnap(a, b, gap float64) bool { return math.Abs(a-b) < gap }

// Obstacle is another window the dragged box can snap to.
type Obstacle struct {
	Box    geom.Box
	Border float64
}

// SnapInput is everything a snap pass looks at besides the proposed box.
type SnapInput struct {
	Config config.SnapConfig
	Mode   Mode
	// Corners are the edges that move. Move mode passes geom.MaskAll.
	Corners geom.CornerMask
	// BeginSize is the box size at pickup, the ratio for ForceRatio.
	BeginSize geom.Vector2D
	Border    float64
	Others    []Obstacle
	// Work is the rectangle monitor snapping aims for, Monitor the raw
	// output box.
	Work    geom.Box
	Monitor geom.Box
}

// Snap aligns the proposed box with nearby window edges, then with the
// monitor edges. Move mode translates the box; resize modes hold the edge
// opposite the grabbed corner.
func Snap(box geom.Box, in SnapInput) geom.Box {
	x := span{box.X, box.X + box.W}
	y := span{box.Y, box.Y + box.H}

	snapTo := snapResize
	if in.Mode == ModeMove {
		snapTo = snapMove
	}
	left := in.Corners&(geom.MaskTopLeft|geom.MaskBottomLeft) != 0
	right := in.Corners&(geom.MaskTopRight|geom.MaskBottomRight) != 0
	up := in.Corners&(geom.MaskTopLeft|geom.MaskTopRight) != 0
	down := in.Corners&(geom.MaskBottomLeft|geom.MaskBottomRight) != 0

	var snapped snapEdges
	cfg := in.Config

	if gap := cfg.WindowGap; gap > 0 {
		for _, o := range in.Others {
			border := in.Border + o.Border
			if cfg.BorderOverlap {
				border = math.Max(in.Border, o.Border)
			}
			ox := span{o.Box.X - border, o.Box.X + o.Box.W + border}
			oy := span{o.Box.Y - border, o.Box.Y + o.Box.H + border}

			// Edges only snap when the boxes overlap on the other axis.
			if y.start <= oy.end && oy.start <= y.end {
				if left && canSnap(x.start, ox.end, gap) {
					snapTo(&x.start, &x.end, ox.end)
					snapped |= snapLeft
				} else if right && canSnap(x.end, ox.start, gap) {
					snapTo(&x.end, &x.start, ox.start)
					snapped |= snapRight
				}
			}
			if x.start <= ox.end && ox.start <= x.end {
				if up && canSnap(y.start, oy.end, gap) {
					snapTo(&y.start, &y.end, oy.end)
					snapped |= snapUp
				} else if down && canSnap(y.end, oy.start, gap) {
					snapTo(&y.end, &y.start, oy.start)
					snapped |= snapDown
				}
			}

			// Corners: once flush on one axis, line up the ends on the other.
			diff := o.Border - in.Border
			if x.start == ox.end || ox.start == x.end {
				oys := span{oy.start + diff, oy.end - diff}
				if up && canSnap(y.start, oys.start, gap) {
					snapTo(&y.start, &y.end, oys.start)
					snapped |= snapUp
				} else if down && canSnap(y.end, oys.end, gap) {
					snapTo(&y.end, &y.start, oys.end)
					snapped |= snapDown
				}
			}
			if y.start == oy.end || oy.start == y.end {
				oxs := span{ox.start + diff, ox.end - diff}
				if left && canSnap(x.start, oxs.start, gap) {
					snapTo(&x.start, &x.end, oxs.start)
					snapped |= snapLeft
				} else if right && canSnap(x.end, oxs.end, gap) {
					snapTo(&x.end, &x.start, oxs.end)
					snapped |= snapRight
				}
			}
		}
	}

	if gap := cfg.MonitorGap; gap > 0 {
		inset := in.Border
		if cfg.BorderOverlap {
			inset = 0
		}
		work, mon := in.Work, in.Monitor
		if mon.Empty() {
			mon = work
		}
		pick := func(v, workEdge, monEdge float64) (float64, bool) {
			if canSnap(v, workEdge, gap) {
				return workEdge, true
			}
			if workEdge != monEdge && canSnap(v, monEdge, gap) {
				return monEdge, true
			}
			return 0, false
		}

		if p, ok := pick(x.start, work.X+inset, mon.X+inset); left && ok {
			snapTo(&x.start, &x.end, p)
			snapped |= snapLeft
		}
		if p, ok := pick(x.end, work.X+work.W-inset, mon.X+mon.W-inset); right && ok {
			snapTo(&x.end, &x.start, p)
			snapped |= snapRight
		}
		if p, ok := pick(y.start, work.Y+inset, mon.Y+inset); up && ok {
			snapTo(&y.start, &y.end, p)
			snapped |= snapUp
		}
		if p, ok := pick(y.end, work.Y+work.H-inset, mon.Y+mon.H-inset); down && ok {
			snapTo(&y.end, &y.start, p)
			snapped |= snapDown
		}
	}

	if in.Mode == ModeResizeForceRatio && in.BeginSize.X > 0 && in.BeginSize.Y > 0 {
		switch {
		case (left && snapped&snapLeft != 0) || (right && snapped&snapRight != 0):
			h := (x.end - x.start) * in.BeginSize.Y / in.BeginSize.X
			if up {
				y.start = y.end - h
			} else {
				y.end = y.start + h
			}
		case (up && snapped&snapUp != 0) || (down && snapped&snapDown != 0):
			w := (y.end - y.start) * in.BeginSize.X / in.BeginSize.Y
			if left {
				x.start = x.end - w
			} else {
				x.end = x.start + w
			}
		}
	}

	return geom.Box{X: x.start, Y: y.start, W: x.end - x.start, H: y.end - y.start}
}

func snapMove(start, end *float64, p float64) {
	*end = p + (*end - *start)
	*start = p
}

func snapResize(start, _ *float64, p float64) {
	*start = p
}

// snapInputFor collects the obstacles and bounds t snaps against in its
// space. Only tiled targets are obstacles.
func snapInputFor(t *layout.Target, mode Mode, corners geom.CornerMask, beginSize geom.Vector2D) SnapInput {
	s := t.Space()
	cfg := s.Env().Config()
	in := SnapInput{
		Config:    cfg.General.Snap,
		Mode:      mode,
		Corners:   corners,
		BeginSize: beginSize,
		Border:    borderOf(t),
		Monitor:   s.MonitorBox(),
	}

	in.Work = s.WorkArea()
	if !cfg.General.Snap.RespectGaps {
		in.Work = in.Work.Expand(cfg.General.GapsOut)
	}

	for _, o := range s.Targets() {
		if o == t || o.Floating() || o.Hidden() || !o.Alive() {
			continue
		}
		in.Others = append(in.Others, Obstacle{Box: o.Box(), Border: borderOf(o)})
	}
	return in
}

func borderOf(t *layout.Target) float64 {
	return t.Extents().TopLeft.X
}
