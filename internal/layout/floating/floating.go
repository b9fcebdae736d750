// Package floating implements the default floating strategy: targets keep
// free geometry that is only ever fitted into the work area.
package floating

import (
	"errors"

	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
	"github.com/Gaurav-Gosain/tessera/internal/rules"
)

// Name is the registry key of this strategy.
const Name = "default"

// RuleSource is implemented by environments that match window rules. The
// floating strategy applies size, position and center from the match.
type RuleSource interface {
	RulesFor(t *layout.Target) rules.Match
}

// Floating is the default floating strategy.
type Floating struct {
	space *layout.Space
}

// New creates a floating strategy for space.
func New(space *layout.Space) layout.FloatingStrategy {
	return &Floating{space: space}
}

func (f *Floating) defaultSize() geom.Vector2D {
	cfg := f.space.Env().Config().Floating
	return geom.Vec(cfg.DefaultWidth, cfg.DefaultHeight)
}

// FitBoxInWorkArea keeps box plus its decorations inside area. The box is
// expanded by extents, shrunk to fit, moved inside, and the extents are
// taken back off.
func FitBoxInWorkArea(box geom.Box, extents geom.Extents, area geom.Box) geom.Box {
	b := box.AddExtents(extents)

	b.W = min(b.W, area.W)
	b.H = min(b.H, area.H)

	if b.X < area.X {
		b.X = area.X
	} else if b.X+b.W > area.X+area.W {
		b.X = area.X + area.W - b.W
	}
	if b.Y < area.Y {
		b.Y = area.Y
	} else if b.Y+b.H > area.Y+area.H {
		b.Y = area.Y + area.H - b.H
	}

	return b.SubExtents(extents)
}

func centered(area geom.Box, size geom.Vector2D) geom.Box {
	mid := area.Middle()
	return geom.Box{X: mid.X - size.X/2, Y: mid.Y - size.Y/2, W: size.X, H: size.Y}
}

func centeredOn(p geom.Vector2D, size geom.Vector2D) geom.Box {
	return geom.Box{X: p.X - size.X/2, Y: p.Y - size.Y/2, W: size.X, H: size.Y}
}

func (f *Floating) fit(t *layout.Target, box geom.Box) {
	t.SetPositionGlobal(FitBoxInWorkArea(box, t.Extents(), f.space.WorkArea()))
}

// NewTarget places a target from its requested geometry, the remembered
// float size or the default size, then applies window rules.
func (f *Floating) NewTarget(t *layout.Target) {
	wa := f.space.WorkArea()

	var (
		size geom.Vector2D
		pos  *geom.Vector2D
	)
	desired, err := t.DesiredGeometry()
	switch {
	case err == nil:
		size = desired.Size.Clamp(t.MinSize(), t.MaxSize())
		pos = desired.Pos
	case errors.Is(err, layout.ErrInvalidDesired):
		f.space.Env().Logger().Debug("hiding window with degenerate geometry", "target", t.ID())
		t.SetHidden(true)
		size = f.defaultSize()
	case !t.LastFloatingSize().IsZero():
		size = t.LastFloatingSize()
	default:
		size = f.defaultSize()
	}

	if src, ok := f.space.Env().(RuleSource); ok {
		m := src.RulesFor(t)
		if m.Size != nil {
			size = m.Size.Resolve(wa).Clamp(t.MinSize(), t.MaxSize())
		}
		if m.Position != nil {
			p := wa.Pos().Add(m.Position.Resolve(wa))
			pos = &p
		}
		if m.Center {
			pos = nil
		}
	}

	box := centered(wa, size)
	if pos != nil {
		box = geom.BoxFrom(*pos, size)
	}
	f.fit(t, box)
}

// MovedTarget re-places a target entering floating placement. A focal point
// wins; a target leaving tiling keeps its center and restores its float
// size; a floating target from another monitor keeps its relative spot.
func (f *Floating) MovedTarget(t *layout.Target, focal *geom.Vector2D) {
	size := t.LastFloatingSize()
	if size.IsZero() {
		size = t.Box().Size()
	}
	if size.IsZero() {
		size = f.defaultSize()
	}
	size = size.Clamp(t.MinSize(), t.MaxSize())

	var box geom.Box
	switch origin, moved := t.PrevOrigin(); {
	case focal != nil:
		box = centeredOn(*focal, size)
	case t.FromTiled():
		box = centeredOn(t.Box().Middle(), size)
	case moved && !f.space.MonitorBox().Contains(t.Box().Middle()):
		delta := f.space.MonitorBox().Pos().Sub(origin)
		box = t.Box().Translate(delta)
	case !t.Box().Empty():
		box = t.Box()
	default:
		box = centered(f.space.WorkArea(), size)
	}
	f.fit(t, box)
}

// RemoveTarget keeps no state to clean up.
func (f *Floating) RemoveTarget(*layout.Target) {}

// ReplaceTarget keeps no state to clean up; the new target already carries
// the old box.
func (f *Floating) ReplaceTarget(_, new *layout.Target) {
	f.fit(new, new.Box())
}

// ResizeTarget grows or shrinks t from the grabbed corner. The opposite
// corner stays put, also when the size hits a limit.
func (f *Floating) ResizeTarget(delta geom.Vector2D, t *layout.Target, corner geom.Corner) {
	t.SetPositionGlobal(ResizeBox(t.Box(), delta, corner, t.MinSize(), t.MaxSize()))
}

// ResizeBox applies a corner drag of delta to box within the size limits.
// A zero max component is unbounded.
func ResizeBox(box geom.Box, delta geom.Vector2D, corner geom.Corner, minSize, maxSize geom.Vector2D) geom.Box {
	size := box.Size()
	switch corner {
	case geom.CornerTopLeft:
		size = size.Sub(delta)
	case geom.CornerTopRight:
		size = geom.Vec(size.X+delta.X, size.Y-delta.Y)
	case geom.CornerBottomLeft:
		size = geom.Vec(size.X-delta.X, size.Y+delta.Y)
	default:
		size = size.Add(delta)
	}
	size = size.Clamp(minSize, maxSize)

	out := geom.Box{X: box.X, Y: box.Y, W: size.X, H: size.Y}
	if corner == geom.CornerTopLeft || corner == geom.CornerBottomLeft {
		out.X = box.X + box.W - size.X
	}
	if corner == geom.CornerTopLeft || corner == geom.CornerTopRight {
		out.Y = box.Y + box.H - size.Y
	}
	return out
}

// MoveTarget translates t. The result is not fitted so windows can be
// dragged partly off screen.
func (f *Floating) MoveTarget(delta geom.Vector2D, t *layout.Target) {
	t.SetPositionGlobal(t.Box().Translate(delta))
}

// MoveTargetInDirection puts t flush against the work area edge in dir,
// decorations included. A target already at that edge moves to the monitor
// beyond it, if any.
func (f *Floating) MoveTargetInDirection(t *layout.Target, dir geom.Direction, silent bool) {
	wa := f.space.WorkArea()
	ext := t.Extents()
	b := t.Box()

	switch dir {
	case geom.DirectionLeft:
		b.X = wa.X + ext.TopLeft.X
	case geom.DirectionRight:
		b.X = wa.X + wa.W - ext.BottomRight.X - b.W
	case geom.DirectionUp:
		b.Y = wa.Y + ext.TopLeft.Y
	case geom.DirectionDown:
		b.Y = wa.Y + wa.H - ext.BottomRight.Y - b.H
	default:
		return
	}
	b = FitBoxInWorkArea(b, ext, wa)

	if b.Round() == t.Box() {
		env := f.space.Env()
		focal := geom.EdgeFocal(wa, dir)
		if other := env.SpaceAt(focal); other != nil && other != f.space {
			t.AssignToSpace(other, nil)
			if !silent {
				env.Focus(t)
			}
		}
		return
	}
	t.SetPositionGlobal(b)
}

// SwapTargets exchanges the boxes of a and b.
func (f *Floating) SwapTargets(a, b *layout.Target) {
	ab, bb := a.Box(), b.Box()
	a.SetPositionGlobal(bb)
	b.SetPositionGlobal(ab)
}

// Recalculate refits every floating target except one being dragged.
func (f *Floating) Recalculate() {
	drag := f.space.Env().DragTarget()
	for _, t := range f.space.Algorithm().FloatingTargets() {
		if t == drag || t.Hidden() {
			continue
		}
		f.fit(t, t.Box())
	}
}
