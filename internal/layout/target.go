package layout

import (
	"errors"

	"github.com/Gaurav-Gosain/tessera/internal/geom"
)

// FullscreenMode is the fullscreen state of a target.
type FullscreenMode int

const (
	FullscreenNone FullscreenMode = iota
	// FullscreenMaximized fills the work area.
	FullscreenMaximized
	// FullscreenFull fills the whole monitor.
	FullscreenFull
)

// Window is the view layer capability behind a target. The layout core never
// inspects a window beyond these calls.
type Window interface {
	ID() string
	Class() string
	MinSize() geom.Vector2D
	// MaxSize returns zero on an axis without a limit.
	MaxSize() geom.Vector2D
	Extents() geom.Extents
	Mapped() bool
	// Requested returns the client requested size and optional position.
	// A zero size means the client asked for nothing.
	Requested() (geom.Vector2D, *geom.Vector2D)
	DamageEntire()
}

var (
	// ErrNoDesired means the client has no geometry preference.
	ErrNoDesired = errors.New("no desired geometry")
	// ErrInvalidDesired means the client requested degenerate geometry and
	// the target should stay hidden.
	ErrInvalidDesired = errors.New("invalid desired geometry")
)

// DesiredGeometry is what the client asked for.
type DesiredGeometry struct {
	Size geom.Vector2D
	Pos  *geom.Vector2D
}

// Target is a positionable leaf: a window or a window group.
type Target struct {
	handle Handle
	arena  *Arena

	window Window
	group  *Group

	box              geom.Box
	floating         bool
	pseudo           bool
	pseudoSize       geom.Vector2D
	lastFloatingSize geom.Vector2D
	fullscreen       FullscreenMode
	hidden           bool
	warped           bool

	space      *Space
	ghostSpace *Space
	placed     bool

	// fromTiled is set while a target re-enters floating placement after
	// leaving a tiled strategy.
	fromTiled bool
	// prevOrigin is the monitor origin of the space the target last left.
	prevOrigin *geom.Vector2D

	destroyed bool
}

func (t *Target) Handle() Handle { return t.handle }

// Window returns the window behind the target. For groups it is the visible
// member's window.
func (t *Target) Window() Window {
	if t.group != nil {
		if m := t.group.Current(); m != nil {
			return m.window
		}
		return nil
	}
	return t.window
}

func (t *Target) Box() geom.Box { return t.box }
func (t *Target) Floating() bool { return t.floating }
func (t *Target) Pseudo() bool { return t.pseudo }
func (t *Target) PseudoSize() geom.Vector2D { return t.pseudoSize }
func (t *Target) LastFloatingSize() geom.Vector2D { return t.lastFloatingSize }
func (t *Target) Fullscreen() FullscreenMode { return t.fullscreen }
func (t *Target) Hidden() bool { return t.hidden }
func (t *Target) Space() *Space { return t.space }
func (t *Target) GhostSpace() *Space { return t.ghostSpace }
func (t *Target) IsGroup() bool { return t.group != nil }
func (t *Target) Group() *Group { return t.group }

// FromTiled reports whether the target is being placed as floating right
// after leaving a tiled strategy.
func (t *Target) FromTiled() bool { return t.fromTiled }

// PrevOrigin returns the monitor origin of the space the target last left.
func (t *Target) PrevOrigin() (geom.Vector2D, bool) {
	if t.prevOrigin == nil {
		return geom.Vector2D{}, false
	}
	return *t.prevOrigin, true
}

// Alive reports whether the target is still in its arena and mapped.
func (t *Target) Alive() bool {
	if t == nil || t.destroyed {
		return false
	}
	w := t.Window()
	return w != nil && w.Mapped()
}

// ID returns the window id, or the handle for empty groups.
func (t *Target) ID() string {
	if w := t.Window(); w != nil {
		return w.ID()
	}
	return "group:" + t.handle.String()
}

// MinSize returns the window minimum, defaulting to 1x1.
func (t *Target) MinSize() geom.Vector2D {
	size := geom.Vec(1, 1)
	if w := t.Window(); w != nil {
		s := w.MinSize()
		size.X = max(size.X, s.X)
		size.Y = max(size.Y, s.Y)
	}
	return size
}

// MaxSize returns the window maximum; zero means unbounded.
func (t *Target) MaxSize() geom.Vector2D {
	if w := t.Window(); w != nil {
		return w.MaxSize()
	}
	return geom.Vector2D{}
}

// Extents returns the decoration extents of the window.
func (t *Target) Extents() geom.Extents {
	if w := t.Window(); w != nil {
		return w.Extents()
	}
	return geom.Extents{}
}

// SetPositionGlobal sets and rounds the box.
func (t *Target) SetPositionGlobal(box geom.Box) {
	box = box.Round()
	if box == t.box {
		return
	}
	t.box = box
	if t.group != nil {
		for _, m := range t.group.Members() {
			m.box = box
		}
	}
	t.damage()
}

// Warp sets the box and marks the change as not animated.
func (t *Target) Warp(box geom.Box) {
	t.SetPositionGlobal(box)
	t.warped = true
}

// TakeWarped reports and clears the warp flag.
func (t *Target) TakeWarped() bool {
	w := t.warped
	t.warped = false
	return w
}

// SetHidden hides or shows the target.
func (t *Target) SetHidden(hidden bool) {
	if t.hidden == hidden {
		return
	}
	t.hidden = hidden
	if t.group != nil {
		t.group.syncHidden()
	}
	t.damage()
}

func (t *Target) damage() {
	if w := t.Window(); w != nil {
		w.DamageEntire()
	}
}

// SetLastFloatingSize updates the float restore memory.
func (t *Target) SetLastFloatingSize(size geom.Vector2D) {
	t.lastFloatingSize = size
}

// SetPseudo toggles pseudotiling. The pseudo size comes from the client
// request, the float memory or the current box, in that order.
func (t *Target) SetPseudo(on bool) {
	t.pseudo = on
	if !on {
		return
	}
	switch desired, err := t.DesiredGeometry(); {
	case err == nil:
		t.pseudoSize = desired.Size
	case !t.lastFloatingSize.IsZero():
		t.pseudoSize = t.lastFloatingSize
	default:
		t.pseudoSize = t.box.Size()
	}
}

// SetInitialFloating marks a target that was never placed as floating, so its
// first placement goes to the floating strategy.
func (t *Target) SetInitialFloating(on bool) {
	if t.placed {
		return
	}
	t.floating = on
}

// SetPseudoSize sets the size a pseudotiled target is centered at.
func (t *Target) SetPseudoSize(size geom.Vector2D) {
	t.pseudoSize = size
}

// SetFullscreenMode records the fullscreen state. The owning space applies
// the geometry on its next recalculation.
func (t *Target) SetFullscreenMode(mode FullscreenMode) {
	t.fullscreen = mode
}

// DesiredGeometry returns the client request. ErrNoDesired means use the
// strategy default; ErrInvalidDesired means hide the target.
func (t *Target) DesiredGeometry() (DesiredGeometry, error) {
	w := t.Window()
	if w == nil {
		return DesiredGeometry{}, ErrNoDesired
	}
	size, pos := w.Requested()
	if size.IsZero() && pos == nil {
		return DesiredGeometry{}, ErrNoDesired
	}
	if size.X < 1 || size.Y < 1 {
		return DesiredGeometry{}, ErrInvalidDesired
	}
	return DesiredGeometry{Size: size, Pos: pos}, nil
}

// AssignToSpace moves the target into space. A target that was already
// placed somewhere re-enters through the moved path with the focal point.
func (t *Target) AssignToSpace(space *Space, focal *geom.Vector2D) {
	if t.space == space && space != nil {
		return
	}
	if old := t.space; old != nil {
		origin := old.MonitorBox().Pos()
		t.prevOrigin = &origin
		old.removeTarget(t)
	}
	t.ghostSpace = nil
	if space == nil {
		return
	}
	if !t.placed {
		t.placed = true
		space.addTarget(t)
		return
	}
	space.movedTarget(t, focal)
}

// SetSpaceGhost associates the target with space for bookkeeping only.
func (t *Target) SetSpaceGhost(space *Space) {
	if t.space != nil {
		t.space.removeTarget(t)
	}
	t.ghostSpace = space
	t.placed = true
}

// Swap exchanges the placement of t and other. Each keeps its floating
// state; focus follows whichever was focused.
func (t *Target) Swap(other *Target) {
	if t == other || t.space == nil || other.space == nil {
		return
	}
	env := t.space.env
	focused := env.Focused()

	if t.space == other.space && t.floating == other.floating {
		t.space.algo.SwapTargets(t, other)
	} else {
		spaceA, spaceB := t.space, other.space
		centerA, centerB := t.box.Middle(), other.box.Middle()
		spaceA.removeTarget(t)
		spaceB.removeTarget(other)
		spaceB.movedTarget(t, &centerB)
		spaceA.movedTarget(other, &centerA)
	}

	if focused == t || focused == other {
		env.Focus(focused)
	}
}

// Group is a set of windows sharing one layout slot. Only the current member
// is visible.
type Group struct {
	owner   *Target
	members []Handle
	current int
}

func (g *Group) add(m *Target) {
	m.SetSpaceGhost(g.owner.space)
	m.floating = g.owner.floating
	m.fullscreen = FullscreenNone
	m.box = g.owner.box
	g.members = append(g.members, m.handle)
	g.current = len(g.members) - 1
	g.syncHidden()
}

// Merge adds m to the group and makes it the visible member. m leaves its
// own space first.
func (g *Group) Merge(m *Target) {
	if m == g.owner || g.Contains(m) {
		return
	}
	g.add(m)
	g.owner.damage()
}

// Members returns the live members in order.
func (g *Group) Members() []*Target {
	return g.owner.arena.Resolve(g.members)
}

// Contains reports whether m is a member.
func (g *Group) Contains(m *Target) bool {
	for _, h := range g.members {
		if h == m.handle {
			return true
		}
	}
	return false
}

// Current returns the visible member.
func (g *Group) Current() *Target {
	members := g.Members()
	if len(members) == 0 {
		return nil
	}
	if g.current >= len(members) {
		g.current = len(members) - 1
	}
	return members[g.current]
}

// Remove drops m from the group.
func (g *Group) Remove(m *Target) {
	for i, h := range g.members {
		if h == m.handle {
			g.members = append(g.members[:i], g.members[i+1:]...)
			if g.current >= i && g.current > 0 {
				g.current--
			}
			m.ghostSpace = nil
			break
		}
	}
	g.syncHidden()
}

// Cycle moves the visible member forward or back, wrapping.
func (g *Group) Cycle(forward bool) {
	n := len(g.members)
	if n == 0 {
		return
	}
	if forward {
		g.current = (g.current + 1) % n
	} else {
		g.current = (g.current - 1 + n) % n
	}
	g.syncHidden()
	g.owner.damage()
}

func (g *Group) syncHidden() {
	for i, m := range g.Members() {
		m.hidden = g.owner.hidden || i != g.current
	}
}
