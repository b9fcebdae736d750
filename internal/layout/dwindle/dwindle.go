// Package dwindle implements binary space partition tiling. Every new target
// splits an existing leaf in two; the tree stays full so each internal node's
// children exactly partition its box.
package dwindle

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tessera/internal/config"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
)

// Name is the registry key of this strategy.
const Name = "dwindle"

// Dwindle is the binary space partition strategy of one space.
type Dwindle struct {
	space *layout.Space
	nodes []*node

	// override is the preselected direction for the next split.
	override geom.Direction
}

// New creates a dwindle strategy for space.
func New(space *layout.Space) layout.TiledStrategy {
	return &Dwindle{space: space}
}

func (d *Dwindle) env() layout.Env { return d.space.Env() }
func (d *Dwindle) cfg() *config.Config { return d.space.Env().Config() }
func (d *Dwindle) logger() *log.Logger { return d.space.Env().Logger() }
func (d *Dwindle) arena() *layout.Arena { return d.space.Env().Arena() }

func (d *Dwindle) root() *node {
	for _, n := range d.nodes {
		if n.parent == nil {
			return n
		}
	}
	return nil
}

func (d *Dwindle) leaves() []*node {
	var out []*node
	for _, n := range d.nodes {
		if n.isLeaf() {
			out = append(out, n)
		}
	}
	return out
}

func (d *Dwindle) firstLeaf() *node {
	for _, n := range d.nodes {
		if n.isLeaf() {
			return n
		}
	}
	return nil
}

func (d *Dwindle) nodeFor(t *layout.Target) *node {
	if t == nil {
		return nil
	}
	for _, n := range d.nodes {
		if n.isLeaf() && n.target == t.Handle() {
			return n
		}
	}
	return nil
}

func (d *Dwindle) leafAt(p geom.Vector2D) *node {
	for _, n := range d.nodes {
		if n.isLeaf() && n.box.Contains(p) {
			return n
		}
	}
	return nil
}

func (d *Dwindle) closestLeaf(p geom.Vector2D) *node {
	var best *node
	bestDist := math.Inf(1)
	for _, n := range d.nodes {
		if !n.isLeaf() {
			continue
		}
		if dist := n.box.DistanceTo(p); dist < bestDist {
			best, bestDist = n, dist
		}
	}
	return best
}

func (d *Dwindle) targetOf(n *node) *layout.Target {
	t, ok := d.arena().Get(n.target)
	if !ok {
		return nil
	}
	return t
}

func (d *Dwindle) removeNode(n *node) {
	n.valid = false
	for i, x := range d.nodes {
		if x == n {
			d.nodes = append(d.nodes[:i], d.nodes[i+1:]...)
			return
		}
	}
}

// NewTarget splits a leaf for t.
func (d *Dwindle) NewTarget(t *layout.Target) {
	d.insert(t, nil)
}

// MovedTarget splits the leaf closest to focal, or places t like a new
// target when there is no focal point.
func (d *Dwindle) MovedTarget(t *layout.Target, focal *geom.Vector2D) {
	d.insert(t, focal)
}

func (d *Dwindle) insert(t *layout.Target, focal *geom.Vector2D) {
	if d.nodeFor(t) != nil {
		d.logger().Error("internal bug: target already in dwindle tree", "target", t.ID())
		return
	}

	cfg := d.cfg().Dwindle
	env := d.env()
	mouse := env.Cursor()

	var opening *node
	if focal != nil {
		mouse = *focal
		opening = d.closestLeaf(*focal)
	}
	if opening == nil && cfg.UseActiveForSplits {
		if f := env.Focused(); f != nil && f != t {
			opening = d.nodeFor(f)
		}
	}
	if opening == nil {
		opening = d.leafAt(mouse)
	}
	if opening == nil {
		opening = d.firstLeaf()
	}

	leaf := &node{target: t.Handle(), valid: true}

	if opening == nil {
		leaf.box = d.space.WorkArea()
		d.nodes = append(d.nodes, leaf)
		d.applyNodeToTarget(leaf)
		return
	}

	parent := &node{
		internal: true,
		valid:    true,
		box:      opening.box,
		parent:   opening.parent,
		ratio:    geom.Clamp(cfg.DefaultSplitRatio, minRatio, maxRatio),
	}
	if gp := opening.parent; gp != nil {
		gp.children[gp.childIndex(opening)] = parent
	}

	newFirst := false
	mid := parent.box.Middle()
	switch {
	case d.override != geom.DirectionDefault:
		parent.splitTop = !d.override.Horizontal()
		parent.pinned = true
		newFirst = d.override == geom.DirectionLeft || d.override == geom.DirectionUp
		if !cfg.PermanentDirectionOverride {
			d.override = geom.DirectionDefault
		}
	case cfg.SmartSplit:
		delta := mouse.Sub(mid)
		slope := delta.Y / delta.X
		aspect := parent.box.H / parent.box.W
		if math.Abs(slope) < aspect {
			parent.splitTop = false
			newFirst = delta.X <= 0
		} else {
			parent.splitTop = true
			newFirst = delta.Y <= 0
		}
		parent.pinned = true
	default:
		parent.splitTop = parent.box.H*cfg.SplitWidthMultiplier > parent.box.W
		switch cfg.ForceSplit {
		case 1:
			newFirst = true
		case 2:
			newFirst = false
		default:
			newFirst = (parent.splitTop && mouse.Y < mid.Y) || (!parent.splitTop && mouse.X < mid.X)
		}
	}

	opening.parent = parent
	leaf.parent = parent
	if newFirst {
		parent.children = [2]*node{leaf, opening}
	} else {
		parent.children = [2]*node{opening, leaf}
	}

	d.nodes = append(d.nodes, parent, leaf)
	parent.recalc(d)
}

// RemoveTarget splices t's sibling into the grandparent slot.
func (d *Dwindle) RemoveTarget(t *layout.Target) {
	n := d.nodeFor(t)
	if n == nil {
		d.logger().Error("internal bug: removing target missing from dwindle tree", "target", t.ID())
		return
	}

	parent := n.parent
	if parent == nil {
		d.removeNode(n)
		return
	}

	gp := parent.parent
	idx := -1
	if gp != nil {
		if idx = gp.childIndex(parent); idx < 0 {
			d.logger().Error("internal bug: dwindle node missing from its parent", "target", t.ID())
			return
		}
	}

	sibling := n.sibling()
	sibling.parent = gp
	if gp != nil {
		gp.children[idx] = sibling
	}

	d.removeNode(n)
	d.removeNode(parent)
	d.Recalculate()
}

// ReplaceTarget gives old's leaf to new.
func (d *Dwindle) ReplaceTarget(old, new *layout.Target) {
	n := d.nodeFor(old)
	if n == nil {
		return
	}
	n.target = new.Handle()
	d.applyNodeToTarget(n)
}

// Recalculate lays the tree out over the work area.
func (d *Dwindle) Recalculate() {
	root := d.root()
	if root == nil {
		return
	}
	root.box = d.space.WorkArea()
	root.recalc(d)
}

// SwapTargets exchanges the leaves of a and b.
func (d *Dwindle) SwapTargets(a, b *layout.Target) {
	na, nb := d.nodeFor(a), d.nodeFor(b)
	if na == nil || nb == nil {
		return
	}
	na.target, nb.target = nb.target, na.target
	d.applyNodeToTarget(na)
	d.applyNodeToTarget(nb)
}

// MoveTargetInDirection removes t and re-inserts it one pixel beyond the
// midpoint of the edge facing dir. A focal point on another monitor moves t
// to that monitor's space.
func (d *Dwindle) MoveTargetInDirection(t *layout.Target, dir geom.Direction, silent bool) {
	n := d.nodeFor(t)
	if n == nil {
		return
	}

	env := d.env()
	focal := geom.EdgeFocal(n.box, dir)
	original := t.Box().Middle()

	if other := env.SpaceAt(focal); other != nil && other != d.space {
		t.AssignToSpace(other, &focal)
		if silent {
			if c := d.space.Algorithm().NextCandidate(t); c != nil {
				env.Focus(c)
			}
		}
		return
	}

	d.RemoveTarget(t)
	d.insert(t, &focal)

	if silent {
		if back := d.closestLeaf(original); back != nil {
			if bt := d.targetOf(back); bt != nil {
				env.Focus(bt)
			}
		}
	}
}

// ResizeTarget moves the split lines around t by delta.
func (d *Dwindle) ResizeTarget(delta geom.Vector2D, t *layout.Target, corner geom.Corner) {
	n := d.nodeFor(t)
	if n == nil {
		return
	}

	if t.Pseudo() {
		size := t.PseudoSize().Add(delta).Clamp(t.MinSize(), t.MaxSize())
		t.SetPseudoSize(size)
		d.applyNodeToTarget(n)
		return
	}

	wa := d.space.WorkArea()
	displayLeft := sticks(n.box.X, wa.X)
	displayRight := sticks(n.box.X+n.box.W, wa.X+wa.W)
	displayTop := sticks(n.box.Y, wa.Y)
	displayBottom := sticks(n.box.Y+n.box.H, wa.Y+wa.H)

	allowed := delta
	if displayLeft && displayRight {
		allowed.X = 0
	}
	if displayTop && displayBottom {
		allowed.Y = 0
	}

	if d.cfg().Dwindle.SmartResizing {
		d.smartResize(n, allowed, corner, displayLeft, displayRight, displayTop, displayBottom)
	} else {
		d.legacyResize(n, allowed)
	}
}

// smartResize walks up from n once per axis, picking the nearest split on
// the dragged edge (outer) and the nearest split on the other edge (inner).
// The inner ratio is compensated so the far edge stays put.
func (d *Dwindle) smartResize(n *node, allowed geom.Vector2D, corner geom.Corner, displayLeft, displayRight, displayTop, displayBottom bool) {
	none := corner == geom.CornerNone
	left := corner.Left() && !none || displayRight
	right := !corner.Left() && !none || displayLeft
	top := corner.Top() && !none || displayBottom
	bottom := !corner.Top() && !none || displayTop

	var vOuter, vInner, hOuter, hInner *node
	for cur := n; cur != nil && cur.parent != nil; cur = cur.parent {
		p := cur.parent
		switch {
		case vOuter == nil && p.splitTop && (none || (top && p.children[1] == cur) || (bottom && p.children[0] == cur)):
			vOuter = cur
		case vOuter == nil && vInner == nil && p.splitTop:
			vInner = cur
		case hOuter == nil && !p.splitTop && (none || (left && p.children[1] == cur) || (right && p.children[0] == cur)):
			hOuter = cur
		case hOuter == nil && hInner == nil && !p.splitTop:
			hInner = cur
		}
		if vOuter != nil && hOuter != nil {
			break
		}
	}

	if hOuter != nil {
		p := hOuter.parent
		p.ratio = geom.Clamp(p.ratio+allowed.X*2/p.box.W, minRatio, maxRatio)
		var original float64
		if hInner != nil {
			original = hInner.box.W
		}
		p.recalc(d)
		if hInner != nil {
			d.compensate(hInner, original, allowed.X, func(b geom.Box) float64 { return b.W })
		}
	}

	if vOuter != nil {
		p := vOuter.parent
		p.ratio = geom.Clamp(p.ratio+allowed.Y*2/p.box.H, minRatio, maxRatio)
		var original float64
		if vInner != nil {
			original = vInner.box.H
		}
		p.recalc(d)
		if vInner != nil {
			d.compensate(vInner, original, allowed.Y, func(b geom.Box) float64 { return b.H })
		}
	}
}

// compensate re-derives the inner split's ratio so inner keeps its size
// minus the movement on the outer edge.
func (d *Dwindle) compensate(inner *node, original, movement float64, axis func(geom.Box) float64) {
	p := inner.parent
	size := axis(p.box)
	if size <= 0 {
		return
	}
	if p.children[0] == inner {
		p.ratio = geom.Clamp((original-movement)/size*2, minRatio, maxRatio)
	} else {
		p.ratio = geom.Clamp(2-(original+movement)/size*2, minRatio, maxRatio)
	}
	p.recalc(d)
}

// legacyResize adjusts the parent split and the first ancestor with the
// other orientation.
func (d *Dwindle) legacyResize(n *node, allowed geom.Vector2D) {
	parent := n.parent
	if parent == nil {
		return
	}
	sideBySide := !parent.splitTop

	oneAxis := func() {
		if sideBySide {
			parent.ratio = geom.Clamp(parent.ratio+allowed.X*2/parent.box.W, minRatio, maxRatio)
		} else {
			parent.ratio = geom.Clamp(parent.ratio+allowed.Y*2/parent.box.H, minRatio, maxRatio)
		}
		parent.recalc(d)
	}

	other := parent.parent
	for other != nil && other.splitTop == parent.splitTop {
		other = other.parent
	}
	if other == nil {
		oneAxis()
		return
	}

	side, topc := parent, other
	if !sideBySide {
		side, topc = other, parent
	}
	side.ratio = geom.Clamp(side.ratio+allowed.X*2/side.box.W, minRatio, maxRatio)
	topc.ratio = geom.Clamp(topc.ratio+allowed.Y*2/topc.box.H, minRatio, maxRatio)
	side.recalc(d)
	topc.recalc(d)
}

// NextCandidate prefers the leaf under the cursor, then focus history.
func (d *Dwindle) NextCandidate(old *layout.Target) *layout.Target {
	if n := d.leafAt(d.env().Cursor()); n != nil {
		if t := d.targetOf(n); t != nil && t != old {
			return t
		}
	}
	for _, t := range d.env().FocusHistory() {
		if t != old && d.nodeFor(t) != nil {
			return t
		}
	}
	for _, n := range d.leaves() {
		if t := d.targetOf(n); t != nil && t != old {
			return t
		}
	}
	return nil
}

// FocusChanged is a no-op; dwindle does not move on focus.
func (d *Dwindle) FocusChanged(*layout.Target) {}

// applyNodeToTarget insets the node box by gaps_in on inner edges and, for
// pseudotiled targets, centers the pseudo size inside it.
func (d *Dwindle) applyNodeToTarget(n *node) {
	t := d.targetOf(n)
	if t == nil {
		d.logger().Error("internal bug: dwindle leaf without a live target", "handle", n.target.String())
		return
	}

	wa := d.space.WorkArea()
	gaps := d.cfg().General.GapsIn
	b := n.box

	var left, top, right, bottom float64
	if !sticks(b.X, wa.X) {
		left = gaps
	}
	if !sticks(b.Y, wa.Y) {
		top = gaps
	}
	if !sticks(b.X+b.W, wa.X+wa.W) {
		right = gaps
	}
	if !sticks(b.Y+b.H, wa.Y+wa.H) {
		bottom = gaps
	}
	box := geom.Box{X: b.X + left, Y: b.Y + top, W: b.W - left - right, H: b.H - top - bottom}

	if t.Pseudo() && !t.PseudoSize().IsZero() {
		ps := t.PseudoSize()
		scale := math.Min(1, math.Min(box.W/ps.X, box.H/ps.Y))
		size := ps.Scale(scale)
		box = geom.Box{
			X: box.X + (box.W-size.X)/2,
			Y: box.Y + (box.H-size.Y)/2,
			W: size.X,
			H: size.Y,
		}
	}

	t.SetPositionGlobal(box)
}

func sticks(a, b float64) bool {
	return math.Abs(a-b) < 2
}
