// Package scrolling lays tiled targets out in strips along a scrollable
// primary axis. Each strip takes a fraction of the viewport; targets inside a
// strip share its secondary axis.
package scrolling

import (
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tessera/internal/config"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
)

// Name is the registry key of this strategy.
const Name = "scrolling"

const (
	minStripWidth = 0.05
	maxStripWidth = 1.0
	minItemSize   = 0.1
	maxItemSize   = 1.0
)

type item struct {
	target layout.Handle
	size   float64
}

// strip is one column (or row). Item sizes sum to 1; the width is a
// fraction of the viewport and is never normalized against other strips.
type strip struct {
	width float64
	items []*item
}

func (st *strip) insert(it *item, at int) {
	n := float64(len(st.items))
	for _, o := range st.items {
		o.size *= n / (n + 1)
	}
	it.size = 1 / (n + 1)
	st.items = slices.Insert(st.items, at, it)
}

func (st *strip) remove(i int) *item {
	it := st.items[i]
	st.items = slices.Delete(st.items, i, i+1)
	rest := 1 - it.size
	for _, o := range st.items {
		if rest > geom.Epsilon {
			o.size /= rest
		} else {
			o.size = 1 / float64(len(st.items))
		}
	}
	return it
}

// Scrolling is the strip strategy of one space.
type Scrolling struct {
	space  *layout.Space
	strips []*strip

	// offset is the camera position along the primary axis, in pixels from
	// the start of the content.
	offset float64
	// userScrolled suspends camera clamping after an explicit move until
	// the next focus follow.
	userScrolled bool
}

// New creates a scrolling strategy for space.
func New(space *layout.Space) layout.TiledStrategy {
	return &Scrolling{space: space}
}

func (s *Scrolling) env() layout.Env { return s.space.Env() }
func (s *Scrolling) cfg() *config.Config { return s.space.Env().Config() }
func (s *Scrolling) logger() *log.Logger { return s.space.Env().Logger() }

func (s *Scrolling) direction() geom.Direction {
	cfg := s.cfg()
	name := cfg.Scrolling.Direction
	if rule, ok := cfg.WorkspaceRuleFor(s.space.ID()); ok && rule.Direction != "" {
		name = rule.Direction
	}
	d, err := geom.ParseDirection(name)
	if err != nil {
		return geom.DirectionRight
	}
	return d
}

func (s *Scrolling) axis() axis {
	return axis{dir: s.direction(), area: s.space.WorkArea()}
}

func (s *Scrolling) find(t *layout.Target) (int, int) {
	if t == nil {
		return -1, -1
	}
	for si, st := range s.strips {
		for ii, it := range st.items {
			if it.target == t.Handle() {
				return si, ii
			}
		}
	}
	return -1, -1
}

func (s *Scrolling) targetOf(it *item) *layout.Target {
	t, _ := s.env().Arena().Get(it.target)
	return t
}

// width returns the effective width fraction of strip i.
func (s *Scrolling) width(i int) float64 {
	if len(s.strips) == 1 && s.cfg().Scrolling.FullscreenOnOneColumn {
		return 1
	}
	return s.strips[i].width
}

// starts returns each strip's content start in pixels and the content size.
func (s *Scrolling) starts() ([]float64, float64) {
	p := s.axis().primary()
	out := make([]float64, len(s.strips))
	var pos float64
	for i := range s.strips {
		out[i] = pos
		pos += s.width(i) * p
	}
	return out, pos
}

// frozen reports whether a drag holds one of our targets.
func (s *Scrolling) frozen() bool {
	d := s.env().DragTarget()
	if d == nil {
		return false
	}
	si, _ := s.find(d)
	return si >= 0
}

func (s *Scrolling) clampOffset() {
	if s.frozen() || s.userScrolled {
		return
	}
	p := s.axis().primary()
	_, content := s.starts()
	if content <= p {
		s.offset = -(p - content) / 2
		return
	}
	s.offset = geom.Clamp(s.offset, 0, content-p)
}

// visibleFraction returns how much of strip i lies inside the viewport.
func (s *Scrolling) visibleFraction(i int) float64 {
	starts, _ := s.starts()
	p := s.axis().primary()
	start := starts[i] - s.offset
	end := start + s.width(i)*p
	if end <= start {
		return 0
	}
	overlap := math.Min(end, p) - math.Max(start, 0)
	return math.Max(0, overlap) / (end - start)
}

// bringIntoView moves the camera onto strip i with the configured method.
func (s *Scrolling) bringIntoView(i int) {
	starts, _ := s.starts()
	p := s.axis().primary()
	start, w := starts[i], s.width(i)*p
	if s.cfg().Scrolling.FocusFitMethod == "fit" {
		if start < s.offset {
			s.offset = start
		} else if start+w > s.offset+p {
			s.offset = start + w - p
		}
	} else {
		s.offset = start + w/2 - p/2
	}
	s.userScrolled = false
}

func (s *Scrolling) newStrip(t *layout.Target) *strip {
	return &strip{
		width: geom.Clamp(s.cfg().Scrolling.ColumnWidth, minStripWidth, maxStripWidth),
		items: []*item{{target: t.Handle(), size: 1}},
	}
}

// NewTarget opens a strip after the focused one, or at the end.
func (s *Scrolling) NewTarget(t *layout.Target) {
	if si, _ := s.find(t); si >= 0 {
		s.logger().Error("internal bug: target already in a strip", "target", t.ID())
		return
	}
	at := len(s.strips)
	if f := s.env().Focused(); f != nil && f != t {
		if si, _ := s.find(f); si >= 0 {
			at = si + 1
		}
	}
	s.strips = slices.Insert(s.strips, at, s.newStrip(t))
	s.Recalculate()
}

// MovedTarget drops t at focal: onto a tile it joins that strip above or
// below it, onto empty space it opens a new strip at that position.
func (s *Scrolling) MovedTarget(t *layout.Target, focal *geom.Vector2D) {
	if focal == nil {
		s.NewTarget(t)
		return
	}
	ax := s.axis()

	for _, st := range s.strips {
		for ii, it := range st.items {
			other := s.targetOf(it)
			if other == nil || other == t || !other.Box().Contains(*focal) {
				continue
			}
			at := ii
			if ax.secondaryOf(*focal) >= ax.secondaryOf(other.Box().Middle()) {
				at = ii + 1
			}
			st.insert(&item{target: t.Handle()}, at)
			s.Recalculate()
			return
		}
	}

	starts, _ := s.starts()
	p := ax.primary()
	pos := ax.primaryOf(*focal) + s.offset
	at := 0
	for i := range s.strips {
		if starts[i]+s.width(i)*p/2 < pos {
			at = i + 1
		}
	}
	s.strips = slices.Insert(s.strips, at, s.newStrip(t))
	s.Recalculate()
}

// RemoveTarget drops t, deleting its strip when it empties.
func (s *Scrolling) RemoveTarget(t *layout.Target) {
	si, ii := s.find(t)
	if si < 0 {
		s.logger().Error("internal bug: removing target missing from strips", "target", t.ID())
		return
	}
	s.strips[si].remove(ii)
	if len(s.strips[si].items) == 0 {
		s.strips = slices.Delete(s.strips, si, si+1)
	}
	s.Recalculate()
}

// ReplaceTarget gives old's tile to new.
func (s *Scrolling) ReplaceTarget(old, new *layout.Target) {
	si, ii := s.find(old)
	if si < 0 {
		return
	}
	s.strips[si].items[ii].target = new.Handle()
	s.Recalculate()
}

// SwapTargets exchanges two tiles.
func (s *Scrolling) SwapTargets(a, b *layout.Target) {
	as, ai := s.find(a)
	bs, bi := s.find(b)
	if as < 0 || bs < 0 {
		return
	}
	x, y := s.strips[as].items[ai], s.strips[bs].items[bi]
	x.target, y.target = y.target, x.target
	s.Recalculate()
}

// ResizeTarget changes the strip width on the primary axis and trades size
// with a neighbour on the secondary axis.
func (s *Scrolling) ResizeTarget(delta geom.Vector2D, t *layout.Target, corner geom.Corner) {
	si, ii := s.find(t)
	if si < 0 {
		return
	}
	ax := s.axis()
	dp, ds := ax.delta(delta)
	trailing, secondaryEnd := ax.edges(corner)
	st := s.strips[si]

	// A leading edge resize shifts the camera so the trailing edge stays
	// where it is on screen. That one pass skips clamping; the next
	// recalculation clamps as usual.
	shifted := false
	if dp != 0 {
		p := ax.primary()
		old := st.width
		if trailing {
			st.width = geom.Clamp(old+dp/p, minStripWidth, maxStripWidth)
		} else {
			st.width = geom.Clamp(old-dp/p, minStripWidth, maxStripWidth)
			s.offset -= (old - st.width) * p
			shifted = true
		}
	}

	if ds != 0 && len(st.items) > 1 {
		growth := ds / ax.secondary()
		nb := ii + 1
		if !secondaryEnd {
			growth = -growth
			nb = ii - 1
		}
		if nb < 0 || nb >= len(st.items) {
			nb = 2*ii - nb
		}
		lo := itemMin(len(st.items))
		it, other := st.items[ii], st.items[nb]
		size := geom.Clamp(it.size+growth, lo, maxItemSize)
		otherSize := geom.Clamp(other.size-(size-it.size), lo, maxItemSize)
		it.size += other.size - otherSize
		other.size = otherSize
	}

	if shifted {
		s.place()
		return
	}
	s.Recalculate()
}

// itemMin is the smallest fraction an item of a strip with n items may
// shrink to; n of them always fit.
func itemMin(n int) float64 {
	return math.Min(minItemSize, 0.5/float64(n))
}

// MoveTargetInDirection moves t between strips on the primary axis and
// within its strip on the secondary axis. Past the last strip or tile it
// goes to the monitor beyond, if any.
func (s *Scrolling) MoveTargetInDirection(t *layout.Target, dir geom.Direction, silent bool) {
	si, ii := s.find(t)
	if si < 0 {
		return
	}
	ax := s.axis()
	stripStep, itemStep := ax.step(dir)
	st := s.strips[si]

	switch {
	case stripStep != 0 && len(st.items) > 1:
		it := st.remove(ii)
		it.size = 1
		at := si
		if stripStep > 0 {
			at = si + 1
		}
		s.strips = slices.Insert(s.strips, at, &strip{width: st.width, items: []*item{it}})
	case stripStep != 0:
		nb := si + stripStep
		if nb < 0 || nb >= len(s.strips) {
			s.toOtherMonitor(t, dir, silent)
			return
		}
		it := st.items[0]
		s.strips = slices.Delete(s.strips, si, si+1)
		if nb > si {
			nb--
		}
		target := s.strips[nb]
		target.insert(it, len(target.items))
	case itemStep != 0:
		nb := ii + itemStep
		if nb < 0 || nb >= len(st.items) {
			s.toOtherMonitor(t, dir, silent)
			return
		}
		st.items[ii], st.items[nb] = st.items[nb], st.items[ii]
	default:
		return
	}

	if !silent {
		if si, _ := s.find(t); si >= 0 {
			s.bringIntoView(si)
		}
	}
	s.Recalculate()
}

func (s *Scrolling) toOtherMonitor(t *layout.Target, dir geom.Direction, silent bool) {
	wa := s.space.WorkArea()
	b := t.Box()
	if dir.Horizontal() {
		b.X, b.W = wa.X, wa.W
	} else {
		b.Y, b.H = wa.Y, wa.H
	}
	focal := geom.EdgeFocal(b, dir)
	other := s.env().SpaceAt(focal)
	if other == nil || other == s.space {
		return
	}
	t.AssignToSpace(other, &focal)
	if silent {
		if c := s.space.Algorithm().NextCandidate(t); c != nil {
			s.env().Focus(c)
		}
	}
}

// Recalculate clamps the camera and positions every tile.
func (s *Scrolling) Recalculate() {
	s.clampOffset()
	s.place()
}

// place positions every tile at the current offset. Tiles are inset by
// gaps_in on edges shared with another tile.
func (s *Scrolling) place() {
	ax := s.axis()
	p, sec := ax.primary(), ax.secondary()
	gaps := s.cfg().General.GapsIn
	last := len(s.strips) - 1

	var pos float64
	for i, st := range s.strips {
		w := s.width(i) * p
		var q float64
		for j, it := range st.items {
			h := it.size * sec
			lead, trail, top, bottom := gaps, gaps, gaps, gaps
			if i == 0 {
				lead = 0
			}
			if i == last {
				trail = 0
			}
			if j == 0 {
				top = 0
			}
			if j == len(st.items)-1 {
				bottom = 0
			}
			if t := s.targetOf(it); t != nil {
				t.SetPositionGlobal(ax.box(pos-s.offset+lead, w-lead-trail, q+top, h-top-bottom))
			} else {
				s.logger().Error("internal bug: strip item without a live target", "handle", it.target.String())
			}
			q += h
		}
		pos += w
	}
}

// NextCandidate prefers a neighbour in the same strip, then the adjacent
// strips, then focus history.
func (s *Scrolling) NextCandidate(old *layout.Target) *layout.Target {
	si, ii := s.find(old)
	if si >= 0 {
		items := s.strips[si].items
		for _, j := range []int{ii + 1, ii - 1} {
			if j >= 0 && j < len(items) {
				if t := s.targetOf(items[j]); t != nil {
					return t
				}
			}
		}
		for _, j := range []int{si - 1, si + 1} {
			if j >= 0 && j < len(s.strips) {
				if t := s.targetOf(s.strips[j].items[0]); t != nil {
					return t
				}
			}
		}
	}
	for _, t := range s.env().FocusHistory() {
		if t != old {
			if j, _ := s.find(t); j >= 0 {
				return t
			}
		}
	}
	return nil
}

// FocusChanged brings the focused strip into view unless enough of it is
// already visible.
func (s *Scrolling) FocusChanged(t *layout.Target) {
	cfg := s.cfg().Scrolling
	if !cfg.FollowFocus || s.frozen() {
		return
	}
	si, _ := s.find(t)
	if si < 0 {
		return
	}
	if s.visibleFraction(si) > cfg.FollowMinVisible {
		return
	}
	s.bringIntoView(si)
	s.Recalculate()
}

// StripInfo describes one strip.
type StripInfo struct {
	Width     float64
	Fractions []float64
	Targets   []*layout.Target
}

// Strips returns the strips in content order.
func (s *Scrolling) Strips() []StripInfo {
	out := make([]StripInfo, len(s.strips))
	for i, st := range s.strips {
		out[i].Width = st.width
		for _, it := range st.items {
			out[i].Fractions = append(out[i].Fractions, it.size)
			out[i].Targets = append(out[i].Targets, s.targetOf(it))
		}
	}
	return out
}

// Offset returns the camera position in pixels.
func (s *Scrolling) Offset() float64 { return s.offset }
