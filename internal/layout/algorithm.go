package layout

import (
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/metrics"
)

// Algorithm arbitrates between one tiled and one floating strategy, routing
// every operation by the target's floating flag.
type Algorithm struct {
	space    *Space
	registry *Registry

	tiled        TiledStrategy
	tiledName    string
	floating     FloatingStrategy
	floatingName string

	tiledTargets    []Handle
	floatingTargets []Handle
}

func newAlgorithm(s *Space, reg *Registry, tiledName, floatingName string) (*Algorithm, error) {
	tiled, err := reg.newTiled(tiledName, s)
	if err != nil {
		return nil, err
	}
	floating, err := reg.newFloating(floatingName, s)
	if err != nil {
		return nil, err
	}
	return &Algorithm{
		space:        s,
		registry:     reg,
		tiled:        tiled,
		tiledName:    tiledName,
		floating:     floating,
		floatingName: floatingName,
	}, nil
}

func (a *Algorithm) Tiled() TiledStrategy { return a.tiled }
func (a *Algorithm) Floating() FloatingStrategy { return a.floating }
func (a *Algorithm) TiledName() string { return a.tiledName }
func (a *Algorithm) FloatingName() string { return a.floatingName }

// TiledTargets returns the live tiled members in insertion order.
func (a *Algorithm) TiledTargets() []*Target {
	return a.space.env.Arena().Resolve(a.tiledTargets)
}

// FloatingTargets returns the live floating members in insertion order.
func (a *Algorithm) FloatingTargets() []*Target {
	return a.space.env.Arena().Resolve(a.floatingTargets)
}

func (a *Algorithm) strategyFor(t *Target) Strategy {
	if t.floating {
		return a.floating
	}
	return a.tiled
}

func (a *Algorithm) listFor(t *Target) *[]Handle {
	if t.floating {
		return &a.floatingTargets
	}
	return &a.tiledTargets
}

func (a *Algorithm) tracks(t *Target) bool {
	return indexOf(*a.listFor(t), t.handle) >= 0
}

// AddTarget places a target that is new to the space.
func (a *Algorithm) AddTarget(t *Target) {
	list := a.listFor(t)
	*list = append(*list, t.handle)
	a.strategyFor(t).NewTarget(t)
	a.finish()
}

// MovedTarget places a target re-entering the space.
func (a *Algorithm) MovedTarget(t *Target, focal *geom.Vector2D) {
	list := a.listFor(t)
	*list = append(*list, t.handle)
	a.strategyFor(t).MovedTarget(t, focal)
	a.finish()
}

// RemoveTarget drops t from whichever strategy holds it.
func (a *Algorithm) RemoveTarget(t *Target) {
	list := a.listFor(t)
	i := indexOf(*list, t.handle)
	if i < 0 {
		a.space.env.Logger().Error("internal bug: removing untracked target", "target", t.ID(), "space", a.space.id)
		return
	}
	*list = append((*list)[:i], (*list)[i+1:]...)
	a.strategyFor(t).RemoveTarget(t)
	a.finish()
}

// ReplaceTarget gives new the slot of old without re-placing anything.
func (a *Algorithm) ReplaceTarget(old, new *Target) {
	list := a.listFor(old)
	i := indexOf(*list, old.handle)
	if i < 0 {
		a.space.env.Logger().Error("internal bug: replacing untracked target", "target", old.ID())
		return
	}
	new.floating = old.floating
	(*list)[i] = new.handle
	a.strategyFor(old).ReplaceTarget(old, new)
	a.finish()
}

// ResizeTarget applies a pointer delta to t at the grabbed corner.
func (a *Algorithm) ResizeTarget(delta geom.Vector2D, t *Target, corner geom.Corner) {
	if !a.tracks(t) {
		return
	}
	a.strategyFor(t).ResizeTarget(delta, t, corner)
	a.finish()
}

// MoveTarget translates a floating target. Tiled targets have no free
// position and are left alone.
func (a *Algorithm) MoveTarget(delta geom.Vector2D, t *Target) {
	if !a.tracks(t) {
		return
	}
	if !t.floating {
		a.space.env.Logger().Debug("ignoring move of tiled target", "target", t.ID())
		return
	}
	a.floating.MoveTarget(delta, t)
	a.finish()
}

// MoveTargetInDirection moves t toward dir using its strategy's semantics.
func (a *Algorithm) MoveTargetInDirection(t *Target, dir geom.Direction, silent bool) {
	if !a.tracks(t) {
		return
	}
	a.strategyFor(t).MoveTargetInDirection(t, dir, silent)
	if t.space != nil && t.space != a.space {
		// the strategy handed t to another space
		return
	}
	a.finish()
}

// SwapTargets swaps two targets placed by the same strategy.
func (a *Algorithm) SwapTargets(x, y *Target) {
	if x.floating != y.floating || !a.tracks(x) || !a.tracks(y) {
		return
	}
	a.strategyFor(x).SwapTargets(x, y)
	a.finish()
}

// SetFloating moves t between the tiled and floating strategies.
func (a *Algorithm) SetFloating(t *Target, floating bool) {
	a.SetFloatingAt(t, floating, nil)
}

// SetFloatingAt is SetFloating with a focal point for the re-add.
func (a *Algorithm) SetFloatingAt(t *Target, floating bool, focal *geom.Vector2D) {
	if t.floating == floating {
		return
	}
	list := a.listFor(t)
	i := indexOf(*list, t.handle)
	if i < 0 {
		a.space.env.Logger().Error("internal bug: toggling floating on untracked target", "target", t.ID())
		return
	}
	*list = append((*list)[:i], (*list)[i+1:]...)
	a.strategyFor(t).RemoveTarget(t)

	if t.floating {
		t.lastFloatingSize = t.box.Size()
	}
	t.floating = floating

	list = a.listFor(t)
	*list = append(*list, t.handle)
	if floating {
		t.fromTiled = true
		a.floating.MovedTarget(t, focal)
		t.fromTiled = false
	} else {
		a.tiled.MovedTarget(t, focal)
	}
	a.finish()
}

// UpdateTiledAlgo swaps the tiled strategy, transplanting every tiled target
// through the new strategy's NewTarget path.
func (a *Algorithm) UpdateTiledAlgo(name string) error {
	if name == a.tiledName {
		return nil
	}
	next, err := a.registry.newTiled(name, a.space)
	if err != nil {
		return err
	}
	a.tiled = next
	a.tiledName = name
	for _, t := range a.TiledTargets() {
		t.SetHidden(false)
		next.NewTarget(t)
	}
	if f := a.space.env.Focused(); f != nil && !f.floating && a.tracks(f) {
		next.FocusChanged(f)
	}
	a.Recalculate()
	return nil
}

// UpdateFloatingAlgo swaps the floating strategy.
func (a *Algorithm) UpdateFloatingAlgo(name string) error {
	if name == a.floatingName {
		return nil
	}
	next, err := a.registry.newFloating(name, a.space)
	if err != nil {
		return err
	}
	a.floating = next
	a.floatingName = name
	for _, t := range a.FloatingTargets() {
		t.SetHidden(false)
		next.NewTarget(t)
	}
	a.Recalculate()
	return nil
}

// NextCandidate picks the target to focus after old loses focus or goes
// away. Tiled targets ask the tiled strategy; floating ones walk the focus
// history restricted to this space, then fall back to any member.
func (a *Algorithm) NextCandidate(old *Target) *Target {
	if old != nil && !old.floating {
		if c := a.tiled.NextCandidate(old); c != nil && c != old {
			return c
		}
	}

	for _, t := range a.space.env.FocusHistory() {
		if t != old && t.space == a.space && !t.hidden {
			return t
		}
	}

	for _, t := range append(a.FloatingTargets(), a.TiledTargets()...) {
		if t != old && !t.hidden {
			return t
		}
	}
	return nil
}

// FocusChanged tells the tiled strategy that t was focused externally.
func (a *Algorithm) FocusChanged(t *Target) {
	if t == nil || t.floating || !a.tracks(t) {
		return
	}
	a.tiled.FocusChanged(t)
	a.finish()
}

// LayoutMsg forwards a command to the tiled strategy.
func (a *Algorithm) LayoutMsg(msg string) error {
	err := a.tiled.LayoutMsg(msg)
	metrics.LayoutMessages.WithLabelValues(a.tiledName, metrics.Result(err)).Inc()
	a.finish()
	return err
}

// Recalculate re-lays out both strategies.
func (a *Algorithm) Recalculate() {
	metrics.Recalculations.WithLabelValues(a.tiledName).Inc()
	a.tiled.Recalculate()
	a.floating.Recalculate()
	a.finish()
}

// finish applies fullscreen geometry on top of whatever the strategies set.
func (a *Algorithm) finish() {
	for _, t := range append(a.TiledTargets(), a.FloatingTargets()...) {
		switch t.fullscreen {
		case FullscreenFull:
			t.SetPositionGlobal(a.space.MonitorBox())
		case FullscreenMaximized:
			t.SetPositionGlobal(a.space.workArea)
		}
	}
}

func indexOf(list []Handle, h Handle) int {
	for i, x := range list {
		if x == h {
			return i
		}
	}
	return -1
}
