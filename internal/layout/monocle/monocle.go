// Package monocle shows one tiled target at a time over the whole work area.
package monocle

import (
	"strings"

	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
)

// Name is the registry key of this strategy.
const Name = "monocle"

// Monocle keeps an ordered list and the index of the visible entry.
type Monocle struct {
	space   *layout.Space
	targets []layout.Handle
	current int
}

// New creates a monocle strategy for space.
func New(space *layout.Space) layout.TiledStrategy {
	return &Monocle{space: space}
}

func (m *Monocle) arena() *layout.Arena { return m.space.Env().Arena() }

func (m *Monocle) indexOf(t *layout.Target) int {
	if t == nil {
		return -1
	}
	for i, h := range m.targets {
		if h == t.Handle() {
			return i
		}
	}
	return -1
}

// Current returns the visible target.
func (m *Monocle) Current() *layout.Target {
	if m.current < 0 || m.current >= len(m.targets) {
		return nil
	}
	t, _ := m.arena().Get(m.targets[m.current])
	return t
}

// Targets returns the members in cycle order.
func (m *Monocle) Targets() []*layout.Target {
	return m.arena().Resolve(m.targets)
}

// NewTarget appends t and makes it visible.
func (m *Monocle) NewTarget(t *layout.Target) {
	m.targets = append(m.targets, t.Handle())
	m.current = len(m.targets) - 1
	m.Recalculate()
}

// MovedTarget is NewTarget; monocle has no positions to aim at.
func (m *Monocle) MovedTarget(t *layout.Target, _ *geom.Vector2D) {
	m.NewTarget(t)
}

// RemoveTarget drops t. When t was visible the most recently focused
// survivor takes over, otherwise the index is clamped.
func (m *Monocle) RemoveTarget(t *layout.Target) {
	i := m.indexOf(t)
	if i < 0 {
		m.space.Env().Logger().Error("internal bug: removing target missing from monocle", "target", t.ID())
		return
	}
	wasCurrent := i == m.current
	m.targets = append(m.targets[:i], m.targets[i+1:]...)
	t.SetHidden(false)

	switch {
	case len(m.targets) == 0:
		m.current = 0
	case wasCurrent:
		m.current = min(i, len(m.targets)-1)
		for _, f := range m.space.Env().FocusHistory() {
			if j := m.indexOf(f); j >= 0 && f != t {
				m.current = j
				break
			}
		}
	case i < m.current:
		m.current--
	}
	m.Recalculate()
}

// ReplaceTarget gives old's slot to new.
func (m *Monocle) ReplaceTarget(old, new *layout.Target) {
	if i := m.indexOf(old); i >= 0 {
		m.targets[i] = new.Handle()
		m.Recalculate()
	}
}

// ResizeTarget is a no-op: the visible target always fills the work area.
func (m *Monocle) ResizeTarget(geom.Vector2D, *layout.Target, geom.Corner) {}

// MoveTargetInDirection hands t to the monitor in dir, or reorders it in
// the cycle when there is none.
func (m *Monocle) MoveTargetInDirection(t *layout.Target, dir geom.Direction, silent bool) {
	i := m.indexOf(t)
	if i < 0 {
		return
	}
	env := m.space.Env()
	focal := geom.EdgeFocal(m.space.WorkArea(), dir)
	if other := env.SpaceAt(focal); other != nil && other != m.space {
		t.AssignToSpace(other, &focal)
		if silent {
			if c := m.Current(); c != nil {
				env.Focus(c)
			}
		}
		return
	}

	j := i + 1
	if dir == geom.DirectionLeft || dir == geom.DirectionUp {
		j = i - 1
	}
	if j < 0 || j >= len(m.targets) {
		return
	}
	m.targets[i], m.targets[j] = m.targets[j], m.targets[i]
	if m.current == i {
		m.current = j
	} else if m.current == j {
		m.current = i
	}
}

// SwapTargets swaps list positions. The visible target stays visible.
func (m *Monocle) SwapTargets(a, b *layout.Target) {
	i, j := m.indexOf(a), m.indexOf(b)
	if i < 0 || j < 0 {
		return
	}
	visible := m.targets[m.current]
	m.targets[i], m.targets[j] = m.targets[j], m.targets[i]
	for k, h := range m.targets {
		if h == visible {
			m.current = k
		}
	}
}

// Recalculate shows the current target over the work area and hides the
// rest.
func (m *Monocle) Recalculate() {
	wa := m.space.WorkArea()
	for i, t := range m.Targets() {
		if i == m.current {
			t.SetHidden(false)
			t.SetPositionGlobal(wa)
			continue
		}
		t.SetHidden(true)
	}
}

// LayoutMsg handles cyclenext and cycleprev.
func (m *Monocle) LayoutMsg(msg string) error {
	args := strings.Fields(msg)
	if len(args) == 0 {
		return tserrors.New(tserrors.ErrCodeInvalidCommand, "empty layout message")
	}
	switch args[0] {
	case "cyclenext":
		m.cycle(1)
	case "cycleprev":
		m.cycle(-1)
	default:
		return tserrors.New(tserrors.ErrCodeInvalidCommand, "unknown monocle command %q", args[0])
	}
	return nil
}

func (m *Monocle) cycle(step int) {
	n := len(m.targets)
	if n == 0 {
		return
	}
	m.current = ((m.current+step)%n + n) % n
	m.Recalculate()
	if t := m.Current(); t != nil {
		m.space.Env().Focus(t)
	}
}

// NextCandidate returns the target that becomes visible when old goes away.
func (m *Monocle) NextCandidate(old *layout.Target) *layout.Target {
	for _, f := range m.space.Env().FocusHistory() {
		if f != old && m.indexOf(f) >= 0 {
			return f
		}
	}
	for _, t := range m.Targets() {
		if t != old {
			return t
		}
	}
	return nil
}

// FocusChanged makes the focused target the visible one.
func (m *Monocle) FocusChanged(t *layout.Target) {
	i := m.indexOf(t)
	if i < 0 || i == m.current {
		return
	}
	m.current = i
	m.Recalculate()
}
