package layout

import (
	"github.com/Gaurav-Gosain/tessera/internal/geom"
)

// Space is the layout surface of one workspace. It owns the Algorithm and
// the work area; target membership is tracked by handle.
type Space struct {
	id       int
	env      Env
	workArea geom.Box
	targets  []Handle
	algo     *Algorithm
}

// NewSpace creates a space using the named strategies from reg.
func NewSpace(id int, env Env, reg *Registry, tiled, floating string) (*Space, error) {
	s := &Space{id: id, env: env}
	algo, err := newAlgorithm(s, reg, tiled, floating)
	if err != nil {
		return nil, err
	}
	s.algo = algo
	return s, nil
}

func (s *Space) ID() int { return s.id }
func (s *Space) Env() Env { return s.env }
func (s *Space) Algorithm() *Algorithm { return s.algo }
func (s *Space) WorkArea() geom.Box { return s.workArea }
func (s *Space) MonitorBox() geom.Box { return s.env.MonitorBox(s) }

// SetWorkArea updates the usable area and re-lays out on change.
func (s *Space) SetWorkArea(box geom.Box) {
	if box == s.workArea {
		return
	}
	s.workArea = box
	s.algo.Recalculate()
}

// Targets returns the live members.
func (s *Space) Targets() []*Target {
	return s.env.Arena().Resolve(s.targets)
}

// Has reports whether t is a member.
func (s *Space) Has(t *Target) bool {
	return t != nil && indexOf(s.targets, t.handle) >= 0
}

// Recalculate re-lays out every member.
func (s *Space) Recalculate() {
	s.algo.Recalculate()
}

// LayoutMsg forwards a command to the tiled strategy.
func (s *Space) LayoutMsg(msg string) error {
	return s.algo.LayoutMsg(msg)
}

func (s *Space) addTarget(t *Target) {
	t.space = s
	s.targets = append(s.targets, t.handle)
	s.algo.AddTarget(t)
}

func (s *Space) movedTarget(t *Target, focal *geom.Vector2D) {
	t.space = s
	s.targets = append(s.targets, t.handle)
	s.algo.MovedTarget(t, focal)
}

func (s *Space) removeTarget(t *Target) {
	i := indexOf(s.targets, t.handle)
	if i < 0 {
		return
	}
	s.algo.RemoveTarget(t)
	s.targets = append(s.targets[:i], s.targets[i+1:]...)
	t.space = nil
}

func (s *Space) replaceTarget(old, new *Target) {
	i := indexOf(s.targets, old.handle)
	if i < 0 {
		return
	}
	s.targets[i] = new.handle
	new.space = s
	s.algo.ReplaceTarget(old, new)
	old.space = nil
}
