// Package layouttest provides an in-memory Env and Window for strategy tests.
package layouttest

import (
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tessera/internal/config"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
	"github.com/Gaurav-Gosain/tessera/internal/logging"
)

// Window is a scriptable layout.Window.
type Window struct {
	IDValue    string
	ClassValue string
	Min, Max   geom.Vector2D
	Ext        geom.Extents
	Unmapped   bool
	ReqSize    geom.Vector2D
	ReqPos     *geom.Vector2D
	Damage     int
}

func (w *Window) ID() string { return w.IDValue }
func (w *Window) Class() string { return w.ClassValue }
func (w *Window) MinSize() geom.Vector2D { return w.Min }
func (w *Window) MaxSize() geom.Vector2D { return w.Max }
func (w *Window) Extents() geom.Extents { return w.Ext }
func (w *Window) Mapped() bool { return !w.Unmapped }
func (w *Window) DamageEntire() { w.Damage++ }

func (w *Window) Requested() (geom.Vector2D, *geom.Vector2D) {
	return w.ReqSize, w.ReqPos
}

type monitor struct {
	space *layout.Space
	box   geom.Box
}

// Env is a single threaded layout.Env backed by plain fields.
type Env struct {
	Cfg       *config.Config
	Log       *log.Logger
	Targets   *layout.Arena
	CursorPos geom.Vector2D
	History   []*layout.Target
	Drag      *layout.Target
	Clock     time.Time

	// Self, when set, is handed to new spaces instead of the Env itself so
	// tests can embed Env and add optional capabilities.
	Self layout.Env

	monitors []monitor
}

// NewEnv returns an Env with the default config and a discarding logger.
func NewEnv() *Env {
	return &Env{
		Cfg:     config.DefaultConfig(),
		Log:     logging.Discard(),
		Targets: layout.NewArena(),
		Clock:   time.Unix(0, 0),
	}
}

func (e *Env) Config() *config.Config { return e.Cfg }
func (e *Env) Logger() *log.Logger { return e.Log }
func (e *Env) Arena() *layout.Arena { return e.Targets }
func (e *Env) Cursor() geom.Vector2D { return e.CursorPos }
func (e *Env) DragTarget() *layout.Target { return e.Drag }
func (e *Env) Now() time.Time { return e.Clock }

// Focused returns the head of the focus history.
func (e *Env) Focused() *layout.Target {
	if h := e.FocusHistory(); len(h) > 0 {
		return h[0]
	}
	return nil
}

// FocusHistory returns the live targets, most recent first.
func (e *Env) FocusHistory() []*layout.Target {
	out := make([]*layout.Target, 0, len(e.History))
	for _, t := range e.History {
		if t.Alive() {
			out = append(out, t)
		}
	}
	return out
}

// Focus moves t to the front of the history and notifies its space.
func (e *Env) Focus(t *layout.Target) {
	if t == nil {
		return
	}
	e.forget(t)
	e.History = append([]*layout.Target{t}, e.History...)
	if s := t.Space(); s != nil {
		s.Algorithm().FocusChanged(t)
	}
}

func (e *Env) forget(t *layout.Target) {
	for i, h := range e.History {
		if h == t {
			e.History = append(e.History[:i], e.History[i+1:]...)
			return
		}
	}
}

// SpaceAt returns the space whose monitor contains p.
func (e *Env) SpaceAt(p geom.Vector2D) *layout.Space {
	for _, m := range e.monitors {
		if m.box.Contains(p) {
			return m.space
		}
	}
	return nil
}

// MonitorBox returns the monitor of s, or an empty box.
func (e *Env) MonitorBox(s *layout.Space) geom.Box {
	for _, m := range e.monitors {
		if m.space == s {
			return m.box
		}
	}
	return geom.Box{}
}

// NewSpace creates a space on its own monitor with the work area set to the
// monitor box.
func (e *Env) NewSpace(tb testing.TB, reg *layout.Registry, tiled, floating string, mon geom.Box) *layout.Space {
	tb.Helper()
	var env layout.Env = e
	if e.Self != nil {
		env = e.Self
	}
	s, err := layout.NewSpace(len(e.monitors)+1, env, reg, tiled, floating)
	if err != nil {
		tb.Fatalf("NewSpace(%q, %q): %v", tiled, floating, err)
	}
	e.monitors = append(e.monitors, monitor{space: s, box: mon})
	s.SetWorkArea(mon)
	return s
}

// Open maps a window with id into s and focuses it.
func (e *Env) Open(s *layout.Space, id string) *layout.Target {
	return e.OpenWindow(s, &Window{IDValue: id, ClassValue: "test"})
}

// OpenWindow maps w into s and focuses it.
func (e *Env) OpenWindow(s *layout.Space, w *Window) *layout.Target {
	t := e.Targets.NewTarget(w)
	t.AssignToSpace(s, nil)
	e.Focus(t)
	return t
}

// OpenFloating maps w as a floating target.
func (e *Env) OpenFloating(s *layout.Space, w *Window) *layout.Target {
	t := e.Targets.NewTarget(w)
	t.SetInitialFloating(true)
	t.AssignToSpace(s, nil)
	e.Focus(t)
	return t
}

// Close unmaps t, releases it and focuses the next candidate.
func (e *Env) Close(t *layout.Target) {
	s := t.Space()
	wasFocused := e.Focused() == t
	var next *layout.Target
	if s != nil {
		next = s.Algorithm().NextCandidate(t)
	}
	t.AssignToSpace(nil, nil)
	e.forget(t)
	e.Targets.Release(t.Handle())
	if wasFocused && next != nil {
		e.Focus(next)
	}
}
