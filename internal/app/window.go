package app

import (
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
)

// Window is a headless client window. It implements layout.Window.
type Window struct {
	id    string
	name  string
	class string
	title string

	min, max geom.Vector2D
	extents  geom.Extents

	reqSize geom.Vector2D
	reqPos  *geom.Vector2D

	mapped bool
	damage int

	// target is the window's own target. For a group member it is the
	// member, not the group.
	target *layout.Target
}

func (w *Window) ID() string             { return w.id }
func (w *Window) Name() string           { return w.name }
func (w *Window) Class() string          { return w.class }
func (w *Window) Title() string          { return w.title }
func (w *Window) MinSize() geom.Vector2D { return w.min }
func (w *Window) MaxSize() geom.Vector2D { return w.max }
func (w *Window) Extents() geom.Extents  { return w.extents }
func (w *Window) Mapped() bool           { return w.mapped }
func (w *Window) DamageEntire()          { w.damage++ }

// Damage returns how many times the window was fully damaged.
func (w *Window) Damage() int { return w.damage }

func (w *Window) Requested() (geom.Vector2D, *geom.Vector2D) {
	return w.reqSize, w.reqPos
}

// Target returns the window's target.
func (w *Window) Target() *layout.Target { return w.target }
