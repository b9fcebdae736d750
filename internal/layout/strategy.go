package layout

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tessera/internal/config"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
)

// Env is the context a space and its strategies run in. It replaces global
// compositor state: monitors, focus, input and configuration are all reached
// through it.
type Env interface {
	Config() *config.Config
	Logger() *log.Logger
	Arena() *Arena

	// Cursor returns the pointer position in global coordinates.
	Cursor() geom.Vector2D

	// Focused returns the focused target, or nil.
	Focused() *Target
	// FocusHistory returns targets most recently focused first.
	FocusHistory() []*Target
	// Focus fully focuses t, raising it and notifying its space.
	Focus(t *Target)

	// SpaceAt returns the active space of the monitor under p, or nil.
	SpaceAt(p geom.Vector2D) *Space
	// MonitorBox returns the full box of the monitor showing s.
	MonitorBox(s *Space) geom.Box

	// DragTarget returns the target of the live drag session, or nil.
	DragTarget() *Target

	// Now returns the compositor clock.
	Now() time.Time
}

// Strategy is implemented by both tiled and floating layouts.
type Strategy interface {
	// NewTarget places a target entering the space for the first time.
	NewTarget(t *Target)
	// MovedTarget places a target re-entering placement, optionally at focal.
	MovedTarget(t *Target, focal *geom.Vector2D)
	RemoveTarget(t *Target)
	// ReplaceTarget gives new the slot held by old.
	ReplaceTarget(old, new *Target)
	ResizeTarget(delta geom.Vector2D, t *Target, corner geom.Corner)
	MoveTargetInDirection(t *Target, dir geom.Direction, silent bool)
	SwapTargets(a, b *Target)
	Recalculate()
}

// TiledStrategy arranges non floating targets.
type TiledStrategy interface {
	Strategy
	// LayoutMsg runs a free text command. Failures are *errors.Error values.
	LayoutMsg(msg string) error
	// NextCandidate picks the target to focus after old goes away.
	NextCandidate(old *Target) *Target
	// FocusChanged is called when t gains focus from outside the strategy.
	FocusChanged(t *Target)
}

// FloatingStrategy places floating targets.
type FloatingStrategy interface {
	Strategy
	MoveTarget(delta geom.Vector2D, t *Target)
}
