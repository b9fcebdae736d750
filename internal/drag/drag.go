// Package drag implements interactive move and resize of targets with the
// pointer, including edge snapping.
package drag

import (
	"math"
	"strings"
	"time"

	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
	"github.com/Gaurav-Gosain/tessera/internal/layout/floating"
	"github.com/Gaurav-Gosain/tessera/internal/metrics"
)

// Mode is what a drag does to its target.
type Mode int

const (
	ModeMove Mode = iota
	ModeResize
	// ModeResizeForceRatio keeps the aspect ratio the target had at pickup.
	ModeResizeForceRatio
	// ModeResizeBlockRatio resizes freely even if a ratio lock would apply.
	ModeResizeBlockRatio
)

func (m Mode) String() string {
	switch m {
	case ModeMove:
		return "move"
	case ModeResize:
		return "resize"
	case ModeResizeForceRatio:
		return "resize_force_ratio"
	case ModeResizeBlockRatio:
		return "resize_block_ratio"
	}
	return "unknown"
}

// ParseMode accepts the names produced by Mode.String plus short forms.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "move":
		return ModeMove, nil
	case "resize":
		return ModeResize, nil
	case "resize_force_ratio", "force_ratio", "ratio":
		return ModeResizeForceRatio, nil
	case "resize_block_ratio", "block_ratio":
		return ModeResizeBlockRatio, nil
	}
	return ModeMove, tserrors.New(tserrors.ErrCodeInvalidArgument, "invalid drag mode %q", s)
}

// State is where the controller is in a drag session.
type State int

const (
	StateIdle State = iota
	// StateArmed waits for the pointer to pass the threshold.
	StateArmed
	// StateActive has picked the target up.
	StateActive
)

func (s State) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateActive:
		return "active"
	}
	return "idle"
}

// floatShrink scales a tiled target's size when it is lifted into floating.
const floatShrink = 0.8489

const defaultRefreshRate = 60.0

// RefreshRater is implemented by environments that know monitor refresh
// rates. Resize updates are limited to one per refresh interval.
type RefreshRater interface {
	RefreshRate(s *layout.Space) float64
}

// Outcomes recorded in metrics.DragSessions.
const (
	OutcomeCompleted = "completed"
	OutcomeMerged    = "merged"
	OutcomeRetiled   = "retiled"
	OutcomeCancelled = "cancelled"
	OutcomeAborted   = "aborted"
)

// Controller runs one drag session at a time. It holds the target by handle
// and re-checks liveness before every step; a target that went away ends the
// session quietly.
type Controller struct {
	env layout.Env

	state  State
	mode   Mode
	handle layout.Handle

	// armedAt is the pointer at Begin, used for the threshold.
	armedAt geom.Vector2D
	// begin is the pointer at pickup; last is the last applied pointer.
	begin, last geom.Vector2D
	lastUpdate  time.Time

	beginBox geom.Box
	corner   geom.Corner

	// converted is set when pickup turned a tiled target floating.
	converted        bool
	preDragFloatSize geom.Vector2D

	outcome string
}

// New creates an idle controller.
func New(env layout.Env) *Controller {
	return &Controller{env: env}
}

func (c *Controller) State() State { return c.state }
func (c *Controller) Mode() Mode { return c.mode }

// Corner returns the grabbed corner of the active session.
func (c *Controller) Corner() geom.Corner { return c.corner }

// Target returns the picked up target, or nil when no session is active.
func (c *Controller) Target() *layout.Target {
	if c.state != StateActive {
		return nil
	}
	return c.live()
}

// live resolves the session target, nil if it was destroyed or unmapped.
func (c *Controller) live() *layout.Target {
	t, ok := c.env.Arena().Get(c.handle)
	if !ok || !t.Alive() || t.Space() == nil {
		return nil
	}
	return t
}

// Begin arms a session on t with the pointer at p. Without a configured
// threshold the target is picked up right away.
func (c *Controller) Begin(t *layout.Target, mode Mode, p geom.Vector2D) error {
	if c.state != StateIdle {
		return tserrors.New(tserrors.ErrCodeInvalidCommand, "a drag is already in progress")
	}
	if !t.Alive() || t.Space() == nil {
		return tserrors.New(tserrors.ErrCodeNoTarget, "nothing to drag")
	}

	*c = Controller{env: c.env, state: StateArmed, mode: mode, handle: t.Handle(), armedAt: p}
	if c.env.Config().Drag.Threshold <= 0 {
		c.pickUp(t, p)
	}
	return nil
}

// Motion feeds a pointer position into the session.
func (c *Controller) Motion(p geom.Vector2D) {
	if c.state == StateIdle {
		return
	}
	t := c.live()
	if t == nil {
		c.abort()
		return
	}

	if c.state == StateArmed {
		if p.Distance(c.armedAt) < c.env.Config().Drag.Threshold {
			return
		}
		c.pickUp(t, p)
		return
	}

	c.update(t, p)
}

func (c *Controller) pickUp(t *layout.Target, p geom.Vector2D) {
	s := t.Space()
	cfg := c.env.Config()

	if t.Fullscreen() != layout.FullscreenNone {
		t.SetFullscreenMode(layout.FullscreenNone)
		s.Recalculate()
	}

	if c.mode == ModeMove && !t.Floating() {
		c.converted = true
		c.preDragFloatSize = t.LastFloatingSize()
		t.SetLastFloatingSize(t.Box().Size().Scale(floatShrink))
		s.Algorithm().SetFloatingAt(t, true, &p)
	}

	c.state = StateActive
	c.begin, c.last = p, p
	c.beginBox = t.Box()
	if n := cfg.Drag.ResizeCorner; n >= int(geom.CornerTopLeft) && n <= int(geom.CornerBottomLeft) {
		c.corner = geom.Corner(n)
	} else {
		c.corner = geom.CornerFor(t.Box(), p)
	}

	c.env.Logger().Debug("drag picked up", "target", t.ID(), "mode", c.mode, "corner", c.corner, "converted", c.converted)
}

func (c *Controller) refreshInterval(s *layout.Space) time.Duration {
	hz := defaultRefreshRate
	if r, ok := c.env.(RefreshRater); ok {
		if v := r.RefreshRate(s); v > 0 {
			hz = v
		}
	}
	return time.Duration(float64(time.Second) / hz)
}

func (c *Controller) update(t *layout.Target, p geom.Vector2D) {
	now := c.env.Now()
	if c.mode != ModeMove && !c.lastUpdate.IsZero() && now.Sub(c.lastUpdate) < c.refreshInterval(t.Space()) {
		return
	}
	c.lastUpdate = now

	snap := c.env.Config().General.Snap.Enabled
	total := p.Sub(c.begin)
	tick := p.Sub(c.last)
	c.last = p

	if c.mode == ModeMove {
		box := c.beginBox.Translate(total)
		if snap {
			box = Snap(box, snapInputFor(t, c.mode, geom.MaskAll, c.beginBox.Size()))
		}
		t.Warp(box)
		return
	}

	if !t.Floating() {
		t.Space().Algorithm().ResizeTarget(tick, t, c.corner)
		return
	}

	raw := floating.ResizeBox(c.beginBox, total, c.corner, geom.Vec(1, 1), geom.Vector2D{})
	box := raw
	if snap {
		box = Snap(raw, snapInputFor(t, c.mode, c.corner.Mask(), c.beginBox.Size()))
	}
	if c.mode == ModeResizeForceRatio && box == raw {
		box = lockRatio(box, c.beginBox.Size(), total, c.corner)
	}
	box = floating.ResizeBox(box, geom.Vector2D{}, c.corner, t.MinSize(), t.MaxSize())
	t.Warp(box)
}

// lockRatio recomputes the axis the pointer moved less along so the box
// keeps ratio, holding the edges opposite corner.
func lockRatio(box geom.Box, ratio geom.Vector2D, delta geom.Vector2D, corner geom.Corner) geom.Box {
	if ratio.X <= 0 || ratio.Y <= 0 {
		return box
	}
	out := box
	if math.Abs(delta.X)*ratio.Y >= math.Abs(delta.Y)*ratio.X {
		out.H = box.W * ratio.Y / ratio.X
	} else {
		out.W = box.H * ratio.X / ratio.Y
	}
	if corner.Left() {
		out.X = box.X + box.W - out.W
	}
	if corner.Top() {
		out.Y = box.Y + box.H - out.H
	}
	return out
}

// End drops the target and closes the session.
func (c *Controller) End() {
	switch c.state {
	case StateIdle:
		return
	case StateArmed:
		c.finish(OutcomeCancelled)
		return
	}
	t := c.live()
	if t == nil {
		c.abort()
		return
	}

	outcome := OutcomeCompleted
	var settle *layout.Space
	if c.mode == ModeMove {
		outcome = c.drop(t, c.last)
	} else if !t.Floating() {
		settle = t.Space()
	}
	// The session must be idle before the final layout pass so strategies
	// no longer see t as dragged.
	c.finish(outcome)
	if settle != nil {
		settle.Recalculate()
	}
}

// drop settles a moved target at pointer p.
func (c *Controller) drop(t *layout.Target, p geom.Vector2D) string {
	dst := c.env.SpaceAt(p)
	if dst == nil {
		dst = t.Space()
	}
	under := tiledUnder(dst, t, p)

	if c.converted {
		defer t.SetLastFloatingSize(c.preDragFloatSize)

		if under != nil && under.IsGroup() && c.env.Config().Drag.MergeGroups {
			under.Group().Merge(t)
			c.env.Focus(under)
			return OutcomeMerged
		}
		if under != nil {
			if t.Space() != dst {
				t.AssignToSpace(dst, &p)
			}
			dst.Algorithm().SetFloatingAt(t, false, &p)
			return OutcomeRetiled
		}
	}

	if t.Space() != dst {
		mid := t.Box().Middle()
		t.SetLastFloatingSize(t.Box().Size())
		t.AssignToSpace(dst, &mid)
	}
	return OutcomeCompleted
}

// tiledUnder returns the visible tiled target of s under p, other than t.
func tiledUnder(s *layout.Space, t *layout.Target, p geom.Vector2D) *layout.Target {
	for _, o := range s.Targets() {
		if o != t && !o.Floating() && !o.Hidden() && o.Box().Contains(p) {
			return o
		}
	}
	return nil
}

func (c *Controller) abort() {
	c.env.Logger().Debug("drag target went away, aborting", "mode", c.mode)
	c.finish(OutcomeAborted)
}

func (c *Controller) finish(outcome string) {
	metrics.DragSessions.WithLabelValues(c.mode.String(), outcome).Inc()
	c.outcome = outcome
	mode := c.mode
	*c = Controller{env: c.env, mode: mode, outcome: outcome}
}

// LastOutcome returns how the previous session ended.
func (c *Controller) LastOutcome() string { return c.outcome }
