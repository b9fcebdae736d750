package app

import (
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/tessera/internal/drag"
	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
	"github.com/Gaurav-Gosain/tessera/internal/scenario"
)

// Window returns the window with the given name or id.
func (d *Desktop) Window(ref string) (*Window, error) {
	if w, ok := d.byName[ref]; ok {
		return w, nil
	}
	if w, ok := d.windows[ref]; ok {
		return w, nil
	}
	return nil, tserrors.New(tserrors.ErrCodeNotFound, "no window %q", ref)
}

// Windows returns every open window ordered by name.
func (d *Desktop) Windows() []*Window {
	out := make([]*Window, 0, len(d.windows))
	for _, w := range d.windows {
		out = append(out, w)
	}
	slices.SortFunc(out, func(a, b *Window) int {
		switch {
		case a.name < b.name:
			return -1
		case a.name > b.name:
			return 1
		}
		return 0
	})
	return out
}

// placement returns the target that takes part in layout for w: its own
// target, or the group it was merged into.
func (d *Desktop) placement(w *Window) *layout.Target {
	t := w.target
	if t == nil || !t.Alive() {
		return nil
	}
	if t.Space() != nil {
		return t
	}
	return d.groupOf(t)
}

func (d *Desktop) groupOf(member *layout.Target) *layout.Target {
	for _, ws := range d.workspaces {
		for _, t := range ws.Space.Targets() {
			if t.IsGroup() && t.Group().Contains(member) {
				return t
			}
		}
	}
	return nil
}

// placed resolves ref to a placed target.
func (d *Desktop) placed(ref string) (*Window, *layout.Target, error) {
	w, err := d.Window(ref)
	if err != nil {
		return nil, nil, err
	}
	t := d.placement(w)
	if t == nil {
		return w, nil, tserrors.New(tserrors.ErrCodeNoTarget, "window %q is not placed", ref)
	}
	return w, t, nil
}

// Open maps a new window on the active workspace, or the workspace a window
// rule names, and focuses it when that workspace is visible.
func (d *Desktop) Open(spec scenario.WindowSpec) (*Window, error) {
	id := uuid.NewString()
	name := spec.Name
	if name == "" {
		name = id[:8]
	}
	if _, taken := d.byName[name]; taken {
		return nil, tserrors.New(tserrors.ErrCodeInvalidArgument, "window name %q is taken", name)
	}

	w := &Window{
		id:      id,
		name:    name,
		class:   spec.Class,
		title:   spec.Title,
		min:     spec.Min,
		max:     spec.Max,
		extents: geom.UniformExtents(d.cfg.General.BorderSize),
		reqSize: spec.Size,
		reqPos:  spec.At,
		mapped:  true,
	}

	match := d.rules.Match(w.class, w.title)
	ws := d.ActiveWorkspace()
	if match.Workspace != 0 {
		var err error
		if ws, err = d.ensureWorkspace(match.Workspace); err != nil {
			return nil, err
		}
	}

	t := d.arena.NewTarget(w)
	w.target = t
	d.windows[id] = w
	d.byName[name] = w

	if w.class != "" {
		ctx, cancel := d.storeContext()
		size, ok, err := d.store.LoadFloatingSize(ctx, w.class)
		cancel()
		switch {
		case err != nil:
			d.log.Warn("could not load floating size", "class", w.class, "err", err)
		case ok:
			t.SetLastFloatingSize(size)
		}
	}

	t.SetInitialFloating(spec.Floating || match.Float)
	t.AssignToSpace(ws.Space, nil)
	if match.Pseudo {
		t.SetPseudo(true)
		ws.Space.Recalculate()
	}
	if ws.Visible() {
		d.Focus(t)
	}

	d.log.Info("window opened", "name", name, "id", id, "class", w.class, "workspace", ws.ID, "floating", t.Floating())
	d.updateGauges()
	return w, nil
}

// CloseWindow unmaps a window. A floating window's size is remembered for
// its class.
func (d *Desktop) CloseWindow(ref string) error {
	w, err := d.Window(ref)
	if err != nil {
		return err
	}
	t := w.target

	if g := d.groupOf(t); g != nil {
		g.Group().Remove(t)
		d.arena.Release(t.Handle())
		w.mapped = false
		d.forgetWindow(w)
		if len(g.Group().Members()) == 0 {
			d.removeTarget(g)
		} else {
			g.Space().Recalculate()
		}
		d.updateGauges()
		return nil
	}

	if t.Floating() && w.class != "" {
		ctx, cancel := d.storeContext()
		if err := d.store.SaveFloatingSize(ctx, w.class, t.Box().Size()); err != nil {
			d.log.Warn("could not save floating size", "class", w.class, "err", err)
		}
		cancel()
	}

	d.removeTarget(t)
	w.mapped = false
	d.forgetWindow(w)
	d.updateGauges()
	d.log.Info("window closed", "name", w.name, "id", w.id)
	return nil
}

// removeTarget takes t out of its space and the arena, passing focus on.
func (d *Desktop) removeTarget(t *layout.Target) {
	s := t.Space()
	wasFocused := d.focused == t.Handle()
	var next *layout.Target
	if s != nil {
		next = s.Algorithm().NextCandidate(t)
	}
	t.AssignToSpace(nil, nil)
	d.arena.Release(t.Handle())
	if wasFocused {
		d.unfocus()
		if next != nil && next != t {
			d.Focus(next)
		}
	}
}

func (d *Desktop) forgetWindow(w *Window) {
	delete(d.windows, w.id)
	delete(d.byName, w.name)
	if d.dragWin == w {
		d.dragWin = nil
	}
}

// FocusWindow focuses the window, or the group holding it.
func (d *Desktop) FocusWindow(ref string) error {
	_, t, err := d.placed(ref)
	if err != nil {
		return err
	}
	d.Focus(t)
	return nil
}

// CycleFocus moves focus through the active workspace in layout order.
func (d *Desktop) CycleFocus(forward bool) {
	targets := slices.DeleteFunc(d.ActiveWorkspace().Space.Targets(), func(t *layout.Target) bool {
		return !t.Alive()
	})
	if len(targets) == 0 {
		return
	}
	i := slices.Index(targets, d.Focused())
	switch {
	case i < 0:
		i = 0
	case forward:
		i = (i + 1) % len(targets)
	default:
		i = (i - 1 + len(targets)) % len(targets)
	}
	d.Focus(targets[i])
}

// SwitchWorkspace shows workspace id on its monitor and focuses its most
// recently used target.
func (d *Desktop) SwitchWorkspace(id int) error {
	ws, err := d.ensureWorkspace(id)
	if err != nil {
		return err
	}
	ws.monitor.active = ws
	d.focusedMon = ws.monitor

	for _, t := range d.FocusHistory() {
		if t.Space() == ws.Space {
			d.Focus(t)
			return nil
		}
	}
	if targets := ws.Space.Targets(); len(targets) > 0 {
		d.Focus(targets[0])
		return nil
	}
	d.unfocus()
	return nil
}

// MoveToWorkspace sends a window to workspace id. Focus stays behind.
func (d *Desktop) MoveToWorkspace(ref string, id int) error {
	_, t, err := d.placed(ref)
	if err != nil {
		return err
	}
	ws, err := d.ensureWorkspace(id)
	if err != nil {
		return err
	}
	if t.Space() == ws.Space {
		return nil
	}

	old := t.Space()
	wasFocused := d.Focused() == t
	next := old.Algorithm().NextCandidate(t)
	t.AssignToSpace(ws.Space, nil)
	if wasFocused {
		d.unfocus()
		if next != nil && next != t {
			d.Focus(next)
		}
	}
	return nil
}

// SetLayout switches the tiled layout of the active workspace.
func (d *Desktop) SetLayout(name string) error {
	return d.SetWorkspaceLayout(d.ActiveWorkspace().ID, name)
}

// SetWorkspaceLayout switches the tiled layout of workspace id.
func (d *Desktop) SetWorkspaceLayout(id int, name string) error {
	ws, err := d.ensureWorkspace(id)
	if err != nil {
		return err
	}
	if err := ws.Space.Algorithm().UpdateTiledAlgo(name); err != nil {
		return err
	}
	ws.pinnedLayout = true
	d.log.Debug("layout changed", "workspace", id, "layout", name)
	return nil
}

// CycleLayout switches the active workspace to the next tiled layout.
func (d *Desktop) CycleLayout() error {
	names := d.reg.TiledNames()
	cur := d.ActiveWorkspace().Space.Algorithm().TiledName()
	i := slices.Index(names, cur)
	return d.SetLayout(names[(i+1)%len(names)])
}

// SetFloatingLayout switches the floating layout of the active workspace.
func (d *Desktop) SetFloatingLayout(name string) error {
	return d.ActiveWorkspace().Space.Algorithm().UpdateFloatingAlgo(name)
}

// ToggleFloating moves a window between tiled and floating placement.
func (d *Desktop) ToggleFloating(ref string) error {
	_, t, err := d.placed(ref)
	if err != nil {
		return err
	}
	t.Space().Algorithm().SetFloating(t, !t.Floating())
	d.updateGauges()
	return nil
}

// SetFullscreen puts a window in mode, or takes it out when already there.
func (d *Desktop) SetFullscreen(ref string, mode layout.FullscreenMode) error {
	_, t, err := d.placed(ref)
	if err != nil {
		return err
	}
	if t.Fullscreen() == mode {
		mode = layout.FullscreenNone
	}
	t.SetFullscreenMode(mode)
	t.Space().Recalculate()
	return nil
}

// TogglePseudo flips pseudotiling.
func (d *Desktop) TogglePseudo(ref string) error {
	_, t, err := d.placed(ref)
	if err != nil {
		return err
	}
	t.SetPseudo(!t.Pseudo())
	t.Space().Recalculate()
	return nil
}

// GroupWindow turns a window into a group of one, so other windows can be
// dragged into it.
func (d *Desktop) GroupWindow(ref string) error {
	_, t, err := d.placed(ref)
	if err != nil {
		return err
	}
	if t.IsGroup() {
		return nil
	}
	wasFocused := d.Focused() == t
	g := d.arena.NewGroup(t)
	if wasFocused {
		d.Focus(g)
	}
	return nil
}

// MoveInDirection moves a window through its strategy.
func (d *Desktop) MoveInDirection(ref string, dir geom.Direction, silent bool) error {
	_, t, err := d.placed(ref)
	if err != nil {
		return err
	}
	t.Space().Algorithm().MoveTargetInDirection(t, dir, silent)
	return nil
}

// Swap exchanges two windows.
func (d *Desktop) Swap(a, b string) error {
	_, ta, err := d.placed(a)
	if err != nil {
		return err
	}
	_, tb, err := d.placed(b)
	if err != nil {
		return err
	}
	ta.Swap(tb)
	return nil
}

// Resize grows a window by delta at corner.
func (d *Desktop) Resize(ref string, delta geom.Vector2D, corner geom.Corner) error {
	_, t, err := d.placed(ref)
	if err != nil {
		return err
	}
	t.Space().Algorithm().ResizeTarget(delta, t, corner)
	return nil
}

// LayoutMsg sends a command to the active workspace's tiled layout.
func (d *Desktop) LayoutMsg(msg string) error {
	return d.ActiveWorkspace().Space.LayoutMsg(msg)
}

// WorkspaceLayoutMsg sends a command to workspace id.
func (d *Desktop) WorkspaceLayoutMsg(id int, msg string) error {
	ws, ok := d.workspaces[id]
	if !ok {
		return tserrors.New(tserrors.ErrCodeNotFound, "no workspace %d", id)
	}
	return ws.Space.LayoutMsg(msg)
}

// DragBegin starts an interactive move or resize with the pointer at p.
func (d *Desktop) DragBegin(ref string, mode drag.Mode, p geom.Vector2D) error {
	w, t, err := d.placed(ref)
	if err != nil {
		return err
	}
	d.cursor = p
	if err := d.drag.Begin(t, mode, p); err != nil {
		return err
	}
	d.dragWin = w
	return nil
}

// DragMotion moves the pointer, feeding the drag session if one runs.
func (d *Desktop) DragMotion(p geom.Vector2D) error {
	d.cursor = p
	d.drag.Motion(p)
	return nil
}

// DragEnd drops the dragged window and focuses it.
func (d *Desktop) DragEnd() error {
	if d.drag.State() == drag.StateIdle {
		return tserrors.New(tserrors.ErrCodeInvalidCommand, "no drag in progress")
	}
	w := d.dragWin
	d.dragWin = nil
	d.drag.End()

	if w != nil {
		if t := d.placement(w); t != nil {
			d.Focus(t)
		}
	}
	d.updateGauges()
	return nil
}

// FocusInDirection focuses the nearest visible target of the focused
// workspace whose center lies in dir. Nothing happens when there is none.
func (d *Desktop) FocusInDirection(dir geom.Direction) error {
	cur := d.Focused()
	if cur == nil {
		return tserrors.New(tserrors.ErrCodeNoTarget, "nothing is focused")
	}
	from := cur.Box().Middle()

	var best *layout.Target
	bestDist := math.Inf(1)
	for _, t := range cur.Space().Targets() {
		if t == cur || t.Hidden() || !t.Alive() {
			continue
		}
		to := t.Box().Middle()
		delta := to.Sub(from)
		var along float64
		switch dir {
		case geom.DirectionLeft:
			along = -delta.X
		case geom.DirectionRight:
			along = delta.X
		case geom.DirectionUp:
			along = -delta.Y
		case geom.DirectionDown:
			along = delta.Y
		}
		if along <= 0 {
			continue
		}
		if dist := from.Distance(to); dist < bestDist {
			best, bestDist = t, dist
		}
	}
	if best != nil {
		d.Focus(best)
	}
	return nil
}

// WindowAt returns the topmost visible window under p: floating windows
// first, then tiled ones. A group answers with its visible member.
func (d *Desktop) WindowAt(p geom.Vector2D) *Window {
	s := d.SpaceAt(p)
	if s == nil {
		return nil
	}
	algo := s.Algorithm()
	floating := algo.FloatingTargets()
	for _, list := range [][]*layout.Target{floating, algo.TiledTargets()} {
		for i := len(list) - 1; i >= 0; i-- {
			t := list[i]
			if t.Hidden() || !t.Alive() || !t.Box().Contains(p) {
				continue
			}
			if w, ok := t.Window().(*Window); ok {
				return w
			}
		}
	}
	return nil
}
