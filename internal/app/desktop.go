// Package app provides the headless desktop: monitors, workspaces, windows and
// focus around the layout engine. It is the layout.Env every space runs in.
package app

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tessera/internal/config"
	"github.com/Gaurav-Gosain/tessera/internal/drag"
	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
	"github.com/Gaurav-Gosain/tessera/internal/layout/strategies"
	"github.com/Gaurav-Gosain/tessera/internal/logging"
	"github.com/Gaurav-Gosain/tessera/internal/metrics"
	"github.com/Gaurav-Gosain/tessera/internal/rules"
	"github.com/Gaurav-Gosain/tessera/internal/store"
)

// storeTimeout bounds a single float store call.
const storeTimeout = 2 * time.Second

// Monitor is a headless output.
type Monitor struct {
	Name        string
	Box         geom.Box
	Reserved    geom.Extents
	RefreshRate float64

	active *Workspace
}

// Active returns the workspace shown on the monitor.
func (m *Monitor) Active() *Workspace { return m.active }

// WorkArea is the monitor box minus reserved space and outer gaps.
func (m *Monitor) WorkArea(gapsOut float64) geom.Box {
	return m.Box.SubExtents(m.Reserved).Expand(-gapsOut)
}

func reservedExtents(r [4]float64) geom.Extents {
	// top, right, bottom, left
	return geom.Extents{
		TopLeft:     geom.Vec(r[3], r[0]),
		BottomRight: geom.Vec(r[1], r[2]),
	}
}

// Workspace binds a layout space to a monitor.
type Workspace struct {
	ID      int
	Space   *layout.Space
	monitor *Monitor

	// pinnedLayout is set once the tiled layout was chosen at runtime, so
	// config reloads leave it alone.
	pinnedLayout bool
}

// Monitor returns the monitor the workspace lives on.
func (w *Workspace) Monitor() *Monitor { return w.monitor }

// Visible reports whether the workspace is shown on its monitor.
func (w *Workspace) Visible() bool { return w.monitor != nil && w.monitor.active == w }

// Options configure a Desktop. Zero fields take defaults.
type Options struct {
	Config   *config.Config
	Logger   *log.Logger
	Registry *layout.Registry
	Store    store.Store
}

// Desktop is a single threaded compositor model. Every method must be called
// from the goroutine that owns it.
type Desktop struct {
	cfg   *config.Config
	log   *log.Logger
	reg   *layout.Registry
	arena *layout.Arena
	store store.Store
	rules *rules.Set
	drag  *drag.Controller

	monitors   []*Monitor
	workspaces map[int]*Workspace
	focusedMon *Monitor

	windows map[string]*Window // by id
	byName  map[string]*Window
	// dragWin is the window of the running drag session.
	dragWin *Window

	focused layout.Handle
	history []layout.Handle

	cursor geom.Vector2D
	clock  time.Time
}

// New builds a desktop with one workspace per configured monitor.
func New(opts Options) (*Desktop, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if len(cfg.Monitors) == 0 {
		return nil, tserrors.New(tserrors.ErrCodeConfig, "no monitors configured")
	}
	ruleSet, err := rules.Compile(cfg.WindowRules)
	if err != nil {
		return nil, err
	}

	d := &Desktop{
		cfg:        cfg,
		log:        opts.Logger,
		reg:        opts.Registry,
		arena:      layout.NewArena(),
		store:      opts.Store,
		rules:      ruleSet,
		workspaces: make(map[int]*Workspace),
		windows:    make(map[string]*Window),
		byName:     make(map[string]*Window),
		clock:      time.Unix(0, 0),
	}
	if d.log == nil {
		d.log = logging.Discard()
	}
	if d.reg == nil {
		d.reg = strategies.Default()
	}
	if d.store == nil {
		d.store = store.NewMemory()
	}
	d.drag = drag.New(d)

	for _, mc := range cfg.Monitors {
		if err := d.AddMonitor(mc); err != nil {
			return nil, err
		}
	}
	d.focusedMon = d.monitors[0]
	d.cursor = d.focusedMon.Box.Middle()
	return d, nil
}

// Config returns the active configuration.
func (d *Desktop) Config() *config.Config { return d.cfg }
func (d *Desktop) Logger() *log.Logger     { return d.log }
func (d *Desktop) Arena() *layout.Arena    { return d.arena }
func (d *Desktop) Cursor() geom.Vector2D   { return d.cursor }
func (d *Desktop) Now() time.Time          { return d.clock }
func (d *Desktop) Registry() *layout.Registry {
	return d.reg
}

// DragTarget returns the target of the active drag session.
func (d *Desktop) DragTarget() *layout.Target { return d.drag.Target() }

// Drag returns the drag controller.
func (d *Desktop) Drag() *drag.Controller { return d.drag }

// Focused returns the focused target if it is still alive.
func (d *Desktop) Focused() *layout.Target {
	t, ok := d.arena.Get(d.focused)
	if !ok || !t.Alive() || t.Space() == nil {
		return nil
	}
	return t
}

// FocusHistory returns live targets, most recently focused first.
func (d *Desktop) FocusHistory() []*layout.Target {
	live := d.history[:0]
	var out []*layout.Target
	for _, h := range d.history {
		t, ok := d.arena.Get(h)
		if !ok {
			continue
		}
		live = append(live, h)
		if t.Alive() && t.Space() != nil {
			out = append(out, t)
		}
	}
	d.history = live
	return out
}

// Focus focuses t, shows its workspace and tells its space.
func (d *Desktop) Focus(t *layout.Target) {
	if t == nil {
		return
	}
	ws := d.workspaceOf(t.Space())
	if ws == nil {
		d.log.Debug("ignoring focus of a target without a workspace", "target", t.ID())
		return
	}

	h := t.Handle()
	d.focused = h
	d.history = slices.DeleteFunc(d.history, func(x layout.Handle) bool { return x == h })
	d.history = slices.Insert(d.history, 0, h)

	ws.monitor.active = ws
	d.focusedMon = ws.monitor
	ws.Space.Algorithm().FocusChanged(t)
}

func (d *Desktop) unfocus() {
	d.focused = layout.Handle{}
}

// SpaceAt returns the visible space of the monitor under p.
func (d *Desktop) SpaceAt(p geom.Vector2D) *layout.Space {
	if m := d.monitorAt(p); m != nil && m.active != nil {
		return m.active.Space
	}
	return nil
}

// MonitorBox returns the box of the monitor holding s.
func (d *Desktop) MonitorBox(s *layout.Space) geom.Box {
	if ws := d.workspaceOf(s); ws != nil {
		return ws.monitor.Box
	}
	return geom.Box{}
}

// RefreshRate returns the refresh rate of the monitor holding s.
func (d *Desktop) RefreshRate(s *layout.Space) float64 {
	if ws := d.workspaceOf(s); ws != nil {
		return ws.monitor.RefreshRate
	}
	return 0
}

// RulesFor matches the window rules against t's window.
func (d *Desktop) RulesFor(t *layout.Target) rules.Match {
	w := t.Window()
	if w == nil {
		return rules.Match{}
	}
	title := ""
	if win, ok := w.(*Window); ok {
		title = win.title
	}
	return d.rules.Match(w.Class(), title)
}

func (d *Desktop) monitorAt(p geom.Vector2D) *Monitor {
	for _, m := range d.monitors {
		if m.Box.Contains(p) {
			return m
		}
	}
	return nil
}

func (d *Desktop) monitorByName(name string) *Monitor {
	for _, m := range d.monitors {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func (d *Desktop) workspaceOf(s *layout.Space) *Workspace {
	if s == nil {
		return nil
	}
	if ws, ok := d.workspaces[s.ID()]; ok && ws.Space == s {
		return ws
	}
	return nil
}

// Monitors returns the monitors in configuration order.
func (d *Desktop) Monitors() []*Monitor { return d.monitors }

// Workspaces returns every workspace ordered by id.
func (d *Desktop) Workspaces() []*Workspace {
	out := make([]*Workspace, 0, len(d.workspaces))
	for _, ws := range d.workspaces {
		out = append(out, ws)
	}
	slices.SortFunc(out, func(a, b *Workspace) int { return a.ID - b.ID })
	return out
}

// ActiveWorkspace returns the workspace shown on the focused monitor.
func (d *Desktop) ActiveWorkspace() *Workspace {
	return d.focusedMon.active
}

// Workspace returns workspace id, if it exists.
func (d *Desktop) Workspace(id int) (*Workspace, bool) {
	ws, ok := d.workspaces[id]
	return ws, ok
}

// ensureWorkspace returns workspace id, creating it on the monitor its rule
// names or on the focused monitor.
func (d *Desktop) ensureWorkspace(id int) (*Workspace, error) {
	if id < 1 {
		return nil, tserrors.New(tserrors.ErrCodeInvalidArgument, "workspace ids start at 1, got %d", id)
	}
	if ws, ok := d.workspaces[id]; ok {
		return ws, nil
	}

	mon := d.focusedMon
	tiled := d.cfg.General.Layout
	if rule, ok := d.cfg.WorkspaceRuleFor(id); ok {
		if m := d.monitorByName(rule.Monitor); m != nil {
			mon = m
		}
		if rule.Layout != "" {
			tiled = rule.Layout
		}
	}

	ws := &Workspace{ID: id, monitor: mon}
	space, err := layout.NewSpace(id, d, d.reg, tiled, d.cfg.General.FloatingLayout)
	if err != nil {
		return nil, err
	}
	ws.Space = space
	d.workspaces[id] = ws
	if mon.active == nil {
		mon.active = ws
	}
	space.SetWorkArea(mon.WorkArea(d.cfg.General.GapsOut))

	d.log.Debug("workspace created", "id", id, "monitor", mon.Name, "layout", tiled)
	return ws, nil
}

func (d *Desktop) freeWorkspaceID() int {
	id := 1
	for {
		if _, ok := d.workspaces[id]; !ok {
			return id
		}
		id++
	}
}

// AddMonitor adds a monitor, or reconfigures the one with the same name. A
// new monitor gets the lowest unused workspace.
func (d *Desktop) AddMonitor(mc config.MonitorConfig) error {
	if mc.Width <= 0 || mc.Height <= 0 {
		return tserrors.New(tserrors.ErrCodeInvalidArgument, "monitor %q needs a positive size", mc.Name)
	}
	box := geom.Box{X: mc.X, Y: mc.Y, W: mc.Width, H: mc.Height}

	if m := d.monitorByName(mc.Name); m != nil {
		m.Box = box
		m.Reserved = reservedExtents(mc.Reserved)
		m.RefreshRate = mc.RefreshRate
		d.refreshWorkAreas()
		return nil
	}

	m := &Monitor{
		Name:        mc.Name,
		Box:         box,
		Reserved:    reservedExtents(mc.Reserved),
		RefreshRate: mc.RefreshRate,
	}
	d.monitors = append(d.monitors, m)

	prev := d.focusedMon
	d.focusedMon = m
	_, err := d.ensureWorkspace(d.freeWorkspaceID())
	if prev != nil {
		d.focusedMon = prev
	}
	d.log.Info("monitor added", "name", m.Name, "box", m.Box, "hz", m.RefreshRate)
	return err
}

func (d *Desktop) refreshWorkAreas() {
	for _, ws := range d.Workspaces() {
		ws.Space.SetWorkArea(ws.monitor.WorkArea(d.cfg.General.GapsOut))
	}
}

// Advance moves the virtual clock forward.
func (d *Desktop) Advance(dt time.Duration) {
	d.clock = d.clock.Add(dt)
}

// SetCursor moves the pointer without dragging.
func (d *Desktop) SetCursor(p geom.Vector2D) {
	d.cursor = p
}

func (d *Desktop) updateGauges() {
	var tiled, floating int
	for _, ws := range d.workspaces {
		tiled += len(ws.Space.Algorithm().TiledTargets())
		floating += len(ws.Space.Algorithm().FloatingTargets())
	}
	metrics.Targets.WithLabelValues("tiled").Set(float64(tiled))
	metrics.Targets.WithLabelValues("floating").Set(float64(floating))
}

func (d *Desktop) storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

// Close releases the float store.
func (d *Desktop) Close() error {
	return d.store.Close()
}

// ApplyConfig swaps in a reloaded configuration. Rules that fail to compile
// leave the whole config untouched. Workspaces whose layout was chosen at
// runtime keep it; the rest follow the new defaults and workspace rules.
func (d *Desktop) ApplyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ruleSet, err := rules.Compile(cfg.WindowRules)
	if err != nil {
		return err
	}
	d.cfg = cfg
	d.rules = ruleSet

	for _, mc := range cfg.Monitors {
		if err := d.AddMonitor(mc); err != nil {
			return err
		}
	}

	for _, ws := range d.Workspaces() {
		algo := ws.Space.Algorithm()
		if !ws.pinnedLayout {
			tiled := cfg.General.Layout
			if rule, ok := cfg.WorkspaceRuleFor(ws.ID); ok && rule.Layout != "" {
				tiled = rule.Layout
			}
			if tiled != algo.TiledName() {
				if err := algo.UpdateTiledAlgo(tiled); err != nil {
					return err
				}
			}
		}
		if cfg.General.FloatingLayout != algo.FloatingName() {
			if err := algo.UpdateFloatingAlgo(cfg.General.FloatingLayout); err != nil {
				return err
			}
		}
	}

	d.refreshWorkAreas()
	for _, ws := range d.Workspaces() {
		ws.Space.Recalculate()
	}
	d.log.Info("config applied", "rules", ruleSet.Len(), "monitors", len(d.monitors))
	return nil
}
