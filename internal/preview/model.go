// Package preview renders a desktop in the terminal and drives it with keys
// and the mouse, scaled from the active monitor to the terminal grid.
package preview

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tessera/internal/app"
	"github.com/Gaurav-Gosain/tessera/internal/config"
	"github.com/Gaurav-Gosain/tessera/internal/drag"
	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/logging"
	"github.com/Gaurav-Gosain/tessera/internal/scenario"
)

// DefaultStepInterval paces scripted playback.
const DefaultStepInterval = 500 * time.Millisecond

// statusHeight is the row reserved for the status bar.
const statusHeight = 1

// ConfigMsg delivers a reloaded config.
type ConfigMsg struct {
	Config *config.Config
	Err    error
}

// stepMsg advances scripted playback by one command.
type stepMsg struct{}

// Options configure a preview Model.
type Options struct {
	// Keys defaults to the registry built from the desktop config.
	Keys *config.KeybindRegistry
	// Script is played one command per StepInterval.
	Script       []scenario.Command
	StepInterval time.Duration
	Logger       *log.Logger
}

// Model is the bubbletea model of the preview.
type Model struct {
	desk       *app.Desktop
	keys       *config.KeybindRegistry
	dispatcher *ActionDispatcher
	log        *log.Logger
	ctx        context.Context

	player       *scenario.Player
	stepInterval time.Duration

	width, height int
	showHelp      bool
	dragging      bool

	status    string
	statusErr bool

	opened int

	// now feeds real elapsed time into the desktop clock, which throttles
	// interactive resizes to the monitor refresh rate.
	now      func() time.Time
	lastTick time.Time
}

// New creates a preview of desk.
func New(desk *app.Desktop, opts Options) *Model {
	m := &Model{
		desk:         desk,
		keys:         opts.Keys,
		dispatcher:   NewActionDispatcher(),
		log:          opts.Logger,
		stepInterval: opts.StepInterval,
		width:        80,
		height:       24,
		now:          time.Now,
	}
	if m.keys == nil {
		m.keys = config.NewKeybindRegistry(desk.Config())
	}
	if m.log == nil {
		m.log = logging.Discard()
	}
	m.log = m.log.WithPrefix("preview")
	m.ctx = logging.WithLogger(context.Background(), m.log)
	if m.stepInterval <= 0 {
		m.stepInterval = DefaultStepInterval
	}
	if len(opts.Script) > 0 {
		m.player = scenario.NewPlayer(opts.Script)
	}
	return m
}

// Init starts scripted playback, if any.
func (m *Model) Init() tea.Cmd {
	if m.player == nil {
		return nil
	}
	return m.stepCmd()
}

func (m *Model) stepCmd() tea.Cmd {
	return tea.Tick(m.stepInterval, func(time.Time) tea.Msg {
		return stepMsg{}
	})
}

// Update handles all incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)

	case tea.MouseClickMsg:
		m.handleClick(msg.Mouse())
		return m, nil

	case tea.MouseMotionMsg:
		m.handleMotion(msg.Mouse())
		return m, nil

	case tea.MouseReleaseMsg:
		m.handleRelease(msg.Mouse())
		return m, nil

	case stepMsg:
		return m, m.step()

	case ConfigMsg:
		m.applyConfig(msg)
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	// The keystroke keeps modifiers ("shift+n"); the text form covers
	// shifted symbols like "?".
	action := m.keys.GetAction(msg.Key().Keystroke())
	if action == "" {
		action = m.keys.GetAction(msg.String())
	}
	if action == "" {
		return nil
	}
	// Any key closes help; only toggle_help and quit still run.
	if m.showHelp && action != "toggle_help" && action != "quit" {
		m.showHelp = false
		return nil
	}

	cmd, err := m.dispatcher.Dispatch(action, m)
	m.report(action, err)
	return cmd
}

func (m *Model) handleClick(mouse tea.Mouse) {
	p, ok := m.toLayout(mouse.X, mouse.Y)
	if !ok {
		return
	}
	win := m.desk.WindowAt(p)
	if win == nil {
		m.desk.SetCursor(p)
		return
	}

	mode := drag.ModeMove
	switch mouse.Button {
	case tea.MouseLeft:
	case tea.MouseRight:
		mode = drag.ModeResize
	default:
		return
	}

	if err := m.desk.FocusWindow(win.Name()); err != nil {
		m.report("focus", err)
		return
	}
	if err := m.desk.DragBegin(win.Name(), mode, p); err != nil {
		m.report("drag", err)
		return
	}
	m.dragging = true
}

func (m *Model) handleMotion(mouse tea.Mouse) {
	p, ok := m.toLayout(mouse.X, mouse.Y)
	if !ok {
		return
	}
	m.tick()
	if !m.dragging {
		m.desk.SetCursor(p)
		return
	}
	if err := m.desk.DragMotion(p); err != nil {
		m.report("drag", err)
	}
}

func (m *Model) handleRelease(mouse tea.Mouse) {
	if !m.dragging {
		return
	}
	if p, ok := m.toLayout(mouse.X, mouse.Y); ok {
		if err := m.desk.DragMotion(p); err != nil {
			m.log.Debug("final drag motion failed", "err", err)
		}
	}
	m.dragging = false
	err := m.desk.DragEnd()
	m.report("drop", err)
	if err == nil {
		m.status = m.desk.Drag().LastOutcome()
	}
}

func (m *Model) step() tea.Cmd {
	if m.player == nil || m.player.IsFinished() {
		return nil
	}
	cmd := m.player.CommandStr()
	if err := m.player.Step(m.ctx, m.desk); err != nil {
		m.report("script", err)
		m.player = nil
		return nil
	}
	m.status = fmt.Sprintf("[%d/%d] %s", m.player.CurrentIndex(), m.player.TotalCommands(), cmd)
	m.statusErr = false
	if m.player.IsFinished() {
		return nil
	}
	return m.stepCmd()
}

func (m *Model) applyConfig(msg ConfigMsg) {
	if msg.Err != nil {
		m.report("config", msg.Err)
		return
	}
	if err := m.desk.ApplyConfig(msg.Config); err != nil {
		m.report("config", err)
		return
	}
	m.keys = config.NewKeybindRegistry(msg.Config)
	m.status = "config reloaded"
	m.statusErr = false
}

// tick advances the desktop clock by the wall time since the last tick.
func (m *Model) tick() {
	now := m.now()
	if !m.lastTick.IsZero() && now.After(m.lastTick) {
		m.desk.Advance(now.Sub(m.lastTick))
	}
	m.lastTick = now
}

// report records the outcome of an action in the status bar.
func (m *Model) report(action string, err error) {
	if err == nil {
		m.status = action
		m.statusErr = false
		return
	}
	m.log.Debug("action failed", "action", action, "err", err)
	m.status = tserrors.UserMessage(err)
	m.statusErr = true
}

// nextName returns the first free name of the form w<n>.
func (m *Model) nextName() string {
	for {
		m.opened++
		name := fmt.Sprintf("w%d", m.opened)
		if _, err := m.desk.Window(name); err != nil {
			return name
		}
	}
}

// Status returns the status bar message.
func (m *Model) Status() string { return m.status }

// View renders the preview.
func (m *Model) View() tea.View {
	var view tea.View
	view.SetContent(m.render())
	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	return view
}

// scale returns the layout units per terminal cell on each axis.
func (m *Model) scale() (geom.Box, float64, float64) {
	mon := m.desk.ActiveWorkspace().Monitor().Box
	rows := max(m.height-statusHeight, 1)
	cols := max(m.width, 1)
	return mon, mon.W / float64(cols), mon.H / float64(rows)
}

// toLayout maps a terminal cell to the layout point at its center.
func (m *Model) toLayout(x, y int) (geom.Vector2D, bool) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height-statusHeight {
		return geom.Vector2D{}, false
	}
	mon, sx, sy := m.scale()
	return geom.Vec(mon.X+(float64(x)+0.5)*sx, mon.Y+(float64(y)+0.5)*sy), true
}
