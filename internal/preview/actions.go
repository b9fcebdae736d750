package preview

import (
	tea "charm.land/bubbletea/v2"

	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
	"github.com/Gaurav-Gosain/tessera/internal/scenario"
)

// ActionHandler is a function that handles a specific action
type ActionHandler func(m *Model) (tea.Cmd, error)

// ActionDispatcher maps action names to handler functions
type ActionDispatcher struct {
	handlers map[string]ActionHandler
}

// NewActionDispatcher creates a new action dispatcher with all handlers registered
func NewActionDispatcher() *ActionDispatcher {
	d := &ActionDispatcher{
		handlers: make(map[string]ActionHandler),
	}
	d.registerHandlers()
	return d
}

func (d *ActionDispatcher) registerHandlers() {
	// Windows
	d.Register("open_window", makeOpenHandler(false))
	d.Register("open_floating", makeOpenHandler(true))
	d.Register("close_window", withFocused(func(m *Model, name string) error {
		return m.desk.CloseWindow(name)
	}))
	d.Register("focus_next", makeCycleHandler(true))
	d.Register("focus_prev", makeCycleHandler(false))
	d.Register("focus_left", makeFocusDirHandler(geom.DirectionLeft))
	d.Register("focus_right", makeFocusDirHandler(geom.DirectionRight))
	d.Register("focus_up", makeFocusDirHandler(geom.DirectionUp))
	d.Register("focus_down", makeFocusDirHandler(geom.DirectionDown))
	d.Register("move_left", makeMoveDirHandler(geom.DirectionLeft))
	d.Register("move_right", makeMoveDirHandler(geom.DirectionRight))
	d.Register("move_up", makeMoveDirHandler(geom.DirectionUp))
	d.Register("move_down", makeMoveDirHandler(geom.DirectionDown))

	// Layout
	d.Register("toggle_floating", withFocused(func(m *Model, name string) error {
		return m.desk.ToggleFloating(name)
	}))
	d.Register("toggle_fullscreen", withFocused(func(m *Model, name string) error {
		return m.desk.SetFullscreen(name, layout.FullscreenFull)
	}))
	d.Register("toggle_pseudo", withFocused(func(m *Model, name string) error {
		return m.desk.TogglePseudo(name)
	}))
	d.Register("cycle_layout", func(m *Model) (tea.Cmd, error) {
		return nil, m.desk.CycleLayout()
	})
	d.Register("togglesplit", makeLayoutMsgHandler("togglesplit"))
	d.Register("swapsplit", makeLayoutMsgHandler("swapsplit"))
	d.Register("cycle_next", makeLayoutMsgHandler("cyclenext"))
	d.Register("cycle_prev", makeLayoutMsgHandler("cycleprev"))
	d.Register("promote", makeLayoutMsgHandler("promote"))

	// Workspaces
	d.Register("workspace_next", makeSwitchWorkspaceHandler(1))
	d.Register("workspace_prev", makeSwitchWorkspaceHandler(-1))
	d.Register("move_to_next_ws", withFocused(func(m *Model, name string) error {
		return m.desk.MoveToWorkspace(name, m.desk.ActiveWorkspace().ID+1)
	}))

	d.Register("toggle_help", func(m *Model) (tea.Cmd, error) {
		m.showHelp = !m.showHelp
		return nil, nil
	})
	d.Register("quit", func(*Model) (tea.Cmd, error) {
		return tea.Quit, nil
	})
}

// Register adds an action handler
func (d *ActionDispatcher) Register(action string, handler ActionHandler) {
	d.handlers[action] = handler
}

// Dispatch executes the handler for an action. Unknown actions are ignored.
func (d *ActionDispatcher) Dispatch(action string, m *Model) (tea.Cmd, error) {
	handler, ok := d.handlers[action]
	if !ok {
		return nil, nil
	}
	return handler(m)
}

// HasAction checks if an action is registered
func (d *ActionDispatcher) HasAction(action string) bool {
	_, ok := d.handlers[action]
	return ok
}

// withFocused runs fn on the focused window.
func withFocused(fn func(m *Model, name string) error) ActionHandler {
	return func(m *Model) (tea.Cmd, error) {
		name := m.desk.FocusedWindow()
		if name == "" {
			return nil, tserrors.New(tserrors.ErrCodeNoTarget, "no focused window")
		}
		return nil, fn(m, name)
	}
}

func makeOpenHandler(floating bool) ActionHandler {
	return func(m *Model) (tea.Cmd, error) {
		_, err := m.desk.Open(scenario.WindowSpec{
			Name:     m.nextName(),
			Floating: floating,
		})
		return nil, err
	}
}

func makeCycleHandler(forward bool) ActionHandler {
	return func(m *Model) (tea.Cmd, error) {
		m.desk.CycleFocus(forward)
		return nil, nil
	}
}

func makeFocusDirHandler(dir geom.Direction) ActionHandler {
	return func(m *Model) (tea.Cmd, error) {
		return nil, m.desk.FocusInDirection(dir)
	}
}

func makeMoveDirHandler(dir geom.Direction) ActionHandler {
	return withFocused(func(m *Model, name string) error {
		return m.desk.MoveInDirection(name, dir, false)
	})
}

func makeLayoutMsgHandler(msg string) ActionHandler {
	return func(m *Model) (tea.Cmd, error) {
		return nil, m.desk.LayoutMsg(msg)
	}
}

func makeSwitchWorkspaceHandler(step int) ActionHandler {
	return func(m *Model) (tea.Cmd, error) {
		id := max(m.desk.ActiveWorkspace().ID+step, 1)
		return nil, m.desk.SwitchWorkspace(id)
	}
}
