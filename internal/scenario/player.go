package scenario

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Gaurav-Gosain/tessera/internal/config"
	"github.com/Gaurav-Gosain/tessera/internal/drag"
	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
	"github.com/Gaurav-Gosain/tessera/internal/logging"
)

// WindowSpec describes a window opened by a scenario.
type WindowSpec struct {
	Name     string
	Class    string
	Title    string
	Floating bool
	// Size is the client requested size; zero means no request.
	Size geom.Vector2D
	// At is the client requested position.
	At       *geom.Vector2D
	Min, Max geom.Vector2D
}

// WindowState is what assertions can observe about a window.
type WindowState struct {
	Box    geom.Box
	Hidden bool
}

// Executor runs scenario commands against a desktop. Windows are addressed
// by the name they were opened with.
type Executor interface {
	AddMonitor(m config.MonitorConfig) error
	SwitchWorkspace(id int) error
	SetLayout(name string) error
	SetFloatingLayout(name string) error

	OpenWindow(spec WindowSpec) error
	CloseWindow(name string) error
	FocusWindow(name string) error
	SetCursor(p geom.Vector2D)
	GroupWindow(name string) error

	ToggleFloating(name string) error
	// SetFullscreen toggles mode; a target already in mode leaves fullscreen.
	SetFullscreen(name string, mode layout.FullscreenMode) error
	TogglePseudo(name string) error
	MoveToWorkspace(name string, workspace int) error
	MoveInDirection(name string, dir geom.Direction, silent bool) error
	Swap(a, b string) error
	Resize(name string, delta geom.Vector2D, corner geom.Corner) error
	LayoutMsg(msg string) error

	DragBegin(name string, mode drag.Mode, p geom.Vector2D) error
	DragMotion(p geom.Vector2D) error
	DragEnd() error

	// Advance moves the virtual clock forward.
	Advance(d time.Duration)
	WindowState(name string) (WindowState, error)
	// FocusedWindow returns the focused window name, or "".
	FocusedWindow() string
	// Describe renders the current layout for Print.
	Describe() string
}

// Player manages scenario playback
type Player struct {
	commands []Command
	index    int  // Current command index
	finished bool // Whether all commands have been played

	// Output receives Print results. Nil discards them.
	Output io.Writer
}

// NewPlayer creates a new player from a list of commands
func NewPlayer(commands []Command) *Player {
	return &Player{
		commands: commands,
		finished: len(commands) == 0,
	}
}

// NextCommand returns the next command without advancing the player
func (p *Player) NextCommand() *Command {
	if p.index >= len(p.commands) {
		return nil
	}
	return &p.commands[p.index]
}

// Advance moves to the next command
func (p *Player) Advance() {
	if p.index < len(p.commands) {
		p.index++
	}
	if p.index >= len(p.commands) {
		p.finished = true
	}
}

// IsFinished returns true if all commands have been executed
func (p *Player) IsFinished() bool {
	return p.finished
}

// Reset resets the player to the beginning
func (p *Player) Reset() {
	p.index = 0
	p.finished = len(p.commands) == 0
}

// CurrentIndex returns the current command index
func (p *Player) CurrentIndex() int {
	return p.index
}

// TotalCommands returns the total number of commands
func (p *Player) TotalCommands() int {
	return len(p.commands)
}

// Progress returns a value between 0 and 100 representing playback progress
func (p *Player) Progress() int {
	if len(p.commands) == 0 {
		return 100
	}
	return (p.index * 100) / len(p.commands)
}

// CommandStr returns the current command for display
func (p *Player) CommandStr() string {
	if p.index >= len(p.commands) {
		return "Scenario finished"
	}
	return p.commands[p.index].String()
}

// Step executes the next command and advances. Errors carry the source line.
func (p *Player) Step(ctx context.Context, exec Executor) error {
	cmd := p.NextCommand()
	if cmd == nil {
		return nil
	}
	p.Advance()

	logging.FromContext(ctx).Debug("scenario step", "line", cmd.Line, "command", cmd.String())
	if err := p.execute(cmd, exec); err != nil {
		code := tserrors.GetCode(err)
		if code == "" {
			code = tserrors.ErrCodeInternal
		}
		return tserrors.Wrap(code, err, "line %d: %s", cmd.Line, cmd)
	}
	return nil
}

// Run executes every remaining command, stopping at the first error or when
// ctx is done.
func (p *Player) Run(ctx context.Context, exec Executor) error {
	for !p.IsFinished() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Step(ctx, exec); err != nil {
			return err
		}
	}
	return nil
}

// Run plays commands against exec from the start.
func Run(ctx context.Context, commands []Command, exec Executor) error {
	return NewPlayer(commands).Run(ctx, exec)
}

func (p *Player) execute(cmd *Command, exec Executor) error {
	switch cmd.Type {
	case CommandType_Monitor:
		v, err := cmd.Floats(1, 4)
		if err != nil {
			return err
		}
		m := config.MonitorConfig{Name: cmd.Arg(0), X: v[0], Y: v[1], Width: v[2], Height: v[3], RefreshRate: 60}
		if len(cmd.Args) > 5 {
			if m.RefreshRate, err = cmd.Float(5); err != nil {
				return err
			}
		}
		return exec.AddMonitor(m)

	case CommandType_Workspace:
		id, err := cmd.Int(0)
		if err != nil {
			return err
		}
		return exec.SwitchWorkspace(id)

	case CommandType_Layout:
		return exec.SetLayout(cmd.Arg(0))

	case CommandType_FloatingLayout:
		return exec.SetFloatingLayout(cmd.Arg(0))

	case CommandType_Open, CommandType_OpenFloating:
		spec, err := windowSpec(cmd)
		if err != nil {
			return err
		}
		return exec.OpenWindow(spec)

	case CommandType_Close:
		return exec.CloseWindow(cmd.Arg(0))

	case CommandType_Focus:
		return exec.FocusWindow(cmd.Arg(0))

	case CommandType_Cursor:
		v, err := cmd.Floats(0, 2)
		if err != nil {
			return err
		}
		exec.SetCursor(geom.Vec(v[0], v[1]))
		return nil

	case CommandType_Group:
		return exec.GroupWindow(cmd.Arg(0))

	case CommandType_Float:
		return exec.ToggleFloating(cmd.Arg(0))

	case CommandType_Fullscreen:
		mode, err := parseFullscreen(cmd.Arg(1))
		if err != nil {
			return err
		}
		return exec.SetFullscreen(cmd.Arg(0), mode)

	case CommandType_Pseudo:
		return exec.TogglePseudo(cmd.Arg(0))

	case CommandType_MoveToWS:
		ws, err := cmd.Int(1)
		if err != nil {
			return err
		}
		return exec.MoveToWorkspace(cmd.Arg(0), ws)

	case CommandType_Move:
		dir, err := geom.ParseDirection(cmd.Arg(1))
		if err != nil {
			return tserrors.Wrap(tserrors.ErrCodeInvalidArgument, err, "Move")
		}
		silent := false
		switch cmd.Arg(2) {
		case "":
		case "silent":
			silent = true
		default:
			return tserrors.New(tserrors.ErrCodeInvalidArgument, "Move: unknown flag %q", cmd.Arg(2))
		}
		return exec.MoveInDirection(cmd.Arg(0), dir, silent)

	case CommandType_Swap:
		return exec.Swap(cmd.Arg(0), cmd.Arg(1))

	case CommandType_Resize:
		v, err := cmd.Floats(1, 2)
		if err != nil {
			return err
		}
		corner := geom.CornerBottomRight
		if len(cmd.Args) > 3 {
			if corner, err = geom.ParseCorner(cmd.Arg(3)); err != nil {
				return tserrors.Wrap(tserrors.ErrCodeInvalidArgument, err, "Resize")
			}
		}
		return exec.Resize(cmd.Arg(0), geom.Vec(v[0], v[1]), corner)

	case CommandType_LayoutMsg:
		return exec.LayoutMsg(cmd.Arg(0))

	case CommandType_DragMove, CommandType_DragResize:
		v, err := cmd.Floats(1, 2)
		if err != nil {
			return err
		}
		mode := drag.ModeMove
		if cmd.Type == CommandType_DragResize {
			mode = drag.ModeResize
			if len(cmd.Args) > 3 {
				if mode, err = drag.ParseMode("resize_" + cmd.Arg(3) + "_ratio"); err != nil {
					return err
				}
			}
		}
		return exec.DragBegin(cmd.Arg(0), mode, geom.Vec(v[0], v[1]))

	case CommandType_DragTo:
		v, err := cmd.Floats(0, 2)
		if err != nil {
			return err
		}
		return exec.DragMotion(geom.Vec(v[0], v[1]))

	case CommandType_DragEnd:
		return exec.DragEnd()

	case CommandType_Sleep:
		d, err := cmd.Duration(0)
		if err != nil {
			return err
		}
		exec.Advance(d)
		return nil

	case CommandType_Print:
		if p.Output != nil {
			fmt.Fprintln(p.Output, exec.Describe())
		}
		return nil

	case CommandType_Expect:
		v, err := cmd.Floats(1, 4)
		if err != nil {
			return err
		}
		st, err := exec.WindowState(cmd.Arg(0))
		if err != nil {
			return err
		}
		want := geom.Box{X: v[0], Y: v[1], W: v[2], H: v[3]}
		if !st.Box.ApproxEqual(want) {
			return tserrors.New(tserrors.ErrCodeAssertion, "%s is at %s, want %s", cmd.Arg(0), st.Box, want)
		}
		return nil

	case CommandType_ExpectHidden:
		want := true
		switch strings.ToLower(cmd.Arg(1)) {
		case "", "true", "yes":
		case "false", "no":
			want = false
		default:
			return tserrors.New(tserrors.ErrCodeInvalidArgument, "ExpectHidden: %q is not true or false", cmd.Arg(1))
		}
		st, err := exec.WindowState(cmd.Arg(0))
		if err != nil {
			return err
		}
		if st.Hidden != want {
			return tserrors.New(tserrors.ErrCodeAssertion, "%s hidden = %v, want %v", cmd.Arg(0), st.Hidden, want)
		}
		return nil

	case CommandType_ExpectFocused:
		want := cmd.Arg(0)
		if want == "none" {
			want = ""
		}
		if got := exec.FocusedWindow(); got != want {
			return tserrors.New(tserrors.ErrCodeAssertion, "focused window is %q, want %q", got, want)
		}
		return nil
	}

	return tserrors.New(tserrors.ErrCodeInvalidCommand, "unknown command %q", cmd.Type)
}

func windowSpec(cmd *Command) (WindowSpec, error) {
	spec := WindowSpec{
		Name:     cmd.Arg(0),
		Class:    cmd.Option("class"),
		Title:    cmd.Option("title"),
		Floating: cmd.Type == CommandType_OpenFloating,
	}
	pairs := []struct {
		name string
		dst  *geom.Vector2D
	}{
		{"size", &spec.Size},
		{"min", &spec.Min},
		{"max", &spec.Max},
	}
	for _, pr := range pairs {
		x, y, ok, err := cmd.OptionPair(pr.name)
		if err != nil {
			return spec, err
		}
		if ok {
			*pr.dst = geom.Vec(x, y)
		}
	}
	x, y, ok, err := cmd.OptionPair("at")
	if err != nil {
		return spec, err
	}
	if ok {
		at := geom.Vec(x, y)
		spec.At = &at
	}
	return spec, nil
}

func parseFullscreen(s string) (layout.FullscreenMode, error) {
	switch strings.ToLower(s) {
	case "", "full", "fullscreen":
		return layout.FullscreenFull, nil
	case "maximized", "max":
		return layout.FullscreenMaximized, nil
	case "none", "off":
		return layout.FullscreenNone, nil
	}
	return layout.FullscreenNone, tserrors.New(tserrors.ErrCodeInvalidArgument, "Fullscreen: unknown mode %q", s)
}
