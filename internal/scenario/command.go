package scenario

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
)

// CommandType represents the type of a scenario command
type CommandType string

const (
	// Setup
	CommandType_Monitor        CommandType = "Monitor"
	CommandType_Workspace      CommandType = "Workspace"
	CommandType_Layout         CommandType = "Layout"
	CommandType_FloatingLayout CommandType = "FloatingLayout"

	// Windows
	CommandType_Open         CommandType = "Open"
	CommandType_OpenFloating CommandType = "OpenFloating"
	CommandType_Close        CommandType = "Close"
	CommandType_Focus        CommandType = "Focus"
	CommandType_Cursor       CommandType = "Cursor"
	CommandType_Group        CommandType = "Group"

	// Placement
	CommandType_Float      CommandType = "Float"
	CommandType_Fullscreen CommandType = "Fullscreen"
	CommandType_Pseudo     CommandType = "Pseudo"
	CommandType_MoveToWS   CommandType = "MoveToWorkspace"
	CommandType_Move       CommandType = "Move"
	CommandType_Swap       CommandType = "Swap"
	CommandType_Resize     CommandType = "Resize"
	CommandType_LayoutMsg  CommandType = "LayoutMsg"

	// Pointer
	CommandType_DragMove   CommandType = "DragMove"
	CommandType_DragResize CommandType = "DragResize"
	CommandType_DragTo     CommandType = "DragTo"
	CommandType_DragEnd    CommandType = "DragEnd"

	// Time and output
	CommandType_Sleep CommandType = "Sleep"
	CommandType_Print CommandType = "Print"

	// Assertions
	CommandType_Expect        CommandType = "Expect"
	CommandType_ExpectHidden  CommandType = "ExpectHidden"
	CommandType_ExpectFocused CommandType = "ExpectFocused"
)

// Command represents a parsed scenario command
type Command struct {
	Type    CommandType
	Args    []string            // Positional arguments
	Options map[string][]string // Keyword options (Open and OpenFloating)
	Line    int                 // Source line number
	Column  int                 // Source column number
	Raw     string              // Original command text
}

// String returns a string representation of the command
func (c *Command) String() string {
	if c.Raw != "" {
		return c.Raw
	}
	if len(c.Args) == 0 {
		return string(c.Type)
	}
	return fmt.Sprintf("%s %s", c.Type, strings.Join(c.Args, " "))
}

// Arg returns positional argument i, or "" when absent.
func (c *Command) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

// Float parses positional argument i as a number.
func (c *Command) Float(i int) (float64, error) {
	v, err := strconv.ParseFloat(c.Arg(i), 64)
	if err != nil {
		return 0, tserrors.New(tserrors.ErrCodeInvalidArgument, "%s: argument %d: %q is not a number", c.Type, i+1, c.Arg(i))
	}
	return v, nil
}

// Int parses positional argument i as an integer.
func (c *Command) Int(i int) (int, error) {
	v, err := strconv.Atoi(c.Arg(i))
	if err != nil {
		return 0, tserrors.New(tserrors.ErrCodeInvalidArgument, "%s: argument %d: %q is not an integer", c.Type, i+1, c.Arg(i))
	}
	return v, nil
}

// Floats parses n positional arguments starting at i.
func (c *Command) Floats(i, n int) ([]float64, error) {
	out := make([]float64, n)
	for k := range n {
		v, err := c.Float(i + k)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// Duration parses positional argument i as a duration.
func (c *Command) Duration(i int) (time.Duration, error) {
	return ParseDuration(c.Arg(i))
}

// OptionPair parses a two number option such as "size 640 400".
func (c *Command) OptionPair(name string) (x, y float64, ok bool, err error) {
	vals, found := c.Options[name]
	if !found {
		return 0, 0, false, nil
	}
	if len(vals) != 2 {
		return 0, 0, false, tserrors.New(tserrors.ErrCodeInvalidArgument, "%s: option %s needs two numbers", c.Type, name)
	}
	if x, err = strconv.ParseFloat(vals[0], 64); err == nil {
		y, err = strconv.ParseFloat(vals[1], 64)
	}
	if err != nil {
		return 0, 0, false, tserrors.New(tserrors.ErrCodeInvalidArgument, "%s: option %s: %v", c.Type, name, vals)
	}
	return x, y, true, nil
}

// Option returns a single value option such as "class kitty".
func (c *Command) Option(name string) string {
	if vals := c.Options[name]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// ParseDuration parses a duration string (e.g., "500ms", "1s")
func ParseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, tserrors.Wrap(tserrors.ErrCodeInvalidArgument, err, "invalid duration %q", s)
	}
	return d, nil
}
