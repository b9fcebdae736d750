package app

import (
	"context"
	"io"

	"github.com/Gaurav-Gosain/tessera/internal/drag"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
	"github.com/Gaurav-Gosain/tessera/internal/layout/floating"
	"github.com/Gaurav-Gosain/tessera/internal/scenario"
)

// The Desktop is the environment of its spaces and the executor of
// scenarios.
var (
	_ layout.Env          = (*Desktop)(nil)
	_ floating.RuleSource = (*Desktop)(nil)
	_ drag.RefreshRater   = (*Desktop)(nil)
	_ scenario.Executor   = (*Desktop)(nil)
)

// OpenWindow opens a window described by a scenario.
func (d *Desktop) OpenWindow(spec scenario.WindowSpec) error {
	_, err := d.Open(spec)
	return err
}

// WindowState reports the box and visibility of a window.
func (d *Desktop) WindowState(ref string) (scenario.WindowState, error) {
	w, err := d.Window(ref)
	if err != nil {
		return scenario.WindowState{}, err
	}
	return scenario.WindowState{Box: w.target.Box(), Hidden: w.target.Hidden()}, nil
}

// FocusedWindow returns the name of the focused window, or "".
func (d *Desktop) FocusedWindow() string {
	t := d.Focused()
	if t == nil {
		return ""
	}
	if w, ok := t.Window().(*Window); ok {
		return w.name
	}
	return ""
}

// RunScript parses src and plays it against the desktop. Print output goes
// to out.
func (d *Desktop) RunScript(ctx context.Context, src string, out io.Writer) error {
	cmds, err := scenario.Parse(src)
	if err != nil {
		return err
	}
	p := scenario.NewPlayer(cmds)
	p.Output = out
	return p.Run(ctx, d)
}
