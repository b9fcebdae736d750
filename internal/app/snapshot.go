package app

import (
	"fmt"
	"strings"

	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
)

// Snapshot is a serializable view of the desktop.
type Snapshot struct {
	Focused    string              `json:"focused,omitempty"`
	Cursor     geom.Vector2D       `json:"cursor"`
	Monitors   []MonitorSnapshot   `json:"monitors"`
	Workspaces []WorkspaceSnapshot `json:"workspaces"`
}

// MonitorSnapshot describes one monitor.
type MonitorSnapshot struct {
	Name            string   `json:"name"`
	Box             geom.Box `json:"box"`
	WorkArea        geom.Box `json:"work_area"`
	RefreshRate     float64  `json:"refresh_rate"`
	ActiveWorkspace int      `json:"active_workspace"`
	Focused         bool     `json:"focused,omitempty"`
}

// WorkspaceSnapshot describes one workspace and its windows in layout order.
type WorkspaceSnapshot struct {
	ID             int              `json:"id"`
	Monitor        string           `json:"monitor"`
	Visible        bool             `json:"visible"`
	Layout         string           `json:"layout"`
	FloatingLayout string           `json:"floating_layout"`
	WorkArea       geom.Box         `json:"work_area"`
	Windows        []WindowSnapshot `json:"windows"`
}

// WindowSnapshot describes one window.
type WindowSnapshot struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Class      string   `json:"class,omitempty"`
	Title      string   `json:"title,omitempty"`
	Box        geom.Box `json:"box"`
	Floating   bool     `json:"floating"`
	Pseudo     bool     `json:"pseudo,omitempty"`
	Hidden     bool     `json:"hidden,omitempty"`
	Fullscreen string   `json:"fullscreen,omitempty"`
	// Group is the name of the first member when the window is grouped.
	Group   string `json:"group,omitempty"`
	Focused bool   `json:"focused,omitempty"`
}

// FullscreenName returns the config name of a fullscreen mode.
func FullscreenName(m layout.FullscreenMode) string {
	switch m {
	case layout.FullscreenMaximized:
		return "maximized"
	case layout.FullscreenFull:
		return "fullscreen"
	}
	return ""
}

// Snapshot captures the current state.
func (d *Desktop) Snapshot() Snapshot {
	snap := Snapshot{
		Focused: d.FocusedWindow(),
		Cursor:  d.cursor,
	}
	for _, m := range d.monitors {
		ms := MonitorSnapshot{
			Name:        m.Name,
			Box:         m.Box,
			WorkArea:    m.WorkArea(d.cfg.General.GapsOut),
			RefreshRate: m.RefreshRate,
			Focused:     m == d.focusedMon,
		}
		if m.active != nil {
			ms.ActiveWorkspace = m.active.ID
		}
		snap.Monitors = append(snap.Monitors, ms)
	}

	focused := d.Focused()
	for _, ws := range d.Workspaces() {
		algo := ws.Space.Algorithm()
		wss := WorkspaceSnapshot{
			ID:             ws.ID,
			Monitor:        ws.monitor.Name,
			Visible:        ws.Visible(),
			Layout:         algo.TiledName(),
			FloatingLayout: algo.FloatingName(),
			WorkArea:       ws.Space.WorkArea(),
			Windows:        []WindowSnapshot{},
		}
		for _, t := range ws.Space.Targets() {
			wss.Windows = append(wss.Windows, d.windowSnapshots(t, t == focused)...)
		}
		snap.Workspaces = append(snap.Workspaces, wss)
	}
	return snap
}

func (d *Desktop) windowSnapshots(t *layout.Target, focused bool) []WindowSnapshot {
	members := []*layout.Target{t}
	group := ""
	if t.IsGroup() {
		members = t.Group().Members()
		if len(members) > 0 {
			if w, ok := members[0].Window().(*Window); ok {
				group = w.name
			}
		}
	}

	var out []WindowSnapshot
	for _, m := range members {
		w, ok := m.Window().(*Window)
		if !ok {
			continue
		}
		out = append(out, WindowSnapshot{
			ID:         w.id,
			Name:       w.name,
			Class:      w.class,
			Title:      w.title,
			Box:        m.Box(),
			Floating:   t.Floating(),
			Pseudo:     t.Pseudo(),
			Hidden:     m.Hidden(),
			Fullscreen: FullscreenName(t.Fullscreen()),
			Group:      group,
			Focused:    focused && !m.Hidden(),
		})
	}
	return out
}

// Describe renders the snapshot as indented text, one line per window.
func (d *Desktop) Describe() string {
	snap := d.Snapshot()
	var sb strings.Builder
	for _, ws := range snap.Workspaces {
		state := "hidden"
		if ws.Visible {
			state = "visible"
		}
		fmt.Fprintf(&sb, "workspace %d on %s (%s, %s)\n", ws.ID, ws.Monitor, ws.Layout, state)
		for _, w := range ws.Windows {
			var flags []string
			if w.Floating {
				flags = append(flags, "floating")
			}
			if w.Pseudo {
				flags = append(flags, "pseudo")
			}
			if w.Fullscreen != "" {
				flags = append(flags, w.Fullscreen)
			}
			if w.Hidden {
				flags = append(flags, "hidden")
			}
			if w.Focused {
				flags = append(flags, "focused")
			}
			fmt.Fprintf(&sb, "  %-12s %s", w.Name, w.Box)
			if len(flags) > 0 {
				fmt.Fprintf(&sb, " [%s]", strings.Join(flags, " "))
			}
			sb.WriteByte('\n')
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
