package preview

import (
	"fmt"
	"image/color"
	"math"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/Gaurav-Gosain/tessera/internal/app"
	"github.com/Gaurav-Gosain/tessera/internal/config"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
	"github.com/Gaurav-Gosain/tessera/internal/pool"
	"github.com/Gaurav-Gosain/tessera/internal/theme"
)

// canvas is a grid of runes with a foreground color per cell.
type canvas struct {
	w, h   int
	rows   []*[]rune
	colors [][]color.Color
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h}
	for range h {
		c.rows = append(c.rows, pool.GetRuneSlice(w))
		c.colors = append(c.colors, make([]color.Color, w))
	}
	return c
}

// release returns the rows to the pool. The canvas is unusable afterwards.
func (c *canvas) release() {
	for _, r := range c.rows {
		pool.PutRuneSlice(r)
	}
	c.rows, c.colors = nil, nil
}

func (c *canvas) set(x, y int, r rune, col color.Color) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	(*c.rows[y])[x] = r
	c.colors[y][x] = col
}

func (c *canvas) text(x, y int, s string, col color.Color) {
	for _, r := range s {
		c.set(x, y, r, col)
		x++
	}
}

func (c *canvas) fill(x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.set(x, y, ' ', nil)
		}
	}
}

// frame draws a rounded border around the inclusive cell rectangle with the
// label on the top edge.
func (c *canvas) frame(x0, y0, x1, y1 int, col color.Color, label string, labelCol color.Color) {
	if x1 < x0 || y1 < y0 {
		return
	}
	if x1 == x0 || y1 == y0 {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				c.set(x, y, '▪', col)
			}
		}
		return
	}

	b := lipgloss.RoundedBorder()
	c.fill(x0+1, y0+1, x1-1, y1-1)
	for x := x0 + 1; x < x1; x++ {
		c.set(x, y0, firstRune(b.Top), col)
		c.set(x, y1, firstRune(b.Bottom), col)
	}
	for y := y0 + 1; y < y1; y++ {
		c.set(x0, y, firstRune(b.Left), col)
		c.set(x1, y, firstRune(b.Right), col)
	}
	c.set(x0, y0, firstRune(b.TopLeft), col)
	c.set(x1, y0, firstRune(b.TopRight), col)
	c.set(x0, y1, firstRune(b.BottomLeft), col)
	c.set(x1, y1, firstRune(b.BottomRight), col)

	room := x1 - x0 - 3
	if room <= 0 || label == "" {
		return
	}
	runes := []rune(label)
	if len(runes) > room {
		runes = runes[:room]
	}
	c.text(x0+2, y0, string(runes), labelCol)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return ' '
}

// String returns the grid without styling.
func (c *canvas) String() string {
	sb := pool.GetStringBuilder()
	defer pool.PutStringBuilder(sb)
	for i, row := range c.rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(*row))
	}
	return sb.String()
}

// Render returns the grid with each run of equal color styled once.
func (c *canvas) Render() string {
	sb := pool.GetStringBuilder()
	defer pool.PutStringBuilder(sb)
	for y, row := range c.rows {
		if y > 0 {
			sb.WriteByte('\n')
		}
		cells := *row
		for x := 0; x < len(cells); {
			col := c.colors[y][x]
			end := x + 1
			for end < len(cells) && c.colors[y][end] == col {
				end++
			}
			run := string(cells[x:end])
			if col == nil {
				sb.WriteString(run)
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(col).Render(run))
			}
			x = end
		}
	}
	return sb.String()
}

func (m *Model) render() string {
	if m.showHelp {
		return m.renderHelp()
	}
	c := m.drawDesktop()
	defer c.release()
	return c.Render() + "\n" + m.statusBar()
}

// drawDesktop draws the visible targets of the active workspace.
func (m *Model) drawDesktop() *canvas {
	c := newCanvas(max(m.width, 1), max(m.height-statusHeight, 1))
	ws := m.desk.ActiveWorkspace()
	algo := ws.Space.Algorithm()
	focused := m.desk.Focused()
	dragged := m.desk.DragTarget()

	targets := slices.Concat(algo.TiledTargets(), algo.FloatingTargets())
	// Fullscreen, focused and dragged targets go on top, in that order.
	rank := func(t *layout.Target) int {
		switch {
		case t == dragged:
			return 3
		case t == focused:
			return 2
		case t.Fullscreen() != layout.FullscreenNone:
			return 1
		}
		return 0
	}
	slices.SortStableFunc(targets, func(a, b *layout.Target) int { return rank(a) - rank(b) })

	mon, sx, sy := m.scale()
	for _, t := range targets {
		if t.Hidden() {
			continue
		}
		box := t.Box()
		x0 := int(math.Round((box.X - mon.X) / sx))
		y0 := int(math.Round((box.Y - mon.Y) / sy))
		x1 := int(math.Round((box.X+box.W-mon.X)/sx)) - 1
		y1 := int(math.Round((box.Y+box.H-mon.Y)/sy)) - 1

		col := theme.BorderTiled()
		switch {
		case t == dragged:
			col = theme.BorderDragged()
		case t == focused:
			col = theme.BorderFocused()
		case t.Floating():
			col = theme.BorderFloating()
		}
		c.frame(x0, y0, x1, y1, col, " "+targetLabel(t)+" ", theme.WindowLabel())
	}
	return c
}

func targetLabel(t *layout.Target) string {
	name := "?"
	if w, ok := t.Window().(*app.Window); ok {
		name = w.Name()
	}
	if t.IsGroup() {
		name = fmt.Sprintf("%s +%d", name, len(t.Group().Members())-1)
	}
	var flags []string
	if t.Pseudo() {
		flags = append(flags, "pseudo")
	}
	if fs := app.FullscreenName(t.Fullscreen()); fs != "" {
		flags = append(flags, fs)
	}
	if len(flags) > 0 {
		name += " [" + strings.Join(flags, " ") + "]"
	}
	return name
}

func (m *Model) statusBar() string {
	base := lipgloss.NewStyle().Background(theme.StatusBg()).Foreground(theme.StatusFg())
	accent := base.Foreground(theme.StatusAccent()).Bold(true)

	active := m.desk.ActiveWorkspace()
	var parts []string
	for _, ws := range m.desk.Workspaces() {
		if ws.Monitor() != active.Monitor() {
			continue
		}
		if ws == active {
			parts = append(parts, accent.Render(fmt.Sprintf("[%d]", ws.ID)))
		} else {
			parts = append(parts, base.Render(fmt.Sprintf(" %d ", ws.ID)))
		}
	}
	left := strings.Join(parts, base.Render(" ")) +
		base.Render(fmt.Sprintf("  %s  %s ", active.Space.Algorithm().TiledName(), m.desk.FocusedWindow()))

	status := base.Render(m.status + " ")
	if m.statusErr {
		status = base.Foreground(theme.StatusError()).Render(m.status + " ")
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 0 {
		return left
	}
	return left + base.Render(strings.Repeat(" ", gap)) + status
}

func (m *Model) renderHelp() string {
	var rows [][]string
	for _, section := range config.GetKeybindings(m.keys) {
		if section.Title != "" {
			rows = append(rows, []string{section.Title, ""})
		}
		for _, b := range section.Bindings {
			rows = append(rows, []string{b.Key, b.Description})
		}
	}

	header := lipgloss.NewStyle().Foreground(theme.HelpTableHeader()).Bold(true).Padding(0, 1)
	key := lipgloss.NewStyle().Foreground(theme.HelpKeyBadge()).Padding(0, 1)
	desc := lipgloss.NewStyle().Foreground(theme.HelpGray()).Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.HelpBorder())).
		Headers("KEY", "ACTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 0:
				return key
			}
			return desc
		})

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, t.String())
}
