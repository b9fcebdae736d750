// Package theme provides the color palette of the preview and CLI tables.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize selects a bubbletint theme by ID. An empty name disables theming
// and the fixed ANSI palette below is used instead. Unknown names fall back to
// the "default" tint.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()
	if ok := tint.SetTintID(themeName); !ok {
		tint.SetTintID("default")
	}
	return nil
}

// current returns the active tint, or nil when theming is disabled.
func current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// Window border colors

func BorderTiled() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#7f7f7f")
	}
	return t.BrightBlack
}

func BorderFloating() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#cd00cd")
	}
	return t.Purple
}

func BorderFocused() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#AFFFFF")
	}
	return t.BrightCyan
}

// BorderDragged marks the target of a running drag.
func BorderDragged() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#ffff00")
	}
	return t.Yellow
}

func WindowLabel() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#e5e5e5")
	}
	return t.Fg
}

// Status bar colors
func StatusBg() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#1a1a2e")
	}
	return t.Bg
}

func StatusFg() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#a0a0b0")
	}
	return t.White
}

func StatusAccent() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#5c5cff")
	}
	return t.BrightBlue
}

func StatusError() color.Color {
	t := current()
	if t == nil {
		return lipgloss.Color("#ff0000")
	}
	return t.BrightRed
}

// Help overlay colors
func HelpKeyBadge() color.Color {
	return lipgloss.Color("5") // Purple/magenta
}

func HelpGray() color.Color {
	return lipgloss.Color("8")
}

func HelpBorder() color.Color {
	return lipgloss.Color("14")
}

func HelpTableHeader() color.Color {
	return lipgloss.Color("12")
}

// CLI table colors
func CLITableHeader() color.Color {
	return lipgloss.Color("12")
}

func CLITableBorder() color.Color {
	return lipgloss.Color("14")
}

func CLITableKey() color.Color {
	return lipgloss.Color("11")
}

func CLITableDim() color.Color {
	return lipgloss.Color("8")
}
