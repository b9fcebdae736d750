package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"go.uber.org/multierr"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/tessera/internal/app"
	"github.com/Gaurav-Gosain/tessera/internal/config"
	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/layout/strategies"
	"github.com/Gaurav-Gosain/tessera/internal/theme"
)

// printConfigPath prints the config file path
func printConfigPath(out io.Writer) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}
	fmt.Fprintln(out, path)
	return nil
}

// editConfigFile opens the config file in $EDITOR
func editConfigFile() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	// LoadUserConfig writes the defaults when the file is missing.
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("Config file doesn't exist, creating default at: %s\n", configPath)
		if _, err := config.LoadUserConfig(); err != nil {
			return fmt.Errorf("could not create config file: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "vi", "nano", "emacs"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Please set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// resetConfigToDefaults resets the configuration file to default settings
func resetConfigToDefaults(in io.Reader, out io.Writer, assumeYes bool) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil && !assumeYes {
		fmt.Fprintf(out, "Warning: This will overwrite your existing configuration at:\n")
		fmt.Fprintf(out, "  %s\n\n", configPath)
		fmt.Fprintf(out, "Are you sure you want to reset to defaults? (yes/no): ")

		response, _ := bufio.NewReader(in).ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "yes" && response != "y" {
			fmt.Fprintln(out, "Reset cancelled.")
			return nil
		}
	}

	if err := config.WriteFile(configPath, config.DefaultConfig()); err != nil {
		return err
	}

	fmt.Fprintf(out, "Configuration reset to defaults\n")
	fmt.Fprintf(out, "  Location: %s\n", configPath)
	fmt.Fprintln(out, "\nYou can customize it with: tessera config edit")
	return nil
}

// validateConfigFile reports every problem in path, or in the user config
// when path is empty.
func validateConfigFile(path string, out io.Writer) error {
	if path == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			return fmt.Errorf("could not determine config path: %w", err)
		}
		path = p
	}

	_, err := config.LoadFromFile(path)
	if err == nil {
		fmt.Fprintf(out, "%s: ok\n", path)
		return nil
	}
	// Validation problems are combined under one coded error.
	cause := err
	var coded *tserrors.Error
	if errors.As(err, &coded) && coded.Cause != nil {
		cause = coded.Cause
	}
	errs := multierr.Errors(cause)
	for _, e := range errs {
		fmt.Fprintf(out, "%s: %v\n", path, e)
	}
	return fmt.Errorf("%d problem(s) in %s", len(errs), path)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func loadConfigOrDefault() *config.Config {
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintln(os.Stderr, "Using default keybindings...")
		return config.DefaultConfig()
	}
	return cfg
}

// listKeybindings prints all configured keybindings
func listKeybindings(out io.Writer) error {
	registry := config.NewKeybindRegistry(loadConfigOrDefault())
	sections := config.GetKeybindings(registry)

	if !isTerminal(out) {
		printKeybindingsPlain(out, sections)
		return nil
	}
	printKeybindingsTable(out, sections)
	return nil
}

func printKeybindingsPlain(out io.Writer, sections []config.KeybindingSection) {
	for _, section := range sections {
		for _, b := range section.Bindings {
			fmt.Fprintf(out, "%s\t%s\n", b.Key, b.Description)
		}
	}
}

func tableStyles() (header, cell lipgloss.Style) {
	header = lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.CLITableHeader()).
		Padding(0, 1)
	cell = lipgloss.NewStyle().
		Padding(0, 1)
	return header, cell
}

func newTable(headers ...string) *table.Table {
	headerStyle, cellStyle := tableStyles()
	keyStyle := cellStyle.Foreground(theme.CLITableKey())
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.CLITableBorder())).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return keyStyle
			}
			return cellStyle
		})
}

// printKeybindingsTable prints keybindings in a pretty table format
func printKeybindingsTable(out io.Writer, sections []config.KeybindingSection) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableBorder()).Render("tessera Keybindings"))
	fmt.Fprintln(out)

	for _, section := range sections {
		rows := make([][]string, 0, len(section.Bindings))
		for _, b := range section.Bindings {
			rows = append(rows, []string{b.Key, b.Description})
		}
		t := newTable("Keys", "Action").Rows(rows...)

		title := section.Title
		if title == "" {
			title = "GENERAL"
		}
		fmt.Fprintln(out, lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableKey()).Render(title))
		fmt.Fprintln(out, t.Render())
		fmt.Fprintln(out)
	}

	note := lipgloss.NewStyle().
		Foreground(theme.CLITableDim()).
		Italic(true).
		Render("Note: drag with the left mouse button to move, right button to resize.")
	fmt.Fprintln(out, note)
	fmt.Fprintln(out)
}

// Customization represents a customized keybinding
type Customization struct {
	Action      string
	DefaultKeys string
	CustomKeys  string
}

// listCustomKeybindings shows only the keybindings that differ from defaults
func listCustomKeybindings(out io.Writer) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	customizations := findCustomizations(cfg, config.DefaultConfig())
	if len(customizations) == 0 {
		fmt.Fprintln(out, lipgloss.NewStyle().Foreground(theme.CLITableDim()).Render("No custom keybindings configured. All keybindings are using defaults."))
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'tessera keybinds list' to see all keybindings.")
		return nil
	}

	rows := make([][]string, 0, len(customizations))
	for _, c := range customizations {
		rows = append(rows, []string{c.Action, c.DefaultKeys, c.CustomKeys})
	}
	if !isTerminal(out) {
		for _, r := range rows {
			fmt.Fprintln(out, strings.Join(r, "\t"))
		}
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, newTable("Action", "Default", "Custom").Rows(rows...).Render())
	fmt.Fprintln(out)
	fmt.Fprintln(out, lipgloss.NewStyle().
		Foreground(theme.CLITableKey()).
		Render(fmt.Sprintf("Found %d customized keybinding(s)", len(customizations))))
	return nil
}

// findCustomizations finds all keybindings that differ from defaults, sorted
// by action.
func findCustomizations(userCfg, defaultCfg *config.Config) []Customization {
	var customizations []Customization
	user := userCfg.Keybindings.Preview
	for action, defaultKeys := range defaultCfg.Keybindings.Preview {
		userKeys, exists := user[action]
		if !exists || slices.Equal(userKeys, defaultKeys) {
			continue
		}
		customizations = append(customizations, Customization{
			Action:      formatActionName(action),
			DefaultKeys: strings.Join(defaultKeys, ", "),
			CustomKeys:  strings.Join(userKeys, ", "),
		})
	}
	slices.SortFunc(customizations, func(a, b Customization) int {
		return strings.Compare(a.Action, b.Action)
	})
	return customizations
}

// formatActionName formats an action name for display
func formatActionName(action string) string {
	if desc, ok := config.ActionDescriptions[action]; ok {
		return desc
	}
	return strings.ReplaceAll(action, "_", " ")
}

// listStrategies prints the registered tiled and floating layouts
func listStrategies(out io.Writer) error {
	reg := strategies.Default()
	if !isTerminal(out) {
		for _, name := range reg.TiledNames() {
			fmt.Fprintf(out, "tiled\t%s\n", name)
		}
		for _, name := range reg.FloatingNames() {
			fmt.Fprintf(out, "floating\t%s\n", name)
		}
		return nil
	}

	var rows [][]string
	for _, name := range reg.TiledNames() {
		rows = append(rows, []string{name, "tiled"})
	}
	for _, name := range reg.FloatingNames() {
		rows = append(rows, []string{name, "floating"})
	}
	fmt.Fprintln(out, newTable("Layout", "Kind").Rows(rows...).Render())
	return nil
}

// printSummary lists every window of snap, as a table on a terminal and as
// tab separated lines otherwise.
func printSummary(out io.Writer, snap app.Snapshot) {
	var rows [][]string
	for _, ws := range snap.Workspaces {
		for _, w := range ws.Windows {
			var flags []string
			if w.Floating {
				flags = append(flags, "floating")
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
			rows = append(rows, []string{
				w.Name,
				fmt.Sprint(ws.ID),
				ws.Layout,
				w.Box.String(),
				strings.Join(flags, " "),
			})
		}
	}

	if !isTerminal(out) {
		for _, r := range rows {
			fmt.Fprintln(out, strings.Join(r, "\t"))
		}
		return
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, lipgloss.NewStyle().Foreground(theme.CLITableDim()).Render("No windows."))
		return
	}
	fmt.Fprintln(out, newTable("Window", "Workspace", "Layout", "Box", "Flags").Rows(rows...).Render())
}
