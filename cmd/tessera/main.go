// Package main implements tessera, a headless tiling layout engine with a
// terminal preview, a scenario runner and an IPC server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/tessera/internal/preview"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode  bool
	configFile string
	themeName  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tessera",
		Short: "Headless tiling layout engine",
		Long: `tessera - headless tiling layout engine

Arranges windows on monitors and workspaces with dwindle, scrolling, monocle
and floating layouts. Drive it from the terminal preview, from scenario
scripts, or over HTTP.`,
		Example: `  # Open the terminal preview
  tessera

  # Play a scenario and print the final layout
  tessera run layouts.tsc

  # Serve the IPC API on the default unix socket
  tessera serve

  # List all keybindings
  tessera keybinds list`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.Context(), "", preview.DefaultStepInterval)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/tessera/config.toml)")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "bubbletint theme for the preview and tables")

	var quiet bool
	runCmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Play a scenario script",
		Long: `Play a scenario script against a fresh desktop

Print commands write the layout to stdout and the final boxes are listed
once the script ends. The first failing command or expectation stops
playback with a non-zero exit status.`,
		Example: `  tessera run testdata/dwindle.tsc
  tessera run - < scenario.tsc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScriptFile(cmd.Context(), args[0], cmd.OutOrStdout(), cmd.InOrStdin(), !quiet)
		},
	}
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not list the final boxes")

	var previewInterval time.Duration
	previewCmd := &cobra.Command{
		Use:   "preview [script]",
		Short: "Open the terminal preview",
		Long: `Open the terminal preview

Windows are drawn scaled to the terminal. Use the keybindings (press ? for
help) or the mouse to drive the layout. A script is played one command at a
time before control is handed over.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script := ""
			if len(args) == 1 {
				script = args[0]
			}
			return runPreview(cmd.Context(), script, previewInterval)
		},
	}
	previewCmd.Flags().DurationVar(&previewInterval, "step", preview.DefaultStepInterval, "Delay between script commands")

	var tcpAddr, socketPath string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the IPC API",
		Long: `Serve the IPC API over a unix socket or TCP

Endpoints live under /v1 (workspaces, windows/{ref}, dispatch, layoutmsg).
Prometheus metrics are served at /metrics. The config file is watched and
reapplied on change.`,
		Example: `  tessera serve
  tessera serve --tcp 127.0.0.1:7373`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), tcpAddr, socketPath)
		},
	}
	serveCmd.Flags().StringVar(&tcpAddr, "tcp", "", "Listen on a TCP address instead of the unix socket")
	serveCmd.Flags().StringVar(&socketPath, "socket", "", "Unix socket path (default $XDG_RUNTIME_DIR/tessera/tessera.sock)")

	// Config command group
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tessera configuration",
		Long:  `Manage tessera configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfigPath(cmd.OutOrStdout())
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the tessera configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigFile()
		},
	}

	var assumeYes bool
	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the tessera configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigToDefaults(cmd.InOrStdin(), cmd.OutOrStdout(), assumeYes)
		},
	}
	configResetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	configValidateCmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a configuration file",
		Long:  `Parse and validate a configuration file, reporting every problem found`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configFile
			if len(args) == 1 {
				path = args[0]
			}
			return validateConfigFile(path, cmd.OutOrStdout())
		},
	}

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd, configValidateCmd)

	// Keybinds command group
	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
		Long:    `View and inspect the preview keybindings`,
	}

	keybindsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all keybindings",
		Long:  `Display all configured keybindings in a formatted table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listKeybindings(cmd.OutOrStdout())
		},
	}

	keybindsCustomCmd := &cobra.Command{
		Use:   "list-custom",
		Short: "List customized keybindings",
		Long:  `Display only keybindings that differ from defaults`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCustomKeybindings(cmd.OutOrStdout())
		},
	}

	keybindsCmd.AddCommand(keybindsListCmd, keybindsCustomCmd)

	strategiesCmd := &cobra.Command{
		Use:     "strategies",
		Aliases: []string{"layouts"},
		Short:   "List the available layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listStrategies(cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(runCmd, previewCmd, serveCmd, configCmd, keybindsCmd, strategiesCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}
