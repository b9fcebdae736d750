package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tessera/internal/app"
	"github.com/Gaurav-Gosain/tessera/internal/config"
	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/logging"
	"github.com/Gaurav-Gosain/tessera/internal/preview"
	"github.com/Gaurav-Gosain/tessera/internal/scenario"
	"github.com/Gaurav-Gosain/tessera/internal/server"
	"github.com/Gaurav-Gosain/tessera/internal/store"
	"github.com/Gaurav-Gosain/tessera/internal/theme"
)

// loadConfig returns the config selected by --config, or the user config.
// The returned path is watched for changes.
func loadConfig() (*config.Config, string, error) {
	if configFile != "" {
		cfg, err := config.LoadFromFile(configFile)
		return cfg, configFile, err
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return nil, "", tserrors.Wrap(tserrors.ErrCodeConfig, err, "resolve config path")
	}
	cfg, err := config.LoadUserConfig()
	return cfg, path, err
}

// newDesktop opens the float store named by cfg and builds a desktop on it.
func newDesktop(cfg *config.Config, logger *log.Logger) (*app.Desktop, error) {
	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, err
	}
	desk, err := app.New(app.Options{Config: cfg, Logger: logger, Store: st})
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return desk, nil
}

// readScript reads path, or stdin when path is "-".
func readScript(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", tserrors.Wrap(tserrors.ErrCodeInvalidArgument, err, "read script %s", path)
	}
	return string(data), nil
}

func runScriptFile(ctx context.Context, path string, out io.Writer, stdin io.Reader, summary bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := readScript(path, stdin)
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, debugMode)
	return runScript(logging.WithLogger(ctx, logger), cfg, src, out, summary)
}

// runScript plays src against a fresh desktop built from cfg. With summary
// set the final layout is printed after a successful run.
func runScript(ctx context.Context, cfg *config.Config, src string, out io.Writer, summary bool) error {
	desk, err := newDesktop(cfg, logging.FromContext(ctx))
	if err != nil {
		return err
	}
	defer desk.Close()
	if err := desk.RunScript(ctx, src, out); err != nil {
		return err
	}
	if summary {
		printSummary(out, desk.Snapshot())
	}
	return nil
}

// previewLogger writes to a state file since the preview owns the terminal.
func previewLogger() (*log.Logger, func(), error) {
	if !debugMode {
		return logging.Discard(), func() {}, nil
	}
	path, err := xdg.StateFile(filepath.Join("tessera", "preview.log"))
	if err != nil {
		return nil, nil, tserrors.Wrap(tserrors.ErrCodeInternal, err, "resolve log path")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, tserrors.Wrap(tserrors.ErrCodeInternal, err, "open %s", path)
	}
	return logging.New(f, true), func() { _ = f.Close() }, nil
}

func runPreview(ctx context.Context, scriptPath string, interval time.Duration) error {
	if err := theme.Initialize(themeName); err != nil {
		return err
	}
	logger, closeLog, err := previewLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, cfgPath, err := loadConfig()
	if err != nil {
		logger.Warn("failed to load config, using defaults", "err", err)
		cfg = config.DefaultConfig()
	}

	var script []scenario.Command
	if scriptPath != "" {
		src, err := readScript(scriptPath, os.Stdin)
		if err != nil {
			return err
		}
		if script, err = scenario.Parse(src); err != nil {
			return err
		}
	}

	desk, err := newDesktop(cfg, logger)
	if err != nil {
		return err
	}
	defer desk.Close()

	model := preview.New(desk, preview.Options{
		Script:       script,
		StepInterval: interval,
		Logger:       logger,
	})
	p := tea.NewProgram(model, tea.WithContext(ctx))

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if cfgPath != "" {
		go func() {
			err := config.Watch(watchCtx, cfgPath, func(cfg *config.Config, err error) {
				p.Send(preview.ConfigMsg{Config: cfg, Err: err})
			})
			if err != nil {
				logger.Warn("config watch stopped", "err", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func runServe(ctx context.Context, tcpAddr, socketPath string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New(os.Stderr, debugMode)
	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return err
	}
	desk, err := newDesktop(cfg, logger)
	if err != nil {
		return err
	}
	defer desk.Close()

	srv, err := server.New(desk, logger)
	if err != nil {
		return err
	}

	network, addr := "tcp", tcpAddr
	if tcpAddr == "" {
		network, addr = "unix", socketPath
		if addr == "" {
			if addr, err = server.DefaultSocketPath(); err != nil {
				return tserrors.Wrap(tserrors.ErrCodeInternal, err, "resolve socket path")
			}
		}
	}

	go func() {
		err := config.Watch(ctx, cfgPath, func(cfg *config.Config, err error) {
			if err != nil {
				logger.Warn("config reload failed", "err", err)
				return
			}
			if err := srv.Do(ctx, func(d *app.Desktop) error { return d.ApplyConfig(cfg) }); err != nil {
				logger.Warn("config not applied", "err", err)
			}
		})
		if err != nil {
			logger.Warn("config watch stopped", "err", err)
		}
	}()

	return srv.ListenAndServe(ctx, network, addr)
}
