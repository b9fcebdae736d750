// Package config holds the tessera configuration: gaps, per-strategy tunables,
// workspace and window rules, preview keybindings and the float store.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/multierr"

	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
)

// Config is the root of config.toml.
type Config struct {
	General     GeneralConfig     `toml:"general"`
	Dwindle     DwindleConfig     `toml:"dwindle"`
	Scrolling   ScrollingConfig   `toml:"scrolling"`
	Floating    FloatingConfig    `toml:"floating"`
	Drag        DragConfig        `toml:"drag"`
	Monitors    []MonitorConfig   `toml:"monitor"`
	Workspaces  []WorkspaceRule   `toml:"workspace"`
	WindowRules []WindowRule      `toml:"window_rule"`
	Keybindings KeybindingsConfig `toml:"keybindings"`
	Store       StoreConfig       `toml:"store"`
}

// GeneralConfig applies to every workspace.
type GeneralConfig struct {
	GapsIn         float64    `toml:"gaps_in"`
	GapsOut        float64    `toml:"gaps_out"`
	BorderSize     float64    `toml:"border_size"`
	Layout         string     `toml:"layout"`
	FloatingLayout string     `toml:"floating_layout"`
	Snap           SnapConfig `toml:"snap"`
}

// SnapConfig controls edge snapping while dragging floating windows.
type SnapConfig struct {
	Enabled       bool    `toml:"enabled"`
	WindowGap     float64 `toml:"window_gap"`
	MonitorGap    float64 `toml:"monitor_gap"`
	BorderOverlap bool    `toml:"border_overlap"`
	RespectGaps   bool    `toml:"respect_gaps"`
}

// DwindleConfig tunes the binary space partition layout.
type DwindleConfig struct {
	Pseudotile                 bool    `toml:"pseudotile"`
	PreserveSplit              bool    `toml:"preserve_split"`
	SmartSplit                 bool    `toml:"smart_split"`
	SmartResizing              bool    `toml:"smart_resizing"`
	PermanentDirectionOverride bool    `toml:"permanent_direction_override"`
	ForceSplit                 int     `toml:"force_split"`
	UseActiveForSplits         bool    `toml:"use_active_for_splits"`
	DefaultSplitRatio          float64 `toml:"default_split_ratio"`
	SplitWidthMultiplier       float64 `toml:"split_width_multiplier"`
}

// ScrollingConfig tunes the scrolling strip layout.
type ScrollingConfig struct {
	Direction             string    `toml:"direction"`
	ColumnWidth           float64   `toml:"column_width"`
	FullscreenOnOneColumn bool      `toml:"fullscreen_on_one_column"`
	FocusFitMethod        string    `toml:"focus_fit_method"`
	FollowFocus           bool      `toml:"follow_focus"`
	FollowMinVisible      float64   `toml:"follow_min_visible"`
	ExplicitColumnWidths  []float64 `toml:"explicit_column_widths"`
}

// FloatingConfig tunes free placement.
type FloatingConfig struct {
	DefaultWidth  float64 `toml:"default_width"`
	DefaultHeight float64 `toml:"default_height"`
}

// DragConfig tunes interactive move and resize.
type DragConfig struct {
	Threshold    float64 `toml:"threshold"`
	ResizeCorner int     `toml:"resize_corner"`
	MergeGroups  bool    `toml:"merge_groups"`
}

// MonitorConfig describes a headless output.
type MonitorConfig struct {
	Name        string  `toml:"name"`
	X           float64 `toml:"x"`
	Y           float64 `toml:"y"`
	Width       float64 `toml:"width"`
	Height      float64 `toml:"height"`
	RefreshRate float64 `toml:"refresh_rate"`
	// Reserved is top, right, bottom, left.
	Reserved [4]float64 `toml:"reserved"`
}

// WorkspaceRule overrides layout choices for one workspace.
type WorkspaceRule struct {
	Workspace int    `toml:"workspace"`
	Monitor   string `toml:"monitor"`
	Layout    string `toml:"layout"`
	Direction string `toml:"direction"`
}

// WindowRule matches windows by class and title regex at map time.
type WindowRule struct {
	Class     string `toml:"class"`
	Title     string `toml:"title"`
	Float     bool   `toml:"float"`
	Pseudo    bool   `toml:"pseudo"`
	Size      string `toml:"size"`
	Position  string `toml:"position"`
	Center    bool   `toml:"center"`
	Workspace int    `toml:"workspace"`
}

// KeybindingsConfig maps preview actions to keys.
type KeybindingsConfig struct {
	Preview map[string][]string `toml:"preview"`
}

// StoreConfig selects where remembered floating sizes live.
type StoreConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
}

// Layout names accepted in config and by SetLayout.
var (
	TiledLayouts    = []string{"dwindle", "scrolling", "monocle"}
	FloatingLayouts = []string{"default"}
	directions      = []string{"right", "left", "down", "up"}
)

// DefaultConfig returns the built in configuration.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			GapsIn:         5,
			GapsOut:        20,
			BorderSize:     2,
			Layout:         "dwindle",
			FloatingLayout: "default",
			Snap: SnapConfig{
				Enabled:    true,
				WindowGap:  10,
				MonitorGap: 10,
			},
		},
		Dwindle: DwindleConfig{
			SmartResizing:        true,
			UseActiveForSplits:   true,
			DefaultSplitRatio:    1.0,
			SplitWidthMultiplier: 1.0,
		},
		Scrolling: ScrollingConfig{
			Direction:            "right",
			ColumnWidth:          0.5,
			FocusFitMethod:       "center",
			FollowFocus:          true,
			FollowMinVisible:     0.4,
			ExplicitColumnWidths: []float64{0.333, 0.5, 0.667, 1.0},
		},
		Floating: FloatingConfig{
			DefaultWidth:  640,
			DefaultHeight: 400,
		},
		Drag: DragConfig{
			MergeGroups: true,
		},
		Monitors: []MonitorConfig{
			{Name: "HEADLESS-1", Width: 1920, Height: 1080, RefreshRate: 60},
		},
		Keybindings: KeybindingsConfig{
			Preview: defaultPreviewKeys(),
		},
		Store: StoreConfig{
			Driver: "memory",
		},
	}
}

// GetConfigPath returns $XDG_CONFIG_HOME/tessera/config.toml, creating the
// parent directory if needed.
func GetConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("tessera", "config.toml"))
}

// DefaultStorePath returns the sqlite path used when store.path is empty.
func DefaultStorePath() (string, error) {
	return xdg.DataFile(filepath.Join("tessera", "floating.db"))
}

// LoadUserConfig loads the user config, writing the defaults on first run.
func LoadUserConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, tserrors.Wrap(tserrors.ErrCodeConfig, err, "resolve config path")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := WriteFile(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	return LoadFromFile(path)
}

// LoadFromFile decodes path on top of the defaults and validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, tserrors.Wrap(tserrors.ErrCodeConfig, err, "read %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, tserrors.Wrap(tserrors.ErrCodeConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Header is written above generated config files.
const Header = `# tessera configuration
# Generated from the built in defaults. Remove a key to fall back to its default.

`

// WriteFile encodes cfg to path with the generated header.
func WriteFile(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return tserrors.Wrap(tserrors.ErrCodeConfig, err, "encode config")
	}
	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.Write(data)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return tserrors.Wrap(tserrors.ErrCodeConfig, err, "create config dir")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return tserrors.Wrap(tserrors.ErrCodeConfig, err, "write %s", path)
	}
	return nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs error
	field := func(ok bool, format string, args ...any) {
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf(format, args...))
		}
	}

	field(c.General.GapsIn >= 0, "general.gaps_in must be >= 0, got %g", c.General.GapsIn)
	field(c.General.GapsOut >= 0, "general.gaps_out must be >= 0, got %g", c.General.GapsOut)
	field(c.General.BorderSize >= 0, "general.border_size must be >= 0, got %g", c.General.BorderSize)
	field(oneOf(c.General.Layout, TiledLayouts), "general.layout %q is not one of %v", c.General.Layout, TiledLayouts)
	field(oneOf(c.General.FloatingLayout, FloatingLayouts), "general.floating_layout %q is not one of %v", c.General.FloatingLayout, FloatingLayouts)
	field(c.General.Snap.WindowGap >= 0 && c.General.Snap.MonitorGap >= 0, "general.snap gaps must be >= 0")

	field(c.Dwindle.ForceSplit >= 0 && c.Dwindle.ForceSplit <= 2, "dwindle.force_split must be 0, 1 or 2, got %d", c.Dwindle.ForceSplit)
	field(c.Dwindle.DefaultSplitRatio >= 0.1 && c.Dwindle.DefaultSplitRatio <= 1.9, "dwindle.default_split_ratio must be in [0.1, 1.9], got %g", c.Dwindle.DefaultSplitRatio)
	field(c.Dwindle.SplitWidthMultiplier > 0, "dwindle.split_width_multiplier must be > 0, got %g", c.Dwindle.SplitWidthMultiplier)

	field(oneOf(c.Scrolling.Direction, directions), "scrolling.direction %q is not one of %v", c.Scrolling.Direction, directions)
	field(c.Scrolling.ColumnWidth >= 0.05 && c.Scrolling.ColumnWidth <= 1, "scrolling.column_width must be in [0.05, 1], got %g", c.Scrolling.ColumnWidth)
	field(c.Scrolling.FocusFitMethod == "center" || c.Scrolling.FocusFitMethod == "fit", "scrolling.focus_fit_method must be center or fit, got %q", c.Scrolling.FocusFitMethod)
	field(c.Scrolling.FollowMinVisible >= 0 && c.Scrolling.FollowMinVisible <= 1, "scrolling.follow_min_visible must be in [0, 1], got %g", c.Scrolling.FollowMinVisible)
	for i, w := range c.Scrolling.ExplicitColumnWidths {
		field(w >= 0.05 && w <= 1, "scrolling.explicit_column_widths[%d] must be in [0.05, 1], got %g", i, w)
	}

	field(c.Floating.DefaultWidth > 0 && c.Floating.DefaultHeight > 0, "floating default size must be positive")
	field(c.Drag.Threshold >= 0, "drag.threshold must be >= 0, got %g", c.Drag.Threshold)
	field(c.Drag.ResizeCorner >= 0 && c.Drag.ResizeCorner <= 4, "drag.resize_corner must be in [0, 4], got %d", c.Drag.ResizeCorner)

	field(len(c.Monitors) > 0, "at least one [[monitor]] is required")
	for i, m := range c.Monitors {
		field(m.Width > 0 && m.Height > 0, "monitor[%d] %q must have a positive size", i, m.Name)
	}

	for i, r := range c.Workspaces {
		field(r.Workspace > 0, "workspace[%d].workspace must be > 0", i)
		field(r.Layout == "" || oneOf(r.Layout, TiledLayouts), "workspace[%d].layout %q is not one of %v", i, r.Layout, TiledLayouts)
		field(r.Direction == "" || oneOf(r.Direction, directions), "workspace[%d].direction %q is not one of %v", i, r.Direction, directions)
	}
	for i, r := range c.WindowRules {
		if _, err := regexp.Compile(r.Class); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("window_rule[%d].class: %w", i, err))
		}
		if _, err := regexp.Compile(r.Title); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("window_rule[%d].title: %w", i, err))
		}
	}

	field(c.Store.Driver == "memory" || c.Store.Driver == "sqlite", "store.driver must be memory or sqlite, got %q", c.Store.Driver)

	if errs != nil {
		return tserrors.Wrap(tserrors.ErrCodeConfig, errs, "invalid config")
	}
	return nil
}

// WorkspaceRuleFor returns the rule for workspace id, if any.
func (c *Config) WorkspaceRuleFor(id int) (WorkspaceRule, bool) {
	for _, r := range c.Workspaces {
		if r.Workspace == id {
			return r, true
		}
	}
	return WorkspaceRule{}, false
}

func oneOf(s string, set []string) bool {
	for _, v := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
