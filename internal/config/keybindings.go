package config

import (
	"fmt"
	"sort"
	"strings"
)

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// ActionDescriptions describes every preview action for help output
var ActionDescriptions = map[string]string{
	"open_window":       "Open a tiled window",
	"open_floating":     "Open a floating window",
	"close_window":      "Close focused window",
	"focus_next":        "Focus next window",
	"focus_prev":        "Focus previous window",
	"focus_left":        "Focus window to the left",
	"focus_right":       "Focus window to the right",
	"focus_up":          "Focus window above",
	"focus_down":        "Focus window below",
	"move_left":         "Move window left",
	"move_right":        "Move window right",
	"move_up":           "Move window up",
	"move_down":         "Move window down",
	"toggle_floating":   "Toggle floating",
	"toggle_fullscreen": "Toggle fullscreen",
	"toggle_pseudo":     "Toggle pseudotile",
	"cycle_layout":      "Cycle tiled layout",
	"togglesplit":       "Toggle split orientation (dwindle)",
	"swapsplit":         "Swap split children (dwindle)",
	"cycle_next":        "Next window (monocle)",
	"cycle_prev":        "Previous window (monocle)",
	"promote":           "Promote to own column (scrolling)",
	"workspace_next":    "Next workspace",
	"workspace_prev":    "Previous workspace",
	"move_to_next_ws":   "Move window to next workspace",
	"toggle_help":       "Toggle help",
	"quit":              "Quit",
}

func defaultPreviewKeys() map[string][]string {
	return map[string][]string{
		"open_window":       {"n"},
		"open_floating":     {"shift+n"},
		"close_window":      {"x"},
		"focus_next":        {"tab"},
		"focus_prev":        {"shift+tab"},
		"focus_left":        {"h"},
		"focus_right":       {"l"},
		"focus_up":          {"k"},
		"focus_down":        {"j"},
		"move_left":         {"shift+h"},
		"move_right":        {"shift+l"},
		"move_up":           {"shift+k"},
		"move_down":         {"shift+j"},
		"toggle_floating":   {"f"},
		"toggle_fullscreen": {"shift+f"},
		"toggle_pseudo":     {"p"},
		"cycle_layout":      {"space"},
		"togglesplit":       {"s"},
		"swapsplit":         {"shift+s"},
		"cycle_next":        {"]"},
		"cycle_prev":        {"["},
		"promote":           {"shift+p"},
		"workspace_next":    {"."},
		"workspace_prev":    {","},
		"move_to_next_ws":   {">"},
		"toggle_help":       {"?"},
		"quit":              {"q", "ctrl+c"},
	}
}

// KeyNormalizer canonicalises user supplied key strings
type KeyNormalizer struct {
	aliases map[string]string
}

// NewKeyNormalizer creates a normalizer with the common key aliases
func NewKeyNormalizer() *KeyNormalizer {
	return &KeyNormalizer{
		aliases: map[string]string{
			"return": "enter",
			"escape": "esc",
			"spc":    "space",
			"del":    "delete",
		},
	}
}

// NormalizeKey returns the lowercased key plus its alias, if one exists
func (n *KeyNormalizer) NormalizeKey(key string) []string {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return nil
	}
	out := []string{key}

	parts := strings.Split(key, "+")
	last := parts[len(parts)-1]
	if alias, ok := n.aliases[last]; ok {
		parts[len(parts)-1] = alias
		out = append(out, strings.Join(parts, "+"))
	}
	return out
}

// ValidateKey reports whether key is usable as a binding
func (n *KeyNormalizer) ValidateKey(key string) (bool, string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, "key cannot be empty"
	}
	for _, part := range strings.Split(key, "+") {
		if part == "" && key != "+" {
			return false, fmt.Sprintf("malformed key %q", key)
		}
	}
	return true, ""
}

// KeybindRegistry resolves keys to actions and back
type KeybindRegistry struct {
	actionToKeys map[string][]string
	keyToAction  map[string]string
	normalizer   *KeyNormalizer
}

// NewKeybindRegistry builds the lookup tables from cfg
func NewKeybindRegistry(cfg *Config) *KeybindRegistry {
	r := &KeybindRegistry{
		actionToKeys: make(map[string][]string),
		keyToAction:  make(map[string]string),
		normalizer:   NewKeyNormalizer(),
	}

	bindings := cfg.Keybindings.Preview
	if bindings == nil {
		bindings = defaultPreviewKeys()
	}
	for action, keys := range bindings {
		for _, key := range keys {
			if ok, _ := r.normalizer.ValidateKey(key); !ok {
				continue
			}
			r.actionToKeys[action] = append(r.actionToKeys[action], key)
			for _, k := range r.normalizer.NormalizeKey(key) {
				r.keyToAction[k] = action
			}
		}
	}
	return r
}

// GetKeys returns the keys bound to action
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.actionToKeys[action]
}

// GetAction returns the action bound to key, or ""
func (r *KeybindRegistry) GetAction(key string) string {
	for _, k := range r.normalizer.NormalizeKey(key) {
		if action, ok := r.keyToAction[k]; ok {
			return action
		}
	}
	return ""
}

// GetKeysForDisplay returns the keys for action joined for help output
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	keys := r.GetKeys(action)
	if len(keys) == 0 {
		return ""
	}
	display := make([]string, len(keys))
	for i, k := range keys {
		display[i] = formatKey(k)
	}
	return strings.Join(display, ", ")
}

// Actions returns every bound action, sorted
func (r *KeybindRegistry) Actions() []string {
	actions := make([]string, 0, len(r.actionToKeys))
	for a := range r.actionToKeys {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	return actions
}

func formatKey(key string) string {
	parts := strings.Split(key, "+")
	for i, p := range parts {
		if len(p) > 1 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "+")
}

// GetKeybindings returns the preview help sections generated from registry
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	sections := []KeybindingSection{
		{Title: "WINDOWS"},
		{Title: "LAYOUT"},
		{Title: "WORKSPACES"},
		{Title: ""},
	}
	groups := [][]string{
		{"open_window", "open_floating", "close_window", "focus_next", "focus_prev",
			"focus_left", "focus_right", "focus_up", "focus_down",
			"move_left", "move_right", "move_up", "move_down"},
		{"toggle_floating", "toggle_fullscreen", "toggle_pseudo", "cycle_layout",
			"togglesplit", "swapsplit", "cycle_next", "cycle_prev", "promote"},
		{"workspace_next", "workspace_prev", "move_to_next_ws"},
		{"toggle_help", "quit"},
	}

	for i, actions := range groups {
		for _, action := range actions {
			addBinding(&sections[i], registry, action, ActionDescriptions[action])
		}
	}

	// Drop empty sections
	out := sections[:0]
	for _, s := range sections {
		if len(s.Bindings) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// addBinding adds a keybinding to a section if the action has keys configured
func addBinding(section *KeybindingSection, registry *KeybindRegistry, action, description string) {
	keys := registry.GetKeysForDisplay(action)
	if keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{
			Key:         keys,
			Description: description,
		})
	}
}
