// Package config handles configuration loading and validation for basket.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Built-in action names for TUI keybindings.
const (
	ActionIncrement    = "increment"
	ActionDecrement    = "decrement"
	ActionDelete       = "delete"
	ActionAdd          = "add"
	ActionClear        = "clear"
	ActionUndo         = "undo"
	ActionRedo         = "redo"
	ActionResetHistory = "reset-history"
	ActionQuit         = "quit"
)

// DefaultPrompt is the shell prompt template used when none is configured.
const DefaultPrompt = `basket ({{ plural .Items "item" }}, {{ .Currency }}{{ .Total }})> `

// defaultKeybindings provides built-in keybindings that users can override.
var defaultKeybindings = map[string]Keybinding{
	"+": {Action: ActionIncrement, Help: "add one"},
	"-": {Action: ActionDecrement, Help: "remove one"},
	"d": {Action: ActionDelete, Help: "delete"},
	"a": {Action: ActionAdd, Help: "add item"},
	"c": {Action: ActionClear, Help: "clear cart", Confirm: "Remove every item from the cart?"},
	"u": {Action: ActionUndo, Help: "undo"},
	"r": {Action: ActionRedo, Help: "redo"},
	"H": {Action: ActionResetHistory, Help: "reset history", Confirm: "Drop all undo and redo history?"},
	"q": {Action: ActionQuit, Help: "quit"},
}

// Config holds the application configuration.
type Config struct {
	History     HistoryConfig         `yaml:"history"`
	Currency    string                `yaml:"currency"`
	Prompt      string                `yaml:"prompt"`
	CatalogFile string                `yaml:"catalog_file"`
	Keybindings map[string]Keybinding `yaml:"keybindings"`
	DataDir     string                `yaml:"-"` // set by caller, not from config file
}

// HistoryConfig holds undo/redo settings.
type HistoryConfig struct {
	// Capacity is the maximum number of snapshots kept on the undo stack,
	// the baseline included.
	Capacity int `yaml:"capacity"`
}

// Keybinding maps a TUI key to a built-in action.
type Keybinding struct {
	Action  string `yaml:"action"`
	Help    string `yaml:"help"`
	Confirm string `yaml:"confirm"` // confirmation prompt (empty = no confirm)
}

// PromptData defines available fields for the shell prompt template.
type PromptData struct {
	Items    int    // sum of quantities
	Lines    int    // distinct line items
	Total    string // formatted total without currency
	Currency string
	Undo     int // undo steps available
	Redo     int // redo steps available
	Batch    bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		History: HistoryConfig{
			Capacity: 50,
		},
		Currency:    "$",
		Prompt:      DefaultPrompt,
		Keybindings: map[string]Keybinding{},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Merge user keybindings into defaults (user config overrides defaults)
	cfg.Keybindings = mergeKeybindings(defaultKeybindings, cfg.Keybindings)

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.History.Capacity == 0 {
		c.History.Capacity = defaults.History.Capacity
	}
	if c.Prompt == "" {
		c.Prompt = defaults.Prompt
	}
	if c.CatalogFile == "" && c.DataDir != "" {
		c.CatalogFile = filepath.Join(c.DataDir, "catalog.json")
	}
}

// mergeKeybindings merges user keybindings into defaults.
// User keybindings override defaults for the same key.
func mergeKeybindings(defaults, user map[string]Keybinding) map[string]Keybinding {
	result := make(map[string]Keybinding, len(defaults)+len(user))

	for k, v := range defaults {
		result[k] = v
	}

	for k, v := range user {
		result[k] = v
	}

	return result
}

// LogsDir returns the path where per-run logs are written.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// DefaultKeybindings returns a copy of the built-in keybindings.
func DefaultKeybindings() map[string]Keybinding {
	return mergeKeybindings(defaultKeybindings, nil)
}

func isValidAction(action string) bool {
	switch action {
	case ActionIncrement, ActionDecrement, ActionDelete, ActionAdd, ActionClear,
		ActionUndo, ActionRedo, ActionResetHistory, ActionQuit:
		return true
	default:
		return false
	}
}
