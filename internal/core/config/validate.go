package config

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/basket/pkg/tmpl"
)

// maxSaneCapacity is the capacity above which a warning is reported. Every
// snapshot is a full copy of the cart.
const maxSaneCapacity = 10_000

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is valid. The returned error is a
// criterio.FieldErrors when any field is invalid.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.History.Capacity < 1 {
		errs = errs.Append("history.capacity", fmt.Errorf("must be at least 1, got %d", c.History.Capacity))
	}

	if c.Currency == "" {
		errs = errs.Append("currency", fmt.Errorf("cannot be empty"))
	}

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("cannot be empty"))
	}

	if _, err := tmpl.Render(c.Prompt, PromptData{}); err != nil {
		errs = errs.Append("prompt", fmt.Errorf("template error: %w", err))
	}

	for _, key := range slices.Sorted(maps.Keys(c.Keybindings)) {
		kb := c.Keybindings[key]
		field := fmt.Sprintf("keybindings[%q]", key)

		if len([]rune(key)) != 1 && !isNamedKey(key) {
			errs = errs.Append(field, fmt.Errorf("key must be a single character or a named key"))
			continue
		}
		if kb.Action == "" {
			errs = errs.Append(field, fmt.Errorf("action is required"))
			continue
		}
		if !isValidAction(kb.Action) {
			errs = errs.Append(field, fmt.Errorf("invalid action %q", kb.Action))
		}
	}

	return errs.ToError()
}

// ValidateDeep performs Validate plus checks against the file system.
func (c *Config) ValidateDeep(configPath string) error {
	var errs criterio.FieldErrorsBuilder

	if err := c.Validate(); err != nil {
		return err
	}

	if configPath != "" {
		if info, err := os.Stat(configPath); err == nil && info.IsDir() {
			errs = errs.Append("config", fmt.Errorf("%s is a directory, not a file", configPath))
		}
	}

	if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
		errs = errs.Append("data_dir", fmt.Errorf("%s exists but is not a directory", c.DataDir))
	}

	if c.CatalogFile != "" {
		if info, err := os.Stat(c.CatalogFile); err == nil && info.IsDir() {
			errs = errs.Append("catalog_file", fmt.Errorf("%s is a directory, not a file", c.CatalogFile))
		}
	}

	return errs.ToError()
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.History.Capacity > maxSaneCapacity {
		warnings = append(warnings, ValidationWarning{
			Category: "History",
			Item:     "history.capacity",
			Message:  fmt.Sprintf("capacity %d keeps a full cart copy per entry; memory grows with every save", c.History.Capacity),
		})
	}

	if c.History.Capacity == 1 {
		warnings = append(warnings, ValidationWarning{
			Category: "History",
			Item:     "history.capacity",
			Message:  "capacity 1 only holds the baseline; undo is never available",
		})
	}

	if c.CatalogFile != "" {
		if _, err := os.Stat(c.CatalogFile); os.IsNotExist(err) {
			warnings = append(warnings, ValidationWarning{
				Category: "Catalog",
				Item:     "catalog_file",
				Message:  fmt.Sprintf("%s does not exist; add requires a price and name for every item", c.CatalogFile),
			})
		}
	}

	return warnings
}

// isNamedKey reports whether key is a multi-character key name understood by
// the TUI.
func isNamedKey(key string) bool {
	switch key {
	case "enter", "backspace", "delete", "tab", "esc", "ctrl+z", "ctrl+y", "ctrl+r", "ctrl+l":
		return true
	default:
		return false
	}
}
