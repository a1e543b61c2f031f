package tui

import (
	"maps"
	"slices"

	"github.com/charmbracelet/bubbles/key"

	"github.com/hay-kot/basket/internal/core/config"
)

// ActionType identifies the kind of action a keybinding triggers.
type ActionType int

const (
	ActionTypeNone ActionType = iota
	ActionTypeIncrement
	ActionTypeDecrement
	ActionTypeDelete
	ActionTypeAdd
	ActionTypeClear
	ActionTypeUndo
	ActionTypeRedo
	ActionTypeResetHistory
	ActionTypeQuit
)

var actionTypes = map[string]ActionType{
	config.ActionIncrement:    ActionTypeIncrement,
	config.ActionDecrement:    ActionTypeDecrement,
	config.ActionDelete:       ActionTypeDelete,
	config.ActionAdd:          ActionTypeAdd,
	config.ActionClear:        ActionTypeClear,
	config.ActionUndo:         ActionTypeUndo,
	config.ActionRedo:         ActionTypeRedo,
	config.ActionResetHistory: ActionTypeResetHistory,
	config.ActionQuit:         ActionTypeQuit,
}

// NeedsSelection reports whether the action applies to the selected line.
func (t ActionType) NeedsSelection() bool {
	switch t {
	case ActionTypeIncrement, ActionTypeDecrement, ActionTypeDelete:
		return true
	default:
		return false
	}
}

// Action represents a resolved keybinding.
type Action struct {
	Type    ActionType
	Key     string
	Help    string
	Confirm string
}

// NeedsConfirm reports whether the user must confirm before the action runs.
func (a Action) NeedsConfirm() bool {
	return a.Confirm != ""
}

// KeybindingHandler resolves keybindings to actions.
type KeybindingHandler struct {
	keybindings map[string]config.Keybinding
}

// NewKeybindingHandler creates a new handler with the given config.
func NewKeybindingHandler(keybindings map[string]config.Keybinding) *KeybindingHandler {
	return &KeybindingHandler{keybindings: keybindings}
}

// Resolve attempts to resolve a key press to an action.
func (h *KeybindingHandler) Resolve(key string) (Action, bool) {
	kb, exists := h.keybindings[key]
	if !exists {
		return Action{}, false
	}

	typ, ok := actionTypes[kb.Action]
	if !ok {
		return Action{}, false
	}

	return Action{Type: typ, Key: key, Help: helpFor(kb), Confirm: kb.Confirm}, true
}

// KeyBindings returns key.Binding objects for integration with bubbles help system.
func (h *KeybindingHandler) KeyBindings() []key.Binding {
	keys := slices.Sorted(maps.Keys(h.keybindings))
	bindings := make([]key.Binding, 0, len(keys))

	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, helpFor(h.keybindings[k])),
		))
	}

	return bindings
}

func helpFor(kb config.Keybinding) string {
	if kb.Help != "" {
		return kb.Help
	}
	return kb.Action
}
