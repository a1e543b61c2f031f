package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/hay-kot/basket/internal/basket"
	"github.com/hay-kot/basket/internal/core/cart"
	"github.com/hay-kot/basket/internal/core/config"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	stateAdding
	stateConfirming
)

// Key constants for event handling.
const (
	keyCtrlC = "ctrl+c"
	keyEsc   = "esc"
	keyEnter = "enter"
)

// chromeHeight is the number of rows used by everything except the table.
const chromeHeight = 8

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	ctx     context.Context
	cfg     *config.Config
	service *basket.Service
	handler *KeybindingHandler

	table table.Model
	help  help.Model
	items []cart.LineItem

	width  int
	height int

	state    UIState
	addForm  *AddItemForm
	modal    Modal
	pending  Action
	message  string
	err      error
	quitting bool
}

// New creates a TUI model over the given service.
func New(ctx context.Context, service *basket.Service, cfg *config.Config) Model {
	km := table.DefaultKeyMap()
	// u and d are cart actions by default; keep half-page scrolling on ctrl.
	km.HalfPageUp = key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "½ page up"))
	km.HalfPageDown = key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "½ page down"))

	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithKeyMap(km),
		table.WithStyles(tableStyles()),
	)

	m := Model{
		ctx:     ctx,
		cfg:     cfg,
		service: service,
		handler: NewKeybindingHandler(cfg.Keybindings),
		table:   t,
		help:    help.New(),
	}
	m.refresh()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetColumns(columns(msg.Width))
		m.table.SetHeight(max(msg.Height-chromeHeight, 3))
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateAdding:
			return m.handleAddFormKey(msg)
		case stateConfirming:
			return m.handleConfirmKey(msg)
		}
		return m.handleKey(msg)
	}

	if m.state == stateAdding {
		return m.updateAddForm(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if keyStr == keyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	action, ok := m.handler.Resolve(keyStr)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	if action.NeedsConfirm() {
		m.pending = action
		m.modal = NewModal("Confirm", action.Confirm)
		m.state = stateConfirming
		return m, nil
	}

	return m.apply(action)
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case "left", "right", "h", "l", "tab":
		m.modal.ToggleSelection()
		return m, nil
	case "y":
		m.state = stateNormal
		return m.apply(m.pending)
	case "n", keyEsc:
		m.state = stateNormal
		return m, nil
	case keyEnter:
		m.state = stateNormal
		if m.modal.ConfirmSelected() {
			return m.apply(m.pending)
		}
		return m, nil
	}

	return m, nil
}

// apply runs a resolved action against the service.
func (m Model) apply(action Action) (tea.Model, tea.Cmd) {
	m.err = nil
	m.message = ""

	var selected cart.LineItem
	if action.Type.NeedsSelection() {
		item, ok := m.selected()
		if !ok {
			m.err = errors.New("no item selected")
			return m, nil
		}
		selected = item
	}

	var err error
	switch action.Type {
	case ActionTypeIncrement:
		err = m.service.Add(m.ctx, basket.AddOptions{ID: selected.ID, Quantity: 1})
		m.message = fmt.Sprintf("%s x%d", selected.ID, selected.Quantity+1)
	case ActionTypeDecrement:
		err = m.service.Remove(m.ctx, selected.ID, 1)
		if selected.Quantity > 1 {
			m.message = fmt.Sprintf("%s x%d", selected.ID, selected.Quantity-1)
		} else {
			m.message = "removed " + selected.ID
		}
	case ActionTypeDelete:
		err = m.service.Remove(m.ctx, selected.ID, 0)
		m.message = "removed " + selected.ID
	case ActionTypeAdd:
		m.addForm = NewAddItemForm()
		m.state = stateAdding
		return m, m.addForm.Form().Init()
	case ActionTypeClear:
		err = m.service.Clear(m.ctx)
		m.message = "cart cleared"
	case ActionTypeUndo:
		err = m.service.Undo()
		m.message = "undone"
	case ActionTypeRedo:
		err = m.service.Redo()
		m.message = "redone"
	case ActionTypeResetHistory:
		err = m.service.ResetHistory()
		m.message = "history reset"
	case ActionTypeQuit:
		m.quitting = true
		return m, tea.Quit
	}

	if err != nil {
		m.message = ""
		m.err = err
	}

	m.refresh()
	return m, nil
}

func (m Model) handleAddFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case keyEsc:
		m.state = stateNormal
		m.addForm = nil
		return m, nil
	}

	return m.updateAddForm(msg)
}

// updateAddForm routes any message to the form and handles state changes.
func (m Model) updateAddForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.addForm.Form().Update(msg)
	f, ok := form.(*huh.Form)
	if !ok {
		return m, cmd
	}
	m.addForm.form = f

	switch f.State {
	case huh.StateCompleted:
		return m.submitAddForm()
	case huh.StateAborted:
		m.state = stateNormal
		m.addForm = nil
		return m, nil
	}

	return m, cmd
}

func (m Model) submitAddForm() (tea.Model, tea.Cmd) {
	form := m.addForm
	m.state = stateNormal
	m.addForm = nil
	m.err = nil
	m.message = ""

	opts, err := form.Result()
	if err == nil {
		err = m.service.Add(m.ctx, opts)
	}

	if err != nil {
		m.err = err
		return m, nil
	}

	m.message = fmt.Sprintf("added %d x %s", opts.Quantity, opts.ID)
	m.refresh()
	m.selectID(opts.ID)
	return m, nil
}

// refresh reloads the items from the service into the table.
func (m *Model) refresh() {
	m.items = m.service.Items()

	rows := make([]table.Row, len(m.items))
	for i, li := range m.items {
		rows[i] = table.Row{
			li.ID,
			li.Name,
			fmt.Sprintf("%d", li.Quantity),
			m.cfg.Currency + li.UnitPrice.String(),
			m.cfg.Currency + li.ExtendedPrice().String(),
		}
	}
	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m Model) selected() (cart.LineItem, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.items) {
		return cart.LineItem{}, false
	}
	return m.items[c], true
}

func (m *Model) selectID(id string) {
	for i, li := range m.items {
		if li.ID == id {
			m.table.SetCursor(i)
			return
		}
	}
}

// columns sizes the table to the terminal width.
func columns(width int) []table.Column {
	const (
		skuWidth    = 14
		qtyWidth    = 5
		moneyWidth  = 11
		cellPadding = 10
	)

	nameWidth := max(width-skuWidth-qtyWidth-2*moneyWidth-cellPadding, 10)

	return []table.Column{
		{Title: "SKU", Width: skuWidth},
		{Title: "Name", Width: nameWidth},
		{Title: "Qty", Width: qtyWidth},
		{Title: "Price", Width: moneyWidth},
		{Title: "Amount", Width: moneyWidth},
	}
}
