package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/hay-kot/basket/internal/basket"
	"github.com/hay-kot/basket/internal/core/cart"
	"github.com/hay-kot/basket/internal/core/validate"
	"github.com/hay-kot/basket/internal/styles"
)

// AddItemForm wraps a huh.Form for adding a line item.
type AddItemForm struct {
	form     *huh.Form
	sku      string
	quantity string
	price    string // optional; blank uses the catalog price
	name     string // optional; blank uses the catalog name
}

// NewAddItemForm creates a form with the quantity defaulted to 1.
func NewAddItemForm() *AddItemForm {
	f := &AddItemForm{quantity: "1"}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("SKU").
				Value(&f.sku).
				Validate(validate.SKU),
			huh.NewInput().
				Title("Quantity").
				Value(&f.quantity).
				Validate(validateQuantity),
			huh.NewInput().
				Title("Unit price").
				Placeholder("from catalog").
				Value(&f.price).
				Validate(validatePrice),
			huh.NewInput().
				Title("Name").
				Placeholder("from catalog").
				Value(&f.name),
		),
	).WithTheme(styles.FormTheme())

	return f
}

// Form returns the underlying huh.Form for tea.Model integration.
func (f *AddItemForm) Form() *huh.Form {
	return f.form
}

// Result converts the entered values into service options.
func (f *AddItemForm) Result() (basket.AddOptions, error) {
	qty, err := parseQuantity(f.quantity)
	if err != nil {
		return basket.AddOptions{}, err
	}

	opts := basket.AddOptions{
		ID:       strings.TrimSpace(f.sku),
		Name:     strings.TrimSpace(f.name),
		Quantity: qty,
	}

	if strings.TrimSpace(f.price) != "" {
		price, err := cart.ParseMoney(f.price)
		if err != nil {
			return basket.AddOptions{}, err
		}
		opts.Price = &price
	}

	return opts, nil
}

// View renders the form.
func (f *AddItemForm) View() string {
	return f.form.View()
}

func parseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("quantity must be a number")
	}
	if err := validate.Quantity(n); err != nil {
		return 0, err
	}
	return n, nil
}

func validateQuantity(s string) error {
	_, err := parseQuantity(s)
	return err
}

func validatePrice(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	price, err := cart.ParseMoney(s)
	if err != nil {
		return err
	}
	if price < 0 {
		return errors.New("price must not be negative")
	}
	return nil
}
