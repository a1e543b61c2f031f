package doctor

import (
	"context"
	"fmt"

	"github.com/hay-kot/basket/internal/core/catalog"
	"github.com/hay-kot/basket/internal/core/validate"
)

// CatalogCheck verifies that the product catalog can be read and that every
// product could be added to a cart.
type CatalogCheck struct {
	store catalog.Store
}

func NewCatalogCheck(store catalog.Store) *CatalogCheck {
	return &CatalogCheck{store: store}
}

func (c *CatalogCheck) Name() string {
	return "Catalog"
}

func (c *CatalogCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.store == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "catalog",
			Status: StatusWarn,
			Detail: "no catalog configured, items need an explicit price",
		})
		return result
	}

	products, err := c.store.List(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{Label: "catalog", Status: StatusFail, Detail: err.Error()})
		return result
	}

	if len(products) == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "catalog",
			Status: StatusWarn,
			Detail: "catalog is empty",
		})
		return result
	}

	seen := make(map[string]bool, len(products))
	bad := 0
	for _, p := range products {
		label := p.SKU
		if label == "" {
			label = "(empty sku)"
		}

		var problem string
		switch {
		case validate.SKU(p.SKU) != nil:
			problem = validate.SKU(p.SKU).Error()
		case seen[p.SKU]:
			problem = "duplicate sku"
		case validate.ProductName(p.Name) != nil:
			problem = validate.ProductName(p.Name).Error()
		case p.Price < 0:
			problem = fmt.Sprintf("negative price %s", p.Price)
		}
		seen[p.SKU] = true

		if problem != "" {
			bad++
			result.Items = append(result.Items, CheckItem{Label: label, Status: StatusFail, Detail: problem})
		}
	}

	if bad == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "catalog",
			Status: StatusPass,
			Detail: fmt.Sprintf("%d products", len(products)),
		})
	}

	return result
}
