package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/basket/internal/core/cart"
	"github.com/hay-kot/basket/internal/core/catalog"
	"github.com/hay-kot/basket/internal/core/validate"
	"github.com/hay-kot/basket/internal/printer"
)

// CatalogAddInput holds the raw flags of catalog add.
type CatalogAddInput struct {
	SKU   string
	Name  string
	Price string
}

// Product validates the input and converts it to a catalog.Product.
func (in CatalogAddInput) Product() (catalog.Product, error) {
	var errs criterio.FieldErrorsBuilder

	if err := validate.SKU(in.SKU); err != nil {
		errs = errs.Append("sku", err)
	}

	if err := validate.ProductName(in.Name); err != nil {
		errs = errs.Append("name", err)
	}

	price, err := cart.ParseMoney(in.Price)
	switch {
	case err != nil:
		errs = errs.Append("price", err)
	case price < 0:
		errs = errs.Append("price", fmt.Errorf("must not be negative"))
	}

	if err := errs.ToError(); err != nil {
		return catalog.Product{}, err
	}

	return catalog.Product{SKU: in.SKU, Name: in.Name, Price: price}, nil
}

type CatalogCmd struct {
	flags *Flags

	// ls flags
	match string

	// add flags
	input CatalogAddInput
}

// NewCatalogCmd creates a new catalog command
func NewCatalogCmd(flags *Flags) *CatalogCmd {
	return &CatalogCmd{flags: flags}
}

// Register adds the catalog command to the application
func (cmd *CatalogCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "catalog",
		Usage: "Manage the product catalog",
		Description: `The catalog supplies names and prices for items added by SKU alone.

Products are stored in catalog_file (default <data-dir>/catalog.json).`,
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List catalog products",
				UsageText: "basket catalog ls [--match glob]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "match",
						Aliases:     []string{"m"},
						Usage:       "only list SKUs matching a glob, e.g. 'fruit/*'",
						Destination: &cmd.match,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:      "add",
				Usage:     "Add or replace a catalog product",
				UsageText: "basket catalog add --sku <sku> --name <name> --price <price>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "sku",
						Usage:       "product SKU",
						Required:    true,
						Destination: &cmd.input.SKU,
					},
					&cli.StringFlag{
						Name:        "name",
						Usage:       "product name",
						Required:    true,
						Destination: &cmd.input.Name,
					},
					&cli.StringFlag{
						Name:        "price",
						Usage:       "unit price, e.g. 2.50",
						Required:    true,
						Destination: &cmd.input.Price,
					},
				},
				Action: cmd.runAdd,
			},
		},
	})

	return app
}

func (cmd *CatalogCmd) runList(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	products, err := cmd.flags.Service.SearchCatalog(ctx, cmd.match)
	if err != nil {
		return err
	}

	if len(products) == 0 {
		p.Infof("No products found")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SKU\tNAME\tPRICE")
	for _, prod := range products {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s%s\n", prod.SKU, prod.Name, cmd.flags.Config.Currency, prod.Price)
	}

	return w.Flush()
}

func (cmd *CatalogCmd) runAdd(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	prod, err := cmd.input.Product()
	if err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}

	if err := cmd.flags.Catalog.Save(ctx, prod); err != nil {
		return fmt.Errorf("save product: %w", err)
	}

	p.Successf("Saved %s (%s, %s%s)", prod.SKU, prod.Name, cmd.flags.Config.Currency, prod.Price)
	return nil
}
