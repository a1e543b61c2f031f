package repl

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/hay-kot/basket/internal/basket"
	"github.com/hay-kot/basket/internal/core/cart"
	"github.com/hay-kot/basket/internal/printer"
)

func (s *Shell) list() error {
	items := s.svc.Items()
	if len(items) == 0 {
		s.p.Infof("cart is empty")
		return nil
	}
	return WriteCart(s.out, items, s.svc.Totals(), s.cfg.Currency)
}

func (s *Shell) history() error {
	undo, redo := s.svc.History()
	status := s.svc.Status()

	if err := WriteHistory(s.out, s.p, undo, redo, s.cfg.Currency); err != nil {
		return err
	}

	if status.Evicted > 0 {
		s.p.Infof("%d older snapshot(s) dropped at capacity %d", status.Evicted, status.Capacity)
	}
	return nil
}

func (s *Shell) catalog(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: catalog [glob]")
	}

	var pattern string
	if len(args) == 1 {
		pattern = args[0]
	}

	products, err := s.svc.SearchCatalog(ctx, pattern)
	if err != nil {
		return err
	}

	if len(products) == 0 {
		s.p.Infof("no products found")
		return nil
	}

	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SKU\tNAME\tPRICE")
	for _, p := range products {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s%s\n", p.SKU, p.Name, s.cfg.Currency, p.Price)
	}
	return w.Flush()
}

// WriteCart writes items as an aligned table followed by a totals line.
func WriteCart(out io.Writer, items []cart.LineItem, totals basket.Totals, currency string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	_, _ = fmt.Fprintln(w, "SKU\tNAME\tQTY\tPRICE\tAMOUNT\t")

	for _, li := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s%s\t%s%s\t\n",
			li.ID,
			li.Name,
			li.Quantity,
			currency, li.UnitPrice,
			currency, li.ExtendedPrice(),
		)
	}

	_, _ = fmt.Fprintf(w, "TOTAL\t\t%d\t\t%s%s\t\n", totals.Items, currency, totals.Total)
	return w.Flush()
}

// WriteHistory writes the undo stack oldest first, marking the current
// entry, followed by the redo stack with the next redo first. Read top to
// bottom, rows are in the order the states were reached.
func WriteHistory(out io.Writer, p *printer.Printer, undo, redo []basket.HistoryEntry, currency string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, " \tSTACK\tID\tLINES\tITEMS\tTOTAL\tTIME")

	for _, e := range undo {
		_, _ = fmt.Fprintf(w, "%s\tundo\t%s\t%d\t%d\t%s%s\t%s\n",
			p.Current(e.Current),
			e.ID,
			e.Lines,
			e.Items,
			currency, e.Total,
			e.CreatedAt.Format("15:04:05"),
		)
	}

	for _, e := range redo {
		_, _ = fmt.Fprintf(w, "%s\tredo\t%s\t%d\t%d\t%s%s\t%s\n",
			p.Current(false),
			e.ID,
			e.Lines,
			e.Items,
			currency, e.Total,
			e.CreatedAt.Format("15:04:05"),
		)
	}

	return w.Flush()
}
