package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/hay-kot/basket/internal/basket"
	"github.com/hay-kot/basket/internal/core/config"
	"github.com/hay-kot/basket/internal/printer"
	"github.com/hay-kot/basket/pkg/tmpl"
)

var (
	// ErrQuit is returned by Exec for quit and exit.
	ErrQuit = errors.New("quit")
	// ErrUnknownCommand is returned by Exec for names Known rejects.
	ErrUnknownCommand = errors.New("unknown command")
)

const fallbackPrompt = "basket> "

const helpText = `# basket

| Command | Description |
|---------|-------------|
| ` + "`add <sku> <qty> [price] [name...]`" + ` | Add an item. Price and name come from the catalog when omitted. |
| ` + "`remove <sku> [qty]`" + ` | Remove some or all units of an item. |
| ` + "`clear`" + ` | Empty the cart. |
| ` + "`undo [n]`" + ` / ` + "`redo [n]`" + ` | Step back or forward through history. |
| ` + "`reset-history`" + ` | Keep the cart, forget its history. |
| ` + "`begin`" + ` / ` + "`commit`" + ` / ` + "`rollback`" + ` | Group changes into a single undo step. |
| ` + "`ls`" + ` | Show the cart. |
| ` + "`total`" + ` | Show cart totals. |
| ` + "`history`" + ` | Show undo and redo entries. |
| ` + "`catalog [glob]`" + ` | List catalog products, optionally filtered by SKU. |
| ` + "`quit`" + ` | Leave the shell. |
`

// Shell executes shell commands against a basket.Service.
type Shell struct {
	svc    *basket.Service
	cfg    *config.Config
	out    io.Writer
	p      *printer.Printer
	log    zerolog.Logger
	styled bool
}

// New creates a Shell that writes command output to out. Output is plain
// text; Run enables styling for interactive sessions.
func New(svc *basket.Service, cfg *config.Config, out io.Writer, log zerolog.Logger) *Shell {
	return &Shell{
		svc: svc,
		cfg: cfg,
		out: out,
		p:   printer.NewPlain(out),
		log: log,
	}
}

// Run reads commands from in until EOF, quit, or context cancellation.
// Command errors are printed and do not stop the loop. When interactive is
// true a prompt is written before each line and output is styled.
func (s *Shell) Run(ctx context.Context, in io.Reader, interactive bool) error {
	if interactive {
		s.styled = true
		s.p = printer.New(s.out)
		s.p.Infof("type 'help' for commands")
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			_, _ = fmt.Fprint(s.out, s.Prompt())
		}

		if !scanner.Scan() {
			break
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		cmd, ok := Parse(scanner.Text())
		if !ok {
			continue
		}

		err := s.Exec(ctx, cmd)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			s.log.Debug().Err(err).Str("command", cmd.Name).Msg("command failed")
			s.p.Errorf("%v", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// Prompt renders the configured prompt template. A template error falls
// back to a fixed prompt.
func (s *Shell) Prompt() string {
	totals := s.svc.Totals()
	status := s.svc.Status()

	out, err := tmpl.Render(s.cfg.Prompt, config.PromptData{
		Items:    totals.Items,
		Lines:    totals.Lines,
		Total:    totals.Total.String(),
		Currency: s.cfg.Currency,
		Undo:     status.UndoDepth - 1,
		Redo:     status.RedoDepth,
		Batch:    status.BatchOpen,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("render prompt")
		return fallbackPrompt
	}
	return out
}

// Exec runs a single command.
func (s *Shell) Exec(ctx context.Context, cmd Command) error {
	switch cmd.Name {
	case "add":
		return s.add(ctx, cmd.Args)
	case "remove", "rm":
		return s.remove(ctx, cmd.Args)
	case "clear":
		if err := s.svc.Clear(ctx); err != nil {
			return err
		}
		s.p.Successf("cart cleared")
	case "undo":
		return s.step(cmd.Args, "undo", s.svc.Undo)
	case "redo":
		return s.step(cmd.Args, "redo", s.svc.Redo)
	case "reset-history":
		if err := s.svc.ResetHistory(); err != nil {
			return err
		}
		s.p.Successf("history reset")
	case "begin":
		if err := s.svc.Begin(); err != nil {
			return err
		}
		s.p.Infof("batch open; changes are saved as one step on commit")
	case "commit":
		if err := s.svc.Commit(); err != nil {
			return err
		}
		s.p.Successf("batch committed")
	case "rollback":
		if err := s.svc.Rollback(); err != nil {
			return err
		}
		s.p.Successf("batch rolled back")
	case "ls":
		return s.list()
	case "total":
		t := s.svc.Totals()
		s.p.Printf("%d line(s), %d item(s), total %s%s", t.Lines, t.Items, s.cfg.Currency, t.Total)
	case "history":
		return s.history()
	case "catalog":
		return s.catalog(ctx, cmd.Args)
	case "help":
		s.p.Printf("%s", s.renderHelp())
	case "quit", "exit":
		return ErrQuit
	default:
		return fmt.Errorf("%w %q; type 'help' for commands", ErrUnknownCommand, cmd.Name)
	}

	return nil
}

func (s *Shell) add(ctx context.Context, args []string) error {
	a, err := parseAdd(args)
	if err != nil {
		return err
	}

	err = s.svc.Add(ctx, basket.AddOptions{
		ID:       a.sku,
		Name:     a.name,
		Quantity: a.qty,
		Price:    a.price,
	})
	if err != nil {
		return err
	}

	s.p.Successf("added %d x %s", a.qty, a.sku)
	return nil
}

func (s *Shell) remove(ctx context.Context, args []string) error {
	sku, qty, err := parseRemove(args)
	if err != nil {
		return err
	}

	if err := s.svc.Remove(ctx, sku, qty); err != nil {
		return err
	}

	if qty == 0 {
		s.p.Successf("removed %s", sku)
	} else {
		s.p.Successf("removed %d x %s", qty, sku)
	}
	return nil
}

// step calls fn up to n times. Running out of history after at least one
// step is reported as a warning, not an error.
func (s *Shell) step(args []string, verb string, fn func() error) error {
	n, err := parseSteps(args)
	if err != nil {
		return err
	}

	for i := range n {
		if err := fn(); err != nil {
			if i == 0 {
				return err
			}
			s.p.Warnf("%s: only %d of %d step(s) available", verb, i, n)
			return nil
		}
	}

	s.p.Successf("%s x%d", verb, n)
	return nil
}

func (s *Shell) renderHelp() string {
	if !s.styled {
		return strings.TrimSpace(helpText)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("tokyo-night"),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return strings.TrimSpace(helpText)
	}

	rendered, err := renderer.Render(helpText)
	if err != nil {
		return strings.TrimSpace(helpText)
	}
	return strings.TrimRight(rendered, "\n")
}
