// Package repl implements the line-oriented basket shell used both
// interactively and for scripted runs.
package repl

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/hay-kot/basket/internal/core/cart"
	"github.com/hay-kot/basket/internal/core/validate"
)

// Command is one parsed shell line.
type Command struct {
	Name string
	Args []string
}

// String returns the command as it would be typed.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// commands lists every name the shell accepts.
var commands = []string{
	"add", "remove", "rm", "clear",
	"undo", "redo", "reset-history",
	"begin", "commit", "rollback",
	"ls", "total", "history", "catalog",
	"help", "quit", "exit",
}

// Known reports whether name is a shell command.
func Known(name string) bool {
	return slices.Contains(commands, strings.ToLower(name))
}

// Parse splits a line into a command. Blank lines and lines starting with
// '#' report ok=false.
func Parse(line string) (cmd Command, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Command{}, false
	}

	fields := strings.Fields(line)
	return Command{
		Name: strings.ToLower(fields[0]),
		Args: fields[1:],
	}, true
}

// addArgs holds the parsed form of "add <sku> <qty> [price] [name...]".
type addArgs struct {
	sku   string
	qty   int
	price *cart.Money
	name  string
}

func parseAdd(args []string) (addArgs, error) {
	if len(args) < 2 {
		return addArgs{}, fmt.Errorf("usage: add <sku> <qty> [price] [name...]")
	}

	if err := validate.SKU(args[0]); err != nil {
		return addArgs{}, err
	}

	qty, err := parseQuantity(args[1])
	if err != nil {
		return addArgs{}, err
	}

	out := addArgs{sku: args[0], qty: qty}

	if len(args) > 2 {
		price, err := cart.ParseMoney(args[2])
		if err != nil {
			return addArgs{}, err
		}
		out.price = &price
	}

	if len(args) > 3 {
		out.name = strings.Join(args[3:], " ")
	}

	return out, nil
}

// parseRemove parses "remove <sku> [qty]". A missing quantity removes the
// whole line.
func parseRemove(args []string) (sku string, qty int, err error) {
	if len(args) < 1 || len(args) > 2 {
		return "", 0, fmt.Errorf("usage: remove <sku> [qty]")
	}

	if len(args) == 2 {
		qty, err = parseQuantity(args[1])
		if err != nil {
			return "", 0, err
		}
	}

	return args[0], qty, nil
}

// parseSteps parses the optional step count of undo and redo.
func parseSteps(args []string) (int, error) {
	switch len(args) {
	case 0:
		return 1, nil
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return 0, fmt.Errorf("steps must be a positive number, got %q", args[0])
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected at most one argument")
	}
}

func parseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	if err := validate.Quantity(n); err != nil {
		return 0, err
	}
	return n, nil
}
