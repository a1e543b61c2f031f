package commands

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/basket/internal/repl"
)

type ShellCmd struct {
	flags *Flags
}

// NewShellCmd creates a new shell command
func NewShellCmd(flags *Flags) *ShellCmd {
	return &ShellCmd{flags: flags}
}

// Register adds the shell command to the application
func (cmd *ShellCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "shell",
		Usage:     "Edit a cart from an interactive prompt",
		UsageText: "basket shell",
		Description: `Starts a line-oriented shell over a fresh cart.

Every change is saved to the undo history. Use 'undo' and 'redo' to move
through it, and 'begin'/'commit' to group several changes into one step.
Type 'help' at the prompt for the full command list.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *ShellCmd) run(ctx context.Context, c *cli.Command) error {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	sh := repl.New(
		cmd.flags.Service,
		cmd.flags.Config,
		c.Root().Writer,
		log.With().Str("component", "shell").Logger(),
	)

	return sh.Run(ctx, os.Stdin, interactive)
}
