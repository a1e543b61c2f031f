package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/basket/internal/basket"
	"github.com/hay-kot/basket/internal/core/cart"
	"github.com/hay-kot/basket/internal/printer"
	"github.com/hay-kot/basket/internal/repl"
	"github.com/hay-kot/basket/pkg/randid"
)

const (
	// StatusOK indicates the line ran successfully.
	StatusOK = "ok"
	// StatusFailed indicates the line returned an error.
	StatusFailed = "failed"
	// StatusSkipped indicates the line was not run because the script stopped
	// early.
	StatusSkipped = "skipped"
)

// ScriptLine is one command of a script with its 1-based source line.
type ScriptLine struct {
	Number  int
	Command repl.Command
}

// Script is the parsed input of basket run.
type Script struct {
	Lines []ScriptLine
}

// ParseScript reads shell lines from r, skipping blanks and comments.
func ParseScript(r io.Reader) (Script, error) {
	var script Script

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		cmd, ok := repl.Parse(scanner.Text())
		if !ok {
			continue
		}
		script.Lines = append(script.Lines, ScriptLine{Number: n, Command: cmd})
	}

	if err := scanner.Err(); err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	return script, nil
}

// Validate checks every line names a known command.
func (s Script) Validate() error {
	if len(s.Lines) == 0 {
		return criterio.NewFieldErrors("script", fmt.Errorf("no commands found"))
	}

	var errs criterio.FieldErrorsBuilder
	for _, line := range s.Lines {
		if !repl.Known(line.Command.Name) {
			errs = errs.Append(fmt.Sprintf("line %d", line.Number), fmt.Errorf("unknown command %q", line.Command.Name))
		}
	}

	return errs.ToError()
}

// RunResult is the outcome of one script line.
type RunResult struct {
	Line    int    `json:"line"`
	Command string `json:"command"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// RunOutput is the JSON output schema.
type RunOutput struct {
	RunID   string          `json:"run_id"`
	LogFile string          `json:"log_file"`
	Results []RunResult     `json:"results"`
	Items   []cart.LineItem `json:"items"`
	Totals  basket.Totals   `json:"totals"`
	History basket.Status   `json:"history"`
}

// RunErrorOutput is the JSON output for fatal errors.
type RunErrorOutput struct {
	Error string `json:"error"`
}

type RunCmd struct {
	flags  *Flags
	file   string
	strict bool
	format string
}

func NewRunCmd(flags *Flags) *RunCmd {
	return &RunCmd{flags: flags}
}

func (cmd *RunCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "run",
		Usage: "Run shell commands from a script",
		UsageText: `basket run [options]

Read from stdin:
  printf 'add apple 2 0.50\nundo\nls\n' | basket run

Read from file:
  basket run -f cart.basket`,
		Description: `Runs shell commands non-interactively against a fresh cart.

Each line is one shell command; blank lines and lines starting with '#' are
ignored. Every command is checked before anything runs. A failing line is
recorded and the script continues unless --strict is set, in which case the
remaining lines are skipped.

Each run writes a JSON log to <data-dir>/logs/<run-id>.log.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to script file (reads from stdin if not provided)",
				Destination: &cmd.file,
			},
			&cli.BoolFlag{
				Name:        "strict",
				Usage:       "stop at the first failing line",
				Destination: &cmd.strict,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RunCmd) run(ctx context.Context, c *cli.Command) error {
	runID := randid.Prefixed("run", 6)
	out := c.Root().Writer

	logger, logFile, err := cmd.setupLogger(runID)
	if err != nil {
		return cmd.fail(out, fmt.Errorf("setup logger: %w", err))
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close log file: %v\n", err)
		}
	}()

	logger.Info().Str("run_id", runID).Msg("starting script")

	script, err := cmd.readInput()
	if err != nil {
		logger.Error().Err(err).Msg("failed to read input")
		return cmd.fail(out, fmt.Errorf("read input: %w", err))
	}

	if err := script.Validate(); err != nil {
		logger.Error().Err(err).Msg("script validation failed")
		return cmd.fail(out, fmt.Errorf("invalid script: %w", err))
	}

	svc := cmd.flags.Service

	shellOut := out
	if cmd.format == "json" {
		shellOut = io.Discard
	}
	sh := repl.New(svc, cmd.flags.Config, shellOut, logger.With().Str("component", "shell").Logger())

	results := execute(ctx, sh, script, cmd.strict, logger)

	logger.Info().
		Int("total", len(results)).
		Int("ok", countByStatus(results, StatusOK)).
		Int("failed", countByStatus(results, StatusFailed)).
		Int("skipped", countByStatus(results, StatusSkipped)).
		Msg("script complete")

	output := RunOutput{
		RunID:   runID,
		LogFile: logFile.Name(),
		Results: results,
		Items:   svc.Items(),
		Totals:  svc.Totals(),
		History: svc.Status(),
	}

	if cmd.format == "json" {
		if err := cmd.writeJSON(out, output); err != nil {
			return err
		}
	} else {
		if err := cmd.writeText(ctx, out, output); err != nil {
			return err
		}
	}

	if cmd.strict && countByStatus(results, StatusFailed) > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// execute runs each script line in order. A quit command or, in strict
// mode, a failure marks the remaining lines as skipped.
func execute(ctx context.Context, sh *repl.Shell, script Script, strict bool, logger zerolog.Logger) []RunResult {
	results := make([]RunResult, 0, len(script.Lines))
	stopped := false

	for _, line := range script.Lines {
		result := RunResult{Line: line.Number, Command: line.Command.String()}

		if stopped || ctx.Err() != nil {
			result.Status = StatusSkipped
			results = append(results, result)
			continue
		}

		err := sh.Exec(ctx, line.Command)
		switch {
		case errors.Is(err, repl.ErrQuit):
			result.Status = StatusOK
			stopped = true
		case err != nil:
			result.Status = StatusFailed
			result.Error = err.Error()
			logger.Error().Int("line", line.Number).Str("command", result.Command).Err(err).Msg("line failed")
			stopped = strict
		default:
			result.Status = StatusOK
			logger.Info().Int("line", line.Number).Str("command", result.Command).Msg("line ok")
		}

		results = append(results, result)
	}

	return results
}

func (cmd *RunCmd) setupLogger(runID string) (zerolog.Logger, *os.File, error) {
	logsDir := cmd.flags.Config.LogsDir()
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("create logs dir: %w", err)
	}

	logPath := filepath.Join(logsDir, runID+".log")
	file, err := os.Create(logPath)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("create log file: %w", err)
	}

	logger := zerolog.New(file).With().Timestamp().Logger()
	return logger, file, nil
}

func (cmd *RunCmd) readInput() (Script, error) {
	var reader io.Reader

	if cmd.file != "" {
		f, err := os.Open(cmd.file)
		if err != nil {
			return Script{}, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	} else {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return Script{}, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe a script")
		}
		reader = os.Stdin
	}

	return ParseScript(reader)
}

func (cmd *RunCmd) writeText(ctx context.Context, out io.Writer, output RunOutput) error {
	p := printer.Ctx(ctx)

	_, _ = fmt.Fprintln(out)
	if len(output.Items) == 0 {
		p.Infof("cart is empty")
	} else if err := repl.WriteCart(out, output.Items, output.Totals, cmd.flags.Config.Currency); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out)
	writeResults(p, output.Results)

	p.Infof("run %s: %d ok, %d failed, %d skipped (log: %s)",
		output.RunID,
		countByStatus(output.Results, StatusOK),
		countByStatus(output.Results, StatusFailed),
		countByStatus(output.Results, StatusSkipped),
		output.LogFile,
	)
	return nil
}

// writeResults prints one status row per script line.
func writeResults(p *printer.Printer, results []RunResult) {
	for _, r := range results {
		var status string
		switch r.Status {
		case StatusOK:
			status = p.StatusOK()
		case StatusFailed:
			status = p.StatusFailed(r.Error)
		default:
			status = p.StatusSkipped(r.Status)
		}
		p.Printf("  line %d: %s  %s", r.Line, r.Command, status)
	}
}

func (cmd *RunCmd) writeJSON(out io.Writer, output RunOutput) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to write JSON output: %v\n", err)
		fmt.Fprintf(os.Stderr, "run_id: %s\n", output.RunID)
		fmt.Fprintf(os.Stderr, "log_file: %s\n", output.LogFile)
		return err
	}
	return nil
}

// fail reports a fatal error. In JSON mode the error is also written as a
// JSON document so callers always receive parseable output.
func (cmd *RunCmd) fail(out io.Writer, err error) error {
	if cmd.format != "json" {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(RunErrorOutput{Error: err.Error()}); encErr != nil {
		fmt.Fprintf(os.Stderr, "error: %s (failed to write JSON: %v)\n", err, encErr)
	}
	return err
}

func countByStatus(results []RunResult, status string) int {
	count := 0
	for _, r := range results {
		if r.Status == status {
			count++
		}
	}
	return count
}
