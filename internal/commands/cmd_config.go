package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/basket/internal/core/config"
	"github.com/hay-kot/basket/internal/printer"
)

type ConfigCmd struct {
	flags  *Flags
	format string
}

// NewConfigCmd creates the config command group.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config commands to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	formatFlag := &cli.StringFlag{
		Name:        "format",
		Usage:       "output format (text, json)",
		Value:       "text",
		Destination: &cmd.format,
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Inspect and validate the configuration",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate the configuration file",
				UsageText: "basket config validate [--format text|json]",
				Description: `Checks history capacity, currency, the prompt template, keybindings and
file paths. Exits 1 when the configuration is invalid.`,
				Flags:  []cli.Flag{formatFlag},
				Action: cmd.validate,
			},
			{
				Name:        "show",
				Usage:       "Print the effective configuration as YAML",
				UsageText:   "basket config show",
				Description: "Prints the configuration after defaults, keybinding merges and --capacity are applied.",
				Action:      cmd.show,
			},
		},
	})

	return app
}

// validationReport is the outcome of validating a config.
type validationReport struct {
	Errors   criterio.FieldErrors
	Warnings []config.ValidationWarning
}

func (r validationReport) Valid() bool {
	return len(r.Errors) == 0
}

func newValidationReport(cfg *config.Config, configPath string) validationReport {
	return validationReport{
		Errors:   extractFieldErrors(cfg.ValidateDeep(configPath)),
		Warnings: cfg.Warnings(),
	}
}

// extractFieldErrors unwraps criterio.FieldErrors from err. Any other error
// becomes a single entry with no field.
func extractFieldErrors(err error) criterio.FieldErrors {
	if err == nil {
		return nil
	}
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	return criterio.FieldErrors{{Err: err}}
}

func (cmd *ConfigCmd) validate(ctx context.Context, c *cli.Command) error {
	if cmd.flags.Config == nil {
		return fmt.Errorf("configuration not loaded")
	}

	report := newValidationReport(cmd.flags.Config, cmd.flags.ConfigPath)

	switch cmd.format {
	case "json":
		if err := writeReportJSON(c.Root().Writer, report); err != nil {
			return err
		}
	case "text":
		writeReportText(printer.Ctx(ctx), report)
	default:
		return fmt.Errorf("unknown format %q (want text or json)", cmd.format)
	}

	if !report.Valid() {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *ConfigCmd) show(_ context.Context, c *cli.Command) error {
	if cmd.flags.Config == nil {
		return fmt.Errorf("configuration not loaded")
	}
	return writeConfigYAML(c.Root().Writer, cmd.flags.Config)
}

func writeConfigYAML(w io.Writer, cfg *config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

func writeReportJSON(w io.Writer, report validationReport) error {
	type fieldError struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}

	out := struct {
		Valid    bool                       `json:"valid"`
		Errors   []fieldError               `json:"errors,omitempty"`
		Warnings []config.ValidationWarning `json:"warnings,omitempty"`
	}{
		Valid:    report.Valid(),
		Warnings: report.Warnings,
	}

	for _, fe := range report.Errors {
		out.Errors = append(out.Errors, fieldError{Field: fe.Field, Message: fe.Err.Error()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeReportText(p *printer.Printer, report validationReport) {
	if len(report.Errors) > 0 {
		p.Section("Errors")
		for _, fe := range report.Errors {
			label := fe.Field
			if label == "" {
				label = "config"
			}
			p.FailItem(label, fe.Err.Error())
		}
		p.Printf("")
	}

	if len(report.Warnings) > 0 {
		p.Section("Warnings")
		for _, w := range report.Warnings {
			label := w.Category
			if w.Item != "" {
				label += " (" + w.Item + ")"
			}
			p.WarnItem(label, w.Message)
		}
		p.Printf("")
	}

	switch {
	case !report.Valid():
		p.Errorf("%d error(s), %d warning(s)", len(report.Errors), len(report.Warnings))
	case len(report.Warnings) > 0:
		p.Successf("Configuration is valid (%d warning(s))", len(report.Warnings))
	default:
		p.Successf("Configuration is valid")
	}
}
