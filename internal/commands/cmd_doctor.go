package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/basket/internal/commands/doctor"
	"github.com/hay-kot/basket/internal/printer"
)

type DoctorCmd struct {
	flags  *Flags
	format string
}

func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Check the basket configuration and product catalog",
		UsageText:   "basket doctor [--format text|json]",
		Description: "Validates the config file and every catalog product. Exits 1 when any check fails.",
		Flags: []cli.Flag{
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

func (cmd *DoctorCmd) checks() []doctor.Check {
	return []doctor.Check{
		doctor.NewConfigCheck(cmd.flags.Config, cmd.flags.ConfigPath),
		doctor.NewCatalogCheck(cmd.flags.Catalog),
	}
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.format != "text" && cmd.format != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", cmd.format)
	}

	report := doctor.Run(ctx, cmd.checks())

	if cmd.format == "json" {
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	} else {
		writeDoctorText(printer.Ctx(ctx), report)
	}

	if !report.Healthy {
		return cli.Exit("", 1)
	}
	return nil
}

func writeDoctorText(p *printer.Printer, report doctor.Report) {
	for _, result := range report.Checks {
		p.Section(result.Name)

		for _, item := range result.Items {
			switch item.Status {
			case doctor.StatusPass:
				p.CheckItem(item.Label, item.Detail)
			case doctor.StatusWarn:
				p.WarnItem(item.Label, item.Detail)
			case doctor.StatusFail:
				p.FailItem(item.Label, item.Detail)
			}
		}

		p.Printf("")
	}

	s := report.Summary
	p.Printf("Summary: %d passed, %d warnings, %d failed", s.Passed, s.Warned, s.Failed)
}
