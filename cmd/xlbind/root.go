package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// app is the state shared by every subcommand.
type app struct {
	out       io.Writer
	errOut    io.Writer
	logLevel  string
	logFormat string
	logger    *slog.Logger
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, logger: slog.New(slog.DiscardHandler)}

	cmd := &cobra.Command{
		Use:   "xlbind",
		Short: "Inspect xlsx workbooks and sheet style files",
		Long: `Inspect Excel workbooks (.xlsx) with the streaming reader.

Commands:
  sheets  List the sheets of a workbook.
  dump    Stream the rows of a sheet as JSON lines or TSV.
  style   Validate a YAML style file and print the resolved layout.

Examples:
  xlbind sheets report.xlsx
  xlbind dump report.xlsx --sheet Staff --start-row 2
  xlbind style styles/custom.yml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = setupLogger(a.logLevel, a.logFormat, a.errOut)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "Log format: text or json")

	cmd.AddCommand(newSheetsCommand(a))
	cmd.AddCommand(newDumpCommand(a))
	cmd.AddCommand(newStyleCommand(a))

	return cmd
}
