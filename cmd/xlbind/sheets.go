package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/javajack/xlbind/stream"
	"github.com/spf13/cobra"
)

func newSheetsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sheets <file>",
		Short: "List the sheets of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := stream.Open(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			a.logger.Debug("opened workbook", "path", args[0], "date1904", wb.Date1904())

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INDEX\tNAME\tPART")
			for i, s := range wb.Sheets() {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", i, s.Name, s.Part)
			}
			return tw.Flush()
		},
	}
}
