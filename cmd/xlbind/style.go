package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/javajack/xlbind"
	"github.com/spf13/cobra"
)

func newStyleCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "style [config.yml]",
		Short: "Validate a style file and print the resolved layout",
		Long: `Validate a YAML style file and print the layout it resolves to.
Without a file the built-in default layout is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := xlbind.DefaultStyleConfig()
			if len(args) == 1 {
				var err error
				if cfg, err = xlbind.LoadStyleConfig(args[0]); err != nil {
					return err
				}
				a.logger.Debug("loaded style config", "path", args[0])
			}
			layout, err := cfg.Layout("")
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "cell width: %g\n", layout.CellWidth)
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ROW\tINDEX\tHEIGHT\tFONT\tSIZE\tCOLOR\tBOLD\tBACKGROUND\tALIGN\tVALIGN\tWRAP\tFORMAT")
			for _, r := range []struct {
				name  string
				style xlbind.RowStyle
			}{
				{"title", layout.Title},
				{"body", layout.Body},
				{"footer", layout.Footer},
			} {
				s := r.style
				fmt.Fprintf(tw, "%s\t%d\t%g\t%s\t%g\t%s\t%t\t%s\t%s\t%s\t%t\t%q\n",
					r.name, s.Index, s.Height, s.FontName, s.FontSize, s.FontColor, s.Bold,
					s.BackgroundColor, s.Align, s.VerticalAlign, s.WrapText, s.Format)
			}
			return tw.Flush()
		},
	}
}
