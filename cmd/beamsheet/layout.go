package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/output"
	"go.uber.org/zap"
)

func newLayoutCommand(opts *rootOptions) *cobra.Command {
	var (
		template      string
		out           string
		showPositions bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Lay the stored groups out into an Excel report",
		Long: `Copy the template workbook to the output path and lay every stored group
out into one sheet per story, scenario and direction. Each beam gets a copy
of the template block; the anchor cell of every block is written back to the
record store once the report is saved.

Examples:
  beamsheet layout
  beamsheet layout --template forms/beam.xlsx --output P1.xlsx --positions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if template == "" {
				template = opts.cfg.Paths.Template
			}
			if out == "" {
				out = opts.cfg.Paths.Output
			}
			d, err := opts.designer(true)
			if err != nil {
				return err
			}
			defer d.Close()

			res, err := d.RunLayout(cmd.Context(), template, out)
			if err != nil {
				return err
			}
			for _, e := range res.Skipped {
				opts.log.Warn("skipped", zap.Error(e))
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", e)
			}
			w := cmd.OutOrStdout()
			if showPositions {
				if err := output.WritePositions(w, res.Positions); err != nil {
					return err
				}
			}
			fmt.Fprintf(w, "Report written to %s: %d sheets, %d beams placed, %d positions stored\n",
				res.OutputPath, len(res.Sheets), len(res.Positions), res.Applied)
			return nil
		},
	}
	cmd.Flags().StringVarP(&template, "template", "t", "", "template workbook (default: paths.template)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "report path (default: paths.output)")
	cmd.Flags().BoolVar(&showPositions, "positions", false, "print the anchor cell of every beam")
	return cmd
}
