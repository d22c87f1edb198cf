package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/output"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <report.xlsx>",
		Short: "Recover beam positions from an existing report into the store",
		Long: `Scan an existing report for beam blocks and store the anchor cell of each
block on the record with the same scenario, group and order in group.
Blocks are located through the configured layout field offsets.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.designer(false)
			if err != nil {
				return err
			}
			defer d.Close()

			res, err := d.ImportReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if opts.verbose {
				if err := output.WritePositions(w, res.Positions); err != nil {
					return err
				}
			}
			for _, b := range res.Unmatched {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: no beam for %s group %d order %d (%s at %s%d)\n",
					b.Scenario, b.GroupID, b.Order, b.Label, b.Column, b.Row)
			}
			fmt.Fprintf(w, "%d blocks found, %d records updated, %d unmatched\n",
				res.Blocks, res.Applied, len(res.Unmatched))
			return nil
		},
	}
}
