package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/grouping"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
)

func newRebuildCommand(opts *rootOptions) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Replace the record store with the groups of the grouping document",
		Long: `Replace every record in the store with one record per beam of the
grouping document. Beam data is read from the structural model; queries that
fail store "N/A" or 0.

Examples:
  beamsheet rebuild
  beamsheet rebuild --from old_selection.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.designer(true)
			if err != nil {
				return err
			}
			defer d.Close()

			var doc *models.GroupingDocument
			if from != "" {
				if doc, err = grouping.Load(from); err != nil {
					return fmt.Errorf("load %s: %w", from, err)
				}
			}
			n, err := d.RebuildStore(cmd.Context(), doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d records written to %s\n", n, opts.cfg.Paths.Store)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "grouping document to rebuild from (default: the session document)")
	return cmd
}
