package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/output"
)

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	var (
		fromStore bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show every group with its settings and live beam info",
		Long: `Show the confirmed groups per scenario with their design parameters, target
sheet and, for every beam, the label, story, length, section and material
currently reported by the model.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.designer(false)
			if err != nil {
				return err
			}
			defer d.Close()

			var sum *models.Summary
			if fromStore {
				sum, err = d.StoreSummary(cmd.Context())
			} else {
				sum, err = d.Summary(cmd.Context())
			}
			if err != nil {
				return err
			}
			if asJSON {
				data, err := output.ToJSON(sum, true)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			return output.WriteSummary(cmd.OutOrStdout(), sum)
		},
	}
	cmd.Flags().BoolVar(&fromStore, "from-store", false, "summarize the record store instead of the grouping document")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
