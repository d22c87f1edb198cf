package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/layout"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/output"
)

func newScanCommand(opts *rootOptions) *cobra.Command {
	var (
		outputPath string
		sheetsDir  string
		pretty     bool
		rows       bool
		sheets     []string
	)

	cmd := &cobra.Command{
		Use:   "scan <report.xlsx>",
		Short: "Read a generated report back as JSON",
		Long: `Read a generated report back: the beam blocks found on every sheet, the
print areas and, with --rows, the non-empty cells. Nothing is written to
the record store; use import for that.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := layout.ScanReport(args[0], layout.ScanOptions{
				Fields:      opts.cfg.Layout.Fields,
				IncludeRows: rows,
				Sheets:      sheets,
			})
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if sheetsDir != "" {
				if err := output.WriteSheetFiles(data, sheetsDir, pretty); err != nil {
					return fmt.Errorf("failed to write sheet files: %w", err)
				}
				if outputPath == "" {
					return nil
				}
			}

			jsonData, err := output.ToJSON(data, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			if outputPath != "" {
				if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&rows, "rows", false, "Include non-empty cell rows")
	cmd.Flags().StringSliceVar(&sheets, "sheet", nil, "Only scan these sheets")
	return cmd
}
