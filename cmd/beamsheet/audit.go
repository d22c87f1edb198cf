package main

import (
	"github.com/spf13/cobra"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/layout"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/output"
)

func newAuditCommand(opts *rootOptions) *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "audit [template.xlsx]",
		Short: "List drawing objects inside the template block",
		Long: `List the shapes, pictures and charts anchored inside the template block.
Block copies carry cell values, formulas, styles and merges only, so these
objects are missing from every generated block.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.cfg.Paths.Template
			if len(args) == 1 {
				path = args[0]
			}
			if sheet == "" {
				sheet = opts.cfg.Layout.TemplateSheet
			}
			objects, err := layout.AuditTemplate(path, sheet)
			if err != nil {
				return err
			}
			return output.WriteAudit(cmd.OutOrStdout(), objects)
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "template sheet (default: layout.template_sheet, else the first sheet)")
	return cmd
}
