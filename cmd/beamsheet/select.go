package main

import (
	"github.com/spf13/cobra"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/console"
)

func newSelectCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "select",
		Short: "Open the operator console to select and confirm beam groups",
		Long: `Open the operator console. Select beams in the model, set the design
parameters on the panel and confirm each group; the grouping document is
written after every confirmed group.

Keys:
  a / b        begin scenario A (Infrastructura) / B (Suprastructura)
  enter        confirm the group and continue
  f            confirm the group and finish
  esc          cancel the pending group
  1 2 3        DCL / DCM / DCH
  s x y        Secundare / Dir X / Dir Y
  r            toggle resistance class
  [ ]          previous / next story
  ctrl+r       reset the session
  q            quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.designer(true)
			if err != nil {
				return err
			}
			defer d.Close()
			return console.Run(cmd.Context(), d, opts.log, opts.cfg.GetPollInterval())
		},
	}
}
