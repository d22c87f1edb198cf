package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCommand(opts *rootOptions) *cobra.Command {
	var clearStore bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget all groups and show every element in the model again",
		Long: `Delete the grouping document, clear the panel and the live selection and
show every element that was hidden when its group was confirmed. The record
store is kept unless --store-records is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.designer(false)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.Reset(cmd.Context()); err != nil {
				return err
			}
			if clearStore {
				s, err := d.Store()
				if err != nil {
					return err
				}
				if err := s.Reset(cmd.Context()); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearStore, "store-records", false, "also delete every stored beam record")
	return cmd
}
