package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/output"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/store"
)

func newDBCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Inspect the record store",
	}
	cmd.AddCommand(newDBShowCommand(opts))
	return cmd
}

func newDBShowCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List every stored beam record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(opts.cfg.Paths.Store, opts.log.Named("store"))
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.Records(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				data, err := output.ToJSON(records, true)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			return output.WriteRecords(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
