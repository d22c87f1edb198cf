package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/config"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/logging"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/provider"
	"go.uber.org/zap"
)

// rootOptions holds the global flags and what PersistentPreRunE builds from them.
type rootOptions struct {
	configPath string
	verbose    bool
	modelPath  string
	storePath  string

	cfg *config.Config
	log *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "beamsheet",
		Short: "Beam selection grouping and Excel report layout",
		Long: `beamsheet tags beams selected in a structural model into groups per
scenario, stores one record per beam in SQLite and lays the groups out into
an Excel report built from a template block.

Typical workflow:
  beamsheet select             # operator console, confirm groups
  beamsheet rebuild            # grouping document -> record store
  beamsheet layout             # record store -> report.xlsx
  beamsheet summary            # groups, settings and live beam info`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.modelPath, "model", "", "offline model snapshot (overrides paths.model)")
	cmd.PersistentFlags().StringVar(&opts.storePath, "store", "", "record store (overrides paths.store)")

	cmd.AddCommand(newSelectCommand(opts))
	cmd.AddCommand(newRebuildCommand(opts))
	cmd.AddCommand(newLayoutCommand(opts))
	cmd.AddCommand(newImportCommand(opts))
	cmd.AddCommand(newSummaryCommand(opts))
	cmd.AddCommand(newDBCommand(opts))
	cmd.AddCommand(newAuditCommand(opts))
	cmd.AddCommand(newScanCommand(opts))
	cmd.AddCommand(newResetCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func (o *rootOptions) setup() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.modelPath != "" {
		cfg.Paths.Model = o.modelPath
	}
	if o.storePath != "" {
		cfg.Paths.Store = o.storePath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", o.configPath, err)
	}
	log, err := logging.New(cfg.Logging, o.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	o.cfg = cfg
	o.log = log
	return nil
}

// loadModel opens the offline model snapshot with its selection side file.
func (o *rootOptions) loadModel() (*provider.Offline, error) {
	m, err := provider.LoadOffline(o.cfg.Paths.Model)
	if err != nil {
		return nil, err
	}
	if o.cfg.Paths.SelectionFile != "" {
		m.WithSelectionFile(o.cfg.Paths.SelectionFile)
	}
	return m, nil
}

// designer opens a Designer on the configured model. When the model is not
// required an unreachable one stands in, so store-only operations still run.
func (o *rootOptions) designer(requireModel bool) (*beamsheet.Designer, error) {
	var p provider.Provider
	m, err := o.loadModel()
	switch {
	case err == nil:
		p = m
	case requireModel:
		return nil, err
	case errors.Is(err, provider.ErrProviderUnavailable):
		o.log.Warn("structural model not loaded", zap.Error(err))
		empty := provider.NewOffline(provider.Snapshot{})
		empty.SetUnavailable(true)
		p = empty
	default:
		return nil, err
	}
	return beamsheet.New(p, o.log, beamsheet.OptionsFromConfig(o.cfg))
}
