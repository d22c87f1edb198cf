// Package beamsheet ties beam selection, the record store and report layout
// together behind the operations the operator console calls.
package beamsheet

import (
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/config"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/layout"
)

// Options configures a Designer.
type Options struct {
	// StorePath is the record store file.
	StorePath string
	// GroupingPath is the grouping document mirrored after every confirmed group.
	// Empty disables the document.
	GroupingPath string
	// Layout configures the layout engine.
	Layout layout.Options
	// Excel configures how the template is opened.
	Excel layout.ExcelOptions
	// KeepTemplateSheet keeps the template sheet in generated reports.
	KeepTemplateSheet bool
}

// DefaultOptions returns the options of the default configuration.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

// OptionsFromConfig derives Designer options from a configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		StorePath:    cfg.Paths.Store,
		GroupingPath: cfg.Paths.Grouping,
		Layout:       cfg.LayoutOptions(),
		Excel: layout.ExcelOptions{
			TemplateSheet: cfg.Layout.TemplateSheet,
			HeaderTint:    cfg.Layout.HeaderTint,
		},
		KeepTemplateSheet: cfg.Layout.KeepTemplateSheet,
	}
}
