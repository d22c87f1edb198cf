package beamsheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/grouping"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/layout"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/provider"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/reconcile"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/session"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/store"
	"go.uber.org/zap"
)

// Designer is the core the operator console drives. Every operation either
// completes or fails synchronously; none waits for the operator.
type Designer struct {
	q       *provider.Querier
	session *session.Session
	store   *store.Store
	log     *zap.Logger
	opts    Options
	now     func() time.Time
}

// New creates a Designer on the structural model p. When the grouping document
// exists its groups are restored into the session.
func New(p provider.Provider, log *zap.Logger, opts Options) (*Designer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	q := provider.NewQuerier(p, log.Named("provider"))
	d := &Designer{
		q:       q,
		session: session.New(q, session.NewPanel(), log.Named("session")),
		log:     log,
		opts:    opts,
		now:     time.Now,
	}
	if opts.GroupingPath != "" {
		doc, err := grouping.Load(opts.GroupingPath)
		switch {
		case err == nil:
			if err := d.session.Restore(doc); err != nil {
				return nil, NewOperationError("restore", err)
			}
			log.Info("grouping restored", zap.String("path", opts.GroupingPath), zap.Int("beams", doc.BeamCount()))
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, NewOperationError("restore", err)
		}
	}
	return d, nil
}

// Close releases the record store.
func (d *Designer) Close() error {
	if d.store == nil {
		return nil
	}
	err := d.store.Close()
	d.store = nil
	return err
}

// Session returns the selection session.
func (d *Designer) Session() *session.Session { return d.session }

// Panel returns the design-parameter panel.
func (d *Designer) Panel() *session.Panel { return d.session.Panel() }

// Querier returns the sentinel-substituting model querier.
func (d *Designer) Querier() *provider.Querier { return d.q }

// Store opens the record store on first use.
func (d *Designer) Store() (*store.Store, error) {
	if d.store != nil {
		return d.store, nil
	}
	s, err := store.Open(d.opts.StorePath, d.log.Named("store"))
	if err != nil {
		return nil, err
	}
	d.store = s
	return s, nil
}

// BeginSelection starts selecting groups for scenario sc.
func (d *Designer) BeginSelection(ctx context.Context, sc models.Scenario) error {
	return NewOperationError("begin_selection", d.session.Begin(ctx, sc))
}

// Poll refreshes the pending group from the live selection.
func (d *Designer) Poll(ctx context.Context) (bool, error) {
	changed, err := d.session.Poll(ctx)
	return changed, NewOperationError("poll", err)
}

// ConfirmGroup reads the live selection once more, confirms it as the next
// group and mirrors all groups to the grouping document.
func (d *Designer) ConfirmGroup(ctx context.Context, cont bool) (models.SelectionGroup, error) {
	const op = "confirm_group"
	if _, err := d.session.Poll(ctx); err != nil {
		return models.SelectionGroup{}, NewOperationError(op, err)
	}
	g, err := d.session.ConfirmGroup(ctx, cont)
	if err != nil {
		return models.SelectionGroup{}, NewOperationError(op, err)
	}
	if err := d.saveGrouping(); err != nil {
		return g, NewOperationError(op, err)
	}
	return g, nil
}

func (d *Designer) saveGrouping() error {
	if d.opts.GroupingPath == "" {
		return nil
	}
	return grouping.Save(d.opts.GroupingPath, d.session.Document())
}

// CancelSelection discards the pending group and stops the selection.
func (d *Designer) CancelSelection(ctx context.Context) error {
	return NewOperationError("cancel_selection", d.session.Cancel(ctx))
}

// Document returns the grouping document of the session.
func (d *Designer) Document() *models.GroupingDocument {
	return d.session.Document()
}

// RebuildStore replaces the store contents with one record per beam of doc,
// or of the session when doc is nil, and returns the number of records.
func (d *Designer) RebuildStore(ctx context.Context, doc *models.GroupingDocument) (int, error) {
	const op = "rebuild_store"
	if doc == nil {
		doc = d.session.Document()
	}
	if err := d.q.Check(ctx); err != nil {
		return 0, NewOperationError(op, err)
	}
	s, err := d.Store()
	if err != nil {
		return 0, NewOperationError(op, err)
	}
	n, err := s.Rebuild(ctx, doc, d.q)
	return n, NewOperationError(op, err)
}

// LayoutResult reports a layout run.
type LayoutResult struct {
	// OutputPath is the saved report.
	OutputPath string `json:"output_path"`
	// Sheets lists the generated sheets in layout order.
	Sheets []string `json:"sheets"`
	// Positions holds the anchor of every placed beam.
	Positions []models.BeamPosition `json:"positions"`
	// Applied is the number of store rows that received a position.
	Applied int `json:"applied"`
	// Skipped holds the sheet and beam failures that were skipped.
	Skipped []error `json:"-"`
}

// RunLayout renders the stored groups into a copy of the template at
// outputPath. Positions are written back to the store only after the report
// has been saved.
func (d *Designer) RunLayout(ctx context.Context, templatePath, outputPath string) (*LayoutResult, error) {
	const op = "run_layout"
	tpl, err := os.Stat(templatePath)
	if err != nil {
		return nil, NewOperationError(op, fmt.Errorf("%w: %s", ErrTemplateNotFound, templatePath))
	}
	if sameFile(tpl, templatePath, outputPath) {
		return nil, NewOperationError(op, fmt.Errorf("%w: %s", ErrOutputIsTemplate, outputPath))
	}
	s, err := d.Store()
	if err != nil {
		return nil, NewOperationError(op, err)
	}
	doc, err := s.ReadAllGrouped(ctx)
	if err != nil {
		return nil, NewOperationError(op, err)
	}
	if doc.BeamCount() == 0 {
		return nil, NewOperationError(op, ErrNoBeams)
	}

	if err := copyFile(templatePath, outputPath); err != nil {
		return nil, NewOperationError(op, fmt.Errorf("copy template: %w", err))
	}
	wb, err := layout.OpenExcel(outputPath, d.opts.Excel)
	if err != nil {
		return nil, NewOperationError(op, err)
	}
	defer wb.Close()

	groups := doc.Groups()
	combos := grouping.AllCombinations(groups, d.log.Named("grouping"))
	engine := layout.NewEngine(wb, d.q, d.log.Named("layout"), d.opts.Layout)
	positions, skipped := engine.Layout(ctx, combos, groups)

	if !d.opts.KeepTemplateSheet {
		if err := wb.DeleteTemplateSheet(); err != nil {
			d.log.Warn("template sheet kept", zap.Error(err))
		}
	}
	if err := wb.SaveAs(outputPath); err != nil {
		return nil, NewOperationError(op, fmt.Errorf("%w: save %s: %v", ErrLayoutWriteFailed, outputPath, err))
	}

	res := &LayoutResult{OutputPath: outputPath, Positions: positions, Skipped: skipped}
	for _, c := range combos {
		res.Sheets = append(res.Sheets, c.SheetName)
	}
	res.Applied, err = reconcile.New(s, d.log.Named("reconcile"), d.opts.Layout.Fields).Apply(ctx, positions)
	if err != nil {
		return res, NewOperationError(op, err)
	}
	d.log.Info("report written",
		zap.String("path", outputPath),
		zap.Int("sheets", len(res.Sheets)),
		zap.Int("beams", len(positions)),
		zap.Int("skipped", len(skipped)))
	return res, nil
}

// sameFile reports whether dst names the template file described by tpl,
// either through the same cleaned path or as an existing link to it.
func sameFile(tpl os.FileInfo, src, dst string) bool {
	a, errA := filepath.Abs(src)
	b, errB := filepath.Abs(dst)
	if errA == nil && errB == nil && a == b {
		return true
	}
	out, err := os.Stat(dst)
	return err == nil && os.SameFile(tpl, out)
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}

// ImportReport recovers positions from an existing report into the store.
func (d *Designer) ImportReport(ctx context.Context, path string) (*reconcile.ImportResult, error) {
	const op = "import_report"
	s, err := d.Store()
	if err != nil {
		return nil, NewOperationError(op, err)
	}
	res, err := reconcile.New(s, d.log.Named("reconcile"), d.opts.Layout.Fields).ImportReport(ctx, path)
	return res, NewOperationError(op, err)
}

// Summary describes every confirmed group with live beam info.
func (d *Designer) Summary(ctx context.Context) (*models.Summary, error) {
	return d.summarize(ctx, d.session.Document())
}

// StoreSummary describes the groups held in the record store.
func (d *Designer) StoreSummary(ctx context.Context) (*models.Summary, error) {
	s, err := d.Store()
	if err != nil {
		return nil, NewOperationError("summary", err)
	}
	doc, err := s.ReadAllGrouped(ctx)
	if err != nil {
		return nil, NewOperationError("summary", err)
	}
	return d.summarize(ctx, doc)
}

func (d *Designer) summarize(ctx context.Context, doc *models.GroupingDocument) (*models.Summary, error) {
	sum := &models.Summary{GeneratedAt: d.now()}
	for _, sc := range models.Scenarios {
		groups := doc.Scenarios[sc]
		if len(groups) == 0 {
			continue
		}
		ss := models.ScenarioSummary{Scenario: sc, Name: sc.DisplayName(), GroupCount: len(groups)}
		for _, g := range groups {
			gs := models.GroupSummary{
				GroupID:   g.GroupID,
				SheetName: grouping.Combination(g).SheetName,
				Settings:  g.Settings.Clone(),
			}
			for _, id := range g.Beams {
				label, story := d.q.LabelAndStory(ctx, id)
				gs.Beams = append(gs.Beams, models.BeamSummary{
					UniqueID:    id,
					Label:       label,
					Story:       story,
					Length:      d.q.Length(ctx, id),
					SectionName: d.q.SectionName(ctx, id),
					Material:    d.q.SectionMaterial(ctx, id),
				})
			}
			ss.TotalBeams += len(g.Beams)
			ss.Groups = append(ss.Groups, gs)
		}
		sum.Scenarios = append(sum.Scenarios, ss)
	}
	return sum, nil
}

// Reset clears the session, the panel and the grouping document, and shows
// every element in the model again. The record store is left as is.
func (d *Designer) Reset(ctx context.Context) error {
	d.session.Reset(ctx)
	if d.opts.GroupingPath == "" {
		return nil
	}
	return NewOperationError("reset", grouping.Remove(d.opts.GroupingPath))
}
