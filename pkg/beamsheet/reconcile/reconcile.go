// Package reconcile writes report positions back into the record store.
package reconcile

import (
	"context"
	"fmt"
	"sort"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/layout"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/store"
	"go.uber.org/zap"
)

// Reconciler applies beam positions to a store.
type Reconciler struct {
	store  *store.Store
	log    *zap.Logger
	fields layout.FieldOffsets
}

// New creates a Reconciler. fields locates the identifying fields when a
// report is imported.
func New(s *store.Store, log *zap.Logger, fields layout.FieldOffsets) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{store: s, log: log, fields: fields}
}

// Apply makes sure the position columns exist and stores positions. It must
// only be called once the report holding those positions has been saved.
func (r *Reconciler) Apply(ctx context.Context, positions []models.BeamPosition) (int, error) {
	if err := r.store.EnsureExcelPositionColumns(ctx); err != nil {
		return 0, err
	}
	n, err := r.store.ApplyPositions(ctx, positions)
	if err != nil {
		return 0, err
	}
	r.log.Info("positions applied", zap.Int("applied", n), zap.Int("positions", len(positions)))
	return n, nil
}

// blockKey identifies a beam by where the layout put it in its group.
type blockKey struct {
	scenario models.Scenario
	group    int
	order    int
}

// ImportResult summarises a report import.
type ImportResult struct {
	// Blocks is the number of beam blocks found in the report.
	Blocks int `json:"blocks"`
	// Applied is the number of store rows updated.
	Applied int `json:"applied"`
	// Unmatched lists blocks with no beam at their scenario, group and order.
	Unmatched []models.ReportBlock `json:"unmatched,omitempty"`
	// Positions are the recovered positions, in sheet name order.
	Positions []models.BeamPosition `json:"positions"`
}

// ImportReport recovers beam positions from an existing report and applies
// them. Blocks are matched to records by scenario, group id and position in
// group; a beam found on several sheets keeps its first position.
func (r *Reconciler) ImportReport(ctx context.Context, path string) (*ImportResult, error) {
	data, err := layout.ScanReport(path, layout.ScanOptions{Fields: r.fields})
	if err != nil {
		return nil, fmt.Errorf("scan report: %w", err)
	}
	records, err := r.store.Records(ctx)
	if err != nil {
		return nil, err
	}
	byKey := make(map[blockKey]models.BeamRecord, len(records))
	for _, rec := range records {
		byKey[blockKey{rec.Scenario, rec.GroupID, rec.OrderInGroup}] = rec
	}

	sheets := make([]string, 0, len(data.Sheets))
	for name := range data.Sheets {
		sheets = append(sheets, name)
	}
	sort.Strings(sheets)

	res := &ImportResult{}
	placed := make(map[string]string)
	for _, sheet := range sheets {
		for _, b := range data.Sheets[sheet].Blocks {
			res.Blocks++
			rec, ok := byKey[blockKey{b.Scenario, b.GroupID, b.Order}]
			if !ok {
				r.log.Warn("report block has no beam",
					zap.String("sheet", sheet),
					zap.String("scenario", string(b.Scenario)),
					zap.Int("group", b.GroupID),
					zap.Int("order", b.Order))
				res.Unmatched = append(res.Unmatched, b)
				continue
			}
			if first, dup := placed[rec.UniqueID]; dup {
				r.log.Warn("beam found on several sheets; keeping the first",
					zap.String("beam", rec.UniqueID),
					zap.String("kept", first),
					zap.String("sheet", sheet))
				continue
			}
			if b.Label != rec.Label && rec.Label != models.NotAvailable {
				r.log.Debug("report label differs from store",
					zap.String("beam", rec.UniqueID),
					zap.String("report", b.Label),
					zap.String("store", rec.Label))
			}
			placed[rec.UniqueID] = sheet
			res.Positions = append(res.Positions, models.BeamPosition{
				UniqueID:  rec.UniqueID,
				SheetName: sheet,
				Column:    b.Column,
				Row:       b.Row,
			})
		}
	}

	res.Applied, err = r.Apply(ctx, res.Positions)
	if err != nil {
		return nil, err
	}
	return res, nil
}
