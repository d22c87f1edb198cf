package store

import (
	"context"
	"fmt"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/provider"
	"go.uber.org/zap"
)

const insertBeam = `INSERT INTO beams (
	unique_id, label, guid, story, selected_story, section_name, material,
	scenario, group_id, order_in_group,
	resistance, dcl, dcm, dch, secondary, dir_x, dir_y,
	combinations_upper, combinations_lower, selected_at,
	length, end_joints, section_props, modifiers, releases, offsets, steel
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Records builds one BeamRecord per beam of doc, scenario A first, in group
// and selection order. Model data is fetched through q, so a failing element
// gets sentinel values instead of aborting the batch. A beam listed again
// after its first group is dropped with a warning.
func Records(ctx context.Context, doc *models.GroupingDocument, q *provider.Querier, log *zap.Logger) []models.BeamRecord {
	if log == nil {
		log = zap.NewNop()
	}
	var out []models.BeamRecord
	first := make(map[string]models.SelectionGroup)
	for _, g := range doc.Groups() {
		order := 0
		for _, id := range g.Beams {
			if prev, ok := first[id]; ok {
				log.Warn("duplicate beam dropped",
					zap.String("beam", id),
					zap.String("scenario", string(g.Scenario)),
					zap.Int("group", g.GroupID),
					zap.String("kept_scenario", string(prev.Scenario)),
					zap.Int("kept_group", prev.GroupID))
				continue
			}
			first[id] = g
			order++
			rec := q.Record(ctx, id)
			rec.Scenario = g.Scenario
			rec.GroupID = g.GroupID
			rec.OrderInGroup = order
			rec.SelectedStory = g.Settings.Story
			rec.Settings = g.Settings.Clone()
			out = append(out, rec)
		}
	}
	return out
}

// Rebuild replaces the whole store with the beams of doc and returns the
// number of rows written. The drop, schema creation and inserts commit
// together, so a failure leaves the previous contents in place.
func (s *Store) Rebuild(ctx context.Context, doc *models.GroupingDocument, q *provider.Querier) (int, error) {
	if doc == nil {
		return 0, fmt.Errorf("%w: no grouping document", ErrStoreWriteFailed)
	}
	records := Records(ctx, doc, q, s.log)
	if err := s.Replace(ctx, records); err != nil {
		return 0, err
	}
	s.log.Info("store rebuilt",
		zap.String("path", s.path),
		zap.Int("rows", len(records)),
		zap.String("document", doc.ID))
	return len(records), nil
}

// Replace drops all rows and inserts records in one transaction.
func (s *Store) Replace(ctx context.Context, records []models.BeamRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrStoreWriteFailed, err)
	}
	defer tx.Rollback()

	if err := recreate(ctx, tx); err != nil {
		return fmt.Errorf("%w: recreate schema: %v", ErrStoreWriteFailed, err)
	}
	stmt, err := tx.PrepareContext(ctx, insertBeam)
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %v", ErrStoreWriteFailed, err)
	}
	defer stmt.Close()

	for _, r := range records {
		args := []any{
			r.UniqueID, r.Label, r.GUID, r.Story, r.SelectedStory, r.SectionName, r.Material,
			string(r.Scenario), r.GroupID, r.OrderInGroup,
		}
		args = append(args, settingsArgs(r.Settings)...)
		g := r.Geometry
		args = append(args,
			g.Length,
			encodeJSON(g.Joints),
			encodeJSON(g.Section),
			encodeJSON(g.Modifiers),
			encodeJSON(g.Releases),
			encodeJSON(g.Offsets),
			encodeJSON(g.Steel),
		)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("%w: insert beam %s (scenario %s, group %d): %v",
				ErrStoreWriteFailed, r.UniqueID, r.Scenario, r.GroupID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrStoreWriteFailed, err)
	}
	return nil
}
