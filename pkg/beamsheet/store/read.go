package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"go.uber.org/zap"
)

const selectBeams = `SELECT
	unique_id, label, guid, story, selected_story, section_name, material,
	scenario, group_id, order_in_group,
	resistance, dcl, dcm, dch, secondary, dir_x, dir_y,
	combinations_upper, combinations_lower, selected_at,
	length, end_joints, section_props, modifiers, releases, offsets, steel,
	excel_sheet, excel_column, excel_row
FROM beams
ORDER BY scenario, group_id, order_in_group`

// Records returns every record ordered by scenario, group and order in group.
func (s *Store) Records(ctx context.Context) ([]models.BeamRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectBeams)
	if err != nil {
		return nil, fmt.Errorf("query beams: %w", err)
	}
	defer rows.Close()

	var out []models.BeamRecord
	for rows.Next() {
		r, err := scanRecord(rows, s.log)
		if err != nil {
			return nil, fmt.Errorf("scan beam: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRecord(rows *sql.Rows, log *zap.Logger) (models.BeamRecord, error) {
	var (
		r                                        models.BeamRecord
		label, guid, story, selStory, sec, mat   sql.NullString
		scenario                                 string
		resistance, dcl, dcm, dch, secondary     sql.NullString
		dirX, dirY, upper, lower, selectedAt     sql.NullString
		length                                   sql.NullFloat64
		joints, props, mods, rel, offsets, steel sql.NullString
		sheet, col                               sql.NullString
		row                                      sql.NullInt64
	)
	err := rows.Scan(
		&r.UniqueID, &label, &guid, &story, &selStory, &sec, &mat,
		&scenario, &r.GroupID, &r.OrderInGroup,
		&resistance, &dcl, &dcm, &dch, &secondary, &dirX, &dirY,
		&upper, &lower, &selectedAt,
		&length, &joints, &props, &mods, &rel, &offsets, &steel,
		&sheet, &col, &row,
	)
	if err != nil {
		return r, err
	}
	r.Label = text(label)
	r.GUID = text(guid)
	r.Story = text(story)
	r.SelectedStory = text(selStory)
	r.SectionName = text(sec)
	r.Material = text(mat)
	r.Scenario = models.Scenario(scenario)
	r.Settings = models.Settings{
		Resistance: models.ResistanceClass(text(resistance)),
		DCL:        flag(dcl),
		DCM:        flag(dcm),
		DCH:        flag(dch),
		Secondary:  flag(secondary),
		DirX:       flag(dirX),
		DirY:       flag(dirY),
		Story:      text(selStory),
		SelectedAt: decodeTime(selectedAt),
	}
	decodeJSON(log, r.UniqueID, "combinations_upper", upper, &r.Settings.CombinationsUpper)
	decodeJSON(log, r.UniqueID, "combinations_lower", lower, &r.Settings.CombinationsLower)
	r.Geometry.Length = length.Float64
	decodeJSON(log, r.UniqueID, "end_joints", joints, &r.Geometry.Joints)
	decodeJSON(log, r.UniqueID, "section_props", props, &r.Geometry.Section)
	decodeJSON(log, r.UniqueID, "modifiers", mods, &r.Geometry.Modifiers)
	decodeJSON(log, r.UniqueID, "releases", rel, &r.Geometry.Releases)
	decodeJSON(log, r.UniqueID, "offsets", offsets, &r.Geometry.Offsets)
	decodeJSON(log, r.UniqueID, "steel", steel, &r.Geometry.Steel)
	if sheet.Valid && col.Valid && row.Valid {
		r.Position = &models.ExcelPosition{Sheet: sheet.String, Column: col.String, Row: int(row.Int64)}
	}
	return r, nil
}

// ReadAllGrouped rebuilds the grouping from the stored records. Each group's
// settings come from its first record, since all records of a group share them.
func (s *Store) ReadAllGrouped(ctx context.Context) (*models.GroupingDocument, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	return GroupRecords(records), nil
}

// GroupRecords groups records, which must be ordered by scenario, group and order.
func GroupRecords(records []models.BeamRecord) *models.GroupingDocument {
	doc := &models.GroupingDocument{
		Version:   models.GroupingDocumentVersion,
		Scenarios: make(map[models.Scenario][]models.SelectionGroup),
	}
	for _, r := range records {
		groups := doc.Scenarios[r.Scenario]
		if n := len(groups); n > 0 && groups[n-1].GroupID == r.GroupID {
			groups[n-1].Beams = append(groups[n-1].Beams, r.UniqueID)
			continue
		}
		doc.Scenarios[r.Scenario] = append(groups, models.SelectionGroup{
			Scenario: r.Scenario,
			GroupID:  r.GroupID,
			Beams:    []string{r.UniqueID},
			Settings: r.Settings.Clone(),
		})
	}
	return doc
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM beams").Scan(&n); err != nil {
		return 0, fmt.Errorf("count beams: %w", err)
	}
	return n, nil
}
