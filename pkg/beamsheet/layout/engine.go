package layout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/grouping"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/provider"
	"go.uber.org/zap"
)

// headerWidth is the number of header cells written per group.
const headerWidth = 3

// Options configures an Engine.
type Options struct {
	// Fields places the identifying fields inside each beam sub-block.
	Fields FieldOffsets
	// HeaderTint fills group headers with the tint color.
	HeaderTint bool
	// PrintArea sets a print area covering the bands of every generated sheet.
	PrintArea bool
}

// DefaultOptions returns the options of the standard template.
func DefaultOptions() Options {
	return Options{
		Fields:     DefaultFieldOffsets(),
		HeaderTint: true,
		PrintArea:  true,
	}
}

// Engine lays sheet combinations out on a Workbook.
type Engine struct {
	wb      Workbook
	q       *provider.Querier
	log     *zap.Logger
	opts    Options
	written map[string]bool
}

// NewEngine creates an engine writing to wb and fetching beam fields through q.
func NewEngine(wb Workbook, q *provider.Querier, log *zap.Logger, opts Options) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		wb:      wb,
		q:       q,
		log:     log,
		opts:    opts,
		written: make(map[string]bool),
	}
}

// Layout renders every combination to its own sheet and returns the anchor of
// every beam placed. Failures of one sheet or one beam are returned as
// LayoutErrors and never stop the run.
func (e *Engine) Layout(ctx context.Context, combos []models.SheetCombination, groups []models.SelectionGroup) ([]models.BeamPosition, []error) {
	var positions []models.BeamPosition
	var errs []error
	for _, c := range combos {
		beams := grouping.BeamsFor(c, groups)
		if len(beams) == 0 {
			e.log.Debug("no beams for sheet", zap.String("sheet", c.SheetName))
			continue
		}
		pos, unitErrs, err := e.LayoutSheet(ctx, c, beams)
		positions = append(positions, pos...)
		errs = append(errs, unitErrs...)
		if err != nil {
			e.log.Error("sheet skipped", zap.String("sheet", c.SheetName), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return positions, errs
}

// LayoutSheet renders one combination. beams must be ordered by group id then
// position in group, as returned by grouping.BeamsFor. The returned error is
// non-nil only when the sheet itself could not be prepared; unitErrs holds the
// per-beam, header and print area failures that were skipped.
func (e *Engine) LayoutSheet(ctx context.Context, c models.SheetCombination, beams []models.SheetBeam) (positions []models.BeamPosition, unitErrs []error, err error) {
	sheet := c.SheetName
	if len(beams) == 0 {
		return nil, nil, nil
	}
	if err := e.prepareSheet(sheet); err != nil {
		return nil, nil, NewLayoutError(sheet, "sheet", err)
	}
	log := e.log.With(zap.String("sheet", sheet))

	g, maxBeams := -1, 0
	for start := 0; start < len(beams); {
		end := start
		for end < len(beams) && beams[end].GroupID == beams[start].GroupID {
			end++
		}
		g++
		group := beams[start:end]
		maxBeams = max(maxBeams, len(group))
		for k, b := range group {
			pos, err := e.placeBeam(ctx, c, b, g, k)
			if err != nil {
				lerr := NewLayoutError(sheet, "beam "+b.UniqueID, err)
				log.Warn("beam skipped", zap.String("beam", b.UniqueID), zap.Int("group", b.GroupID), zap.Error(err))
				unitErrs = append(unitErrs, lerr)
				continue
			}
			positions = append(positions, pos)
		}
		if err := e.writeHeader(sheet, group[0].GroupID, len(group), BandStart(g)); err != nil {
			log.Warn("group header not written", zap.Int("group", group[0].GroupID), zap.Error(err))
			unitErrs = append(unitErrs, NewLayoutError(sheet, "header", err))
		}
		start = end
	}

	if e.opts.PrintArea {
		area := models.CellArea{
			R1: 1,
			C1: 1,
			R2: BandStart(g) + BandHeight - 1,
			C2: SubBlockColumn(maxBeams-1) + SubBlock.Width() - 1,
		}
		if err := e.wb.SetPrintArea(sheet, area); err != nil {
			log.Warn("print area not set", zap.Error(err))
			unitErrs = append(unitErrs, NewLayoutError(sheet, "print_area", err))
		}
	}
	log.Info("sheet laid out", zap.Int("groups", g+1), zap.Int("beams", len(positions)))
	return positions, unitErrs, nil
}

// prepareSheet adds the sheet or clears it when the workbook already has it.
// Sheet names are case-insensitive, so a second combination whose name differs
// only in case would overwrite the first one and is rejected.
func (e *Engine) prepareSheet(sheet string) error {
	key := strings.ToLower(sheet)
	if e.written[key] {
		return fmt.Errorf("sheet name %q already used in this run: %w", sheet, grouping.ErrSheetNameCollision)
	}
	for _, name := range e.wb.SheetNames() {
		if strings.EqualFold(name, sheet) {
			if err := e.wb.ClearSheet(name); err != nil {
				return fmt.Errorf("clear sheet: %w", err)
			}
			e.written[key] = true
			return nil
		}
	}
	if err := e.wb.AddSheet(sheet); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	e.written[key] = true
	return nil
}

func (e *Engine) placeBeam(ctx context.Context, c models.SheetCombination, b models.SheetBeam, g, k int) (models.BeamPosition, error) {
	col, row := Anchor(g, k)
	src := SubBlock
	if k == 0 {
		src = TemplateBlock
	}
	if err := e.wb.CopyBlock(c.SheetName, src, col, row); err != nil {
		return models.BeamPosition{}, fmt.Errorf("copy block: %w", err)
	}
	label, story := e.q.LabelAndStory(ctx, b.UniqueID)
	section := e.q.SectionName(ctx, b.UniqueID)
	fields := []struct {
		at Offset
		v  any
	}{
		{e.opts.Fields.Label, label},
		{e.opts.Fields.Order, b.Order},
		{e.opts.Fields.GroupID, b.GroupID},
		{e.opts.Fields.Scenario, c.Scenario.DisplayName()},
		{e.opts.Fields.Story, story},
		{e.opts.Fields.Section, section},
	}
	for _, f := range fields {
		fc, fr := f.at.Cell(k, row)
		if err := e.wb.SetValue(c.SheetName, fc, fr, f.v); err != nil {
			return models.BeamPosition{}, fmt.Errorf("write field at %s%d: %w", ColumnName(fc), fr, err)
		}
	}
	return models.BeamPosition{
		UniqueID:  b.UniqueID,
		SheetName: c.SheetName,
		Column:    ColumnName(col),
		Row:       row,
	}, nil
}

func (e *Engine) writeHeader(sheet string, groupID, count, bandStart int) error {
	row := HeaderRow(bandStart)
	values := [headerWidth]any{fmt.Sprintf("Group %d", groupID), sheet, fmt.Sprintf("%d beams", count)}
	for i, v := range values {
		if err := e.wb.SetValue(sheet, i+1, row, v); err != nil {
			return err
		}
	}
	err := e.wb.StyleHeader(sheet, 1, headerWidth, row, e.opts.HeaderTint)
	if err == nil || !e.opts.HeaderTint {
		return err
	}
	e.log.Warn("header tint failed, styling without it", zap.String("sheet", sheet), zap.Int("group", groupID), zap.Error(err))
	if plain := e.wb.StyleHeader(sheet, 1, headerWidth, row, false); plain != nil {
		return errors.Join(err, plain)
	}
	return nil
}

// ValidateFields checks that every field offset lies inside the sub-block and
// that no two fields share a cell.
func ValidateFields(f FieldOffsets) error {
	named := []struct {
		name string
		at   Offset
	}{
		{"label", f.Label},
		{"order", f.Order},
		{"group_id", f.GroupID},
		{"scenario", f.Scenario},
		{"story", f.Story},
		{"section", f.Section},
	}
	seen := make(map[Offset]string)
	for _, n := range named {
		if !n.at.Valid() {
			return fmt.Errorf("field %s offset (%d,%d) outside the beam block", n.name, n.at.Row, n.at.Col)
		}
		if other, ok := seen[n.at]; ok {
			return fmt.Errorf("fields %s and %s share offset (%d,%d)", other, n.name, n.at.Row, n.at.Col)
		}
		seen[n.at] = n.name
	}
	return nil
}
