package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"github.com/xuri/excelize/v2"
)

// ScanOptions configures ScanReport.
type ScanOptions struct {
	// Fields is where the identifying fields were written.
	Fields FieldOffsets
	// IncludeRows keeps the non-empty rows of every sheet.
	IncludeRows bool
	// Sheets restricts the scan to these sheets; empty means all.
	Sheets []string
}

// ScanReport reads a generated report back: its beam blocks, recognised from
// the identifying fields written at each anchor, and its print areas.
func ScanReport(path string, opts ScanOptions) (*models.ReportData, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("report %s: %w", path, err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	printAreas := ReadPrintAreas(f)
	sheets := make(map[string]models.ReportSheet)
	for _, name := range f.GetSheetList() {
		if len(opts.Sheets) > 0 && !containsFold(opts.Sheets, name) {
			continue
		}
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		sheet := models.ReportSheet{
			Blocks:     findBlocks(rows, opts.Fields),
			PrintAreas: printAreas[name],
		}
		if opts.IncludeRows {
			sheet.Rows = cellRows(rows)
		}
		sheets[name] = sheet
	}
	return &models.ReportData{
		BookName: filepath.Base(path),
		Sheets:   sheets,
	}, nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// cellRows converts the non-empty rows of a sheet, keyed by column letter.
func cellRows(rows [][]string) []models.CellRow {
	var result []models.CellRow
	for rowIdx, row := range rows {
		cellMap := make(map[string]interface{})
		for colIdx, cellValue := range row {
			if cellValue == "" {
				continue
			}
			cellMap[ColumnName(colIdx+1)] = parseValue(cellValue)
		}
		if len(cellMap) > 0 {
			result = append(result, models.CellRow{R: rowIdx + 1, C: cellMap})
		}
	}
	return result
}

// findBlocks walks the band grid inside the data bounds and keeps every anchor
// whose order, group and scenario fields parse.
func findBlocks(rows [][]string, fields FieldOffsets) []models.ReportBlock {
	_, maxRow, _, maxCol := findDataBounds(rows)
	if maxRow < 0 {
		return nil
	}
	cell := func(at Offset, k, bandStart int) string {
		col, row := at.Cell(k, bandStart)
		if row-1 >= len(rows) || col-1 >= len(rows[row-1]) {
			return ""
		}
		return strings.TrimSpace(rows[row-1][col-1])
	}
	var blocks []models.ReportBlock
	for g := 0; BandStart(g) <= maxRow+1; g++ {
		bandStart := BandStart(g)
		for k := 0; SubBlockColumn(k) <= maxCol+1; k++ {
			order, err := strconv.Atoi(cell(fields.Order, k, bandStart))
			if err != nil || order < 1 {
				continue
			}
			group, err := strconv.Atoi(cell(fields.GroupID, k, bandStart))
			if err != nil || group < 1 {
				continue
			}
			sc, ok := models.ScenarioFromDisplayName(cell(fields.Scenario, k, bandStart))
			if !ok {
				continue
			}
			col, row := Anchor(g, k)
			blocks = append(blocks, models.ReportBlock{
				Label:    cell(fields.Label, k, bandStart),
				Order:    order,
				GroupID:  group,
				Scenario: sc,
				Column:   ColumnName(col),
				Row:      row,
			})
		}
	}
	return blocks
}

// findDataBounds finds the zero-based bounding box of non-empty cells;
// all four are -1 when the sheet is empty.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != "" {
				if minRow < 0 || rowIdx < minRow {
					minRow = rowIdx
				}
				if maxRow < 0 || rowIdx > maxRow {
					maxRow = rowIdx
				}
				if minCol < 0 || colIdx < minCol {
					minCol = colIdx
				}
				if maxCol < 0 || colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}

	return
}
