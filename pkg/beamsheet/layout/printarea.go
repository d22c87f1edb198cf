package layout

import (
	"fmt"
	"strings"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"github.com/xuri/excelize/v2"
)

const printAreaName = "_xlnm.Print_Area"

// SetPrintArea defines the print area of sheet, replacing any previous one.
func (w *ExcelWorkbook) SetPrintArea(sheet string, area models.CellArea) error {
	ref, err := areaReference(sheet, area)
	if err != nil {
		return err
	}
	_ = w.f.DeleteDefinedName(&excelize.DefinedName{Name: printAreaName, Scope: sheet})
	return w.f.SetDefinedName(&excelize.DefinedName{
		Name:     printAreaName,
		RefersTo: ref,
		Scope:    sheet,
	})
}

// areaReference formats area as an absolute reference, e.g. 'Infr-P1-X'!$A$1:$CQ$53.
func areaReference(sheet string, area models.CellArea) (string, error) {
	tl, err := excelize.CoordinatesToCellName(area.C1, area.R1, true)
	if err != nil {
		return "", err
	}
	br, err := excelize.CoordinatesToCellName(area.C2, area.R2, true)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("'%s'!%s:%s", strings.ReplaceAll(sheet, "'", "''"), tl, br), nil
}

// ReadPrintAreas extracts print areas from a workbook.
// Returns a map of sheet name to list of print areas.
func ReadPrintAreas(f *excelize.File) map[string][]models.CellArea {
	result := make(map[string][]models.CellArea)
	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, printAreaName) {
			continue
		}
		sheetName, areas := parsePrintAreaReference(dn.RefersTo)
		if sheetName == "" {
			sheetName = dn.Scope
		}
		if sheetName != "" && len(areas) > 0 {
			result[sheetName] = append(result[sheetName], areas...)
		}
	}
	return result
}

// parsePrintAreaReference parses a print area reference string.
// Format: 'SheetName'!$A$1:$D$10 or SheetName!$A$1:$D$10
func parsePrintAreaReference(ref string) (string, []models.CellArea) {
	var areas []models.CellArea
	var sheetName string
	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			continue
		}
		sheet := strings.ReplaceAll(strings.Trim(part[:idx], "'"), "''", "'")
		if sheetName == "" {
			sheetName = sheet
		}
		if area := parseRangeToArea(part[idx+1:]); area != nil {
			areas = append(areas, *area)
		}
	}
	return sheetName, areas
}

// parseRangeToArea parses a range string like $A$1:$D$10.
func parseRangeToArea(rangeStr string) *models.CellArea {
	parts := strings.Split(strings.ReplaceAll(rangeStr, "$", ""), ":")
	if len(parts) != 2 {
		return nil
	}
	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return nil
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return nil
	}
	return &models.CellArea{R1: startRow, C1: startCol, R2: endRow, C2: endCol}
}
