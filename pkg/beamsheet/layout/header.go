package layout

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// DefaultHeaderTint is the background of group header cells.
const DefaultHeaderTint = "#DDEBF7"

// HeaderFontSize is the point size of group header text.
const HeaderFontSize = 14

func (w *ExcelWorkbook) headerStyle(tint bool) (int, error) {
	if id, ok := w.styles[tint]; ok {
		return id, nil
	}
	style := &excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: HeaderFontSize},
		Alignment: &excelize.Alignment{Vertical: "center"},
	}
	if tint {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{w.tint}}
	}
	id, err := w.newStyle(style)
	if err != nil {
		return 0, err
	}
	w.styles[tint] = id
	return id, nil
}

func (w *ExcelWorkbook) StyleHeader(sheet string, col1, col2, row int, tint bool) error {
	id, err := w.headerStyle(tint)
	if err != nil {
		return fmt.Errorf("header style (tint %v): %w", tint, err)
	}
	tl, err := excelize.CoordinatesToCellName(col1, row)
	if err != nil {
		return err
	}
	br, err := excelize.CoordinatesToCellName(col2, row)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, tl, br, id)
}
