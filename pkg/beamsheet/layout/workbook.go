package layout

import (
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
)

// Workbook is the spreadsheet engine the layout drives. Copies always come
// from the template block captured when the workbook was opened.
type Workbook interface {
	// SheetNames lists the sheets in workbook order.
	SheetNames() []string
	// AddSheet creates an empty sheet.
	AddSheet(name string) error
	// ClearSheet empties an existing sheet.
	ClearSheet(name string) error
	// CopyBlock copies src of the template to sheet with its top-left at (col, row),
	// keeping values, formulas, styles, merges, column widths and row heights.
	CopyBlock(sheet string, src models.CellArea, col, row int) error
	// SetValue writes a scalar to one cell.
	SetValue(sheet string, col, row int, v any) error
	// StyleHeader applies the group header style to cells col1..col2 of row,
	// with or without the background tint.
	StyleHeader(sheet string, col1, col2, row int, tint bool) error
	// SetPrintArea sets the print area of sheet.
	SetPrintArea(sheet string, area models.CellArea) error
	// SaveAs writes the workbook to path.
	SaveAs(path string) error
	// Close releases the workbook.
	Close() error
}
