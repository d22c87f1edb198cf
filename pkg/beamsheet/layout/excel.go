package layout

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"github.com/xuri/excelize/v2"
)

// templateCell is one captured template cell.
type templateCell struct {
	value   any
	formula string
	style   int
}

// template is the captured template block.
type template struct {
	sheet   string
	cells   map[[2]int]templateCell // (col, row) -> cell
	merges  []models.CellArea
	widths  map[int]float64
	heights map[int]float64
}

// ExcelWorkbook implements Workbook on an excelize file.
type ExcelWorkbook struct {
	f        *excelize.File
	tpl      *template
	tint     string
	styles   map[bool]int
	newStyle func(*excelize.Style) (int, error)
}

// ExcelOptions configures OpenExcel.
type ExcelOptions struct {
	// TemplateSheet names the sheet holding the template block; empty means the first sheet.
	TemplateSheet string
	// HeaderTint is the group header fill color.
	HeaderTint string
}

// OpenExcel opens the workbook at path and captures its template block.
func OpenExcel(path string, opts ExcelOptions) (*ExcelWorkbook, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, path, err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	wb, err := NewExcelWorkbook(f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	return wb, nil
}

// NewExcelWorkbook wraps an open excelize file and captures its template block.
func NewExcelWorkbook(f *excelize.File, opts ExcelOptions) (*ExcelWorkbook, error) {
	sheet := opts.TemplateSheet
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrTemplateNotFound)
		}
		sheet = list[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: sheet %q", ErrTemplateNotFound, sheet)
	}
	tpl, err := captureTemplate(f, sheet)
	if err != nil {
		return nil, err
	}
	tint := opts.HeaderTint
	if tint == "" {
		tint = DefaultHeaderTint
	}
	return &ExcelWorkbook{
		f:        f,
		tpl:      tpl,
		tint:     tint,
		styles:   make(map[bool]int),
		newStyle: f.NewStyle,
	}, nil
}

// File returns the underlying excelize file.
func (w *ExcelWorkbook) File() *excelize.File {
	return w.f
}

// TemplateSheet returns the name of the template sheet.
func (w *ExcelWorkbook) TemplateSheet() string {
	return w.tpl.sheet
}

func captureTemplate(f *excelize.File, sheet string) (*template, error) {
	tpl := &template{
		sheet:   sheet,
		cells:   make(map[[2]int]templateCell),
		widths:  make(map[int]float64),
		heights: make(map[int]float64),
	}
	raw := excelize.Options{RawCellValue: true}
	for row := TemplateBlock.R1; row <= TemplateBlock.R2; row++ {
		h, err := f.GetRowHeight(sheet, row)
		if err != nil {
			return nil, fmt.Errorf("template row %d height: %w", row, err)
		}
		tpl.heights[row] = h
		for col := TemplateBlock.C1; col <= TemplateBlock.C2; col++ {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			style, err := f.GetCellStyle(sheet, cell)
			if err != nil {
				return nil, fmt.Errorf("template cell %s style: %w", cell, err)
			}
			formula, err := f.GetCellFormula(sheet, cell)
			if err != nil {
				return nil, fmt.Errorf("template cell %s formula: %w", cell, err)
			}
			text, err := f.GetCellValue(sheet, cell, raw)
			if err != nil {
				return nil, fmt.Errorf("template cell %s value: %w", cell, err)
			}
			typ, err := f.GetCellType(sheet, cell)
			if err != nil {
				return nil, fmt.Errorf("template cell %s type: %w", cell, err)
			}
			if style == 0 && formula == "" && text == "" {
				continue
			}
			tpl.cells[[2]int{col, row}] = templateCell{
				value:   typedValue(typ, text),
				formula: formula,
				style:   style,
			}
		}
	}
	for col := TemplateBlock.C1; col <= TemplateBlock.C2; col++ {
		w, err := f.GetColWidth(sheet, ColumnName(col))
		if err != nil {
			return nil, fmt.Errorf("template column %d width: %w", col, err)
		}
		tpl.widths[col] = w
	}
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, fmt.Errorf("template merges: %w", err)
	}
	for _, m := range merges {
		area := parseRangeToArea(m.GetStartAxis() + ":" + m.GetEndAxis())
		if area != nil && blockContains(TemplateBlock, *area) {
			tpl.merges = append(tpl.merges, *area)
		}
	}
	return tpl, nil
}

// typedValue turns a raw cell text into the value written back on copy.
func typedValue(typ excelize.CellType, text string) any {
	if text == "" {
		return nil
	}
	switch typ {
	case excelize.CellTypeBool:
		return text == "1" || text == "TRUE" || text == "true"
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return text
	default:
		return parseValue(text)
	}
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func blockContains(outer, inner models.CellArea) bool {
	return outer.Contains(inner.C1, inner.R1) && outer.Contains(inner.C2, inner.R2)
}

func (w *ExcelWorkbook) SheetNames() []string {
	return w.f.GetSheetList()
}

func (w *ExcelWorkbook) AddSheet(name string) error {
	if idx, err := w.f.GetSheetIndex(name); err != nil {
		return err
	} else if idx >= 0 {
		return fmt.Errorf("sheet %q already exists", name)
	}
	_, err := w.f.NewSheet(name)
	return err
}

func (w *ExcelWorkbook) ClearSheet(name string) error {
	if strings.EqualFold(name, w.tpl.sheet) {
		return fmt.Errorf("sheet %q is the template sheet", name)
	}
	if err := w.f.DeleteSheet(name); err != nil {
		return err
	}
	_, err := w.f.NewSheet(name)
	return err
}

func (w *ExcelWorkbook) CopyBlock(sheet string, src models.CellArea, col, row int) error {
	if !blockContains(TemplateBlock, src) {
		return fmt.Errorf("source %v outside the template block", src)
	}
	dc, dr := col-src.C1, row-src.R1
	for r := src.R1; r <= src.R2; r++ {
		for c := src.C1; c <= src.C2; c++ {
			tc, ok := w.tpl.cells[[2]int{c, r}]
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+dc, r+dr)
			if err != nil {
				return err
			}
			if tc.style != 0 {
				if err := w.f.SetCellStyle(sheet, cell, cell, tc.style); err != nil {
					return fmt.Errorf("style %s: %w", cell, err)
				}
			}
			if tc.formula != "" {
				if err := w.f.SetCellFormula(sheet, cell, ShiftFormula(tc.formula, dc, dr)); err != nil {
					return fmt.Errorf("formula %s: %w", cell, err)
				}
				continue
			}
			if tc.value != nil {
				if err := w.f.SetCellValue(sheet, cell, tc.value); err != nil {
					return fmt.Errorf("value %s: %w", cell, err)
				}
			}
		}
	}
	for c := src.C1; c <= src.C2; c++ {
		name := ColumnName(c + dc)
		if err := w.f.SetColWidth(sheet, name, name, w.tpl.widths[c]); err != nil {
			return fmt.Errorf("column %s width: %w", name, err)
		}
	}
	for r := src.R1; r <= src.R2; r++ {
		if err := w.f.SetRowHeight(sheet, r+dr, w.tpl.heights[r]); err != nil {
			return fmt.Errorf("row %d height: %w", r+dr, err)
		}
	}
	for _, m := range w.tpl.merges {
		if !blockContains(src, m) {
			continue
		}
		tl, _ := excelize.CoordinatesToCellName(m.C1+dc, m.R1+dr)
		br, _ := excelize.CoordinatesToCellName(m.C2+dc, m.R2+dr)
		if err := w.f.MergeCell(sheet, tl, br); err != nil {
			return fmt.Errorf("merge %s:%s: %w", tl, br, err)
		}
	}
	return nil
}

func (w *ExcelWorkbook) SetValue(sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return w.f.SetCellValue(sheet, cell, v)
}

func (w *ExcelWorkbook) SaveAs(path string) error {
	return w.f.SaveAs(path)
}

func (w *ExcelWorkbook) Close() error {
	return w.f.Close()
}

// DeleteTemplateSheet removes the template sheet from the workbook.
func (w *ExcelWorkbook) DeleteTemplateSheet() error {
	if len(w.f.GetSheetList()) < 2 {
		return fmt.Errorf("cannot delete the only sheet %q", w.tpl.sheet)
	}
	if err := w.f.DeleteSheet(w.tpl.sheet); err != nil {
		return err
	}
	w.f.SetActiveSheet(0)
	return nil
}
