// Package layout renders sheet combinations into a report workbook by tiling
// copies of a template block, and reads generated reports back.
package layout

import (
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"github.com/xuri/excelize/v2"
)

const (
	// BandHeight is the number of rows reserved per group.
	BandHeight = 54
	// TemplateRows is the height of the template block (A1:BC53).
	TemplateRows = 53
	// TemplateLastCol is the last template column ("BC").
	TemplateLastCol = 55
	// SubBlockFirstCol is the first beam-level column ("P"); columns before it hold group data.
	SubBlockFirstCol = 16
	// BeamStride is the column distance between consecutive beam sub-blocks.
	BeamStride = 40
)

// TemplateBlock is the full block copied for the first beam of a group.
var TemplateBlock = models.CellArea{R1: 1, C1: 1, R2: TemplateRows, C2: TemplateLastCol}

// SubBlock is the beam-level part of the template copied for every later beam.
var SubBlock = models.CellArea{R1: 1, C1: SubBlockFirstCol, R2: TemplateRows, C2: TemplateLastCol}

// BandStart returns the first row of the band of the zero-based group index g.
func BandStart(g int) int {
	return 1 + BandHeight*g
}

// BeamColumn returns the anchor column of the zero-based beam index k within a group.
// The first beam owns the full block at column 1; beam k > 0 starts at 16 + 40k.
func BeamColumn(k int) int {
	if k == 0 {
		return 1
	}
	return SubBlockFirstCol + BeamStride*k
}

// SubBlockColumn returns the first column of beam k's beam-level sub-block.
func SubBlockColumn(k int) int {
	return SubBlockFirstCol + BeamStride*k
}

// HeaderRow returns the row of the group header for a band starting at bandStart:
// two rows above the band, or the band's spare last row when that is above row 1.
func HeaderRow(bandStart int) int {
	if r := bandStart - 2; r >= 1 {
		return r
	}
	return bandStart + BandHeight - 1
}

// Anchor returns the top-left cell of beam k of group g.
func Anchor(g, k int) (col, row int) {
	return BeamColumn(k), BandStart(g)
}

// ColumnName converts a 1-based column number to its letters.
func ColumnName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return ""
	}
	return name
}

// Offset is a zero-based (row, column) offset inside a beam sub-block.
type Offset struct {
	Row int `yaml:"row" json:"row"`
	Col int `yaml:"col" json:"col"`
}

// FieldOffsets places the identifying fields of a beam inside its sub-block.
type FieldOffsets struct {
	Label    Offset `yaml:"label" json:"label"`
	Order    Offset `yaml:"order" json:"order"`
	GroupID  Offset `yaml:"group_id" json:"group_id"`
	Scenario Offset `yaml:"scenario" json:"scenario"`
	Story    Offset `yaml:"story" json:"story"`
	Section  Offset `yaml:"section" json:"section"`
}

// DefaultFieldOffsets returns the field placement of the standard template:
// the third row of the sub-block, starting at its third column.
func DefaultFieldOffsets() FieldOffsets {
	return FieldOffsets{
		Label:    Offset{Row: 2, Col: 2},
		Order:    Offset{Row: 2, Col: 3},
		GroupID:  Offset{Row: 2, Col: 4},
		Scenario: Offset{Row: 2, Col: 5},
		Story:    Offset{Row: 2, Col: 6},
		Section:  Offset{Row: 2, Col: 7},
	}
}

// Cell returns the absolute cell of offset o for beam k of a band starting at row bandStart.
func (o Offset) Cell(k, bandStart int) (col, row int) {
	return SubBlockColumn(k) + o.Col, bandStart + o.Row
}

// Valid reports whether o lies inside the sub-block.
func (o Offset) Valid() bool {
	return o.Row >= 0 && o.Row < TemplateRows && o.Col >= 0 && o.Col < SubBlock.Width()
}
