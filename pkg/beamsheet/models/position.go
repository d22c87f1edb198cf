package models

// BeamPosition records where the layout placed a beam block.
type BeamPosition struct {
	// UniqueID is the beam id.
	UniqueID string `json:"unique_id"`
	// SheetName is the sheet holding the block.
	SheetName string `json:"sheet_name"`
	// Column is the column letter of the block's top-left cell.
	Column string `json:"column"`
	// Row is the row of the block's top-left cell.
	Row int `json:"row"`
}

// CellArea represents cell coordinate bounds.
type CellArea struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2"`
}

// Width returns the number of columns covered.
func (a CellArea) Width() int { return a.C2 - a.C1 + 1 }

// Height returns the number of rows covered.
func (a CellArea) Height() int { return a.R2 - a.R1 + 1 }

// Contains reports whether the 1-based cell lies inside the area.
func (a CellArea) Contains(col, row int) bool {
	return col >= a.C1 && col <= a.C2 && row >= a.R1 && row <= a.R2
}
