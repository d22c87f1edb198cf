package models

// ReportSheet holds what was read back from one generated sheet.
type ReportSheet struct {
	// Rows contains non-empty rows (only when rows were requested).
	Rows []CellRow `json:"rows,omitempty"`
	// Blocks lists the beam blocks recognised on the sheet, in layout order.
	Blocks []ReportBlock `json:"blocks,omitempty"`
	// PrintAreas contains the sheet's print areas.
	PrintAreas []CellArea `json:"print_areas,omitempty"`
}

// ReportBlock is a beam block recognised from its identifying fields.
type ReportBlock struct {
	// Label is the beam label written in the block.
	Label string `json:"label"`
	// Order is the position in group written in the block.
	Order int `json:"order"`
	// GroupID is the group id written in the block.
	GroupID int `json:"group_id"`
	// Scenario is the scenario derived from the written display name.
	Scenario Scenario `json:"scenario"`
	// Column is the block's anchor column letter.
	Column string `json:"column"`
	// Row is the block's anchor row.
	Row int `json:"row"`
}

// ReportData is the workbook-level read-back of a generated report.
type ReportData struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheets maps sheet name to its read-back data.
	Sheets map[string]ReportSheet `json:"sheets"`
}
