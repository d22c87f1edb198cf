package models

// CellRow represents a single non-empty report row.
type CellRow struct {
	// R is the row index (1-based).
	R int `json:"r"`
	// C maps column letter to cell value.
	C map[string]interface{} `json:"c"`
}
