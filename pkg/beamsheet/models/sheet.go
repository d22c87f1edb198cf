package models

// DirectionCategory is the direction part of a sheet classification key.
type DirectionCategory string

const (
	DirectionSecondary DirectionCategory = "Secondary"
	DirectionBoth      DirectionCategory = "Both"
	DirectionX         DirectionCategory = "DirX"
	DirectionY         DirectionCategory = "DirY"
	DirectionNone      DirectionCategory = "NoDirection"
)

// SheetCombination is a deduplicated classification key and the sheet it renders to.
type SheetCombination struct {
	// Story is the operator-selected story.
	Story string `json:"story"`
	// Scenario is the scenario tag.
	Scenario Scenario `json:"scenario"`
	// Direction is the derived direction category.
	Direction DirectionCategory `json:"direction"`
	// Secondary mirrors the secondary flag of the key.
	Secondary bool `json:"secondary"`
	// SheetName is the bounded sheet name encoding the key.
	SheetName string `json:"sheet_name"`
}

// SheetBeam is one beam assigned to a sheet, in layout order.
type SheetBeam struct {
	// GroupID is the owning group.
	GroupID int `json:"group_id"`
	// Order is the 1-based position within the group.
	Order int `json:"order"`
	// UniqueID is the beam id.
	UniqueID string `json:"unique_id"`
}
