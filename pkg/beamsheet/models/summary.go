package models

import "time"

// Summary is the structured report of all groups, settings and beams shown to the operator.
type Summary struct {
	// GeneratedAt is when the summary was built.
	GeneratedAt time.Time `json:"generated_at"`
	// Scenarios holds per-scenario summaries for scenarios that have groups.
	Scenarios []ScenarioSummary `json:"scenarios"`
}

// ScenarioSummary summarises one scenario.
type ScenarioSummary struct {
	Scenario   Scenario       `json:"scenario"`
	Name       string         `json:"name"`
	GroupCount int            `json:"group_count"`
	TotalBeams int            `json:"total_beams"`
	Groups     []GroupSummary `json:"groups"`
}

// GroupSummary summarises one group.
type GroupSummary struct {
	GroupID   int           `json:"group_id"`
	SheetName string        `json:"sheet_name"`
	Settings  Settings      `json:"settings"`
	Beams     []BeamSummary `json:"beams"`
}

// BeamSummary is the per-beam display info.
type BeamSummary struct {
	UniqueID    string  `json:"unique_id"`
	Label       string  `json:"label"`
	Story       string  `json:"story"`
	Length      float64 `json:"length"`
	SectionName string  `json:"section_name"`
	Material    string  `json:"material"`
}
