package models

import "time"

// SelectionGroup is an operator-confirmed batch of beams sharing one settings snapshot.
type SelectionGroup struct {
	// Scenario is the scenario the group was selected under.
	Scenario Scenario `json:"scenario"`
	// GroupID is the 1-based group number within the scenario.
	GroupID int `json:"group_id"`
	// Beams lists beam unique ids in selection order.
	Beams []string `json:"beams"`
	// Settings is the frozen design-parameter snapshot.
	Settings Settings `json:"settings"`
}

// Clone returns a deep copy of g.
func (g SelectionGroup) Clone() SelectionGroup {
	out := g
	out.Beams = append([]string(nil), g.Beams...)
	out.Settings = g.Settings.Clone()
	return out
}

// GroupingDocumentVersion is the current grouping document format version.
const GroupingDocumentVersion = 2

// GroupingDocument mirrors the accumulated groups of a selection session.
// It is the bridge between the session and the store rebuild.
type GroupingDocument struct {
	// Version is the document format version.
	Version int `json:"version"`
	// ID identifies the design session that produced the document.
	ID string `json:"id"`
	// UpdatedAt is when the document was last written.
	UpdatedAt time.Time `json:"updated_at"`
	// Scenarios maps scenario to its groups in ascending group id order.
	Scenarios map[Scenario][]SelectionGroup `json:"scenarios"`
}

// Groups returns every group, scenario A first, each scenario in group order.
func (d *GroupingDocument) Groups() []SelectionGroup {
	var out []SelectionGroup
	for _, sc := range Scenarios {
		out = append(out, d.Scenarios[sc]...)
	}
	return out
}

// BeamCount returns the number of beams across all groups.
func (d *GroupingDocument) BeamCount() int {
	n := 0
	for _, g := range d.Groups() {
		n += len(g.Beams)
	}
	return n
}
