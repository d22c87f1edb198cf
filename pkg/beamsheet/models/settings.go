package models

import "time"

// ResistanceClass selects the material strength set used by the design checks.
type ResistanceClass string

const (
	// ResistanceNormal uses characteristic (normal) strengths.
	ResistanceNormal ResistanceClass = "Normale"
	// ResistanceMean uses mean strengths.
	ResistanceMean ResistanceClass = "Medii"
)

// Valid reports whether r is a known resistance class.
func (r ResistanceClass) Valid() bool {
	return r == ResistanceNormal || r == ResistanceMean
}

// Settings is the design-parameter snapshot frozen for one selection group.
type Settings struct {
	// Resistance is the resistance class.
	Resistance ResistanceClass `json:"resistance" yaml:"resistance"`
	// DCL marks low ductility class design.
	DCL bool `json:"dcl" yaml:"dcl"`
	// DCM marks medium ductility class design.
	DCM bool `json:"dcm" yaml:"dcm"`
	// DCH marks high ductility class design.
	DCH bool `json:"dch" yaml:"dch"`
	// Secondary marks the group as non-primary; it overrides the direction flags.
	Secondary bool `json:"secondary" yaml:"secondary"`
	// DirX marks design governed along the X axis.
	DirX bool `json:"dir_x" yaml:"dir_x"`
	// DirY marks design governed along the Y axis.
	DirY bool `json:"dir_y" yaml:"dir_y"`
	// Story is the story chosen by the operator for classification.
	Story string `json:"story" yaml:"story"`
	// CombinationsUpper lists the load combinations for the upper fibre checks.
	CombinationsUpper []string `json:"combinations_upper" yaml:"combinations_upper"`
	// CombinationsLower lists the load combinations for the lower fibre checks.
	CombinationsLower []string `json:"combinations_lower" yaml:"combinations_lower"`
	// SelectedAt is when selection for the group started.
	SelectedAt time.Time `json:"selected_at" yaml:"selected_at"`
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	out := s
	out.CombinationsUpper = append([]string(nil), s.CombinationsUpper...)
	out.CombinationsLower = append([]string(nil), s.CombinationsLower...)
	return out
}
