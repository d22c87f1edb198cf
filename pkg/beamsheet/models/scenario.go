// Package models defines the data structures shared by the selection, storage and layout stages.
package models

// Scenario is one of the two fixed top-level design contexts beams are tagged under.
type Scenario string

const (
	// ScenarioA is the substructure scenario.
	ScenarioA Scenario = "A"
	// ScenarioB is the superstructure scenario.
	ScenarioB Scenario = "B"
)

// Scenarios lists the scenarios in processing order.
var Scenarios = []Scenario{ScenarioA, ScenarioB}

// Valid reports whether s is one of the fixed scenarios.
func (s Scenario) Valid() bool {
	return s == ScenarioA || s == ScenarioB
}

// DisplayName returns the name shown in summaries and written into report blocks.
func (s Scenario) DisplayName() string {
	switch s {
	case ScenarioA:
		return "Infrastructura"
	case ScenarioB:
		return "Suprastructura"
	default:
		return string(s)
	}
}

// Code returns the 4-character prefix used in sheet names.
func (s Scenario) Code() string {
	switch s {
	case ScenarioA:
		return "Infr"
	case ScenarioB:
		return "Supr"
	}
	code := []rune(string(s))
	if len(code) == 0 {
		return "Unkn"
	}
	for len(code) < 4 {
		code = append(code, 'x')
	}
	return string(code[:4])
}

// ScenarioFromDisplayName maps a display name (or a bare scenario tag) back to its scenario.
func ScenarioFromDisplayName(name string) (Scenario, bool) {
	for _, sc := range Scenarios {
		if name == sc.DisplayName() || name == string(sc) {
			return sc, true
		}
	}
	return "", false
}
