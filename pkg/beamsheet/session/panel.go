package session

import (
	"fmt"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
)

// Button is a design-parameter toggle on the operator panel.
type Button string

const (
	ButtonDCL       Button = "DCL"
	ButtonDCM       Button = "DCM"
	ButtonDCH       Button = "DCH"
	ButtonSecondary Button = "Secundare"
	ButtonDirX      Button = "Dir X"
	ButtonDirY      Button = "Dir Y"
)

// Buttons lists every panel button in display order.
var Buttons = []Button{ButtonDCL, ButtonDCM, ButtonDCH, ButtonSecondary, ButtonDirX, ButtonDirY}

type scenarioPanel struct {
	flags map[Button]bool
	upper []string
	lower []string
}

// Panel holds the design parameters the operator is currently editing.
// Resistance class and story are shared by both scenarios; flags and
// combination lists are kept per scenario.
type Panel struct {
	resistance models.ResistanceClass
	story      string
	scenarios  map[models.Scenario]*scenarioPanel
}

// NewPanel returns a panel with every flag released and normal resistance.
func NewPanel() *Panel {
	p := &Panel{}
	p.Reset()
	return p
}

// Reset releases every button, clears combinations and story.
func (p *Panel) Reset() {
	p.resistance = models.ResistanceNormal
	p.story = ""
	p.scenarios = make(map[models.Scenario]*scenarioPanel, len(models.Scenarios))
	for _, sc := range models.Scenarios {
		p.scenarios[sc] = &scenarioPanel{flags: make(map[Button]bool)}
	}
}

func (p *Panel) scenario(sc models.Scenario) (*scenarioPanel, error) {
	s, ok := p.scenarios[sc]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", sc)
	}
	return s, nil
}

// Press applies a button press for scenario sc:
// DCL, DCM and DCH are exclusive and release Secundare;
// Secundare releases DCL, DCM, DCH and both directions;
// Dir X and Dir Y are exclusive and stay released while Secundare is on.
func (p *Panel) Press(sc models.Scenario, b Button) error {
	s, err := p.scenario(sc)
	if err != nil {
		return err
	}
	switch b {
	case ButtonDCL, ButtonDCM, ButtonDCH:
		for _, v := range []Button{ButtonDCL, ButtonDCM, ButtonDCH} {
			s.flags[v] = v == b
		}
		s.flags[ButtonSecondary] = false
	case ButtonSecondary:
		for _, v := range []Button{ButtonDCL, ButtonDCM, ButtonDCH, ButtonDirX, ButtonDirY} {
			s.flags[v] = false
		}
		s.flags[ButtonSecondary] = true
	case ButtonDirX, ButtonDirY:
		if s.flags[ButtonSecondary] {
			s.flags[ButtonDirX] = false
			s.flags[ButtonDirY] = false
			return nil
		}
		other := ButtonDirX
		if b == ButtonDirX {
			other = ButtonDirY
		}
		s.flags[b] = true
		s.flags[other] = false
	default:
		return fmt.Errorf("unknown button %q", b)
	}
	return nil
}

// Pressed reports whether button b is pressed for scenario sc.
func (p *Panel) Pressed(sc models.Scenario, b Button) bool {
	s, err := p.scenario(sc)
	if err != nil {
		return false
	}
	return s.flags[b]
}

// SetResistance sets the shared resistance class.
func (p *Panel) SetResistance(r models.ResistanceClass) error {
	if !r.Valid() {
		return fmt.Errorf("unknown resistance class %q", r)
	}
	p.resistance = r
	return nil
}

// SetStory sets the shared target story.
func (p *Panel) SetStory(story string) {
	p.story = story
}

// SetCombinations replaces the upper and lower combination lists of scenario sc.
func (p *Panel) SetCombinations(sc models.Scenario, upper, lower []string) error {
	s, err := p.scenario(sc)
	if err != nil {
		return err
	}
	s.upper = append([]string(nil), upper...)
	s.lower = append([]string(nil), lower...)
	return nil
}

// Snapshot returns the current parameters of scenario sc as an immutable Settings value.
func (p *Panel) Snapshot(sc models.Scenario) models.Settings {
	set := models.Settings{Resistance: p.resistance, Story: p.story}
	s, err := p.scenario(sc)
	if err != nil {
		return set
	}
	set.DCL = s.flags[ButtonDCL]
	set.DCM = s.flags[ButtonDCM]
	set.DCH = s.flags[ButtonDCH]
	set.Secondary = s.flags[ButtonSecondary]
	set.DirX = s.flags[ButtonDirX]
	set.DirY = s.flags[ButtonDirY]
	set.CombinationsUpper = append([]string(nil), s.upper...)
	set.CombinationsLower = append([]string(nil), s.lower...)
	return set
}
