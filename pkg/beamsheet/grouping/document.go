// Package grouping persists selection groups as a grouping document and
// classifies groups into report sheets.
package grouping

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
)

// ErrInvalidDocument indicates the grouping document could not be understood.
var ErrInvalidDocument = errors.New("invalid grouping document")

// wireDocument covers both the current and the legacy on-disk layouts.
type wireDocument struct {
	Version   int                     `json:"version,omitempty"`
	ID        string                  `json:"id,omitempty"`
	UpdatedAt time.Time               `json:"updated_at,omitempty"`
	Scenarios map[string]wireScenario `json:"scenarios,omitempty"`

	// Legacy layout: one object per scenario with shared settings.
	Timestamp string          `json:"timestamp,omitempty"`
	ScenarioA *legacyScenario `json:"scenario_a,omitempty"`
	ScenarioB *legacyScenario `json:"scenario_b,omitempty"`
}

type wireScenario struct {
	Groups []models.SelectionGroup `json:"groups"`
}

type legacyScenario struct {
	BeamGroups   [][]string          `json:"beam_groups"`
	Resistance   string              `json:"rezistente_type"`
	Story        *string             `json:"etaj"`
	Upper        []string            `json:"selected_combinations_upper"`
	Lower        []string            `json:"selected_combinations_lower"`
	ButtonStates map[string]flexBool `json:"button_states"`
}

// flexBool accepts JSON booleans as well as "True"/"False" strings.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = flexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("flag %s: neither bool nor string", data)
	}
	*b = flexBool(ParseFlag(s))
	return nil
}

var legacyTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseLegacyTime(s string) time.Time {
	for _, layout := range legacyTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Save writes doc to path as indented JSON, replacing the file atomically.
// It assigns doc.ID when empty and stamps doc.UpdatedAt.
func Save(path string, doc *models.GroupingDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.Version = models.GroupingDocumentVersion
	doc.UpdatedAt = time.Now().UTC()

	w := wireDocument{
		Version:   doc.Version,
		ID:        doc.ID,
		UpdatedAt: doc.UpdatedAt,
		Scenarios: make(map[string]wireScenario, len(doc.Scenarios)),
	}
	for sc, groups := range doc.Scenarios {
		w.Scenarios[string(sc)] = wireScenario{Groups: groups}
	}
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return fmt.Errorf("encode grouping document: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads the grouping document at path. Legacy documents are normalized:
// every legacy group receives a copy of its scenario-level settings.
// A missing file yields an error matching os.ErrNotExist.
func Load(path string) (*models.GroupingDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses a grouping document in either layout.
func Decode(data []byte) (*models.GroupingDocument, error) {
	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	doc := &models.GroupingDocument{
		Version:   models.GroupingDocumentVersion,
		ID:        w.ID,
		UpdatedAt: w.UpdatedAt,
		Scenarios: make(map[models.Scenario][]models.SelectionGroup),
	}
	switch {
	case w.Scenarios != nil:
		for key, ws := range w.Scenarios {
			sc := models.Scenario(strings.ToUpper(key))
			if !sc.Valid() {
				return nil, fmt.Errorf("%w: unknown scenario %q", ErrInvalidDocument, key)
			}
			groups := make([]models.SelectionGroup, 0, len(ws.Groups))
			for i, g := range ws.Groups {
				g.Scenario = sc
				if g.GroupID == 0 {
					g.GroupID = i + 1
				}
				groups = append(groups, g)
			}
			doc.Scenarios[sc] = groups
		}
	case w.ScenarioA != nil || w.ScenarioB != nil:
		ts := parseLegacyTime(w.Timestamp)
		doc.UpdatedAt = ts
		if w.ScenarioA != nil {
			doc.Scenarios[models.ScenarioA] = w.ScenarioA.groups(models.ScenarioA, ts)
		}
		if w.ScenarioB != nil {
			doc.Scenarios[models.ScenarioB] = w.ScenarioB.groups(models.ScenarioB, ts)
		}
	default:
		return nil, fmt.Errorf("%w: no scenarios", ErrInvalidDocument)
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (l *legacyScenario) groups(sc models.Scenario, ts time.Time) []models.SelectionGroup {
	set := models.Settings{
		Resistance:        models.ResistanceClass(l.Resistance),
		DCL:               bool(l.ButtonStates["DCL"]),
		DCM:               bool(l.ButtonStates["DCM"]),
		DCH:               bool(l.ButtonStates["DCH"]),
		Secondary:         bool(l.ButtonStates["Secundare"]),
		DirX:              bool(l.ButtonStates["Dir X"]),
		DirY:              bool(l.ButtonStates["Dir Y"]),
		CombinationsUpper: l.Upper,
		CombinationsLower: l.Lower,
		SelectedAt:        ts,
	}
	if !set.Resistance.Valid() {
		set.Resistance = models.ResistanceNormal
	}
	if l.Story != nil {
		set.Story = *l.Story
	}
	out := make([]models.SelectionGroup, 0, len(l.BeamGroups))
	for i, beams := range l.BeamGroups {
		out = append(out, models.SelectionGroup{
			Scenario: sc,
			GroupID:  i + 1,
			Beams:    append([]string(nil), beams...),
			Settings: set.Clone(),
		})
	}
	return out
}

func validate(doc *models.GroupingDocument) error {
	for sc, groups := range doc.Scenarios {
		seen := make(map[int]bool, len(groups))
		for _, g := range groups {
			if seen[g.GroupID] {
				return fmt.Errorf("%w: scenario %s has group %d twice", ErrInvalidDocument, sc, g.GroupID)
			}
			seen[g.GroupID] = true
		}
	}
	return nil
}

// Remove deletes the document at path; a missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
