package provider

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"gopkg.in/yaml.v3"
)

// Frame is one frame element in an offline model snapshot.
type Frame struct {
	ID        string                   `yaml:"id"`
	Label     string                   `yaml:"label"`
	Story     string                   `yaml:"story"`
	GUID      string                   `yaml:"guid"`
	Section   string                   `yaml:"section"`
	Material  string                   `yaml:"material"`
	Length    float64                  `yaml:"length"`
	Joints    models.EndJoints         `yaml:"joints"`
	Props     models.SectionProperties `yaml:"section_properties"`
	Modifiers models.Modifiers         `yaml:"modifiers"`
	Releases  models.EndReleases       `yaml:"releases"`
	Offsets   models.EndOffsets        `yaml:"offsets"`
	Steel     models.SteelProperties   `yaml:"steel"`
	// Fail lists queries that return an error for this frame
	// (label_and_story, guid, section_name, section_material, length,
	// end_joints, section_properties, modifiers, end_releases, end_offsets, steel_properties).
	Fail []string `yaml:"fail"`
}

// Snapshot is the YAML document describing an offline model.
type Snapshot struct {
	Name         string   `yaml:"name"`
	Stories      []string `yaml:"stories"`
	Combinations []string `yaml:"combinations"`
	Frames       []Frame  `yaml:"frames"`
	Selection    []string `yaml:"selection"`
}

// Offline is a Provider backed by a model snapshot instead of a live host
// application. When a selection file is set, the selection is re-read from it
// on every query so an operator (or a test) can change it between polls.
type Offline struct {
	mu            sync.Mutex
	snap          Snapshot
	index         map[string]int
	selection     []string
	hidden        map[string]bool
	selectionFile string
	unavailable   bool
}

// NewOffline creates an Offline provider from a snapshot.
func NewOffline(snap Snapshot) *Offline {
	o := &Offline{
		snap:      snap,
		index:     make(map[string]int, len(snap.Frames)),
		selection: append([]string(nil), snap.Selection...),
		hidden:    make(map[string]bool),
	}
	for i, f := range snap.Frames {
		o.index[f.ID] = i
	}
	return o
}

// LoadOffline reads a YAML snapshot from path.
func LoadOffline(path string) (*Offline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrProviderUnavailable, path, err)
	}
	return NewOffline(snap), nil
}

// WithSelectionFile makes the selection come from path. The file holds
// element ids separated by whitespace or commas; a missing file means no selection.
func (o *Offline) WithSelectionFile(path string) *Offline {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.selectionFile = path
	return o
}

// SetUnavailable makes every call fail with ErrProviderUnavailable.
func (o *Offline) SetUnavailable(v bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.unavailable = v
}

// Select replaces the in-memory selection.
func (o *Offline) Select(ids ...string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.selection = append([]string(nil), ids...)
}

// Hidden returns the hidden element ids, sorted.
func (o *Offline) Hidden() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.hidden))
	for id := range o.hidden {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (o *Offline) check() error {
	if o.unavailable {
		return ErrProviderUnavailable
	}
	return nil
}

// frame returns the frame for id, failing when the query is marked as failing.
func (o *Offline) frame(id, query string) (Frame, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.check(); err != nil {
		return Frame{}, err
	}
	i, ok := o.index[id]
	if !ok {
		return Frame{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	f := o.snap.Frames[i]
	if slices.Contains(f.Fail, query) {
		return Frame{}, fmt.Errorf("%s %s: injected failure", query, id)
	}
	return f, nil
}

func (o *Offline) Ping(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.check()
}

func (o *Offline) StoryNames(ctx context.Context) ([]string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.check(); err != nil {
		return nil, err
	}
	return append([]string(nil), o.snap.Stories...), nil
}

func (o *Offline) CombinationNames(ctx context.Context) ([]string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.check(); err != nil {
		return nil, err
	}
	return append([]string(nil), o.snap.Combinations...), nil
}

// SelectedElementIDs returns selected, visible frames in model order.
func (o *Offline) SelectedElementIDs(ctx context.Context) ([]string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.check(); err != nil {
		return nil, err
	}
	if o.selectionFile != "" {
		sel, err := readSelectionFile(o.selectionFile)
		if err != nil {
			return nil, err
		}
		o.selection = sel
	}
	selected := make(map[string]bool, len(o.selection))
	for _, id := range o.selection {
		selected[id] = true
	}
	var out []string
	for _, f := range o.snap.Frames {
		if selected[f.ID] && !o.hidden[f.ID] {
			out = append(out, f.ID)
		}
	}
	return out, nil
}

func readSelectionFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return strings.FieldsFunc(string(data), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\r' || r == '\t'
	}), nil
}

func (o *Offline) ClearSelection(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.check(); err != nil {
		return err
	}
	o.selection = nil
	if o.selectionFile != "" {
		if err := os.WriteFile(o.selectionFile, nil, 0644); err != nil {
			return err
		}
	}
	return nil
}

func (o *Offline) HideElements(ctx context.Context, ids []string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.check(); err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := o.index[id]; ok {
			o.hidden[id] = true
		}
	}
	return nil
}

func (o *Offline) ShowAllElements(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.check(); err != nil {
		return err
	}
	o.hidden = make(map[string]bool)
	return nil
}

func (o *Offline) LabelAndStory(ctx context.Context, id string) (string, string, error) {
	f, err := o.frame(id, "label_and_story")
	if err != nil {
		return "", "", err
	}
	return f.Label, f.Story, nil
}

func (o *Offline) GlobalID(ctx context.Context, id string) (string, error) {
	f, err := o.frame(id, "guid")
	return f.GUID, err
}

func (o *Offline) SectionName(ctx context.Context, id string) (string, error) {
	f, err := o.frame(id, "section_name")
	return f.Section, err
}

func (o *Offline) SectionMaterial(ctx context.Context, id string) (string, error) {
	f, err := o.frame(id, "section_material")
	return f.Material, err
}

func (o *Offline) Length(ctx context.Context, id string) (float64, error) {
	f, err := o.frame(id, "length")
	return f.Length, err
}

func (o *Offline) EndJoints(ctx context.Context, id string) (models.EndJoints, error) {
	f, err := o.frame(id, "end_joints")
	return f.Joints, err
}

func (o *Offline) SectionProperties(ctx context.Context, id string) (models.SectionProperties, error) {
	f, err := o.frame(id, "section_properties")
	return f.Props, err
}

func (o *Offline) Modifiers(ctx context.Context, id string) (models.Modifiers, error) {
	f, err := o.frame(id, "modifiers")
	return f.Modifiers, err
}

func (o *Offline) EndReleases(ctx context.Context, id string) (models.EndReleases, error) {
	f, err := o.frame(id, "end_releases")
	return f.Releases, err
}

func (o *Offline) EndOffsets(ctx context.Context, id string) (models.EndOffsets, error) {
	f, err := o.frame(id, "end_offsets")
	return f.Offsets, err
}

func (o *Offline) SteelProperties(ctx context.Context, id string) (models.SteelProperties, error) {
	f, err := o.frame(id, "steel_properties")
	return f.Steel, err
}
