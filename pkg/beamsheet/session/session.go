// Package session tracks an operator-driven, multi-group beam selection for one
// scenario at a time. All mutable selection state lives in Session; nothing is
// persisted until a group is confirmed.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/provider"
	"go.uber.org/zap"
)

var (
	// ErrEmptySelection is returned when confirming a group with no beams.
	ErrEmptySelection = errors.New("empty selection")
	// ErrSessionActive is returned by Begin while a selection is in progress.
	ErrSessionActive = errors.New("selection already active")
	// ErrSessionInactive is returned when an operation needs an active selection.
	ErrSessionInactive = errors.New("no active selection")
	// ErrAlreadyGrouped is returned when every pending beam already belongs to
	// a confirmed group.
	ErrAlreadyGrouped = errors.New("beams already grouped")
)

// State is the selection state.
type State int

const (
	// Idle means no selection has been started since creation or reset.
	Idle State = iota
	// Awaiting means a scenario is active and awaiting a selection to confirm.
	Awaiting
	// Stopped means the last activation ended by stop or cancel.
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Awaiting:
		return "awaiting"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// EventKind classifies session events.
type EventKind int

const (
	EventSelectionChanged EventKind = iota
	EventGroupConfirmed
	EventStopped
	EventCancelled
)

// Event is delivered to the Listener on every observable change.
type Event struct {
	Kind     EventKind
	Scenario models.Scenario
	// Beams is the pending selection for EventSelectionChanged.
	Beams []string
	// Group is set for EventGroupConfirmed.
	Group *models.SelectionGroup
}

// Listener receives session events synchronously on the caller's goroutine.
type Listener func(Event)

// Session is the selection state machine:
// Idle -> Awaiting(scenario) -> [confirm and continue]* -> Stopped -> Awaiting ...
type Session struct {
	q        *provider.Querier
	panel    *Panel
	log      *zap.Logger
	listener Listener
	now      func() time.Time

	id       string
	state    State
	scenario models.Scenario
	baseline models.Settings
	pending  []string
	groups   map[models.Scenario][]models.SelectionGroup
	// grouped maps each confirmed beam id to the group that holds it.
	grouped map[string]groupRef
}

type groupRef struct {
	scenario models.Scenario
	group    int
}

// New creates an idle session.
func New(q *provider.Querier, panel *Panel, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	if panel == nil {
		panel = NewPanel()
	}
	return &Session{
		q:      q,
		panel:  panel,
		log:    log,
		now:    time.Now,
		id:     uuid.NewString(),
		groups:  make(map[models.Scenario][]models.SelectionGroup),
		grouped: make(map[string]groupRef),
	}
}

// SetListener installs l, replacing any previous listener.
func (s *Session) SetListener(l Listener) {
	s.listener = l
}

func (s *Session) emit(e Event) {
	if s.listener != nil {
		s.listener(e)
	}
}

// ID identifies the design session; it changes on Reset.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State { return s.state }

// Scenario returns the active (or last active) scenario.
func (s *Session) Scenario() models.Scenario { return s.scenario }

// Panel returns the design-parameter panel.
func (s *Session) Panel() *Panel { return s.panel }

// Pending returns a copy of the pending group.
func (s *Session) Pending() []string { return slices.Clone(s.pending) }

// Baseline returns the parameter snapshot the pending group will be confirmed with.
func (s *Session) Baseline() models.Settings { return s.baseline.Clone() }

// Begin activates scenario sc. The parameters in effect now become the
// baseline of the first group of this activation.
func (s *Session) Begin(ctx context.Context, sc models.Scenario) error {
	if s.state == Awaiting {
		return fmt.Errorf("begin %s: %w (scenario %s)", sc, ErrSessionActive, s.scenario)
	}
	if !sc.Valid() {
		return fmt.Errorf("begin: unknown scenario %q", sc)
	}
	if err := s.q.Check(ctx); err != nil {
		return err
	}
	s.scenario = sc
	s.pending = nil
	s.baseline = s.snapshot()
	s.q.ClearSelection(ctx)
	s.state = Awaiting
	s.log.Info("selection started",
		zap.String("scenario", string(sc)),
		zap.Int("next_group", len(s.groups[sc])+1))
	return nil
}

func (s *Session) snapshot() models.Settings {
	set := s.panel.Snapshot(s.scenario)
	set.SelectedAt = s.now()
	return set
}

// Poll reads the live selection and replaces the pending group when the set
// of selected ids changed. It never blocks and is a no-op unless Awaiting.
func (s *Session) Poll(ctx context.Context) (bool, error) {
	if s.state != Awaiting {
		return false, nil
	}
	ids, err := s.q.Selected(ctx)
	if err != nil {
		s.log.Warn("selection poll failed", zap.Error(err))
		return false, fmt.Errorf("poll: %w: %v", provider.ErrProviderUnavailable, err)
	}
	if sameSet(ids, s.pending) {
		return false, nil
	}
	s.pending = slices.Clone(ids)
	s.log.Debug("selection changed",
		zap.String("scenario", string(s.scenario)),
		zap.Int("count", len(ids)))
	s.emit(Event{Kind: EventSelectionChanged, Scenario: s.scenario, Beams: slices.Clone(ids)})
	return true, nil
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}

// ConfirmGroup appends the pending group to the active scenario. With cont the
// session keeps awaiting the next group, whose baseline is taken now; otherwise
// it stops. Beams already in a confirmed group are dropped from it. Confirmed
// beams are hidden in the model and the live selection is cleared.
func (s *Session) ConfirmGroup(ctx context.Context, cont bool) (models.SelectionGroup, error) {
	if s.state != Awaiting {
		return models.SelectionGroup{}, fmt.Errorf("confirm: %w", ErrSessionInactive)
	}
	next := len(s.groups[s.scenario]) + 1
	if len(s.pending) == 0 {
		return models.SelectionGroup{}, fmt.Errorf("confirm group %d: %w", next, ErrEmptySelection)
	}
	beams := s.ungrouped(s.pending)
	if len(beams) == 0 {
		return models.SelectionGroup{}, fmt.Errorf("confirm group %d: %w: %v", next, ErrAlreadyGrouped, s.pending)
	}
	g := models.SelectionGroup{
		Scenario: s.scenario,
		GroupID:  next,
		Beams:    beams,
		Settings: s.baseline.Clone(),
	}
	s.add(g)
	s.pending = nil
	s.log.Info("group confirmed",
		zap.String("scenario", string(g.Scenario)),
		zap.Int("group", g.GroupID),
		zap.Int("beams", len(g.Beams)))

	s.q.HideElements(ctx, g.Beams)
	s.q.ClearSelection(ctx)
	out := g.Clone()
	s.emit(Event{Kind: EventGroupConfirmed, Scenario: g.Scenario, Group: &out})

	if cont {
		s.baseline = s.snapshot()
		return g.Clone(), nil
	}
	s.state = Stopped
	s.emit(Event{Kind: EventStopped, Scenario: s.scenario})
	return g.Clone(), nil
}

// ungrouped returns ids without those already in a confirmed group, logging
// each one dropped.
func (s *Session) ungrouped(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if ref, ok := s.grouped[id]; ok {
			s.log.Warn("beam already grouped",
				zap.String("beam", id),
				zap.String("scenario", string(ref.scenario)),
				zap.Int("group", ref.group))
			continue
		}
		out = append(out, id)
	}
	return out
}

func (s *Session) add(g models.SelectionGroup) {
	s.groups[g.Scenario] = append(s.groups[g.Scenario], g)
	for _, id := range g.Beams {
		s.grouped[id] = groupRef{scenario: g.Scenario, group: g.GroupID}
	}
}

// Grouped reports whether id belongs to a confirmed group of any scenario.
func (s *Session) Grouped(id string) bool {
	_, ok := s.grouped[id]
	return ok
}

// Cancel discards the pending group and stops the activation.
func (s *Session) Cancel(ctx context.Context) error {
	if s.state != Awaiting {
		return fmt.Errorf("cancel: %w", ErrSessionInactive)
	}
	s.pending = nil
	s.state = Stopped
	s.q.ClearSelection(ctx)
	s.log.Info("selection cancelled", zap.String("scenario", string(s.scenario)))
	s.emit(Event{Kind: EventCancelled, Scenario: s.scenario})
	return nil
}

// Groups returns copies of the confirmed groups of scenario sc in order.
func (s *Session) Groups(sc models.Scenario) []models.SelectionGroup {
	out := make([]models.SelectionGroup, 0, len(s.groups[sc]))
	for _, g := range s.groups[sc] {
		out = append(out, g.Clone())
	}
	return out
}

// Document returns the grouping document for every confirmed group.
func (s *Session) Document() *models.GroupingDocument {
	doc := &models.GroupingDocument{
		Version:   models.GroupingDocumentVersion,
		ID:        s.id,
		Scenarios: make(map[models.Scenario][]models.SelectionGroup),
	}
	for _, sc := range models.Scenarios {
		if gs := s.Groups(sc); len(gs) > 0 {
			doc.Scenarios[sc] = gs
		}
	}
	return doc
}

// Restore replaces the confirmed groups with those of doc. A beam repeated in
// a later group is dropped from it, groups left empty are skipped and group
// ids are renumbered to be contiguous per scenario. It fails while a
// selection is active.
func (s *Session) Restore(doc *models.GroupingDocument) error {
	if s.state == Awaiting {
		return fmt.Errorf("restore: %w", ErrSessionActive)
	}
	s.groups = make(map[models.Scenario][]models.SelectionGroup)
	s.grouped = make(map[string]groupRef)
	for _, sc := range models.Scenarios {
		for _, g := range doc.Scenarios[sc] {
			g = g.Clone()
			g.Beams = s.ungrouped(g.Beams)
			if len(g.Beams) == 0 {
				continue
			}
			g.Scenario = sc
			g.GroupID = len(s.groups[sc]) + 1
			s.add(g)
		}
	}
	if doc.ID != "" {
		s.id = doc.ID
	}
	return nil
}

// Reset drops all groups and panel state, shows every element again and clears
// the live selection. The session becomes Idle with a new id.
func (s *Session) Reset(ctx context.Context) {
	s.state = Idle
	s.scenario = ""
	s.pending = nil
	s.baseline = models.Settings{}
	s.groups = make(map[models.Scenario][]models.SelectionGroup)
	s.grouped = make(map[string]groupRef)
	s.panel.Reset()
	s.id = uuid.NewString()
	s.q.ShowAllElements(ctx)
	s.q.ClearSelection(ctx)
	s.log.Info("session reset")
}
