package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/provider"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestSession(t *testing.T) (*Session, *provider.Offline) {
	t.Helper()
	o := provider.NewOffline(provider.Snapshot{
		Stories: []string{"P1", "E1"},
		Frames: []provider.Frame{
			{ID: "B1", Label: "B1", Story: "P1"},
			{ID: "B2", Label: "B2", Story: "P1"},
			{ID: "B3", Label: "B3", Story: "P1"},
		},
	})
	s := New(provider.NewQuerier(o, nil), NewPanel(), nil)
	tick := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	return s, o
}

func TestBeginTwice(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, s.Begin(ctx, models.ScenarioA))
	assert.Equal(t, Awaiting, s.State())
	assert.ErrorIs(t, s.Begin(ctx, models.ScenarioB), ErrSessionActive)
}

func TestBeginUnavailable(t *testing.T) {
	s, o := newTestSession(t)
	o.SetUnavailable(true)
	err := s.Begin(context.Background(), models.ScenarioA)
	assert.ErrorIs(t, err, provider.ErrProviderUnavailable)
	assert.Equal(t, Idle, s.State())
}

func TestPollReplacesPending(t *testing.T) {
	s, o := newTestSession(t)
	ctx := context.Background()
	var events []Event
	s.SetListener(func(e Event) { events = append(events, e) })

	changed, err := s.Poll(ctx)
	require.NoError(t, err)
	assert.False(t, changed, "poll is a no-op while idle")

	require.NoError(t, s.Begin(ctx, models.ScenarioA))
	o.Select("B2", "B1")
	changed, err = s.Poll(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"B1", "B2"}, s.Pending())

	changed, err = s.Poll(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
	require.Len(t, events, 1)
	assert.Equal(t, EventSelectionChanged, events[0].Kind)
}

func TestConfirmEmpty(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, s.Begin(ctx, models.ScenarioA))
	_, err := s.ConfirmGroup(ctx, false)
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Equal(t, Awaiting, s.State())
}

func TestConfirmInactive(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.ConfirmGroup(context.Background(), true)
	assert.ErrorIs(t, err, ErrSessionInactive)
	assert.ErrorIs(t, s.Cancel(context.Background()), ErrSessionInactive)
}

func TestSnapshotTakenAtGroupStart(t *testing.T) {
	s, o := newTestSession(t)
	ctx := context.Background()
	p := s.Panel()
	p.SetStory("P1")
	require.NoError(t, p.Press(models.ScenarioA, ButtonDirX))

	require.NoError(t, s.Begin(ctx, models.ScenarioA))
	// Changed after group 1 started: must not leak into group 1.
	require.NoError(t, p.Press(models.ScenarioA, ButtonSecondary))

	o.Select("B1", "B2")
	_, err := s.Poll(ctx)
	require.NoError(t, err)
	g1, err := s.ConfirmGroup(ctx, true)
	require.NoError(t, err)
	assert.True(t, g1.Settings.DirX)
	assert.False(t, g1.Settings.Secondary)

	o.Select("B3")
	_, err = s.Poll(ctx)
	require.NoError(t, err)
	g2, err := s.ConfirmGroup(ctx, false)
	require.NoError(t, err)
	assert.True(t, g2.Settings.Secondary)
	assert.False(t, g2.Settings.DirX)
	assert.True(t, g2.Settings.SelectedAt.After(g1.Settings.SelectedAt))

	assert.Equal(t, 1, g1.GroupID)
	assert.Equal(t, 2, g2.GroupID)
	assert.Equal(t, Stopped, s.State())
	assert.Equal(t, []string{"B1", "B2", "B3"}, o.Hidden())
	assert.Len(t, s.Groups(models.ScenarioA), 2)
}

func TestConfirmClearsLiveSelection(t *testing.T) {
	s, o := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, s.Begin(ctx, models.ScenarioB))
	o.Select("B1")
	_, err := s.Poll(ctx)
	require.NoError(t, err)
	_, err = s.ConfirmGroup(ctx, true)
	require.NoError(t, err)

	sel, err := o.SelectedElementIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, sel)
	assert.Empty(t, s.Pending())
}

func TestCancelDiscardsPending(t *testing.T) {
	s, o := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, s.Begin(ctx, models.ScenarioA))
	o.Select("B1")
	_, err := s.Poll(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Cancel(ctx))
	assert.Equal(t, Stopped, s.State())
	assert.Empty(t, s.Groups(models.ScenarioA))
	assert.Empty(t, o.Hidden())

	// A stopped session can start again.
	require.NoError(t, s.Begin(ctx, models.ScenarioA))
}

func TestDocumentRestoreAndReset(t *testing.T) {
	s, o := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, s.Begin(ctx, models.ScenarioB))
	o.Select("B3")
	_, err := s.Poll(ctx)
	require.NoError(t, err)
	_, err = s.ConfirmGroup(ctx, false)
	require.NoError(t, err)

	doc := s.Document()
	assert.Equal(t, s.ID(), doc.ID)
	assert.Equal(t, 1, doc.BeamCount())

	other, _ := newTestSession(t)
	require.NoError(t, other.Restore(doc))
	assert.Equal(t, doc.ID, other.ID())
	assert.Equal(t, []string{"B3"}, other.Groups(models.ScenarioB)[0].Beams)

	oldID := s.ID()
	s.Reset(ctx)
	assert.Equal(t, Idle, s.State())
	assert.NotEqual(t, oldID, s.ID())
	assert.Empty(t, s.Groups(models.ScenarioB))
	assert.Empty(t, o.Hidden())
}

func TestConfirmDropsGroupedBeams(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s, o := newTestSession(t)
	s.log = zap.New(core)
	ctx := context.Background()

	require.NoError(t, s.Begin(ctx, models.ScenarioA))
	o.Select("B1", "B2")
	_, err := s.Poll(ctx)
	require.NoError(t, err)
	_, err = s.ConfirmGroup(ctx, false)
	require.NoError(t, err)

	// The model forgets hidden elements, e.g. after a restart.
	o.ShowAllElements(ctx)
	require.NoError(t, s.Begin(ctx, models.ScenarioB))
	o.Select("B1", "B3")
	_, err = s.Poll(ctx)
	require.NoError(t, err)
	g, err := s.ConfirmGroup(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"B3"}, g.Beams)
	assert.True(t, s.Grouped("B1"))
	assert.Equal(t, 1, logs.FilterMessage("beam already grouped").Len())

	o.Select("B2")
	_, err = s.Poll(ctx)
	require.NoError(t, err)
	_, err = s.ConfirmGroup(ctx, false)
	assert.ErrorIs(t, err, ErrAlreadyGrouped)
	assert.Equal(t, Awaiting, s.State())
	assert.Len(t, s.Groups(models.ScenarioB), 1)
}

func TestRestoreDropsDuplicateBeams(t *testing.T) {
	s, o := newTestSession(t)
	ctx := context.Background()
	doc := &models.GroupingDocument{
		Scenarios: map[models.Scenario][]models.SelectionGroup{
			models.ScenarioA: {{Beams: []string{"B1", "B2"}}},
			models.ScenarioB: {{Beams: []string{"B2"}}, {Beams: []string{"B1", "B3"}}},
		},
	}
	require.NoError(t, s.Restore(doc))
	assert.Len(t, s.Groups(models.ScenarioA), 1)
	groupsB := s.Groups(models.ScenarioB)
	require.Len(t, groupsB, 1)
	assert.Equal(t, 1, groupsB[0].GroupID)
	assert.Equal(t, []string{"B3"}, groupsB[0].Beams)

	require.NoError(t, s.Begin(ctx, models.ScenarioB))
	o.Select("B1")
	_, err := s.Poll(ctx)
	require.NoError(t, err)
	_, err = s.ConfirmGroup(ctx, false)
	assert.ErrorIs(t, err, ErrAlreadyGrouped)

	s.Reset(ctx)
	assert.False(t, s.Grouped("B1"))
}
