package console

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/provider"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/session"
)

func newTestModel(t *testing.T) (Model, *provider.Offline) {
	t.Helper()
	o := provider.NewOffline(provider.Snapshot{
		Stories: []string{"P1", "E1"},
		Frames: []provider.Frame{
			{ID: "B1", Label: "B1", Story: "P1"},
			{ID: "B2", Label: "B2", Story: "P1"},
		},
	})
	d, err := beamsheet.New(o, nil, beamsheet.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return New(context.Background(), d, nil, 10*time.Millisecond), o
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestConsoleSelectionFlow(t *testing.T) {
	m, o := newTestModel(t)
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "confirm+finish")

	m, _ = send(t, m, key("x"), key("]"), key("a"))
	s := m.d.Session()
	require.Equal(t, session.Awaiting, s.State())
	assert.True(t, m.d.Panel().Pressed(models.ScenarioA, session.ButtonDirX))
	assert.Contains(t, m.View(), "sheet Infr-P1-X")

	o.Select("B2", "B1")
	m, cmd := send(t, m, tickMsg(time.Now()))
	assert.NotNil(t, cmd, "tick reschedules itself")
	assert.Equal(t, []string{"B1", "B2"}, s.Pending())
	assert.Contains(t, m.View(), "Selected (2): B1, B2")

	m, _ = send(t, m, key("f"))
	assert.Equal(t, session.Stopped, s.State())
	require.Len(t, s.Groups(models.ScenarioA), 1)
	assert.Contains(t, m.View(), "Infrastructura: 1 groups, 2 beams")
	assert.Contains(t, m.View(), "Infrastructura group 1 confirmed with 2 beams")
}

func TestConsoleBlockingError(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, key("b"), key("enter"))
	assert.ErrorIs(t, m.err, beamsheet.ErrEmptySelection)
	assert.Contains(t, m.View(), "Error: confirm_group")

	m, _ = send(t, m, key("esc"))
	assert.NoError(t, m.err)
	assert.Equal(t, session.Stopped, m.d.Session().State())
}

func TestConsoleNonBlockingError(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, key("esc"))
	assert.ErrorIs(t, m.err, beamsheet.ErrSessionInactive)
	assert.Contains(t, m.View(), "Warning: cancel_selection")
}

func TestConsoleTabSwitchesScenario(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, key("tab"), key("s"))
	assert.Equal(t, models.ScenarioB, m.scenario)
	assert.True(t, m.d.Panel().Pressed(models.ScenarioB, session.ButtonSecondary))
	assert.False(t, m.d.Panel().Pressed(models.ScenarioA, session.ButtonSecondary))

	m, _ = send(t, m, key("a"), key("tab"))
	assert.Equal(t, models.ScenarioA, m.scenario, "tab is ignored while awaiting")
	assert.Contains(t, m.status, "finish or cancel")
}

func TestConsoleStoryAndResistance(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, key("["))
	assert.Equal(t, "E1", m.d.Panel().Snapshot(models.ScenarioA).Story)
	m, _ = send(t, m, key("]"))
	assert.Equal(t, "P1", m.d.Panel().Snapshot(models.ScenarioA).Story)

	m, _ = send(t, m, key("r"))
	assert.Equal(t, models.ResistanceMean, m.d.Panel().Snapshot(models.ScenarioA).Resistance)
	m, _ = send(t, m, key("r"))
	assert.Equal(t, models.ResistanceNormal, m.d.Panel().Snapshot(models.ScenarioA).Resistance)
}

func TestConsoleReset(t *testing.T) {
	m, o := newTestModel(t)
	m, _ = send(t, m, key("a"))
	o.Select("B1")
	m, _ = send(t, m, key("f"))
	require.Equal(t, []string{"B1"}, o.Hidden())

	m, _ = send(t, m, key("ctrl+r"))
	assert.Empty(t, o.Hidden())
	assert.Equal(t, session.Idle, m.d.Session().State())
	assert.True(t, strings.Contains(m.View(), "Infrastructura: 0 groups, 0 beams"))
}

func TestConsoleQuitCancelsSelection(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, key("a"))
	m, cmd := send(t, m, key("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.Equal(t, session.Stopped, m.d.Session().State())
}
