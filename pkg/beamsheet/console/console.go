// Package console is the terminal operator console. It drives a Designer from
// key presses and polls the live model selection on a fixed tick.
package console

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/grouping"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/session"
	"go.uber.org/zap"
)

// DefaultPollInterval is the selection poll period.
const DefaultPollInterval = 500 * time.Millisecond

// maxListed bounds the pending ids shown before eliding.
const maxListed = 12

type tickMsg time.Time

// Model is the bubbletea model of the console.
type Model struct {
	ctx      context.Context
	d        *beamsheet.Designer
	log      *zap.Logger
	interval time.Duration
	styles   Styles
	keys     KeyMap
	help     help.Model

	scenario models.Scenario
	stories  []string
	status   string
	err      error
}

// New creates a console model. A non-positive interval uses DefaultPollInterval.
func New(ctx context.Context, d *beamsheet.Designer, log *zap.Logger, interval time.Duration) Model {
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	styles := DefaultStyles()
	h := help.New()
	h.ShowAll = true
	h.Styles.FullDesc = styles.Help
	h.Styles.ShortDesc = styles.Help
	return Model{
		ctx:      ctx,
		d:        d,
		log:      log,
		interval: interval,
		styles:   styles,
		keys:     DefaultKeyMap(),
		help:     h,
		scenario: models.ScenarioA,
	}
}

// Run starts the console and blocks until the operator quits or ctx is done.
func Run(ctx context.Context, d *beamsheet.Designer, log *zap.Logger, interval time.Duration) error {
	p := tea.NewProgram(New(ctx, d, log, interval), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init schedules the first poll.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles ticks and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if _, err := m.d.Poll(m.ctx); err != nil {
			m.fail(err)
		}
		return m, m.tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}
	return m, nil
}

// active returns the scenario the panel edits: the running one while awaiting.
func (m Model) active() models.Scenario {
	if s := m.d.Session(); s.State() == session.Awaiting {
		return s.Scenario()
	}
	return m.scenario
}

func (m *Model) fail(err error) {
	m.err = err
	m.status = ""
	if beamsheet.Blocking(err) {
		m.log.Error("operation failed", zap.Error(err))
	} else {
		m.log.Warn("operation failed", zap.Error(err))
	}
}

func (m *Model) ok(format string, args ...any) {
	m.err = nil
	m.status = fmt.Sprintf(format, args...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	awaiting := m.d.Session().State() == session.Awaiting

	for _, b := range m.keys.buttons() {
		if key.Matches(msg, b.binding) {
			if err := m.d.Panel().Press(m.active(), b.button); err != nil {
				m.fail(err)
			} else {
				m.ok("%s pressed", b.button)
			}
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if awaiting {
			if err := m.d.CancelSelection(m.ctx); err != nil {
				m.log.Warn("cancel on quit failed", zap.Error(err))
			}
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Scenario):
		if awaiting {
			m.ok("finish or cancel the %s selection first", m.active().DisplayName())
			return m, nil
		}
		if m.scenario == models.ScenarioA {
			m.scenario = models.ScenarioB
		} else {
			m.scenario = models.ScenarioA
		}
		m.ok("editing %s", m.scenario.DisplayName())

	case key.Matches(msg, m.keys.BeginA, m.keys.BeginB):
		sc := models.ScenarioA
		if key.Matches(msg, m.keys.BeginB) {
			sc = models.ScenarioB
		}
		if err := m.d.BeginSelection(m.ctx, sc); err != nil {
			m.fail(err)
			return m, nil
		}
		m.scenario = sc
		m.ok("select beams for %s group %d", sc.DisplayName(), len(m.d.Session().Groups(sc))+1)

	case key.Matches(msg, m.keys.Confirm, m.keys.Finish):
		g, err := m.d.ConfirmGroup(m.ctx, key.Matches(msg, m.keys.Confirm))
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.ok("%s group %d confirmed with %d beams", g.Scenario.DisplayName(), g.GroupID, len(g.Beams))

	case key.Matches(msg, m.keys.Cancel):
		if err := m.d.CancelSelection(m.ctx); err != nil {
			m.fail(err)
			return m, nil
		}
		m.ok("selection cancelled")

	case key.Matches(msg, m.keys.Resistance):
		next := models.ResistanceMean
		if m.d.Panel().Snapshot(m.active()).Resistance == models.ResistanceMean {
			next = models.ResistanceNormal
		}
		if err := m.d.Panel().SetResistance(next); err != nil {
			m.fail(err)
			return m, nil
		}
		m.ok("resistance %s", next)

	case key.Matches(msg, m.keys.PrevStory, m.keys.NextStory):
		m.cycleStory(key.Matches(msg, m.keys.NextStory))

	case key.Matches(msg, m.keys.Reset):
		if err := m.d.Reset(m.ctx); err != nil {
			m.fail(err)
			return m, nil
		}
		m.stories = nil
		m.ok("session reset")
	}
	return m, nil
}

func (m *Model) cycleStory(forward bool) {
	if len(m.stories) == 0 {
		m.stories = m.d.Querier().StoryNames(m.ctx)
	}
	if len(m.stories) == 0 {
		m.ok("the model reports no stories")
		return
	}
	cur := slices.Index(m.stories, m.d.Panel().Snapshot(m.active()).Story)
	switch {
	case cur < 0 && forward:
		cur = 0
	case cur < 0:
		cur = len(m.stories) - 1
	case forward:
		cur = (cur + 1) % len(m.stories)
	default:
		cur = (cur - 1 + len(m.stories)) % len(m.stories)
	}
	m.d.Panel().SetStory(m.stories[cur])
	m.ok("story %s", m.stories[cur])
}

func (m Model) flag(on bool, name string) string {
	if on {
		return m.styles.On.Render("[" + name + "]")
	}
	return m.styles.Off.Render(" " + name + " ")
}

// View renders the console.
func (m Model) View() string {
	s := m.d.Session()
	sc := m.active()
	set := m.d.Panel().Snapshot(sc)

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("beamsheet"))
	sb.WriteString(" session " + s.ID() + "\n\n")

	state := s.State().String()
	if s.State() == session.Awaiting {
		state += " (" + sc.DisplayName() + ")"
	}
	sb.WriteString(m.styles.Label.Render("State: ") + state + "\n")

	var panel strings.Builder
	story := set.Story
	if story == "" {
		story = "-"
	}
	fmt.Fprintf(&panel, "%s  resistance %s  story %s\n", m.styles.Label.Render(sc.DisplayName()), set.Resistance, story)
	panel.WriteString(strings.Join([]string{
		m.flag(set.DCL, "DCL"),
		m.flag(set.DCM, "DCM"),
		m.flag(set.DCH, "DCH"),
		m.flag(set.Secondary, "Secundare"),
		m.flag(set.DirX, "Dir X"),
		m.flag(set.DirY, "Dir Y"),
	}, " "))
	panel.WriteString("\nsheet " + grouping.SheetName(set.Story, sc, grouping.Classify(set)))
	sb.WriteString(m.styles.Panel.Render(panel.String()) + "\n")

	if s.State() == session.Awaiting {
		pending := s.Pending()
		listed := pending
		if len(listed) > maxListed {
			listed = listed[:maxListed]
		}
		line := fmt.Sprintf("Selected (%d): %s", len(pending), strings.Join(listed, ", "))
		if len(pending) > maxListed {
			line += ", ..."
		}
		sb.WriteString(m.styles.Pending.Render(line) + "\n")
	}

	var counts []string
	for _, sc := range models.Scenarios {
		groups := s.Groups(sc)
		n := 0
		for _, g := range groups {
			n += len(g.Beams)
		}
		counts = append(counts, fmt.Sprintf("%s: %d groups, %d beams", sc.DisplayName(), len(groups), n))
	}
	sb.WriteString(strings.Join(counts, " | ") + "\n\n")

	switch {
	case m.err != nil && beamsheet.Blocking(m.err):
		sb.WriteString(m.styles.Error.Render("Error: "+m.err.Error()) + "\n")
	case m.err != nil:
		sb.WriteString(m.styles.Warning.Render("Warning: "+m.err.Error()) + "\n")
	case m.status != "":
		sb.WriteString(m.styles.Status.Render(m.status) + "\n")
	}

	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}
