package beamsheet

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/grouping"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/layout"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/provider"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/session"
	"github.com/xuri/excelize/v2"
)

func testModel() *provider.Offline {
	return provider.NewOffline(provider.Snapshot{
		Stories: []string{"P1", "E1"},
		Frames: []provider.Frame{
			{ID: "B1", Label: "B1", Story: "P1", Section: "G30x60", Material: "C25/30", Length: 5},
			{ID: "B2", Label: "B2", Story: "P1", Section: "G30x60", Material: "C25/30", Length: 6},
			{ID: "B3", Label: "B3", Story: "P1", Section: "G25x50", Material: "C25/30", Length: 4},
		},
	})
}

func testOptions(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()
	return Options{
		StorePath:         filepath.Join(dir, "frames.db"),
		GroupingPath:      filepath.Join(dir, "beam_selection_temp.json"),
		Layout:            layout.DefaultOptions(),
		KeepTemplateSheet: true,
	}
}

func writeTemplate(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Grup"))
	require.NoError(t, f.SetCellValue("Sheet1", "P1", "Beam"))
	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// selectExample confirms B1,B2 under Dir X and B3 as secondary in scenario A.
func selectExample(t *testing.T, d *Designer, o *provider.Offline) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, d.Panel().Press(models.ScenarioA, session.ButtonDirX))
	d.Panel().SetStory("P1")
	require.NoError(t, d.BeginSelection(ctx, models.ScenarioA))

	o.Select("B1", "B2")
	require.NoError(t, d.Panel().Press(models.ScenarioA, session.ButtonSecondary))
	g, err := d.ConfirmGroup(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"B1", "B2"}, g.Beams)
	assert.True(t, g.Settings.DirX)
	assert.False(t, g.Settings.Secondary)

	o.Select("B3")
	g, err = d.ConfirmGroup(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, g.GroupID)
	assert.True(t, g.Settings.Secondary)
}

func TestDesignerEndToEnd(t *testing.T) {
	ctx := context.Background()
	o := testModel()
	opts := testOptions(t)
	d, err := New(o, nil, opts)
	require.NoError(t, err)
	defer d.Close()

	selectExample(t, d, o)
	assert.ElementsMatch(t, []string{"B1", "B2", "B3"}, o.Hidden())

	doc, err := grouping.Load(opts.GroupingPath)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.BeamCount())

	n, err := d.RebuildStore(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	out := filepath.Join(t.TempDir(), "report.xlsx")
	res, err := d.RunLayout(ctx, writeTemplate(t), out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Infr-P1-X", "Infr-P1-Sec"}, res.Sheets)
	assert.Equal(t, 3, res.Applied)
	assert.Empty(t, res.Skipped)
	assert.FileExists(t, out)

	s, err := d.Store()
	require.NoError(t, err)
	records, err := s.Records(ctx)
	require.NoError(t, err)
	got := make(map[string]models.ExcelPosition)
	for _, r := range records {
		require.NotNil(t, r.Position, r.UniqueID)
		got[r.UniqueID] = *r.Position
	}
	assert.Equal(t, map[string]models.ExcelPosition{
		"B1": {Sheet: "Infr-P1-X", Column: "A", Row: 1},
		"B2": {Sheet: "Infr-P1-X", Column: "BD", Row: 1},
		"B3": {Sheet: "Infr-P1-Sec", Column: "A", Row: 1},
	}, got)

	imported, err := d.ImportReport(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, 3, imported.Blocks)
	assert.Equal(t, 3, imported.Applied)
	assert.Empty(t, imported.Unmatched)
}

func TestDesignerRestoresGrouping(t *testing.T) {
	o := testModel()
	opts := testOptions(t)
	d, err := New(o, nil, opts)
	require.NoError(t, err)
	selectExample(t, d, o)
	id := d.Session().ID()
	require.NoError(t, d.Close())

	d2, err := New(testModel(), nil, opts)
	require.NoError(t, err)
	defer d2.Close()
	assert.Equal(t, id, d2.Session().ID())
	assert.Len(t, d2.Session().Groups(models.ScenarioA), 2)
	assert.Equal(t, 3, d2.Document().BeamCount())
}

func TestDesignerRestartKeepsBeamsInOneGroup(t *testing.T) {
	ctx := context.Background()
	opts := testOptions(t)

	o := testModel()
	first, err := New(o, nil, opts)
	require.NoError(t, err)
	require.NoError(t, first.BeginSelection(ctx, models.ScenarioA))
	o.Select("B1", "B2")
	_, err = first.ConfirmGroup(ctx, false)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// A fresh model shows every element again.
	fresh := testModel()
	second, err := New(fresh, nil, opts)
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.BeginSelection(ctx, models.ScenarioB))
	fresh.Select("B1", "B3")
	g, err := second.ConfirmGroup(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"B3"}, g.Beams)

	n, err := second.RebuildStore(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, second.BeginSelection(ctx, models.ScenarioB))
	fresh.Select("B2")
	_, err = second.ConfirmGroup(ctx, false)
	assert.ErrorIs(t, err, ErrAlreadyGrouped)
}

func TestDesignerCorruptGrouping(t *testing.T) {
	opts := testOptions(t)
	require.NoError(t, os.WriteFile(opts.GroupingPath, []byte("{not json"), 0o644))
	_, err := New(testModel(), nil, opts)
	var oe *OperationError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "restore", oe.Op)
}

func TestDesignerConfirmWithoutSelection(t *testing.T) {
	ctx := context.Background()
	d, err := New(testModel(), nil, testOptions(t))
	require.NoError(t, err)
	defer d.Close()

	_, err = d.ConfirmGroup(ctx, false)
	assert.ErrorIs(t, err, ErrSessionInactive)

	require.NoError(t, d.BeginSelection(ctx, models.ScenarioB))
	_, err = d.ConfirmGroup(ctx, false)
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.True(t, Blocking(err))

	var oe *OperationError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "confirm_group", oe.Op)
	require.NoError(t, d.CancelSelection(ctx))
	assert.Equal(t, session.Stopped, d.Session().State())
}

func TestDesignerProviderUnavailable(t *testing.T) {
	o := testModel()
	d, err := New(o, nil, testOptions(t))
	require.NoError(t, err)
	defer d.Close()

	o.SetUnavailable(true)
	err = d.BeginSelection(context.Background(), models.ScenarioA)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	_, err = d.RebuildStore(context.Background(), nil)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.True(t, Blocking(err))
}

func TestRunLayoutPreconditions(t *testing.T) {
	ctx := context.Background()
	d, err := New(testModel(), nil, testOptions(t))
	require.NoError(t, err)
	defer d.Close()

	out := filepath.Join(t.TempDir(), "report.xlsx")
	_, err = d.RunLayout(ctx, filepath.Join(t.TempDir(), "missing.xlsx"), out)
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = d.RunLayout(ctx, writeTemplate(t), out)
	assert.ErrorIs(t, err, ErrNoBeams)
	assert.NoFileExists(t, out)
}

func TestRunLayoutRefusesTemplateAsOutput(t *testing.T) {
	ctx := context.Background()
	o := testModel()
	d, err := New(o, nil, testOptions(t))
	require.NoError(t, err)
	defer d.Close()
	selectExample(t, d, o)
	_, err = d.RebuildStore(ctx, nil)
	require.NoError(t, err)

	tpl := writeTemplate(t)
	before, err := os.ReadFile(tpl)
	require.NoError(t, err)

	_, err = d.RunLayout(ctx, tpl, tpl)
	require.ErrorIs(t, err, ErrOutputIsTemplate)
	var oe *OperationError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, "run_layout", oe.Op)
	assert.True(t, Blocking(err))

	linked := filepath.Join(filepath.Dir(tpl), "linked.xlsx")
	require.NoError(t, os.Link(tpl, linked))
	_, err = d.RunLayout(ctx, tpl, linked)
	assert.ErrorIs(t, err, ErrOutputIsTemplate)

	after, err := os.ReadFile(tpl)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRunLayoutUnwritableOutputKeepsPositionsNull(t *testing.T) {
	ctx := context.Background()
	o := testModel()
	d, err := New(o, nil, testOptions(t))
	require.NoError(t, err)
	defer d.Close()
	selectExample(t, d, o)
	_, err = d.RebuildStore(ctx, nil)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "missing", "report.xlsx")
	_, err = d.RunLayout(ctx, writeTemplate(t), out)
	require.Error(t, err)

	s, err := d.Store()
	require.NoError(t, err)
	records, err := s.Records(ctx)
	require.NoError(t, err)
	for _, r := range records {
		assert.Nil(t, r.Position, r.UniqueID)
	}
}

func TestRunLayoutDropsTemplateSheet(t *testing.T) {
	ctx := context.Background()
	o := testModel()
	opts := testOptions(t)
	opts.KeepTemplateSheet = false
	d, err := New(o, nil, opts)
	require.NoError(t, err)
	defer d.Close()
	selectExample(t, d, o)
	_, err = d.RebuildStore(ctx, nil)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "report.xlsx")
	_, err = d.RunLayout(ctx, writeTemplate(t), out)
	require.NoError(t, err)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Infr-P1-X", "Infr-P1-Sec"}, f.GetSheetList())
}

func TestDesignerSummary(t *testing.T) {
	ctx := context.Background()
	o := testModel()
	d, err := New(o, nil, testOptions(t))
	require.NoError(t, err)
	defer d.Close()
	selectExample(t, d, o)

	sum, err := d.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, sum.Scenarios, 1)
	sc := sum.Scenarios[0]
	assert.Equal(t, "Infrastructura", sc.Name)
	assert.Equal(t, 2, sc.GroupCount)
	assert.Equal(t, 3, sc.TotalBeams)
	assert.Equal(t, "Infr-P1-X", sc.Groups[0].SheetName)
	assert.Equal(t, "Infr-P1-Sec", sc.Groups[1].SheetName)
	assert.Equal(t, models.BeamSummary{
		UniqueID: "B1", Label: "B1", Story: "P1", Length: 5, SectionName: "G30x60", Material: "C25/30",
	}, sc.Groups[0].Beams[0])

	_, err = d.RebuildStore(ctx, nil)
	require.NoError(t, err)
	stored, err := d.StoreSummary(ctx)
	require.NoError(t, err)
	require.Len(t, stored.Scenarios, 1)
	assert.Equal(t, 3, stored.Scenarios[0].TotalBeams)
}

func TestDesignerReset(t *testing.T) {
	ctx := context.Background()
	o := testModel()
	opts := testOptions(t)
	d, err := New(o, nil, opts)
	require.NoError(t, err)
	defer d.Close()
	selectExample(t, d, o)
	require.FileExists(t, opts.GroupingPath)

	require.NoError(t, d.Reset(ctx))
	assert.NoFileExists(t, opts.GroupingPath)
	assert.Equal(t, 0, d.Document().BeamCount())
	assert.Empty(t, o.Hidden())
	assert.False(t, d.Panel().Pressed(models.ScenarioA, session.ButtonDirX))
	require.NoError(t, d.Reset(ctx), "reset without a document")
}

func TestNewOperationError(t *testing.T) {
	assert.NoError(t, NewOperationError("poll", nil))
	err := NewOperationError("poll", ErrProviderUnavailable)
	assert.Same(t, err, NewOperationError("poll", err))
	wrapped := NewOperationError("begin_selection", err)
	assert.NotSame(t, err, wrapped)
	assert.True(t, errors.Is(wrapped, ErrProviderUnavailable))
	assert.Equal(t, "begin_selection: poll: structural model provider unavailable", wrapped.Error())
	assert.False(t, Blocking(ErrElementQueryFailed))
}
