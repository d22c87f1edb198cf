package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelYAML = `name: tower
stories: [Base, P1]
combinations: [ULS1]
frames:
  - id: "10"
    label: B10
    story: P1
    section: G30x60
    length: 5.5
    section_properties:
      type: Rectangle
      depth: 0.6
      width: 0.3
  - id: "11"
    label: B11
    story: P1
    fail: [section_name]
selection: ["11", "10"]
`

func TestLoadOffline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(modelYAML), 0644))

	o, err := LoadOffline(path)
	require.NoError(t, err)
	ctx := context.Background()

	stories, err := o.StoryNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Base", "P1"}, stories)

	sel, err := o.SelectedElementIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "11"}, sel, "selection is returned in model order")

	props, err := o.SectionProperties(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, "Rectangle", props.Type)
	assert.Equal(t, 0.6, props.Depth)

	_, err = o.SectionName(ctx, "11")
	assert.Error(t, err)
}

func TestLoadOfflineMissingFile(t *testing.T) {
	_, err := LoadOffline(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestOfflineHideAndShow(t *testing.T) {
	o := NewOffline(testSnapshot())
	ctx := context.Background()
	o.Select("B1", "B2", "B3")

	require.NoError(t, o.HideElements(ctx, []string{"B2", "unknown"}))
	assert.Equal(t, []string{"B2"}, o.Hidden())

	sel, err := o.SelectedElementIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B1", "B3"}, sel)

	require.NoError(t, o.ShowAllElements(ctx))
	assert.Empty(t, o.Hidden())
}

func TestOfflineSelectionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.txt")
	o := NewOffline(testSnapshot()).WithSelectionFile(path)
	ctx := context.Background()

	sel, err := o.SelectedElementIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, sel)

	require.NoError(t, os.WriteFile(path, []byte("B3, B1\n"), 0644))
	sel, err = o.SelectedElementIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B1", "B3"}, sel)

	require.NoError(t, o.ClearSelection(ctx))
	sel, err = o.SelectedElementIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, sel)
}
