package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// panicky wraps an Offline provider and panics on selected queries.
type panicky struct {
	*Offline
	panicOn string
}

func (p *panicky) Length(ctx context.Context, id string) (float64, error) {
	if id == p.panicOn {
		panic("automation bridge crashed")
	}
	return p.Offline.Length(ctx, id)
}

func testSnapshot() Snapshot {
	return Snapshot{
		Name:         "tower",
		Stories:      []string{"Base", "P1", "E1"},
		Combinations: []string{"ULS1", "SLS1"},
		Frames: []Frame{
			{ID: "B1", Label: "B1", Story: "P1", GUID: "g-1", Section: "G30x60", Material: "C25/30", Length: 5.2,
				Joints: models.EndJoints{I: "1", J: "2"}},
			{ID: "B2", Label: "B2", Story: "P1", GUID: "g-2", Section: "G30x60", Material: "C25/30", Length: 4.8,
				Fail: []string{"length", "guid"}},
			{ID: "B3", Label: "B3", Story: "E1", GUID: "g-3", Section: "G25x50", Material: "C30/37", Length: 6.1},
		},
	}
}

func TestQuerierSentinels(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	q := NewQuerier(NewOffline(testSnapshot()), zap.New(core))
	ctx := context.Background()

	rec := q.Record(ctx, "B2")
	assert.Equal(t, "B2", rec.Label)
	assert.Equal(t, models.NotAvailable, rec.GUID)
	assert.Equal(t, 0.0, rec.Geometry.Length)
	assert.Equal(t, "G30x60", rec.SectionName)
	assert.Equal(t, 2, logs.Len())

	ok := q.Record(ctx, "B1")
	assert.Equal(t, 5.2, ok.Geometry.Length)
	assert.Equal(t, "g-1", ok.GUID)
	assert.Equal(t, "2", ok.Geometry.Joints.J)
}

func TestQuerierUnknownElement(t *testing.T) {
	q := NewQuerier(NewOffline(testSnapshot()), nil)
	label, story := q.LabelAndStory(context.Background(), "missing")
	assert.Equal(t, models.NotAvailable, label)
	assert.Equal(t, models.NotAvailable, story)

	g := q.Geometry(context.Background(), "missing")
	assert.Equal(t, models.NotAvailable, g.Joints.I)
	assert.Equal(t, models.NotAvailable, g.Section.Type)
}

func TestQuerierRecoversPanic(t *testing.T) {
	p := &panicky{Offline: NewOffline(testSnapshot()), panicOn: "B3"}
	q := NewQuerier(p, nil)
	assert.Equal(t, 0.0, q.Length(context.Background(), "B3"))
	assert.Equal(t, 5.2, q.Length(context.Background(), "B1"))
}

func TestQuerierCheck(t *testing.T) {
	o := NewOffline(testSnapshot())
	q := NewQuerier(o, nil)
	require.NoError(t, q.Check(context.Background()))

	o.SetUnavailable(true)
	err := q.Check(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
	assert.Nil(t, q.StoryNames(context.Background()))

	_, err = q.Selected(context.Background())
	assert.Error(t, err)
}
