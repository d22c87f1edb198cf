package provider

import (
	"context"
	"fmt"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"go.uber.org/zap"
)

// Querier wraps a Provider so element getters always return a value.
// A failing or panicking call is logged as ErrElementQueryFailed and replaced
// by the "N/A" / 0.0 sentinel for that element only.
type Querier struct {
	p   Provider
	log *zap.Logger
}

// NewQuerier creates a Querier. A nil logger discards log output.
func NewQuerier(p Provider, log *zap.Logger) *Querier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Querier{p: p, log: log}
}

// Provider returns the wrapped provider.
func (q *Querier) Provider() Provider {
	return q.p
}

// Check returns ErrProviderUnavailable when the model cannot be reached.
func (q *Querier) Check(ctx context.Context) error {
	if err := guard(func() error { return q.p.Ping(ctx) }); err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return nil
}

// guard runs fn and turns a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v", r)
		}
	}()
	return fn()
}

func (q *Querier) failed(query, id string, err error) {
	q.log.Warn("element query failed, using sentinel",
		zap.String("query", query),
		zap.String("beam", id),
		zap.Error(fmt.Errorf("%w: %v", ErrElementQueryFailed, err)))
}

// LabelAndStory returns the label and model story, or "N/A" for both.
func (q *Querier) LabelAndStory(ctx context.Context, id string) (string, string) {
	var label, story string
	err := guard(func() (err error) {
		label, story, err = q.p.LabelAndStory(ctx, id)
		return err
	})
	if err != nil {
		q.failed("label_and_story", id, err)
		return models.NotAvailable, models.NotAvailable
	}
	return label, story
}

// GlobalID returns the GUID or "N/A".
func (q *Querier) GlobalID(ctx context.Context, id string) string {
	return q.text(ctx, "guid", id, q.p.GlobalID)
}

// SectionName returns the section name or "N/A".
func (q *Querier) SectionName(ctx context.Context, id string) string {
	return q.text(ctx, "section_name", id, q.p.SectionName)
}

// SectionMaterial returns the material name or "N/A".
func (q *Querier) SectionMaterial(ctx context.Context, id string) string {
	return q.text(ctx, "section_material", id, q.p.SectionMaterial)
}

func (q *Querier) text(ctx context.Context, query, id string, fn func(context.Context, string) (string, error)) string {
	var v string
	err := guard(func() (err error) {
		v, err = fn(ctx, id)
		return err
	})
	if err != nil {
		q.failed(query, id, err)
		return models.NotAvailable
	}
	return v
}

// Length returns the frame length or 0.
func (q *Querier) Length(ctx context.Context, id string) float64 {
	var v float64
	err := guard(func() (err error) {
		v, err = q.p.Length(ctx, id)
		return err
	})
	if err != nil {
		q.failed("length", id, err)
		return 0
	}
	return v
}

// Geometry fetches every geometry sub-record, substituting sentinels per field.
func (q *Querier) Geometry(ctx context.Context, id string) models.Geometry {
	g := models.Geometry{Length: q.Length(ctx, id)}
	if err := guard(func() (err error) { g.Joints, err = q.p.EndJoints(ctx, id); return err }); err != nil {
		q.failed("end_joints", id, err)
		g.Joints = models.EndJoints{I: models.NotAvailable, J: models.NotAvailable}
	}
	if err := guard(func() (err error) { g.Section, err = q.p.SectionProperties(ctx, id); return err }); err != nil {
		q.failed("section_properties", id, err)
		g.Section = models.SectionProperties{Type: models.NotAvailable}
	}
	if err := guard(func() (err error) { g.Modifiers, err = q.p.Modifiers(ctx, id); return err }); err != nil {
		q.failed("modifiers", id, err)
		g.Modifiers = models.Modifiers{}
	}
	if err := guard(func() (err error) { g.Releases, err = q.p.EndReleases(ctx, id); return err }); err != nil {
		q.failed("end_releases", id, err)
		g.Releases = models.EndReleases{}
	}
	if err := guard(func() (err error) { g.Offsets, err = q.p.EndOffsets(ctx, id); return err }); err != nil {
		q.failed("end_offsets", id, err)
		g.Offsets = models.EndOffsets{}
	}
	if err := guard(func() (err error) { g.Steel, err = q.p.SteelProperties(ctx, id); return err }); err != nil {
		q.failed("steel_properties", id, err)
		g.Steel = models.SteelProperties{}
	}
	return g
}

// Record builds a BeamRecord for id with every model-derived field filled,
// using sentinels where a query failed. Grouping fields are left to the caller.
func (q *Querier) Record(ctx context.Context, id string) models.BeamRecord {
	label, story := q.LabelAndStory(ctx, id)
	return models.BeamRecord{
		UniqueID:    id,
		Label:       label,
		GUID:        q.GlobalID(ctx, id),
		Story:       story,
		SectionName: q.SectionName(ctx, id),
		Material:    q.SectionMaterial(ctx, id),
		Geometry:    q.Geometry(ctx, id),
	}
}

// Selected returns the current selection. Unlike element getters it reports
// failures, since an unknown selection cannot be replaced by a sentinel.
func (q *Querier) Selected(ctx context.Context) ([]string, error) {
	var ids []string
	err := guard(func() (err error) {
		ids, err = q.p.SelectedElementIDs(ctx)
		return err
	})
	return ids, err
}

// ClearSelection clears the live selection, logging failures.
func (q *Querier) ClearSelection(ctx context.Context) {
	if err := guard(func() error { return q.p.ClearSelection(ctx) }); err != nil {
		q.log.Warn("clear selection failed", zap.Error(err))
	}
}

// HideElements hides ids in the model view, logging failures.
func (q *Querier) HideElements(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	if err := guard(func() error { return q.p.HideElements(ctx, ids) }); err != nil {
		q.log.Warn("hide elements failed", zap.Int("count", len(ids)), zap.Error(err))
	}
}

// ShowAllElements makes every element visible again, logging failures.
func (q *Querier) ShowAllElements(ctx context.Context) {
	if err := guard(func() error { return q.p.ShowAllElements(ctx) }); err != nil {
		q.log.Warn("show all elements failed", zap.Error(err))
	}
}

// StoryNames returns the model stories or nil on failure.
func (q *Querier) StoryNames(ctx context.Context) []string {
	var names []string
	if err := guard(func() (err error) { names, err = q.p.StoryNames(ctx); return err }); err != nil {
		q.log.Warn("story names query failed", zap.Error(err))
		return nil
	}
	return names
}

// CombinationNames returns the model load combinations or nil on failure.
func (q *Querier) CombinationNames(ctx context.Context) []string {
	var names []string
	if err := guard(func() (err error) { names, err = q.p.CombinationNames(ctx); return err }); err != nil {
		q.log.Warn("combination names query failed", zap.Error(err))
		return nil
	}
	return names
}
