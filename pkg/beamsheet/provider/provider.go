// Package provider defines the contract with the structural model host application
// and the helpers that keep per-element query failures local.
package provider

import (
	"context"
	"errors"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
)

// ErrProviderUnavailable indicates the structural model cannot be reached.
var ErrProviderUnavailable = errors.New("structural model provider unavailable")

// ErrElementQueryFailed indicates a per-element query failed.
var ErrElementQueryFailed = errors.New("element query failed")

// ErrNotFound indicates the element does not exist in the model.
var ErrNotFound = errors.New("element not found")

// Provider is the structural model as seen by the core.
// Implementations translate host error codes into errors and never panic on
// "not found"; callers that need values use a Querier.
type Provider interface {
	// Ping checks that the model is reachable.
	Ping(ctx context.Context) error

	StoryNames(ctx context.Context) ([]string, error)
	CombinationNames(ctx context.Context) ([]string, error)

	// SelectedElementIDs returns the currently selected frame ids in model order.
	SelectedElementIDs(ctx context.Context) ([]string, error)
	ClearSelection(ctx context.Context) error
	HideElements(ctx context.Context, ids []string) error
	ShowAllElements(ctx context.Context) error

	LabelAndStory(ctx context.Context, id string) (label, story string, err error)
	GlobalID(ctx context.Context, id string) (string, error)
	SectionName(ctx context.Context, id string) (string, error)
	SectionMaterial(ctx context.Context, id string) (string, error)
	Length(ctx context.Context, id string) (float64, error)
	EndJoints(ctx context.Context, id string) (models.EndJoints, error)
	SectionProperties(ctx context.Context, id string) (models.SectionProperties, error)
	Modifiers(ctx context.Context, id string) (models.Modifiers, error)
	EndReleases(ctx context.Context, id string) (models.EndReleases, error)
	EndOffsets(ctx context.Context, id string) (models.EndOffsets, error)
	SteelProperties(ctx context.Context, id string) (models.SteelProperties, error)
}
