package beamsheet

import (
	"errors"
	"fmt"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/grouping"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/layout"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/provider"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/session"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/store"
)

// Error taxonomy shared by every package.
var (
	ErrProviderUnavailable = provider.ErrProviderUnavailable
	ErrElementQueryFailed  = provider.ErrElementQueryFailed
	ErrEmptySelection      = session.ErrEmptySelection
	ErrSessionActive       = session.ErrSessionActive
	ErrSessionInactive     = session.ErrSessionInactive
	ErrAlreadyGrouped      = session.ErrAlreadyGrouped
	ErrSheetNameCollision  = grouping.ErrSheetNameCollision
	ErrLayoutWriteFailed   = layout.ErrLayoutWriteFailed
	ErrStoreWriteFailed    = store.ErrStoreWriteFailed
	ErrTemplateNotFound    = layout.ErrTemplateNotFound
)

var (
	// ErrNoBeams indicates the store holds nothing to lay out.
	ErrNoBeams = errors.New("no beams in store")
	// ErrOutputIsTemplate indicates the report would overwrite its own template.
	ErrOutputIsTemplate = errors.New("output path is the template")
)

// OperationError names the console operation a failure surfaced from.
type OperationError struct {
	Op  string // "begin_selection", "confirm_group", "rebuild_store", "run_layout", ...
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// NewOperationError wraps err for op; nil stays nil.
func NewOperationError(op string, err error) error {
	if err == nil {
		return nil
	}
	var oe *OperationError
	if errors.As(err, &oe) && oe.Op == op {
		return err
	}
	return &OperationError{Op: op, Err: err}
}

// Blocking reports whether err must interrupt the operator rather than only be
// logged.
func Blocking(err error) bool {
	return errors.Is(err, ErrProviderUnavailable) ||
		errors.Is(err, ErrEmptySelection) ||
		errors.Is(err, ErrAlreadyGrouped) ||
		errors.Is(err, ErrStoreWriteFailed) ||
		errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, ErrOutputIsTemplate)
}
