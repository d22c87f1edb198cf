package layout

import (
	"errors"
	"fmt"
)

// ErrLayoutWriteFailed indicates a sheet or beam block could not be written.
var ErrLayoutWriteFailed = errors.New("layout write failed")

// ErrTemplateNotFound indicates the template workbook or sheet is missing.
var ErrTemplateNotFound = errors.New("template not found")

// LayoutError is a failure confined to one sheet or one beam block.
type LayoutError struct {
	SheetName string
	Component string // "sheet", "beam <id>", "header", "print_area"
	Err       error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("layout error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

// Unwrap returns both the cause and ErrLayoutWriteFailed.
func (e *LayoutError) Unwrap() []error {
	return []error{ErrLayoutWriteFailed, e.Err}
}

// NewLayoutError creates a new LayoutError.
func NewLayoutError(sheetName, component string, err error) *LayoutError {
	return &LayoutError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
