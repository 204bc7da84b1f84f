package adbundle

import (
	"errors"
	"fmt"

	"github.com/ukaji3/adbundle-go/pkg/adbundle/parser"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrNoTargetSheets indicates that no sheet name contains any marker.
var ErrNoTargetSheets = errors.New("no target sheets found")

// ErrInvalidOptions indicates unusable extraction options.
var ErrInvalidOptions = errors.New("invalid options")

// ResolutionError reports canonical fields that no column matched.
type ResolutionError = parser.ResolutionError

// ExtractionError represents an error during extraction.
type ExtractionError struct {
	SheetName string
	Component string // e.g. "cells"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(sheetName, component string, err error) *ExtractionError {
	return &ExtractionError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}

// IsStructural reports whether err means there is nothing to analyze.
func IsStructural(err error) bool {
	var ee *ExtractionError
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrNoTargetSheets) ||
		errors.As(err, &ee)
}
