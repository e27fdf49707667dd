package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingColumn  = errors.New("missing required column")
	ErrThreatNotFound = errors.New("threat not found")
	ErrNilTable       = errors.New("no table to load")
)

// RowError describes a problem with one input row, either the reason it
// was skipped or a warning about a defaulted cell. Row is the spreadsheet
// row number, with the header on row 1.
type RowError struct {
	Row    int
	Field  string
	Value  string
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s %q: %s", e.Row, e.Field, e.Value, e.Reason)
}

func missingColumnError(cols []string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(cols, ", "))
}
