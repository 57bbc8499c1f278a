package models

import "fmt"

// ValidationError reports a MachineParameters precondition violation.
// It is raised before any computation; there is never partial output.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

// FormatError reports an uploaded table that cannot be reconstructed:
// either the file has no data rows, or no row's first cell parses as a
// number. Raised before reconstruction; there is never a partial series.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unusable log file: %s", e.Reason)
}

var (
	// ErrNoData is the FormatError for a table with zero data rows.
	ErrNoData = &FormatError{Reason: "no data rows found"}
	// ErrUnrecognizedFormat is the FormatError for a table where no row
	// starts with a numeric cell.
	ErrUnrecognizedFormat = &FormatError{Reason: "unrecognized format: no numeric data row found"}
)
