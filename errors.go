package gocsv

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying the taxonomy from spec.md §7. Use
// errors.Is against these; CsvError.Unwrap always resolves to one of
// them. Cancellation is not a CsvError: the context's own error is
// returned as is.
var (
	ErrBadData      = errors.New("gocsv: bad data")
	ErrMissingField = errors.New("gocsv: missing field")
	ErrConversion   = errors.New("gocsv: conversion failure")
	ErrArgument     = errors.New("gocsv: invalid argument")
)

// CsvError carries the location of a read-side failure, mirroring the
// teacher's ParseError but widened with row index and field index per
// spec.md §6's error surface.
type CsvError struct {
	RowIndex   int64
	LineNumber int64
	FieldIndex int
	Message    string
	kind       error
}

// Error formats the error with its location and message.
func (e *CsvError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("gocsv: row %d, line %d, field %d: %s", e.RowIndex, e.LineNumber, e.FieldIndex, e.Message)
}

// Unwrap returns the taxonomy sentinel this error belongs to, so callers
// can use errors.Is(err, gocsv.ErrBadData) etc.
func (e *CsvError) Unwrap() error {
	if e == nil || e.kind == nil {
		return ErrBadData
	}
	return e.kind
}

func newBadDataError(rowIndex, lineNumber int64, fieldIndex int, message string) *CsvError {
	return &CsvError{RowIndex: rowIndex, LineNumber: lineNumber, FieldIndex: fieldIndex, Message: message, kind: ErrBadData}
}

func newMissingFieldError(rowIndex, lineNumber int64, fieldIndex int, message string) *CsvError {
	return &CsvError{RowIndex: rowIndex, LineNumber: lineNumber, FieldIndex: fieldIndex, Message: message, kind: ErrMissingField}
}

func newConversionError(rowIndex, lineNumber int64, fieldIndex int, message string) *CsvError {
	return &CsvError{RowIndex: rowIndex, LineNumber: lineNumber, FieldIndex: fieldIndex, Message: message, kind: ErrConversion}
}

// argumentError wraps ErrArgument for argument failures (Options.Validate,
// a non-pointer GetRecord destination, a read on a closed Reader). A nil
// source or destination panics in NewReader/NewWriter instead.
func argumentError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrArgument}, args...)...)
}
