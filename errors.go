package mfdata

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-mfdata/structure"
)

var (
	// ErrTypeConversion marks a raw value that does not convert to the
	// declared type of its field.
	ErrTypeConversion = errors.New("mfdata: type conversion failed")
	// ErrUnsupportedOperation marks an operation the field type does not allow.
	ErrUnsupportedOperation = errors.New("mfdata: unsupported operation")
	// ErrMissingData marks a line that lacks the data token after its keyword.
	ErrMissingData = errors.New("mfdata: missing data")
	// ErrKeywordMismatch marks a line that does not start with the expected keyword.
	ErrKeywordMismatch = errors.New("mfdata: keyword mismatch")
)

// TypeConversionError reports a value that cannot be held by Field.
type TypeConversionError struct {
	Field string
	Text  string
	Type  structure.ItemType
	Err   error
}

func (e *TypeConversionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("mfdata: variable %q: cannot convert %q to %s: %v", e.Field, e.Text, e.Type, e.Err)
}

func (e *TypeConversionError) Unwrap() []error {
	if e == nil {
		return nil
	}
	return []error{ErrTypeConversion, e.Err}
}

// UnsupportedOperationError reports an operation invoked on a field whose
// type does not support it.
type UnsupportedOperationError struct {
	Field string
	Type  structure.ItemType
	Op    string
}

func (e *UnsupportedOperationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("mfdata: %s of type %s does not support %s operation", e.Field, e.Type, e.Op)
}

func (e *UnsupportedOperationError) Unwrap() error {
	return ErrUnsupportedOperation
}

// MissingDataError reports a line that ended before the expected data token.
type MissingDataError struct {
	Field string
	Label string
	Line  string
}

func (e *MissingDataError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("mfdata: error reading variable %q: expected data after label %q not found at line %q",
		e.Field, e.Label, e.Line)
}

func (e *MissingDataError) Unwrap() error {
	return ErrMissingData
}

// KeywordError reports a line whose leading token is not the field keyword.
type KeywordError struct {
	Field    string
	Expected string
	Got      string
	Line     string
}

func (e *KeywordError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Got == "" {
		return fmt.Sprintf("mfdata: variable %q: expected keyword %q at line %q", e.Field, e.Expected, e.Line)
	}
	return fmt.Sprintf("mfdata: variable %q: expected keyword %q, found %q at line %q",
		e.Field, e.Expected, e.Got, e.Line)
}

func (e *KeywordError) Unwrap() error {
	return ErrKeywordMismatch
}

func wrapConversionError(field string, raw any, typ structure.ItemType, err error) error {
	if err == nil {
		return nil
	}
	var convErr *TypeConversionError
	if errors.As(err, &convErr) {
		return err
	}
	return &TypeConversionError{
		Field: field,
		Text:  fmt.Sprint(raw),
		Type:  typ,
		Err:   err,
	}
}
