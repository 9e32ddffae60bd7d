package table

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn     = errors.New("missing column")
	ErrInvalidColumnType = errors.New("invalid column type")
	ErrInvalidDateFormat = errors.New("invalid date format")
)

// MissingColumnError indicates a required column is absent from the schema.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q", e.Column)
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// InvalidColumnTypeError indicates a value that does not match the kind a
// column is expected to hold.
type InvalidColumnTypeError struct {
	Column string
	Key    Key
	Value  Value
	Want   Kind
}

func (e *InvalidColumnTypeError) Error() string {
	if e.Value.Kind() == e.Want {
		return fmt.Sprintf("column %q row %s: expected finite %s, got %q", e.Column, e.Key, e.Want, e.Value.String())
	}
	return fmt.Sprintf("column %q row %s: expected %s, got %s %q", e.Column, e.Key, e.Want, e.Value.Kind(), e.Value.String())
}

func (e *InvalidColumnTypeError) Is(target error) bool { return target == ErrInvalidColumnType }

// InvalidDateFormatError indicates a value that could not be parsed as a date.
type InvalidDateFormatError struct {
	Column string
	Key    Key
	Raw    string
}

func (e *InvalidDateFormatError) Error() string {
	return fmt.Sprintf("column %q row %s: cannot parse %q as a date", e.Column, e.Key, e.Raw)
}

func (e *InvalidDateFormatError) Is(target error) bool { return target == ErrInvalidDateFormat }
