package columns

import "fmt"

// InvalidEnumValueError reports a coded field whose value lies outside its
// enumerated domain.
type InvalidEnumValueError struct {
	Field string
	Value string
}

func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("unknown value for '%s': %q", e.Field, e.Value)
}

// CastError reports a value that could not be converted by a column's DType.
type CastError struct {
	Column string
	DType  DType
	Value  any
	Err    error
}

func (e *CastError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("cannot cast %#v to %s: %v", e.Value, e.DType, e.Err)
	}
	return fmt.Sprintf("column %q: cannot cast %#v to %s: %v", e.Column, e.Value, e.DType, e.Err)
}

func (e *CastError) Unwrap() error {
	return e.Err
}
