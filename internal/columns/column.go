package columns

import (
	"errors"
	"strings"
)

// Column is a resolved field definition able to cast raw cell text.
// Columns are plain values and compare field by field with ==.
type Column struct {
	Name          string
	AttributeID   int
	AttributeType AttributeType
	DType         DType
	DefaultValue  any
	FieldType     int
	ReorderID     int
}

// Option adjusts a Column under construction.
type Option func(*Column)

// WithFieldType overrides the field type, which otherwise equals the attribute id.
func WithFieldType(fieldType int) Option {
	return func(c *Column) { c.FieldType = fieldType }
}

// WithReorderID overrides the display position, which otherwise equals the
// attribute id. -1 hides the column.
func WithReorderID(reorderID int) Option {
	return func(c *Column) { c.ReorderID = reorderID }
}

// NewColumn builds a Column, casting defaultValue through dtype. A default
// that cannot be cast is rejected here rather than on first use.
func NewColumn(name string, attributeID int, attributeType AttributeType, dtype DType, defaultValue any, opts ...Option) (Column, error) {
	c := Column{
		Name:          strings.TrimSpace(name),
		AttributeID:   attributeID,
		AttributeType: attributeType,
		DType:         dtype,
		DefaultValue:  defaultValue,
		FieldType:     attributeID,
		ReorderID:     attributeID,
	}
	for _, opt := range opts {
		opt(&c)
	}

	if dtype != Passthrough {
		v, err := dtype.Cast(defaultValue)
		if err != nil {
			return Column{}, c.castError(err)
		}
		c.DefaultValue = v
	}
	return c, nil
}

// FromAttribute derives a Column from an attribute declared in a worklist.
// The result depends only on a.
func FromAttribute(a Attribute) (Column, error) {
	return NewColumn(
		a.HeaderName,
		a.AttributeID,
		a.AttributeType,
		DTypeForDataType(a.DataType),
		a.DefaultDataValue,
		WithFieldType(a.FieldType),
		WithReorderID(a.ReorderID),
	)
}

// CastValue converts raw cell text. Empty text yields the default value.
func (c Column) CastValue(raw string) (any, error) {
	if raw == "" {
		return c.DefaultValue, nil
	}
	v, err := c.DType.Cast(raw)
	if err != nil {
		return nil, c.castError(err)
	}
	return v, nil
}

// Hidden reports whether the column is flagged as not displayed.
func (c Column) Hidden() bool {
	return c.ReorderID == -1
}

func (c Column) castError(err error) error {
	var castErr *CastError
	if errors.As(err, &castErr) {
		e := *castErr
		e.Column = c.Name
		return &e
	}
	return &CastError{Column: c.Name, DType: c.DType, Err: err}
}
