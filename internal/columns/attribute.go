package columns

import "strconv"

// AttributeType is the provenance of a worklist column.
type AttributeType int

const (
	SystemDefined AttributeType = iota
	SystemUsed
	UserAdded
)

func (t AttributeType) String() string {
	switch t {
	case SystemDefined:
		return "SystemDefined"
	case SystemUsed:
		return "SystemUsed"
	case UserAdded:
		return "UserAdded"
	default:
		return "AttributeType(" + strconv.Itoa(int(t)) + ")"
	}
}

// ParseAttributeType maps the integer code stored in a worklist to an
// AttributeType.
func ParseAttributeType(code int) (AttributeType, error) {
	switch t := AttributeType(code); t {
	case SystemDefined, SystemUsed, UserAdded:
		return t, nil
	default:
		return 0, &InvalidEnumValueError{Field: "AttributeType", Value: strconv.Itoa(code)}
	}
}

// Attribute is one column definition as declared inside a worklist file.
//
// FieldType numbers the system defined columns from 0 (sample id) to 24
// (reserved6). System used columns are 35 to 38 and user added columns start
// at 45.
type Attribute struct {
	AttributeID      int
	AttributeType    AttributeType
	FieldType        int
	SystemName       string
	HeaderName       string
	DataType         int
	DefaultDataValue string
	ReorderID        int
	ShowHideStatus   bool
	ColumnWidth      int
}

// AttributeSpec carries the raw pieces of an Attribute. A nil FieldType or
// ReorderID falls back to the attribute id.
type AttributeSpec struct {
	AttributeID      int
	AttributeType    AttributeType
	FieldType        *int
	SystemName       string
	HeaderName       string
	DataType         int
	DefaultDataValue string
	ReorderID        *int
	ShowHideStatus   bool
	ColumnWidth      int
}

// NewAttribute builds an Attribute from spec.
func NewAttribute(spec AttributeSpec) Attribute {
	a := Attribute{
		AttributeID:      spec.AttributeID,
		AttributeType:    spec.AttributeType,
		FieldType:        spec.AttributeID,
		SystemName:       spec.SystemName,
		HeaderName:       spec.HeaderName,
		DataType:         spec.DataType,
		DefaultDataValue: spec.DefaultDataValue,
		ReorderID:        spec.AttributeID,
		ShowHideStatus:   spec.ShowHideStatus,
		ColumnWidth:      spec.ColumnWidth,
	}
	if spec.FieldType != nil {
		a.FieldType = *spec.FieldType
	}
	if spec.ReorderID != nil {
		a.ReorderID = *spec.ReorderID
	}
	return a
}
