package worklist

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/mhtools/mhwork/internal/columns"
)

// DecodeAttribute reads one <Attributes> element.
func DecodeAttribute(el *etree.Element) (columns.Attribute, error) {
	r := newFieldReader(el)

	attributeID := r.int("AttributeID")
	typeCode := r.int("AttributeType")
	fieldType := r.int("FieldType")
	spec := columns.AttributeSpec{
		AttributeID:      attributeID,
		FieldType:        &fieldType,
		SystemName:       r.text("SystemName"),
		HeaderName:       r.text("HeaderName"),
		DataType:         r.int("DataType"),
		DefaultDataValue: r.text("DefaultDataValue"),
		ShowHideStatus:   r.bool("ShowHideStatus"),
		ColumnWidth:      r.int("ColumnWidth"),
	}
	reorderID := r.int("ReorderID")
	spec.ReorderID = &reorderID

	if r.err != nil {
		return columns.Attribute{}, fmt.Errorf("decoding attribute: %w", r.err)
	}

	attrType, err := columns.ParseAttributeType(typeCode)
	if err != nil {
		return columns.Attribute{}, fmt.Errorf("decoding attribute %d: %w", attributeID, err)
	}
	spec.AttributeType = attrType

	return columns.NewAttribute(spec), nil
}
