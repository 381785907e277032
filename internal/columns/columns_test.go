package columns

import (
	"errors"
	"strconv"
	"testing"

	"github.com/mhtools/mhwork/internal/convert"
)

func userAttribute() Attribute {
	fieldType := 45
	reorder := 30
	return NewAttribute(AttributeSpec{
		AttributeID:      28,
		AttributeType:    UserAdded,
		FieldType:        &fieldType,
		SystemName:       "UserDefined1",
		HeaderName:       " Drying Gas ",
		DataType:         5,
		DefaultDataValue: "13",
		ReorderID:        &reorder,
		ShowHideStatus:   true,
		ColumnWidth:      120,
	})
}

func TestNewAttributeDefaults(t *testing.T) {
	a := NewAttribute(AttributeSpec{AttributeID: 42, AttributeType: SystemUsed})
	if a.FieldType != 42 {
		t.Errorf("expected field type to default to 42, got %d", a.FieldType)
	}
	if a.ReorderID != 42 {
		t.Errorf("expected reorder id to default to 42, got %d", a.ReorderID)
	}

	reorder := 3
	a = NewAttribute(AttributeSpec{AttributeID: 42, ReorderID: &reorder})
	if a.FieldType != 42 || a.ReorderID != 3 {
		t.Errorf("unexpected field type/reorder id %d/%d", a.FieldType, a.ReorderID)
	}
}

func TestParseAttributeType(t *testing.T) {
	for code, want := range map[int]AttributeType{0: SystemDefined, 1: SystemUsed, 2: UserAdded} {
		got, err := ParseAttributeType(code)
		if err != nil {
			t.Fatalf("ParseAttributeType(%d) returned error: %v", code, err)
		}
		if got != want {
			t.Errorf("ParseAttributeType(%d) = %v, want %v", code, got, want)
		}
	}

	for _, code := range []int{-1, 3, 45} {
		_, err := ParseAttributeType(code)
		var enumErr *InvalidEnumValueError
		if !errors.As(err, &enumErr) {
			t.Fatalf("ParseAttributeType(%d): expected *InvalidEnumValueError, got %v", code, err)
		}
		if enumErr.Field != "AttributeType" {
			t.Errorf("unexpected field %q", enumErr.Field)
		}
	}
}

func TestDTypeForDataType(t *testing.T) {
	tests := map[int]DType{8: Text, 5: Float, 0: Passthrough, 1: Passthrough, 6: Passthrough}
	for code, want := range tests {
		if got := DTypeForDataType(code); got != want {
			t.Errorf("DTypeForDataType(%d) = %v, want %v", code, got, want)
		}
	}
}

func TestFromAttribute(t *testing.T) {
	c, err := FromAttribute(userAttribute())
	if err != nil {
		t.Fatalf("FromAttribute failed: %v", err)
	}

	want := Column{
		Name:          "Drying Gas",
		AttributeID:   28,
		AttributeType: UserAdded,
		DType:         Float,
		DefaultValue:  13.0,
		FieldType:     45,
		ReorderID:     30,
	}
	if c != want {
		t.Errorf("expected %+v, got %+v", want, c)
	}
}

func TestFromAttributeDeterministic(t *testing.T) {
	for _, dataType := range []int{0, 1, 5, 8} {
		a := userAttribute()
		a.DataType = dataType
		first, err := FromAttribute(a)
		if err != nil {
			t.Fatalf("FromAttribute(data type %d) failed: %v", dataType, err)
		}
		second, err := FromAttribute(a)
		if err != nil {
			t.Fatalf("FromAttribute(data type %d) failed: %v", dataType, err)
		}
		if first != second {
			t.Errorf("data type %d: columns differ: %+v vs %+v", dataType, first, second)
		}
	}
}

func TestFromAttributeBadDefault(t *testing.T) {
	a := userAttribute()
	a.DefaultDataValue = "not a number"

	_, err := FromAttribute(a)
	var castErr *CastError
	if !errors.As(err, &castErr) {
		t.Fatalf("expected *CastError, got %v", err)
	}
	if castErr.Column != "Drying Gas" {
		t.Errorf("expected column name in error, got %q", castErr.Column)
	}
	if castErr.DType != Float {
		t.Errorf("expected float dtype in error, got %v", castErr.DType)
	}
}

func TestNewColumnPassthroughKeepsDefault(t *testing.T) {
	c, err := NewColumn("Anything", 50, UserAdded, Passthrough, "not cast")
	if err != nil {
		t.Fatalf("NewColumn failed: %v", err)
	}
	if c.DefaultValue != "not cast" {
		t.Errorf("unexpected default %v", c.DefaultValue)
	}
}

func TestCastValueEmptyReturnsDefault(t *testing.T) {
	for _, c := range System.Columns() {
		got, err := c.CastValue("")
		if err != nil {
			t.Fatalf("%s: CastValue returned error: %v", c.Name, err)
		}
		if got != c.DefaultValue {
			t.Errorf("%s: expected default %#v, got %#v", c.Name, c.DefaultValue, got)
		}
	}

	c, err := NewColumn("Gas", 30, UserAdded, Passthrough, "x")
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := c.CastValue(""); got != "x" {
		t.Errorf("expected passthrough default, got %#v", got)
	}
}

func TestCastValue(t *testing.T) {
	tests := []struct {
		column string
		raw    string
		want   any
	}{
		{"Sample Name", "QC 1", "QC 1"},
		{"Method", `D:\Methods\LC.m`, convert.WindowsPath(`D:\Methods\LC.m`)},
		{"Inj Vol (µl)", "2", 2},
		{"Inj Vol (µl)", "-1", AsMethod},
		{"Equilib Time (min)", "3", 3},
		{"Dilution", "10", 10},
		{"Wt/Vol", "4.5", 4.5},
		{"Reserved4", "5.6", 5.6},
	}
	for _, tt := range tests {
		c, ok := System.Lookup(tt.column)
		if !ok {
			t.Fatalf("column %q not found", tt.column)
		}
		got, err := c.CastValue(tt.raw)
		if err != nil {
			t.Fatalf("%s: CastValue(%q) returned error: %v", tt.column, tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("%s: CastValue(%q) = %#v, want %#v", tt.column, tt.raw, got, tt.want)
		}
	}
}

func TestCastValueFailure(t *testing.T) {
	c, _ := System.Lookup("Dilution")
	_, err := c.CastValue("ten")
	var castErr *CastError
	if !errors.As(err, &castErr) {
		t.Fatalf("expected *CastError, got %v", err)
	}
	if castErr.Column != "Dilution" {
		t.Errorf("unexpected column %q", castErr.Column)
	}
}

func TestInjectionVolume(t *testing.T) {
	for _, v := range []any{-1, "-1"} {
		got, err := InjectionVolumeValue(v)
		if err != nil {
			t.Fatalf("InjectionVolumeValue(%#v) returned error: %v", v, err)
		}
		if got != AsMethod {
			t.Errorf("InjectionVolumeValue(%#v) = %#v, want %q", v, got, AsMethod)
		}
	}

	for n := 0; n <= 100; n++ {
		for _, v := range []any{n, strconv.Itoa(n)} {
			got, err := InjectionVolumeValue(v)
			if err != nil {
				t.Fatalf("InjectionVolumeValue(%#v) returned error: %v", v, err)
			}
			if got != n {
				t.Errorf("InjectionVolumeValue(%#v) = %#v, want %d", v, got, n)
			}
		}
	}

	if _, err := InjectionVolumeValue("lots"); err == nil {
		t.Error("expected error for non-numeric volume")
	}
}

func TestSystemColumns(t *testing.T) {
	if System.Len() != 28 {
		t.Fatalf("expected 28 system columns, got %d", System.Len())
	}
	if len(SystemTags) != System.Len() {
		t.Fatalf("expected %d system tags, got %d", System.Len(), len(SystemTags))
	}

	names := System.Names()
	for i, tag := range SystemTags {
		if names[i] != tag.Name {
			t.Errorf("position %d: tag maps to %q, column is %q", i, tag.Name, names[i])
		}
	}

	for i, c := range System.Columns() {
		if c.AttributeID != i {
			t.Errorf("%s: expected attribute id %d, got %d", c.Name, i, c.AttributeID)
		}
		if c.AttributeType != SystemDefined {
			t.Errorf("%s: expected SystemDefined, got %v", c.Name, c.AttributeType)
		}
	}

	inj, _ := System.Lookup("Inj Vol (µl)")
	if inj.DefaultValue != 5 || inj.ReorderID != 14 {
		t.Errorf("unexpected injection volume column %+v", inj)
	}
	reserved, _ := System.Lookup("Reserved6")
	if !reserved.Hidden() {
		t.Error("expected Reserved6 to be hidden")
	}
	method, _ := System.Lookup("Method")
	if method.DefaultValue != nil {
		t.Errorf("expected nil default for Method, got %#v", method.DefaultValue)
	}
}

func TestSetOrderAndIndexes(t *testing.T) {
	a, _ := NewColumn("Gas Temp", 30, UserAdded, Float, "300")
	b, _ := NewColumn("Nebulizer", 31, SystemUsed, Passthrough, "")
	c, _ := NewColumn("Gas Alias", 30, UserAdded, Text, "")
	replaced, _ := NewColumn("Gas Temp", 30, UserAdded, Float, "325")

	s := NewSet(a, b, c, replaced)
	if s.Len() != 3 {
		t.Fatalf("expected 3 columns, got %d", s.Len())
	}
	names := s.Names()
	if names[0] != "Gas Temp" || names[1] != "Nebulizer" || names[2] != "Gas Alias" {
		t.Errorf("unexpected order %v", names)
	}
	got, ok := s.Lookup("Gas Temp")
	if !ok || got.DefaultValue != 325.0 {
		t.Errorf("expected replaced column, got %+v", got)
	}

	byID := s.ByID(30)
	if len(byID) != 2 || byID[0].Name != "Gas Temp" || byID[1].Name != "Gas Alias" {
		t.Errorf("unexpected ByID(30) result %+v", byID)
	}
	if s.ByID(99) != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestNilSet(t *testing.T) {
	var s *Set
	if s.Len() != 0 || s.Names() != nil || s.ByID(1) != nil {
		t.Error("expected nil set to behave as empty")
	}
	if _, ok := s.Lookup("x"); ok {
		t.Error("expected lookup miss on nil set")
	}
}
