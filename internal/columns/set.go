package columns

// Set is an immutable, ordered collection of columns indexed by display name
// and by attribute id. A nil *Set is empty.
type Set struct {
	cols   []Column
	byName map[string]int
	byID   map[int][]int
}

// NewSet freezes cols into a Set. A later column with the same name replaces
// the earlier one but keeps its position.
func NewSet(cols ...Column) *Set {
	s := &Set{
		cols:   make([]Column, 0, len(cols)),
		byName: make(map[string]int, len(cols)),
		byID:   make(map[int][]int, len(cols)),
	}
	for _, c := range cols {
		if i, ok := s.byName[c.Name]; ok {
			s.cols[i] = c
			continue
		}
		s.byName[c.Name] = len(s.cols)
		s.cols = append(s.cols, c)
	}
	for i, c := range s.cols {
		s.byID[c.AttributeID] = append(s.byID[c.AttributeID], i)
	}
	return s
}

// Lookup returns the column with the given display name.
func (s *Set) Lookup(name string) (Column, bool) {
	if s == nil {
		return Column{}, false
	}
	i, ok := s.byName[name]
	if !ok {
		return Column{}, false
	}
	return s.cols[i], true
}

// ByID returns every column declared with the attribute id, in set order.
func (s *Set) ByID(id int) []Column {
	if s == nil {
		return nil
	}
	idx := s.byID[id]
	if len(idx) == 0 {
		return nil
	}
	out := make([]Column, len(idx))
	for j, i := range idx {
		out[j] = s.cols[i]
	}
	return out
}

// Names returns the display names in set order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.cols))
	for i, c := range s.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns a copy of the columns in set order.
func (s *Set) Columns() []Column {
	if s == nil {
		return nil
	}
	out := make([]Column, len(s.cols))
	copy(out, s.cols)
	return out
}

// Len returns the number of columns.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.cols)
}
