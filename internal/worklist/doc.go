// Package worklist decodes MassHunter worklist XML into model.Worklist values.
//
// Decoding runs in two phases. The attribute information section is read
// first and every non system defined attribute becomes a column in a frozen
// columns.Set. Job entries are then decoded against that set, so values stored
// in SampleDataArray elements can be resolved by attribute id.
//
// Any missing element or unconvertible value aborts the whole decode.
package worklist
