package model

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mhtools/mhwork/internal/columns"
)

// Table is a worklist flattened to rows of column values.
type Table struct {
	Headers []string
	Rows    [][]any
}

// MissingValueError reports a job without a value for a declared column.
type MissingValueError struct {
	JobID  uuid.UUID
	Column string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("job %s has no value for column %q", e.JobID, e.Column)
}

// Headers returns the system column names followed by the user column names
// in discovery order.
func (w *Worklist) Headers() []string {
	headers := columns.System.Names()
	return append(headers, w.UserColumns.Names()...)
}

// AsTable projects the worklist onto Headers, one row per job. Columns keep
// declaration order; reorder ids are not applied.
func (w *Worklist) AsTable() (*Table, error) {
	headers := w.Headers()
	rows := make([][]any, 0, len(w.Jobs))

	for _, job := range w.Jobs {
		row := make([]any, len(headers))
		for i, h := range headers {
			v, ok := job.SampleInfo[h]
			if !ok {
				return nil, &MissingValueError{JobID: job.ID, Column: h}
			}
			row[i] = v
		}
		rows = append(rows, row)
	}

	return &Table{Headers: headers, Rows: rows}, nil
}

// Index returns the position of header, or -1.
func (t *Table) Index(header string) int {
	for i, h := range t.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// Strings renders every cell with FormatValue.
func (t *Table) Strings() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = FormatValue(v)
		}
		out[i] = cells
	}
	return out
}
