// Package csvparser writes worklist tables as CSV and reads them back.
package csvparser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mhtools/mhwork/internal/model"
)

// ReadResult contains the outcome of a CSV import operation.
type ReadResult struct {
	Headers  []string
	Rows     [][]string
	Count    int
	Excluded int
}

// Table returns the result as a model.Table of string cells.
func (r *ReadResult) Table() *model.Table {
	rows := make([][]any, len(r.Rows))
	for i, row := range r.Rows {
		out := make([]any, len(row))
		for j, v := range row {
			out[j] = v
		}
		rows[i] = out
	}
	return &model.Table{Headers: r.Headers, Rows: rows}
}

// Write writes t to w with a header row. Cells are rendered with
// model.FormatValue.
func Write(w io.Writer, t *model.Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.Headers); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range t.Strings() {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes t to a new CSV file at path.
func WriteFile(path string, t *model.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := Write(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ValidateHeader checks that the CSV file at path starts with a header row
// containing every required column.
func ValidateHeader(path string, required []string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(newNullStripper(f))
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, r := range required {
		if !present[r] {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("header is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ReadFile reads a CSV table previously written by WriteFile. Rows whose
// field count differs from the header are counted as excluded.
func ReadFile(path string) (*ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(newNullStripper(f))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	result := &ReadResult{Headers: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", result.Count+result.Excluded+1, err)
		}
		if len(row) != len(header) {
			result.Excluded++
			continue
		}
		result.Rows = append(result.Rows, row)
		result.Count++
	}

	return result, nil
}

// nullStripper wraps a reader and strips null bytes from the stream.
type nullStripper struct {
	r io.Reader
}

func newNullStripper(r io.Reader) io.Reader {
	return &nullStripper{r: r}
}

func (ns *nullStripper) Read(p []byte) (int, error) {
	n, err := ns.r.Read(p)
	if n > 0 {
		cleaned := strings.ReplaceAll(string(p[:n]), "\x00", "")
		copy(p, cleaned)
		n = len(cleaned)
	}
	return n, err
}
