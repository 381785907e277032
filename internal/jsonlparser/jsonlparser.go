// Package jsonlparser writes worklist tables as JSON records or JSON lines
// and reads JSON lines back.
package jsonlparser

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mhtools/mhwork/internal/model"
)

// Record is a JSON object whose keys keep their order.
type Record struct {
	Keys   []string
	Values map[string]any
}

// NewRecord pairs keys with values positionally.
func NewRecord(keys []string, values []any) Record {
	r := Record{Keys: keys, Values: make(map[string]any, len(keys))}
	for i, k := range keys {
		if i < len(values) {
			r.Values[k] = values[i]
		}
	}
	return r
}

// MarshalJSON writes the object with keys in Record order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeValue(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeValue(&buf, r.Values[k]); err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeValue appends v to buf without HTML escaping or a trailing newline.
func encodeValue(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}

// UnmarshalJSON reads an object and records the order of its keys.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("not a JSON object")
	}

	r.Keys = nil
	r.Values = make(map[string]any)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		if _, seen := r.Values[key]; !seen {
			r.Keys = append(r.Keys, key)
		}
		r.Values[key] = v
	}
	_, err = dec.Token()
	return err
}

// Records converts every table row to a Record keyed by the headers.
func Records(t *model.Table) []Record {
	out := make([]Record, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = NewRecord(t.Headers, row)
	}
	return out
}

// WriteJSON writes t to w as an indented JSON array of records.
func WriteJSON(w io.Writer, t *model.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Records(t)); err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	return nil
}

// WriteLines writes t to w as one JSON record per line.
func WriteLines(w io.Writer, t *model.Table) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, rec := range Records(t) {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding row %d: %w", i+1, err)
		}
	}
	return nil
}

// WriteFile writes t to path, as JSON lines when lines is set and as a JSON
// array otherwise.
func WriteFile(path string, t *model.Table, lines bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	w := bufio.NewWriter(f)
	if lines {
		err = WriteLines(w, t)
	} else {
		err = WriteJSON(w, t)
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadResult contains the outcome of a JSONL import operation.
type ReadResult struct {
	Records  []Record
	Count    int
	Excluded int
}

// Table returns the records as a model.Table. Headers follow first
// appearance across all records; absent keys become nil cells.
func (r *ReadResult) Table() *model.Table {
	var headers []string
	seen := make(map[string]bool)
	for _, rec := range r.Records {
		for _, k := range rec.Keys {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}

	rows := make([][]any, len(r.Records))
	for i, rec := range r.Records {
		row := make([]any, len(headers))
		for j, h := range headers {
			row[j] = rec.Values[h]
		}
		rows[i] = row
	}
	return &model.Table{Headers: headers, Rows: rows}
}

// ValidateFile checks that the first line of path is a JSON object.
func ValidateFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)

	if !scanner.Scan() {
		return fmt.Errorf("empty file")
	}

	line := strings.TrimSpace(scanner.Text())
	if len(line) == 0 || line[0] != '{' {
		return fmt.Errorf("first line is not a JSON object")
	}

	var rec Record
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return fmt.Errorf("first line is not valid JSON: %w", err)
	}
	return nil
}

// ReadLines reads one record per line from path. Blank lines are skipped and
// lines that do not hold a JSON object are counted as excluded.
func ReadLines(path string) (*ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)

	result := &ReadResult{}
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			result.Excluded++
			continue
		}
		result.Records = append(result.Records, rec)
		result.Count++
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading file at line %d: %w", lineNum, err)
	}

	return result, nil
}
