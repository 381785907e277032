// Package selection resolves user supplied column names against a table's
// headers and projects tables onto the resolved columns.
package selection

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/mhtools/mhwork/internal/columns"
	"github.com/mhtools/mhwork/internal/convert"
	"github.com/mhtools/mhwork/internal/model"
)

// Common spellings of system column names. Keys are in normalized form.
var headerAliases = map[string]string{
	"id":                 "Sample ID",
	"sample":             "Sample Name",
	"sample name":        "Sample Name",
	"acq method":         "Method",
	"acquisition method": "Method",
	"da method":          "Override DA Method",
	"data file":          "Data File",
	"data file name":     "Data File",
	"datafile":           "Data File",
	"file":               "Data File",
	"type":               "Sample Type",
	"inj vol":            "Inj Vol (µl)",
	"injection volume":   "Inj Vol (µl)",
	"volume":             "Inj Vol (µl)",
	"equilibration time": "Equilib Time (min)",
	"dilution factor":    "Dilution",
	"weight per volume":  "Wt/Vol",
	"description":        "Comment",
	"calib level name":   "Level Name",
	"level":              "Level Name",
	"group":              "Sample Group",
	"info":               "Info.",
	"sample information": "Info.",
	"acquired":           model.AcquiredTime,
	"acq time":           model.AcquiredTime,
}

var folder = cases.Fold()

// Normalize returns the matching key for a header: NFKC normalized, case
// folded, with runs of whitespace, underscores and hyphens collapsed to a
// single space.
func Normalize(s string) string {
	s = folder.String(norm.NFKC.String(s))
	s = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// UnknownColumnError reports a requested name that matches no header.
type UnknownColumnError struct {
	Name string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("no column matches %q", e.Name)
}

// Resolver maps loosely spelled column names to exact headers.
type Resolver struct {
	headers []string
	index   map[string]string
}

// NewResolver indexes headers. Exact header names win over XML tag names,
// which win over aliases.
func NewResolver(headers []string) *Resolver {
	r := &Resolver{
		headers: headers,
		index:   make(map[string]string, len(headers)*2),
	}
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	add := func(key, header string) {
		if !present[header] {
			return
		}
		key = Normalize(key)
		if _, ok := r.index[key]; !ok {
			r.index[key] = header
		}
	}

	for _, h := range headers {
		add(h, h)
	}
	for _, tag := range columns.SystemTags {
		add(tag.Tag, tag.Name)
	}
	for alias, h := range headerAliases {
		add(alias, h)
	}
	return r
}

// Resolve returns the header matching name.
func (r *Resolver) Resolve(name string) (string, error) {
	if h, ok := r.index[Normalize(name)]; ok {
		return h, nil
	}
	return "", &UnknownColumnError{Name: name}
}

// ResolveAll resolves every name, reporting all failures together.
// Duplicates after resolution are dropped, first one wins.
func (r *Resolver) ResolveAll(names []string) ([]string, error) {
	var result *multierror.Error
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		h, err := r.Resolve(name)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

// Select projects t onto the named columns, in the order given. An empty
// names list returns t unchanged.
func Select(t *model.Table, names []string) (*model.Table, error) {
	if len(names) == 0 {
		return t, nil
	}

	headers, err := NewResolver(t.Headers).ResolveAll(names)
	if err != nil {
		return nil, fmt.Errorf("selecting columns: %w", err)
	}

	idx := make([]int, len(headers))
	for i, h := range headers {
		idx[i] = t.Index(h)
	}

	rows := make([][]any, len(t.Rows))
	for r, row := range t.Rows {
		out := make([]any, len(idx))
		for i, j := range idx {
			out[i] = row[j]
		}
		rows[r] = out
	}

	return &model.Table{Headers: headers, Rows: rows}, nil
}

// VisibleHeaders returns the worklist headers minus the columns flagged
// hidden.
func VisibleHeaders(w *model.Worklist) []string {
	var out []string
	for _, c := range columns.System.Columns() {
		if !c.Hidden() {
			out = append(out, c.Name)
		}
	}
	for _, c := range w.UserColumns.Columns() {
		if !c.Hidden() {
			out = append(out, c.Name)
		}
	}
	return out
}

// BaseNames returns a copy of t with every path value replaced by its final
// element.
func BaseNames(t *model.Table) *model.Table {
	rows := make([][]any, len(t.Rows))
	for r, row := range t.Rows {
		out := make([]any, len(row))
		for i, v := range row {
			if p, ok := v.(convert.WindowsPath); ok {
				out[i] = p.Base()
				continue
			}
			out[i] = v
		}
		rows[r] = out
	}
	return &model.Table{Headers: t.Headers, Rows: rows}
}
