package query

import (
	"fmt"
	"strings"
)

// filterOps maps filter expression tokens to operators. Two character
// tokens are listed first so they win over their one character prefixes.
var filterOps = []struct {
	token string
	op    Operator
}{
	{"!=", NotEqual},
	{"!~", NotLike},
	{">=", GreaterOrEqual},
	{"<=", LessOrEqual},
	{"=", Equal},
	{"~", Like},
	{">", Greater},
	{"<", Less},
}

// JobFieldPrefix marks a filter name as a fixed job field rather than a
// worklist column, as in "job.run_status=0".
const JobFieldPrefix = "job."

// ParseFilter parses an expression of the form NAME OP VALUE where OP is one
// of = != > < >= <= ~ (contains) !~ (does not contain). The operator is the
// leftmost token found.
func ParseFilter(expr string) (*Predicate, error) {
	pos, width := -1, 0
	var op Operator
	for _, f := range filterOps {
		i := strings.Index(expr, f.token)
		if i < 0 {
			continue
		}
		if pos < 0 || i < pos || (i == pos && len(f.token) > width) {
			pos, width, op = i, len(f.token), f.op
		}
	}
	if pos < 0 {
		return nil, fmt.Errorf("filter %q: no operator (use = != > < >= <= ~ !~)", expr)
	}

	name := strings.TrimSpace(expr[:pos])
	value := strings.TrimSpace(expr[pos+width:])
	if name == "" {
		return nil, fmt.Errorf("filter %q: missing column name", expr)
	}

	if field, ok := strings.CutPrefix(name, JobFieldPrefix); ok {
		p := Field(field, op, value)
		if p == nil {
			return nil, fmt.Errorf("filter %q: unknown job field %q", expr, field)
		}
		return p, nil
	}
	return Value(name, op, value), nil
}

// ParseFilters parses every expression and combines them with logic.
func ParseFilters(exprs []string, logic Logic) (*Predicate, error) {
	preds := make([]*Predicate, 0, len(exprs))
	for _, e := range exprs {
		p, err := ParseFilter(e)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return Combine(preds, logic), nil
}
