// Package query builds parameterized SELECT statements over stored jobs.
//
// Column values live in the job_values table in long form, so a predicate on
// a worklist column becomes an EXISTS subquery, while predicates on the fixed
// job fields compare the jobs table directly.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mhtools/mhwork/internal/model"
)

// Logic determines how multiple predicates are combined.
type Logic int

const (
	AND Logic = iota
	OR
)

// Operator represents a SQL comparison operator.
type Operator string

const (
	Equal          Operator = "="
	NotEqual       Operator = "!="
	Like           Operator = "LIKE"
	NotLike        Operator = "NOT LIKE"
	Greater        Operator = ">"
	Less           Operator = "<"
	GreaterOrEqual Operator = ">="
	LessOrEqual    Operator = "<="
)

// validOperators is the set of allowed operators for validation.
var validOperators = map[Operator]bool{
	Equal: true, NotEqual: true, Like: true, NotLike: true,
	Greater: true, Less: true, GreaterOrEqual: true, LessOrEqual: true,
}

// Predicate represents a single filter condition or a composite of conditions.
// Predicates use parameterized values to prevent SQL injection.
type Predicate struct {
	kind   predicateKind
	field  string
	op     Operator
	value  string
	date1  string
	date2  string
	listID int64
	left   *Predicate
	right  *Predicate
	logic  Logic
}

type predicateKind int

const (
	predNone predicateKind = iota
	predValue
	predField
	predDate
	predWorklist
	predComposite
)

// Value creates a predicate comparing the stored value of a worklist column.
// Returns nil if the column name is empty or the operator is unrecognized.
// Ordering operators compare numerically when value is a number.
func Value(column string, op Operator, value string) *Predicate {
	if strings.TrimSpace(column) == "" || !validOperators[op] {
		return nil
	}
	return &Predicate{kind: predValue, field: column, op: op, value: value}
}

// Field creates a predicate comparing one of the fixed job fields.
// Returns nil if the field name is invalid or the operator is unrecognized.
func Field(field string, op Operator, value string) *Predicate {
	if !model.IsValidJobField(field) || !validOperators[op] {
		return nil
	}
	return &Predicate{kind: predField, field: field, op: op, value: value}
}

// AcquiredBetween filters jobs acquired between two RFC 3339 UTC times
// (inclusive).
func AcquiredBetween(date1, date2 string) *Predicate {
	return &Predicate{kind: predDate, date1: date1, date2: date2}
}

// InWorklist restricts jobs to one stored worklist.
func InWorklist(id int64) *Predicate {
	return &Predicate{kind: predWorklist, listID: id}
}

// Combine joins multiple predicates with the given logic (AND or OR).
// Returns nil for an empty slice. Returns the single predicate if only one is given.
// Nil predicates in the slice are skipped.
func Combine(preds []*Predicate, logic Logic) *Predicate {
	filtered := make([]*Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			filtered = append(filtered, p)
		}
	}

	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}

	result := &Predicate{
		kind:  predComposite,
		left:  filtered[0],
		right: filtered[1],
		logic: logic,
	}
	for i := 2; i < len(filtered); i++ {
		result = &Predicate{
			kind:  predComposite,
			left:  result,
			right: filtered[i],
			logic: logic,
		}
	}
	return result
}

// argList collects parameter values and hands out their placeholders.
type argList struct {
	d    QueryDialect
	args []any
}

func (a *argList) add(v any) string {
	a.args = append(a.args, v)
	return a.d.Placeholder(len(a.args))
}

// WhereClause returns the SQL WHERE fragment and its parameter values.
// For example: "(jobs.label = ?)", []any{"A1"}
func (p *Predicate) WhereClause(d QueryDialect) (string, []any) {
	a := &argList{d: d}
	return p.where(a), a.args
}

func (p *Predicate) where(a *argList) string {
	if p == nil {
		return ""
	}

	switch p.kind {
	case predValue:
		name := a.add(p.field)
		expr, rhs := p.comparison(a, "v.value")
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM job_values v WHERE v.job_ref = jobs.%s AND v.name = %s AND %s %s %s)",
			a.d.IDColumn(), name, expr, p.sqlOp(a.d), rhs)

	case predField:
		expr, rhs := p.comparison(a, "jobs."+a.d.QuoteColumn(p.field))
		return fmt.Sprintf("(%s %s %s)", expr, p.sqlOp(a.d), rhs)

	case predDate:
		from := a.add(p.date1)
		to := a.add(p.date2)
		return fmt.Sprintf("(jobs.acquired_time BETWEEN %s AND %s)", from, to)

	case predWorklist:
		return fmt.Sprintf("(jobs.worklist_id = %s)", a.add(p.listID))

	case predComposite:
		leftSQL := p.left.where(a)
		rightSQL := p.right.where(a)

		if leftSQL == "" {
			return rightSQL
		}
		if rightSQL == "" {
			return leftSQL
		}

		logicStr := "AND"
		if p.logic == OR {
			logicStr = "OR"
		}
		return fmt.Sprintf("(%s %s %s)", leftSQL, logicStr, rightSQL)

	default:
		return ""
	}
}

// comparison returns the left expression and bound right operand.
func (p *Predicate) comparison(a *argList, column string) (string, string) {
	switch p.op {
	case Like, NotLike:
		return column, a.add("%" + p.value + "%")
	case Greater, Less, GreaterOrEqual, LessOrEqual:
		if f, err := strconv.ParseFloat(strings.TrimSpace(p.value), 64); err == nil {
			return a.d.NumericSQL(column), a.add(f)
		}
	}
	return column, a.add(p.value)
}

func (p *Predicate) sqlOp(d QueryDialect) string {
	switch p.op {
	case Like:
		return d.LikeOperator()
	case NotLike:
		return "NOT " + d.LikeOperator()
	default:
		return string(p.op)
	}
}

// Fields returns the column and field names referenced by this predicate tree.
func (p *Predicate) Fields() []string {
	if p == nil {
		return nil
	}

	switch p.kind {
	case predValue, predField:
		return []string{p.field}
	case predDate:
		return []string{"acquired_time"}
	case predWorklist:
		return []string{"worklist_id"}
	case predComposite:
		seen := make(map[string]bool)
		var result []string
		for _, f := range append(p.left.Fields(), p.right.Fields()...) {
			if !seen[f] {
				seen[f] = true
				result = append(result, f)
			}
		}
		return result
	default:
		return nil
	}
}

// Query builds a full SELECT statement from predicates, ordering, and pagination.
type Query struct {
	dialect    QueryDialect
	predicates []*Predicate
	logic      Logic
	orderBy    string
	pageSize   int
	page       int
}

// New creates a new Query with the given page size.
// Pass 0 for no pagination.
func New(pageSize int) *Query {
	return &Query{
		dialect:  DefaultDialect,
		logic:    AND,
		pageSize: pageSize,
		page:     1,
	}
}

// SetDialect selects the SQL dialect used by Build.
func (q *Query) SetDialect(d QueryDialect) {
	if d != nil {
		q.dialect = d
	}
}

// SetLogic sets how top-level predicates are combined (AND or OR).
func (q *Query) SetLogic(logic Logic) {
	q.logic = logic
}

// AddPredicate appends a predicate to the query. Nil predicates are ignored.
func (q *Query) AddPredicate(p *Predicate) {
	if p != nil {
		q.predicates = append(q.predicates, p)
	}
}

// RemovePredicate removes the first occurrence of a predicate from the query.
func (q *Query) RemovePredicate(p *Predicate) {
	for i, pred := range q.predicates {
		if pred == p {
			q.predicates = append(q.predicates[:i], q.predicates[i+1:]...)
			return
		}
	}
}

// ClearPredicates removes all predicates from the query.
func (q *Query) ClearPredicates() {
	q.predicates = nil
}

// OrderBy sets the job field to sort results by.
// Pass an empty string to clear ordering.
// Returns an error if the field name is not valid.
func (q *Query) OrderBy(field string) error {
	if field == "" {
		q.orderBy = ""
		return nil
	}
	if !model.IsValidJobField(field) {
		return fmt.Errorf("invalid order by field: %s", field)
	}
	q.orderBy = field
	return nil
}

// SetPage sets the current page number (1-based).
func (q *Query) SetPage(page int) {
	if page >= 1 {
		q.page = page
	}
}

// PageNumber returns the current page number (1-based).
func (q *Query) PageNumber() int {
	return q.page
}

func (q *Query) selectFields() string {
	fields := make([]string, len(model.JobFields))
	for i, f := range model.JobFields {
		fields[i] = "jobs." + q.dialect.QuoteColumn(f)
	}
	return strings.Join(fields, ", ")
}

func (q *Query) whereSQL() (string, []any) {
	combined := Combine(q.predicates, q.logic)
	if combined == nil {
		return "", nil
	}
	where, args := combined.WhereClause(q.dialect)
	if where == "" {
		return "", nil
	}
	return " WHERE " + where, args
}

func (q *Query) tail() string {
	var sql string
	if q.orderBy != "" {
		sql += " ORDER BY jobs." + q.dialect.QuoteColumn(q.orderBy)
		if q.orderBy != "id" {
			sql += ", jobs.id"
		}
	} else {
		sql += " ORDER BY jobs.worklist_id, jobs.seq"
	}
	if q.pageSize > 0 {
		offset := q.pageSize * (q.page - 1)
		sql += fmt.Sprintf(" LIMIT %d OFFSET %d", q.pageSize, offset)
	}
	return sql
}

// Build generates the full SQL SELECT statement and its parameter values.
// Selected columns follow model.JobFields. Without an explicit ordering
// jobs come back in worklist order.
func (q *Query) Build() (string, []any) {
	where, args := q.whereSQL()
	return "SELECT " + q.selectFields() + " FROM jobs" + where + q.tail(), args
}

// BuildCount generates a COUNT query using the same predicates.
func (q *Query) BuildCount() (string, []any) {
	where, args := q.whereSQL()
	return "SELECT COUNT(jobs." + q.dialect.IDColumn() + ") FROM jobs" + where, args
}

// PredicateFields returns all names referenced across all predicates.
func (q *Query) PredicateFields() []string {
	seen := make(map[string]bool)
	var result []string
	for _, p := range q.predicates {
		for _, f := range p.Fields() {
			if !seen[f] {
				seen[f] = true
				result = append(result, f)
			}
		}
	}
	return result
}

// RawQuery wraps a user-provided SQL WHERE clause over the jobs table.
type RawQuery struct {
	Query
	rawWhere string
}

// NewRaw creates a query from a raw WHERE clause string.
// The raw clause is used as-is, so the caller is responsible for safety.
// Pagination and ordering still work normally on top of it.
func NewRaw(pageSize int, whereClause string) *RawQuery {
	return &RawQuery{
		Query:    *New(pageSize),
		rawWhere: whereClause,
	}
}

// SetRawWhere updates the raw WHERE clause.
func (rq *RawQuery) SetRawWhere(where string) {
	rq.rawWhere = where
}

// Build generates the SQL using the raw WHERE clause plus ordering and pagination.
func (rq *RawQuery) Build() (string, []any) {
	sql := "SELECT " + rq.selectFields() + " FROM jobs"
	if rq.rawWhere != "" {
		sql += " WHERE " + rq.rawWhere
	}
	// Raw queries don't use parameterized args for the WHERE clause
	return sql + rq.tail(), nil
}
