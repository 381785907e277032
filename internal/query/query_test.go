package query

import (
	"fmt"
	"strings"
	"testing"
)

const valueSQL = "EXISTS (SELECT 1 FROM job_values v WHERE v.job_ref = jobs.id AND v.name = ? AND v.value %s ?)"

// pgDialect mirrors the PostgreSQL dialect of the database package.
type pgDialect struct{}

func (pgDialect) Placeholder(i int) string       { return fmt.Sprintf("$%d", i) }
func (pgDialect) IDColumn() string               { return "id" }
func (pgDialect) QuoteColumn(name string) string { return name }
func (pgDialect) LikeOperator() string           { return "ILIKE" }
func (pgDialect) NumericSQL(expr string) string  { return "num(" + expr + ")" }

func TestValuePredicate(t *testing.T) {
	p := Value("Sample Type", Equal, "Blank")
	if p == nil {
		t.Fatal("expected non-nil predicate")
	}

	sql, args := p.WhereClause(DefaultDialect)
	if want := fmt.Sprintf(valueSQL, "="); sql != want {
		t.Errorf("got  %s\nwant %s", sql, want)
	}
	if len(args) != 2 || args[0] != "Sample Type" || args[1] != "Blank" {
		t.Errorf("expected args [Sample Type Blank], got %v", args)
	}
}

func TestValuePredicateInvalid(t *testing.T) {
	if Value("  ", Equal, "x") != nil {
		t.Error("expected nil for blank column")
	}
	if Value("Sample Name", "HACK", "x") != nil {
		t.Error("expected nil for invalid operator")
	}
}

func TestLikePredicate(t *testing.T) {
	p := Value("Sample Name", Like, "blank")
	sql, args := p.WhereClause(DefaultDialect)

	if want := fmt.Sprintf(valueSQL, "LIKE"); sql != want {
		t.Errorf("unexpected sql: %s", sql)
	}
	if args[1] != "%blank%" {
		t.Errorf("expected '%%blank%%', got %v", args[1])
	}
}

func TestNotLikePostgres(t *testing.T) {
	p := Value("Sample Name", NotLike, "qc")
	sql, args := p.WhereClause(pgDialect{})

	want := "EXISTS (SELECT 1 FROM job_values v WHERE v.job_ref = jobs.id AND v.name = $1 AND v.value NOT ILIKE $2)"
	if sql != want {
		t.Errorf("got  %s\nwant %s", sql, want)
	}
	if len(args) != 2 || args[1] != "%qc%" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestNumericComparison(t *testing.T) {
	p := Value("Dilution", GreaterOrEqual, "10")
	sql, args := p.WhereClause(DefaultDialect)

	if !strings.Contains(sql, "CAST(trim(v.value) AS REAL) END) >= ?") {
		t.Errorf("expected numeric cast, got %s", sql)
	}
	if args[1] != 10.0 {
		t.Errorf("expected float arg, got %#v", args[1])
	}

	p = Value("Sample Name", LessOrEqual, "M")
	sql, args = p.WhereClause(DefaultDialect)
	if strings.Contains(sql, "CAST") || args[1] != "M" {
		t.Errorf("text comparison became numeric: %s %v", sql, args)
	}
}

func TestFieldPredicate(t *testing.T) {
	p := Field("run_status", NotEqual, "0")
	sql, args := p.WhereClause(DefaultDialect)

	if sql != "(jobs.run_status != ?)" {
		t.Errorf("unexpected sql: %s", sql)
	}
	if len(args) != 1 || args[0] != "0" {
		t.Errorf("unexpected args: %v", args)
	}
	if Field("DROP TABLE", Equal, "x") != nil {
		t.Error("expected nil for invalid field name")
	}
}

func TestAcquiredBetween(t *testing.T) {
	p := AcquiredBetween("2025-01-01T00:00:00Z", "2025-06-30T23:59:59Z")
	sql, args := p.WhereClause(pgDialect{})

	if sql != "(jobs.acquired_time BETWEEN $1 AND $2)" {
		t.Errorf("unexpected sql: %s", sql)
	}
	if len(args) != 2 || args[0] != "2025-01-01T00:00:00Z" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestCombinePlaceholderNumbering(t *testing.T) {
	combined := Combine([]*Predicate{
		InWorklist(7),
		Value("Sample Type", Equal, "QC"),
		Field("label", Equal, "A1"),
	}, AND)

	sql, args := combined.WhereClause(pgDialect{})
	for _, ph := range []string{"$1", "$2", "$3", "$4"} {
		if !strings.Contains(sql, ph) {
			t.Errorf("missing %s in %s", ph, sql)
		}
	}
	if strings.Contains(sql, "$5") {
		t.Errorf("too many placeholders in %s", sql)
	}
	if len(args) != 4 || args[0] != int64(7) || args[1] != "Sample Type" || args[3] != "A1" {
		t.Errorf("unexpected args: %v", args)
	}
	if !strings.HasPrefix(sql, "(((jobs.worklist_id = $1) AND EXISTS") {
		t.Errorf("unexpected tree shape: %s", sql)
	}
}

func TestCombineOR(t *testing.T) {
	p1 := Field("label", Equal, "A1")
	p2 := Field("label", Equal, "A2")

	sql, args := Combine([]*Predicate{p1, p2}, OR).WhereClause(DefaultDialect)
	if sql != "((jobs.label = ?) OR (jobs.label = ?))" {
		t.Errorf("unexpected sql: %s", sql)
	}
	if len(args) != 2 {
		t.Errorf("expected 2 args, got %d", len(args))
	}
}

func TestCombineSingle(t *testing.T) {
	p := Field("label", Equal, "A1")
	if Combine([]*Predicate{p}, AND) != p {
		t.Error("single predicate should be returned as is")
	}
}

func TestCombineEmptyAndNils(t *testing.T) {
	if Combine([]*Predicate{}, AND) != nil {
		t.Error("expected nil for empty combine")
	}
	if Combine([]*Predicate{nil, nil}, AND) != nil {
		t.Error("expected nil when all predicates are nil")
	}

	p := Field("label", Equal, "A1")
	sql, _ := Combine([]*Predicate{nil, p, nil}, AND).WhereClause(DefaultDialect)
	if sql != "(jobs.label = ?)" {
		t.Errorf("expected simple predicate sql, got: %s", sql)
	}
}

func TestNilPredicateWhereClause(t *testing.T) {
	var p *Predicate
	sql, args := p.WhereClause(DefaultDialect)
	if sql != "" || args != nil {
		t.Errorf("expected empty clause, got %q %v", sql, args)
	}
}

func TestPredicateFields(t *testing.T) {
	combined := Combine([]*Predicate{
		Value("Sample Type", Equal, "QC"),
		AcquiredBetween("a", "b"),
		Value("Sample Type", Like, "Bl"),
	}, AND)

	fields := combined.Fields()
	if strings.Join(fields, ",") != "Sample Type,acquired_time" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

// --- Query builder tests ---

func TestQueryBuildNoPredicates(t *testing.T) {
	sql, args := New(0).Build()

	want := "SELECT jobs.id, jobs.worklist_id, jobs.seq, jobs.job_id, jobs.job_type, jobs.run_status, " +
		"jobs.acquired_time, jobs.label, jobs.run_completed, jobs.sample_locked FROM jobs " +
		"ORDER BY jobs.worklist_id, jobs.seq"
	if sql != want {
		t.Errorf("got  %s\nwant %s", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("expected 0 args, got %d", len(args))
	}
}

func TestQueryBuildFull(t *testing.T) {
	q := New(25)
	q.SetDialect(pgDialect{})
	q.AddPredicate(InWorklist(3))
	q.AddPredicate(Value("Sample Type", Equal, "Blank"))
	if err := q.OrderBy("acquired_time"); err != nil {
		t.Fatal(err)
	}
	q.SetPage(3)

	sql, args := q.Build()
	if !strings.Contains(sql, " WHERE ((jobs.worklist_id = $1) AND EXISTS") {
		t.Errorf("missing where clause: %s", sql)
	}
	if !strings.HasSuffix(sql, " ORDER BY jobs.acquired_time, jobs.id LIMIT 25 OFFSET 50") {
		t.Errorf("unexpected tail: %s", sql)
	}
	if len(args) != 3 {
		t.Errorf("expected 3 args, got %d", len(args))
	}
}

func TestQueryOrderByInvalidField(t *testing.T) {
	q := New(0)
	if err := q.OrderBy("1; DROP TABLE jobs"); err == nil {
		t.Error("expected error for invalid order by field")
	}
	if err := q.OrderBy(""); err != nil {
		t.Errorf("clearing order: %v", err)
	}
}

func TestQuerySetPageIgnoresInvalid(t *testing.T) {
	q := New(10)
	q.SetPage(0)
	q.SetPage(-3)
	if q.PageNumber() != 1 {
		t.Errorf("expected page 1, got %d", q.PageNumber())
	}
}

func TestQueryBuildCount(t *testing.T) {
	q := New(50)
	q.AddPredicate(Field("run_status", Equal, "0"))

	sql, args := q.BuildCount()
	if sql != "SELECT COUNT(jobs.id) FROM jobs WHERE (jobs.run_status = ?)" {
		t.Errorf("unexpected sql: %s", sql)
	}
	if len(args) != 1 {
		t.Errorf("expected 1 arg, got %d", len(args))
	}
}

func TestQueryRemoveAndClearPredicates(t *testing.T) {
	q := New(0)
	p1 := Field("label", Equal, "A1")
	p2 := Value("Sample Type", Equal, "QC")
	q.AddPredicate(p1)
	q.AddPredicate(p2)
	q.AddPredicate(nil)

	q.RemovePredicate(p1)
	if got := q.PredicateFields(); len(got) != 1 || got[0] != "Sample Type" {
		t.Errorf("unexpected fields after remove: %v", got)
	}

	q.ClearPredicates()
	if sql, _ := q.Build(); strings.Contains(sql, "WHERE") {
		t.Errorf("expected no WHERE after clear: %s", sql)
	}
}

func TestQueryORLogic(t *testing.T) {
	q := New(0)
	q.SetLogic(OR)
	q.AddPredicate(Field("label", Equal, "A1"))
	q.AddPredicate(Field("label", Equal, "A2"))

	sql, _ := q.Build()
	if !strings.Contains(sql, " OR ") {
		t.Errorf("expected OR: %s", sql)
	}
}

func TestRawQueryBuild(t *testing.T) {
	rq := NewRaw(10, "jobs.run_status = 1")
	sql, args := rq.Build()

	if !strings.Contains(sql, " FROM jobs WHERE jobs.run_status = 1 ORDER BY") {
		t.Errorf("unexpected sql: %s", sql)
	}
	if !strings.HasSuffix(sql, "LIMIT 10 OFFSET 0") {
		t.Errorf("expected pagination: %s", sql)
	}
	if args != nil {
		t.Errorf("expected nil args, got %v", args)
	}

	rq.SetRawWhere("")
	if sql, _ := rq.Build(); strings.Contains(sql, "WHERE") {
		t.Errorf("expected no WHERE: %s", sql)
	}
}

func TestStrictNumericComparison(t *testing.T) {
	tests := []struct {
		op   Operator
		want string
	}{
		{Greater, "CAST(trim(v.value) AS REAL) END) > ?"},
		{Less, "CAST(trim(v.value) AS REAL) END) < ?"},
	}
	for _, tt := range tests {
		p, err := ParseFilter("Dilution" + string(tt.op) + "5")
		if err != nil {
			t.Fatalf("ParseFilter: %v", err)
		}
		sql, args := p.WhereClause(DefaultDialect)
		if !strings.Contains(sql, tt.want) {
			t.Errorf("%s: expected %q in %s", tt.op, tt.want, sql)
		}
		if len(args) != 2 || args[1] != 5.0 {
			t.Errorf("%s: expected float arg, got %#v", tt.op, args)
		}
	}

	p := Value("Dilution", Greater, "2")
	sql, _ := p.WhereClause(pgDialect{})
	if !strings.Contains(sql, "num(v.value) > $2") {
		t.Errorf("postgres numeric comparison: %s", sql)
	}
}

// --- Filter parsing ---

func TestParseFilter(t *testing.T) {
	tests := []struct {
		expr  string
		kind  predicateKind
		field string
		op    Operator
		value string
	}{
		{"Sample Type=Blank", predValue, "Sample Type", Equal, "Blank"},
		{" Sample Name ~ qc ", predValue, "Sample Name", Like, "qc"},
		{"Sample Name!~blank", predValue, "Sample Name", NotLike, "blank"},
		{"Dilution>=2", predValue, "Dilution", GreaterOrEqual, "2"},
		{"Wt/Vol<=0.5", predValue, "Wt/Vol", LessOrEqual, "0.5"},
		{"Dilution>5", predValue, "Dilution", Greater, "5"},
		{"Inj Vol (µl) < 3", predValue, "Inj Vol (µl)", Less, "3"},
		{"Comment>a=b", predValue, "Comment", Greater, "a=b"},
		{"job.run_status<1", predField, "run_status", Less, "1"},
		{"Comment!=", predValue, "Comment", NotEqual, ""},
		{"Comment=a=b", predValue, "Comment", Equal, "a=b"},
		{"job.run_status=1", predField, "run_status", Equal, "1"},
	}
	for _, tt := range tests {
		p, err := ParseFilter(tt.expr)
		if err != nil {
			t.Errorf("ParseFilter(%q): %v", tt.expr, err)
			continue
		}
		if p.kind != tt.kind || p.field != tt.field || p.op != tt.op || p.value != tt.value {
			t.Errorf("ParseFilter(%q) = %+v", tt.expr, *p)
		}
	}
}

func TestParseFilterErrors(t *testing.T) {
	for _, expr := range []string{"no operator", "=value", "job.bogus=1"} {
		if _, err := ParseFilter(expr); err == nil {
			t.Errorf("ParseFilter(%q): expected error", expr)
		}
	}
}

func TestParseFilters(t *testing.T) {
	p, err := ParseFilters([]string{"Sample Type=QC", "job.label=A1"}, AND)
	if err != nil {
		t.Fatal(err)
	}
	if p.kind != predComposite {
		t.Errorf("expected composite, got %v", p.kind)
	}

	p, err = ParseFilters(nil, AND)
	if err != nil || p != nil {
		t.Errorf("expected nil predicate, got %v %v", p, err)
	}
}
