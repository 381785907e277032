package query

import "fmt"

// QueryDialect abstracts SQL syntax differences needed for query building.
// Each database backend provides an implementation. The default is SQLite.
type QueryDialect interface {
	// Placeholder returns the parameter placeholder for the given 1-based index.
	// SQLite returns "?" (ignoring the index), PostgreSQL returns "$1", "$2", etc.
	Placeholder(index int) string

	// IDColumn returns the name of the row identifier column.
	IDColumn() string

	// QuoteColumn returns the column name quoted appropriately for the dialect.
	QuoteColumn(name string) string

	// LikeOperator returns the case-insensitive pattern match operator.
	// SQLite LIKE already ignores ASCII case; PostgreSQL uses ILIKE.
	LikeOperator() string

	// NumericSQL returns an expression reading a text expression as a number.
	NumericSQL(expr string) string
}

// sqliteQueryDialect is the default dialect, producing SQLite-compatible SQL.
type sqliteQueryDialect struct{}

func (d sqliteQueryDialect) Placeholder(index int) string   { return "?" }
func (d sqliteQueryDialect) IDColumn() string               { return "id" }
func (d sqliteQueryDialect) QuoteColumn(name string) string { return name }
func (d sqliteQueryDialect) LikeOperator() string           { return "LIKE" }

func (d sqliteQueryDialect) NumericSQL(expr string) string {
	t := fmt.Sprintf("trim(%s)", expr)
	return fmt.Sprintf(
		"(CASE WHEN (%[1]s GLOB '[0-9]*' OR %[1]s GLOB '-[0-9]*') AND substr(%[1]s, 2) NOT GLOB '*[^0-9.]*' AND %[1]s NOT GLOB '*.*.*' THEN CAST(%[1]s AS REAL) END)",
		t)
}

// DefaultDialect is the query dialect used when none is explicitly set.
// It produces SQLite-compatible SQL.
var DefaultDialect QueryDialect = sqliteQueryDialect{}
