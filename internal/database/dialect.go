package database

import (
	"fmt"
	"strings"
)

// Dialect abstracts all database-specific SQL generation.
// Each database backend (SQLite, PostgreSQL) implements this interface.
// Placeholder, IDColumn, QuoteColumn, LikeOperator and NumericSQL match the
// query.QueryDialect interface through Go structural typing, so a Dialect can
// also serve as a QueryDialect.
type Dialect interface {
	// DriverName returns the database/sql driver name (e.g. "sqlite", "pgx").
	DriverName() string

	// DSN returns the data source name for opening a connection.
	DSN(pathOrConnStr string) string

	// Placeholder returns the parameter placeholder for the given 1-based index.
	// SQLite: "?" (ignoring index), PostgreSQL: "$1", "$2", etc.
	Placeholder(index int) string

	// IDColumn returns the row identifier column name.
	IDColumn() string

	// QuoteColumn returns the column name quoted appropriately for the dialect.
	QuoteColumn(name string) string

	// LikeOperator returns the case-insensitive pattern match operator.
	LikeOperator() string

	// NumericSQL returns an expression reading a text expression as a number.
	NumericSQL(expr string) string

	// SanitizeText prepares a string parameter for storage.
	SanitizeText(s string) string

	// TableExistsSQL returns a query counting tables with the given name.
	TableExistsSQL(table string) string

	CreateWorklistsTableSQL() string
	CreateColumnsTableSQL() string
	CreateJobsTableSQL() string
	CreateValuesTableSQL() string

	// CreateIndexSQL returns DDL to create an index on table columns.
	CreateIndexSQL(indexName, tableName string, columns ...string) string

	// InsertWorklistSQL and InsertJobSQL return the new row id.
	InsertWorklistSQL() string
	InsertColumnSQL() string
	InsertJobSQL() string
	InsertValueSQL() string
}

var worklistInsertColumns = []string{
	"name", "version", "instrument", "operator", "locked_run_mode",
	"schema_version", "algo_version", "hash_code", "stored_at",
}

var columnInsertColumns = []string{
	"worklist_id", "seq", "name", "attribute_id", "attribute_type", "dtype", "reorder_id",
}

var jobInsertColumns = []string{
	"worklist_id", "seq", "job_id", "job_type", "run_status",
	"acquired_time", "label", "run_completed", "sample_locked",
}

var valueInsertColumns = []string{"job_ref", "name", "value"}

// insertSQL builds a parameterized INSERT, optionally returning the id column.
func insertSQL(d Dialect, table string, columns []string, returning bool) string {
	quoted := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.QuoteColumn(c)
		params[i] = d.Placeholder(i + 1)
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(quoted, ", "), strings.Join(params, ", "))
	if returning {
		sql += " RETURNING " + d.IDColumn()
	}
	return sql
}

// placeholders returns n comma separated placeholders starting at index start.
func placeholders(d Dialect, start, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = d.Placeholder(start + i)
	}
	return strings.Join(ps, ", ")
}
