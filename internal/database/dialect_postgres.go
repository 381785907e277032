package database

import (
	"fmt"
	"strings"
)

// pgQuoteCol wraps a column name in double quotes if it is a PostgreSQL
// reserved word. Non-reserved names are returned as-is so PostgreSQL folds
// them to lowercase consistently with unquoted DDL definitions.
func pgQuoteCol(name string) string {
	switch name {
	case "user", "desc", "offset", "order", "group":
		return `"` + name + `"`
	default:
		return name
	}
}

// PostgresDialect implements the Dialect interface for PostgreSQL databases.
// It also satisfies query.QueryDialect through structural typing.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string              { return "pgx" }
func (d *PostgresDialect) DSN(pathOrConnStr string) string { return pathOrConnStr }
func (d *PostgresDialect) Placeholder(index int) string    { return fmt.Sprintf("$%d", index) }
func (d *PostgresDialect) IDColumn() string                { return "id" }
func (d *PostgresDialect) QuoteColumn(name string) string  { return pgQuoteCol(name) }
func (d *PostgresDialect) LikeOperator() string            { return "ILIKE" }
func (d *PostgresDialect) SanitizeText(s string) string    { return pgSanitizeString(s) }

// NumericSQL yields NULL for text that is not a plain decimal number, since
// PostgreSQL rejects such casts instead of returning zero.
func (d *PostgresDialect) NumericSQL(expr string) string {
	return fmt.Sprintf(
		`(CASE WHEN %s ~ '^\s*-?[0-9]+(\.[0-9]*)?\s*$' THEN CAST(%s AS DOUBLE PRECISION) END)`, expr, expr)
}

func (d *PostgresDialect) TableExistsSQL(table string) string {
	return fmt.Sprintf(
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_name='%s'", table)
}

func (d *PostgresDialect) CreateWorklistsTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS worklists (
		id BIGSERIAL PRIMARY KEY,
		name TEXT, version DOUBLE PRECISION, instrument TEXT, operator TEXT,
		locked_run_mode INT, schema_version TEXT, algo_version TEXT,
		hash_code TEXT, stored_at TEXT
	)`
}

func (d *PostgresDialect) CreateColumnsTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS worklist_columns (
		worklist_id BIGINT, seq INT, name TEXT, attribute_id INT,
		attribute_type INT, dtype TEXT, reorder_id INT
	)`
}

func (d *PostgresDialect) CreateJobsTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS jobs (
		id BIGSERIAL PRIMARY KEY,
		worklist_id BIGINT, seq INT, job_id TEXT, job_type INT,
		run_status INT, acquired_time TEXT, label TEXT,
		run_completed INT, sample_locked INT
	)`
}

func (d *PostgresDialect) CreateValuesTableSQL() string {
	return "CREATE TABLE IF NOT EXISTS job_values (job_ref BIGINT, name TEXT, value TEXT)"
}

func (d *PostgresDialect) CreateIndexSQL(indexName, tableName string, columns ...string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgQuoteCol(c)
	}
	return fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON %s (%s)", indexName, tableName, strings.Join(quoted, ", "))
}

func (d *PostgresDialect) InsertWorklistSQL() string {
	return insertSQL(d, "worklists", worklistInsertColumns, true)
}

func (d *PostgresDialect) InsertColumnSQL() string {
	return insertSQL(d, "worklist_columns", columnInsertColumns, false)
}

func (d *PostgresDialect) InsertJobSQL() string {
	return insertSQL(d, "jobs", jobInsertColumns, true)
}

func (d *PostgresDialect) InsertValueSQL() string {
	return insertSQL(d, "job_values", valueInsertColumns, false)
}
