package database

import (
	"fmt"
	"strings"
)

// SQLiteDialect implements the Dialect interface for SQLite databases.
// It also satisfies query.QueryDialect through structural typing.
type SQLiteDialect struct{}

func (d *SQLiteDialect) DriverName() string              { return "sqlite" }
func (d *SQLiteDialect) DSN(pathOrConnStr string) string { return pathOrConnStr }
func (d *SQLiteDialect) Placeholder(index int) string    { return "?" }
func (d *SQLiteDialect) IDColumn() string                { return "id" }
func (d *SQLiteDialect) QuoteColumn(name string) string  { return name }
func (d *SQLiteDialect) LikeOperator() string            { return "LIKE" }
func (d *SQLiteDialect) SanitizeText(s string) string    { return s }

// NumericSQL yields NULL for text that is not a plain decimal number. A bare
// CAST would read such text as 0.
func (d *SQLiteDialect) NumericSQL(expr string) string {
	t := fmt.Sprintf("trim(%s)", expr)
	return fmt.Sprintf(
		"(CASE WHEN (%[1]s GLOB '[0-9]*' OR %[1]s GLOB '-[0-9]*') AND substr(%[1]s, 2) NOT GLOB '*[^0-9.]*' AND %[1]s NOT GLOB '*.*.*' THEN CAST(%[1]s AS REAL) END)",
		t)
}

func (d *SQLiteDialect) TableExistsSQL(table string) string {
	return fmt.Sprintf(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='%s'", table)
}

func (d *SQLiteDialect) CreateWorklistsTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS worklists (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT, version REAL, instrument TEXT, operator TEXT,
		locked_run_mode INT, schema_version TEXT, algo_version TEXT,
		hash_code TEXT, stored_at TEXT
	)`
}

func (d *SQLiteDialect) CreateColumnsTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS worklist_columns (
		worklist_id INTEGER, seq INT, name TEXT, attribute_id INT,
		attribute_type INT, dtype TEXT, reorder_id INT
	)`
}

func (d *SQLiteDialect) CreateJobsTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS jobs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		worklist_id INTEGER, seq INT, job_id TEXT, job_type INT,
		run_status INT, acquired_time TEXT, label TEXT,
		run_completed INT, sample_locked INT
	)`
}

func (d *SQLiteDialect) CreateValuesTableSQL() string {
	return "CREATE TABLE IF NOT EXISTS job_values (job_ref INTEGER, name TEXT, value TEXT)"
}

func (d *SQLiteDialect) CreateIndexSQL(indexName, tableName string, columns ...string) string {
	return fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON %s (%s)", indexName, tableName, strings.Join(columns, ", "))
}

func (d *SQLiteDialect) InsertWorklistSQL() string {
	return insertSQL(d, "worklists", worklistInsertColumns, true)
}

func (d *SQLiteDialect) InsertColumnSQL() string {
	return insertSQL(d, "worklist_columns", columnInsertColumns, false)
}

func (d *SQLiteDialect) InsertJobSQL() string {
	return insertSQL(d, "jobs", jobInsertColumns, true)
}

func (d *SQLiteDialect) InsertValueSQL() string {
	return insertSQL(d, "job_values", valueInsertColumns, false)
}
