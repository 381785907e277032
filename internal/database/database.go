package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mhtools/mhwork/internal/columns"
	"github.com/mhtools/mhwork/internal/model"

	_ "modernc.org/sqlite"
)

// valueBatch bounds the ids per IN clause when loading job values. SQLite
// limits the number of bound parameters per statement.
const valueBatch = 500

// schemaTables lists the tables a store must hold.
var schemaTables = []string{"worklists", "worklist_columns", "jobs", "job_values"}

// schemaIndexes are created along with the tables.
var schemaIndexes = []struct {
	name, table string
	columns     []string
}{
	{"worklist_columns_worklist_idx", "worklist_columns", []string{"worklist_id"}},
	{"jobs_worklist_idx", "jobs", []string{"worklist_id"}},
	{"jobs_acquired_idx", "jobs", []string{"acquired_time"}},
	{"job_values_job_idx", "job_values", []string{"job_ref"}},
	{"job_values_name_value_idx", "job_values", []string{"name", "value"}},
}

// SQLStore stores decoded worklists in a SQL database. It implements the
// Store interface for every Dialect.
type SQLStore struct {
	path    string
	conn    *sql.DB
	dialect Dialect
	now     func() time.Time
}

// OpenSQLite opens an existing SQLite worklist database.
func OpenSQLite(path string) (*SQLStore, error) {
	return openStore(&SQLiteDialect{}, path)
}

// CreateSQLite creates (or reuses) a SQLite worklist database at path.
func CreateSQLite(path string) (*SQLStore, error) {
	return createStore(&SQLiteDialect{}, path)
}

func openStore(d Dialect, pathOrConnStr string) (*SQLStore, error) {
	conn, err := sql.Open(d.DriverName(), d.DSN(pathOrConnStr))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	db := &SQLStore{path: pathOrConnStr, conn: conn, dialect: d, now: time.Now}
	if err := db.checkSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func createStore(d Dialect, pathOrConnStr string) (*SQLStore, error) {
	conn, err := sql.Open(d.DriverName(), d.DSN(pathOrConnStr))
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	db := &SQLStore{path: pathOrConnStr, conn: conn, dialect: d, now: time.Now}
	if err := db.createSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return db, nil
}

// checkSchema verifies that every worklist table exists.
func (db *SQLStore) checkSchema() error {
	for _, table := range schemaTables {
		var count int
		if err := db.conn.QueryRow(db.dialect.TableExistsSQL(table)).Scan(&count); err != nil {
			return fmt.Errorf("checking schema: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("not a worklist database: table %s is missing", table)
		}
	}
	return nil
}

// createSchema builds all tables and indexes.
func (db *SQLStore) createSchema() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ddl := []struct{ table, sql string }{
		{"worklists", db.dialect.CreateWorklistsTableSQL()},
		{"worklist_columns", db.dialect.CreateColumnsTableSQL()},
		{"jobs", db.dialect.CreateJobsTableSQL()},
		{"job_values", db.dialect.CreateValuesTableSQL()},
	}
	for _, stmt := range ddl {
		if _, err := tx.Exec(stmt.sql); err != nil {
			return fmt.Errorf("creating %s table: %w", stmt.table, err)
		}
	}

	for _, idx := range schemaIndexes {
		if _, err := tx.Exec(db.dialect.CreateIndexSQL(idx.name, idx.table, idx.columns...)); err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return tx.Commit()
}

// Close closes the database connection.
func (db *SQLStore) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Path returns the file path or connection string of the database.
func (db *SQLStore) Path() string {
	return db.path
}

// Dialect returns the SQL dialect of the store.
func (db *SQLStore) Dialect() Dialect {
	return db.dialect
}

// Conn returns the underlying *sql.DB connection for advanced query usage.
func (db *SQLStore) Conn() *sql.DB {
	return db.conn
}

// SaveWorklist stores w and all of its jobs inside a single transaction.
// Column values are stored in text form, one row per job and column.
func (db *SQLStore) SaveWorklist(ctx context.Context, name string, w *model.Worklist) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	text := db.dialect.SanitizeText

	var worklistID int64
	err = tx.QueryRowContext(ctx, db.dialect.InsertWorklistSQL(),
		text(name), w.Version, text(w.InstrumentName), text(w.Params.OperatorName),
		boolToInt(w.LockedRunMode), text(w.Checksum.SchemaVersion),
		text(w.Checksum.AlgoVersion), text(w.Checksum.HashCode),
		db.now().UTC().Format(time.RFC3339),
	).Scan(&worklistID)
	if err != nil {
		return 0, fmt.Errorf("inserting worklist: %w", err)
	}

	headers := w.Headers()
	if err := db.insertColumns(ctx, tx, worklistID, w, headers); err != nil {
		return 0, err
	}

	jobStmt, err := tx.PrepareContext(ctx, db.dialect.InsertJobSQL())
	if err != nil {
		return 0, fmt.Errorf("preparing job insert: %w", err)
	}
	defer jobStmt.Close()

	valueStmt, err := tx.PrepareContext(ctx, db.dialect.InsertValueSQL())
	if err != nil {
		return 0, fmt.Errorf("preparing value insert: %w", err)
	}
	defer valueStmt.Close()

	for i, job := range w.Jobs {
		var jobRef int64
		err := jobStmt.QueryRowContext(ctx,
			worklistID, i, job.ID.String(), job.JobType, job.RunStatus,
			acquiredText(job.SampleInfo[model.AcquiredTime]),
			text(model.FormatValue(job.SampleInfo[model.Label])),
			boolToInt(job.SampleInfo[model.RunCompleted] == true),
			boolToInt(job.SampleInfo[model.SampleLockedRunMode] == true),
		).Scan(&jobRef)
		if err != nil {
			return 0, fmt.Errorf("inserting job %d: %w", i+1, err)
		}

		for _, h := range headers {
			v, ok := job.SampleInfo[h]
			if !ok {
				continue
			}
			var value any
			if v != nil {
				value = text(model.FormatValue(v))
			}
			if _, err := valueStmt.ExecContext(ctx, jobRef, text(h), value); err != nil {
				return 0, fmt.Errorf("inserting job %d value %q: %w", i+1, h, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return worklistID, nil
}

func (db *SQLStore) insertColumns(ctx context.Context, tx *sql.Tx, worklistID int64, w *model.Worklist, headers []string) error {
	stmt, err := tx.PrepareContext(ctx, db.dialect.InsertColumnSQL())
	if err != nil {
		return fmt.Errorf("preparing column insert: %w", err)
	}
	defer stmt.Close()

	for i, h := range headers {
		c, ok := columns.System.Lookup(h)
		if !ok {
			c, _ = w.UserColumns.Lookup(h)
		}
		_, err := stmt.ExecContext(ctx,
			worklistID, i, db.dialect.SanitizeText(h), c.AttributeID,
			int(c.AttributeType), c.DType.String(), c.ReorderID)
		if err != nil {
			return fmt.Errorf("inserting column %q: %w", h, err)
		}
	}
	return nil
}

const summarySelect = `SELECT w.id, w.name, w.version, w.instrument, w.operator,
	w.locked_run_mode, w.schema_version, w.algo_version, w.hash_code, w.stored_at,
	(SELECT COUNT(*) FROM jobs j WHERE j.worklist_id = w.id)
	FROM worklists w`

// ListWorklists returns every stored worklist, oldest first.
func (db *SQLStore) ListWorklists(ctx context.Context) ([]model.WorklistSummary, error) {
	rows, err := db.conn.QueryContext(ctx, summarySelect+" ORDER BY w.id")
	if err != nil {
		return nil, fmt.Errorf("listing worklists: %w", err)
	}
	defer rows.Close()

	var out []model.WorklistSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// GetWorklist returns the summary of one stored worklist.
func (db *SQLStore) GetWorklist(ctx context.Context, id int64) (*model.WorklistSummary, error) {
	row := db.conn.QueryRowContext(ctx,
		summarySelect+" WHERE w.id = "+db.dialect.Placeholder(1), id)
	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("worklist %d: %w", id, ErrNotFound)
	}
	return s, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(r rowScanner) (*model.WorklistSummary, error) {
	var s model.WorklistSummary
	var locked int
	err := r.Scan(&s.ID, &s.Name, &s.Version, &s.InstrumentName, &s.OperatorName,
		&locked, &s.Checksum.SchemaVersion, &s.Checksum.AlgoVersion,
		&s.Checksum.HashCode, &s.StoredAt, &s.Jobs)
	if err != nil {
		return nil, err
	}
	s.LockedRunMode = locked != 0
	return &s, nil
}

// Columns returns the column names of a stored worklist in table order.
func (db *SQLStore) Columns(ctx context.Context, worklistID int64) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT name FROM worklist_columns WHERE worklist_id = "+db.dialect.Placeholder(1)+" ORDER BY seq",
		worklistID)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteWorklist removes a worklist with its columns, jobs and values.
func (db *SQLStore) DeleteWorklist(ctx context.Context, id int64) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	p := db.dialect.Placeholder(1)
	stmts := []string{
		"DELETE FROM job_values WHERE job_ref IN (SELECT id FROM jobs WHERE worklist_id = " + p + ")",
		"DELETE FROM jobs WHERE worklist_id = " + p,
		"DELETE FROM worklist_columns WHERE worklist_id = " + p,
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s, id); err != nil {
			return fmt.Errorf("deleting worklist %d: %w", id, err)
		}
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM worklists WHERE id = "+p, id)
	if err != nil {
		return fmt.Errorf("deleting worklist %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("worklist %d: %w", id, ErrNotFound)
	}

	return tx.Commit()
}

// ExecuteQuery runs a pre-built SELECT over the jobs table and loads the
// column values of every matching job.
func (db *SQLStore) ExecuteQuery(ctx context.Context, query string, args []any) ([]*model.StoredJob, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	jobs, err := scanJobs(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if err := db.loadValues(ctx, jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// ExecuteCountQuery runs a pre-built COUNT query.
func (db *SQLStore) ExecuteCountQuery(ctx context.Context, query string, args []any) (int64, error) {
	var count int64
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting jobs: %w", err)
	}
	return count, nil
}

func scanJobs(rows *sql.Rows) ([]*model.StoredJob, error) {
	var jobs []*model.StoredJob
	for rows.Next() {
		j := &model.StoredJob{Values: make(map[string]*string)}
		var completed, locked int
		err := rows.Scan(&j.ID, &j.WorklistID, &j.Seq, &j.JobID, &j.JobType,
			&j.RunStatus, &j.AcquiredTime, &j.Label, &completed, &locked)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		j.RunCompleted = completed != 0
		j.SampleLocked = locked != 0
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (db *SQLStore) loadValues(ctx context.Context, jobs []*model.StoredJob) error {
	byID := make(map[int64]*model.StoredJob, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}

	for start := 0; start < len(jobs); start += valueBatch {
		end := min(start+valueBatch, len(jobs))
		args := make([]any, 0, end-start)
		for _, j := range jobs[start:end] {
			args = append(args, j.ID)
		}

		rows, err := db.conn.QueryContext(ctx,
			"SELECT job_ref, name, value FROM job_values WHERE job_ref IN ("+
				placeholders(db.dialect, 1, len(args))+")", args...)
		if err != nil {
			return fmt.Errorf("querying job values: %w", err)
		}
		for rows.Next() {
			var ref int64
			var name string
			var value sql.NullString
			if err := rows.Scan(&ref, &name, &value); err != nil {
				rows.Close()
				return fmt.Errorf("scanning job value: %w", err)
			}
			if j, ok := byID[ref]; ok {
				if value.Valid {
					v := value.String
					j.Values[name] = &v
				} else {
					j.Values[name] = nil
				}
			}
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func acquiredText(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(time.RFC3339)
	}
	return model.FormatValue(v)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
