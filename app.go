package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/mhtools/mhwork/internal/columns"
	"github.com/mhtools/mhwork/internal/config"
	"github.com/mhtools/mhwork/internal/convert"
	"github.com/mhtools/mhwork/internal/csvparser"
	"github.com/mhtools/mhwork/internal/database"
	"github.com/mhtools/mhwork/internal/jsonlparser"
	"github.com/mhtools/mhwork/internal/logging"
	"github.com/mhtools/mhwork/internal/model"
	"github.com/mhtools/mhwork/internal/query"
	"github.com/mhtools/mhwork/internal/selection"
	"github.com/mhtools/mhwork/internal/worklist"
	"github.com/mhtools/mhwork/internal/xlsxexport"
	"github.com/mhtools/mhwork/internal/xmltree"
)

// App carries the configuration, logger and output shared by every command.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer

	// openStore is replaced in tests.
	openStore func(driver, dsn string) (database.Store, error)
	db        database.Store
}

// NewApp creates a new App instance.
func NewApp(cfg *config.Config, logger *slog.Logger, out io.Writer) *App {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &App{cfg: cfg, logger: logger, out: out, openStore: database.CreateStore}
}

// Close releases the store, if one was opened.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// -- Worklist Operations --

// LoadWorklist reads and decodes one worklist file.
func (a *App) LoadWorklist(path string) (*model.Worklist, error) {
	start := time.Now()
	w, err := worklist.Read(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("worklist decoded",
		"file", path,
		"jobs", len(w.Jobs),
		"user_columns", w.UserColumns.Len(),
		"elapsed", time.Since(start))
	return w, nil
}

// TableOptions selects and formats the columns of a table.
type TableOptions struct {
	Columns   []string
	BaseNames bool
	Limit     int
}

// LoadTable reads path as a table. Worklists are decoded and projected on
// their visible columns; .csv and .jsonl files written by Export are read
// back as text tables.
func (a *App) LoadTable(path string, opts TableOptions) (*model.Table, error) {
	var t *model.Table

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		result, err := csvparser.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		a.warnExcluded(path, result.Excluded)
		t = result.Table()
	case ".jsonl":
		result, err := jsonlparser.ReadLines(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		a.warnExcluded(path, result.Excluded)
		t = result.Table()
	default:
		w, err := a.LoadWorklist(path)
		if err != nil {
			return nil, err
		}
		return worklistTable(w, opts)
	}

	return shapeTable(t, opts)
}

// worklistTable projects w on opts.Columns, or on its visible columns.
func worklistTable(w *model.Worklist, opts TableOptions) (*model.Table, error) {
	t, err := w.AsTable()
	if err != nil {
		return nil, err
	}
	if len(opts.Columns) == 0 {
		opts.Columns = selection.VisibleHeaders(w)
	}
	return shapeTable(t, opts)
}

func shapeTable(t *model.Table, opts TableOptions) (*model.Table, error) {
	t, err := selection.Select(t, opts.Columns)
	if err != nil {
		return nil, err
	}
	if opts.BaseNames {
		t = selection.BaseNames(t)
	}
	if opts.Limit > 0 && len(t.Rows) > opts.Limit {
		t = &model.Table{Headers: t.Headers, Rows: t.Rows[:opts.Limit]}
	}
	return t, nil
}

func (a *App) warnExcluded(path string, excluded int) {
	if excluded > 0 {
		a.logger.Warn("malformed rows skipped", "file", path, "excluded", excluded)
	}
}

// Show prints the worklist header and its job table. Exported .csv and
// .jsonl files are shown as plain tables.
func (a *App) Show(path string, opts TableOptions) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".csv" || ext == ".jsonl" {
		t, err := a.LoadTable(path, opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, renderModelTable(t, a.style()))
		return nil
	}

	w, err := a.LoadWorklist(path)
	if err != nil {
		return err
	}
	t, err := worklistTable(w, opts)
	if err != nil {
		return fmt.Errorf("tabulating %s: %w", path, err)
	}
	fmt.Fprintln(a.out, renderFields(worklistInfo(w), a.style()))
	fmt.Fprintln(a.out, renderModelTable(t, a.style()))
	return nil
}

// Columns prints the column definitions of a worklist, system columns first.
func (a *App) Columns(path string, all bool) error {
	w, err := a.LoadWorklist(path)
	if err != nil {
		return err
	}

	headers := []string{"Name", "Attribute ID", "Type", "Data Type", "Default", "Reorder ID"}
	var rows [][]string
	for _, set := range []*columns.Set{columns.System, w.UserColumns} {
		for _, c := range set.Columns() {
			if c.Hidden() && !all {
				continue
			}
			rows = append(rows, []string{
				c.Name,
				fmt.Sprint(c.AttributeID),
				c.AttributeType.String(),
				c.DType.String(),
				model.FormatValue(c.DefaultValue),
				fmt.Sprint(c.ReorderID),
			})
		}
	}

	fmt.Fprintln(a.out, renderTable(headers, rows, []columnAlignment{alignLeft, alignRight}, a.style()))
	return nil
}

// ExportOptions controls Export. Empty fields fall back to the [export]
// configuration.
type ExportOptions struct {
	TableOptions
	Format string
	Output string
}

// Export writes the job table of the worklist at path and returns the file
// written.
func (a *App) Export(path string, opts ExportOptions) (string, error) {
	w, err := a.LoadWorklist(path)
	if err != nil {
		return "", err
	}

	format := strings.TrimPrefix(strings.ToLower(opts.Format), ".")
	if format == "" {
		format = a.cfg.Export.Format
	}
	if len(opts.Columns) == 0 {
		opts.Columns = a.cfg.Export.Columns
	}
	opts.BaseNames = opts.BaseNames || a.cfg.Export.BaseNames

	t, err := worklistTable(w, opts.TableOptions)
	if err != nil {
		return "", fmt.Errorf("tabulating %s: %w", path, err)
	}

	output := opts.Output
	if output == "" {
		output = exportPath(path, a.cfg.Export.OutputDir, format)
	}
	if err := writeTable(output, format, t, worklistInfo(w)); err != nil {
		return "", err
	}

	a.logger.Info("worklist exported",
		"file", path,
		"output", output,
		"format", format,
		"rows", len(t.Rows),
		"columns", len(t.Headers))
	return output, nil
}

func exportPath(path, dir, format string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "." + format
	if dir == "" {
		dir = filepath.Dir(path)
	}
	return filepath.Join(dir, base)
}

func writeTable(path, format string, t *model.Table, info []xlsxexport.Field) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	var err error
	switch format {
	case "csv":
		err = csvparser.WriteFile(path, t)
	case "json":
		err = jsonlparser.WriteFile(path, t, false)
	case "jsonl":
		err = jsonlparser.WriteFile(path, t, true)
	case "xlsx":
		err = xlsxexport.WriteFile(path, t, xlsxexport.Options{Info: info})
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// CheckResult summarizes one file that passed Check.
type CheckResult struct {
	Path string
	Jobs int
}

// Check validates every path and reports all failures together. Worklists
// must decode and tabulate; .csv files must carry the required columns and
// .jsonl files must start with a JSON object.
func (a *App) Check(paths []string, required []string) ([]CheckResult, error) {
	var results []CheckResult
	var savedErrs *multierror.Error

	for _, path := range paths {
		n, err := a.checkFile(path, required)
		if err != nil {
			savedErrs = multierror.Append(savedErrs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		results = append(results, CheckResult{Path: path, Jobs: n})
	}

	return results, savedErrs.ErrorOrNil()
}

func (a *App) checkFile(path string, required []string) (int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		if err := csvparser.ValidateHeader(path, required); err != nil {
			return 0, err
		}
		result, err := csvparser.ReadFile(path)
		if err != nil {
			return 0, err
		}
		if result.Excluded > 0 {
			return 0, fmt.Errorf("%d malformed rows", result.Excluded)
		}
		return result.Count, nil
	case ".jsonl":
		if err := jsonlparser.ValidateFile(path); err != nil {
			return 0, err
		}
		result, err := jsonlparser.ReadLines(path)
		if err != nil {
			return 0, err
		}
		if result.Excluded > 0 {
			return 0, fmt.Errorf("%d malformed lines", result.Excluded)
		}
		return result.Count, nil
	default:
		w, err := worklist.Read(path)
		if err != nil {
			return 0, err
		}
		t, err := w.AsTable()
		if err != nil {
			return 0, err
		}
		if _, err := selection.Select(t, required); err != nil {
			return 0, err
		}
		return len(w.Jobs), nil
	}
}

// -- Store Operations --

func (a *App) store() (database.Store, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := a.openStore(a.cfg.Store.Driver, a.cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", a.cfg.Store.Driver, err)
	}
	a.db = db
	a.logger.Debug("store opened", "driver", a.cfg.Store.Driver, "path", db.Path())
	return db, nil
}

// StoreWorklists decodes and stores every path, returning the new ids. All
// files are decoded before anything is written.
func (a *App) StoreWorklists(ctx context.Context, paths []string) ([]int64, error) {
	worklists := make([]*model.Worklist, len(paths))
	var savedErrs *multierror.Error
	for i, path := range paths {
		w, err := a.LoadWorklist(path)
		if err != nil {
			savedErrs = multierror.Append(savedErrs, err)
			continue
		}
		worklists[i] = w
	}
	if err := savedErrs.ErrorOrNil(); err != nil {
		return nil, err
	}

	db, err := a.store()
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(paths))
	for i, w := range worklists {
		id, err := db.SaveWorklist(ctx, filepath.Base(paths[i]), w)
		if err != nil {
			return ids, fmt.Errorf("storing %s: %w", paths[i], err)
		}
		a.logger.Info("worklist stored", "file", paths[i], "id", id, "jobs", len(w.Jobs))
		ids = append(ids, id)
	}
	return ids, nil
}

// ListStored returns a summary of every stored worklist.
func (a *App) ListStored(ctx context.Context) ([]model.WorklistSummary, error) {
	db, err := a.store()
	if err != nil {
		return nil, err
	}
	return db.ListWorklists(ctx)
}

// DeleteStored removes a stored worklist and its jobs.
func (a *App) DeleteStored(ctx context.Context, id int64) error {
	db, err := a.store()
	if err != nil {
		return err
	}
	if err := db.DeleteWorklist(ctx, id); err != nil {
		return fmt.Errorf("deleting worklist %d: %w", id, err)
	}
	a.logger.Info("worklist deleted", "id", id)
	return nil
}

// -- Query Operations --

// QueryRequest describes a search over stored jobs.
type QueryRequest struct {
	Filters    []string
	Logic      string
	WorklistID int64
	From       string
	To         string
	OrderBy    string
	Page       int
	PageSize   int
	Columns    []string
}

// QueryResponse holds one page of matching jobs.
type QueryResponse struct {
	Jobs       []*model.StoredJob
	Table      *model.Table
	TotalCount int64
	Page       int
	PageSize   int
}

// QueryJobs runs req against the store.
func (a *App) QueryJobs(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	db, err := a.store()
	if err != nil {
		return nil, err
	}

	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = a.cfg.Store.PageSize
	}

	q := query.New(pageSize)
	q.SetDialect(db.Dialect())

	logic := query.AND
	if strings.EqualFold(req.Logic, "or") {
		logic = query.OR
	}
	if len(req.Filters) > 0 {
		p, err := query.ParseFilters(req.Filters, logic)
		if err != nil {
			return nil, err
		}
		q.AddPredicate(p)
	}
	if req.WorklistID > 0 {
		q.AddPredicate(query.InWorklist(req.WorklistID))
	}
	if req.From != "" || req.To != "" {
		from, to, err := acquiredRange(req.From, req.To)
		if err != nil {
			return nil, err
		}
		q.AddPredicate(query.AcquiredBetween(from, to))
	}
	if req.OrderBy != "" {
		if err := q.OrderBy(req.OrderBy); err != nil {
			return nil, err
		}
	}

	page := max(req.Page, 1)
	q.SetPage(page)

	countSQL, countArgs := q.BuildCount()
	total, err := db.ExecuteCountQuery(ctx, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("counting jobs: %w", err)
	}

	sqlStr, args := q.Build()
	a.logger.Debug("query", "sql", sqlStr, "args", len(args))
	jobs, err := db.ExecuteQuery(ctx, sqlStr, args)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}

	var headers []string
	if req.WorklistID > 0 {
		if headers, err = db.Columns(ctx, req.WorklistID); err != nil {
			return nil, err
		}
	} else {
		headers = storedHeaders(jobs)
	}
	t, err := jobTable(jobs, headers, req.Columns)
	if err != nil {
		return nil, err
	}

	return &QueryResponse{
		Jobs:       jobs,
		Table:      t,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// ExportQuery writes the rows of resp to path in format.
func (a *App) ExportQuery(resp *QueryResponse, path, format string) error {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	if err := writeTable(path, format, resp.Table, nil); err != nil {
		return err
	}
	a.logger.Info("query exported", "output", path, "rows", len(resp.Table.Rows))
	return nil
}

const openEnd = "9999-12-31T23:59:59Z"

// acquiredRange turns user supplied bounds into the stored RFC 3339 UTC form.
// A bare date covers the whole day.
func acquiredRange(from, to string) (string, string, error) {
	lo, hi := "0000-01-01T00:00:00Z", openEnd
	if from != "" {
		t, err := parseBound(from, false)
		if err != nil {
			return "", "", err
		}
		lo = t
	}
	if to != "" {
		t, err := parseBound(to, true)
		if err != nil {
			return "", "", err
		}
		hi = t
	}
	return lo, hi, nil
}

func parseBound(s string, end bool) (string, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(time.RFC3339), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return "", fmt.Errorf("invalid time %q (want YYYY-MM-DD or RFC 3339)", s)
	}
	if end {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t.Format(time.RFC3339), nil
}

// storedHeaders collects the column names present in jobs, system columns
// first in declaration order.
func storedHeaders(jobs []*model.StoredJob) []string {
	seen := make(map[string]bool)
	for _, j := range jobs {
		for k := range j.Values {
			seen[k] = true
		}
	}

	var headers []string
	for _, name := range columns.System.Names() {
		if seen[name] {
			headers = append(headers, name)
			delete(seen, name)
		}
	}
	var rest []string
	for name := range seen {
		rest = append(rest, name)
	}
	slices.Sort(rest)
	return append(headers, rest...)
}

// jobTable lays out stored jobs with their worklist and acquisition time
// ahead of the selected columns. Hidden system columns are left out unless
// named.
func jobTable(jobs []*model.StoredJob, headers, names []string) (*model.Table, error) {
	if len(names) == 0 {
		for _, h := range headers {
			if c, ok := columns.System.Lookup(h); ok && c.Hidden() {
				continue
			}
			names = append(names, h)
		}
	}

	values, err := selection.Select(model.StoredTable(jobs, headers), names)
	if err != nil {
		return nil, err
	}

	out := &model.Table{
		Headers: append([]string{"Worklist", "Seq", model.AcquiredTime}, values.Headers...),
		Rows:    make([][]any, len(jobs)),
	}
	for i, j := range jobs {
		out.Rows[i] = append([]any{j.WorklistID, j.Seq, j.AcquiredTime}, values.Rows[i]...)
	}
	return out, nil
}

// -- Internal Helpers --

func (a *App) style() string {
	return a.cfg.Display.Style
}

func worklistInfo(w *model.Worklist) []xlsxexport.Field {
	return []xlsxexport.Field{
		{Name: "Version", Value: w.Version},
		{Name: "Instrument", Value: w.InstrumentName},
		{Name: "Operator", Value: w.Params.OperatorName},
		{Name: "Locked Run Mode", Value: w.LockedRunMode},
		{Name: "Run Type", Value: w.Params.RunType},
		{Name: "Acq Method Path", Value: pathValue(w.Params.AcqMethodPath)},
		{Name: "DA Method Path", Value: pathValue(w.Params.DAMethodPath)},
		{Name: "Description", Value: w.Params.Description},
		{Name: "Jobs", Value: len(w.Jobs)},
		{Name: "User Columns", Value: strings.Join(w.UserColumns.Names(), ", ")},
		{Name: "Checksum", Value: w.Checksum.HashCode},
	}
}

func pathValue(p *convert.WindowsPath) any {
	if p == nil {
		return nil
	}
	return *p
}

// isNotFound reports whether err means a missing file or stored worklist.
func isNotFound(err error) bool {
	return errors.Is(err, xmltree.ErrNotFound) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, database.ErrNotFound)
}
