package xlsxexport

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mhtools/mhwork/internal/columns"
	"github.com/mhtools/mhwork/internal/convert"
	"github.com/mhtools/mhwork/internal/model"
)

func sampleTable() *model.Table {
	return &model.Table{
		Headers: []string{"Sample Name", "Data File", "Inj Vol (µl)", "Dilution", "Acquired"},
		Rows: [][]any{
			{"Blank", convert.WindowsPath(`D:\Data\blank.d`), columns.AsMethod, 1, time.Date(2020, 12, 8, 14, 30, 0, 0, time.UTC)},
			{"QC", nil, 5, 2, time.Unix(0, 0).UTC()},
		},
	}
}

func openRows(t *testing.T, path, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("reading sheet %s: %v", sheet, err)
	}
	return rows
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := WriteFile(path, sampleTable(), Options{}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	rows := openRows(t, path, DefaultSheet)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0][0] != "Sample Name" || rows[0][2] != "Inj Vol (µl)" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != `D:\Data\blank.d` || rows[1][2] != "As Method" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][1] != "" || rows[2][3] != "2" {
		t.Errorf("row 2 = %v", rows[2])
	}
	if rows[2][4] != "1970-01-01T00:00:00Z" {
		t.Errorf("acquired = %q", rows[2][4])
	}
}

func TestWriteFileInfoSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	opts := Options{
		Sheet: "Batch",
		Info: []Field{
			{Name: "Instrument", Value: "QQQ-01"},
			{Name: "Version", Value: 1.3},
		},
	}
	if err := WriteFile(path, sampleTable(), opts); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if rows := openRows(t, path, "Batch"); len(rows) != 3 {
		t.Errorf("got %d table rows", len(rows))
	}
	info := openRows(t, path, InfoSheet)
	if len(info) != 2 || info[0][0] != "Instrument" || info[0][1] != "QQQ-01" || info[1][1] != "1.3" {
		t.Errorf("info = %v", info)
	}
}

func TestWriteFileBadDir(t *testing.T) {
	if err := WriteFile("/nonexistent/dir/out.xlsx", sampleTable(), Options{}); err == nil {
		t.Error("expected error for missing directory")
	}
}
