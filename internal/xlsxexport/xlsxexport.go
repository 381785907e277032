// Package xlsxexport writes worklist tables to Excel workbooks.
package xlsxexport

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mhtools/mhwork/internal/convert"
	"github.com/mhtools/mhwork/internal/model"
)

// DefaultSheet names the sheet holding the job table.
const DefaultSheet = "Jobs"

// InfoSheet names the sheet holding Options.Info.
const InfoSheet = "Worklist"

// Field is one name/value line of the info sheet.
type Field struct {
	Name  string
	Value any
}

// Options controls workbook layout.
type Options struct {
	Sheet string
	// Info, when set, is written as a two column sheet after the table.
	Info []Field
}

// WriteFile writes t to a new workbook at path.
func WriteFile(path string, t *model.Table, opts Options) error {
	sheet := opts.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := writeTable(f, sheet, t); err != nil {
		return err
	}
	if len(opts.Info) > 0 {
		if err := writeInfo(f, opts.Info); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, t *model.Table) error {
	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if len(t.Headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return fmt.Errorf("styling header: %w", err)
		}
	}

	for i, row := range t.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = cellValue(v)
		}
		if err := setRow(f, sheet, i+2, cells); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	return nil
}

func writeInfo(f *excelize.File, info []Field) error {
	if _, err := f.NewSheet(InfoSheet); err != nil {
		return fmt.Errorf("creating info sheet: %w", err)
	}
	for i, field := range info {
		if err := setRow(f, InfoSheet, i+1, []any{field.Name, cellValue(field.Value)}); err != nil {
			return fmt.Errorf("writing info %q: %w", field.Name, err)
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

// cellValue maps a SampleInfo value to something excelize stores natively.
func cellValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case convert.WindowsPath:
		return string(x)
	case string, bool, int, float64:
		return x
	}
	return model.FormatValue(v)
}
