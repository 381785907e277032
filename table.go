package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mhtools/mhwork/internal/model"
	"github.com/mhtools/mhwork/internal/xlsxexport"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

var tableStyles = map[string]table.Style{
	"default": table.StyleDefault,
	"light":   table.StyleLight,
	"rounded": table.StyleRounded,
	"bold":    table.StyleBold,
	"double":  table.StyleDouble,
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment, style string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	if s, ok := tableStyles[style]; ok {
		tw.SetStyle(s)
	} else {
		tw.SetStyle(table.StyleRounded)
	}

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderModelTable right-aligns the columns whose cells are all numeric.
func renderModelTable(t *model.Table, style string) string {
	aligns := make([]columnAlignment, len(t.Headers))
	for i := range t.Headers {
		aligns[i] = alignRight
		for _, row := range t.Rows {
			switch row[i].(type) {
			case int, int64, float64, nil:
				continue
			}
			aligns[i] = alignLeft
			break
		}
	}
	return renderTable(t.Headers, t.Strings(), aligns, style)
}

// renderFields renders name/value pairs as a two column table.
func renderFields(fields []xlsxexport.Field, style string) string {
	rows := make([][]string, len(fields))
	for i, f := range fields {
		rows[i] = []string{f.Name, model.FormatValue(f.Value)}
	}
	return renderTable([]string{"Field", "Value"}, rows, nil, style)
}
