package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one table column. Numeric columns are right aligned;
// width caps long values such as toppings or queued payloads.
type column struct {
	title   string
	numeric bool
	width   int
}

const defaultColumnWidth = 48

// listing collects rows for a fixed set of columns and renders them as a
// rounded go-pretty table.
type listing struct {
	columns []column
	rows    []table.Row
}

func newListing(columns ...column) *listing {
	return &listing{columns: columns}
}

// add appends a row; missing trailing cells render blank and extra cells are
// dropped.
func (l *listing) add(cells ...string) {
	row := make(table.Row, len(l.columns))
	for i := range row {
		row[i] = ""
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	l.rows = append(l.rows, row)
}

func (l *listing) String() string {
	if len(l.columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, 0, len(l.columns))
	configs := make([]table.ColumnConfig, 0, len(l.columns))
	for i, col := range l.columns {
		header = append(header, col.title)
		align := text.AlignLeft
		if col.numeric {
			align = text.AlignRight
		}
		width := col.width
		if width <= 0 {
			width = defaultColumnWidth
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    width,
		})
	}
	tw.AppendHeader(header)
	tw.AppendRows(l.rows)
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
