package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/lemonberrylabs/sexpq/pkg/types"
)

// TableFormatter buffers records and renders them as one table, since column
// widths depend on every row.
type TableFormatter struct {
	writer io.Writer
	rows   []types.Record
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// Write buffers rec until Flush.
func (f *TableFormatter) Write(rec types.Record) error {
	f.rows = append(f.rows, rec)
	return nil
}

// Flush renders the buffered records. Columns are the sorted union of all
// field names; absent fields are blank. Nothing is written for zero records.
func (f *TableFormatter) Flush() error {
	if len(f.rows) == 0 {
		return nil
	}
	cols := Columns(f.rows)

	table := tablewriter.NewWriter(f.writer)
	table.SetHeader(cols)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, rec := range f.rows {
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = FormatValue(rec.Lookup(col))
		}
		table.Append(row)
	}
	table.Render()

	f.rows = nil
	return nil
}
