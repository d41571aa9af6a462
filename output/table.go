package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// TableFormatter outputs rows as an ASCII table
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format renders rows with one column per property. Nothing is written
// for an empty result.
func (t *TableFormatter) Format(rows []map[string]any) error {
	if len(rows) == 0 {
		return nil
	}

	columns := Columns(rows)
	table := tablewriter.NewWriter(t.writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(columns)
	for _, row := range rows {
		table.Append(formatRecord(row, columns, formatValue))
	}
	table.Render()
	return nil
}
