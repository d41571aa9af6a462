package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/vegasq/gql/datastore"
)

// CSVFormatter outputs rows as CSV format
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes a header of all columns seen in rows, then one record per
// row. Missing values are written as empty fields.
func (c *CSVFormatter) Format(rows []map[string]any) error {
	csvWriter := csv.NewWriter(c.writer)

	if len(rows) > 0 {
		columns := Columns(rows)
		if err := csvWriter.Write(columns); err != nil {
			return err
		}

		for _, row := range rows {
			if err := csvWriter.Write(formatRecord(row, columns, csvValue)); err != nil {
				return err
			}
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

func formatRecord(row map[string]any, columns []string, format func(any) string) []string {
	record := make([]string, len(columns))
	for i, col := range columns {
		record[i] = format(row[col])
	}
	return record
}

// csvValue formats a value for CSV, sanitizing text that came from data
func csvValue(v any) string {
	s := formatValue(v)
	switch v.(type) {
	case nil, int64, int, int8, int16, int32, uint, uint8, uint16, uint32, uint64, float32, float64, bool, time.Time:
		return s
	default:
		return sanitizeCell(s)
	}
}

// formatValue converts a value to a cell string
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case int, int8, int16, int32, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return fmt.Sprintf("%g", val)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case *datastore.Key:
		return val.Path()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// sanitizeCell prefixes values that spreadsheet applications would run as
// formulas
func sanitizeCell(val string) string {
	if len(val) > 0 {
		switch val[0] {
		case '=', '+', '-', '@', '\t', '\r', '\n', '|':
			return "'" + strings.ReplaceAll(val, "'", "''")
		}
	}
	return val
}
