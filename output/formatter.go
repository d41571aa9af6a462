package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vegasq/gql/datastore"
)

// Formatter defines the interface for output formatters.
type Formatter interface {
	// Format writes rows in the formatter's specific format
	Format(rows []map[string]any) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Formats lists the names accepted by New.
var Formats = []string{"json", "jsonl", "csv", "table"}

// New returns the formatter registered under name.
func New(name string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(name) {
	case "json":
		return &JSONFormatter{writer: w, Indent: true}, nil
	case "jsonl", "":
		return NewJSONFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "table":
		return NewTableFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}

// Columns returns the union of the rows' column names. The key column
// comes first, the rest in name order.
func Columns(rows []map[string]any) []string {
	columnSet := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			columnSet[col] = true
		}
	}

	hasKey := columnSet[datastore.KeyProperty]
	delete(columnSet, datastore.KeyProperty)

	columns := make([]string, 0, len(columnSet)+1)
	for col := range columnSet {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	if hasKey {
		columns = append([]string{datastore.KeyProperty}, columns...)
	}
	return columns
}
