package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter outputs rows as JSON Lines, or as one indented JSON array
// when Indent is set.
type JSONFormatter struct {
	writer io.Writer
	Indent bool
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes rows
func (j *JSONFormatter) Format(rows []map[string]any) error {
	encoder := json.NewEncoder(j.writer)
	encoder.SetEscapeHTML(false)
	if j.Indent {
		encoder.SetIndent("", "  ")
		if rows == nil {
			rows = []map[string]any{}
		}
		return encoder.Encode(rows)
	}

	for _, row := range rows {
		if err := encoder.Encode(row); err != nil {
			return err
		}
	}
	return nil
}
