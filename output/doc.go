// Package output renders query plans and query results.
//
// Rows are []map[string]any. PlanRows flattens a compiled plan into one
// row per clause and EntityRows turns entities into rows with the key
// path under "__key__".
//
// # Supported Formats
//
//   - json: one indented JSON array
//   - jsonl: one JSON object per line (suitable for streaming)
//   - csv: comma-separated values with header row
//   - table: ASCII table
//
// # Basic Usage
//
//	formatter, err := output.New("table", os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.Format(output.PlanRows(plan, fetch)); err != nil {
//	    log.Fatal(err)
//	}
//
// Columns are the union of all row keys with "__key__" first and the rest
// sorted, so rows with different properties share one header. CSV cells
// that start with a formula character are prefixed with a single quote.
package output
