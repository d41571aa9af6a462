package output

import (
	"time"

	"github.com/vegasq/gql/datastore"
	"github.com/vegasq/gql/query"
)

// Column names of the rows produced by PlanRows
const (
	ColumnClause   = "clause"
	ColumnProperty = "property"
	ColumnOperator = "operator"
	ColumnValue    = "value"
)

// PlanRows flattens a compiled plan into one row per clause: kind,
// projection, ancestor, each filter and sort, limit and offset. Absent
// clauses produce no row.
func PlanRows(plan *query.Plan, fetch *query.FetchOptions) []map[string]any {
	var rows []map[string]any
	add := func(clause string, fields map[string]any) {
		fields[ColumnClause] = clause
		rows = append(rows, fields)
	}

	if plan.Kind != "" {
		add("kind", map[string]any{ColumnValue: plan.Kind})
	}

	projection := "entities"
	if plan.KeysOnly {
		projection = "keys"
	}
	add("projection", map[string]any{ColumnValue: projection})

	if plan.Ancestor != nil {
		add("ancestor", map[string]any{ColumnValue: plan.Ancestor.Path()})
	}

	for _, f := range plan.Filters {
		add("filter", map[string]any{
			ColumnProperty: f.Property,
			ColumnOperator: f.Operator.String(),
			ColumnValue:    DisplayValue(f.Value),
		})
	}

	for _, s := range plan.Sorts {
		dir := "ASC"
		if !s.Ascending {
			dir = "DESC"
		}
		add("sort", map[string]any{ColumnProperty: s.Property, ColumnValue: dir})
	}

	if fetch != nil && fetch.Limit != nil {
		add("limit", map[string]any{ColumnValue: *fetch.Limit})
	}
	if fetch != nil && fetch.Offset != nil {
		add("offset", map[string]any{ColumnValue: *fetch.Offset})
	}

	return rows
}

// EntityRows converts entities to rows keyed by property name, with the
// key path under "__key__".
func EntityRows(entities []*datastore.Entity) []map[string]any {
	rows := make([]map[string]any, len(entities))
	for i, e := range entities {
		row := e.Row()
		for name, v := range row {
			row[name] = DisplayValue(v)
		}
		rows[i] = row
	}
	return rows
}

// DisplayValue converts keys to their paths and times to RFC 3339 text,
// recursing into lists. Other values are returned unchanged.
func DisplayValue(v any) any {
	switch val := v.(type) {
	case *datastore.Key:
		return val.Path()
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = DisplayValue(item)
		}
		return out
	default:
		return v
	}
}
