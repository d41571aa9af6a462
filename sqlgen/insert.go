package sqlgen

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/vegasq/gql/datastore"
)

// CreateTable returns the DDL for a kind table with the given property
// columns. Columns are untyped so any stored value is accepted.
func CreateTable(kind string, properties []string) string {
	cols := []string{keyColumn + " TEXT PRIMARY KEY"}
	for _, p := range properties {
		if p == datastore.KeyProperty {
			continue
		}
		cols = append(cols, QuoteIdent(p))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", QuoteIdent(kind), strings.Join(cols, ", "))
}

// Insert builds an INSERT for one entity into its kind's table. Property
// columns are written in name order after the key column.
func Insert(e *datastore.Entity, opts ...Option) (string, []any, error) {
	if e == nil || e.Key == nil || e.Key.Incomplete() {
		return "", nil, errors.New("entity key is missing or incomplete")
	}

	names := make([]string, 0, len(e.Properties))
	for name := range e.Properties {
		if name != datastore.KeyProperty {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	columns := []string{keyColumn}
	values := []any{e.Key.Path()}
	for _, name := range names {
		v := e.Properties[name]
		if _, isList := v.([]any); isList {
			return "", nil, fmt.Errorf("property %q: list values cannot be stored in a column", name)
		}
		columns = append(columns, QuoteIdent(name))
		values = append(values, Value(v))
	}

	return newBuilder(opts).
		Insert(QuoteIdent(e.Key.Kind)).
		Columns(columns...).
		Values(values...).
		ToSql()
}
