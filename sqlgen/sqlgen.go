// Package sqlgen translates compiled query plans into SQL for engines that
// store one table per kind. Each table has a "__key__" text column holding
// the entity's key path and one column per property.
package sqlgen

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"

	"github.com/vegasq/gql/datastore"
	"github.com/vegasq/gql/query"
)

// ErrKindRequired is returned for kind-less plans, which would have to
// scan every table.
var ErrKindRequired = errors.New("sql translation requires a kind")

// TimeLayout is the fixed-width layout times are stored and compared in,
// so that string order is time order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

var keyColumn = QuoteIdent(datastore.KeyProperty)

type options struct {
	placeholder sq.PlaceholderFormat
}

// Option configures translation.
type Option func(*options)

// WithPlaceholder sets the bind parameter style, sq.Question by default.
func WithPlaceholder(format sq.PlaceholderFormat) Option {
	return func(o *options) {
		o.placeholder = format
	}
}

// PlaceholderFormat maps a configuration name ("question" or "dollar") to
// a squirrel placeholder format.
func PlaceholderFormat(name string) (sq.PlaceholderFormat, error) {
	switch strings.ToLower(name) {
	case "", "question", "?":
		return sq.Question, nil
	case "dollar", "$":
		return sq.Dollar, nil
	default:
		return nil, fmt.Errorf("unknown placeholder format %q", name)
	}
}

func newBuilder(opts []Option) sq.StatementBuilderType {
	o := options{placeholder: sq.Question}
	for _, opt := range opts {
		opt(&o)
	}
	return sq.StatementBuilder.PlaceholderFormat(o.placeholder)
}

// Translate renders plan and fetch as a SELECT statement and its
// arguments. fetch may be nil.
func Translate(plan *query.Plan, fetch *query.FetchOptions, opts ...Option) (string, []any, error) {
	builder, err := Select(plan, fetch, opts...)
	if err != nil {
		return "", nil, err
	}
	return builder.ToSql()
}

// Select builds the SELECT statement for plan without rendering it.
func Select(plan *query.Plan, fetch *query.FetchOptions, opts ...Option) (sq.SelectBuilder, error) {
	if plan == nil || plan.Kind == "" {
		return sq.SelectBuilder{}, ErrKindRequired
	}

	columns := []string{"*"}
	if plan.KeysOnly {
		columns = []string{keyColumn}
	}
	stmt := newBuilder(opts).Select(columns...).From(QuoteIdent(plan.Kind))

	if plan.Ancestor != nil {
		stmt = stmt.Where(ancestorFilter(plan.Ancestor))
	}

	for _, f := range plan.Filters {
		cond, err := filterCondition(f)
		if err != nil {
			return sq.SelectBuilder{}, err
		}
		stmt = stmt.Where(cond)
	}

	for _, s := range plan.Sorts {
		dir := " ASC"
		if !s.Ascending {
			dir = " DESC"
		}
		stmt = stmt.OrderBy(QuoteIdent(s.Property) + dir)
	}

	if fetch != nil {
		if fetch.Limit != nil {
			stmt = stmt.Limit(uint64(*fetch.Limit))
		}
		if fetch.Offset != nil {
			// SQLite only accepts OFFSET after a LIMIT
			if fetch.Limit == nil {
				stmt = stmt.Limit(math.MaxInt64)
			}
			stmt = stmt.Offset(uint64(*fetch.Offset))
		}
	}

	return stmt, nil
}

// ancestorFilter keeps the ancestor row and every row whose key path
// starts with the ancestor path and a slash. substr is used instead of
// LIKE so that key names need no escaping.
func ancestorFilter(ancestor *datastore.Key) sq.Sqlizer {
	path := ancestor.Path()
	prefix := path + "/"
	return sq.Or{
		sq.Eq{keyColumn: path},
		sq.Expr(fmt.Sprintf("substr(%s, 1, ?) = ?", keyColumn), utf8.RuneCountInString(prefix), prefix),
	}
}

func filterCondition(f query.FilterPredicate) (sq.Sqlizer, error) {
	col := QuoteIdent(f.Property)

	if f.Operator == query.In {
		list, ok := f.Value.([]any)
		if !ok {
			return nil, fmt.Errorf("IN filter on %s: expected a list, got %T", f.Property, f.Value)
		}
		values := make([]any, 0, len(list))
		hasNull := false
		for _, v := range list {
			if v == nil {
				hasNull = true
				continue
			}
			values = append(values, Value(v))
		}
		// A NULL list element matches through IS NULL
		switch {
		case !hasNull:
			return sq.Eq{col: values}, nil
		case len(values) == 0:
			return sq.Eq{col: nil}, nil
		default:
			return sq.Or{sq.Eq{col: nil}, sq.Eq{col: values}}, nil
		}
	}

	v := Value(f.Value)
	switch f.Operator {
	case query.Equal:
		return sq.Eq{col: v}, nil
	case query.NotEqual:
		return sq.NotEq{col: v}, nil
	case query.LessThan:
		return sq.Lt{col: v}, nil
	case query.LessThanOrEqual:
		return sq.LtOrEq{col: v}, nil
	case query.GreaterThan:
		return sq.Gt{col: v}, nil
	case query.GreaterThanOrEqual:
		return sq.GtOrEq{col: v}, nil
	default:
		return nil, fmt.Errorf("unsupported operator %v", f.Operator)
	}
}

// Value converts a plan value to its stored SQL form: keys become paths
// and times become TimeLayout strings in UTC.
func Value(v any) any {
	switch val := v.(type) {
	case *datastore.Key:
		return val.Path()
	case time.Time:
		return val.UTC().Format(TimeLayout)
	default:
		return v
	}
}

// QuoteIdent quotes a table or column name.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
