package query

import (
	"reflect"
	"time"

	"github.com/vegasq/gql/datastore"
)

// FilterOperator is a comparison in a condition or filter predicate.
type FilterOperator int

const (
	Equal FilterOperator = iota
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
	NotEqual
	In
)

var operatorSymbols = [...]string{
	Equal:              "=",
	LessThan:           "<",
	LessThanOrEqual:    "<=",
	GreaterThan:        ">",
	GreaterThanOrEqual: ">=",
	NotEqual:           "!=",
	In:                 "IN",
}

func (op FilterOperator) String() string {
	if op < 0 || int(op) >= len(operatorSymbols) {
		return "FilterOperator(?)"
	}
	return operatorSymbols[op]
}

// FilterPredicate is a condition with its value resolved.
type FilterPredicate struct {
	Property string
	Operator FilterOperator
	Value    any
}

// SortPredicate orders results by one property.
type SortPredicate struct {
	Property  string
	Ascending bool
}

// Plan is the compiled, storage-agnostic form of a query. Kind is empty
// for kind-less queries. Filters and Sorts are nil, never empty, when the
// query has no conditions or no ORDER BY.
type Plan struct {
	Kind     string
	Ancestor *datastore.Key
	Filters  []FilterPredicate
	Sorts    []SortPredicate
	KeysOnly bool
}

// Equal reports structural equality of two plans. Keys compare with
// Key.Equal and times by instant.
func (p *Plan) Equal(o *Plan) bool {
	if p == nil || o == nil {
		return p == nil && o == nil
	}
	if p.Kind != o.Kind || p.KeysOnly != o.KeysOnly || !p.Ancestor.Equal(o.Ancestor) {
		return false
	}
	if (p.Filters == nil) != (o.Filters == nil) || len(p.Filters) != len(o.Filters) {
		return false
	}
	for i := range p.Filters {
		a, b := p.Filters[i], o.Filters[i]
		if a.Property != b.Property || a.Operator != b.Operator || !ValuesEqual(a.Value, b.Value) {
			return false
		}
	}
	if (p.Sorts == nil) != (o.Sorts == nil) || len(p.Sorts) != len(o.Sorts) {
		return false
	}
	for i := range p.Sorts {
		if p.Sorts[i] != o.Sorts[i] {
			return false
		}
	}
	return true
}

// FetchOptions carries LIMIT and OFFSET. A nil field was not specified.
type FetchOptions struct {
	Limit  *int64
	Offset *int64
}

// Equal reports whether both options carry the same limit and offset.
func (f *FetchOptions) Equal(o *FetchOptions) bool {
	if f == nil || o == nil {
		return f == nil && o == nil
	}
	return equalInt64Ptr(f.Limit, o.Limit) && equalInt64Ptr(f.Offset, o.Offset)
}

func equalInt64Ptr(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ValuesEqual compares two resolved values. It understands keys, times
// and lists; everything else compares with reflect.DeepEqual.
func ValuesEqual(a, b any) bool {
	switch av := a.(type) {
	case *datastore.Key:
		bv, ok := b.(*datastore.Key)
		return ok && av.Equal(bv)
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !ValuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	switch b.(type) {
	case *datastore.Key, time.Time, []any:
		return false
	}
	return reflect.DeepEqual(a, b)
}
