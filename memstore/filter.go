package memstore

import (
	"sort"
	"strings"
	"time"

	"github.com/vegasq/gql/datastore"
	"github.com/vegasq/gql/query"
)

// matches reports whether rec satisfies the kind, ancestor and filters of plan
func matches(rec *record, plan *query.Plan) bool {
	if plan.Kind != "" && rec.kind != plan.Kind {
		return false
	}
	if plan.Ancestor != nil && !hasAncestorPath(rec.path, plan.Ancestor.Path()) {
		return false
	}
	for _, f := range plan.Filters {
		value, ok := rec.entity.Property(f.Property)
		if !ok {
			// Entities without the property never match a filter on it
			return false
		}
		if !matchFilter(value, f.Operator, f.Value) {
			return false
		}
	}
	return true
}

// hasAncestorPath reports whether path is ancestor or one of its descendants
func hasAncestorPath(path, ancestor string) bool {
	return path == ancestor || strings.HasPrefix(path, ancestor+"/")
}

// matchFilter applies one operator. A list-valued property matches when
// any element does.
func matchFilter(value any, op query.FilterOperator, target any) bool {
	if values, ok := value.([]any); ok {
		for _, v := range values {
			if matchFilter(v, op, target) {
				return true
			}
		}
		return false
	}

	if op == query.In {
		list, _ := target.([]any)
		for _, t := range list {
			if cmp, ok := compareValues(value, t); ok && cmp == 0 {
				return true
			}
		}
		return false
	}

	cmp, ok := compareValues(value, target)
	if !ok {
		// Values of different types are only ever unequal
		return op == query.NotEqual
	}

	switch op {
	case query.Equal:
		return cmp == 0
	case query.NotEqual:
		return cmp != 0
	case query.LessThan:
		return cmp < 0
	case query.LessThanOrEqual:
		return cmp <= 0
	case query.GreaterThan:
		return cmp > 0
	case query.GreaterThanOrEqual:
		return cmp >= 0
	default:
		return false
	}
}

// Type ranks used to order values of different types when sorting
const (
	rankNull = iota
	rankBool
	rankNumber
	rankTime
	rankString
	rankKey
	rankOther
)

func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return rankNull
	case bool:
		return rankBool
	case time.Time:
		return rankTime
	case string:
		return rankString
	case *datastore.Key:
		return rankKey
	}
	if _, ok := toFloat64(v); ok {
		return rankNumber
	}
	return rankOther
}

// compareValues compares two values of the same type. ok is false when
// the types differ or cannot be ordered.
func compareValues(a, b any) (int, bool) {
	if typeRank(a) != typeRank(b) {
		return 0, false
	}

	switch av := a.(type) {
	case nil:
		return 0, true
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true // false < true
		default:
			return 1, true
		}
	case time.Time:
		return av.Compare(b.(time.Time)), true
	case string:
		return strings.Compare(av, b.(string)), true
	case *datastore.Key:
		return compareKeys(av, b.(*datastore.Key)), true
	}

	// Integers compare exactly; mixed integer and float compare as floats
	if ai, ok := datastore.Int64(a); ok {
		if bi, ok := datastore.Int64(b); ok {
			return compareOrdered(ai, bi), true
		}
	}
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if aok && bok {
		return compareOrdered(af, bf), true
	}
	return 0, false
}

// sortOrder ranks values across types for ORDER BY
func sortOrder(a, b any) int {
	if cmp, ok := compareValues(a, b); ok {
		return cmp
	}
	return compareOrdered(typeRank(a), typeRank(b))
}

// compareKeys orders keys element by element from the root. Within one
// kind numeric IDs sort before names.
func compareKeys(a, b *datastore.Key) int {
	ap, bp := a.Pairs(), b.Pairs()
	for i := 0; i < len(ap) && i < len(bp); i++ {
		if c := strings.Compare(ap[i].Kind, bp[i].Kind); c != 0 {
			return c
		}
		aid, aIsID := ap[i].IDOrName.(int64)
		bid, bIsID := bp[i].IDOrName.(int64)
		switch {
		case aIsID && bIsID:
			if c := compareOrdered(aid, bid); c != 0 {
				return c
			}
		case aIsID:
			return -1
		case bIsID:
			return 1
		default:
			if c := strings.Compare(ap[i].IDOrName.(string), bp[i].IDOrName.(string)); c != 0 {
				return c
			}
		}
	}
	return compareOrdered(len(ap), len(bp))
}

func compareOrdered[T int | int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// applySorts sorts entities in place by the plan's sort predicates.
// Entities without a sort property sort first in ascending order.
func applySorts(entities []*datastore.Entity, sorts []query.SortPredicate) {
	if len(entities) == 0 || len(sorts) == 0 {
		return
	}

	sort.SliceStable(entities, func(i, j int) bool {
		for _, s := range sorts {
			valI, existsI := entities[i].Property(s.Property)
			valJ, existsJ := entities[j].Property(s.Property)

			// Handle missing properties (treat as NULL, which sorts first)
			if !existsI && !existsJ {
				continue
			}
			if !existsI {
				return s.Ascending
			}
			if !existsJ {
				return !s.Ascending
			}

			cmp := sortOrder(valI, valJ)
			if cmp != 0 {
				if s.Ascending {
					return cmp < 0
				}
				return cmp > 0
			}
		}
		return false
	})
}

// applyLimitOffset skips offset entities and then keeps at most limit
func applyLimitOffset(entities []*datastore.Entity, fetch *query.FetchOptions) []*datastore.Entity {
	if fetch == nil || len(entities) == 0 {
		return entities
	}

	start := int64(0)
	if fetch.Offset != nil && *fetch.Offset > 0 {
		start = *fetch.Offset
	}
	if start >= int64(len(entities)) {
		return []*datastore.Entity{}
	}

	end := int64(len(entities))
	if fetch.Limit != nil {
		if limit := max(*fetch.Limit, 0); limit < end-start {
			end = start + limit
		}
	}
	return entities[start:end]
}

func toFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}
