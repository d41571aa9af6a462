package query

import (
	"strconv"
	"strings"
)

// Select is the projection of a query. KeysOnly is set by SELECT __key__.
type Select struct {
	KeysOnly bool
}

func (s *Select) Equal(o *Select) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	return s.KeysOnly == o.KeysOnly
}

// From names the kind being queried.
type From struct {
	Kind string
}

func (f *From) Equal(o *From) bool {
	if f == nil || o == nil {
		return f == nil && o == nil
	}
	return f.Kind == o.Kind
}

// Condition is one property comparison in a WHERE clause.
type Condition struct {
	Property string
	Operator FilterOperator
	Value    Evaluator
}

func (c Condition) Equal(o Condition) bool {
	return c.Property == o.Property && c.Operator == o.Operator && EqualEvaluators(c.Value, o.Value)
}

func (c Condition) String() string {
	return c.Property + " " + c.Operator.String() + " " + c.Value.String()
}

// Where holds the AND-combined conditions of a query and the optional
// ANCESTOR IS expression, which is never part of Conditions.
type Where struct {
	Conditions []Condition
	Ancestor   Evaluator
}

func (w *Where) Equal(o *Where) bool {
	if w == nil || o == nil {
		return w == nil && o == nil
	}
	if len(w.Conditions) != len(o.Conditions) || !EqualEvaluators(w.Ancestor, o.Ancestor) {
		return false
	}
	for i := range w.Conditions {
		if !w.Conditions[i].Equal(o.Conditions[i]) {
			return false
		}
	}
	return true
}

// OrderByItem sorts on one property. Ascending is the default.
type OrderByItem struct {
	Property  string
	Ascending bool
}

// OrderBy is the ORDER BY list in source order.
type OrderBy struct {
	Items []OrderByItem
}

func (ob *OrderBy) Equal(o *OrderBy) bool {
	if ob == nil || o == nil {
		return ob == nil && o == nil
	}
	if len(ob.Items) != len(o.Items) {
		return false
	}
	for i := range ob.Items {
		if ob.Items[i] != o.Items[i] {
			return false
		}
	}
	return true
}

type Limit struct {
	Value int64
}

func (l *Limit) Equal(o *Limit) bool {
	if l == nil || o == nil {
		return l == nil && o == nil
	}
	return l.Value == o.Value
}

type Offset struct {
	Value int64
}

func (f *Offset) Equal(o *Offset) bool {
	if f == nil || o == nil {
		return f == nil && o == nil
	}
	return f.Value == o.Value
}

// ParseResult is the unbound AST of one query. Select is always set on a
// successful parse; the other clauses are nil when absent.
type ParseResult struct {
	Select  *Select
	From    *From
	Where   *Where
	OrderBy *OrderBy
	Limit   *Limit
	Offset  *Offset
}

func (r *ParseResult) Equal(o *ParseResult) bool {
	if r == nil || o == nil {
		return r == nil && o == nil
	}
	return r.Select.Equal(o.Select) &&
		r.From.Equal(o.From) &&
		r.Where.Equal(o.Where) &&
		r.OrderBy.Equal(o.OrderBy) &&
		r.Limit.Equal(o.Limit) &&
		r.Offset.Equal(o.Offset)
}

// String renders the AST back into query text. Parsing the result yields
// an equal ParseResult.
func (r *ParseResult) String() string {
	if r == nil || r.Select == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("SELECT ")
	if r.Select.KeysOnly {
		b.WriteString("__key__")
	} else {
		b.WriteString("*")
	}
	if r.From != nil {
		b.WriteString(" FROM ")
		b.WriteString(r.From.Kind)
	}
	if r.Where != nil {
		var parts []string
		if r.Where.Ancestor != nil {
			parts = append(parts, "ANCESTOR IS "+r.Where.Ancestor.String())
		}
		for _, c := range r.Where.Conditions {
			parts = append(parts, c.String())
		}
		if len(parts) > 0 {
			b.WriteString(" WHERE ")
			b.WriteString(strings.Join(parts, " AND "))
		}
	}
	if r.OrderBy != nil && len(r.OrderBy.Items) > 0 {
		items := make([]string, len(r.OrderBy.Items))
		for i, item := range r.OrderBy.Items {
			dir := " ASC"
			if !item.Ascending {
				dir = " DESC"
			}
			items[i] = item.Property + dir
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(items, ", "))
	}
	if r.Limit != nil {
		b.WriteString(" LIMIT " + strconv.FormatInt(r.Limit.Value, 10))
	}
	if r.Offset != nil {
		b.WriteString(" OFFSET " + strconv.FormatInt(r.Offset.Value, 10))
	}
	return b.String()
}
