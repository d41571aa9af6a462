package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/vegasq/gql/datastore"
)

// Env is the context an evaluator runs in: the bound parameters, the key
// codec used by key(), and the time zone used by date() and datetime().
// A nil *Env evaluates literals and parameter-free functions with defaults.
type Env struct {
	Bindings Bindings
	Codec    datastore.KeyCodec
	Location *time.Location
}

func (e *Env) bindings() Bindings {
	if e == nil {
		return Bindings{}
	}
	return e.Bindings
}

func (e *Env) codec() datastore.KeyCodec {
	if e == nil || e.Codec == nil {
		return datastore.ReferenceCodec{}
	}
	return e.Codec
}

func (e *Env) location() *time.Location {
	if e == nil || e.Location == nil {
		return time.UTC
	}
	return e.Location
}

// Evaluator is a value expression in a query. The set of implementations
// is closed: NullEvaluator, StringEvaluator, BooleanEvaluator,
// DecimalEvaluator, ParamEvaluator, ListEvaluator and FunctionEvaluator.
type Evaluator interface {
	// Evaluate produces the runtime value of the expression.
	Evaluate(env *Env) (any, error)
	// Equal reports structural equality with another evaluator.
	Equal(other Evaluator) bool
	// String returns the expression as it would be written in a query.
	String() string

	evaluator()
}

// EqualEvaluators compares two possibly-nil evaluators structurally.
func EqualEvaluators(a, b Evaluator) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// NullEvaluator is the NULL literal.
type NullEvaluator struct{}

func (NullEvaluator) Evaluate(*Env) (any, error) { return nil, nil }

func (NullEvaluator) Equal(other Evaluator) bool {
	_, ok := other.(NullEvaluator)
	return ok
}

func (NullEvaluator) String() string { return "NULL" }

func (NullEvaluator) evaluator() {}

// StringEvaluator is a string literal. Text keeps the surrounding quotes
// and doubled-quote escapes exactly as written.
type StringEvaluator struct {
	Text string
}

// Value returns the unquoted string.
func (s StringEvaluator) Value() string {
	text := s.Text
	if len(text) >= 2 && text[0] == '\'' && text[len(text)-1] == '\'' {
		text = text[1 : len(text)-1]
	}
	return strings.ReplaceAll(text, "''", "'")
}

func (s StringEvaluator) Evaluate(*Env) (any, error) { return s.Value(), nil }

func (s StringEvaluator) Equal(other Evaluator) bool {
	o, ok := other.(StringEvaluator)
	return ok && o.Text == s.Text
}

func (s StringEvaluator) String() string { return s.Text }

func (StringEvaluator) evaluator() {}

// QuoteString renders s as a string literal.
func QuoteString(s string) StringEvaluator {
	return StringEvaluator{Text: "'" + strings.ReplaceAll(s, "'", "''") + "'"}
}

// BooleanEvaluator is TRUE or FALSE. Text is "true" or "false".
type BooleanEvaluator struct {
	Text string
}

func (b BooleanEvaluator) Evaluate(*Env) (any, error) {
	return strings.EqualFold(b.Text, "true"), nil
}

func (b BooleanEvaluator) Equal(other Evaluator) bool {
	o, ok := other.(BooleanEvaluator)
	return ok && strings.EqualFold(o.Text, b.Text)
}

func (b BooleanEvaluator) String() string { return strings.ToLower(b.Text) }

func (BooleanEvaluator) evaluator() {}

// DecimalEvaluator is a numeric literal. It evaluates to int64 when the
// text has no fractional part and to float64 otherwise.
type DecimalEvaluator struct {
	Text string
}

func (d DecimalEvaluator) Evaluate(*Env) (any, error) {
	if i, err := strconv.ParseInt(d.Text, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(d.Text, 64)
	if err != nil {
		return nil, &ParseError{Token: Token{Type: TokenNumber, Value: d.Text}, Msg: "invalid number"}
	}
	return f, nil
}

func (d DecimalEvaluator) Equal(other Evaluator) bool {
	o, ok := other.(DecimalEvaluator)
	return ok && o.Text == d.Text
}

func (d DecimalEvaluator) String() string { return d.Text }

func (DecimalEvaluator) evaluator() {}

// ParamEvaluator is a parameter marker. Positional parameters (:1, :2)
// set Index; named parameters (:name) set Name.
type ParamEvaluator struct {
	Index int
	Name  string
}

// PositionalParam returns the evaluator for :index.
func PositionalParam(index int) ParamEvaluator {
	return ParamEvaluator{Index: index}
}

// NamedParam returns the evaluator for :name.
func NamedParam(name string) ParamEvaluator {
	return ParamEvaluator{Name: name}
}

// IsNamed reports whether p is a :name parameter.
func (p ParamEvaluator) IsNamed() bool { return p.Name != "" }

func (p ParamEvaluator) Evaluate(env *Env) (any, error) {
	return env.bindings().Lookup(p)
}

func (p ParamEvaluator) Equal(other Evaluator) bool {
	o, ok := other.(ParamEvaluator)
	return ok && o == p
}

func (p ParamEvaluator) String() string {
	if p.IsNamed() {
		return ":" + p.Name
	}
	return ":" + strconv.Itoa(p.Index)
}

func (ParamEvaluator) evaluator() {}

// ListEvaluator is the parenthesised value list of an IN condition.
type ListEvaluator struct {
	Items []Evaluator
}

// NewList returns a list evaluator over items.
func NewList(items ...Evaluator) ListEvaluator {
	return ListEvaluator{Items: items}
}

// Evaluate returns a []any with the items evaluated in order.
func (l ListEvaluator) Evaluate(env *Env) (any, error) {
	values := make([]any, 0, len(l.Items))
	for _, item := range l.Items {
		v, err := item.Evaluate(env)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func (l ListEvaluator) Equal(other Evaluator) bool {
	o, ok := other.(ListEvaluator)
	return ok && equalEvaluatorSlices(l.Items, o.Items)
}

func (l ListEvaluator) String() string {
	return "(" + joinEvaluators(l.Items) + ")"
}

func (ListEvaluator) evaluator() {}

// FunctionEvaluator is a call to one of the built-in functions key, date
// and datetime. Name is lower case.
type FunctionEvaluator struct {
	Name string
	Args []Evaluator
}

// NewFunction returns a function evaluator. The name is lower-cased.
func NewFunction(name string, args ...Evaluator) FunctionEvaluator {
	return FunctionEvaluator{Name: strings.ToLower(name), Args: args}
}

// Evaluate evaluates the arguments left to right and then dispatches on
// the function name.
func (f FunctionEvaluator) Evaluate(env *Env) (any, error) {
	args := make([]any, len(f.Args))
	for i, arg := range f.Args {
		v, err := arg.Evaluate(env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return callBuiltin(env, f.Name, args)
}

func (f FunctionEvaluator) Equal(other Evaluator) bool {
	o, ok := other.(FunctionEvaluator)
	return ok && strings.EqualFold(o.Name, f.Name) && equalEvaluatorSlices(f.Args, o.Args)
}

func (f FunctionEvaluator) String() string {
	return strings.ToUpper(f.Name) + "(" + joinEvaluators(f.Args) + ")"
}

func (FunctionEvaluator) evaluator() {}

func equalEvaluatorSlices(a, b []Evaluator) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualEvaluators(a[i], b[i]) {
			return false
		}
	}
	return true
}

func joinEvaluators(items []Evaluator) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, ", ")
}
