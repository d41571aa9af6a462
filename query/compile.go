package query

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/vegasq/gql/datastore"
)

// ErrNotAList is returned when an IN condition's value is not a list.
var ErrNotAList = errors.New("IN requires a list value")

// Option configures compilation.
type Option func(*Env)

// WithKeyCodec sets the codec used by single-argument key() calls.
func WithKeyCodec(codec datastore.KeyCodec) Option {
	return func(e *Env) {
		e.Codec = codec
	}
}

// WithLocation sets the time zone of values built by date() and datetime().
func WithLocation(loc *time.Location) Option {
	return func(e *Env) {
		e.Location = loc
	}
}

func newEnv(b Bindings, opts []Option) *Env {
	env := &Env{
		Bindings: b,
		Codec:    datastore.ReferenceCodec{},
		Location: time.UTC,
	}
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// Compile binds parameters and evaluates every value in pr, producing a
// query plan and fetch options. pr is not modified, so the same
// ParseResult may be compiled concurrently with different bindings.
func Compile(pr *ParseResult, b Bindings, opts ...Option) (*Plan, *FetchOptions, error) {
	if pr == nil || pr.Select == nil {
		return nil, nil, fmt.Errorf("%w: missing SELECT", ErrParse)
	}
	env := newEnv(b, opts)

	plan := &Plan{KeysOnly: pr.Select.KeysOnly}
	if pr.From != nil {
		plan.Kind = pr.From.Kind
	}

	if pr.Where != nil {
		for _, cond := range pr.Where.Conditions {
			filter, err := compileCondition(env, cond)
			if err != nil {
				return nil, nil, err
			}
			plan.Filters = append(plan.Filters, filter)
		}

		if pr.Where.Ancestor != nil {
			ancestor, err := compileAncestor(env, pr.Where.Ancestor)
			if err != nil {
				return nil, nil, err
			}
			plan.Ancestor = ancestor
		}
	}

	if pr.OrderBy != nil {
		for _, item := range pr.OrderBy.Items {
			plan.Sorts = append(plan.Sorts, SortPredicate{
				Property:  item.Property,
				Ascending: item.Ascending,
			})
		}
	}

	fetch := &FetchOptions{}
	if pr.Limit != nil {
		limit := pr.Limit.Value
		fetch.Limit = &limit
	}
	if pr.Offset != nil {
		offset := pr.Offset.Value
		fetch.Offset = &offset
	}

	return plan, fetch, nil
}

func compileCondition(env *Env, cond Condition) (FilterPredicate, error) {
	value, err := cond.Value.Evaluate(env)
	if err != nil {
		return FilterPredicate{}, fmt.Errorf("condition %s: %w", cond, err)
	}

	if cond.Operator == In {
		list, ok := asList(value)
		if !ok {
			return FilterPredicate{}, fmt.Errorf("condition %s: %w, got %T", cond, ErrNotAList, value)
		}
		value = list
	}

	return FilterPredicate{
		Property: cond.Property,
		Operator: cond.Operator,
		Value:    value,
	}, nil
}

func compileAncestor(env *Env, ev Evaluator) (*datastore.Key, error) {
	value, err := ev.Evaluate(env)
	if err != nil {
		return nil, fmt.Errorf("ancestor %s: %w", ev, err)
	}
	key, ok := value.(*datastore.Key)
	if !ok || key == nil {
		return nil, fmt.Errorf("%w: %s evaluated to %T", ErrInvalidAncestor, ev, value)
	}
	return key, nil
}

// asList converts any slice or array value to []any
func asList(value any) ([]any, bool) {
	if list, ok := value.([]any); ok {
		return list, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}

// Statement is a parsed query ready to be compiled with bindings.
type Statement struct {
	text   string
	parsed *ParseResult
	opts   []Option
}

// Prepare parses a query once so that it can be compiled many times.
func Prepare(input string, opts ...Option) (*Statement, error) {
	parsed, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return &Statement{text: input, parsed: parsed, opts: opts}, nil
}

// Text returns the query the statement was prepared from.
func (s *Statement) Text() string { return s.text }

// ParseResult returns the statement's AST. It must not be modified.
func (s *Statement) ParseResult() *ParseResult { return s.parsed }

// Compile compiles the statement with b. Options passed here are applied
// after the ones given to Prepare.
func (s *Statement) Compile(b Bindings, opts ...Option) (*Plan, *FetchOptions, error) {
	all := make([]Option, 0, len(s.opts)+len(opts))
	all = append(all, s.opts...)
	all = append(all, opts...)
	return Compile(s.parsed, b, all...)
}
