package query

import (
	"fmt"
	"math"
	"strings"
)

// builtin is one of the fixed functions callable from a query.
type builtin interface {
	// Name returns the lower-case function name
	Name() string
	// MinArity returns the minimum number of arguments
	MinArity() int
	// MaxArity returns the maximum number of arguments
	MaxArity() int
	// Evaluate evaluates the function with already evaluated arguments
	Evaluate(env *Env, args []any) (any, error)
}

// builtins is closed: key, date and datetime are the whole set.
var builtins = map[string]builtin{
	"key":      keyFunc{},
	"date":     dateFunc{},
	"datetime": datetimeFunc{},
}

// BuiltinNames returns the names of the callable functions.
func BuiltinNames() []string {
	return []string{"key", "date", "datetime"}
}

// callBuiltin dispatches a call by lower-cased name after checking arity
func callBuiltin(env *Env, name string, args []any) (any, error) {
	fn, ok := builtins[strings.ToLower(name)]
	if !ok {
		return nil, &UnknownFunctionError{Name: name}
	}

	if len(args) < fn.MinArity() || len(args) > fn.MaxArity() {
		return nil, &FunctionArgumentError{
			Function: fn.Name(),
			Msg:      arityMessage(fn, len(args)),
		}
	}
	return fn.Evaluate(env, args)
}

func arityMessage(fn builtin, got int) string {
	if fn.MaxArity() == math.MaxInt {
		return fmt.Sprintf("expects at least %d arguments, got %d", fn.MinArity(), got)
	}
	if fn.MinArity() == fn.MaxArity() {
		return fmt.Sprintf("expects %d arguments, got %d", fn.MinArity(), got)
	}
	return fmt.Sprintf("expects %d to %d arguments, got %d", fn.MinArity(), fn.MaxArity(), got)
}
