package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vegasq/gql/query"
)

// BindingOptions holds parameter values given on the command line. Each
// value is a GQL literal or function call, for example 100, 'x' or
// datetime('2011-11-17 10:10:10').
type BindingOptions struct {
	Args  []string
	Named []string
}

func (b *BindingOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&b.Args, "arg", nil, "positional parameter value, bound to :1, :2, ... in order")
	cmd.Flags().StringArrayVar(&b.Named, "named", nil, "named parameter as name=value")
}

// bindings evaluates the flag values. Positional and named values cannot
// be mixed.
func (b *BindingOptions) bindings(loc *time.Location) (query.Bindings, error) {
	if len(b.Args) > 0 && len(b.Named) > 0 {
		return query.Bindings{}, errors.New("--arg and --named cannot be used together")
	}

	env := &query.Env{Location: loc}
	if len(b.Named) > 0 {
		values := make(map[string]any, len(b.Named))
		for _, pair := range b.Named {
			name, text, ok := strings.Cut(pair, "=")
			name = strings.TrimSpace(name)
			if !ok || name == "" {
				return query.Bindings{}, fmt.Errorf("invalid --named value %q: want name=value", pair)
			}
			v, err := evaluateLiteral(env, text)
			if err != nil {
				return query.Bindings{}, fmt.Errorf("parameter :%s: %w", name, err)
			}
			values[name] = v
		}
		return query.Named(values), nil
	}

	values := make([]any, len(b.Args))
	for i, text := range b.Args {
		v, err := evaluateLiteral(env, text)
		if err != nil {
			return query.Bindings{}, fmt.Errorf("parameter :%d: %w", i+1, err)
		}
		values[i] = v
	}
	return query.Positional(values...), nil
}

func evaluateLiteral(env *query.Env, text string) (any, error) {
	ev, err := query.ParseValue(text)
	if err != nil {
		return nil, err
	}
	return ev.Evaluate(env)
}

// compileQuery parses input and compiles it with the bound values.
func compileQuery(opts *RootOptions, b *BindingOptions, input string) (*query.Plan, *query.FetchOptions, error) {
	qopts, err := opts.queryOptions()
	if err != nil {
		return nil, nil, err
	}
	loc, err := opts.location()
	if err != nil {
		return nil, nil, err
	}
	bindings, err := b.bindings(loc)
	if err != nil {
		return nil, nil, err
	}

	stmt, err := query.Prepare(input, qopts...)
	if err != nil {
		return nil, nil, err
	}
	return stmt.Compile(bindings)
}
