package query

import (
	"fmt"
	"math"

	"github.com/vegasq/gql/datastore"
)

// keyFunc implements key(encoded) and key(kind, idOrName, ...).
//
// With one argument the string is decoded by the environment's KeyCodec.
// With an even number of arguments the key is built from (kind, id or
// name) pairs, root first, without consulting the codec.
type keyFunc struct{}

func (keyFunc) Name() string  { return "key" }
func (keyFunc) MinArity() int { return 1 }
func (keyFunc) MaxArity() int { return math.MaxInt }

func (f keyFunc) Evaluate(env *Env, args []any) (any, error) {
	if len(args) == 1 {
		switch v := args[0].(type) {
		case string:
			key, err := env.codec().Decode(v)
			if err != nil {
				return nil, fmt.Errorf("key(): %w", err)
			}
			return key, nil
		case *datastore.Key:
			// a key bound through a parameter
			return v, nil
		default:
			return nil, &FunctionArgumentError{
				Function: f.Name(),
				Msg:      fmt.Sprintf("single argument must be an encoded key string, got %T", v),
			}
		}
	}

	if len(args)%2 != 0 {
		return nil, &FunctionArgumentError{
			Function: f.Name(),
			Msg:      fmt.Sprintf("expects one encoded key or kind/identifier pairs, got %d arguments", len(args)),
		}
	}

	pairs := make([]datastore.KeyPair, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		kind, ok := args[i].(string)
		if !ok {
			return nil, &FunctionArgumentError{
				Function: f.Name(),
				Msg:      fmt.Sprintf("argument %d: kind must be a string, got %T", i+1, args[i]),
			}
		}

		var idOrName any
		switch v := args[i+1].(type) {
		case string:
			idOrName = v
		default:
			id, ok := datastore.Int64(v)
			if !ok {
				return nil, &FunctionArgumentError{
					Function: f.Name(),
					Msg:      fmt.Sprintf("argument %d: identifier must be a string or integer, got %T", i+2, v),
				}
			}
			idOrName = id
		}
		pairs = append(pairs, datastore.KeyPair{Kind: kind, IDOrName: idOrName})
	}

	key, err := datastore.NewKey(pairs)
	if err != nil {
		return nil, fmt.Errorf("key(): %w", err)
	}
	return key, nil
}
