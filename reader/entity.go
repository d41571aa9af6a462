package reader

import (
	"context"
	"fmt"

	"github.com/vegasq/gql/datastore"
	"github.com/vegasq/gql/internal/logging"
)

// LoadEntities reads the rows matching pattern as entities of kind.
//
// keyColumn names the column holding each entity's identifier: integer
// values become IDs and strings become names. The column is removed from
// the properties. With an empty keyColumn entities get sequential IDs
// starting at 1 in file order.
func LoadEntities(ctx context.Context, pattern, kind, keyColumn string) ([]*datastore.Entity, error) {
	rows, err := ReadMultipleFiles(pattern)
	if err != nil {
		return nil, err
	}

	entities := make([]*datastore.Entity, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var idOrName any = int64(i + 1)
		if keyColumn != "" {
			v, ok := row[keyColumn]
			if !ok || v == nil {
				return nil, fmt.Errorf("row %d: key column %q is missing", i+1, keyColumn)
			}
			idOrName = v
			delete(row, keyColumn)
		}

		key, err := datastore.NewKey([]datastore.KeyPair{{Kind: kind, IDOrName: idOrName}})
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		entities = append(entities, &datastore.Entity{Key: key, Properties: row})
	}

	logging.Ctx(ctx).Debug().
		Str("kind", kind).
		Str("pattern", pattern).
		Int("entities", len(entities)).
		Msg("loaded entities")
	return entities, nil
}
