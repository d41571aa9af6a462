// Package memstore runs compiled query plans against entities held in an
// in-memory go-memdb database.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/hashicorp/go-memdb"

	"github.com/vegasq/gql/datastore"
	"github.com/vegasq/gql/internal/logging"
	"github.com/vegasq/gql/query"
)

// ErrIncompleteKey is returned by Put for entities without a usable key.
var ErrIncompleteKey = errors.New("entity key is missing or incomplete")

// Store holds entities indexed by kind and key path. It is safe for
// concurrent use.
type Store struct {
	db *memdb.MemDB
}

// New creates an empty store.
func New() (*Store, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("unable to create memdb: %w", err)
	}
	return &Store{db: db}, nil
}

// Put inserts or replaces entities by key. All entities are written in one
// transaction; on error none are.
func (s *Store) Put(ctx context.Context, entities ...*datastore.Entity) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	for _, e := range entities {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e == nil || e.Key == nil || e.Key.Incomplete() {
			return ErrIncompleteKey
		}

		rec := &record{
			path:   e.Key.Path(),
			kind:   e.Key.Kind,
			entity: cloneEntity(e),
		}
		if err := txn.Insert(tableEntity, rec); err != nil {
			return fmt.Errorf("unable to store %s: %w", rec.path, err)
		}
		logging.Ctx(ctx).Trace().Object("entity", rec).Msg("stored entity")
	}

	txn.Commit()
	return nil
}

// Delete removes the entities with the given keys. Missing keys are ignored.
func (s *Store) Delete(ctx context.Context, keys ...*datastore.Key) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := txn.DeleteAll(tableEntity, indexID, k.Path()); err != nil {
			return fmt.Errorf("unable to delete %s: %w", k.Path(), err)
		}
	}

	txn.Commit()
	return nil
}

// Get returns the entity stored under key, or nil when there is none.
func (s *Store) Get(ctx context.Context, key *datastore.Key) (*datastore.Entity, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tableEntity, indexID, key.Path())
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", key.Path(), err)
	}
	if raw == nil {
		return nil, nil
	}
	return cloneEntity(raw.(*record).entity), nil
}

// Run executes a compiled plan. Results are ordered by the plan's sorts,
// then by key path. fetch may be nil.
func (s *Store) Run(ctx context.Context, plan *query.Plan, fetch *query.FetchOptions) ([]*datastore.Entity, error) {
	entities, err := s.scan(ctx, plan)
	if err != nil {
		return nil, err
	}

	applySorts(entities, plan.Sorts)
	entities = applyLimitOffset(entities, fetch)

	if plan.KeysOnly {
		for i, e := range entities {
			entities[i] = &datastore.Entity{Key: e.Key}
		}
	}

	logging.Ctx(ctx).Debug().
		Str("kind", plan.Kind).
		Int("filters", len(plan.Filters)).
		Int("results", len(entities)).
		Msg("ran query")
	return entities, nil
}

// Count returns the number of entities matching plan, ignoring sorts and
// fetch options.
func (s *Store) Count(ctx context.Context, plan *query.Plan) (int, error) {
	entities, err := s.scan(ctx, plan)
	if err != nil {
		return 0, err
	}
	return len(entities), nil
}

// scan picks the narrowest index for plan and returns copies of every
// matching entity in index order.
func (s *Store) scan(ctx context.Context, plan *query.Plan) ([]*datastore.Entity, error) {
	if plan == nil {
		return nil, errors.New("memstore: nil plan")
	}

	txn := s.db.Txn(false)
	defer txn.Abort()

	var (
		it  memdb.ResultIterator
		err error
	)
	switch {
	case plan.Ancestor != nil:
		it, err = txn.Get(tableEntity, indexID+"_prefix", plan.Ancestor.Path())
	case plan.Kind != "":
		it, err = txn.Get(tableEntity, indexKind, plan.Kind)
	default:
		it, err = txn.Get(tableEntity, indexID)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to scan entities: %w", err)
	}

	filtered := memdb.NewFilterIterator(it, func(raw any) bool {
		return !matches(raw.(*record), plan)
	})

	var entities []*datastore.Entity
	for raw := filtered.Next(); raw != nil; raw = filtered.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entities = append(entities, cloneEntity(raw.(*record).entity))
	}
	return entities, nil
}

func cloneEntity(e *datastore.Entity) *datastore.Entity {
	return &datastore.Entity{Key: e.Key, Properties: maps.Clone(e.Properties)}
}
