package memstore

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vegasq/gql/datastore"
	"github.com/vegasq/gql/query"
)

func mustKey(t *testing.T, pairs ...any) *datastore.Key {
	t.Helper()
	var kp []datastore.KeyPair
	for i := 0; i < len(pairs); i += 2 {
		kp = append(kp, datastore.KeyPair{Kind: pairs[i].(string), IDOrName: pairs[i+1]})
	}
	key, err := datastore.NewKey(kp)
	require.NoError(t, err)
	return key
}

func seed(t *testing.T) *Store {
	t.Helper()
	store, err := New()
	require.NoError(t, err)

	amy := mustKey(t, "Person", "Amy")
	err = store.Put(context.Background(),
		&datastore.Entity{Key: amy, Properties: map[string]any{
			"name": "Amy", "age": int64(30), "active": true,
			"joined": time.Date(2011, time.November, 17, 0, 0, 0, 0, time.UTC),
			"tags":   []any{"admin", "ops"},
		}},
		&datastore.Entity{Key: mustKey(t, "Person", "Bob"), Properties: map[string]any{
			"name": "Bob", "age": int64(25), "active": false,
			"joined": time.Date(2015, time.March, 1, 0, 0, 0, 0, time.UTC),
		}},
		&datastore.Entity{Key: mustKey(t, "Person", "Cid"), Properties: map[string]any{
			"name": "Cid", "age": 41.5,
		}},
		&datastore.Entity{Key: mustKey(t, "Person", "Amy", "Photo", 1), Properties: map[string]any{
			"title": "beach", "size": int64(300),
		}},
		&datastore.Entity{Key: mustKey(t, "Person", "Amy", "Photo", 2), Properties: map[string]any{
			"title": "hike", "size": int64(100),
		}},
		&datastore.Entity{Key: mustKey(t, "Person", "Amy2", "Photo", 3), Properties: map[string]any{
			"title": "other", "size": int64(200),
		}},
	)
	require.NoError(t, err)
	return store
}

func run(t *testing.T, store *Store, gql string, b query.Bindings) []*datastore.Entity {
	t.Helper()
	stmt, err := query.Prepare(gql)
	require.NoError(t, err)
	plan, fetch, err := stmt.Compile(b)
	require.NoError(t, err)
	results, err := store.Run(context.Background(), plan, fetch)
	require.NoError(t, err)
	return results
}

func paths(entities []*datastore.Entity) []string {
	var out []string
	for _, e := range entities {
		out = append(out, e.Key.Path())
	}
	return out
}

func TestRun(t *testing.T) {
	store := seed(t)

	tests := []struct {
		name  string
		query string
		bind  query.Bindings
		want  []string
	}{
		{
			name:  "kind scan",
			query: "SELECT * FROM Person",
			want:  []string{`Person:"Amy"`, `Person:"Bob"`, `Person:"Cid"`},
		},
		{
			name:  "equality",
			query: "SELECT * FROM Person WHERE name = 'Bob'",
			want:  []string{`Person:"Bob"`},
		},
		{
			name:  "range over mixed numbers",
			query: "SELECT * FROM Person WHERE age > 26 ORDER BY age DESC",
			want:  []string{`Person:"Cid"`, `Person:"Amy"`},
		},
		{
			name:  "not equal skips missing property",
			query: "SELECT * FROM Person WHERE active != true",
			want:  []string{`Person:"Bob"`},
		},
		{
			name:  "in list",
			query: "SELECT * FROM Person WHERE name IN ('Amy', 'Cid', 'Zed')",
			want:  []string{`Person:"Amy"`, `Person:"Cid"`},
		},
		{
			name:  "in parameter",
			query: "SELECT * FROM Person WHERE name IN :names",
			bind:  query.Named(map[string]any{"names": []string{"Bob"}}),
			want:  []string{`Person:"Bob"`},
		},
		{
			name:  "list property matches any element",
			query: "SELECT * FROM Person WHERE tags = 'ops'",
			want:  []string{`Person:"Amy"`},
		},
		{
			name:  "date comparison",
			query: "SELECT * FROM Person WHERE joined < date(2012, 0, 1)",
			want:  []string{`Person:"Amy"`},
		},
		{
			name:  "ancestor includes itself and skips lookalike prefixes",
			query: "SELECT * WHERE ANCESTOR IS KEY('Person', 'Amy')",
			want:  []string{`Person:"Amy"`, `Person:"Amy"/Photo:1`, `Person:"Amy"/Photo:2`},
		},
		{
			name:  "ancestor with kind and sort",
			query: "SELECT * FROM Photo WHERE ANCESTOR IS KEY('Person', 'Amy') ORDER BY size",
			want:  []string{`Person:"Amy"/Photo:2`, `Person:"Amy"/Photo:1`},
		},
		{
			name:  "key filter",
			query: "SELECT * FROM Photo WHERE __key__ > KEY('Person', 'Amy', 'Photo', 1)",
			want:  []string{`Person:"Amy"/Photo:2`, `Person:"Amy2"/Photo:3`},
		},
		{
			name:  "limit and offset",
			query: "SELECT * FROM Person ORDER BY name DESC LIMIT 1 OFFSET 1",
			want:  []string{`Person:"Bob"`},
		},
		{
			name:  "max limit with offset",
			query: "SELECT * FROM Person ORDER BY name LIMIT 9223372036854775807 OFFSET 1",
			want:  []string{`Person:"Bob"`, `Person:"Cid"`},
		},
		{
			name:  "offset past end",
			query: "SELECT * FROM Person OFFSET 10",
			want:  nil,
		},
		{
			name:  "positional parameters",
			query: "SELECT * FROM Person WHERE age >= :1 AND age <= :2",
			bind:  query.Positional(int64(25), int64(30)),
			want:  []string{`Person:"Amy"`, `Person:"Bob"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, paths(run(t, store, tt.query, tt.bind)))
		})
	}
}

func TestApplyLimitOffset(t *testing.T) {
	entities := []*datastore.Entity{
		{Key: mustKey(t, "K", 1)}, {Key: mustKey(t, "K", 2)}, {Key: mustKey(t, "K", 3)},
	}
	ptr := func(n int64) *int64 { return &n }

	tests := []struct {
		name  string
		fetch *query.FetchOptions
		want  []string
	}{
		{"no options", nil, []string{"K:1", "K:2", "K:3"}},
		{"max limit", &query.FetchOptions{Limit: ptr(math.MaxInt64), Offset: ptr(2)}, []string{"K:3"}},
		{"negative limit", &query.FetchOptions{Limit: ptr(-1)}, nil},
		{"negative offset", &query.FetchOptions{Offset: ptr(-5), Limit: ptr(1)}, []string{"K:1"}},
		{"offset at end", &query.FetchOptions{Offset: ptr(3)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, paths(applyLimitOffset(entities, tt.fetch)))
		})
	}
}

func TestInListMatchesNull(t *testing.T) {
	store, err := New()
	require.NoError(t, err)
	err = store.Put(context.Background(),
		&datastore.Entity{Key: mustKey(t, "Pet", 1), Properties: map[string]any{"owner": nil}},
		&datastore.Entity{Key: mustKey(t, "Pet", 2), Properties: map[string]any{"owner": "Amy"}},
		&datastore.Entity{Key: mustKey(t, "Pet", 3), Properties: map[string]any{}},
	)
	require.NoError(t, err)

	require.Equal(t, []string{"Pet:1"}, paths(run(t, store, "SELECT * FROM Pet WHERE owner IN (NULL, 'Zed')", query.Bindings{})))
	require.Equal(t, []string{"Pet:1", "Pet:2"}, paths(run(t, store, "SELECT * FROM Pet WHERE owner IN (NULL, 'Amy')", query.Bindings{})))
}

func TestRunKeysOnly(t *testing.T) {
	store := seed(t)

	results := run(t, store, "SELECT __key__ FROM Person WHERE name = 'Amy'", query.Bindings{})
	require.Len(t, results, 1)
	require.Equal(t, `Person:"Amy"`, results[0].Key.Path())
	require.Nil(t, results[0].Properties)
}

func TestSortMissingPropertyFirst(t *testing.T) {
	store := seed(t)

	results := run(t, store, "SELECT * FROM Person ORDER BY active", query.Bindings{})
	require.Equal(t, []string{`Person:"Cid"`, `Person:"Bob"`, `Person:"Amy"`}, paths(results))

	results = run(t, store, "SELECT * FROM Person ORDER BY active DESC", query.Bindings{})
	require.Equal(t, []string{`Person:"Amy"`, `Person:"Bob"`, `Person:"Cid"`}, paths(results))
}

func TestPutReplaceGetDelete(t *testing.T) {
	ctx := context.Background()
	store := seed(t)
	bob := mustKey(t, "Person", "Bob")

	require.NoError(t, store.Put(ctx, &datastore.Entity{Key: bob, Properties: map[string]any{"name": "Robert"}}))
	got, err := store.Get(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, "Robert", got.Properties["name"])

	// Mutating a returned entity does not change the store
	got.Properties["name"] = "changed"
	again, err := store.Get(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, "Robert", again.Properties["name"])

	require.NoError(t, store.Delete(ctx, bob, mustKey(t, "Person", "Nobody")))
	got, err = store.Get(ctx, bob)
	require.NoError(t, err)
	require.Nil(t, got)

	count, err := store.Count(ctx, &query.Plan{Kind: "Person"})
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestPutRejectsIncompleteKey(t *testing.T) {
	store, err := New()
	require.NoError(t, err)

	err = store.Put(context.Background(), &datastore.Entity{Key: &datastore.Key{Kind: "Person"}})
	require.ErrorIs(t, err, ErrIncompleteKey)

	err = store.Put(context.Background(), &datastore.Entity{})
	require.ErrorIs(t, err, ErrIncompleteKey)
}

func TestRunCancelled(t *testing.T) {
	store := seed(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Run(ctx, &query.Plan{Kind: "Person"}, nil)
	require.ErrorIs(t, err, context.Canceled)
}
