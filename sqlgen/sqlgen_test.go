package sqlgen

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/gql/query"
)

func compile(t *testing.T, gql string, b query.Bindings) (*query.Plan, *query.FetchOptions) {
	t.Helper()
	pr, err := query.Parse(gql)
	require.NoError(t, err)
	plan, fetch, err := query.Compile(pr, b)
	require.NoError(t, err)
	return plan, fetch
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		bind     query.Bindings
		opts     []Option
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "conditions",
			query:    "SELECT * FROM a WHERE a = 1 AND b <= '3'",
			wantSQL:  `SELECT * FROM "a" WHERE "a" = ? AND "b" <= ?`,
			wantArgs: []any{int64(1), "3"},
		},
		{
			name:     "dollar placeholders",
			query:    "SELECT * FROM a WHERE a = 1 AND b <= '3'",
			opts:     []Option{WithPlaceholder(sq.Dollar)},
			wantSQL:  `SELECT * FROM "a" WHERE "a" = $1 AND "b" <= $2`,
			wantArgs: []any{int64(1), "3"},
		},
		{
			name:     "in list with parameter",
			query:    "SELECT * FROM a WHERE a IN (:abc, 'b', 'c')",
			bind:     query.Named(map[string]any{"abc": "x"}),
			wantSQL:  `SELECT * FROM "a" WHERE "a" IN (?,?,?)`,
			wantArgs: []any{"x", "b", "c"},
		},
		{
			name:     "in list with null",
			query:    "SELECT * FROM a WHERE a IN (NULL, 1, 2)",
			wantSQL:  `SELECT * FROM "a" WHERE ("a" IS NULL OR "a" IN (?,?))`,
			wantArgs: []any{int64(1), int64(2)},
		},
		{
			name:    "in list of only null",
			query:   "SELECT * FROM a WHERE a IN (NULL)",
			wantSQL: `SELECT * FROM "a" WHERE "a" IS NULL`,
		},
		{
			name:     "comparisons",
			query:    "SELECT * FROM a WHERE n > 1 AND n >= 2 AND n < 3 AND s != 'x'",
			wantSQL:  `SELECT * FROM "a" WHERE "n" > ? AND "n" >= ? AND "n" < ? AND "s" <> ?`,
			wantArgs: []any{int64(1), int64(2), int64(3), "x"},
		},
		{
			name:     "ancestor",
			query:    "SELECT * FROM Photo WHERE ANCESTOR IS KEY('Person', 'Amy')",
			wantSQL:  `SELECT * FROM "Photo" WHERE ("__key__" = ? OR substr("__key__", 1, ?) = ?)`,
			wantArgs: []any{`Person:"Amy"`, 13, `Person:"Amy"/`},
		},
		{
			name:     "key and date values",
			query:    "SELECT * FROM Photo WHERE owner = KEY('Person', 7) AND taken >= date(2011, 10, 17)",
			wantSQL:  `SELECT * FROM "Photo" WHERE "owner" = ? AND "taken" >= ?`,
			wantArgs: []any{"Person:7", "2011-11-17T00:00:00.000000000Z"},
		},
		{
			name:    "keys only, sorts and paging",
			query:   "SELECT __key__ FROM Person ORDER BY age DESC, name LIMIT 5 OFFSET 10",
			wantSQL: `SELECT "__key__" FROM "Person" ORDER BY "age" DESC, "name" ASC LIMIT 5 OFFSET 10`,
		},
		{
			name:    "offset without limit",
			query:   "SELECT * FROM Person OFFSET 3",
			wantSQL: `SELECT * FROM "Person" LIMIT 9223372036854775807 OFFSET 3`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, fetch := compile(t, tt.query, tt.bind)
			sql, args, err := Translate(plan, fetch, tt.opts...)
			require.NoError(t, err)
			require.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				require.Empty(t, args)
			} else {
				require.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestTranslateNull(t *testing.T) {
	plan, fetch := compile(t, "SELECT * FROM a WHERE a = NULL AND b != NULL", query.Bindings{})
	sql, args, err := Translate(plan, fetch)
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM "a" WHERE "a" IS NULL AND "b" IS NOT NULL`, sql)
	require.Empty(t, args)
}

func TestTranslateRequiresKind(t *testing.T) {
	plan, fetch := compile(t, "SELECT * WHERE ANCESTOR IS KEY('Person', 'Amy')", query.Bindings{})
	_, _, err := Translate(plan, fetch)
	require.ErrorIs(t, err, ErrKindRequired)

	_, _, err = Translate(nil, nil)
	require.ErrorIs(t, err, ErrKindRequired)
}

func TestPlaceholderFormat(t *testing.T) {
	f, err := PlaceholderFormat("dollar")
	require.NoError(t, err)
	require.Equal(t, sq.Dollar, f)

	f, err = PlaceholderFormat("")
	require.NoError(t, err)
	require.Equal(t, sq.Question, f)

	_, err = PlaceholderFormat("colon")
	require.Error(t, err)
}

func TestQuoteIdent(t *testing.T) {
	require.Equal(t, `"name"`, QuoteIdent("name"))
	require.Equal(t, `"a""b"`, QuoteIdent(`a"b`))
}
