package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/gql/query"
)

type personRow struct {
	ID   int64  `parquet:"id"`
	Name string `parquet:"name"`
	Age  int64  `parquet:"age"`
	City string `parquet:"city"`
}

type cityRow struct {
	Name    string `parquet:"name"`
	Country string `parquet:"country"`
}

func writeParquet[T any](t *testing.T, path string, rows []T) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	writer := parquet.NewGenericWriter[T](f)
	_, err = writer.Write(rows)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	require.NoError(t, f.Close())
}

// dataDir writes Person.parquet and City.parquet into a temporary
// directory.
func dataDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	writeParquet(t, filepath.Join(dir, "Person.parquet"), []personRow{
		{ID: 1, Name: "Amy", Age: 34, City: "Oslo"},
		{ID: 2, Name: "Bob", Age: 28, City: "Paris"},
		{ID: 3, Name: "Cleo", Age: 41, City: "Oslo"},
	})
	writeParquet(t, filepath.Join(dir, "City.parquet"), []cityRow{
		{Name: "Oslo", Country: "NO"},
		{Name: "Paris", Country: "FR"},
	})
	return dir
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestGolden(t *testing.T) {
	data := dataDir(t)

	tests := []struct {
		name string
		args []string
	}{
		{
			name: "compile_jsonl",
			args: []string{"compile", "SELECT * FROM Person WHERE age >= :1 ORDER BY name DESC LIMIT 5", "--arg", "21", "--format", "jsonl"},
		},
		{
			name: "sql_json",
			args: []string{"sql", "SELECT * FROM Person WHERE age >= :1 AND city = :2 ORDER BY name LIMIT 5", "--arg", "30", "--arg", "'Oslo'"},
		},
		{
			name: "run_csv",
			args: []string{"run", "SELECT * FROM Person WHERE city = 'Oslo' ORDER BY age DESC", "--data", data, "--format", "csv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			newGoldie(t).Assert(t, tt.name, []byte(out))
		})
	}
}

func TestParseCommand(t *testing.T) {
	out, err := execute(t, "parse", "select * from Person where name = 'x' and ancestor is key('A', 1) order by age desc limit 3")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM Person WHERE ANCESTOR IS KEY('A', 1) AND name = 'x' ORDER BY age DESC LIMIT 3\n", out)

	_, err = execute(t, "parse", "SELECT * FROM a WHERE a = 1 OR b = 2")
	require.ErrorIs(t, err, query.ErrParse)
}

func TestCompileCommand(t *testing.T) {
	t.Run("named ancestor", func(t *testing.T) {
		out, err := execute(t, "compile", "SELECT * WHERE ANCESTOR IS KEY(:kind, :name)",
			"--named", "kind='kind_A'", "--named", "name='Peter'", "--format", "jsonl")
		require.NoError(t, err)
		assert.Equal(t, `{"clause":"projection","value":"entities"}`+"\n"+
			`{"clause":"ancestor","value":"kind_A:\"Peter\""}`+"\n", out)
	})

	t.Run("function argument", func(t *testing.T) {
		out, err := execute(t, "compile", "SELECT * FROM a WHERE t = :1",
			"--arg", "datetime('2011-11-17 10:10:10')", "--format", "jsonl")
		require.NoError(t, err)
		assert.Contains(t, out, `"value":"2011-11-17T10:10:10Z"`)
	})

	t.Run("time zone", func(t *testing.T) {
		out, err := execute(t, "compile", "SELECT * FROM a WHERE t = date(2011, 10, 17)",
			"--timezone", "Europe/Oslo", "--format", "jsonl")
		require.NoError(t, err)
		assert.Contains(t, out, `"value":"2011-11-17T00:00:00+01:00"`)
	})

	errorTests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "mixed bindings",
			args:    []string{"compile", "SELECT * FROM a WHERE x = :1", "--arg", "1", "--named", "x=1"},
			wantErr: "--arg and --named cannot be used together",
		},
		{
			name:    "malformed named",
			args:    []string{"compile", "SELECT * FROM a WHERE x = :x", "--named", "x"},
			wantErr: `invalid --named value "x"`,
		},
		{
			name:    "bad literal",
			args:    []string{"compile", "SELECT * FROM a WHERE x = :1", "--arg", "'open"},
			wantErr: "parameter :1",
		},
		{
			name:    "unbound",
			args:    []string{"compile", "SELECT * FROM a WHERE x = :2", "--arg", "1"},
			wantErr: "condition x = :2",
		},
	}

	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := execute(t, "compile", "SELECT * FROM a WHERE x = :2", "--arg", "1")
	require.ErrorIs(t, err, query.ErrUnboundParameter)
}

func TestSQLCommand(t *testing.T) {
	out, err := execute(t, "sql", "SELECT __key__ FROM a OFFSET 3", "--placeholder", "dollar", "--format", "jsonl")
	require.NoError(t, err)
	assert.Equal(t, `{"args":[],"sql":"SELECT \"__key__\" FROM \"a\" LIMIT 9223372036854775807 OFFSET 3"}`+"\n", out)

	_, err = execute(t, "sql", "SELECT *")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a kind")

	_, err = execute(t, "sql", "SELECT * FROM a", "--placeholder", "colon")
	require.Error(t, err)
}

func TestRunCommand(t *testing.T) {
	data := dataDir(t)

	decode := func(t *testing.T, out string) []map[string]any {
		t.Helper()
		var rows []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &rows))
		return rows
	}

	t.Run("keys only with parameter", func(t *testing.T) {
		out, err := execute(t, "run", "SELECT __key__ FROM Person WHERE age > :1 ORDER BY age", "--arg", "30", "--data", data)
		require.NoError(t, err)
		assert.Equal(t, []map[string]any{
			{"__key__": "Person:1"},
			{"__key__": "Person:3"},
		}, decode(t, out))
	})

	t.Run("named keys", func(t *testing.T) {
		out, err := execute(t, "run", "SELECT * FROM City WHERE __key__ = KEY('City', 'Oslo')", "--data", data, "--key-column", "name")
		require.NoError(t, err)
		assert.Equal(t, []map[string]any{
			{"__key__": `City:"Oslo"`, "country": "NO"},
		}, decode(t, out))
	})

	t.Run("kindless loads every file", func(t *testing.T) {
		out, err := execute(t, "run", "SELECT __key__", "--data", data, "--key-column", "")
		require.NoError(t, err)
		assert.Len(t, decode(t, out), 5)
	})

	t.Run("count", func(t *testing.T) {
		out, err := execute(t, "run", "SELECT * FROM Person WHERE city = 'Oslo' LIMIT 1", "--data", data, "--count", "--format", "jsonl")
		require.NoError(t, err)
		assert.Equal(t, "{\"count\":2}\n", out)
	})

	t.Run("paging", func(t *testing.T) {
		out, err := execute(t, "run", "SELECT * FROM Person ORDER BY name LIMIT 1 OFFSET 1", "--data", data)
		require.NoError(t, err)
		rows := decode(t, out)
		require.Len(t, rows, 1)
		assert.Equal(t, "Bob", rows[0]["name"])
	})

	t.Run("missing kind file", func(t *testing.T) {
		_, err := execute(t, "run", "SELECT * FROM Dog", "--data", data)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading kind Dog")
	})

	t.Run("missing key column", func(t *testing.T) {
		_, err := execute(t, "run", "SELECT * FROM City", "--data", data)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `key column "id" is missing`)
	})
}

func TestDescribeCommand(t *testing.T) {
	data := dataDir(t)

	out, err := execute(t, "describe", filepath.Join(data, "Person.parquet"))
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 4)

	types := map[string]any{}
	for _, row := range rows {
		types[row["name"].(string)] = row["type"]
	}
	assert.Equal(t, map[string]any{
		"id":   "INTEGER",
		"name": "STRING",
		"age":  "INTEGER",
		"city": "STRING",
	}, types)

	_, err = execute(t, "describe", filepath.Join(data, "missing.parquet"))
	require.Error(t, err)
}
