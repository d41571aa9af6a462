// Package reader loads entities from Apache Parquet files.
//
// Each file holds the entities of one kind, one row per entity. Rows are
// read as maps and normalized to the value types queries compare against
// (int64, float64, string, bool and time.Time).
//
// # Loading Entities
//
//	entities, err := reader.LoadEntities(ctx, "data/Person.parquet", "Person", "id")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The key column supplies each entity's ID (integer values) or name
// (string values). Glob patterns read several files into one kind; rows
// read that way carry a "_file" property naming their source.
//
// # Property Introspection
//
//	infos, err := reader.ExtractPropertyInfo("data/Person.parquet")
//	for _, info := range infos {
//	    fmt.Printf("%s: %s\n", info.Name, info.Type)
//	}
//
// Nested columns are reported in dot notation, which is also how a query
// names them: SELECT * FROM Person WHERE address.city = 'Oslo'.
//
// Always call Close on a Reader when done to release the file handle.
package reader
