// Package query compiles GQL, the datastore query language, into query
// plans.
//
// The language is a small SQL dialect:
//   - SELECT * or SELECT __key__ (keys-only projection)
//   - FROM kind (optional for kind-less ancestor queries)
//   - WHERE conditions combined with AND, using = < <= > >= != and IN
//   - ANCESTOR IS key(...) restricting results to a key's descendants
//   - ORDER BY property [ASC|DESC], ...
//   - LIMIT and OFFSET for pagination
//   - Parameters (:1, :2 or :name) and the built-in functions key, date
//     and datetime
//
// # Basic Usage
//
// Parse once and compile with parameter bindings:
//
//	pr, err := query.Parse("SELECT * FROM Person WHERE age >= :1 ORDER BY age DESC LIMIT 10")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	plan, fetch, err := query.Compile(pr, query.Positional(int64(21)))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// plan holds the kind, the resolved filters and sorts, the ancestor key
// and the projection; fetch holds LIMIT and OFFSET. Neither depends on a
// storage engine. See the memstore and sqlgen packages for two consumers.
//
// Named parameters bind from a map:
//
//	stmt, err := query.Prepare("SELECT * WHERE ANCESTOR IS KEY(:kind, :name)")
//	plan, _, err := stmt.Compile(query.Named(map[string]any{
//	    "kind": "Person",
//	    "name": "Amy",
//	}))
//
// # Values
//
// Every value in a query is an Evaluator. Literals evaluate to themselves
// (strings unquoted, integers as int64, decimals as float64, booleans and
// nil), parameters evaluate to their bound value, and function calls to
// a *datastore.Key or a time.Time. The month argument of date and
// datetime is zero-based:
//
//	date(2011, 10, 17)                  // 2011-11-17
//	date('2011-11-17')                  // 2011-11-17
//	datetime(2011, 10, 17, 22, 10, 10)  // 2011-11-17 22:10:10
//
// # Concurrency
//
// A ParseResult is never modified after Parse returns. Compile allocates
// a new plan on every call, so one ParseResult can be compiled from many
// goroutines at once.
package query
