package memstore

import (
	"github.com/hashicorp/go-memdb"
	"github.com/rs/zerolog"

	"github.com/vegasq/gql/datastore"
)

const (
	tableEntity = "entity"
	indexID     = "id"
	indexKind   = "kind"
)

// record is the stored form of an entity. path is the key path, which is
// a prefix of the paths of all descendants.
type record struct {
	path   string
	kind   string
	entity *datastore.Entity
}

func (r record) MarshalZerologObject(e *zerolog.Event) {
	e.Str("kind", r.kind).Str("key", r.path)
}

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableEntity: {
			Name: tableEntity,
			Indexes: map[string]*memdb.IndexSchema{
				indexID: {
					Name:    indexID,
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "path"},
				},
				indexKind: {
					Name:    indexKind,
					Unique:  false,
					Indexer: &memdb.StringFieldIndex{Field: "kind"},
				},
			},
		},
	},
}
