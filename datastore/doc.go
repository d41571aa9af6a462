// Package datastore defines the hierarchical keys and entities that compiled
// queries refer to, and the codec used to read encoded key references.
//
// A key is an ancestor-to-leaf chain of (kind, identifier) pairs. The leaf
// carries either a numeric ID or a string name:
//
//	parent, _ := datastore.NewKey([]datastore.KeyPair{{Kind: "Person", IDOrName: "Amy"}})
//	key, _ := datastore.NewKey([]datastore.KeyPair{
//	    {Kind: "Person", IDOrName: "Amy"},
//	    {Kind: "Photo", IDOrName: int64(100)},
//	})
//	key.HasAncestor(parent) // true
//
// Encoded references use the App Engine web-safe base64 Reference format
// and are handled by ReferenceCodec.
package datastore
