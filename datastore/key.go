package datastore

import (
	"fmt"
	"strconv"
	"strings"
)

// Key identifies an entity by its kind and identifier, scoped by an optional
// parent key.
type Key struct {
	Kind      string
	ID        int64  // Numeric identifier (0 when the key has a name)
	Name      string // String identifier (empty when the key has an ID)
	Parent    *Key
	AppID     string
	Namespace string
}

// KeyPair is one (kind, identifier) step of a key path. IDOrName holds a
// string name or an integer ID.
type KeyPair struct {
	Kind     string
	IDOrName any
}

// NewKey builds a key from root-to-leaf pairs. The last pair is the leaf.
func NewKey(pairs []KeyPair) (*Key, error) {
	if len(pairs) == 0 {
		return nil, &InvalidKeyError{Reason: "key path is empty"}
	}

	var key *Key
	for i, pair := range pairs {
		if pair.Kind == "" {
			return nil, &InvalidKeyError{Reason: fmt.Sprintf("element %d: kind is empty", i+1)}
		}

		next := &Key{Kind: pair.Kind, Parent: key}
		switch v := pair.IDOrName.(type) {
		case string:
			if v == "" {
				return nil, &InvalidKeyError{Reason: fmt.Sprintf("element %d: name is empty", i+1)}
			}
			next.Name = v
		default:
			id, ok := Int64(v)
			if !ok {
				return nil, &InvalidKeyError{Reason: fmt.Sprintf("element %d: identifier must be a string or integer, got %T", i+1, v)}
			}
			if id <= 0 {
				return nil, &InvalidKeyError{Reason: fmt.Sprintf("element %d: id must be positive, got %d", i+1, id)}
			}
			next.ID = id
		}
		key = next
	}

	return key, nil
}

// Pairs returns the key path from root to leaf.
func (k *Key) Pairs() []KeyPair {
	if k == nil {
		return nil
	}
	pairs := k.Parent.Pairs()
	var idOrName any = k.Name
	if k.Name == "" {
		idOrName = k.ID
	}
	return append(pairs, KeyPair{Kind: k.Kind, IDOrName: idOrName})
}

// Depth returns the number of elements in the key path.
func (k *Key) Depth() int {
	depth := 0
	for cur := k; cur != nil; cur = cur.Parent {
		depth++
	}
	return depth
}

// Root returns the top-most ancestor of k (k itself when it has no parent).
func (k *Key) Root() *Key {
	if k == nil {
		return nil
	}
	cur := k
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// Incomplete reports whether the leaf has neither an ID nor a name.
func (k *Key) Incomplete() bool {
	return k.ID == 0 && k.Name == ""
}

// Equal reports whether two keys have the same path, app and namespace.
func (k *Key) Equal(other *Key) bool {
	if k == nil || other == nil {
		return k == other
	}
	if k.Kind != other.Kind || k.ID != other.ID || k.Name != other.Name ||
		k.AppID != other.AppID || k.Namespace != other.Namespace {
		return false
	}
	return k.Parent.Equal(other.Parent)
}

// HasAncestor reports whether ancestor is k itself or one of its parents.
// Ancestor queries include the ancestor entity, so k is its own ancestor.
func (k *Key) HasAncestor(ancestor *Key) bool {
	if ancestor == nil {
		return false
	}
	for cur := k; cur != nil; cur = cur.Parent {
		if cur.Equal(ancestor) {
			return true
		}
	}
	return false
}

// Path renders the key as a slash-separated path such as
// Person:"Amy"/Photo:100. A key's path is a prefix of the paths of all of
// its descendants.
func (k *Key) Path() string {
	if k == nil {
		return ""
	}

	var b strings.Builder
	if k.Parent != nil {
		b.WriteString(k.Parent.Path())
		b.WriteByte('/')
	}
	b.WriteString(k.Kind)
	b.WriteByte(':')
	if k.Name != "" {
		b.WriteString(strconv.Quote(k.Name))
	} else {
		b.WriteString(strconv.FormatInt(k.ID, 10))
	}
	return b.String()
}

// String implements fmt.Stringer.
func (k *Key) String() string {
	return k.Path()
}
