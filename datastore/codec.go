package datastore

import (
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/protobuf/encoding/protowire"
)

// KeyCodec turns external key representations into keys.
type KeyCodec interface {
	// Decode parses an opaque encoded key reference.
	Decode(encoded string) (*Key, error)
	// Build creates a key from root-to-leaf pairs.
	Build(pairs []KeyPair) (*Key, error)
}

// Field numbers of the App Engine Reference message.
const (
	referenceAppField       protowire.Number = 13
	referencePathField      protowire.Number = 14
	referenceNamespaceField protowire.Number = 20

	pathElementField protowire.Number = 1

	elementTypeField protowire.Number = 2
	elementIDField   protowire.Number = 3
	elementNameField protowire.Number = 4
)

// ReferenceCodec reads and writes web-safe base64 encoded Reference
// messages, the format App Engine uses for string-encoded keys.
type ReferenceCodec struct{}

var _ KeyCodec = ReferenceCodec{}

// Build implements KeyCodec.
func (ReferenceCodec) Build(pairs []KeyPair) (*Key, error) {
	return NewKey(pairs)
}

// Decode implements KeyCodec.
func (ReferenceCodec) Decode(encoded string) (*Key, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return nil, &InvalidKeyError{Input: encoded, Reason: "not web-safe base64", Err: err}
	}

	var (
		app, namespace string
		pairs          []KeyPair
		sawPath        bool
	)
	b := raw
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, &InvalidKeyError{Input: encoded, Reason: "malformed reference", Err: protowire.ParseError(n)}
		}
		b = b[n:]

		switch {
		case num == referenceAppField && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			app = string(v)
		case num == referenceNamespaceField && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			namespace = string(v)
		case num == referencePathField && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			if n >= 0 {
				pairs, err = decodePath(v)
				if err != nil {
					return nil, &InvalidKeyError{Input: encoded, Reason: "malformed path", Err: err}
				}
				sawPath = true
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, &InvalidKeyError{Input: encoded, Reason: "malformed reference", Err: protowire.ParseError(n)}
		}
		b = b[n:]
	}

	if !sawPath || len(pairs) == 0 {
		return nil, &InvalidKeyError{Input: encoded, Reason: "reference has no path"}
	}

	key, err := NewKey(pairs)
	if err != nil {
		return nil, &InvalidKeyError{Input: encoded, Reason: "invalid path", Err: err}
	}
	for cur := key; cur != nil; cur = cur.Parent {
		cur.AppID = app
		cur.Namespace = namespace
	}
	return key, nil
}

// decodePath reads the repeated Element groups of a Path message
func decodePath(b []byte) ([]KeyPair, error) {
	var pairs []KeyPair
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		if num != pathElementField || typ != protowire.StartGroupType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}

		group, n := protowire.ConsumeGroup(num, b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		pair, err := decodeElement(group)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func decodeElement(b []byte) (KeyPair, error) {
	var (
		pair   KeyPair
		id     int64
		name   string
		hasID  bool
		hasStr bool
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return KeyPair{}, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == elementTypeField && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			pair.Kind = string(v)
		case num == elementIDField && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			id, hasID = int64(v), true
		case num == elementNameField && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			name, hasStr = string(v), true
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return KeyPair{}, protowire.ParseError(n)
		}
		b = b[n:]
	}

	switch {
	case hasStr:
		pair.IDOrName = name
	case hasID:
		pair.IDOrName = id
	default:
		return KeyPair{}, fmt.Errorf("element %q has neither id nor name", pair.Kind)
	}
	return pair, nil
}

// Encode renders a complete key as a web-safe base64 Reference.
func (ReferenceCodec) Encode(key *Key) (string, error) {
	if key == nil {
		return "", &InvalidKeyError{Reason: "key is nil"}
	}

	var path []byte
	for _, pair := range key.Pairs() {
		var el []byte
		el = protowire.AppendTag(el, elementTypeField, protowire.BytesType)
		el = protowire.AppendString(el, pair.Kind)
		switch v := pair.IDOrName.(type) {
		case string:
			if v == "" {
				return "", &InvalidKeyError{Reason: fmt.Sprintf("element %q is incomplete", pair.Kind)}
			}
			el = protowire.AppendTag(el, elementNameField, protowire.BytesType)
			el = protowire.AppendString(el, v)
		case int64:
			if v == 0 {
				return "", &InvalidKeyError{Reason: fmt.Sprintf("element %q is incomplete", pair.Kind)}
			}
			el = protowire.AppendTag(el, elementIDField, protowire.VarintType)
			el = protowire.AppendVarint(el, uint64(v))
		}
		path = protowire.AppendTag(path, pathElementField, protowire.StartGroupType)
		path = append(path, el...)
		path = protowire.AppendTag(path, pathElementField, protowire.EndGroupType)
	}

	var b []byte
	b = protowire.AppendTag(b, referenceAppField, protowire.BytesType)
	b = protowire.AppendString(b, key.AppID)
	b = protowire.AppendTag(b, referencePathField, protowire.BytesType)
	b = protowire.AppendBytes(b, path)
	if key.Namespace != "" {
		b = protowire.AppendTag(b, referenceNamespaceField, protowire.BytesType)
		b = protowire.AppendString(b, key.Namespace)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
