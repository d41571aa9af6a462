package datastore

// KeyProperty is the pseudo-property name that refers to an entity's key.
const KeyProperty = "__key__"

// Entity is a keyed record of named property values.
type Entity struct {
	Key        *Key
	Properties map[string]any
}

// Property returns the named property. KeyProperty resolves to the key.
func (e *Entity) Property(name string) (any, bool) {
	if name == KeyProperty {
		return e.Key, e.Key != nil
	}
	v, ok := e.Properties[name]
	return v, ok
}

// Row flattens the entity into a map for output formatters. The key is
// rendered as its path under KeyProperty.
func (e *Entity) Row() map[string]any {
	row := make(map[string]any, len(e.Properties)+1)
	for name, v := range e.Properties {
		if k, ok := v.(*Key); ok {
			v = k.Path()
		}
		row[name] = v
	}
	if e.Key != nil {
		row[KeyProperty] = e.Key.Path()
	}
	return row
}
