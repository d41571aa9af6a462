package query

// Bindings holds the parameter values for one compilation: either an
// ordered list consumed by :1, :2, ... or a map consumed by :name.
// The zero value binds nothing.
type Bindings struct {
	positional []any
	named      map[string]any
	isNamed    bool
}

// Positional binds values to :1, :2, ... in order.
func Positional(values ...any) Bindings {
	return Bindings{positional: values}
}

// Named binds values to :name markers.
func Named(values map[string]any) Bindings {
	return Bindings{named: values, isNamed: true}
}

// IsNamed reports whether b binds parameters by name.
func (b Bindings) IsNamed() bool {
	return b.isNamed
}

// Len returns the number of bound values.
func (b Bindings) Len() int {
	if b.isNamed {
		return len(b.named)
	}
	return len(b.positional)
}

// Lookup resolves a parameter. A named parameter never resolves against
// positional bindings and vice versa.
func (b Bindings) Lookup(p ParamEvaluator) (any, error) {
	if p.IsNamed() {
		if !b.isNamed {
			return nil, &UnboundParameterError{Name: p.Name}
		}
		v, ok := b.named[p.Name]
		if !ok {
			return nil, &UnboundParameterError{Name: p.Name}
		}
		return v, nil
	}

	if b.isNamed || p.Index < 1 || p.Index > len(b.positional) {
		return nil, &UnboundParameterError{Index: p.Index}
	}
	return b.positional[p.Index-1], nil
}
