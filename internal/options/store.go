package options

// Store is an immutable set of option values for one schema. Every method that
// changes a value returns a new Store; the receiver is never modified, so a
// Store may be passed around and read concurrently without locking.
//
// On error, mutation methods return the receiver unchanged alongside the
// error.
type Store struct {
	schema *Schema
	slots  map[string]Value
}

// New returns an empty store for schema. The schema is sealed.
func New(schema *Schema) Store {
	if schema != nil {
		schema.Seal()
	}
	return Store{schema: schema}
}

func (s Store) Schema() *Schema { return s.schema }

// Get returns the value of an option, or an absent value when unset or
// unknown.
func (s Store) Get(name string) Value {
	return s.slots[name]
}

// Has reports whether the option holds a value, including an empty
// collection.
func (s Store) Has(name string) bool {
	return !s.slots[name].IsAbsent()
}

// IsEmpty reports whether no option holds a value.
func (s Store) IsEmpty() bool {
	return len(s.slots) == 0
}

// Names returns the options holding a value, in render order.
func (s Store) Names() []string {
	if s.schema == nil {
		return nil
	}
	var names []string
	for _, opt := range s.schema.Ordered() {
		if s.Has(opt.Name) {
			names = append(names, opt.Name)
		}
	}
	return names
}

// With returns a copy of the store with one slot replaced. Passing an absent
// value unsets the option. Other slots are shared with the receiver, which is
// safe because values never change after construction.
func (s Store) With(name string, v Value) (Store, error) {
	opt, err := s.schema.Lookup(name)
	if err != nil {
		return s, err
	}
	if !v.IsAbsent() {
		if v.kind != opt.Kind {
			return s, &KindMismatchError{Option: name, Declared: opt.Kind, Requested: v.kind}
		}
		for _, nested := range v.stores {
			if nested.schema != opt.Schema {
				return s, &SchemaMismatchError{Option: name, Want: opt.Schema.Name(), Got: nested.schema.Name()}
			}
		}
	}
	return s.put(name, v), nil
}

func (s Store) put(name string, v Value) Store {
	slots := make(map[string]Value, len(s.slots)+1)
	for k, existing := range s.slots {
		slots[k] = existing
	}
	if v.IsAbsent() {
		delete(slots, name)
	} else {
		slots[name] = v
	}
	return Store{schema: s.schema, slots: slots}
}

// Equal reports whether both stores share a schema and hold structurally
// equal values.
func (s Store) Equal(o Store) bool {
	if s.schema != o.schema || len(s.slots) != len(o.slots) {
		return false
	}
	for name, v := range s.slots {
		ov, ok := o.slots[name]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Scalar returns a copy of a scalar option's value.
func (s Store) Scalar(name string) (any, bool) {
	v := s.slots[name]
	if v.kind != KindScalar {
		return nil, false
	}
	return v.Scalar(), true
}

// List returns a copy of a list option's items.
func (s Store) List(name string) ([]any, bool) {
	v := s.slots[name]
	if v.kind != KindList {
		return nil, false
	}
	return v.Items(), true
}

// Map returns a copy of a map option's entries.
func (s Store) Map(name string) ([]Entry, bool) {
	v := s.slots[name]
	if v.kind != KindMap {
		return nil, false
	}
	return v.Entries(), true
}

// MultiMap returns a copy of a multi-map option's groups.
func (s Store) MultiMap(name string) ([]Group, bool) {
	v := s.slots[name]
	if v.kind != KindMultiMap {
		return nil, false
	}
	return v.Groups(), true
}

// Nested returns the store held by a nested option.
func (s Store) Nested(name string) (Store, bool) {
	return s.slots[name].Nested()
}

// NestedList returns the stores held by a nested-list option.
func (s Store) NestedList(name string) ([]Store, bool) {
	v := s.slots[name]
	if v.kind != KindNestedList {
		return nil, false
	}
	return v.NestedList(), true
}

// ScalarAs returns a scalar option's value converted to T.
func ScalarAs[T any](s Store, name string) (T, bool) {
	var zero T
	v, ok := s.Scalar(name)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// ListAs returns a list option's items converted to T. Items of another type
// make it report false.
func ListAs[T any](s Store, name string) ([]T, bool) {
	items, ok := s.List(name)
	if !ok {
		return nil, false
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		t, ok := it.(T)
		if !ok {
			return nil, false
		}
		out = append(out, t)
	}
	return out, true
}

// Items converts a typed slice for the variadic list mutators.
func Items[T any](xs []T) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
