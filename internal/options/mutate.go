package options

// option resolves name and checks that it was declared with kind.
func (s Store) option(name string, kind Kind) (Option, error) {
	opt, err := s.schema.Lookup(name)
	if err != nil {
		return Option{}, err
	}
	if opt.Kind != kind {
		return Option{}, &KindMismatchError{Option: name, Declared: opt.Kind, Requested: kind}
	}
	return opt, nil
}

// update applies fn to the current value of name, treating an absent value as
// an empty collection of kind.
func (s Store) update(name string, kind Kind, fn func(Value) (Value, error)) (Store, error) {
	if _, err := s.option(name, kind); err != nil {
		return s, err
	}
	cur := s.slots[name]
	if cur.IsAbsent() {
		cur = emptyOf(kind)
	}
	next, err := fn(cur)
	if err != nil {
		return s, err
	}
	return s.put(name, next), nil
}

// remove is update for removals: an absent value stays absent.
func (s Store) remove(name string, kind Kind, fn func(Value) Value) (Store, error) {
	if _, err := s.option(name, kind); err != nil {
		return s, err
	}
	cur := s.slots[name]
	if cur.IsAbsent() {
		return s, nil
	}
	return s.put(name, fn(cur)), nil
}

// Reset unsets an option of any kind.
func (s Store) Reset(name string) (Store, error) {
	if _, err := s.schema.Lookup(name); err != nil {
		return s, err
	}
	return s.put(name, Absent()), nil
}

// Set stores a scalar value. A nil value leaves the option absent.
func (s Store) Set(name string, value any) (Store, error) {
	if _, err := s.option(name, KindScalar); err != nil {
		return s, err
	}
	return s.put(name, ScalarValue(value)), nil
}

// SetList replaces a list. Calling it without items stores an empty list.
func (s Store) SetList(name string, items ...any) (Store, error) {
	if _, err := s.option(name, KindList); err != nil {
		return s, err
	}
	return s.put(name, ListValue(items...)), nil
}

// AddItem appends to a list, creating it when absent.
func (s Store) AddItem(name string, item any) (Store, error) {
	return s.update(name, KindList, func(v Value) (Value, error) {
		items := append(append(make([]any, 0, len(v.items)+1), v.items...), cloneAny(item))
		return Value{kind: KindList, items: items}, nil
	})
}

// RemoveItem removes the first item structurally equal to item.
func (s Store) RemoveItem(name string, item any) (Store, error) {
	return s.remove(name, KindList, func(v Value) Value {
		i := indexOf(v.items, item)
		if i < 0 {
			return v
		}
		return Value{kind: KindList, items: removeAt(v.items, i)}
	})
}

// ClearList stores an empty list.
func (s Store) ClearList(name string) (Store, error) {
	return s.SetList(name)
}

// SetMap replaces a map.
func (s Store) SetMap(name string, entries ...Entry) (Store, error) {
	if _, err := s.option(name, KindMap); err != nil {
		return s, err
	}
	return s.put(name, MapValue(entries...)), nil
}

// SetEntry inserts or overwrites one map entry.
func (s Store) SetEntry(name, key string, value any) (Store, error) {
	return s.update(name, KindMap, func(v Value) (Value, error) {
		return Value{kind: KindMap, entries: upsertEntry(v.entries, key, cloneAny(value))}, nil
	})
}

// AddEntry inserts a map entry and fails with DuplicateKeyError when key is
// already present.
func (s Store) AddEntry(name, key string, value any) (Store, error) {
	return s.update(name, KindMap, func(v Value) (Value, error) {
		if entryIndex(v.entries, key) >= 0 {
			return v, &DuplicateKeyError{Option: name, Key: key}
		}
		return Value{kind: KindMap, entries: upsertEntry(v.entries, key, cloneAny(value))}, nil
	})
}

// RemoveEntry drops a map entry; a missing key is a no-op.
func (s Store) RemoveEntry(name, key string) (Store, error) {
	return s.remove(name, KindMap, func(v Value) Value {
		i := entryIndex(v.entries, key)
		if i < 0 {
			return v
		}
		return Value{kind: KindMap, entries: removeAt(v.entries, i)}
	})
}

// ClearMap stores an empty map.
func (s Store) ClearMap(name string) (Store, error) {
	return s.SetMap(name)
}

// SetMultiMap replaces a multi-map.
func (s Store) SetMultiMap(name string, groups ...Group) (Store, error) {
	if _, err := s.option(name, KindMultiMap); err != nil {
		return s, err
	}
	return s.put(name, MultiMapValue(groups...)), nil
}

// SetValues replaces the values of one key. Without values the key stays
// present with an empty sequence.
func (s Store) SetValues(name, key string, values ...any) (Store, error) {
	return s.update(name, KindMultiMap, func(v Value) (Value, error) {
		return Value{kind: KindMultiMap, groups: replaceGroup(v.groups, key, cloneItems(values))}, nil
	})
}

// AddValues appends values to a key, creating the key when needed.
func (s Store) AddValues(name, key string, values ...any) (Store, error) {
	return s.update(name, KindMultiMap, func(v Value) (Value, error) {
		return Value{kind: KindMultiMap, groups: appendGroup(v.groups, key, cloneItems(values))}, nil
	})
}

// RemoveValue drops the first occurrence of value from a key's sequence. The
// key stays present even when its sequence becomes empty.
func (s Store) RemoveValue(name, key string, value any) (Store, error) {
	return s.remove(name, KindMultiMap, func(v Value) Value {
		gi := groupIndex(v.groups, key)
		if gi < 0 {
			return v
		}
		i := indexOf(v.groups[gi].Values, value)
		if i < 0 {
			return v
		}
		return Value{kind: KindMultiMap, groups: replaceGroup(v.groups, key, removeAt(v.groups[gi].Values, i))}
	})
}

// RemoveKey drops a key and all of its values.
func (s Store) RemoveKey(name, key string) (Store, error) {
	return s.remove(name, KindMultiMap, func(v Value) Value {
		i := groupIndex(v.groups, key)
		if i < 0 {
			return v
		}
		return Value{kind: KindMultiMap, groups: removeAt(v.groups, i)}
	})
}

// ClearMultiMap stores an empty multi-map.
func (s Store) ClearMultiMap(name string) (Store, error) {
	return s.SetMultiMap(name)
}

// SetNested embeds a store.
func (s Store) SetNested(name string, nested Store) (Store, error) {
	return s.With(name, NestedValue(nested))
}

// SetNestedList replaces a nested list.
func (s Store) SetNestedList(name string, stores ...Store) (Store, error) {
	return s.With(name, NestedListValue(stores...))
}

// AddNested appends a store to a nested list, creating it when absent.
func (s Store) AddNested(name string, nested Store) (Store, error) {
	opt, err := s.option(name, KindNestedList)
	if err != nil {
		return s, err
	}
	if nested.schema != opt.Schema {
		return s, &SchemaMismatchError{Option: name, Want: opt.Schema.Name(), Got: nested.schema.Name()}
	}
	return s.update(name, KindNestedList, func(v Value) (Value, error) {
		stores := append(append(make([]Store, 0, len(v.stores)+1), v.stores...), nested)
		return Value{kind: KindNestedList, stores: stores}, nil
	})
}

// RemoveNested removes the first store equal to nested.
func (s Store) RemoveNested(name string, nested Store) (Store, error) {
	return s.remove(name, KindNestedList, func(v Value) Value {
		for i, st := range v.stores {
			if st.Equal(nested) {
				return Value{kind: KindNestedList, stores: removeAt(v.stores, i)}
			}
		}
		return v
	})
}

// ClearNestedList stores an empty nested list.
func (s Store) ClearNestedList(name string) (Store, error) {
	return s.SetNestedList(name)
}
