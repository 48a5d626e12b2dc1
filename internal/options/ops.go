package options

// Op is one mutation step. Ops make mutation chains read top to bottom:
//
//	s, err := options.Apply(options.New(schema),
//		options.Set("configuration", "Release"),
//		options.SetEntry("properties", "Version", "1.2.3"),
//		options.AddItem("sources", "nuget.org"),
//	)
type Op func(Store) (Store, error)

// Apply runs ops in order and stops at the first error, returning the store
// as it was before the failing op.
func Apply(s Store, ops ...Op) (Store, error) {
	for _, op := range ops {
		if op == nil {
			continue
		}
		next, err := op(s)
		if err != nil {
			return s, err
		}
		s = next
	}
	return s, nil
}

// When applies ops only if cond holds.
func When(cond bool, ops ...Op) Op {
	return func(s Store) (Store, error) {
		if !cond {
			return s, nil
		}
		return Apply(s, ops...)
	}
}

func Set(name string, value any) Op {
	return func(s Store) (Store, error) { return s.Set(name, value) }
}

func Reset(name string) Op {
	return func(s Store) (Store, error) { return s.Reset(name) }
}

func SetList(name string, items ...any) Op {
	return func(s Store) (Store, error) { return s.SetList(name, items...) }
}

func AddItem(name string, item any) Op {
	return func(s Store) (Store, error) { return s.AddItem(name, item) }
}

func RemoveItem(name string, item any) Op {
	return func(s Store) (Store, error) { return s.RemoveItem(name, item) }
}

func ClearList(name string) Op {
	return func(s Store) (Store, error) { return s.ClearList(name) }
}

func SetMap(name string, entries ...Entry) Op {
	return func(s Store) (Store, error) { return s.SetMap(name, entries...) }
}

func SetEntry(name, key string, value any) Op {
	return func(s Store) (Store, error) { return s.SetEntry(name, key, value) }
}

func AddEntry(name, key string, value any) Op {
	return func(s Store) (Store, error) { return s.AddEntry(name, key, value) }
}

func RemoveEntry(name, key string) Op {
	return func(s Store) (Store, error) { return s.RemoveEntry(name, key) }
}

func ClearMap(name string) Op {
	return func(s Store) (Store, error) { return s.ClearMap(name) }
}

func SetMultiMap(name string, groups ...Group) Op {
	return func(s Store) (Store, error) { return s.SetMultiMap(name, groups...) }
}

func SetValues(name, key string, values ...any) Op {
	return func(s Store) (Store, error) { return s.SetValues(name, key, values...) }
}

func AddValues(name, key string, values ...any) Op {
	return func(s Store) (Store, error) { return s.AddValues(name, key, values...) }
}

func RemoveValue(name, key string, value any) Op {
	return func(s Store) (Store, error) { return s.RemoveValue(name, key, value) }
}

func RemoveKey(name, key string) Op {
	return func(s Store) (Store, error) { return s.RemoveKey(name, key) }
}

func ClearMultiMap(name string) Op {
	return func(s Store) (Store, error) { return s.ClearMultiMap(name) }
}

func SetNested(name string, nested Store) Op {
	return func(s Store) (Store, error) { return s.SetNested(name, nested) }
}

func SetNestedList(name string, stores ...Store) Op {
	return func(s Store) (Store, error) { return s.SetNestedList(name, stores...) }
}

func AddNested(name string, nested Store) Op {
	return func(s Store) (Store, error) { return s.AddNested(name, nested) }
}

func RemoveNested(name string, nested Store) Op {
	return func(s Store) (Store, error) { return s.RemoveNested(name, nested) }
}

func ClearNestedList(name string) Op {
	return func(s Store) (Store, error) { return s.ClearNestedList(name) }
}
