package options

import (
	"fmt"
	"reflect"
)

// Kind identifies which container shape a Value holds.
type Kind int

const (
	KindAbsent Kind = iota
	KindScalar
	KindList
	KindMap
	KindMultiMap
	KindNested
	KindNestedList
)

var kindNames = map[Kind]string{
	KindAbsent:     "absent",
	KindScalar:     "scalar",
	KindList:       "list",
	KindMap:        "map",
	KindMultiMap:   "multimap",
	KindNested:     "nested",
	KindNestedList: "nested-list",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a kind name ("scalar", "list", "map", "multimap", "nested",
// "nested-list") to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name && k != KindAbsent {
			return k, nil
		}
	}
	return KindAbsent, fmt.Errorf("options: unknown kind %q (must be scalar, list, map, multimap, nested, or nested-list)", name)
}

// Entry is one key/value pair of a map value.
type Entry struct {
	Key   string
	Value any
}

// Group is one key of a multi-map value together with its ordered values.
type Group struct {
	Key    string
	Values []any
}

// Value is a tagged option value. The zero Value is absent.
//
// A Value never changes after construction: constructors copy their inputs,
// accessors return copies, and every mutation builds fresh backing slices.
// That is what lets stores share unrelated slots without aliasing.
type Value struct {
	kind    Kind
	scalar  any
	items   []any
	entries []Entry
	groups  []Group
	stores  []Store
}

// Absent returns the value of an unset option.
func Absent() Value {
	return Value{}
}

// ScalarValue wraps a single primitive or string value. A nil scalar is no
// value at all, so ScalarValue(nil) is Absent.
func ScalarValue(v any) Value {
	if v == nil {
		return Absent()
	}
	return Value{kind: KindScalar, scalar: cloneAny(v)}
}

// ListValue builds an ordered list. A call with no items yields a present but
// empty list.
func ListValue(items ...any) Value {
	return Value{kind: KindList, items: cloneItems(items)}
}

// MapValue builds a map that renders in insertion order. A repeated key
// overwrites the earlier value but keeps its position.
func MapValue(entries ...Entry) Value {
	v := Value{kind: KindMap, entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		v.entries = upsertEntry(v.entries, e.Key, cloneAny(e.Value))
	}
	return v
}

// MultiMapValue builds a key to ordered-values map. Repeated keys are merged
// by appending their values.
func MultiMapValue(groups ...Group) Value {
	v := Value{kind: KindMultiMap, groups: make([]Group, 0, len(groups))}
	for _, g := range groups {
		v.groups = appendGroup(v.groups, g.Key, cloneItems(g.Values))
	}
	return v
}

// NestedValue embeds a single option store.
func NestedValue(s Store) Value {
	return Value{kind: KindNested, stores: []Store{s}}
}

// NestedListValue builds an ordered list of option stores.
func NestedListValue(stores ...Store) Value {
	return Value{kind: KindNestedList, stores: append([]Store{}, stores...)}
}

func emptyOf(kind Kind) Value {
	switch kind {
	case KindList:
		return ListValue()
	case KindMap:
		return MapValue()
	case KindMultiMap:
		return MultiMapValue()
	case KindNestedList:
		return NestedListValue()
	default:
		return Value{kind: kind}
	}
}

func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the value is unset.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Len returns the number of items, entries, keys or stores held by a
// collection value. Scalars and nested values report 1, absent values 0.
func (v Value) Len() int {
	switch v.kind {
	case KindAbsent:
		return 0
	case KindList:
		return len(v.items)
	case KindMap:
		return len(v.entries)
	case KindMultiMap:
		return len(v.groups)
	case KindNestedList:
		return len(v.stores)
	default:
		return 1
	}
}

// Scalar returns a copy of the scalar payload.
func (v Value) Scalar() any {
	if v.kind != KindScalar {
		return nil
	}
	return cloneAny(v.scalar)
}

// Items returns a copy of the list items.
func (v Value) Items() []any {
	if v.kind != KindList {
		return nil
	}
	return cloneItems(v.items)
}

// Entries returns a copy of the map entries in insertion order.
func (v Value) Entries() []Entry {
	if v.kind != KindMap {
		return nil
	}
	out := make([]Entry, len(v.entries))
	for i, e := range v.entries {
		out[i] = Entry{Key: e.Key, Value: cloneAny(e.Value)}
	}
	return out
}

// Lookup returns the map value stored under key.
func (v Value) Lookup(key string) (any, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	if i := entryIndex(v.entries, key); i >= 0 {
		return cloneAny(v.entries[i].Value), true
	}
	return nil, false
}

// Groups returns a copy of the multi-map groups in insertion order.
func (v Value) Groups() []Group {
	if v.kind != KindMultiMap {
		return nil
	}
	out := make([]Group, len(v.groups))
	for i, g := range v.groups {
		out[i] = Group{Key: g.Key, Values: cloneItems(g.Values)}
	}
	return out
}

// ValuesOf returns the values stored for key in a multi-map. The boolean
// distinguishes a missing key from a present key with no values.
func (v Value) ValuesOf(key string) ([]any, bool) {
	if v.kind != KindMultiMap {
		return nil, false
	}
	if i := groupIndex(v.groups, key); i >= 0 {
		return cloneItems(v.groups[i].Values), true
	}
	return nil, false
}

// Nested returns the embedded store of a nested value.
func (v Value) Nested() (Store, bool) {
	if v.kind != KindNested || len(v.stores) == 0 {
		return Store{}, false
	}
	return v.stores[0], true
}

// NestedList returns the stores of a nested-list value.
func (v Value) NestedList() []Store {
	if v.kind != KindNestedList {
		return nil
	}
	return append([]Store{}, v.stores...)
}

// Equal reports structural equality.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindAbsent:
		return true
	case KindScalar:
		return reflect.DeepEqual(v.scalar, o.scalar)
	case KindList:
		return itemsEqual(v.items, o.items)
	case KindMap:
		if len(v.entries) != len(o.entries) {
			return false
		}
		for _, e := range v.entries {
			i := entryIndex(o.entries, e.Key)
			if i < 0 || !reflect.DeepEqual(e.Value, o.entries[i].Value) {
				return false
			}
		}
		return true
	case KindMultiMap:
		if len(v.groups) != len(o.groups) {
			return false
		}
		for _, g := range v.groups {
			i := groupIndex(o.groups, g.Key)
			if i < 0 || !itemsEqual(g.Values, o.groups[i].Values) {
				return false
			}
		}
		return true
	default:
		if len(v.stores) != len(o.stores) {
			return false
		}
		for i := range v.stores {
			if !v.stores[i].Equal(o.stores[i]) {
				return false
			}
		}
		return true
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindAbsent:
		return "<absent>"
	case KindScalar:
		return fmt.Sprint(v.scalar)
	case KindList:
		return fmt.Sprint(v.items)
	case KindMap:
		return fmt.Sprint(v.entries)
	case KindMultiMap:
		return fmt.Sprint(v.groups)
	default:
		return fmt.Sprintf("%s(%d)", v.kind, len(v.stores))
	}
}

// The helpers below never modify their slice arguments; each returns a new
// backing array.

func cloneItems(items []any) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = cloneAny(it)
	}
	return out
}

func itemsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func indexOf(items []any, item any) int {
	for i, it := range items {
		if reflect.DeepEqual(it, item) {
			return i
		}
	}
	return -1
}

func removeAt[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

func entryIndex(entries []Entry, key string) int {
	for i, e := range entries {
		if e.Key == key {
			return i
		}
	}
	return -1
}

func upsertEntry(entries []Entry, key string, value any) []Entry {
	out := append(make([]Entry, 0, len(entries)+1), entries...)
	if i := entryIndex(out, key); i >= 0 {
		out[i] = Entry{Key: key, Value: value}
		return out
	}
	return append(out, Entry{Key: key, Value: value})
}

func groupIndex(groups []Group, key string) int {
	for i, g := range groups {
		if g.Key == key {
			return i
		}
	}
	return -1
}

func appendGroup(groups []Group, key string, values []any) []Group {
	out := append(make([]Group, 0, len(groups)+1), groups...)
	if i := groupIndex(out, key); i >= 0 {
		merged := append(append(make([]any, 0, len(out[i].Values)+len(values)), out[i].Values...), values...)
		out[i] = Group{Key: key, Values: merged}
		return out
	}
	return append(out, Group{Key: key, Values: values})
}

func replaceGroup(groups []Group, key string, values []any) []Group {
	out := append(make([]Group, 0, len(groups)+1), groups...)
	if i := groupIndex(out, key); i >= 0 {
		out[i] = Group{Key: key, Values: values}
		return out
	}
	return append(out, Group{Key: key, Values: values})
}
