package options

import (
	"errors"
	"reflect"
	"testing"
)

// testSchema mirrors a typical dotnet-style option set, including a nested
// option that refers back to its own schema.
func testSchema() *Schema {
	s := NewSchema("dotnet")
	s.MustDeclare(
		Option{Name: "integer", Kind: KindScalar, Format: "--integer {value}"},
		Option{Name: "string", Kind: KindScalar, Format: "--string {value}"},
		Option{Name: "secret", Kind: KindScalar, Format: "--secret {value}", Secret: true},
		Option{Name: "flag", Kind: KindScalar, Format: "--flag"},
		Option{Name: "properties", Kind: KindMap, Format: "/p:{key}={value}"},
		Option{Name: "flags", Kind: KindList, Format: "--flags {value}", Separator: ","},
		Option{Name: "sources", Kind: KindList, Format: "--source {value}"},
		Option{Name: "traits", Kind: KindMultiMap, Format: "--trait {key}={value}"},
		Option{Name: "nested", Kind: KindNested, Schema: s},
		Option{Name: "nestedList", Kind: KindNestedList, Schema: s},
	)
	return s
}

func mustApply(t *testing.T, s Store, ops ...Op) Store {
	t.Helper()
	out, err := Apply(s, ops...)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return out
}

func mustCompile(t *testing.T, s Store) []string {
	t.Helper()
	tokens, err := Compile(s)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return tokens
}

func TestNew_AllAbsent(t *testing.T) {
	s := New(testSchema())
	if !s.IsEmpty() {
		t.Fatal("new store should be empty")
	}
	for _, opt := range s.Schema().Options() {
		if !s.Get(opt.Name).IsAbsent() {
			t.Fatalf("%s: got %s, want absent", opt.Name, s.Get(opt.Name))
		}
	}
	if !s.Schema().Sealed() {
		t.Fatal("New should seal the schema")
	}
}

func TestGet_UnknownIsAbsent(t *testing.T) {
	s := New(testSchema())
	if !s.Get("nope").IsAbsent() {
		t.Fatal("unknown option should read as absent")
	}
}

func TestIndependence(t *testing.T) {
	schema := testSchema()
	base := mustApply(t, New(schema),
		Set("integer", 5),
		SetList("sources", "a", "b"),
		SetEntry("properties", "foo", "bar"),
		AddValues("traits", "k", 1, 2),
		AddNested("nestedList", New(schema)),
	)
	want := mustCompile(t, base)

	mutations := []Op{
		Set("integer", 6),
		Reset("integer"),
		AddItem("sources", "c"),
		RemoveItem("sources", "a"),
		ClearList("sources"),
		SetEntry("properties", "foo", "changed"),
		RemoveEntry("properties", "foo"),
		AddValues("traits", "k", 3),
		RemoveValue("traits", "k", 1),
		RemoveKey("traits", "k"),
		ClearMultiMap("traits"),
		ClearNestedList("nestedList"),
	}
	for i, m := range mutations {
		next, err := m(base)
		if err != nil {
			t.Fatalf("mutation %d: %v", i, err)
		}
		if next.Equal(base) {
			t.Fatalf("mutation %d did not change the result", i)
		}
		if got := mustCompile(t, base); !reflect.DeepEqual(got, want) {
			t.Fatalf("mutation %d changed the original: got %q, want %q", i, got, want)
		}
	}
}

func TestSetList_CopiesCallerSlice(t *testing.T) {
	items := []any{"a", "b"}
	s, err := New(testSchema()).SetList("sources", items...)
	if err != nil {
		t.Fatal(err)
	}
	items[0] = "z"
	got, _ := s.List("sources")
	if got[0] != "a" {
		t.Fatalf("got %v, want first item a", got)
	}
	got[1] = "y"
	again, _ := s.List("sources")
	if again[1] != "b" {
		t.Fatalf("accessor result aliased store: %v", again)
	}
}

func TestSet_CopiesPointerValues(t *testing.T) {
	type cfg struct{ Name string }
	v := &cfg{Name: "before"}
	s, err := New(testSchema()).Set("string", v)
	if err != nil {
		t.Fatal(err)
	}
	v.Name = "after"
	got, ok := ScalarAs[*cfg](s, "string")
	if !ok {
		t.Fatal("ScalarAs failed")
	}
	if got.Name != "before" {
		t.Fatalf("got %q, want %q", got.Name, "before")
	}
}

type token struct{ value string }

func (t token) Clone() any { return token{value: t.value + "'"} }

func TestCloneAny_UsesCloner(t *testing.T) {
	got := cloneAny(token{value: "x"})
	if got.(token).value != "x'" {
		t.Fatalf("got %v, want Clone result", got)
	}
}

func TestWith_KindMismatch(t *testing.T) {
	s := New(testSchema())
	_, err := s.With("integer", ListValue(1))
	var kerr *KindMismatchError
	if !errors.As(err, &kerr) {
		t.Fatalf("got %v, want KindMismatchError", err)
	}
	if kerr.Declared != KindScalar || kerr.Requested != KindList {
		t.Fatalf("got %s/%s", kerr.Declared, kerr.Requested)
	}
}

func TestWith_SchemaMismatch(t *testing.T) {
	s := New(testSchema())
	other := New(testSchema())
	_, err := s.SetNested("nested", other)
	var serr *SchemaMismatchError
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want SchemaMismatchError", err)
	}
}

func TestWith_AbsentUnsets(t *testing.T) {
	s := mustApply(t, New(testSchema()), Set("integer", 1))
	s, err := s.With("integer", Absent())
	if err != nil {
		t.Fatal(err)
	}
	if s.Has("integer") {
		t.Fatal("integer should be absent")
	}
}

func TestNames_RenderOrder(t *testing.T) {
	s := mustApply(t, New(testSchema()),
		SetList("sources", "a"),
		Set("integer", 1),
	)
	got := s.Names()
	want := []string{"integer", "sources"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestListAs(t *testing.T) {
	s := mustApply(t, New(testSchema()), SetList("sources", Items([]string{"a", "b"})...))
	got, ok := ListAs[string](s, "sources")
	if !ok || !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("got %q (%v)", got, ok)
	}
	if _, ok := ListAs[int](s, "sources"); ok {
		t.Fatal("ListAs[int] should fail on strings")
	}
}

func TestValue_ValuesOfDistinguishesEmptyKey(t *testing.T) {
	v := MultiMapValue(Group{Key: "a"})
	vals, ok := v.ValuesOf("a")
	if !ok || len(vals) != 0 {
		t.Fatalf("got %v (%v), want present empty", vals, ok)
	}
	if _, ok := v.ValuesOf("b"); ok {
		t.Fatal("missing key reported present")
	}
}

func TestMapValue_RepeatedKeyKeepsPosition(t *testing.T) {
	v := MapValue(Entry{"a", 1}, Entry{"b", 2}, Entry{"a", 3})
	got := v.Entries()
	want := []Entry{{"a", 3}, {"b", 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindScalar, KindList, KindMap, KindMultiMap, KindNested, KindNestedList} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %s, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("absent"); err == nil {
		t.Fatal("absent is not a declarable kind")
	}
}

type node struct {
	Name string
	Next *node
}

func TestCloneAny_CyclicPointer(t *testing.T) {
	n := &node{Name: "loop"}
	n.Next = n
	got := cloneAny(n).(*node)
	if got == n {
		t.Fatal("clone shares the original pointer")
	}
	if got.Next != got {
		t.Fatal("clone lost the cycle")
	}
}

func TestCloneAny_CyclicMap(t *testing.T) {
	m := map[string]any{"name": "loop"}
	m["self"] = m
	got := cloneAny(m).(map[string]any)
	got["name"] = "changed"
	if m["name"] != "loop" {
		t.Fatal("clone shares the original map")
	}
	if inner := got["self"].(map[string]any); inner["name"] != "changed" {
		t.Fatal("clone lost the cycle")
	}
}

func TestSet_CyclicValue(t *testing.T) {
	n := &node{Name: "loop"}
	n.Next = n
	s := mustApply(t, New(testSchema()), Set("string", n))
	got, ok := ScalarAs[*node](s, "string")
	if !ok || got.Next != got || got == n {
		t.Fatalf("got %+v", got)
	}
}

func TestSet_NilIsAbsent(t *testing.T) {
	s := mustApply(t, New(testSchema()), Set("integer", 5), Set("integer", nil))
	if s.Has("integer") {
		t.Fatal("nil scalar should leave the option absent")
	}
	if got := mustCompile(t, s); len(got) != 0 {
		t.Fatalf("got %q, want no tokens", got)
	}
	if !ScalarValue(nil).IsAbsent() {
		t.Fatal("ScalarValue(nil) should be absent")
	}
}
