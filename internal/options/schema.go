package options

import (
	"fmt"
	"strings"

	"github.com/tidwall/btree"
)

// Option is the schema-level rendering contract of one option identity.
type Option struct {
	Name string
	Kind Kind

	// Format is the template rendered per token group. It is split on
	// whitespace into tokens and {key}/{value} are substituted per token.
	Format string
	// AltFormat replaces Format when a scalar value is boolean true.
	AltFormat string
	// EmptyFormat is emitted for a present but empty collection.
	EmptyFormat string

	// Position orders positional arguments: non-negative positions render
	// before unpositioned options, negative ones after (-1 is last).
	Position *int

	Secret    bool
	Separator string
	// Formatter names a formatter in the compiler's registry.
	Formatter string
	// Container groups options that render together at one slot.
	Container string

	// Schema describes the stores held by nested and nested-list options.
	Schema *Schema

	Description string
}

// At returns a position for Option.Position.
func At(pos int) *int {
	return &pos
}

func (o Option) clone() Option {
	if o.Position != nil {
		o.Position = At(*o.Position)
	}
	return o
}

func (o Option) validate() error {
	if o.Name == "" || strings.ContainsAny(o.Name, " \t\n") {
		return fmt.Errorf("%w: name %q must be non-empty and contain no whitespace", ErrInvalidOption, o.Name)
	}
	if o.Kind <= KindAbsent || o.Kind > KindNestedList {
		return fmt.Errorf("%w: %s: unknown kind %s", ErrInvalidOption, o.Name, o.Kind)
	}
	nested := o.Kind == KindNested || o.Kind == KindNestedList
	if nested && o.Schema == nil {
		return fmt.Errorf("%w: %s: %s option requires a schema", ErrInvalidOption, o.Name, o.Kind)
	}
	if !nested && o.Schema != nil {
		return fmt.Errorf("%w: %s: only nested options take a schema", ErrInvalidOption, o.Name)
	}
	if nested && hasPlaceholder(o.Format) {
		return fmt.Errorf("%w: %s: nested formats cannot use placeholders", ErrInvalidOption, o.Name)
	}
	if hasPlaceholder(o.EmptyFormat) {
		return fmt.Errorf("%w: %s: empty-format cannot use placeholders", ErrInvalidOption, o.Name)
	}
	if o.Kind != KindMap && o.Kind != KindMultiMap {
		if strings.Contains(o.Format, keyPlaceholder) || strings.Contains(o.AltFormat, keyPlaceholder) {
			return fmt.Errorf("%w: %s: {key} is only valid on map and multimap options", ErrInvalidOption, o.Name)
		}
	}
	if o.AltFormat != "" && o.Kind != KindScalar {
		return fmt.Errorf("%w: %s: alt-format is only valid on scalar options", ErrInvalidOption, o.Name)
	}
	if o.Separator != "" && o.Kind != KindList && o.Kind != KindMultiMap {
		return fmt.Errorf("%w: %s: separator is only valid on list and multimap options", ErrInvalidOption, o.Name)
	}
	return nil
}

// Schema is the option metadata registry of one option type. Options are
// declared once, then the schema is sealed and becomes read-only, so a sealed
// schema may be shared freely between goroutines.
type Schema struct {
	name    string
	options map[string]Option
	decl    []string
	order   []string
	sealed  bool
}

// NewSchema creates an empty, unsealed schema.
func NewSchema(name string) *Schema {
	return &Schema{
		name:    name,
		options: make(map[string]Option),
	}
}

func (s *Schema) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Declare registers an option. Declaration order is significant for
// rendering.
func (s *Schema) Declare(opt Option) error {
	if s.sealed {
		return fmt.Errorf("%w: cannot declare %q in %q", ErrSealed, opt.Name, s.name)
	}
	if err := opt.validate(); err != nil {
		return err
	}
	if _, ok := s.options[opt.Name]; ok {
		return fmt.Errorf("%w: %q in schema %q", ErrDuplicateOption, opt.Name, s.name)
	}
	s.options[opt.Name] = opt.clone()
	s.decl = append(s.decl, opt.Name)
	return nil
}

// MustDeclare declares opts and panics on the first error. It is meant for
// schemas declared in Go source at package init.
func (s *Schema) MustDeclare(opts ...Option) *Schema {
	for _, opt := range opts {
		if err := s.Declare(opt); err != nil {
			panic(err)
		}
	}
	return s
}

// Seal freezes the schema and every nested schema it references, and
// resolves the render order. Sealing twice is a no-op.
func (s *Schema) Seal() *Schema {
	if s.sealed {
		return s
	}
	s.sealed = true
	s.order = s.resolveOrder()
	for _, name := range s.decl {
		if nested := s.options[name].Schema; nested != nil {
			nested.Seal()
		}
	}
	return s
}

func (s *Schema) Sealed() bool { return s.sealed }

// Lookup returns the metadata for an option identity.
func (s *Schema) Lookup(name string) (Option, error) {
	if s == nil {
		return Option{}, &UnknownOptionError{Option: name}
	}
	opt, ok := s.options[name]
	if !ok {
		return Option{}, &UnknownOptionError{Schema: s.name, Option: name}
	}
	return opt.clone(), nil
}

// Options returns all options in declaration order.
func (s *Schema) Options() []Option {
	out := make([]Option, 0, len(s.decl))
	for _, name := range s.decl {
		out = append(out, s.options[name].clone())
	}
	return out
}

// Ordered returns all options in render order. The schema is sealed first.
func (s *Schema) Ordered() []Option {
	s.Seal()
	out := make([]Option, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.options[name].clone())
	}
	return out
}

func (s *Schema) Len() int { return len(s.decl) }

type orderKey struct {
	band int
	pos  int
	decl int
	name string
}

func orderLess(a, b orderKey) bool {
	if a.band != b.band {
		return a.band < b.band
	}
	if a.pos != b.pos {
		return a.pos < b.pos
	}
	return a.decl < b.decl
}

// resolveOrder sorts options into three bands: non-negative positions,
// unpositioned options in declaration order, then negative positions. Members
// of a container are pulled forward to the slot of the first member reached.
func (s *Schema) resolveOrder() []string {
	tr := btree.NewBTreeG[orderKey](orderLess)
	for i, name := range s.decl {
		k := orderKey{band: 1, decl: i, name: name}
		if p := s.options[name].Position; p != nil {
			k.pos = *p
			if *p >= 0 {
				k.band = 0
			} else {
				k.band = 2
			}
		}
		tr.Set(k)
	}

	order := make([]string, 0, len(s.decl))
	emitted := make(map[string]bool, len(s.decl))
	tr.Scan(func(k orderKey) bool {
		if emitted[k.name] {
			return true
		}
		container := s.options[k.name].Container
		if container == "" {
			order = append(order, k.name)
			emitted[k.name] = true
			return true
		}
		for _, name := range s.decl {
			if s.options[name].Container == container && !emitted[name] {
				order = append(order, name)
				emitted[name] = true
			}
		}
		return true
	})
	return order
}
