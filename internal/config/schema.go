package config

import (
	"fmt"
	"sort"

	"github.com/dansiegel/nuke/internal/options"
)

// Schema returns the sealed option schema of one command. Repeated calls
// return the same schema, so stores built from it stay compatible.
func (c *Config) Schema(tool, command string) (*options.Schema, error) {
	t, cmd, err := c.Command(tool, command)
	if err != nil {
		return nil, err
	}
	key := t.Name + " " + cmd.Name

	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.built[key]; ok {
		return s, nil
	}
	s, err := newSchemaBuilder(t).build(key, cmd.Options)
	if err != nil {
		return nil, err
	}
	if c.built == nil {
		c.built = make(map[string]*options.Schema)
	}
	c.built[key] = s.Seal()
	return s, nil
}

// schemaBuilder resolves named schemas of one tool. A schema is registered
// before its options are declared, so options may refer back to it.
type schemaBuilder struct {
	tool  *Tool
	named map[string]*options.Schema
}

func newSchemaBuilder(t *Tool) *schemaBuilder {
	return &schemaBuilder{tool: t, named: make(map[string]*options.Schema)}
}

func (b *schemaBuilder) build(name string, opts []Option) (*options.Schema, error) {
	s := options.NewSchema(name)
	if err := b.declare(s, opts); err != nil {
		return nil, err
	}
	return s, nil
}

func (b *schemaBuilder) lookup(name string) (*options.Schema, error) {
	if s, ok := b.named[name]; ok {
		return s, nil
	}
	for _, def := range b.tool.Schemas {
		if def.Name != name {
			continue
		}
		s := options.NewSchema(b.tool.Name + ":" + def.Name)
		b.named[name] = s
		if err := b.declare(s, def.Options); err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("config: tool %q: unknown schema %q", b.tool.Name, name)
}

func (b *schemaBuilder) declare(s *options.Schema, opts []Option) error {
	for _, o := range opts {
		opt, err := b.option(o)
		if err != nil {
			return fmt.Errorf("config: tool %q: %s: %w", b.tool.Name, s.Name(), err)
		}
		if err := s.Declare(opt); err != nil {
			return fmt.Errorf("config: tool %q: %s: %w", b.tool.Name, s.Name(), err)
		}
	}
	return nil
}

func (b *schemaBuilder) option(o Option) (options.Option, error) {
	kind, err := options.ParseKind(o.Kind)
	if err != nil {
		return options.Option{}, fmt.Errorf("option %q: %w", o.Name, err)
	}
	opt := options.Option{
		Name:        o.Name,
		Kind:        kind,
		Format:      o.Format,
		AltFormat:   o.AltFormat,
		EmptyFormat: o.EmptyFormat,
		Position:    o.Position,
		Secret:      o.Secret,
		Separator:   o.Separator,
		Formatter:   o.Formatter,
		Container:   o.Container,
		Description: o.Description,
	}
	if o.Schema != "" {
		nested, err := b.lookup(o.Schema)
		if err != nil {
			return options.Option{}, err
		}
		opt.Schema = nested
	}
	return opt, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
