package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dansiegel/nuke/internal/options"
)

var nameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

var placeholderRe = regexp.MustCompile(`\{[^{}]*\}`)

// Validate checks the config for errors and sets defaults.
func Validate(cfg *Config) error {
	if len(cfg.Tools) == 0 {
		return fmt.Errorf("config: at least one tool is required")
	}

	formatters, err := cfg.FormatterRegistry()
	if err != nil {
		return err
	}
	known := make(map[string]bool)
	for _, name := range formatters.Names() {
		known[name] = true
	}

	seenTools := make(map[string]bool)
	for i := range cfg.Tools {
		t := &cfg.Tools[i]
		if t.Name == "" {
			return fmt.Errorf("config: tool %d: 'name' is required", i+1)
		}
		if !nameRe.MatchString(t.Name) {
			return fmt.Errorf("config: tool %q: name must match %s", t.Name, nameRe)
		}
		if seenTools[t.Name] {
			return fmt.Errorf("config: duplicate tool name %q", t.Name)
		}
		seenTools[t.Name] = true
		if t.Executable == "" {
			t.Executable = t.Name
		}
		if len(t.Commands) == 0 {
			return fmt.Errorf("config: tool %q: at least one command is required", t.Name)
		}

		seenSchemas := make(map[string]bool)
		for _, def := range t.Schemas {
			if def.Name == "" {
				return fmt.Errorf("config: tool %q: schema 'name' is required", t.Name)
			}
			if seenSchemas[def.Name] {
				return fmt.Errorf("config: tool %q: duplicate schema %q", t.Name, def.Name)
			}
			seenSchemas[def.Name] = true
			if err := validateOptions(t.Name, "schema "+def.Name, def.Options, known); err != nil {
				return err
			}
		}

		seenCommands := make(map[string]bool)
		for j := range t.Commands {
			c := &t.Commands[j]
			if c.Name == "" {
				return fmt.Errorf("config: tool %q: command %d: 'name' is required", t.Name, j+1)
			}
			if seenCommands[c.Name] {
				return fmt.Errorf("config: tool %q: duplicate command %q", t.Name, c.Name)
			}
			seenCommands[c.Name] = true
			if c.Timeout < 0 {
				return fmt.Errorf("config: tool %q: command %q: timeout must be >= 0", t.Name, c.Name)
			}
			if err := validateOptions(t.Name, "command "+c.Name, c.Options, known); err != nil {
				return err
			}

			schema, err := newSchemaBuilder(t).build(t.Name+" "+c.Name, c.Options)
			if err != nil {
				return err
			}
			schema.Seal()
			for k := range c.Presets {
				if err := validatePreset(t.Name, c.Name, &c.Presets[k], schema); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func validateOptions(tool, owner string, opts []Option, formatters map[string]bool) error {
	seen := make(map[string]bool)
	for i, o := range opts {
		if o.Name == "" {
			return fmt.Errorf("config: tool %q: %s: option %d: 'name' is required", tool, owner, i+1)
		}
		if seen[o.Name] {
			return fmt.Errorf("config: tool %q: %s: duplicate option %q", tool, owner, o.Name)
		}
		seen[o.Name] = true
		if o.Kind == "" {
			return fmt.Errorf("config: tool %q: %s: option %q: 'kind' is required", tool, owner, o.Name)
		}
		if _, err := options.ParseKind(o.Kind); err != nil {
			return fmt.Errorf("config: tool %q: %s: option %q: %w", tool, owner, o.Name, err)
		}
		for _, f := range []string{o.Format, o.AltFormat, o.EmptyFormat} {
			for _, p := range placeholderRe.FindAllString(f, -1) {
				if p != "{key}" && p != "{value}" {
					return fmt.Errorf("config: tool %q: %s: option %q: unknown placeholder %s (must be {key} or {value})", tool, owner, o.Name, p)
				}
			}
		}
		if o.Formatter != "" && !formatters[o.Formatter] {
			return fmt.Errorf("config: tool %q: %s: option %q: unknown formatter %q", tool, owner, o.Name, o.Formatter)
		}
		if strings.HasPrefix(o.Kind, "nested") && o.Schema == "" {
			return fmt.Errorf("config: tool %q: %s: option %q: nested options require 'schema'", tool, owner, o.Name)
		}
	}
	return nil
}

func validatePreset(tool, command string, p *Preset, schema *options.Schema) error {
	if strings.TrimSpace(p.When) != "" {
		if _, err := compileCondition(p.When); err != nil {
			return fmt.Errorf("config: tool %q: command %q: preset condition %q: %w", tool, command, p.When, err)
		}
	}
	for name := range p.Add {
		opt, err := schema.Lookup(name)
		if err != nil {
			return fmt.Errorf("config: tool %q: command %q: preset: %w", tool, command, err)
		}
		if opt.Kind != options.KindList {
			return fmt.Errorf("config: tool %q: command %q: preset add: %s is a %s option", tool, command, name, opt.Kind)
		}
	}
	ops, err := p.Ops(schema)
	if err != nil {
		return fmt.Errorf("config: tool %q: command %q: %w", tool, command, err)
	}
	if _, err := options.Apply(options.New(schema), ops...); err != nil {
		return fmt.Errorf("config: tool %q: command %q: preset: %w", tool, command, err)
	}
	return nil
}
