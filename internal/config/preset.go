package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/dansiegel/nuke/internal/options"
)

// Facts are the variables a preset condition can test: os, arch and env.
type Facts struct {
	OS   string
	Arch string
	Env  map[string]string
}

// CurrentFacts describes the running host.
func CurrentFacts() Facts {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		env[k] = v
	}
	return Facts{OS: runtime.GOOS, Arch: runtime.GOARCH, Env: env}
}

func conditionEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("os", cel.StringType),
		cel.Variable("arch", cel.StringType),
		cel.Variable("env", cel.MapType(cel.StringType, cel.StringType)),
	)
}

// compileCondition parses and type-checks a preset condition. Conditions
// must evaluate to a bool.
func compileCondition(expression string) (cel.Program, error) {
	env, err := conditionEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("condition must be a bool, got %s", checked.OutputType())
	}
	return env.Program(checked)
}

// Matches reports whether the preset applies under facts.
func (p *Preset) Matches(facts Facts) (bool, error) {
	if strings.TrimSpace(p.When) == "" {
		return true, nil
	}
	prg, err := compileCondition(p.When)
	if err != nil {
		return false, fmt.Errorf("config: preset %q: %w", p.When, err)
	}
	env := facts.Env
	if env == nil {
		env = map[string]string{}
	}
	out, _, err := prg.Eval(map[string]any{
		"os":   facts.OS,
		"arch": facts.Arch,
		"env":  env,
	})
	if err != nil {
		return false, fmt.Errorf("config: preset %q: %w", p.When, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("config: preset %q: result is %T, not bool", p.When, out.Value())
	}
	return b, nil
}

// Ops translates the preset into store mutations for schema. Keys are
// applied in sorted order so results do not depend on map iteration.
func (p *Preset) Ops(schema *options.Schema) ([]options.Op, error) {
	var ops []options.Op
	for _, name := range sortedKeys(p.Set) {
		op, err := setOp(schema, name, p.Set[name])
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	for _, name := range sortedKeys(p.Add) {
		for _, item := range p.Add[name] {
			ops = append(ops, options.AddItem(name, item))
		}
	}
	for _, name := range sortedKeys(p.Entries) {
		opt, err := schema.Lookup(name)
		if err != nil {
			return nil, err
		}
		entries := p.Entries[name]
		for _, key := range sortedKeys(entries) {
			switch opt.Kind {
			case options.KindMap:
				ops = append(ops, options.SetEntry(name, key, entries[key]))
			case options.KindMultiMap:
				ops = append(ops, options.AddValues(name, key, asList(entries[key])...))
			default:
				return nil, fmt.Errorf("config: preset entries: %s is a %s option", name, opt.Kind)
			}
		}
	}
	return ops, nil
}

func setOp(schema *options.Schema, name string, value any) (options.Op, error) {
	opt, err := schema.Lookup(name)
	if err != nil {
		return nil, err
	}
	switch opt.Kind {
	case options.KindScalar:
		return options.Set(name, value), nil
	case options.KindList:
		return options.SetList(name, asList(value)...), nil
	case options.KindMap:
		m, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("config: preset set: %s needs a mapping", name)
		}
		entries := make([]options.Entry, 0, len(m))
		for _, k := range sortedKeys(m) {
			entries = append(entries, options.Entry{Key: k, Value: m[k]})
		}
		return options.SetMap(name, entries...), nil
	default:
		return nil, fmt.Errorf("config: preset set: %s option %s cannot be set from a preset", opt.Kind, name)
	}
}

func asList(v any) []any {
	if items, ok := v.([]any); ok {
		return items
	}
	return []any{v}
}

// ApplyPresets applies every matching preset of cmd to s, in declaration
// order.
func ApplyPresets(s options.Store, cmd *Command, facts Facts) (options.Store, error) {
	for i := range cmd.Presets {
		p := &cmd.Presets[i]
		ok, err := p.Matches(facts)
		if err != nil {
			return s, err
		}
		if !ok {
			continue
		}
		ops, err := p.Ops(s.Schema())
		if err != nil {
			return s, err
		}
		next, err := options.Apply(s, ops...)
		if err != nil {
			return s, fmt.Errorf("config: preset %q: %w", p.When, err)
		}
		s = next
	}
	return s, nil
}
