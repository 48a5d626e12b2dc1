package runner

import (
	"fmt"
	"strings"

	"github.com/dansiegel/nuke/internal/options"
)

// Verbs accepted by Mutation.
const (
	VerbSet         = "set"
	VerbReset       = "reset"
	VerbAdd         = "add"
	VerbRemove      = "remove"
	VerbClear       = "clear"
	VerbEntry       = "entry"
	VerbAddEntry    = "add-entry"
	VerbRemoveEntry = "remove-entry"
	VerbValues      = "values"
	VerbAddValues   = "add-values"
	VerbRemoveValue = "remove-value"
)

// Verbs lists every mutation verb in the order the CLI registers them.
var Verbs = []string{
	VerbSet, VerbReset, VerbAdd, VerbRemove, VerbClear,
	VerbEntry, VerbAddEntry, VerbRemoveEntry,
	VerbValues, VerbAddValues, VerbRemoveValue,
}

// Mutation is one command-line edit of a store, such as
// --set configuration=Release or --entry properties:Version=1.2.
type Mutation struct {
	Verb string
	Arg  string
}

// Op turns m into a store operation for schema.
//
// Arguments have the forms NAME, NAME=VALUE, NAME:KEY and NAME:KEY=VALUE.
// Multi-value verbs split VALUE on commas. The literals true and false
// become booleans so that flag-style options can be switched.
func (m Mutation) Op(schema *options.Schema) (options.Op, error) {
	name, key, value, hasValue := splitArg(m.Arg)
	if name == "" {
		return nil, fmt.Errorf("--%s %q: missing option name", m.Verb, m.Arg)
	}
	opt, err := schema.Lookup(name)
	if err != nil {
		return nil, err
	}
	need := func(wantKey, wantValue bool) error {
		if wantKey != (key != "") || wantValue != hasValue {
			return fmt.Errorf("--%s %q: expected %s", m.Verb, m.Arg, shape(wantKey, wantValue))
		}
		return nil
	}

	switch m.Verb {
	case VerbSet:
		if err := need(false, true); err != nil {
			return nil, err
		}
		if opt.Kind == options.KindList {
			return options.SetList(name, splitValues(value)...), nil
		}
		return options.Set(name, parseValue(value)), nil
	case VerbReset:
		if err := need(false, false); err != nil {
			return nil, err
		}
		return options.Reset(name), nil
	case VerbAdd:
		if err := need(false, true); err != nil {
			return nil, err
		}
		return options.AddItem(name, parseValue(value)), nil
	case VerbRemove:
		if err := need(false, true); err != nil {
			return nil, err
		}
		return options.RemoveItem(name, parseValue(value)), nil
	case VerbClear:
		if err := need(false, false); err != nil {
			return nil, err
		}
		switch opt.Kind {
		case options.KindList:
			return options.ClearList(name), nil
		case options.KindMap:
			return options.ClearMap(name), nil
		case options.KindMultiMap:
			return options.ClearMultiMap(name), nil
		case options.KindNestedList:
			return options.ClearNestedList(name), nil
		}
		return nil, fmt.Errorf("--clear %s: %s options cannot be cleared, use --reset", name, opt.Kind)
	case VerbEntry:
		if err := need(true, true); err != nil {
			return nil, err
		}
		return options.SetEntry(name, key, parseValue(value)), nil
	case VerbAddEntry:
		if err := need(true, true); err != nil {
			return nil, err
		}
		return options.AddEntry(name, key, parseValue(value)), nil
	case VerbRemoveEntry:
		if err := need(true, false); err != nil {
			return nil, err
		}
		if opt.Kind == options.KindMultiMap {
			return options.RemoveKey(name, key), nil
		}
		return options.RemoveEntry(name, key), nil
	case VerbValues:
		if err := need(true, true); err != nil {
			return nil, err
		}
		return options.SetValues(name, key, splitValues(value)...), nil
	case VerbAddValues:
		if err := need(true, true); err != nil {
			return nil, err
		}
		return options.AddValues(name, key, splitValues(value)...), nil
	case VerbRemoveValue:
		if err := need(true, true); err != nil {
			return nil, err
		}
		return options.RemoveValue(name, key, parseValue(value)), nil
	}
	return nil, fmt.Errorf("unknown mutation --%s", m.Verb)
}

// Ops converts mutations in order.
func Ops(schema *options.Schema, muts []Mutation) ([]options.Op, error) {
	ops := make([]options.Op, 0, len(muts))
	for _, m := range muts {
		op, err := m.Op(schema)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func splitArg(arg string) (name, key, value string, hasValue bool) {
	head, value, hasValue := strings.Cut(arg, "=")
	name, key, _ = strings.Cut(head, ":")
	return strings.TrimSpace(name), key, value, hasValue
}

func splitValues(value string) []any {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = parseValue(p)
	}
	return out
}

func parseValue(v string) any {
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	return v
}

func shape(key, value bool) string {
	switch {
	case key && value:
		return "NAME:KEY=VALUE"
	case key:
		return "NAME:KEY"
	case value:
		return "NAME=VALUE"
	}
	return "NAME"
}
