package options

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// FormatContext is what a formatter sees for one rendered value. Key is set
// for map and multi-map values only.
type FormatContext struct {
	Option string
	Key    string
	Value  any
}

// Formatter turns one option value into its command-line text.
type Formatter func(FormatContext) (string, error)

// FormatterRegistry maps formatter names to implementations. It is safe for
// concurrent use.
type FormatterRegistry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
}

// NewFormatterRegistry returns an empty registry.
func NewFormatterRegistry() *FormatterRegistry {
	return &FormatterRegistry{formatters: make(map[string]Formatter)}
}

// DefaultFormatters returns a registry with the built-in formatters:
// lower, upper and msbuild.
func DefaultFormatters() *FormatterRegistry {
	r := NewFormatterRegistry()
	r.formatters["lower"] = func(fc FormatContext) (string, error) {
		return strings.ToLower(stringify(fc.Value)), nil
	}
	r.formatters["upper"] = func(fc FormatContext) (string, error) {
		return strings.ToUpper(stringify(fc.Value)), nil
	}
	r.formatters["msbuild"] = formatMSBuild
	return r
}

// Register adds a formatter. Names are unique.
func (r *FormatterRegistry) Register(name string, f Formatter) error {
	if name == "" || f == nil {
		return fmt.Errorf("options: formatter name and function are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.formatters[name]; ok {
		return fmt.Errorf("options: formatter %q already registered", name)
	}
	r.formatters[name] = f
	return nil
}

// RegisterExpr compiles an expr-lang expression into a formatter. The
// expression sees value, key and option; a non-string result is rendered
// like any other value.
func (r *FormatterRegistry) RegisterExpr(name, expression string) error {
	if strings.TrimSpace(expression) == "" {
		return fmt.Errorf("options: formatter %q: expression must not be empty", name)
	}
	program, err := expr.Compile(expression, expr.Env(map[string]any{}), expr.AllowUndefinedVariables())
	if err != nil {
		return fmt.Errorf("options: formatter %q: %w", name, err)
	}
	return r.Register(name, exprFormatter(program))
}

func exprFormatter(program *vm.Program) Formatter {
	return func(fc FormatContext) (string, error) {
		out, err := expr.Run(program, map[string]any{
			"value":  fc.Value,
			"key":    fc.Key,
			"option": fc.Option,
		})
		if err != nil {
			return "", err
		}
		return stringify(out), nil
	}
}

// Names returns the registered formatter names, sorted.
func (r *FormatterRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *FormatterRegistry) lookup(name string) (Formatter, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[name]
	return f, ok
}

var msbuildEscaper = strings.NewReplacer(
	"%", "%25",
	";", "%3B",
	",", "%2C",
	"$", "%24",
	"@", "%40",
	"'", "%27",
)

// formatMSBuild escapes the characters msbuild treats specially in /p:
// property values.
func formatMSBuild(fc FormatContext) (string, error) {
	if b, ok := fc.Value.(bool); ok {
		if b {
			return "true", nil
		}
		return "false", nil
	}
	return msbuildEscaper.Replace(stringify(fc.Value)), nil
}
