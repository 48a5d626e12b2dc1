package options

import (
	"errors"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
)

// RedactionMarker replaces secret values in redacted output.
const RedactionMarker = "[REDACTED]"

// ErrUnknownFormatter is wrapped by FormatterError when an option names a
// formatter the registry does not hold.
var ErrUnknownFormatter = errors.New("formatter not registered")

// Compiler turns stores into argument tokens. A Compiler holds no per-call
// state and may be shared.
type Compiler struct {
	formatters *FormatterRegistry
	marker     string
}

type CompilerOption func(*Compiler)

// WithFormatters sets the registry used to resolve Option.Formatter.
func WithFormatters(r *FormatterRegistry) CompilerOption {
	return func(c *Compiler) { c.formatters = r }
}

// WithRedactionMarker overrides RedactionMarker.
func WithRedactionMarker(marker string) CompilerOption {
	return func(c *Compiler) { c.marker = marker }
}

func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{formatters: DefaultFormatters(), marker: RedactionMarker}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCompiler = NewCompiler()

// Compile renders s with the default compiler.
func Compile(s Store) ([]string, error) {
	return defaultCompiler.Compile(s)
}

// Redact renders s with the default compiler, masking secret values.
func Redact(s Store) ([]string, error) {
	return defaultCompiler.Redacted(s)
}

// JoinForDisplay renders tokens as one shell-quoted line.
func JoinForDisplay(tokens []string) string {
	return shellquote.Join(tokens...)
}

// Compile renders every present option of s in resolved order.
func (c *Compiler) Compile(s Store) ([]string, error) {
	return c.render(s, false, false)
}

// Redacted renders s like Compile but replaces the value of every secret
// option with the redaction marker. Templates, keys and the number of tokens
// are unchanged.
func (c *Compiler) Redacted(s Store) ([]string, error) {
	return c.render(s, true, false)
}

// render walks s. secret forces masking for everything below a secret nested
// option.
func (c *Compiler) render(s Store, redact, secret bool) ([]string, error) {
	if s.schema == nil {
		return nil, nil
	}
	if err := s.checkSlots(); err != nil {
		return nil, err
	}
	var out []string
	for _, opt := range s.schema.Ordered() {
		v := s.slots[opt.Name]
		if v.IsAbsent() {
			continue
		}
		tokens, err := c.renderOption(opt, v, redact, secret || opt.Secret)
		if err != nil {
			return nil, err
		}
		out = append(out, tokens...)
	}
	return out, nil
}

// checkSlots fails when a slot has no metadata in the store's schema.
func (s Store) checkSlots() error {
	names := make([]string, 0, len(s.slots))
	for name := range s.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := s.schema.Lookup(name); err != nil {
			return err
		}
	}
	return nil
}

func defaultFormat(opt Option) string {
	if opt.Format != "" {
		return opt.Format
	}
	switch opt.Kind {
	case KindMap, KindMultiMap:
		return keyPlaceholder + "=" + valuePlaceholder
	case KindNested, KindNestedList:
		return ""
	default:
		return valuePlaceholder
	}
}

func (c *Compiler) renderOption(opt Option, v Value, redact, secret bool) ([]string, error) {
	tmpl := parseTemplate(defaultFormat(opt))
	switch v.kind {
	case KindScalar:
		return c.renderScalar(opt, tmpl, v.scalar, redact && secret)

	case KindList:
		if len(v.items) == 0 {
			return emptyTokens(opt), nil
		}
		return c.renderSequence(opt, tmpl, "", v.items, redact && secret)

	case KindMap:
		if len(v.entries) == 0 {
			return emptyTokens(opt), nil
		}
		var out []string
		for _, e := range v.entries {
			text, err := c.text(opt, e.Key, e.Value, redact && secret)
			if err != nil {
				return nil, err
			}
			out = append(out, tmpl.expand(e.Key, text)...)
		}
		return out, nil

	case KindMultiMap:
		if len(v.groups) == 0 {
			return emptyTokens(opt), nil
		}
		var out []string
		for _, g := range v.groups {
			if len(g.Values) == 0 {
				continue
			}
			tokens, err := c.renderSequence(opt, tmpl, g.Key, g.Values, redact && secret)
			if err != nil {
				return nil, err
			}
			out = append(out, tokens...)
		}
		return out, nil

	case KindNested, KindNestedList:
		if v.kind == KindNestedList && len(v.stores) == 0 {
			return emptyTokens(opt), nil
		}
		var out []string
		for _, nested := range v.stores {
			tokens, err := c.render(nested, redact, secret)
			if err != nil {
				return nil, err
			}
			if len(tokens) == 0 {
				continue
			}
			out = append(out, tmpl...)
			out = append(out, tokens...)
		}
		return out, nil
	}
	return nil, nil
}

func (c *Compiler) renderScalar(opt Option, tmpl template, value any, mask bool) ([]string, error) {
	if b, ok := value.(bool); ok {
		if b && opt.AltFormat != "" {
			tmpl = parseTemplate(opt.AltFormat)
		}
		if !tmpl.hasValue() {
			if !b {
				return nil, nil
			}
			return tmpl.expand("", ""), nil
		}
	}
	text, err := c.text(opt, "", value, mask)
	if err != nil {
		return nil, err
	}
	return tmpl.expand("", text), nil
}

// renderSequence renders list items, or the values of one multi-map key,
// either joined by the separator into one group or as one group per value.
func (c *Compiler) renderSequence(opt Option, tmpl template, key string, values []any, mask bool) ([]string, error) {
	texts := make([]string, 0, len(values))
	for _, item := range values {
		text, err := c.text(opt, key, item, false)
		if err != nil {
			return nil, err
		}
		if mask {
			text = c.marker
		}
		texts = append(texts, text)
	}
	if opt.Separator != "" {
		joined := strings.Join(texts, opt.Separator)
		if mask {
			joined = c.marker
		}
		return tmpl.expand(key, joined), nil
	}
	var out []string
	for _, text := range texts {
		out = append(out, tmpl.expand(key, text)...)
	}
	return out, nil
}

// text formats one value. The formatter runs even when the value is masked so
// that redacted and plain renders fail the same way.
func (c *Compiler) text(opt Option, key string, value any, mask bool) (string, error) {
	text := stringify(value)
	if opt.Formatter != "" {
		f, ok := c.formatters.lookup(opt.Formatter)
		if !ok {
			return "", &FormatterError{Option: opt.Name, Formatter: opt.Formatter, Err: ErrUnknownFormatter}
		}
		formatted, err := f(FormatContext{Option: opt.Name, Key: key, Value: value})
		if err != nil {
			return "", &FormatterError{Option: opt.Name, Formatter: opt.Formatter, Err: err}
		}
		text = formatted
	}
	if mask {
		return c.marker, nil
	}
	return text, nil
}

func emptyTokens(opt Option) []string {
	if opt.EmptyFormat == "" {
		return nil
	}
	return parseTemplate(opt.EmptyFormat).expand("", "")
}
