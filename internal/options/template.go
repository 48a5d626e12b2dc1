package options

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	keyPlaceholder   = "{key}"
	valuePlaceholder = "{value}"
)

func hasPlaceholder(format string) bool {
	return strings.Contains(format, keyPlaceholder) || strings.Contains(format, valuePlaceholder)
}

// template is a format string split into argument tokens. Splitting happens
// before substitution, so a value containing spaces stays a single token.
type template []string

func parseTemplate(format string) template {
	return template(strings.Fields(format))
}

func (t template) hasValue() bool {
	for _, tok := range t {
		if strings.Contains(tok, valuePlaceholder) {
			return true
		}
	}
	return false
}

func (t template) expand(key, value string) []string {
	// one pass, so placeholder text inside key or value is left alone
	r := strings.NewReplacer(keyPlaceholder, key, valuePlaceholder, value)
	out := make([]string, len(t))
	for i, tok := range t {
		out[i] = r.Replace(tok)
	}
	return out
}

// stringify renders a value the way it appears on a command line.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int8:
		return strconv.FormatInt(int64(t), 10)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint8:
		return strconv.FormatUint(uint64(t), 10)
	case uint16:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Duration:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
