package plugin

import (
	"fmt"
	"strconv"
	"strings"
)

// Flags is the extra-flag mapping the host passes to every lifecycle call,
// typically populated from CLI flags on the build and serve commands.
type Flags map[string]any

// ParseFlags parses "key" and "key:value" pairs. A bare key maps to true.
func ParseFlags(pairs []string) (Flags, error) {
	flags := make(Flags, len(pairs))
	for _, pair := range pairs {
		key, value, hasValue := strings.Cut(pair, ":")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid flag %q: empty key", pair)
		}
		if !hasValue {
			flags[key] = true
			continue
		}
		flags[key] = value
	}
	return flags, nil
}

// Bool reports whether key is present and truthy. Strings that parse as
// booleans use that value, so "false" and "0" are off; other non-empty
// strings are true. Numbers are true when non-zero. This differs from a plain
// non-empty check, under which "-f webpack:false" would enable the sidecar.
func (f Flags) Bool(key string) bool {
	v, ok := f[key]
	if !ok {
		return false
	}
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
		return strings.TrimSpace(val) != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

// With returns a copy of f with key set to value.
func (f Flags) With(key string, value any) Flags {
	out := make(Flags, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	out[key] = value
	return out
}
