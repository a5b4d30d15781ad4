// Package redact masks secret values in configuration files and environment
// listings before they are written into a diagnostics bundle.
package redact

import (
	"strings"
)

// Placeholder replaces every redacted value.
const Placeholder = "[REDACTED]"

// Redactor masks values whose key contains one of its markers,
// case-insensitively.
type Redactor struct {
	markers []string
}

// New creates a redactor for the given key markers. Blank markers are ignored.
func New(markers ...string) *Redactor {
	r := &Redactor{}
	for _, m := range markers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			r.markers = append(r.markers, m)
		}
	}
	return r
}

// Sensitive reports whether values stored under key must be masked.
func (r *Redactor) Sensitive(key string) bool {
	k := strings.ToLower(key)
	for _, m := range r.markers {
		if strings.Contains(k, m) {
			return true
		}
	}
	return false
}

// Value masks a decoded document in place and returns it. Maps and lists
// are walked recursively. A sensitive key has its whole value replaced,
// including any list or map nested under it.
func (r *Redactor) Value(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, inner := range val {
			if r.Sensitive(k) {
				val[k] = Placeholder
				continue
			}
			val[k] = r.Value(inner)
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = r.Value(inner)
		}
		return val
	default:
		return v
	}
}

// Lines masks "key=value" and "key: value" lines, leaving comments, blank
// lines and the key itself untouched.
func (r *Redactor) Lines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = r.line(line)
	}
	return strings.Join(lines, "\n")
}

func (r *Redactor) line(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
		return line
	}
	idx := strings.IndexAny(line, "=:")
	if idx <= 0 {
		return line
	}
	key := strings.TrimSpace(line[:idx])
	if !r.Sensitive(key) || strings.TrimSpace(line[idx+1:]) == "" {
		return line
	}
	return line[:idx+1] + Placeholder
}
