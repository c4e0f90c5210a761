package store

import (
	"strings"
	"time"
	"unicode"
)

// Normalizer translates records between the application shape (camelCase
// keys, time.Time temporals) and the storage shape (snake_case columns,
// formatted timestamps). Fields listed as JSON blobs keep their value
// untouched: only top-level keys are renamed, never the contents of a
// serialized document.
type Normalizer struct {
	jsonFields map[string]struct{}
}

// NewNormalizer builds a normalizer. jsonFields are the camelCase names of
// fields whose values are opaque JSON documents.
func NewNormalizer(jsonFields []string) *Normalizer {
	set := make(map[string]struct{}, len(jsonFields))
	for _, f := range jsonFields {
		set[f] = struct{}{}
	}
	return &Normalizer{jsonFields: set}
}

// SnakeCase converts a camelCase identifier to snake_case. Already-snake
// input passes through unchanged, so the conversion is idempotent.
func SnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CamelCase converts a snake_case identifier to camelCase. Already-camel
// input passes through unchanged.
func CamelCase(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	upper := false
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsTemporalField reports whether a camelCase field holds a timestamp by the
// naming convention: any field ending in "At", plus lastLogin.
func IsTemporalField(name string) bool {
	return strings.HasSuffix(name, "At") || name == "lastLogin"
}

// FormatTime renders a timestamp in the wire format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTime parses a stored temporal value into a time.Time. Returns false
// for null, empty or unparseable input.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if t == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

// ToStorage converts an application record to storage shape: keys become
// snake_case and temporal values are formatted as strings. JSON blob values
// are carried through untouched.
func (n *Normalizer) ToStorage(rec Record) Record {
	if rec == nil {
		return nil
	}
	out := make(Record, len(rec))
	for key, val := range rec {
		col := SnakeCase(key)
		if _, blob := n.jsonFields[key]; blob {
			out[col] = val
			continue
		}
		if IsTemporalField(key) {
			if t, ok := ParseTime(val); ok {
				out[col] = FormatTime(t)
			} else {
				out[col] = nil
			}
			continue
		}
		out[col] = val
	}
	return out
}

// ToApplication converts a storage record to application shape: keys become
// camelCase and temporal values are parsed into time.Time. Null or
// unparseable temporals become nil rather than an error.
func (n *Normalizer) ToApplication(rec Record) Record {
	if rec == nil {
		return nil
	}
	out := make(Record, len(rec))
	for key, val := range rec {
		field := CamelCase(key)
		if _, blob := n.jsonFields[field]; blob {
			out[field] = val
			continue
		}
		if IsTemporalField(field) {
			if t, ok := ParseTime(val); ok {
				out[field] = t
			} else {
				out[field] = nil
			}
			continue
		}
		out[field] = val
	}
	return out
}
