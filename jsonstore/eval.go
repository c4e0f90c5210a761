package jsonstore

import (
	"strings"

	"github.com/sen-heritage/store"
	"github.com/sen-heritage/store/schema"
)

// matchesAll reports whether a record satisfies every filter.
func matchesAll(rec store.Record, filters []store.Filter) bool {
	for _, f := range filters {
		if !matchFilter(rec, f) {
			return false
		}
	}
	return true
}

func matchFilter(rec store.Record, f store.Filter) bool {
	val, ok := rec[f.Field]
	if !ok {
		// A field the record does not carry only matches an explicit
		// inequality against a present value.
		return f.Op == store.OpNe && f.Value != nil
	}

	switch f.Op {
	case store.OpEq:
		return store.Equal(val, f.Value)
	case store.OpNe:
		return !store.Equal(val, f.Value)
	case store.OpGte:
		c, cmp := store.Compare(val, f.Value)
		return cmp && c >= 0
	case store.OpLte:
		c, cmp := store.Compare(val, f.Value)
		return cmp && c <= 0
	case store.OpLike:
		s, sok := val.(string)
		want, wok := f.Value.(string)
		if !sok || !wok {
			return false
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(want))
	case store.OpIn:
		for _, candidate := range store.InValues(f.Value) {
			if store.Equal(val, candidate) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// matchesSearch reports whether one of the searchable fields contains the
// term, case-insensitively. An empty term matches everything. The field
// list mirrors what the SQL dialects match with LIKE, so the q parameter
// behaves the same on every backend.
func matchesSearch(rec store.Record, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	for _, field := range schema.SearchColumns() {
		if s, ok := rec[field].(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}
