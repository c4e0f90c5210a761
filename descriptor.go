package store

import (
	"net/url"
	"strconv"
	"strings"
)

// Reserved query parameter names that are not filter keys.
const (
	paramSearch = "q"
	paramEmbed  = "embed"
	paramExpand = "expand"
	paramSort   = "sort"
	paramOrder  = "order"
	paramPage   = "page"
	paramLimit  = "limit"
)

var operatorSuffixes = []struct {
	suffix string
	op     Operator
}{
	{"_gte", OpGte},
	{"_lte", OpLte},
	{"_ne", OpNe},
	{"_like", OpLike},
	{"_in", OpIn},
}

// ParseQuery converts the HTTP wire convention into a Query descriptor.
// The convention is <field>=<value> for equality, <field>_gte=, <field>_lte=,
// <field>_ne=, <field>_like=, <field>_in=<comma-list>, plus the reserved
// q, embed, expand, sort, order, page and limit parameters.
//
// Operator suffixes are resolved here, once, at the boundary: a parameter
// named price_gte is always the gte operator on price, never an equality
// filter on a field literally named "price_gte". Scalar values are coerced
// to int64, float64 or bool when they parse as such, so downstream typed
// comparisons behave the same as native bindings.
func ParseQuery(values url.Values) *Query {
	q := NewQuery()

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		raw := vals[0]

		switch key {
		case paramSearch:
			q.Search = raw
		case paramEmbed:
			q.Embed = splitList(raw)
		case paramExpand:
			q.Expand = splitList(raw)
		case paramSort:
			// order aligns positionally with sort; handled below
		case paramOrder:
			// consumed together with sort
		case paramPage:
			q.Page = atoiFloor(raw, 1)
		case paramLimit:
			q.Limit = atoiFloor(raw, 1)
		default:
			q.Filters = append(q.Filters, parseFilter(key, raw))
		}
	}

	sortFields := splitList(values.Get(paramSort))
	orders := splitList(values.Get(paramOrder))
	for i, field := range sortFields {
		desc := i < len(orders) && strings.EqualFold(orders[i], "desc")
		q.Sort = append(q.Sort, Order{Field: field, Desc: desc})
	}

	return q
}

func parseFilter(key, raw string) Filter {
	for _, s := range operatorSuffixes {
		if !strings.HasSuffix(key, s.suffix) || len(key) == len(s.suffix) {
			continue
		}
		field := strings.TrimSuffix(key, s.suffix)
		if s.op == OpIn {
			parts := splitList(raw)
			vals := make([]any, len(parts))
			for i, p := range parts {
				vals[i] = coerceScalar(p)
			}
			return Filter{Field: field, Op: OpIn, Value: vals}
		}
		if s.op == OpLike {
			// substring match operates on the raw string
			return Filter{Field: field, Op: OpLike, Value: raw}
		}
		return Filter{Field: field, Op: s.op, Value: coerceScalar(raw)}
	}
	return Filter{Field: key, Op: OpEq, Value: coerceScalar(raw)}
}

// coerceScalar types a wire value: int64, then float64, then bool, falling
// back to the raw string.
func coerceScalar(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	return s
}

func atoiFloor(s string, floor int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < floor {
		return floor
	}
	return n
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
