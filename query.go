package store

// Operator represents a comparison operation in filters.
type Operator string

const (
	OpEq   Operator = "eq"   // exact equality
	OpNe   Operator = "ne"   // inequality
	OpGte  Operator = "gte"  // greater than or equal
	OpLte  Operator = "lte"  // less than or equal
	OpLike Operator = "like" // case-insensitive substring match
	OpIn   Operator = "in"   // membership in a value set
)

// Filter is a single filter condition (field op value).
type Filter struct {
	Field string
	Op    Operator
	// Value is a single value, or []any for OpIn.
	Value any
}

// Order defines ordering on a field. Order entries are applied in sequence
// for tie-breaking.
type Order struct {
	Field string
	Desc  bool
}

// Query is the backend-agnostic descriptor for a list query. All adapters
// interpret the same descriptor with identical semantics: filters are ANDed,
// Search scans the searchable fields case-insensitively, Embed and Expand
// name relations to populate, and Page/Limit select a 1-based window of the
// sorted result.
//
// Field names are always in the application's camelCase vocabulary; each
// adapter converts to its native naming convention internally.
type Query struct {
	Filters []Filter
	Search  string
	Embed   []string
	Expand  []string
	Sort    []Order
	Page    int
	Limit   int
}

// Helper functions for creating filters

func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

func Ne(field string, value any) Filter {
	return Filter{Field: field, Op: OpNe, Value: value}
}

func Gte(field string, value any) Filter {
	return Filter{Field: field, Op: OpGte, Value: value}
}

func Lte(field string, value any) Filter {
	return Filter{Field: field, Op: OpLte, Value: value}
}

func Like(field string, value string) Filter {
	return Filter{Field: field, Op: OpLike, Value: value}
}

func In(field string, values ...any) Filter {
	return Filter{Field: field, Op: OpIn, Value: values}
}

// Helper functions for creating orders

func Asc(field string) Order {
	return Order{Field: field, Desc: false}
}

func Desc(field string) Order {
	return Order{Field: field, Desc: true}
}

// NewQuery returns an empty descriptor with default pagination.
func NewQuery() *Query {
	return &Query{Page: 1, Limit: DefaultPageSize}
}

// Where appends a filter and returns the query for chaining.
func (q *Query) Where(f Filter) *Query {
	q.Filters = append(q.Filters, f)
	return q
}

// OrderBy appends a sort order and returns the query for chaining.
func (q *Query) OrderBy(o Order) *Query {
	q.Sort = append(q.Sort, o)
	return q
}

// InValues normalizes an OpIn filter value to a slice. The incoming value
// may already be a []any or a []string, or a single scalar; all forms are
// accepted. The result is never nil: an empty membership set must stay an
// empty array on the wire ($in with null is a server error on MongoDB).
func InValues(v any) []any {
	switch vv := v.(type) {
	case []any:
		if vv == nil {
			return []any{}
		}
		return vv
	case []string:
		out := make([]any, len(vv))
		for i, s := range vv {
			out[i] = s
		}
		return out
	case nil:
		return []any{}
	default:
		return []any{v}
	}
}
