package store

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	t.Run("plain parameter is an equality filter", func(t *testing.T) {
		q := ParseQuery(url.Values{"status": {"active"}})
		require.Len(t, q.Filters, 1)
		assert.Equal(t, Filter{Field: "status", Op: OpEq, Value: "active"}, q.Filters[0])
	})

	t.Run("operator suffixes resolve at the boundary", func(t *testing.T) {
		q := ParseQuery(url.Values{
			"price_gte": {"10"},
			"price_lte": {"20.5"},
			"rarity_ne": {"common"},
			"name_like": {"citadel"},
		})
		require.Len(t, q.Filters, 4)

		byField := map[Operator]Filter{}
		for _, f := range q.Filters {
			byField[f.Op] = f
		}
		assert.Equal(t, Filter{Field: "price", Op: OpGte, Value: int64(10)}, byField[OpGte])
		assert.Equal(t, Filter{Field: "price", Op: OpLte, Value: 20.5}, byField[OpLte])
		assert.Equal(t, Filter{Field: "rarity", Op: OpNe, Value: "common"}, byField[OpNe])
		assert.Equal(t, Filter{Field: "name", Op: OpLike, Value: "citadel"}, byField[OpLike])
	})

	t.Run("in splits on commas and coerces each element", func(t *testing.T) {
		q := ParseQuery(url.Values{"id_in": {"1,2,3"}})
		require.Len(t, q.Filters, 1)
		assert.Equal(t, OpIn, q.Filters[0].Op)
		assert.Equal(t, []any{int64(1), int64(2), int64(3)}, q.Filters[0].Value)
	})

	t.Run("scalar coercion tries int then float then bool", func(t *testing.T) {
		q := ParseQuery(url.Values{
			"level":      {"3"},
			"rating":     {"4.5"},
			"isFeatured": {"true"},
			"name":       {"hue"},
		})
		values := map[string]any{}
		for _, f := range q.Filters {
			values[f.Field] = f.Value
		}
		assert.Equal(t, int64(3), values["level"])
		assert.Equal(t, 4.5, values["rating"])
		assert.Equal(t, true, values["isFeatured"])
		assert.Equal(t, "hue", values["name"])
	})

	t.Run("reserved keys never become filters", func(t *testing.T) {
		q := ParseQuery(url.Values{
			"q":      {"temple"},
			"embed":  {"artifacts,reviews"},
			"expand": {"category"},
			"sort":   {"rating,name"},
			"order":  {"desc"},
			"page":   {"2"},
			"limit":  {"5"},
		})
		assert.Empty(t, q.Filters)
		assert.Equal(t, "temple", q.Search)
		assert.Equal(t, []string{"artifacts", "reviews"}, q.Embed)
		assert.Equal(t, []string{"category"}, q.Expand)
		require.Len(t, q.Sort, 2)
		assert.Equal(t, Order{Field: "rating", Desc: true}, q.Sort[0])
		assert.Equal(t, Order{Field: "name", Desc: false}, q.Sort[1])
		assert.Equal(t, 2, q.Page)
		assert.Equal(t, 5, q.Limit)
	})

	t.Run("page and limit floor at one", func(t *testing.T) {
		q := ParseQuery(url.Values{"page": {"0"}, "limit": {"-4"}})
		assert.Equal(t, 1, q.Page)
		assert.Equal(t, 1, q.Limit)

		q = ParseQuery(url.Values{"page": {"abc"}})
		assert.Equal(t, 1, q.Page)
	})

	t.Run("defaults apply when parameters are absent", func(t *testing.T) {
		q := ParseQuery(url.Values{})
		assert.Equal(t, 1, q.Page)
		assert.Equal(t, DefaultPageSize, q.Limit)
		assert.Empty(t, q.Sort)
	})

	t.Run("a bare suffix is a field name, not an operator", func(t *testing.T) {
		q := ParseQuery(url.Values{"_in": {"x"}})
		require.Len(t, q.Filters, 1)
		assert.Equal(t, OpEq, q.Filters[0].Op)
		assert.Equal(t, "_in", q.Filters[0].Field)
	})
}
