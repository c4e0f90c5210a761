package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseConversion(t *testing.T) {
	cases := map[string]string{
		"heritageSiteId": "heritage_site_id",
		"createdAt":      "created_at",
		"name":           "name",
		"isFeatured":     "is_featured",
	}
	for camel, snake := range cases {
		assert.Equal(t, snake, SnakeCase(camel))
		assert.Equal(t, camel, CamelCase(snake))
	}

	t.Run("conversion is idempotent", func(t *testing.T) {
		assert.Equal(t, "heritage_site_id", SnakeCase("heritage_site_id"))
		assert.Equal(t, "heritageSiteId", CamelCase("heritageSiteId"))
		assert.Equal(t, "heritageSiteId", CamelCase(CamelCase(SnakeCase("heritageSiteId"))))
	})
}

func TestIsTemporalField(t *testing.T) {
	assert.True(t, IsTemporalField("createdAt"))
	assert.True(t, IsTemporalField("startsAt"))
	assert.True(t, IsTemporalField("lastLogin"))
	assert.False(t, IsTemporalField("name"))
	assert.False(t, IsTemporalField("atlas"))
}

func TestNormalizer(t *testing.T) {
	n := NewNormalizer([]string{"items", "badges"})

	t.Run("round trips keys and temporals", func(t *testing.T) {
		when := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)
		app := Record{
			"heritageSiteId": int64(3),
			"createdAt":      when,
			"name":           "vase",
		}

		stored := n.ToStorage(app)
		assert.Equal(t, int64(3), stored["heritage_site_id"])
		assert.Equal(t, "2026-05-10T12:00:00Z", stored["created_at"])
		assert.Equal(t, "vase", stored["name"])

		back := n.ToApplication(stored)
		assert.Equal(t, app["heritageSiteId"], back["heritageSiteId"])
		assert.True(t, when.Equal(back["createdAt"].(time.Time)))
	})

	t.Run("json blob values pass through untouched", func(t *testing.T) {
		blob := []any{map[string]any{"artifactId": int64(1), "addedAt": "2026-01-01"}}
		stored := n.ToStorage(Record{"items": blob})
		// only the key is renamed; the nested document keeps its shape
		assert.Equal(t, blob, stored["items"])

		back := n.ToApplication(stored)
		assert.Equal(t, blob, back["items"])
	})

	t.Run("unparseable temporals become null", func(t *testing.T) {
		back := n.ToApplication(Record{"created_at": "not a date"})
		require.Contains(t, back, "createdAt")
		assert.Nil(t, back["createdAt"])

		back = n.ToApplication(Record{"created_at": nil})
		assert.Nil(t, back["createdAt"])
	})
}

func TestParseTime(t *testing.T) {
	_, ok := ParseTime("2026-05-10T12:00:00Z")
	assert.True(t, ok)
	_, ok = ParseTime("2026-05-10 12:00:00")
	assert.True(t, ok)
	_, ok = ParseTime("2026-05-10")
	assert.True(t, ok)
	_, ok = ParseTime("")
	assert.False(t, ok)
	_, ok = ParseTime(nil)
	assert.False(t, ok)
	_, ok = ParseTime(int64(5))
	assert.False(t, ok)
}
