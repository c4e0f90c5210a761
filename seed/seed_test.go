package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sen-heritage/store"
	"github.com/sen-heritage/store/jsonstore"
	"github.com/sen-heritage/store/schema"
)

func TestDatasetReferences(t *testing.T) {
	data := Dataset()

	t.Run("every collection is declared in the catalog", func(t *testing.T) {
		declared := map[string]struct{}{}
		for _, name := range schema.Collections() {
			declared[name] = struct{}{}
		}
		for name := range data {
			assert.Contains(t, declared, name)
		}
	})

	t.Run("foreign keys point inside the dataset", func(t *testing.T) {
		counts := map[string]int64{}
		for name, records := range data {
			counts[name] = int64(len(records))
		}

		check := func(collection, field, target string) {
			for _, rec := range data[collection] {
				v, ok := rec[field]
				if !ok || v == nil {
					continue
				}
				id, ok := store.ToInt64(v)
				require.True(t, ok, "%s.%s is not numeric", collection, field)
				assert.LessOrEqual(t, id, counts[target],
					"%s.%s=%d exceeds the %s fixtures", collection, field, id, target)
				assert.Positive(t, id)
			}
		}

		check("heritage_sites", "categoryId", "cultural_categories")
		check("artifacts", "heritageSiteId", "heritage_sites")
		check("artifacts", "categoryId", "cultural_categories")
		check("reviews", "userId", "users")
		check("reviews", "heritageSiteId", "heritage_sites")
		check("favorites", "userId", "users")
		check("game_levels", "chapterId", "game_chapters")
		check("game_progress", "userId", "users")
		check("game_sessions", "levelId", "game_levels")
	})
}

func TestLoadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, err := jsonstore.Open(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, Load(ctx, s))
	users, err := s.FindAll(ctx, "users")
	require.NoError(t, err)
	first := len(users)
	require.Positive(t, first)

	// loading again must not duplicate anything
	require.NoError(t, Load(ctx, s))
	users, err = s.FindAll(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, first, len(users))
}
