package sqlstore

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sen-heritage/store"
	"github.com/sen-heritage/store/jsonstore"
	"github.com/sen-heritage/store/seed"
)

func openSQLite(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	cfg := store.SQLiteOptions(filepath.Join(t.TempDir(), "test.db"))
	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, s.EnsureSchema(ctx))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteCRUD(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	t.Run("create assigns id and timestamps", func(t *testing.T) {
		rec, err := s.Create(ctx, "shop_items", store.Record{"name": "Poster", "price": 12.5})
		require.NoError(t, err)
		require.NotNil(t, rec)

		id, ok := rec.ID()
		require.True(t, ok)
		assert.Positive(t, id)
		assert.Equal(t, "Poster", rec["name"])
		assert.Equal(t, 12.5, rec["price"])
		assert.IsType(t, time.Time{}, rec["createdAt"])
	})

	t.Run("update merges and missing ids return nil", func(t *testing.T) {
		created, err := s.Create(ctx, "shop_items", store.Record{"name": "Mug", "price": 8.0})
		require.NoError(t, err)
		id, _ := created.ID()

		updated, err := s.Update(ctx, "shop_items", id, store.Record{"price": 9.0})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, 9.0, updated["price"])
		assert.Equal(t, "Mug", updated["name"])

		missing, err := s.Update(ctx, "shop_items", 9999, store.Record{"price": 1.0})
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("delete reports whether a row existed", func(t *testing.T) {
		created, err := s.Create(ctx, "shop_items", store.Record{"name": "Sticker", "price": 1.0})
		require.NoError(t, err)
		id, _ := created.ID()

		deleted, err := s.Delete(ctx, "shop_items", id)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = s.Delete(ctx, "shop_items", id)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("find sentinels", func(t *testing.T) {
		rec, err := s.FindByID(ctx, "shop_items", 9999)
		require.NoError(t, err)
		assert.Nil(t, rec)

		rec, err = s.FindOne(ctx, "shop_items", store.Eq("name", "nothing"))
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("unknown collections are a validation error", func(t *testing.T) {
		_, err := s.FindAll(ctx, "widgets")
		assert.ErrorIs(t, err, store.ErrValidation)
	})
}

func TestSQLiteJSONColumns(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	t.Run("blob fields round trip", func(t *testing.T) {
		rec, err := s.Create(ctx, "users", store.Record{
			"username": "linh", "email": "linh@example.com", "password": "x",
			"badges": []any{"early-bird", "explorer"},
		})
		require.NoError(t, err)
		assert.Equal(t, []any{"early-bird", "explorer"}, rec["badges"])
	})

	t.Run("a corrupt blob surfaces as an empty list, not an error", func(t *testing.T) {
		created, err := s.Create(ctx, "users", store.Record{
			"username": "minh", "email": "minh@example.com", "password": "x",
		})
		require.NoError(t, err)
		id, _ := created.ID()

		_, err = s.db.ExecContext(ctx, `UPDATE users SET badges = '{broken' WHERE id = ?`, id)
		require.NoError(t, err)

		rec, err := s.FindByID(ctx, "users", id)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, []any{}, rec["badges"])
	})
}

func TestSQLiteNextID(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	next, err := s.NextID(ctx, "reviews")
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
}

// queryIDs runs a wire-convention query and returns the page's ids.
func queryIDs(t *testing.T, s store.Store, collection string, params url.Values) ([]int64, store.Pagination) {
	t.Helper()
	res, err := s.FindAllAdvanced(context.Background(), collection, store.ParseQuery(params))
	require.NoError(t, err)

	ids := make([]int64, len(res.Data))
	for i, rec := range res.Data {
		id, ok := rec.ID()
		require.True(t, ok)
		ids[i] = id
	}
	return ids, res.Pagination
}

// TestBackendEquivalence runs the same descriptors against the SQL backend
// and the document backend over the same seed data and requires identical
// results. Every query sorts by id so page order is well defined on both.
func TestBackendEquivalence(t *testing.T) {
	ctx := context.Background()

	sqlBackend := openSQLite(t)
	require.NoError(t, seed.Load(ctx, sqlBackend))

	docBackend, err := jsonstore.Open(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	defer docBackend.Close()
	require.NoError(t, seed.Load(ctx, docBackend))

	cases := []struct {
		name       string
		collection string
		params     url.Values
	}{
		{"filter gte", "shop_items", url.Values{"price_gte": {"10"}, "sort": {"id"}}},
		{"filter lte", "shop_items", url.Values{"price_lte": {"10"}, "sort": {"id"}}},
		{"filter ne", "artifacts", url.Values{"rarity_ne": {"common"}, "sort": {"id"}}},
		{"filter eq bool", "heritage_sites", url.Values{"isFeatured": {"true"}, "sort": {"id"}}},
		{"filter in", "artifacts", url.Values{"rarity_in": {"rare,legendary"}, "sort": {"id"}}},
		{"filter like", "heritage_sites", url.Values{"name_like": {"citadel"}, "sort": {"id"}}},
		{"search", "heritage_sites", url.Values{"q": {"imperial"}, "sort": {"id"}}},
		{"camel filter", "artifacts", url.Values{"heritageSiteId": {"1"}, "sort": {"id"}}},
		{"page one", "artifacts", url.Values{"sort": {"id"}, "page": {"1"}, "limit": {"2"}}},
		{"page two", "artifacts", url.Values{"sort": {"id"}, "page": {"2"}, "limit": {"2"}}},
		{"sort desc", "heritage_sites", url.Values{"sort": {"rating"}, "order": {"desc"}}},
		{"empty in", "artifacts", url.Values{"rarity_in": {""}, "sort": {"id"}}},
		// no seed item carries an image, so ne must count the null rows
		{"ne on a null column", "shop_items", url.Values{"image_ne": {"x"}, "sort": {"id"}}},
		// a bare underscore is a literal character, not a single-char wildcard
		{"like with wildcard chars", "shop_items", url.Values{"name_like": {"_"}, "sort": {"id"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sqlIDs, sqlPage := queryIDs(t, sqlBackend, tc.collection, tc.params)
			docIDs, docPage := queryIDs(t, docBackend, tc.collection, tc.params)
			assert.Equal(t, docIDs, sqlIDs)
			assert.Equal(t, docPage, sqlPage)
		})
	}

	t.Run("expand resolves the same parent", func(t *testing.T) {
		params := url.Values{"expand": {"category"}, "sort": {"id"}}
		for _, backend := range []store.Store{sqlBackend, docBackend} {
			res, err := backend.FindAllAdvanced(ctx, "artifacts", store.ParseQuery(params))
			require.NoError(t, err)
			require.NotEmpty(t, res.Data)
			parent, ok := res.Data[0]["category"].(store.Record)
			require.True(t, ok)
			assert.Equal(t, "Architecture", parent["name"])
		}
	})

	t.Run("embed resolves the same children", func(t *testing.T) {
		params := url.Values{"embed": {"artifacts"}, "sort": {"id"}}
		sqlRes, err := sqlBackend.FindAllAdvanced(ctx, "heritage_sites", store.ParseQuery(params))
		require.NoError(t, err)
		docRes, err := docBackend.FindAllAdvanced(ctx, "heritage_sites", store.ParseQuery(params))
		require.NoError(t, err)

		require.Equal(t, len(docRes.Data), len(sqlRes.Data))
		for i := range sqlRes.Data {
			sqlKids := sqlRes.Data[i]["artifacts"].([]store.Record)
			docKids := docRes.Data[i]["artifacts"].([]store.Record)
			assert.Equal(t, len(docKids), len(sqlKids))
		}
	})
}

// envConfig builds a config from environment variables, skipping the test
// when the host variable is unset. Lets the same smoke test run against a
// real MySQL or PostgreSQL server in CI.
func envConfig(t *testing.T, backend store.Backend, prefix string, defaultPort int) store.Config {
	t.Helper()
	host := os.Getenv(prefix + "_HOST")
	if host == "" {
		t.Skipf("%s_HOST not set", prefix)
	}
	port := defaultPort
	if p, err := strconv.Atoi(os.Getenv(prefix + "_PORT")); err == nil {
		port = p
	}
	return store.NewConfig(
		store.WithType(backend),
		store.WithHost(host),
		store.WithPort(port),
		store.WithDatabase(os.Getenv(prefix+"_DB")),
		store.WithUsername(os.Getenv(prefix+"_USER")),
		store.WithPassword(os.Getenv(prefix+"_PASSWORD")),
	)
}

func serverSmokeTest(t *testing.T, cfg store.Config) {
	ctx := context.Background()
	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.EnsureSchema(ctx))

	created, err := s.Create(ctx, "shop_items", store.Record{"name": "smoke", "price": 1.5})
	require.NoError(t, err)
	id, _ := created.ID()

	rec, err := s.FindByID(ctx, "shop_items", id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "smoke", rec["name"])

	deleted, err := s.Delete(ctx, "shop_items", id)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestMySQLServer(t *testing.T) {
	serverSmokeTest(t, envConfig(t, store.BackendMySQL, "SENSTORE_TEST_MYSQL", 3306))
}

func TestPostgresServer(t *testing.T) {
	serverSmokeTest(t, envConfig(t, store.BackendPostgres, "SENSTORE_TEST_PG", 5432))
}
