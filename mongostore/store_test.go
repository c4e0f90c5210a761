package mongostore

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sen-heritage/store"
)

// The smoke test needs a reachable deployment; it is skipped otherwise.
func envConfig(t *testing.T) store.Config {
	t.Helper()
	host := os.Getenv("SENSTORE_TEST_MONGO_HOST")
	if host == "" {
		t.Skip("SENSTORE_TEST_MONGO_HOST not set")
	}
	port := 27017
	if p, err := strconv.Atoi(os.Getenv("SENSTORE_TEST_MONGO_PORT")); err == nil {
		port = p
	}
	db := os.Getenv("SENSTORE_TEST_MONGO_DB")
	if db == "" {
		db = "senstore_test"
	}
	return store.NewConfig(
		store.WithType(store.BackendMongo),
		store.WithHost(host),
		store.WithPort(port),
		store.WithDatabase(db),
	)
}

func TestMongoServer(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, envConfig(t))
	require.NoError(t, err)
	defer s.Close()

	created, err := s.Create(ctx, "shop_items", store.Record{"name": "smoke", "price": 1.5})
	require.NoError(t, err)
	require.NotNil(t, created)
	id, ok := created.ID()
	require.True(t, ok)

	rec, err := s.FindByID(ctx, "shop_items", id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "smoke", rec["name"])

	missing, err := s.FindByID(ctx, "shop_items", id+1000)
	require.NoError(t, err)
	assert.Nil(t, missing)

	updated, err := s.Update(ctx, "shop_items", id, store.Record{"price": 2.5})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 2.5, updated["price"])

	deleted, err := s.Delete(ctx, "shop_items", id)
	require.NoError(t, err)
	assert.True(t, deleted)
}
