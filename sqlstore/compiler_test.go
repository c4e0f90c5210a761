package sqlstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sen-heritage/store"
	"github.com/sen-heritage/store/schema"
)

func tableNamed(t *testing.T, name string) schema.Table {
	t.Helper()
	for _, tbl := range schema.Tables() {
		if tbl.Name == name {
			return tbl
		}
	}
	t.Fatalf("no table %q in catalog", name)
	return schema.Table{}
}

func TestCompilerWhere(t *testing.T) {
	shopItems := tableNamed(t, "shop_items")

	t.Run("operators compile with placeholders", func(t *testing.T) {
		c := newCompiler(sqliteDialect{}, shopItems)
		where, err := c.where([]store.Filter{
			store.Gte("price", int64(10)),
			store.Ne("category", "prints"),
		}, "")
		require.NoError(t, err)
		assert.Equal(t, ` WHERE "price" >= ? AND ("category" IS NULL OR "category" <> ?)`, where)
		assert.Equal(t, []any{int64(10), "prints"}, c.args)
	})

	t.Run("postgres placeholders are numbered", func(t *testing.T) {
		c := newCompiler(postgresDialect{}, shopItems)
		where, err := c.where([]store.Filter{
			store.Eq("stock", int64(5)),
			store.Lte("price", 9.5),
		}, "")
		require.NoError(t, err)
		assert.Equal(t, ` WHERE "stock" = $1 AND "price" <= $2`, where)
	})

	t.Run("camelCase fields map to columns", func(t *testing.T) {
		c := newCompiler(sqliteDialect{}, shopItems)
		where, err := c.where([]store.Filter{store.Eq("isActive", true)}, "")
		require.NoError(t, err)
		assert.Contains(t, where, `"is_active" = ?`)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		c := newCompiler(sqliteDialect{}, shopItems)
		_, err := c.where([]store.Filter{store.Eq("nope; DROP TABLE users", 1)}, "")
		assert.ErrorIs(t, err, store.ErrValidation)
	})

	t.Run("in expands placeholders and the empty set matches nothing", func(t *testing.T) {
		c := newCompiler(sqliteDialect{}, shopItems)
		where, err := c.where([]store.Filter{store.In("id", int64(1), int64(2))}, "")
		require.NoError(t, err)
		assert.Contains(t, where, `"id" IN (?, ?)`)

		c = newCompiler(sqliteDialect{}, shopItems)
		where, err = c.where([]store.Filter{store.In("id")}, "")
		require.NoError(t, err)
		assert.Contains(t, where, "1 = 0")
		assert.Empty(t, c.args)
	})

	t.Run("null equality becomes IS NULL", func(t *testing.T) {
		c := newCompiler(sqliteDialect{}, shopItems)
		where, err := c.where([]store.Filter{store.Eq("category", nil), store.Ne("image", nil)}, "")
		require.NoError(t, err)
		assert.Contains(t, where, `"category" IS NULL`)
		assert.Contains(t, where, `"image" IS NOT NULL`)
		assert.Empty(t, c.args)
	})

	t.Run("like wraps the term in wildcards", func(t *testing.T) {
		c := newCompiler(postgresDialect{}, shopItems)
		where, err := c.where([]store.Filter{store.Like("name", "mug")}, "")
		require.NoError(t, err)
		assert.Contains(t, where, `"name" ILIKE $1 ESCAPE '!'`)
		assert.Equal(t, []any{"%mug%"}, c.args)
	})

	t.Run("like treats metacharacters as literals", func(t *testing.T) {
		c := newCompiler(sqliteDialect{}, shopItems)
		where, err := c.where([]store.Filter{store.Like("name", "100%_off!")}, "")
		require.NoError(t, err)
		assert.Contains(t, where, `"name" LIKE ? ESCAPE '!'`)
		assert.Equal(t, []any{"%100!%!_off!!%"}, c.args)
	})
}

func TestCompilerSearch(t *testing.T) {
	t.Run("matches name and description", func(t *testing.T) {
		c := newCompiler(sqliteDialect{}, tableNamed(t, "heritage_sites"))
		where, err := c.where(nil, "citadel")
		require.NoError(t, err)
		assert.Contains(t, where, `"name" LIKE ? ESCAPE '!'`)
		assert.Contains(t, where, `"description" LIKE ? ESCAPE '!'`)
		assert.Contains(t, where, " OR ")
		assert.Equal(t, []any{"%citadel%", "%citadel%"}, c.args)
	})

	t.Run("tables without searchable columns ignore the term", func(t *testing.T) {
		c := newCompiler(sqliteDialect{}, tableNamed(t, "favorites"))
		where, err := c.where(nil, "citadel")
		require.NoError(t, err)
		assert.Empty(t, where)
	})
}

func TestCompilerOrderBy(t *testing.T) {
	shopItems := tableNamed(t, "shop_items")

	t.Run("defaults to newest first", func(t *testing.T) {
		c := newCompiler(sqliteDialect{}, shopItems)
		order, err := c.orderBy(nil)
		require.NoError(t, err)
		assert.Equal(t, ` ORDER BY "created_at" DESC`, order)
	})

	t.Run("multi-field sort keeps request order", func(t *testing.T) {
		c := newCompiler(sqliteDialect{}, shopItems)
		order, err := c.orderBy([]store.Order{store.Desc("price"), store.Asc("name")})
		require.NoError(t, err)
		assert.Equal(t, ` ORDER BY "price" DESC, "name" ASC`, order)
	})

	t.Run("unknown sort fields are rejected", func(t *testing.T) {
		c := newCompiler(sqliteDialect{}, shopItems)
		_, err := c.orderBy([]store.Order{store.Asc("evil;--")})
		assert.ErrorIs(t, err, store.ErrValidation)
	})
}

func TestDSNBuilders(t *testing.T) {
	t.Run("mysql", func(t *testing.T) {
		dsn := mysqlDialect{}.DSN(store.MySQLOptions(
			store.WithDatabase("heritage"), store.WithUsername("app"), store.WithPassword("pw")))
		assert.Contains(t, dsn, "app:pw@tcp(localhost:3306)/heritage")
		assert.Contains(t, dsn, "parseTime=true")
	})

	t.Run("postgres", func(t *testing.T) {
		dsn := postgresDialect{}.DSN(store.PostgresOptions(
			store.WithDatabase("heritage"), store.WithUsername("app")))
		assert.Contains(t, dsn, "host=localhost")
		assert.Contains(t, dsn, "dbname=heritage")
		assert.Contains(t, dsn, "sslmode=disable")
		assert.NotContains(t, dsn, "password")
	})

	t.Run("sqlite memory", func(t *testing.T) {
		dsn := sqliteDialect{}.DSN(store.SQLiteOptions(":memory:"))
		assert.Contains(t, dsn, ":memory:")
	})
}
