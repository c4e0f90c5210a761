package sqlstore

import (
	_ "github.com/mattn/go-sqlite3"

	"github.com/sen-heritage/store"
	"github.com/sen-heritage/store/schema"
)

func init() {
	Register(sqliteDialect{})
}

type sqliteDialect struct{}

func (sqliteDialect) Name() store.Backend { return store.BackendSQLite }
func (sqliteDialect) Driver() string      { return "sqlite3" }

// DSN returns the datafile path. ":memory:" and "file:" URIs pass through
// unchanged; plain paths get foreign keys enabled.
func (sqliteDialect) DSN(cfg store.Config) string {
	path := cfg.FilePath
	if path == "" {
		path = ":memory:"
	}
	if path == ":memory:" {
		return "file::memory:?cache=shared&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func (sqliteDialect) Placeholder(int) string { return "?" }

func (sqliteDialect) QuoteIdent(name string) string { return `"` + name + `"` }

func (sqliteDialect) LikeOperator() string { return "LIKE" }

func (sqliteDialect) ColumnType(col schema.Column) string {
	switch col.Type {
	case schema.TypeInt:
		return "INTEGER"
	case schema.TypeDecimal:
		return "REAL"
	case schema.TypeString, schema.TypeText, schema.TypeJSON:
		return "TEXT"
	case schema.TypeBool:
		return "BOOLEAN"
	case schema.TypeTime:
		return "DATETIME"
	default:
		return "TEXT"
	}
}

func (sqliteDialect) AutoIncPK() string { return "INTEGER PRIMARY KEY AUTOINCREMENT" }

func (sqliteDialect) CreateTableSuffix() string { return "" }

func (sqliteDialect) InlineIndexes() bool { return false }

func (sqliteDialect) SupportsReturning() bool { return false }
