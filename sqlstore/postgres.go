package sqlstore

import (
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/sen-heritage/store"
	"github.com/sen-heritage/store/schema"
)

func init() {
	Register(postgresDialect{})
}

type postgresDialect struct{}

func (postgresDialect) Name() store.Backend { return store.BackendPostgres }
func (postgresDialect) Driver() string      { return "postgres" }

func (postgresDialect) DSN(cfg store.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	parts := []string{
		fmt.Sprintf("host=%s", host),
		fmt.Sprintf("port=%d", port),
		fmt.Sprintf("dbname=%s", cfg.Database),
		fmt.Sprintf("sslmode=%s", sslMode),
	}
	if cfg.Username != "" {
		parts = append(parts, fmt.Sprintf("user=%s", cfg.Username))
	}
	if cfg.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", cfg.Password))
	}
	if cfg.ConnectTimeout > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", int(cfg.ConnectTimeout.Seconds())))
	}
	for k, v := range cfg.Options {
		parts = append(parts, fmt.Sprintf("%s=%s", k, v))
	}
	return strings.Join(parts, " ")
}

func (postgresDialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (postgresDialect) QuoteIdent(name string) string { return `"` + name + `"` }

func (postgresDialect) LikeOperator() string { return "ILIKE" }

func (postgresDialect) ColumnType(col schema.Column) string {
	switch col.Type {
	case schema.TypeInt:
		return "INTEGER"
	case schema.TypeDecimal:
		return fmt.Sprintf("NUMERIC(%d,%d)", col.Precision, col.Scale)
	case schema.TypeString:
		size := col.Size
		if size == 0 {
			size = 255
		}
		return fmt.Sprintf("VARCHAR(%d)", size)
	case schema.TypeText:
		return "TEXT"
	case schema.TypeBool:
		return "BOOLEAN"
	case schema.TypeTime:
		return "TIMESTAMPTZ"
	case schema.TypeJSON:
		return "JSONB"
	default:
		return "TEXT"
	}
}

func (postgresDialect) AutoIncPK() string { return "SERIAL PRIMARY KEY" }

func (postgresDialect) CreateTableSuffix() string { return "" }

func (postgresDialect) InlineIndexes() bool { return false }

func (postgresDialect) SupportsReturning() bool { return true }
