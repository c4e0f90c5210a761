package sqlstore

import (
	"fmt"
	"net/url"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/sen-heritage/store"
	"github.com/sen-heritage/store/schema"
)

func init() {
	Register(mysqlDialect{})
}

type mysqlDialect struct{}

func (mysqlDialect) Name() store.Backend { return store.BackendMySQL }
func (mysqlDialect) Driver() string      { return "mysql" }

// DSN builds a go-sql-driver connection string. parseTime is always on so
// DATETIME columns scan into time.Time.
func (mysqlDialect) DSN(cfg store.Config) string {
	params := url.Values{}
	params.Set("parseTime", "true")
	params.Set("charset", "utf8mb4")
	if cfg.ConnectTimeout > 0 {
		params.Set("timeout", cfg.ConnectTimeout.String())
	}
	for k, v := range cfg.Options {
		params.Set(k, v)
	}

	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	var b strings.Builder
	if cfg.Username != "" {
		b.WriteString(cfg.Username)
		if cfg.Password != "" {
			b.WriteByte(':')
			b.WriteString(cfg.Password)
		}
		b.WriteByte('@')
	}
	fmt.Fprintf(&b, "tcp(%s:%d)/%s?%s", host, port, cfg.Database, params.Encode())
	return b.String()
}

func (mysqlDialect) Placeholder(int) string { return "?" }

func (mysqlDialect) QuoteIdent(name string) string { return "`" + name + "`" }

func (mysqlDialect) LikeOperator() string { return "LIKE" }

func (mysqlDialect) ColumnType(col schema.Column) string {
	switch col.Type {
	case schema.TypeInt:
		return "INT"
	case schema.TypeDecimal:
		return fmt.Sprintf("DECIMAL(%d,%d)", col.Precision, col.Scale)
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
		return "DATETIME"
	case schema.TypeJSON:
		return "JSON"
	default:
		return "TEXT"
	}
}

func (mysqlDialect) AutoIncPK() string { return "INT AUTO_INCREMENT PRIMARY KEY" }

func (mysqlDialect) CreateTableSuffix() string {
	return " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
}

// MySQL has no CREATE INDEX IF NOT EXISTS, so indexes go inside CREATE TABLE.
func (mysqlDialect) InlineIndexes() bool { return true }

func (mysqlDialect) SupportsReturning() bool { return false }
