// Package sqlstore implements the store contract on database/sql. One store
// type serves MySQL, PostgreSQL and SQLite; the differences between them
// live behind the Dialect interface.
package sqlstore

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sen-heritage/store"
	"github.com/sen-heritage/store/schema"
)

// Dialect captures what differs between the supported SQL engines: driver
// name, connection string format, placeholder style, type mapping and a few
// DDL quirks.
type Dialect interface {
	// Name is the dialect identifier, matching the config backend type.
	Name() store.Backend

	// Driver is the database/sql driver to open.
	Driver() string

	// DSN builds the driver connection string from a config.
	DSN(cfg store.Config) string

	// Placeholder renders the n-th bind parameter, 1-based.
	Placeholder(n int) string

	// QuoteIdent quotes a table or column identifier.
	QuoteIdent(name string) string

	// LikeOperator is the case-insensitive substring operator.
	LikeOperator() string

	// ColumnType maps a schema column to the engine's column type.
	ColumnType(col schema.Column) string

	// AutoIncPK renders the auto-incrementing primary key column.
	AutoIncPK() string

	// CreateTableSuffix is appended after the closing parenthesis of
	// CREATE TABLE, for engine or charset clauses.
	CreateTableSuffix() string

	// InlineIndexes reports whether secondary indexes must be declared
	// inside CREATE TABLE rather than as separate statements.
	InlineIndexes() bool

	// SupportsReturning reports whether INSERT ... RETURNING id works.
	SupportsReturning() bool
}

var (
	dialectsMu sync.RWMutex
	dialects   = make(map[store.Backend]Dialect)
)

// Register makes a dialect available to Open. Drivers register themselves
// from init, mirroring database/sql.
func Register(d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	if d == nil {
		panic("sqlstore: Register dialect is nil")
	}
	if _, dup := dialects[d.Name()]; dup {
		panic("sqlstore: Register called twice for dialect " + string(d.Name()))
	}
	dialects[d.Name()] = d
}

// DialectFor returns the registered dialect for a backend type.
func DialectFor(backend store.Backend) (Dialect, error) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[backend]
	if !ok {
		return nil, store.NewValidationError("type", fmt.Sprintf("no SQL dialect registered for %q", backend))
	}
	return d, nil
}

// Dialects lists the registered dialect names, sorted.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}
