package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sen-heritage/store"
	"github.com/sen-heritage/store/schema"
)

// Store is a database/sql backend. The same implementation serves every
// registered dialect.
type Store struct {
	db           *sql.DB
	dialect      Dialect
	log          *zap.SugaredLogger
	norm         *store.Normalizer
	relations    store.RelationMap
	tables       map[string]schema.Table
	queryTimeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default logs nowhere.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Store) { s.log = log }
}

// WithRelations overrides the relation declarations.
func WithRelations(m store.RelationMap) Option {
	return func(s *Store) { s.relations = m }
}

// Open connects to the database described by cfg, applies the pool settings
// and verifies the connection with a ping.
func Open(ctx context.Context, cfg store.Config, opts ...Option) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dialect, err := DialectFor(cfg.Type)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.Driver(), dialect.DSN(cfg))
	if err != nil {
		return nil, store.NewConnectionError(string(cfg.Type), err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, store.NewConnectionError(string(cfg.Type), err)
	}

	tables := make(map[string]schema.Table)
	for _, t := range schema.Tables() {
		tables[t.Name] = t
	}

	s := &Store{
		db:           db,
		dialect:      dialect,
		log:          zap.NewNop().Sugar(),
		norm:         schema.Normalizer(),
		relations:    schema.Relations(),
		tables:       tables,
		queryTimeout: cfg.QueryTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// EnsureSchema creates every catalog table and index that does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, t := range schema.Tables() {
		for _, stmt := range CreateStatements(s.dialect, t) {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return store.NewQueryError(t.Name, "ensureSchema", err)
			}
		}
	}
	return nil
}

func (s *Store) table(collection string) (schema.Table, error) {
	t, ok := s.tables[collection]
	if !ok {
		return schema.Table{}, store.NewValidationError("collection", fmt.Sprintf("unknown collection %q", collection))
	}
	return t, nil
}

func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout > 0 {
		return context.WithTimeout(ctx, s.queryTimeout)
	}
	return ctx, func() {}
}

// FindAll returns every record in the collection, newest first.
func (s *Store) FindAll(ctx context.Context, collection string) ([]store.Record, error) {
	return s.FindMany(ctx, collection)
}

// FindByID returns the record with the given id, or nil when absent.
func (s *Store) FindByID(ctx context.Context, collection string, id int64) (store.Record, error) {
	return s.FindOne(ctx, collection, store.Eq("id", id))
}

// FindOne returns the first record matching the filters, or nil.
func (s *Store) FindOne(ctx context.Context, collection string, filters ...store.Filter) (store.Record, error) {
	t, err := s.table(collection)
	if err != nil {
		return nil, err
	}
	c := newCompiler(s.dialect, t)
	where, err := c.where(filters, "")
	if err != nil {
		return nil, err
	}
	order, err := c.orderBy(nil)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT * FROM %s%s%s LIMIT 1", s.dialect.QuoteIdent(t.Name), where, order)
	records, err := s.query(ctx, t, "findOne", query, c.args)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// FindMany returns every record matching the filters, newest first.
func (s *Store) FindMany(ctx context.Context, collection string, filters ...store.Filter) ([]store.Record, error) {
	t, err := s.table(collection)
	if err != nil {
		return nil, err
	}
	c := newCompiler(s.dialect, t)
	where, err := c.where(filters, "")
	if err != nil {
		return nil, err
	}
	order, err := c.orderBy(nil)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT * FROM %s%s%s", s.dialect.QuoteIdent(t.Name), where, order)
	return s.query(ctx, t, "findMany", query, c.args)
}

// FindAllAdvanced runs the descriptor pipeline: one COUNT for the total, one
// SELECT for the page, then relation lookups for the page only.
func (s *Store) FindAllAdvanced(ctx context.Context, collection string, q *store.Query) (*store.Result, error) {
	if q == nil {
		q = store.NewQuery()
	}
	t, err := s.table(collection)
	if err != nil {
		return nil, err
	}

	countC := newCompiler(s.dialect, t)
	where, err := countC.where(q.Filters, q.Search)
	if err != nil {
		return nil, err
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", s.dialect.QuoteIdent(t.Name), where)

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	var total int
	if err := s.db.QueryRowContext(opCtx, countQuery, countC.args...).Scan(&total); err != nil {
		return nil, store.NewQueryError(collection, "count", err)
	}

	pageC := newCompiler(s.dialect, t)
	where, err = pageC.where(q.Filters, q.Search)
	if err != nil {
		return nil, err
	}
	order, err := pageC.orderBy(q.Sort)
	if err != nil {
		return nil, err
	}
	pagination := store.Paginate(total, q.Page, q.Limit)
	limit := pageC.limitOffset(pagination.Page, pagination.Limit)

	query := fmt.Sprintf("SELECT * FROM %s%s%s%s", s.dialect.QuoteIdent(t.Name), where, order, limit)
	page, err := s.query(ctx, t, "findAllAdvanced", query, pageC.args)
	if err != nil {
		return nil, err
	}

	if err := store.ResolveRelations(ctx, collection, page, q, s.relations, s.batchFetch); err != nil {
		return nil, store.NewQueryError(collection, "findAllAdvanced", err)
	}

	return &store.Result{Data: page, Pagination: pagination}, nil
}

// batchFetch serves expand/embed with one IN query against the target table.
func (s *Store) batchFetch(ctx context.Context, target, field string, keys []any) ([]store.Record, error) {
	return s.FindMany(ctx, target, store.In(field, keys...))
}

// Create inserts a record and returns the stored row re-read from the
// database, so defaults and timestamps reflect what was actually written.
func (s *Store) Create(ctx context.Context, collection string, rec store.Record) (store.Record, error) {
	t, err := s.table(collection)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	values, err := s.toColumnValues(t, rec)
	if err != nil {
		return nil, err
	}
	values["created_at"] = now
	values["updated_at"] = now

	cols := make([]string, 0, len(values))
	placeholders := make([]string, 0, len(values))
	args := make([]any, 0, len(values))
	for _, col := range t.Columns {
		v, ok := values[col.Name]
		if !ok {
			continue
		}
		cols = append(cols, s.dialect.QuoteIdent(col.Name))
		placeholders = append(placeholders, s.dialect.Placeholder(len(args)+1))
		args = append(args, v)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.dialect.QuoteIdent(t.Name), strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	var id int64
	if s.dialect.SupportsReturning() {
		query += " RETURNING " + s.dialect.QuoteIdent("id")
		if err := s.db.QueryRowContext(opCtx, query, args...).Scan(&id); err != nil {
			return nil, store.NewQueryError(collection, "create", err)
		}
	} else {
		res, err := s.db.ExecContext(opCtx, query, args...)
		if err != nil {
			return nil, store.NewQueryError(collection, "create", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return nil, store.NewQueryError(collection, "create", err)
		}
	}

	return s.FindByID(ctx, collection, id)
}

// Update applies a partial record to the row with the given id and returns
// the row re-read, or nil when the id does not exist. The row is re-read
// rather than trusting RowsAffected: MySQL reports zero affected rows for a
// no-op update on an existing row.
func (s *Store) Update(ctx context.Context, collection string, id int64, rec store.Record) (store.Record, error) {
	t, err := s.table(collection)
	if err != nil {
		return nil, err
	}

	values, err := s.toColumnValues(t, rec)
	if err != nil {
		return nil, err
	}
	delete(values, "id")
	delete(values, "created_at")
	values["updated_at"] = time.Now().UTC().Truncate(time.Second)

	var sets []string
	var args []any
	for _, col := range t.Columns {
		v, ok := values[col.Name]
		if !ok {
			continue
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = %s", s.dialect.QuoteIdent(col.Name), s.dialect.Placeholder(len(args))))
	}
	if len(sets) == 0 {
		return s.FindByID(ctx, collection, id)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		s.dialect.QuoteIdent(t.Name), strings.Join(sets, ", "),
		s.dialect.QuoteIdent("id"), s.dialect.Placeholder(len(args)))

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.db.ExecContext(opCtx, query, args...); err != nil {
		return nil, store.NewQueryError(collection, "update", err)
	}
	return s.FindByID(ctx, collection, id)
}

// Delete removes the record with the given id, reporting whether a row was
// removed.
func (s *Store) Delete(ctx context.Context, collection string, id int64) (bool, error) {
	t, err := s.table(collection)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		s.dialect.QuoteIdent(t.Name), s.dialect.QuoteIdent("id"), s.dialect.Placeholder(1))

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(opCtx, query, id)
	if err != nil {
		return false, store.NewQueryError(collection, "delete", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, store.NewQueryError(collection, "delete", err)
	}
	return affected > 0, nil
}

// NextID returns one past the highest id in the table, or 1 when empty.
func (s *Store) NextID(ctx context.Context, collection string) (int64, error) {
	t, err := s.table(collection)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) + 1 FROM %s",
		s.dialect.QuoteIdent("id"), s.dialect.QuoteIdent(t.Name))

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	var next int64
	if err := s.db.QueryRowContext(opCtx, query).Scan(&next); err != nil {
		return 0, store.NewQueryError(collection, "nextId", err)
	}
	return next, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ store.Store = (*Store)(nil)

func (s *Store) query(ctx context.Context, t schema.Table, op, query string, args []any) ([]store.Record, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(opCtx, query, args...)
	if err != nil {
		return nil, store.NewQueryError(t.Name, op, err)
	}
	defer rows.Close()

	records, err := s.scanRows(rows, t)
	if err != nil {
		return nil, store.NewQueryError(t.Name, op, err)
	}
	return records, nil
}

// toColumnValues converts an application record to driver arguments: keys
// become columns, temporals become time.Time, JSON blob fields are
// serialized. Keys that do not map to a declared column are dropped.
func (s *Store) toColumnValues(t schema.Table, rec store.Record) (map[string]any, error) {
	byName := make(map[string]schema.Column, len(t.Columns))
	for _, col := range t.Columns {
		byName[col.Name] = col
	}

	out := make(map[string]any, len(rec))
	for field, val := range rec {
		name := store.SnakeCase(field)
		col, ok := byName[name]
		if !ok {
			if name == "id" {
				out["id"] = val
			}
			continue
		}

		switch {
		case val == nil:
			out[name] = nil
		case col.Type == schema.TypeJSON:
			raw, err := json.Marshal(val)
			if err != nil {
				return nil, store.NewValidationError(field, fmt.Sprintf("not serializable: %v", err))
			}
			out[name] = string(raw)
		case col.Type == schema.TypeTime:
			parsed, ok := store.ParseTime(val)
			if !ok {
				out[name] = nil
			} else {
				out[name] = parsed
			}
		default:
			out[name] = val
		}
	}
	return out, nil
}
