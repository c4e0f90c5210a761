// Package jsonstore implements the store contract on a single JSON datafile.
// The whole dataset lives in memory; every mutation rewrites the file
// atomically via a temp file and rename, guarded by a cross-process lock.
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sen-heritage/store"
	"github.com/sen-heritage/store/schema"
)

// Store is a JSON-datafile backend.
type Store struct {
	mu        sync.RWMutex
	path      string
	fileLock  *flock.Flock
	log       *zap.SugaredLogger
	relations store.RelationMap
	data      map[string][]store.Record
	closed    bool
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

// Open loads the datafile at path, creating the parent directory if needed.
// A missing or unreadable file is not an error: the store starts from empty
// collections and writes the file on the first mutation.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:      path,
		fileLock:  flock.New(path + ".lock"),
		log:       zap.NewNop().Sugar(),
		relations: schema.Relations(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, store.NewConnectionError("json", err)
		}
	}

	s.load()
	return s, nil
}

// load reads the datafile into memory. Any failure falls back to the empty
// catalog so a fresh or corrupt file never blocks startup.
func (s *Store) load() {
	s.data = emptyCollections()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warnw("datafile unreadable, starting empty", "path", s.path, "error", err)
		}
		return
	}

	var decoded map[string][]map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		s.log.Warnw("datafile corrupt, starting empty", "path", s.path, "error", err)
		return
	}

	for name, rows := range decoded {
		records := make([]store.Record, 0, len(rows))
		for _, row := range rows {
			records = append(records, reviveTemporals(store.Record(row)))
		}
		s.data[name] = records
	}
}

func emptyCollections() map[string][]store.Record {
	data := make(map[string][]store.Record)
	for _, name := range schema.Collections() {
		data[name] = []store.Record{}
	}
	return data
}

// reviveTemporals parses stored timestamp strings back into time.Time.
func reviveTemporals(rec store.Record) store.Record {
	for key, val := range rec {
		if !store.IsTemporalField(key) {
			continue
		}
		if t, ok := store.ParseTime(val); ok {
			rec[key] = t
		} else {
			rec[key] = nil
		}
	}
	return rec
}

// persist writes the in-memory dataset to disk. The write goes to a
// temp file in the same directory and is renamed into place, under the
// file lock, so readers never observe a partial file. A failed persist is
// logged and reported as a PersistError; the in-memory mutation stands.
func (s *Store) persist() error {
	if err := s.fileLock.Lock(); err != nil {
		s.log.Errorw("datafile lock failed", "path", s.path, "error", err)
		return store.NewPersistError(s.path, err)
	}
	defer s.fileLock.Unlock()

	payload, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		s.log.Errorw("datafile encode failed", "path", s.path, "error", err)
		return store.NewPersistError(s.path, err)
	}

	tmp := fmt.Sprintf("%s.%s.tmp", s.path, uuid.NewString())
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		s.log.Errorw("datafile write failed", "path", s.path, "error", err)
		return store.NewPersistError(s.path, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		s.log.Errorw("datafile rename failed", "path", s.path, "error", err)
		return store.NewPersistError(s.path, err)
	}
	return nil
}

func (s *Store) collection(name string) []store.Record {
	if rows, ok := s.data[name]; ok {
		return rows
	}
	return nil
}

// FindAll returns every record in the collection.
func (s *Store) FindAll(ctx context.Context, collection string) ([]store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrClosed
	}

	rows := s.collection(collection)
	out := make([]store.Record, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out, nil
}

// FindByID returns the record with the given id, or nil when absent.
func (s *Store) FindByID(ctx context.Context, collection string, id int64) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrClosed
	}

	if rec := s.findByID(collection, id); rec != nil {
		return rec.Clone(), nil
	}
	return nil, nil
}

func (s *Store) findByID(collection string, id int64) store.Record {
	for _, rec := range s.collection(collection) {
		if store.Equal(rec["id"], id) {
			return rec
		}
	}
	return nil
}

// FindOne returns the first record matching all filters, or nil.
func (s *Store) FindOne(ctx context.Context, collection string, filters ...store.Filter) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrClosed
	}

	for _, rec := range s.collection(collection) {
		if matchesAll(rec, filters) {
			return rec.Clone(), nil
		}
	}
	return nil, nil
}

// FindMany returns every record matching all filters.
func (s *Store) FindMany(ctx context.Context, collection string, filters ...store.Filter) ([]store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrClosed
	}

	out := []store.Record{}
	for _, rec := range s.collection(collection) {
		if matchesAll(rec, filters) {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

// FindAllAdvanced runs the descriptor pipeline in memory: filter, search,
// sort, paginate, then relations for the returned page only.
func (s *Store) FindAllAdvanced(ctx context.Context, collection string, q *store.Query) (*store.Result, error) {
	if q == nil {
		q = store.NewQuery()
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, store.ErrClosed
	}

	matched := []store.Record{}
	for _, rec := range s.collection(collection) {
		if matchesAll(rec, q.Filters) && matchesSearch(rec, q.Search) {
			matched = append(matched, rec)
		}
	}

	sortRecords(matched, q.Sort)

	total := len(matched)
	start, end := store.PageBounds(total, q.Page, q.Limit)
	page := make([]store.Record, end-start)
	for i, rec := range matched[start:end] {
		page[i] = rec.Clone()
	}
	s.mu.RUnlock()

	if err := store.ResolveRelations(ctx, collection, page, q, s.relations, s.batchFetch); err != nil {
		return nil, store.NewQueryError(collection, "findAllAdvanced", err)
	}

	return &store.Result{
		Data:       page,
		Pagination: store.Paginate(total, q.Page, q.Limit),
	}, nil
}

// batchFetch satisfies expand/embed lookups from memory with one scan of the
// target collection per relation.
func (s *Store) batchFetch(ctx context.Context, target, field string, keys []any) ([]store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[any]struct{}, len(keys))
	for _, k := range keys {
		want[store.KeyOf(k)] = struct{}{}
	}

	out := []store.Record{}
	for _, rec := range s.collection(target) {
		v, ok := rec[field]
		if !ok || v == nil {
			continue
		}
		if _, hit := want[store.KeyOf(v)]; hit {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

// Create inserts a record, assigning the next id plus timestamps, and
// persists the datafile. When the persist fails the record is still returned
// alongside the error: the mutation is applied in memory.
func (s *Store) Create(ctx context.Context, collection string, rec store.Record) (store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, store.ErrClosed
	}

	stored := rec.Clone()
	stored["id"] = s.nextID(collection)
	now := time.Now().UTC().Truncate(time.Second)
	stored["createdAt"] = now
	stored["updatedAt"] = now

	s.data[collection] = append(s.collection(collection), stored)

	if err := s.persist(); err != nil {
		return stored.Clone(), err
	}
	return stored.Clone(), nil
}

// Update merges a partial record into the row with the given id. Returns nil
// when the id does not exist. The id, createdAt and updatedAt fields cannot
// be overwritten by the patch.
func (s *Store) Update(ctx context.Context, collection string, id int64, rec store.Record) (store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, store.ErrClosed
	}

	existing := s.findByID(collection, id)
	if existing == nil {
		return nil, nil
	}

	for k, v := range rec {
		if k == "id" || k == "createdAt" {
			continue
		}
		existing[k] = v
	}
	existing["updatedAt"] = time.Now().UTC().Truncate(time.Second)

	if err := s.persist(); err != nil {
		return existing.Clone(), err
	}
	return existing.Clone(), nil
}

// Delete removes the record with the given id, reporting whether anything
// was removed.
func (s *Store) Delete(ctx context.Context, collection string, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, store.ErrClosed
	}

	rows := s.collection(collection)
	for i, rec := range rows {
		if store.Equal(rec["id"], id) {
			s.data[collection] = append(rows[:i:i], rows[i+1:]...)
			if err := s.persist(); err != nil {
				return true, err
			}
			return true, nil
		}
	}
	return false, nil
}

// NextID returns one past the highest id in the collection, or 1 when empty.
func (s *Store) NextID(ctx context.Context, collection string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, store.ErrClosed
	}
	return s.nextID(collection), nil
}

func (s *Store) nextID(collection string) int64 {
	var max int64
	for _, rec := range s.collection(collection) {
		if id, ok := store.ToInt64(rec["id"]); ok && id > max {
			max = id
		}
	}
	return max + 1
}

// Close marks the store closed. The datafile is already durable; nothing is
// flushed here.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ store.Store = (*Store)(nil)

// sortRecords orders records by the requested fields, falling back to
// createdAt descending, the insertion-recency order callers expect.
func sortRecords(records []store.Record, orders []store.Order) {
	if len(orders) == 0 {
		orders = []store.Order{{Field: "createdAt", Desc: true}}
	}
	sort.SliceStable(records, func(i, j int) bool {
		for _, o := range orders {
			c, ok := store.Compare(records[i][o.Field], records[j][o.Field])
			if !ok || c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}
