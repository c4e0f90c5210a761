// Package mongostore implements the store contract on MongoDB. Documents use
// integer _id values so ids stay interchangeable with the other backends,
// and relations are resolved with batched $in lookups rather than $lookup
// pipelines so expand and embed behave identically everywhere.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/sen-heritage/store"
	"github.com/sen-heritage/store/schema"
)

// Store is a MongoDB backend.
type Store struct {
	client    *mongo.Client
	db        *mongo.Database
	log       *zap.SugaredLogger
	relations store.RelationMap
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

// Open connects to the MongoDB deployment described by cfg and verifies the
// connection with a ping.
func Open(ctx context.Context, cfg store.Config, opts ...Option) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	connectCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(connectionURI(cfg)))
	if err != nil {
		return nil, store.NewConnectionError("mongo", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, store.NewConnectionError("mongo", err)
	}

	s := &Store{
		client:    client,
		db:        client.Database(cfg.Database),
		log:       zap.NewNop().Sugar(),
		relations: schema.Relations(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func connectionURI(cfg store.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 27017
	}
	if cfg.Username != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%d/%s", cfg.Username, cfg.Password, host, port, cfg.Database)
	}
	return fmt.Sprintf("mongodb://%s:%d/%s", host, port, cfg.Database)
}

func (s *Store) coll(collection string) *mongo.Collection {
	return s.db.Collection(collection)
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
	var doc bson.M
	err := s.coll(collection).FindOne(ctx, compileFilters(filters, ""),
		options.FindOne().SetSort(compileSort(nil))).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, store.NewQueryError(collection, "findOne", err)
	}
	return decodeDocument(doc), nil
}

// FindMany returns every record matching the filters, newest first.
func (s *Store) FindMany(ctx context.Context, collection string, filters ...store.Filter) ([]store.Record, error) {
	return s.find(ctx, collection, "findMany", compileFilters(filters, ""),
		options.Find().SetSort(compileSort(nil)))
}

func (s *Store) find(ctx context.Context, collection, op string, filter bson.M, opts ...*options.FindOptions) ([]store.Record, error) {
	cur, err := s.coll(collection).Find(ctx, filter, opts...)
	if err != nil {
		return nil, store.NewQueryError(collection, op, err)
	}
	defer cur.Close(ctx)

	out := []store.Record{}
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, store.NewQueryError(collection, op, err)
		}
		out = append(out, decodeDocument(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, store.NewQueryError(collection, op, err)
	}
	return out, nil
}

// FindAllAdvanced runs the descriptor pipeline: countDocuments for the
// total, one find with sort/skip/limit for the page, then batched relation
// lookups for the page only.
func (s *Store) FindAllAdvanced(ctx context.Context, collection string, q *store.Query) (*store.Result, error) {
	if q == nil {
		q = store.NewQuery()
	}

	filter := compileFilters(q.Filters, q.Search)

	total64, err := s.coll(collection).CountDocuments(ctx, filter)
	if err != nil {
		return nil, store.NewQueryError(collection, "count", err)
	}
	total := int(total64)

	pagination := store.Paginate(total, q.Page, q.Limit)
	findOpts := options.Find().
		SetSort(compileSort(q.Sort)).
		SetSkip(int64(store.Offset(pagination.Page, pagination.Limit))).
		SetLimit(int64(pagination.Limit))

	page, err := s.find(ctx, collection, "findAllAdvanced", filter, findOpts)
	if err != nil {
		return nil, err
	}

	if err := store.ResolveRelations(ctx, collection, page, q, s.relations, s.batchFetch); err != nil {
		return nil, store.NewQueryError(collection, "findAllAdvanced", err)
	}

	return &store.Result{Data: page, Pagination: pagination}, nil
}

// batchFetch serves expand/embed with one $in query against the target
// collection.
func (s *Store) batchFetch(ctx context.Context, target, field string, keys []any) ([]store.Record, error) {
	return s.find(ctx, target, "batchFetch",
		bson.M{fieldName(field): bson.M{"$in": keys}}, options.Find())
}

// Create inserts a document with the next integer _id plus timestamps.
func (s *Store) Create(ctx context.Context, collection string, rec store.Record) (store.Record, error) {
	id, err := s.NextID(ctx, collection)
	if err != nil {
		return nil, err
	}

	doc := encodeRecord(rec)
	now := time.Now().UTC().Truncate(time.Second)
	doc["_id"] = id
	doc["createdAt"] = now
	doc["updatedAt"] = now

	if _, err := s.coll(collection).InsertOne(ctx, doc); err != nil {
		return nil, store.NewQueryError(collection, "create", err)
	}
	return s.FindByID(ctx, collection, id)
}

// Update applies a partial record with $set and returns the updated
// document, or nil when the id does not exist.
func (s *Store) Update(ctx context.Context, collection string, id int64, rec store.Record) (store.Record, error) {
	set := encodeRecord(rec)
	delete(set, "_id")
	delete(set, "createdAt")
	set["updatedAt"] = time.Now().UTC().Truncate(time.Second)

	res, err := s.coll(collection).UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return nil, store.NewQueryError(collection, "update", err)
	}
	if res.MatchedCount == 0 {
		return nil, nil
	}
	return s.FindByID(ctx, collection, id)
}

// Delete removes the document with the given id, reporting whether anything
// was removed.
func (s *Store) Delete(ctx context.Context, collection string, id int64) (bool, error) {
	res, err := s.coll(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, store.NewQueryError(collection, "delete", err)
	}
	return res.DeletedCount > 0, nil
}

// NextID returns one past the highest _id in the collection, or 1 when
// empty.
func (s *Store) NextID(ctx context.Context, collection string) (int64, error) {
	var doc bson.M
	err := s.coll(collection).FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}}).SetProjection(bson.M{"_id": 1})).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 1, nil
	}
	if err != nil {
		return 0, store.NewQueryError(collection, "nextId", err)
	}
	max, _ := store.ToInt64(decodeValue(doc["_id"]))
	return max + 1, nil
}

// Close disconnects from the deployment.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ store.Store = (*Store)(nil)
