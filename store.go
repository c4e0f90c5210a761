// Package store provides a uniform persistence contract over a JSON
// datafile, MySQL, PostgreSQL, SQLite and MongoDB. Callers describe queries
// declaratively with a Query descriptor and receive records as plain maps in
// application shape; each backend translates the descriptor to its native
// query language.
package store

import "context"

// Store is the contract every backend satisfies. Lookups that find nothing
// return a nil record and a nil error; errors are reserved for
// infrastructure failures.
type Store interface {
	// FindAll returns every record in a collection.
	FindAll(ctx context.Context, collection string) ([]Record, error)

	// FindByID returns the record with the given primary key, or nil when
	// absent.
	FindByID(ctx context.Context, collection string, id int64) (Record, error)

	// FindOne returns the first record matching the filters, or nil.
	FindOne(ctx context.Context, collection string, filters ...Filter) (Record, error)

	// FindMany returns every record matching the filters.
	FindMany(ctx context.Context, collection string, filters ...Filter) ([]Record, error)

	// FindAllAdvanced runs the full descriptor pipeline: filter, search,
	// relations, sort, then pagination, returning a page plus metadata.
	FindAllAdvanced(ctx context.Context, collection string, q *Query) (*Result, error)

	// Create inserts a record, assigning its id and timestamps, and
	// returns the stored record.
	Create(ctx context.Context, collection string, rec Record) (Record, error)

	// Update applies a partial record to the row with the given id and
	// returns the updated record, or nil when the id does not exist.
	Update(ctx context.Context, collection string, id int64, rec Record) (Record, error)

	// Delete removes the record with the given id. It reports whether a
	// record was removed; a missing id is not an error.
	Delete(ctx context.Context, collection string, id int64) (bool, error)

	// NextID returns the id the next Create in the collection would
	// receive.
	NextID(ctx context.Context, collection string) (int64, error)

	// Close releases the backend's resources.
	Close() error
}
