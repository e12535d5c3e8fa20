package domain

import "context"

// BloomRepository is a probabilistic set of known article ids, consulted before
// hitting the database.
type BloomRepository interface {
	// Add puts an id into the filter
	Add(ctx context.Context, id int64) error

	// Exists reports whether the id may be present.
	// true: maybe present, confirm against the store
	// false: definitely absent
	Exists(ctx context.Context, id int64) (bool, error)

	// BulkAdd adds many ids in one round trip
	BulkAdd(ctx context.Context, ids []int64) error
}
