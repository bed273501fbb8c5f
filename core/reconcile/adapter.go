package reconcile

import "context"

// Adapter defines how one kind of entity is loaded from the database and
// from storage.
type Adapter interface {
	// Name returns the unique name of this adapter.
	Name() string

	// LoadDBIndex loads all relevant database rows indexed by entity key.
	LoadDBIndex(ctx context.Context) (map[string]DBItem, error)

	// LoadStorageSet lists storage once and returns the set of entity keys.
	LoadStorageSet(ctx context.Context) (map[string]struct{}, error)

	// GetMetadata describes a database row for reports.
	GetMetadata(item DBItem) map[string]string
}

// Mutator is implemented by adapters that can apply purge actions.
type Mutator interface {
	DeleteDB(ctx context.Context, keys []string) error
	DeleteStorage(ctx context.Context, keys []string) error
}
