package reconcile

import (
	"context"

	"craft-catalog/core/storage"
)

// Adapter defines the model-specific side of a reconciliation between a local dataset
// and a canonical dataset stored in object storage.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "catalog").
	Name() string

	// LoadLocalIndex returns the local entities indexed by entity ID.
	LoadLocalIndex(ctx context.Context) (map[string]Entry, error)

	// LoadCanonicalIndex reads objectName from storage and returns its entities indexed
	// by entity ID. Implementations should download and parse the object once.
	LoadCanonicalIndex(ctx context.Context, client storage.Client, bucket, objectName string) (map[string]Entry, error)

	// ResolveName returns the display name given the available entries.
	// Either entry may be nil if not present in that source.
	ResolveName(local, canonical Entry) string

	// CompareFields returns mismatch descriptions. Both entries are non-nil.
	CompareFields(local, canonical Entry) []string

	// GetMetadata returns model-specific metadata for the entity.
	GetMetadata(local, canonical Entry) map[string]string

	// MatchQuery reports whether the entity with id and the given entries satisfies
	// the query. It is used when the query does not name an ID directly.
	MatchQuery(query Query, id string, local, canonical Entry) bool
}
