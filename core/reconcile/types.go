package reconcile

import "time"

// Entry is one record of either source. Adapters define the concrete type.
type Entry any

// Result is the reconciliation output for a single entity.
type Result struct {
	// ID is the shared identifier both sources are indexed by.
	ID string `json:"id"`

	// Name is the display name of the entity.
	Name string `json:"name"`

	// LocalPresent indicates whether the entity exists in the local dataset.
	LocalPresent bool `json:"local_present"`

	// CanonicalPresent indicates whether the entity exists in the canonical dataset.
	CanonicalPresent bool `json:"canonical_present"`

	// Mismatch lists field differences, e.g. "tier: local=1 canonical=2".
	Mismatch []string `json:"mismatch"`

	// Metadata contains adapter specific data (e.g. record type, content key).
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Matched reports whether the entity is present on both sides without differences.
func (r Result) Matched() bool {
	return r.LocalPresent && r.CanonicalPresent && len(r.Mismatch) == 0
}

// Query selects a single entity for targeted reconciliation.
type Query struct {
	// ID is the entity identifier.
	ID string

	// Name is matched by the adapter, typically after normalization.
	Name string
}

// Spec bundles the adapter, cache settings and canonical source location.
type Spec struct {
	// Adapter provides model-specific reconciliation logic.
	Adapter Adapter

	// CacheTTL is the time-to-live for cached indices. Zero disables caching.
	CacheTTL time.Duration

	// CanonicalObject is the storage object holding the canonical dataset.
	CanonicalObject string
}

// CacheKey separates caches of different adapters and canonical objects.
func (s *Spec) CacheKey() string {
	return s.Adapter.Name() + "|" + s.CanonicalObject
}

// Summary provides aggregate counts over a set of results.
type Summary struct {
	// Total is the number of unique entities across both sources.
	Total int `json:"total"`

	// Matched counts entities present on both sides without mismatches.
	Matched int `json:"matched"`

	// MissingCanonical counts local entities unknown to the canonical dataset.
	MissingCanonical int `json:"missing_canonical"`

	// MissingLocal counts canonical entities never extracted locally.
	MissingLocal int `json:"missing_local"`

	// Mismatches counts entities with field discrepancies.
	Mismatches int `json:"mismatches"`
}

// Report is a full reconciliation run.
type Report struct {
	Results     []Result  `json:"results"`
	Summary     Summary   `json:"summary"`
	GeneratedAt time.Time `json:"generated_at"`
}
