package catalog

// Config holds configuration for the catalog feature.
type Config struct {
	// DataDir holds items.json, crafts.json and the store lock.
	DataDir string `mapstructure:"data_dir" default:"data"`
	// MinConfidence is the validation threshold for items and crafts.
	MinConfidence float64 `mapstructure:"min_confidence" default:"0.7"`
	// Source tags records of batches that do not name their own source.
	Source string `mapstructure:"source" default:"vision"`
	// PublishSnapshots uploads both documents to object storage after every persisted change.
	PublishSnapshots bool `mapstructure:"publish_snapshots" default:"false"`
	// SnapshotPrefix is the object prefix of published documents.
	SnapshotPrefix string `mapstructure:"snapshot_prefix" default:"catalog/"`
	// CanonicalObject is the object holding the authoritative dataset used by reconciliation.
	CanonicalObject string `mapstructure:"canonical_object" default:"canonical/catalog.json"`
	// ReconcileCacheSeconds is how long reconciliation indices are reused.
	ReconcileCacheSeconds int `mapstructure:"reconcile_cache_seconds" default:"30"`
}
