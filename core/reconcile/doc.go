// Package reconcile compares a local dataset against a canonical dataset kept in
// object storage and reports, per entity, which side knows it and where they disagree.
//
// # Architecture
//
// 1. Engine: builds the union of IDs from both indices, detects presence or absence
//    and collects field mismatches.
//
// 2. Adapter: model-specific loading, naming and field comparison. The engine never
//    inspects entries itself.
//
// 3. Cache: TTL-based index cache with stampede protection, used when a Spec sets
//    CacheTTL. Both indices are loaded concurrently.
//
// # Usage Example
//
//	spec := &reconcile.Spec{
//	    Adapter:         catalogreconcile.NewAdapter(svc),
//	    CacheTTL:        30 * time.Second,
//	    CanonicalObject: "canonical/catalog.json",
//	}
//
//	report, err := reconcile.Run(ctx, spec, storageClient, bucket)
//	result, err := reconcile.ReconcileOne(ctx, spec, storageClient, bucket, reconcile.Query{Name: "Iron Ingot"})
package reconcile
