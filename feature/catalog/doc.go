// Package catalog implements the item and recipe catalog feature.
//
// Extraction batches produced by screenshot analysis are merged into two deduplicated
// record stores, items and crafts, persisted as items.json and crafts.json. The merge
// pipeline itself lives in the merge subpackage; this package owns the process level
// pieces around it.
//
// # Components
//
//   - Service: Owns the store and merge engine, serializes batches and publishes
//     snapshots of persisted documents to object storage.
//   - Handler: Exposes the ingestion and read endpoints.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - POST /catalog/ingest : Merge an extraction batch and return its report.
//   - GET /catalog/stats : Catalog totals, session counters and the last batch stats.
//   - GET /catalog/items : Stored items (?name= filters by normalized name).
//   - GET /catalog/crafts : Stored crafts (?name= filters by base name).
//   - GET /catalog/session : Records added or updated during this run.
//   - DELETE /catalog/session : Reset the session tracker.
package catalog
