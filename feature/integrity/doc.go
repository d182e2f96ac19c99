// Package integrity provides health checks for the catalog's surroundings.
//
// Unlike the catalog's reconciliation, which compares record content with the canonical
// dataset, this package validates the infrastructure the catalog depends on.
//
// # Checks Provided
//
//   - Structure: the snapshot and canonical prefixes exist in the storage bucket.
//   - Documents: items.json and crafts.json have matching counts, current content keys,
//     no duplicate keys, no duplicate craft names; material names without item records
//     are listed.
//   - Schema: the export database tables match the export models (columns, types).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/documents : Runs document check.
//   - GET /integrity/schema : Runs export schema check.
package integrity
