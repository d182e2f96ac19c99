// Package merge decides, record by record, whether an extracted item or craft is
// inserted into the catalog store, replaces a stored record or is skipped.
//
// Engine.Ingest runs the whole batch pipeline: boundary parsing, the duplicate
// pre-scan, validation, merging, craft name disambiguation and persistence. Each
// record is isolated, so one bad record never aborts the batch.
//
// The replace policy lives in score.go as pure functions over Score values so it can
// be tuned and tested without a store.
package merge
