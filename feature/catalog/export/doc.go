// Package export mirrors the catalog into SQL tables, catalog_items and catalog_crafts,
// for tools that consume the catalog through a database instead of the JSON documents.
//
// Rows are keyed by content key. An export upserts every stored record and removes
// rows whose key no longer exists, all in one transaction.
package export
