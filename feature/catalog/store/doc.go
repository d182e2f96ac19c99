// Package store holds the item and craft records in memory and persists them as two
// JSON documents, items.json and crafts.json.
//
// A Store is loaded once by Open and flushed by Close. Writes replace each document
// through a temporary file and an atomic rename, and a lock file next to the documents
// keeps a second writable Store from opening the same directory.
//
// Store methods are not safe for concurrent use; callers serialize access.
package store
