// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so the catalog can publish snapshots of its record
// documents and download the canonical dataset used for reconciliation. Both AWS S3
// and self-hosted MinIO instances are supported.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: verify or create the target bucket.
//   - PutObject / PutBytes: upload content.
//   - GetObject / ReadAll: retrieve content.
//   - ListObjects: list objects under a prefix.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	err = storage.PutBytes(ctx, client, "catalog", "catalog/items.json", data, "application/json")
package storage
